// Package pipeline provides a sequential step executor for request interception.
//
// A pipeline is an ordered list of steps. Running it folds the steps from left to right over an
// input value: every step receives the value produced by the previous one. Steps can be
// synchronous (Func) or asynchronous (AsyncFunc), both are normalised to a Future so they can be
// mixed freely.
//
// A run stops invoking steps as soon as one of these conditions holds, and the remaining steps
// are skipped:
//
//   - the running value is a TerminalResponse: the run resolves to it unchanged.
//   - the running value is falsy (see IsFalsy): the run resolves to it unchanged.
//   - a step returns an error, rejects its future or panics: the run rejects with that exact error.
//
// The terminal check happens before the falsy check. Step errors are never wrapped.
//
// A pipeline is immutable once built and can be run concurrently, every run keeps its own state.
// Pipeline options (see the model package) observe runs to collect metrics, draw the pipeline or
// trace it.
package pipeline
