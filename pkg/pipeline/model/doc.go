// Package model provides the data structures shared by the pipeline package and its options.
// It defines the step descriptions handed to pipeline options, the outcome of a step or a run,
// and the option contract itself.
package model
