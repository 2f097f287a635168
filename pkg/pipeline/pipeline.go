package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

// Pipeline is an immutable, ordered list of steps. It can be run any number of times,
// concurrently, each run owning its own state.
type Pipeline[T any] struct {
	isFalsy    func(v T) bool
	isTerminal func(v T) bool
	steps      []Step[T]
	details    []*model.StepInfo
	opts       []model.PipelineOption
	concurrent int
}

// New creates a pipeline running steps from left to right.
func New[T any](steps ...Step[T]) (*Pipeline[T], error) {
	return FromSlice(steps)
}

// FromSlice creates a pipeline from an ordered slice of steps.
// The slice is copied, changing it afterwards does not affect the pipeline.
func FromSlice[T any](steps []Step[T], opts ...Option[T]) (*Pipeline[T], error) {
	if len(steps) == 0 {
		return nil, errNoSteps()
	}

	pipe := &Pipeline[T]{
		isFalsy:    func(v T) bool { return IsFalsy(v) },
		isTerminal: func(v T) bool { return IsTerminal(v) },
		steps:      make([]Step[T], len(steps)),
		details:    make([]*model.StepInfo, len(steps)),
	}

	for idx, step := range steps {
		if isNil(step) {
			return nil, errNotCallable(idx, step)
		}

		pipe.steps[idx] = step
		pipe.details[idx] = &model.StepInfo{Index: idx, Name: stepName(idx, step)}
	}

	for _, opt := range opts {
		opt(pipe)
	}

	for _, opt := range pipe.opts {
		err := opt.New(pipe.details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Run starts a run with in as the initial value and returns immediately.
// The future resolves to the final value, or rejects with the first error returned by a step.
func (p *Pipeline[T]) Run(ctx context.Context, in T) *Future[T] {
	fut := newFuture[T]()

	go func() {
		out, err := p.run(ctx, in)
		fut.settle(out, err)
	}()

	return fut
}

// Do runs the pipeline and waits for the result.
func (p *Pipeline[T]) Do(ctx context.Context, in T) (T, error) {
	return p.Run(ctx, in).Await(ctx)
}

// RunAll runs the pipeline once per input, concurrently. Results keep the order of inputs.
// It returns the first error encountered.
func (p *Pipeline[T]) RunAll(ctx context.Context, inputs []T) ([]T, error) {
	results := make([]T, len(inputs))

	errGrp, dCtx := errgroup.WithContext(ctx)
	if p.concurrent > 0 {
		errGrp.SetLimit(p.concurrent)
	}

	for idx, in := range inputs {
		errGrp.Go(func() error {
			out, err := p.Run(dCtx, in).Await(dCtx)
			if err != nil {
				return err
			}

			results[idx] = out

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

// IsTerminal reports whether v ends a run of this pipeline as a terminal response.
// It uses the predicate set with WithTerminal, IsTerminal otherwise.
func (p *Pipeline[T]) IsTerminal(v T) bool {
	return p.isTerminal(v)
}

// IsFalsy reports whether v ends a run of this pipeline as a falsy value.
// It uses the predicate set with WithFalsy, IsFalsy otherwise.
func (p *Pipeline[T]) IsFalsy(v T) bool {
	return p.isFalsy(v)
}

// Steps describes the steps of the pipeline, in execution order.
func (p *Pipeline[T]) Steps() []model.StepInfo {
	res := make([]model.StepInfo, len(p.details))
	for i, d := range p.details {
		res[i] = *d
	}

	return res
}

// Finish flushes the pipeline options.
func (p *Pipeline[T]) Finish() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

// run folds the steps over in. Predicates and options panicking reject the run like a panicking step.
func (p *Pipeline[T]) run(ctx context.Context, in T) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, panicError(r)
		}
	}()

	start := time.Now()

	for _, opt := range p.opts {
		ctx = opt.BeforeRun(ctx)
	}

	curr := state[T]{value: in}
	for idx, step := range p.steps {
		curr = p.advance(ctx, p.details[idx], step, curr)
	}

	// classify the last value so options see why the run ended
	curr = p.inspect(curr)

	for _, opt := range p.opts {
		opt.AfterRun(ctx, curr.outcome(), curr.err, time.Since(start))
	}

	if curr.kind == failed {
		var zero T

		return zero, curr.err
	}

	return curr.value, nil
}

// advance applies one step to the running state.
func (p *Pipeline[T]) advance(ctx context.Context, info *model.StepInfo, step Step[T], curr state[T]) state[T] {
	curr = p.inspect(curr)
	if curr.shortCircuited() {
		p.onStepOutput(ctx, info, model.OutcomeSkipped, nil, 0)

		return curr
	}

	stepCtx := ctx
	for _, opt := range p.opts {
		stepCtx = opt.BeforeStep(stepCtx, info)
	}

	startFn := time.Now()
	out, err := call(stepCtx, step, curr.value).wait()
	endFn := time.Since(startFn)

	if err != nil {
		p.onStepOutput(stepCtx, info, model.OutcomeFailed, err, endFn)

		return state[T]{kind: failed, err: err}
	}

	p.onStepOutput(stepCtx, info, model.OutcomeOK, nil, endFn)

	return state[T]{value: out}
}

func (p *Pipeline[T]) onStepOutput(ctx context.Context, info *model.StepInfo, outcome model.Outcome, err error, elapsed time.Duration) {
	for _, opt := range p.opts {
		opt.OnStepOutput(ctx, info, outcome, err, elapsed)
	}
}
