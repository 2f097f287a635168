package model

import (
	"context"
	"time"
)

// PipelineOption defines the interface for pipeline options.
//
// A pipeline is reused across concurrent runs, every method apart from New must be safe
// for concurrent use. Options observe a run, they cannot change its values or errors.
type PipelineOption interface {
	// New initialises the pipeline option with the ordered list of steps.
	New(steps []*StepInfo) error

	pipelineRunOption
	pipelineStepOption

	// Finish flushes whatever the option accumulated.
	Finish() error
}

// pipelineRunOption defines the interface for run options at the pipeline level.
type pipelineRunOption interface {
	// BeforeRun runs before the first step. The returned context is used for the whole run.
	BeforeRun(ctx context.Context) context.Context
	// AfterRun runs once the run settled.
	AfterRun(ctx context.Context, outcome Outcome, err error, totalDuration time.Duration)
}

// pipelineStepOption defines the interface for step options at the pipeline level.
type pipelineStepOption interface {
	// BeforeStep runs right before a step is invoked. The returned context is handed to the step.
	BeforeStep(ctx context.Context, step *StepInfo) context.Context
	// OnStepOutput runs after every step, including the ones that were skipped.
	OnStepOutput(ctx context.Context, step *StepInfo, outcome Outcome, err error, computationDuration time.Duration)
}

// BaseOption implements PipelineOption with no-op methods. Embed it to only override what you need.
type BaseOption struct{}

func (BaseOption) New([]*StepInfo) error { return nil }

func (BaseOption) BeforeRun(ctx context.Context) context.Context { return ctx }

func (BaseOption) AfterRun(context.Context, Outcome, error, time.Duration) {}

func (BaseOption) BeforeStep(ctx context.Context, _ *StepInfo) context.Context { return ctx }

func (BaseOption) OnStepOutput(context.Context, *StepInfo, Outcome, error, time.Duration) {}

func (BaseOption) Finish() error { return nil }

var _ PipelineOption = BaseOption{}
