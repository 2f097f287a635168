package model

// Outcome describes what happened to a step, or to a whole run.
type Outcome string

const (
	// OutcomeOK means the step was invoked and produced a value.
	OutcomeOK Outcome = "ok"
	// OutcomeFailed means the step returned an error, its future rejected or it panicked.
	OutcomeFailed Outcome = "failed"
	// OutcomeTerminal means a terminal response stopped the run.
	OutcomeTerminal Outcome = "terminal"
	// OutcomeFalsy means a falsy value stopped the run.
	OutcomeFalsy Outcome = "falsy"
	// OutcomeSkipped means the step was not invoked because the run had already short-circuited.
	OutcomeSkipped Outcome = "skipped"
)

// StepInfo describes one step of a pipeline.
type StepInfo struct {
	Name  string
	Index int
}

// StartStep and EndStep are the virtual steps surrounding every pipeline.
var (
	StartStep = &StepInfo{Name: "start", Index: -1}
	EndStep   = &StepInfo{Name: "end", Index: -1}
)
