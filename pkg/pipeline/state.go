package pipeline

import (
	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

type stateKind int

const (
	continuing stateKind = iota
	terminal
	falsy
	failed
)

// state is the invocation state of one run. It is a value, each run owns its own copy.
type state[T any] struct {
	value T
	err   error
	kind  stateKind
}

func (s state[T]) shortCircuited() bool {
	return s.kind != continuing
}

func (s state[T]) outcome() model.Outcome {
	switch s.kind {
	case terminal:
		return model.OutcomeTerminal
	case falsy:
		return model.OutcomeFalsy
	case failed:
		return model.OutcomeFailed
	default:
		return model.OutcomeOK
	}
}

// inspect classifies the running value. Terminal responses take precedence over falsy values.
func (p *Pipeline[T]) inspect(s state[T]) state[T] {
	if s.shortCircuited() {
		return s
	}

	switch {
	case p.isTerminal(s.value):
		s.kind = terminal
	case p.isFalsy(s.value):
		s.kind = falsy
	}

	return s
}
