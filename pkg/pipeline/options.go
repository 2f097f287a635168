package pipeline

import (
	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

type Option[T any] func(p *Pipeline[T])

// WithFalsy replaces IsFalsy as the falsy short-circuit check.
func WithFalsy[T any](isFalsy func(v T) bool) Option[T] {
	return func(p *Pipeline[T]) {
		if isFalsy != nil {
			p.isFalsy = isFalsy
		}
	}
}

// WithTerminal replaces IsTerminal as the terminal response check.
func WithTerminal[T any](isTerminal func(v T) bool) Option[T] {
	return func(p *Pipeline[T]) {
		if isTerminal != nil {
			p.isTerminal = isTerminal
		}
	}
}

// WithHooks registers pipeline options observing every run.
func WithHooks[T any](opts ...model.PipelineOption) Option[T] {
	return func(p *Pipeline[T]) {
		for _, opt := range opts {
			if opt != nil {
				p.opts = append(p.opts, opt)
			}
		}
	}
}

// WithConcurrency limits the number of runs RunAll starts at once. 0 means no limit.
func WithConcurrency[T any](concurrent int) Option[T] {
	return func(p *Pipeline[T]) {
		p.concurrent = concurrent
	}
}
