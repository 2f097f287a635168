package pipeline

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when a pipeline cannot be built from the supplied steps.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNilFuture is the failure recorded when an asynchronous step returns no future.
	ErrNilFuture = errors.New("step returned a nil future")
)

func errNoSteps() error {
	return errors.Wrap(ErrInvalidArgument,
		"no steps passed - provide one or more step functions or a single slice of step functions")
}

func errNotCallable(idx int, candidate any) error {
	return errors.Wrapf(ErrInvalidArgument,
		"element %d (%T) is not a step: only functions or a single slice of functions are accepted", idx, candidate)
}

// PanicError holds a non-error value a step panicked with.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("step panicked: %v", e.Value)
}

// panicError turns a recovered value into the error surfaced by the run.
// A step panicking with an error is treated like a step returning it.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}

	return &PanicError{Value: r, Stack: debug.Stack()}
}
