package pipeline

import (
	"context"
	"reflect"
	"strconv"
)

// Step transforms the value produced by the previous step.
// Synchronous and asynchronous steps are both normalised to a Future.
type Step[T any] interface {
	Call(ctx context.Context, in T) *Future[T]
}

// Func is a synchronous step.
type Func[T any] func(ctx context.Context, in T) (T, error)

// Call runs the function inline and wraps its result in a settled future.
func (fn Func[T]) Call(ctx context.Context, in T) *Future[T] {
	out, err := fn(ctx, in)
	if err != nil {
		return Rejected[T](err)
	}

	return Resolved(out)
}

// AsyncFunc is an asynchronous step.
type AsyncFunc[T any] func(ctx context.Context, in T) *Future[T]

// Call returns the future produced by the function.
func (fn AsyncFunc[T]) Call(ctx context.Context, in T) *Future[T] {
	return fn(ctx, in)
}

// Sync returns fn as a Step.
func Sync[T any](fn func(ctx context.Context, in T) (T, error)) Step[T] {
	if fn == nil {
		return nil
	}

	return Func[T](fn)
}

// Async returns fn as a Step.
func Async[T any](fn func(ctx context.Context, in T) *Future[T]) Step[T] {
	if fn == nil {
		return nil
	}

	return AsyncFunc[T](fn)
}

// Map returns a step that cannot fail.
func Map[T any](fn func(in T) T) Step[T] {
	if fn == nil {
		return nil
	}

	return Func[T](func(_ context.Context, in T) (T, error) {
		return fn(in), nil
	})
}

// call invokes step, turning a panic or a missing future into a rejected future.
func call[T any](ctx context.Context, step Step[T], in T) (fut *Future[T]) {
	defer func() {
		if r := recover(); r != nil {
			fut = Rejected[T](panicError(r))
		}
	}()

	fut = step.Call(ctx, in)
	if fut == nil {
		return Rejected[T](ErrNilFuture)
	}

	return fut
}

type namedStep[T any] struct {
	Step[T]
	name string
}

func (s *namedStep[T]) Name() string {
	return s.name
}

// Named attaches a name to a step. Names only show up in pipeline options.
func Named[T any](name string, step Step[T]) Step[T] {
	if isNil(step) {
		return nil
	}

	return &namedStep[T]{Step: step, name: name}
}

func stepName(idx int, step any) string {
	if n, ok := step.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}

	return "step " + strconv.Itoa(idx+1)
}

// isNil reports whether v is nil, or a typed nil hidden behind an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
