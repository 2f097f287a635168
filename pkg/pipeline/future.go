package pipeline

import (
	"context"
)

// Future is a value, or an error, that becomes available once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) settle(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Resolved returns a future already holding val.
func Resolved[T any](val T) *Future[T] {
	f := newFuture[T]()
	f.settle(val, nil)

	return f
}

// Rejected returns a future already holding err.
func Rejected[T any](err error) *Future[T] {
	f := newFuture[T]()

	var zero T
	f.settle(zero, err)

	return f
}

// Go runs fn on its own goroutine and returns a future for its result.
// A panic in fn rejects the future instead of crashing the process.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()

	go func() {
		var (
			val T
			err error
		)

		defer func() {
			if r := recover(); r != nil {
				var zero T
				val, err = zero, panicError(r)
			}
			f.settle(val, err)
		}()

		val, err = fn(ctx)
	}()

	return f
}

// Done is closed once the future settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the future to settle. It gives up when ctx is done, the future itself keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}

// wait blocks until the future settled. Used by the executor, which never cancels a step.
func (f *Future[T]) wait() (T, error) {
	<-f.done

	return f.val, f.err
}
