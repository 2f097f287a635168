package pipeline

import (
	"context"
	"reflect"
)

// Build creates an untyped pipeline from loosely typed arguments.
//
// A single slice or array argument is read as the ordered list of steps, anything else is read
// as one step per argument. Each step must be one of:
//
//	Step[any]
//	func(any) any
//	func(any) (any, error)
//	func(context.Context, any) (any, error)
//	func(context.Context, any) *Future[any]
func Build(args ...any) (*Pipeline[any], error) {
	if len(args) == 0 {
		return nil, errNoSteps()
	}

	candidates := args
	if len(args) == 1 {
		if items, ok := asList(args[0]); ok {
			candidates = items
		}
	}

	steps := make([]Step[any], len(candidates))
	for idx, candidate := range candidates {
		step, ok := toStep(candidate)
		if !ok {
			return nil, errNotCallable(idx, candidate)
		}

		steps[idx] = step
	}

	return FromSlice(steps)
}

func asList(arg any) ([]any, bool) {
	if items, ok := arg.([]any); ok {
		return items, true
	}

	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}

func toStep(candidate any) (Step[any], bool) {
	if isNil(candidate) {
		return nil, false
	}

	switch fn := candidate.(type) {
	case Step[any]:
		return fn, true
	case func(any) any:
		return Map(fn), true
	case func(any) (any, error):
		return Func[any](func(_ context.Context, in any) (any, error) {
			return fn(in)
		}), true
	case func(context.Context, any) (any, error):
		return Func[any](fn), true
	case func(context.Context, any) *Future[any]:
		return AsyncFunc[any](fn), true
	default:
		return convertStep(candidate)
	}
}

var stepSignatures = []reflect.Type{
	reflect.TypeFor[func(any) any](),
	reflect.TypeFor[func(any) (any, error)](),
	reflect.TypeFor[func(context.Context, any) (any, error)](),
	reflect.TypeFor[func(context.Context, any) *Future[any]](),
}

// convertStep accepts named function types sharing one of the step signatures.
func convertStep(candidate any) (Step[any], bool) {
	rv := reflect.ValueOf(candidate)
	if rv.Kind() != reflect.Func {
		return nil, false
	}

	for _, sig := range stepSignatures {
		if rv.CanConvert(sig) {
			return toStep(rv.Convert(sig).Interface())
		}
	}

	return nil, false
}
