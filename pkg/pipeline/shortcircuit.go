package pipeline

import (
	"math"
	"reflect"
)

// TerminalResponse is implemented by values that end a run as they are.
// Once a step returns one, no further step is invoked and the run resolves to it.
type TerminalResponse interface {
	TerminalResponse()
}

// IsTerminal reports whether v is a non-nil TerminalResponse.
func IsTerminal(v any) bool {
	if _, ok := v.(TerminalResponse); !ok {
		return false
	}

	return !isNil(v)
}

// IsFalsy reports whether v carries no value: nil, false, zero, NaN, the empty string,
// or a nil pointer, map, slice, func, chan or interface.
// Non-nil empty maps and slices, arrays and structs are never falsy.
func IsFalsy(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()

		return f == 0 || math.IsNaN(f)
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() == 0
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
