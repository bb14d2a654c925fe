package eval

import "math"

// Truthy implements the engine's language-independent truthiness used by
// Conditional, predicate composition, and Iterate's FILTER/FIND: nil,
// false, the zero value of every numeric kind, NaN, and "" are falsy;
// everything else (including empty slices/maps) is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}
