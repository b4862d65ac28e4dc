package param

import (
	"fmt"
	"math"
)

// Coerce converts a loosely typed input (from a script or a text field) into
// the variant of cur. Integers are accepted for float kinds; floats are
// accepted for int kinds only when they have no fractional part. Range checks
// are left to Map.Set.
func Coerce(cur Value, x any) (Value, error) {
	switch cur.(type) {
	case Int, RangedInt:
		n, err := toInt32(x)
		if err != nil {
			return nil, err
		}
		if _, ranged := cur.(RangedInt); ranged {
			return RangedInt{Val: n}, nil
		}
		return Int(n), nil
	case Float, RangedFloat:
		f, err := toFloat32(x)
		if err != nil {
			return nil, err
		}
		if _, ranged := cur.(RangedFloat); ranged {
			return RangedFloat{Val: f}, nil
		}
		return Float(f), nil
	case Bool:
		b, ok := x.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, x)
		}
		return Bool(b), nil
	}
	return nil, fmt.Errorf("%w: unknown stored kind %T", ErrTypeMismatch, cur)
}

func toInt32(x any) (int32, error) {
	var f float64
	switch n := x.(type) {
	case int:
		f = float64(n)
	case int32:
		return n, nil
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, x)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: want integer, got %g", ErrTypeMismatch, f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %g overflows int32", ErrConstraintViolation, f)
	}
	return int32(f), nil
}

func toFloat32(x any) (float32, error) {
	switch n := x.(type) {
	case int:
		return float32(n), nil
	case int32:
		return float32(n), nil
	case int64:
		return float32(n), nil
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	}
	return 0, fmt.Errorf("%w: want number, got %T", ErrTypeMismatch, x)
}
