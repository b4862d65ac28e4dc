// Package param implements typed, named parameter storage for noise nodes.
// A Map preserves insertion order so editors can present parameters in the
// order the node type declares them.
package param

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindInt         Kind = iota // 32-bit signed integer
	KindRangedInt               // integer constrained to [Min, Max]
	KindFloat                   // 32-bit float
	KindRangedFloat             // float constrained to [Min, Max]
	KindBool                    // boolean flag
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindRangedInt:
		return "ranged-int"
	case KindFloat:
		return "float"
	case KindRangedFloat:
		return "ranged-float"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the closed set of parameter variants. Only types in this package
// implement it.
type Value interface {
	Kind() Kind
	// Valid reports whether the value satisfies its own constraint.
	Valid() bool
	String() string
	value() // marker method restricting implementations to this package
}

// Int is an unconstrained 32-bit integer parameter.
type Int int32

func (Int) Kind() Kind       { return KindInt }
func (Int) Valid() bool      { return true }
func (v Int) String() string { return fmt.Sprintf("%d", int32(v)) }
func (Int) value()           {}

// Float is an unconstrained 32-bit float parameter.
type Float float32

func (Float) Kind() Kind { return KindFloat }

// Valid rejects NaN and infinities; evaluators cannot use them.
func (v Float) Valid() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
func (v Float) String() string { return fmt.Sprintf("%g", float32(v)) }
func (Float) value()           {}

// Bool is a boolean flag parameter.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (Bool) Valid() bool      { return true }
func (v Bool) String() string { return fmt.Sprintf("%t", bool(v)) }
func (Bool) value()           {}

// RangedInt is an integer whose value must lie in the inclusive range
// [Min, Max].
type RangedInt struct {
	Min int32 `json:"min"`
	Max int32 `json:"max"`
	Val int32 `json:"val"`
}

// NewRangedInt mirrors the argument order of the default tables: bounds
// first, then the initial value.
func NewRangedInt(min, max, val int32) RangedInt {
	return RangedInt{Min: min, Max: max, Val: val}
}

func (RangedInt) Kind() Kind { return KindRangedInt }

func (v RangedInt) Valid() bool {
	return v.Min <= v.Max && v.Val >= v.Min && v.Val <= v.Max
}

func (v RangedInt) String() string {
	return fmt.Sprintf("%d [%d..%d]", v.Val, v.Min, v.Max)
}
func (RangedInt) value() {}

// With returns a copy carrying val and the receiver's bounds.
func (v RangedInt) With(val int32) RangedInt {
	v.Val = val
	return v
}

// RangedFloat is a float whose value must lie in the inclusive range
// [Min, Max].
type RangedFloat struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
	Val float32 `json:"val"`
}

// NewRangedFloat mirrors NewRangedInt.
func NewRangedFloat(min, max, val float32) RangedFloat {
	return RangedFloat{Min: min, Max: max, Val: val}
}

func (RangedFloat) Kind() Kind { return KindRangedFloat }

// Valid is false for NaN because NaN compares false against both bounds.
func (v RangedFloat) Valid() bool {
	return v.Min <= v.Max && v.Val >= v.Min && v.Val <= v.Max
}

func (v RangedFloat) String() string {
	return fmt.Sprintf("%g [%g..%g]", v.Val, v.Min, v.Max)
}
func (RangedFloat) value() {}

// With returns a copy carrying val and the receiver's bounds.
func (v RangedFloat) With(val float32) RangedFloat {
	v.Val = val
	return v
}

// Range returns the numeric bounds of a ranged value. ok is false for
// unconstrained variants.
func Range(v Value) (min, max float64, ok bool) {
	switch r := v.(type) {
	case RangedInt:
		return float64(r.Min), float64(r.Max), true
	case RangedFloat:
		return float64(r.Min), float64(r.Max), true
	}
	return 0, 0, false
}

// Number returns the numeric payload of v as a float64. Booleans map to 0
// and 1.
func Number(v Value) float64 {
	switch n := v.(type) {
	case Int:
		return float64(n)
	case Float:
		return float64(n)
	case RangedInt:
		return float64(n.Val)
	case RangedFloat:
		return float64(n.Val)
	case Bool:
		if n {
			return 1
		}
	}
	return 0
}
