package param

import "fmt"

// Typed lookups used by evaluators when they apply or validate parameters.
// Each fails when the name is missing or holds another variant.

// IntValue returns the Int stored under name.
func (m *Map) IntValue(name string) (int32, error) {
	v, err := m.Get(name)
	if err != nil {
		return 0, err
	}
	i, ok := v.(Int)
	if !ok {
		return 0, fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, name, v.Kind(), KindInt)
	}
	return int32(i), nil
}

// FloatValue returns the Float stored under name.
func (m *Map) FloatValue(name string) (float32, error) {
	v, err := m.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(Float)
	if !ok {
		return 0, fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, name, v.Kind(), KindFloat)
	}
	return float32(f), nil
}

// BoolValue returns the Bool stored under name.
func (m *Map) BoolValue(name string) (bool, error) {
	v, err := m.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(Bool)
	if !ok {
		return false, fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, name, v.Kind(), KindBool)
	}
	return bool(b), nil
}

// RangedIntValue returns the RangedInt stored under name.
func (m *Map) RangedIntValue(name string) (RangedInt, error) {
	v, err := m.Get(name)
	if err != nil {
		return RangedInt{}, err
	}
	r, ok := v.(RangedInt)
	if !ok {
		return RangedInt{}, fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, name, v.Kind(), KindRangedInt)
	}
	return r, nil
}

// RangedFloatValue returns the RangedFloat stored under name.
func (m *Map) RangedFloatValue(name string) (RangedFloat, error) {
	v, err := m.Get(name)
	if err != nil {
		return RangedFloat{}, err
	}
	r, ok := v.(RangedFloat)
	if !ok {
		return RangedFloat{}, fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, name, v.Kind(), KindRangedFloat)
	}
	return r, nil
}

// Require reports whether every name in want is present with the given
// kind and a value satisfying its own constraint.
func (m *Map) Require(want map[string]Kind) bool {
	for name, kind := range want {
		v, ok := m.values[name]
		if !ok || v.Kind() != kind || !v.Valid() {
			return false
		}
	}
	return true
}
