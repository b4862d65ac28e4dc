package param

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrNotFound is returned when a parameter name is absent from a Map.
	ErrNotFound = errors.New("parameter not found")
	// ErrTypeMismatch is returned when a new value's variant differs from the
	// stored variant.
	ErrTypeMismatch = errors.New("parameter type mismatch")
	// ErrConstraintViolation is returned when a bounded value is assigned
	// outside its declared range. The stored value is left unchanged.
	ErrConstraintViolation = errors.New("parameter constraint violation")
)

// Entry is a single name/value pair used to build a Map.
type Entry struct {
	Name  string
	Value Value
}

// Map is an ordered mapping from parameter name to Value. The set of names
// and the variant stored under each name are fixed at construction; Set
// only replaces values.
type Map struct {
	names  []string
	values map[string]Value
}

// NewMap builds a Map from entries in declaration order. A repeated name
// keeps its first position and takes the last value.
func NewMap(entries ...Entry) *Map {
	m := &Map{values: make(map[string]Value, len(entries))}
	for _, e := range entries {
		if _, exists := m.values[e.Name]; !exists {
			m.names = append(m.names, e.Name)
		}
		m.values[e.Name] = e.Value
	}
	return m
}

// Get returns the value stored under name.
func (m *Map) Get(name string) (Value, error) {
	v, ok := m.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return v, nil
}

// Has reports whether name is present.
func (m *Map) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Set replaces the value stored under name. The new value must be the same
// variant as the stored one. For ranged variants the stored bounds are
// authoritative: only v's Val is taken, and it must lie inside them.
func (m *Map) Set(name string, v Value) error {
	cur, ok := m.values[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if v == nil || cur.Kind() != v.Kind() {
		return fmt.Errorf("%w: %q holds %s, got %s", ErrTypeMismatch, name, cur.Kind(), kindOf(v))
	}

	switch c := cur.(type) {
	case RangedInt:
		next := c.With(v.(RangedInt).Val)
		if !next.Valid() {
			return fmt.Errorf("%w: %q value %d outside [%d, %d]", ErrConstraintViolation, name, next.Val, c.Min, c.Max)
		}
		v = next
	case RangedFloat:
		next := c.With(v.(RangedFloat).Val)
		if !next.Valid() {
			return fmt.Errorf("%w: %q value %g outside [%g, %g]", ErrConstraintViolation, name, next.Val, c.Min, c.Max)
		}
		v = next
	case Float:
		if !v.Valid() {
			return fmt.Errorf("%w: %q value %s is not finite", ErrConstraintViolation, name, v)
		}
	}

	m.values[name] = v
	return nil
}

// Len returns the number of parameters.
func (m *Map) Len() int {
	return len(m.names)
}

// Names returns the parameter names in declaration order.
func (m *Map) Names() []string {
	return slices.Clone(m.names)
}

// All iterates name/value pairs in declaration order. The sequence may be
// ranged over any number of times.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range m.names {
			if !yield(name, m.values[name]) {
				return
			}
		}
	}
}

// ForEach calls fn for every parameter in declaration order.
func (m *Map) ForEach(fn func(name string, v Value)) {
	for name, v := range m.All() {
		fn(name, v)
	}
}

// Clone returns an independent copy. Values are immutable, so a shallow copy
// of the table is enough.
func (m *Map) Clone() *Map {
	out := &Map{
		names:  slices.Clone(m.names),
		values: make(map[string]Value, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

func kindOf(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}
