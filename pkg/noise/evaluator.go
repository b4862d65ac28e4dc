package noise

import (
	"errors"
	"fmt"

	"github.com/chazu/mapgen/pkg/param"
)

var (
	// ErrUnsupportedType is returned for node types with no evaluator.
	ErrUnsupportedType = errors.New("unsupported node type")
	// ErrIndexOutOfRange is returned for a source slot index outside
	// [0, SourceCount).
	ErrIndexOutOfRange = errors.New("source index out of range")
)

// Evaluator is the per-type noise algorithm behind a node.
//
// Evaluators are not safe for concurrent use: ApplyParams and SetSource
// mutate the evaluator and Cache memoizes inside Value.
type Evaluator interface {
	// SourceCount is the fixed number of source slots.
	SourceCount() int
	// SetSource binds slot i to src. A nil src binds Dummy.
	SetSource(i int, src Evaluator) error
	// Source returns the evaluator bound to slot i.
	Source(i int) (Evaluator, error)
	// ValidateParams reports whether p holds every parameter this evaluator
	// needs, with the right variant and in range.
	ValidateParams(p *param.Map) bool
	// ApplyParams copies p into the evaluator's native fields. Callers must
	// validate first; an error means p did not match.
	ApplyParams(p *param.Map) error
	// Value samples the field at (x, y, z).
	Value(x, y, z float64) float64
}

// Dummy is the shared neutral evaluator bound to every unwired slot. It has
// no sources, accepts any parameters and returns 0 everywhere.
var Dummy Evaluator = dummy{}

type dummy struct{}

func (dummy) SourceCount() int { return 0 }

func (dummy) SetSource(i int, _ Evaluator) error {
	return fmt.Errorf("%w: index %d, dummy has no sources", ErrIndexOutOfRange, i)
}

func (dummy) Source(i int) (Evaluator, error) {
	return nil, fmt.Errorf("%w: index %d, dummy has no sources", ErrIndexOutOfRange, i)
}

func (dummy) ValidateParams(*param.Map) bool { return true }
func (dummy) ApplyParams(*param.Map) error   { return nil }
func (dummy) Value(_, _, _ float64) float64  { return 0 }

// sources holds the source slots shared by every evaluator. Embedding it
// provides SourceCount, SetSource and Source.
type sources struct {
	in []Evaluator
}

func newSources(n int) sources {
	in := make([]Evaluator, n)
	for i := range in {
		in[i] = Dummy
	}
	return sources{in: in}
}

func (s *sources) SourceCount() int { return len(s.in) }

func (s *sources) SetSource(i int, src Evaluator) error {
	if i < 0 || i >= len(s.in) {
		return fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, i, len(s.in))
	}
	if src == nil {
		src = Dummy
	}
	s.in[i] = src
	return nil
}

func (s *sources) Source(i int) (Evaluator, error) {
	if i < 0 || i >= len(s.in) {
		return nil, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, i, len(s.in))
	}
	return s.in[i], nil
}

// noParams is embedded by evaluators that take no parameters. They accept
// any map, including an empty one.
type noParams struct{}

func (noParams) ValidateParams(*param.Map) bool { return true }
func (noParams) ApplyParams(*param.Map) error   { return nil }
