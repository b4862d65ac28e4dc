package graph

import (
	"fmt"

	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
)

// NodeID identifies a node for the lifetime of its Registry. IDs are never
// reused and survive renames.
type NodeID uint64

// IsZero reports whether id is the unset ID.
func (id NodeID) IsZero() bool { return id == 0 }

func (id NodeID) String() string { return fmt.Sprintf("#%d", uint64(id)) }

// Ref is a weak reference to a Node. It resolves through the owning
// Registry on every access, so it never extends a node's lifetime and
// expires as soon as the node is removed.
type Ref struct {
	reg *Registry
	id  NodeID
}

// Get returns the referenced node, or false if the ref is empty or the
// node has been removed.
func (r Ref) Get() (*Node, bool) {
	if r.reg == nil || r.id.IsZero() {
		return nil, false
	}
	n, ok := r.reg.byID[r.id]
	return n, ok
}

// Expired reports whether the ref no longer resolves to a live node.
func (r Ref) Expired() bool {
	_, ok := r.Get()
	return !ok
}

// IsZero reports whether the ref was never set.
func (r Ref) IsZero() bool { return r.id.IsZero() }

// ID returns the referenced node's ID, live or not.
func (r Ref) ID() NodeID { return r.id }

// ----------------------------------------------------------------------------
// Slot source
// ----------------------------------------------------------------------------

// slotSource is bound into an evaluator's source slot in place of the
// upstream evaluator itself. It resolves its ref on every sample and reads
// as the dummy source once the upstream node is gone.
type slotSource struct {
	ref Ref
}

var _ noise.Evaluator = slotSource{}

func (s slotSource) target() noise.Evaluator {
	if n, ok := s.ref.Get(); ok {
		return n.eval
	}
	return noise.Dummy
}

func (slotSource) SourceCount() int { return 0 }

func (slotSource) SetSource(i int, _ noise.Evaluator) error {
	return fmt.Errorf("%w: index %d, count 0", noise.ErrIndexOutOfRange, i)
}

func (slotSource) Source(i int) (noise.Evaluator, error) {
	return nil, fmt.Errorf("%w: index %d, count 0", noise.ErrIndexOutOfRange, i)
}

func (slotSource) ValidateParams(*param.Map) bool { return true }

func (slotSource) ApplyParams(*param.Map) error { return nil }

func (s slotSource) Value(x, y, z float64) float64 {
	return s.target().Value(x, y, z)
}
