package graph

import (
	"fmt"
	"log/slog"

	"github.com/chazu/mapgen/pkg/metrics"
	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
)

// Node is one named noise unit in a Registry. It owns its evaluator and
// parameter map; its source slots hold weak references to other nodes.
//
// A Node is only ever Valid or Invalid, and the state changes only through
// Validate or Update. Setting a parameter or wiring a slot does not
// revalidate.
type Node struct {
	reg    *Registry
	id     NodeID
	key    string // registry key, kept by Registry
	name   string
	typ    noise.NodeType
	eval   noise.Evaluator
	params *param.Map
	slots  []Ref
	valid  bool
}

// newNode builds a node with its type's evaluator and default parameters.
// Every slot starts empty and bound to the dummy source.
func newNode(reg *Registry, id NodeID, name string, typ noise.NodeType) (*Node, error) {
	eval, err := noise.CreateEvaluator(typ)
	if err != nil {
		return nil, err
	}
	params, err := noise.DefaultParameters(typ)
	if err != nil {
		return nil, err
	}
	return &Node{
		reg:    reg,
		id:     id,
		key:    name,
		name:   name,
		typ:    typ,
		eval:   eval,
		params: params,
		slots:  make([]Ref, eval.SourceCount()),
	}, nil
}

// ID returns the node's stable identifier.
func (n *Node) ID() NodeID { return n.id }

// Name returns the node's label.
func (n *Node) Name() string { return n.name }

// SetName changes the node's own label only. Use Registry.Rename to move
// the registry entry as well.
func (n *Node) SetName(name string) { n.name = name }

// Type returns the node's noise type.
func (n *Node) Type() noise.NodeType { return n.typ }

// Params returns the node's parameter map. Changes take effect on the
// evaluator at the next successful Update.
func (n *Node) Params() *param.Map { return n.params }

// SetParam stores v under name. See param.Map.Set for the failure modes.
func (n *Node) SetParam(name string, v param.Value) error {
	if err := n.params.Set(name, v); err != nil {
		return fmt.Errorf("node %q: %w", n.name, err)
	}
	return nil
}

// Evaluator returns the node's evaluator.
func (n *Node) Evaluator() noise.Evaluator { return n.eval }

// Ref returns a weak reference to n.
func (n *Node) Ref() Ref { return Ref{reg: n.reg, id: n.id} }

// IsValid returns the result of the most recent Validate or Update.
func (n *Node) IsValid() bool { return n.valid }

// SourceModuleCount returns the fixed number of source slots.
func (n *Node) SourceModuleCount() int { return len(n.slots) }

// SourceModule returns the weak reference held in slot i. The ref may be
// empty or expired.
func (n *Node) SourceModule(i int) (Ref, error) {
	if err := n.checkSlot(i); err != nil {
		return Ref{}, err
	}
	return n.slots[i], nil
}

// SetSourceModule links slot i to target, or clears the slot when target
// is nil. The evaluator slot is rebound immediately; validity is not
// recomputed.
func (n *Node) SetSourceModule(i int, target *Node) error {
	if err := n.checkSlot(i); err != nil {
		return err
	}
	if target == nil {
		n.slots[i] = Ref{}
		return n.eval.SetSource(i, noise.Dummy)
	}
	if target.reg != n.reg {
		return fmt.Errorf("%w: %q -> %q", ErrForeignNode, target.name, n.name)
	}
	if target == n || target.dependsOn(n.id) {
		return fmt.Errorf("%w: %q -> %q slot %d", ErrCycle, target.name, n.name, i)
	}
	ref := target.Ref()
	if err := n.eval.SetSource(i, slotSource{ref: ref}); err != nil {
		return err
	}
	n.slots[i] = ref
	return nil
}

// Validate checks the parameters against the evaluator and requires every
// slot to resolve to a live node. The result is cached for IsValid.
func (n *Node) Validate() bool {
	valid := n.eval.ValidateParams(n.params)
	for _, ref := range n.slots {
		if ref.Expired() {
			valid = false
			break
		}
	}
	n.valid = valid
	n.recorder().NodeValidated(valid)
	return valid
}

// Update revalidates the node and, when valid, pushes the parameter map
// into the evaluator. An invalid node leaves its evaluator untouched.
func (n *Node) Update() bool {
	if !n.Validate() {
		n.logger().Debug("node invalid, skipping update", "name", n.name, "type", n.typ)
		n.recorder().NodeUpdated(false)
		return false
	}
	n.logger().Debug("node updating", "name", n.name, "type", n.typ)
	if err := n.eval.ApplyParams(n.params); err != nil {
		// ValidateParams accepted the map, so this is an evaluator bug.
		n.logger().Error("apply params", "name", n.name, "type", n.typ, "error", err)
		n.valid = false
		n.recorder().NodeUpdated(false)
		return false
	}
	n.recorder().NodeUpdated(true)
	return true
}

// Evaluate samples the node's evaluator. Unwired or expired slots read as
// zero, so this is defined even on an invalid node.
func (n *Node) Evaluate(x, y, z float64) float64 {
	return n.eval.Value(x, y, z)
}

func (n *Node) checkSlot(i int) error {
	if i < 0 || i >= len(n.slots) {
		return fmt.Errorf("%w: node %q index %d, count %d", ErrIndexOutOfRange, n.name, i, len(n.slots))
	}
	return nil
}

// dependsOn reports whether id is reachable upstream of n through live
// slots.
func (n *Node) dependsOn(id NodeID) bool {
	seen := map[NodeID]bool{}
	var walk func(*Node) bool
	walk = func(cur *Node) bool {
		for _, ref := range cur.slots {
			up, ok := ref.Get()
			if !ok || seen[up.id] {
				continue
			}
			if up.id == id {
				return true
			}
			seen[up.id] = true
			if walk(up) {
				return true
			}
		}
		return false
	}
	return walk(n)
}

func (n *Node) logger() *slog.Logger {
	if n.reg == nil {
		return slog.Default()
	}
	return n.reg.logger
}

func (n *Node) recorder() metrics.Recorder {
	if n.reg == nil {
		return metrics.Nop{}
	}
	return n.reg.recorder
}
