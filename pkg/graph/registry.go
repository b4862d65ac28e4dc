package graph

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/chazu/mapgen/pkg/metrics"
	"github.com/chazu/mapgen/pkg/noise"
)

// Registry owns every Node, keyed by a unique name and kept in insertion
// order. It is not safe for concurrent use; callers sharing a Registry
// across goroutines must serialize access to it as a whole.
type Registry struct {
	byName   map[string]*Node
	byID     map[NodeID]*Node
	order    []NodeID
	nextID   NodeID
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry and its nodes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName:   make(map[string]*Node),
		byID:     make(map[NodeID]*Node),
		logger:   slog.Default(),
		recorder: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create adds a new node of type typ under name. The node starts invalid.
func (r *Registry) Create(name string, typ noise.NodeType) (*Node, error) {
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.nextID++
	n, err := newNode(r, r.nextID, name, typ)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", name, err)
	}
	r.byName[name] = n
	r.byID[n.id] = n
	r.order = append(r.order, n.id)
	r.logger.Debug("node created", "name", name, "type", typ, "id", n.id)
	r.recorder.RegistrySize(len(r.byName))
	return n, nil
}

// Remove deletes the named node and re-runs Update on every remaining
// node, since any of them may have linked to it. Removing an absent name
// is a no-op and reports false.
func (r *Registry) Remove(name string) bool {
	n, ok := r.byName[name]
	if !ok {
		return false
	}
	delete(r.byName, name)
	delete(r.byID, n.id)
	r.order = slices.DeleteFunc(r.order, func(id NodeID) bool { return id == n.id })
	r.logger.Debug("node removed", "name", name, "id", n.id)
	r.recorder.RegistrySize(len(r.byName))
	r.unbind(n.id)
	r.UpdateAll()
	return true
}

// unbind rebinds every evaluator slot that linked to id to Dummy. The
// expired refs stay in place so validation still reports the removal.
func (r *Registry) unbind(id NodeID) {
	for _, n := range r.byID {
		for i, ref := range n.slots {
			if ref.id == id {
				// i is in range by construction.
				_ = n.eval.SetSource(i, noise.Dummy)
			}
		}
	}
}

// Rename moves the entry for current to newName and relabels the node.
// Renaming a node to its own name is a no-op.
func (r *Registry) Rename(current, newName string) error {
	n, ok := r.byName[current]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, current)
	}
	if current == newName {
		return nil
	}
	if _, taken := r.byName[newName]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	delete(r.byName, current)
	r.byName[newName] = n
	n.key = newName
	n.SetName(newName)
	r.logger.Debug("node renamed", "from", current, "to", newName, "id", n.id)
	return nil
}

// Get returns the named node.
func (r *Registry) Get(name string) (*Node, error) {
	n, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return n, nil
}

// Has reports whether name is present.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Size returns the number of live nodes.
func (r *Registry) Size() int { return len(r.byName) }

// All yields every node in insertion order, keyed by its registry name.
// The sequence may be ranged over any number of times.
func (r *Registry) All() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		for _, id := range r.order {
			n := r.byID[id]
			if !yield(n.key, n) {
				return
			}
		}
	}
}

// ForEach calls fn for every node in insertion order.
func (r *Registry) ForEach(fn func(name string, n *Node)) {
	for name, n := range r.All() {
		fn(name, n)
	}
}

// Names returns the node names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for name := range r.All() {
		names = append(names, name)
	}
	return names
}

// UpdateAll runs Update on every node in insertion order and returns the
// number of nodes that ended up valid.
func (r *Registry) UpdateAll() int {
	valid := 0
	for _, n := range r.All() {
		if n.Update() {
			valid++
		}
	}
	r.recorder.Revalidated()
	return valid
}

// Evaluate samples the named node.
func (r *Registry) Evaluate(name string, x, y, z float64) (float64, error) {
	n, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	return n.Evaluate(x, y, z), nil
}
