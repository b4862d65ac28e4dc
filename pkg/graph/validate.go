package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding makes a node
// invalid or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // node is invalid
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     string             // node name (empty if graph-level)
	Slot     int                // source slot, or -1
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	switch {
	case e.Node == "":
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Slot >= 0:
		return fmt.Sprintf("[%s] node %q slot %d: %s", e.Severity, e.Node, e.Slot, e.Message)
	default:
		return fmt.Sprintf("[%s] node %q: %s", e.Severity, e.Node, e.Message)
	}
}

// Validate inspects the whole graph and reports why nodes are invalid.
// It is read-only: cached node validity is not touched and nothing is
// applied to evaluators.
func (r *Registry) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, r.validateParams()...)
	errs = append(errs, r.validateSlots()...)
	errs = append(errs, r.validateCycles()...)
	errs = append(errs, r.validateNames()...)
	return errs
}

// HasErrors reports whether any finding has SeverityError.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Registry) validateParams() []ValidationError {
	var errs []ValidationError
	for name, n := range r.All() {
		for pname, v := range n.params.All() {
			if !v.Valid() {
				errs = append(errs, ValidationError{
					Node:     name,
					Slot:     -1,
					Message:  fmt.Sprintf("parameter %q out of range: %s", pname, v),
					Severity: SeverityError,
				})
			}
		}
		if !n.eval.ValidateParams(n.params) {
			errs = append(errs, ValidationError{
				Node:     name,
				Slot:     -1,
				Message:  fmt.Sprintf("parameters rejected by %s evaluator", n.typ),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func (r *Registry) validateSlots() []ValidationError {
	var errs []ValidationError
	for name, n := range r.All() {
		for i, ref := range n.slots {
			switch {
			case ref.IsZero():
				errs = append(errs, ValidationError{
					Node:     name,
					Slot:     i,
					Message:  "source not connected",
					Severity: SeverityError,
				})
			case ref.Expired():
				errs = append(errs, ValidationError{
					Node:     name,
					Slot:     i,
					Message:  fmt.Sprintf("source %s was removed", ref.ID()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateCycles checks for cycles using DFS with 3-color marking.
// SetSourceModule already refuses cyclic links, so a finding here means
// the graph was wired around it.
func (r *Registry) validateCycles() []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		switch color[n.id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Node:     n.key,
				Slot:     -1,
				Message:  "node is part of a cycle",
				Severity: SeverityError,
			})
			return true
		}
		color[n.id] = gray
		for _, ref := range n.slots {
			if up, ok := ref.Get(); ok && visit(up) {
				return true
			}
		}
		color[n.id] = black
		return false
	}

	for _, n := range r.All() {
		if color[n.id] == white {
			visit(n)
		}
	}
	return errs
}

// validateNames flags nodes whose own label drifted from their registry
// key through a direct SetName call.
func (r *Registry) validateNames() []ValidationError {
	var errs []ValidationError
	for key, n := range r.All() {
		if n.name != key {
			errs = append(errs, ValidationError{
				Node:     key,
				Slot:     -1,
				Message:  fmt.Sprintf("node label %q differs from registry key", n.name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
