// Package graph holds the noise node graph. A Registry owns named
// Nodes; each Node wraps one noise evaluator together with its parameter
// map and a weak reference per source slot. Links never keep a node alive:
// removing a node from the Registry expires every Ref to it and the
// slots that pointed at it fall back to the dummy source.
package graph
