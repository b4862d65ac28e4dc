// Package noise provides the evaluators behind each noise node type and
// the factory that builds them with their default parameter tables.
//
// An Evaluator is a pull-based scalar field: Value(x, y, z) recursively
// pulls from the evaluators bound to its source slots. Unbound slots are
// bound to Dummy, so any evaluator can be sampled at any time.
package noise

import (
	"fmt"
	"strings"
)

// NodeType enumerates the kinds of noise nodes.
type NodeType int

const (
	Abs NodeType = iota
	Add
	Billow
	Blend
	Cache
	Checkerboard
	Clamp
	Const
	Cylinders
	Displace
	Exponent
	Invert
	Max
	Min
	Multiply
	Perlin
	Power
	RidgedMulti
	ScaleBias
	Select
	Spheres
	RotatePoint
	ScalePoint
	TranslatePoint
	Turbulence
	Voronoi
	Output // editor-only sink; has no evaluator

	numNodeTypes
)

var nodeTypeNames = [...]string{
	Abs:            "abs",
	Add:            "add",
	Billow:         "billow",
	Blend:          "blend",
	Cache:          "cache",
	Checkerboard:   "checkerboard",
	Clamp:          "clamp",
	Const:          "const",
	Cylinders:      "cylinders",
	Displace:       "displace",
	Exponent:       "exponent",
	Invert:         "invert",
	Max:            "max",
	Min:            "min",
	Multiply:       "multiply",
	Perlin:         "perlin",
	Power:          "power",
	RidgedMulti:    "ridged-multi",
	ScaleBias:      "scale-bias",
	Select:         "select",
	Spheres:        "spheres",
	RotatePoint:    "rotate-point",
	ScalePoint:     "scale-point",
	TranslatePoint: "translate-point",
	Turbulence:     "turbulence",
	Voronoi:        "voronoi",
	Output:         "output",
}

func (t NodeType) String() string {
	if t < 0 || t >= numNodeTypes {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

// ParseNodeType resolves a type name. Matching ignores case and accepts
// underscores in place of hyphens.
func ParseNodeType(s string) (NodeType, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for t, n := range nodeTypeNames {
		if n == name {
			return NodeType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown node type %q", ErrUnsupportedType, s)
}

// NodeTypes returns every node type in declaration order, including the
// structural ones.
func NodeTypes() []NodeType {
	out := make([]NodeType, 0, numNodeTypes)
	for t := NodeType(0); t < numNodeTypes; t++ {
		out = append(out, t)
	}
	return out
}
