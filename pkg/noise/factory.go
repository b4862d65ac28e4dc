package noise

import (
	"fmt"

	"github.com/chazu/mapgen/pkg/param"
)

// DefaultSeed is the seed every seeded node type starts with.
const DefaultSeed = 1337

// kindInfo pairs a node type's evaluator constructor with its default
// parameter table.
type kindInfo struct {
	newEval  func() Evaluator
	defaults func() []param.Entry
}

func entry(name string, v param.Value) param.Entry {
	return param.Entry{Name: name, Value: v}
}

func fractalDefaults() []param.Entry {
	return []param.Entry{
		entry("seed", param.Int(DefaultSeed)),
		entry("frequency", param.Float(defaultFrequency)),
		entry("octaves", param.NewRangedInt(1, 25, defaultOctaves)),
		entry("persistence", param.NewRangedFloat(0, 1, defaultPersistence)),
		entry("lacunarity", param.NewRangedFloat(1, 4, defaultLacunarity)),
	}
}

func none() []param.Entry { return nil }

// withSources adapts a constructor that needs n fresh source slots.
func withSources[E Evaluator](n int, build func(sources) E) func() Evaluator {
	return func() Evaluator {
		return build(newSources(n))
	}
}

var kinds = map[NodeType]kindInfo{
	Abs: {
		newEval:  withSources(1, func(s sources) *AbsEval { return &AbsEval{sources: s} }),
		defaults: none,
	},
	Add: {
		newEval:  func() Evaluator { return newCombine(addOp) },
		defaults: none,
	},
	Billow: {
		newEval:  func() Evaluator { return newBillow() },
		defaults: fractalDefaults,
	},
	Blend: {
		newEval:  withSources(3, func(s sources) *BlendEval { return &BlendEval{sources: s} }),
		defaults: none,
	},
	Cache: {
		newEval:  withSources(1, func(s sources) *CacheEval { return &CacheEval{sources: s} }),
		defaults: none,
	},
	Checkerboard: {
		newEval:  func() Evaluator { return &CheckerboardEval{} },
		defaults: none,
	},
	Clamp: {
		newEval: withSources(1, func(s sources) *ClampEval { return &ClampEval{sources: s, lower: -1, upper: 1} }),
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("lower_bound", param.Float(-1)),
				entry("upper_bound", param.Float(1)),
			}
		},
	},
	Const: {
		newEval: func() Evaluator { return &ConstEval{} },
		defaults: func() []param.Entry {
			return []param.Entry{entry("value", param.Float(0))}
		},
	},
	Cylinders: {
		newEval: func() Evaluator { return newCylinders() },
		defaults: func() []param.Entry {
			return []param.Entry{entry("frequency", param.Float(1))}
		},
	},
	Displace: {
		newEval:  withSources(4, func(s sources) *DisplaceEval { return &DisplaceEval{sources: s} }),
		defaults: none,
	},
	Exponent: {
		newEval: withSources(1, func(s sources) *ExponentEval { return &ExponentEval{sources: s, exponent: 1} }),
		defaults: func() []param.Entry {
			return []param.Entry{entry("exponent", param.Float(1))}
		},
	},
	Invert: {
		newEval:  withSources(1, func(s sources) *InvertEval { return &InvertEval{sources: s} }),
		defaults: none,
	},
	Max: {
		newEval:  func() Evaluator { return newCombine(maxOp) },
		defaults: none,
	},
	Min: {
		newEval:  func() Evaluator { return newCombine(minOp) },
		defaults: none,
	},
	Multiply: {
		newEval:  func() Evaluator { return newCombine(mulOp) },
		defaults: none,
	},
	Perlin: {
		newEval:  func() Evaluator { return newPerlin() },
		defaults: fractalDefaults,
	},
	Power: {
		newEval:  func() Evaluator { return newCombine(powOp) },
		defaults: none,
	},
	RidgedMulti: {
		newEval: func() Evaluator { return newRidged() },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("seed", param.Int(DefaultSeed)),
				entry("frequency", param.Float(defaultFrequency)),
				entry("octaves", param.NewRangedInt(1, 25, defaultOctaves)),
				entry("lacunarity", param.NewRangedFloat(1, 4, defaultLacunarity)),
			}
		},
	},
	ScaleBias: {
		newEval: withSources(1, func(s sources) *ScaleBiasEval { return &ScaleBiasEval{sources: s, scale: 1} }),
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("bias", param.Float(0)),
				entry("scale", param.Float(1)),
			}
		},
	},
	Select: {
		newEval: func() Evaluator { return newSelect() },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("lower_bound", param.Float(-1)),
				entry("upper_bound", param.Float(1)),
				entry("fall_off", param.Float(0)),
			}
		},
	},
	Spheres: {
		newEval: func() Evaluator { return newSpheres() },
		defaults: func() []param.Entry {
			return []param.Entry{entry("frequency", param.Float(1))}
		},
	},
	RotatePoint: {
		newEval: func() Evaluator { return newPointTransform(rotateParams, rotateMatrix) },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("x_angle", param.NewRangedFloat(-360, 360, 0)),
				entry("y_angle", param.NewRangedFloat(-360, 360, 0)),
				entry("z_angle", param.NewRangedFloat(-360, 360, 0)),
			}
		},
	},
	ScalePoint: {
		newEval: func() Evaluator { return newPointTransform(scaleParams, scaleMatrix) },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("x_scale", param.Float(1)),
				entry("y_scale", param.Float(1)),
				entry("z_scale", param.Float(1)),
			}
		},
	},
	TranslatePoint: {
		newEval: func() Evaluator { return newPointTransform(translateParams, translateMatrix) },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("x", param.Float(0)),
				entry("y", param.Float(0)),
				entry("z", param.Float(0)),
			}
		},
	},
	Turbulence: {
		newEval: func() Evaluator { return newTurbulence() },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("seed", param.Int(DefaultSeed)),
				entry("frequency", param.Float(1)),
				entry("power", param.Float(1)),
				entry("roughness", param.Float(3)),
			}
		},
	},
	Voronoi: {
		newEval: func() Evaluator { return newVoronoi() },
		defaults: func() []param.Entry {
			return []param.Entry{
				entry("seed", param.Int(DefaultSeed)),
				entry("displacement", param.Float(1)),
				entry("frequency", param.Float(1)),
				entry("enable_distance", param.Bool(false)),
			}
		},
	},
}

// Supported reports whether t has an evaluator.
func Supported(t NodeType) bool {
	_, ok := kinds[t]
	return ok
}

// CreateEvaluator builds a fresh evaluator for t with every source slot
// bound to Dummy. Structural types such as Output have no evaluator.
func CreateEvaluator(t NodeType) (Evaluator, error) {
	k, ok := kinds[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return k.newEval(), nil
}

// DefaultParameters returns a new parameter map holding t's defaults.
func DefaultParameters(t NodeType) (*param.Map, error) {
	k, ok := kinds[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return param.NewMap(k.defaults()...), nil
}

// SourceCount returns the number of source slots for t.
func SourceCount(t NodeType) (int, error) {
	e, err := CreateEvaluator(t)
	if err != nil {
		return 0, err
	}
	return e.SourceCount(), nil
}
