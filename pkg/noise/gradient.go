package noise

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/chazu/mapgen/pkg/param"
)

// Fractal generators built on go-perlin's gradient noise.

const (
	defaultSeed        = 0
	defaultFrequency   = 1.0
	defaultLacunarity  = 2.0
	defaultOctaves     = 6
	defaultPersistence = 0.5
)

// newOctaves builds one single-octave gradient generator per octave, each
// with its own seed, so octaves sum without sharing a lattice.
func newOctaves(seed int32, octaves int) []*perlin.Perlin {
	gens := make([]*perlin.Perlin, octaves)
	for i := range gens {
		gens[i] = perlin.NewPerlin(2, 2, 1, int64(seed)+int64(i))
	}
	return gens
}

// ---------------------------------------------------------------------------
// Perlin
// ---------------------------------------------------------------------------

// PerlinEval is classic fractal gradient noise.
type PerlinEval struct {
	sources
	seed        int32
	frequency   float64
	octaves     int
	persistence float64
	lacunarity  float64
	gen         *perlin.Perlin
}

var perlinParams = map[string]param.Kind{
	"seed":        param.KindInt,
	"frequency":   param.KindFloat,
	"octaves":     param.KindRangedInt,
	"persistence": param.KindRangedFloat,
	"lacunarity":  param.KindRangedFloat,
}

func newPerlin() *PerlinEval {
	p := &PerlinEval{
		seed:        defaultSeed,
		frequency:   defaultFrequency,
		octaves:     defaultOctaves,
		persistence: defaultPersistence,
		lacunarity:  defaultLacunarity,
	}
	p.rebuild()
	return p
}

// rebuild recreates the generator. go-perlin divides each octave by a
// running product of alpha, so alpha is the reciprocal of persistence.
func (p *PerlinEval) rebuild() {
	alpha := math.Inf(1)
	if p.persistence > 0 {
		alpha = 1 / p.persistence
	}
	p.gen = perlin.NewPerlin(alpha, p.lacunarity, int32(p.octaves), int64(p.seed))
}

func (*PerlinEval) ValidateParams(p *param.Map) bool { return p.Require(perlinParams) }

func (p *PerlinEval) ApplyParams(m *param.Map) error {
	f, err := readFractal(m, true)
	if err != nil {
		return err
	}
	p.seed, p.frequency, p.octaves = f.seed, f.frequency, f.octaves
	p.persistence, p.lacunarity = f.persistence, f.lacunarity
	p.rebuild()
	return nil
}

func (p *PerlinEval) Value(x, y, z float64) float64 {
	return p.gen.Noise3D(x*p.frequency, y*p.frequency, z*p.frequency)
}

// ---------------------------------------------------------------------------
// Billow
// ---------------------------------------------------------------------------

// BillowEval folds each octave with 2|n|-1, giving puffy, cloud-like noise.
type BillowEval struct {
	sources
	seed        int32
	frequency   float64
	persistence float64
	lacunarity  float64
	octaves     []*perlin.Perlin
}

func newBillow() *BillowEval {
	return &BillowEval{
		seed:        defaultSeed,
		frequency:   defaultFrequency,
		persistence: defaultPersistence,
		lacunarity:  defaultLacunarity,
		octaves:     newOctaves(defaultSeed, defaultOctaves),
	}
}

func (*BillowEval) ValidateParams(p *param.Map) bool { return p.Require(perlinParams) }

func (b *BillowEval) ApplyParams(m *param.Map) error {
	f, err := readFractal(m, true)
	if err != nil {
		return err
	}
	b.seed, b.frequency = f.seed, f.frequency
	b.persistence, b.lacunarity = f.persistence, f.lacunarity
	b.octaves = newOctaves(f.seed, f.octaves)
	return nil
}

func (b *BillowEval) Value(x, y, z float64) float64 {
	x, y, z = x*b.frequency, y*b.frequency, z*b.frequency
	var value float64
	amp := 1.0
	for _, gen := range b.octaves {
		signal := 2*math.Abs(gen.Noise3D(x, y, z)) - 1
		value += signal * amp
		x, y, z = x*b.lacunarity, y*b.lacunarity, z*b.lacunarity
		amp *= b.persistence
	}
	return value + 0.5
}

// ---------------------------------------------------------------------------
// RidgedMulti
// ---------------------------------------------------------------------------

// RidgedEval is ridged multifractal noise: inverted absolute octaves
// weighted by the previous octave, producing sharp crests.
type RidgedEval struct {
	sources
	seed       int32
	frequency  float64
	lacunarity float64
	octaves    []*perlin.Perlin
	weights    []float64
}

var ridgedParams = map[string]param.Kind{
	"seed":       param.KindInt,
	"frequency":  param.KindFloat,
	"octaves":    param.KindRangedInt,
	"lacunarity": param.KindRangedFloat,
}

const (
	ridgedOffset = 1.0
	ridgedGain   = 2.0
)

func newRidged() *RidgedEval {
	r := &RidgedEval{
		seed:       defaultSeed,
		frequency:  defaultFrequency,
		lacunarity: defaultLacunarity,
		octaves:    newOctaves(defaultSeed, defaultOctaves),
	}
	r.calcWeights()
	return r
}

// calcWeights precomputes the spectral weight freq^-1 for each octave.
func (r *RidgedEval) calcWeights() {
	r.weights = make([]float64, len(r.octaves))
	freq := 1.0
	for i := range r.weights {
		r.weights[i] = math.Pow(freq, -1)
		freq *= r.lacunarity
	}
}

func (*RidgedEval) ValidateParams(p *param.Map) bool { return p.Require(ridgedParams) }

func (r *RidgedEval) ApplyParams(m *param.Map) error {
	f, err := readFractal(m, false)
	if err != nil {
		return err
	}
	r.seed, r.frequency, r.lacunarity = f.seed, f.frequency, f.lacunarity
	r.octaves = newOctaves(f.seed, f.octaves)
	r.calcWeights()
	return nil
}

func (r *RidgedEval) Value(x, y, z float64) float64 {
	x, y, z = x*r.frequency, y*r.frequency, z*r.frequency
	var value float64
	weight := 1.0
	for i, gen := range r.octaves {
		signal := ridgedOffset - math.Abs(gen.Noise3D(x, y, z))
		signal *= signal
		signal *= weight

		weight = min(max(signal*ridgedGain, 0), 1)

		value += signal * r.weights[i]
		x, y, z = x*r.lacunarity, y*r.lacunarity, z*r.lacunarity
	}
	return value*1.25 - 1.0
}

// ---------------------------------------------------------------------------
// Shared parameter decoding
// ---------------------------------------------------------------------------

type fractal struct {
	seed        int32
	frequency   float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// readFractal decodes the fractal parameter block. Persistence is read only
// when withPersistence is set; ridged noise has none.
func readFractal(m *param.Map, withPersistence bool) (fractal, error) {
	var f fractal
	seed, err := m.IntValue("seed")
	if err != nil {
		return f, err
	}
	freq, err := m.FloatValue("frequency")
	if err != nil {
		return f, err
	}
	oct, err := m.RangedIntValue("octaves")
	if err != nil {
		return f, err
	}
	lac, err := m.RangedFloatValue("lacunarity")
	if err != nil {
		return f, err
	}
	f.seed = seed
	f.frequency = float64(freq)
	f.octaves = int(oct.Val)
	f.lacunarity = float64(lac.Val)
	if withPersistence {
		pers, err := m.RangedFloatValue("persistence")
		if err != nil {
			return f, err
		}
		f.persistence = float64(pers.Val)
	}
	return f, nil
}
