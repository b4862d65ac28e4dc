package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/mapgen/pkg/param"
)

// Evaluators that move the sample point before pulling from source 0.

// ---------------------------------------------------------------------------
// Matrix transforms
// ---------------------------------------------------------------------------

// pointTransformEval samples source 0 at m * (x, y, z). The matrix is
// rebuilt by build from the parameter map on every apply.
type pointTransformEval struct {
	sources
	want  map[string]param.Kind
	build func(m *param.Map) (sdf.M44, error)
	m     sdf.M44
}

func newPointTransform(want map[string]param.Kind, build func(*param.Map) (sdf.M44, error)) *pointTransformEval {
	return &pointTransformEval{
		sources: newSources(1),
		want:    want,
		build:   build,
		m:       sdf.Identity3d(),
	}
}

func (t *pointTransformEval) ValidateParams(p *param.Map) bool { return p.Require(t.want) }

func (t *pointTransformEval) ApplyParams(p *param.Map) error {
	m, err := t.build(p)
	if err != nil {
		return err
	}
	t.m = m
	return nil
}

func (t *pointTransformEval) Value(x, y, z float64) float64 {
	p := t.m.MulPosition(v3.Vec{X: x, Y: y, Z: z})
	return t.in[0].Value(p.X, p.Y, p.Z)
}

var rotateParams = map[string]param.Kind{
	"x_angle": param.KindRangedFloat,
	"y_angle": param.KindRangedFloat,
	"z_angle": param.KindRangedFloat,
}

// rotateMatrix rotates about X, then Y, then Z. Angles are in degrees.
func rotateMatrix(p *param.Map) (sdf.M44, error) {
	var deg [3]float64
	for i, name := range [...]string{"x_angle", "y_angle", "z_angle"} {
		v, err := p.RangedFloatValue(name)
		if err != nil {
			return sdf.M44{}, err
		}
		deg[i] = float64(v.Val) * math.Pi / 180.0
	}
	return sdf.RotateZ(deg[2]).Mul(sdf.RotateY(deg[1])).Mul(sdf.RotateX(deg[0])), nil
}

var scaleParams = map[string]param.Kind{
	"x_scale": param.KindFloat,
	"y_scale": param.KindFloat,
	"z_scale": param.KindFloat,
}

func scaleMatrix(p *param.Map) (sdf.M44, error) {
	v, err := readVec(p, "x_scale", "y_scale", "z_scale")
	if err != nil {
		return sdf.M44{}, err
	}
	return sdf.Scale3d(v), nil
}

var translateParams = map[string]param.Kind{
	"x": param.KindFloat,
	"y": param.KindFloat,
	"z": param.KindFloat,
}

func translateMatrix(p *param.Map) (sdf.M44, error) {
	v, err := readVec(p, "x", "y", "z")
	if err != nil {
		return sdf.M44{}, err
	}
	return sdf.Translate3d(v), nil
}

func readVec(p *param.Map, xn, yn, zn string) (v3.Vec, error) {
	var out [3]float64
	for i, name := range [...]string{xn, yn, zn} {
		f, err := p.FloatValue(name)
		if err != nil {
			return v3.Vec{}, err
		}
		out[i] = float64(f)
	}
	return v3.Vec{X: out[0], Y: out[1], Z: out[2]}, nil
}

// ---------------------------------------------------------------------------
// Displace
// ---------------------------------------------------------------------------

// DisplaceEval offsets the sample point by sources 1, 2 and 3 before
// sampling source 0.
type DisplaceEval struct {
	sources
	noParams
}

func (d *DisplaceEval) Value(x, y, z float64) float64 {
	dx := d.in[1].Value(x, y, z)
	dy := d.in[2].Value(x, y, z)
	dz := d.in[3].Value(x, y, z)
	return d.in[0].Value(x+dx, y+dy, z+dz)
}

// ---------------------------------------------------------------------------
// Turbulence
// ---------------------------------------------------------------------------

// Offsets keep the three distortion fields from sampling the same lattice
// point as the input.
var turbulenceOffsets = [3][3]float64{
	{12414.0 / 65536.0, 65124.0 / 65536.0, 31337.0 / 65536.0},
	{26519.0 / 65536.0, 18128.0 / 65536.0, 60493.0 / 65536.0},
	{53820.0 / 65536.0, 11213.0 / 65536.0, 44845.0 / 65536.0},
}

// maxRoughness matches the upper bound on fractal octaves.
const maxRoughness = 25

// TurbulenceEval jitters the sample point with three independent gradient
// fields (seeds seed, seed+1, seed+2) scaled by power. Roughness is the
// octave count of those fields.
type TurbulenceEval struct {
	sources
	seed      int32
	frequency float64
	power     float64
	roughness int
	distort   [3]*perlin.Perlin
}

var turbulenceParams = map[string]param.Kind{
	"seed":      param.KindInt,
	"frequency": param.KindFloat,
	"power":     param.KindFloat,
	"roughness": param.KindFloat,
}

func newTurbulence() *TurbulenceEval {
	t := &TurbulenceEval{sources: newSources(1), frequency: 1, power: 1, roughness: 3}
	t.rebuild()
	return t
}

func (t *TurbulenceEval) rebuild() {
	for i := range t.distort {
		t.distort[i] = perlin.NewPerlin(2, 2, int32(t.roughness), int64(t.seed)+int64(i))
	}
}

// ValidateParams also requires roughness in [1, 25].
func (*TurbulenceEval) ValidateParams(p *param.Map) bool {
	if !p.Require(turbulenceParams) {
		return false
	}
	r, _ := p.FloatValue("roughness")
	return r >= 1 && r <= maxRoughness
}

func (t *TurbulenceEval) ApplyParams(m *param.Map) error {
	seed, err := m.IntValue("seed")
	if err != nil {
		return err
	}
	freq, err := m.FloatValue("frequency")
	if err != nil {
		return err
	}
	power, err := m.FloatValue("power")
	if err != nil {
		return err
	}
	rough, err := m.FloatValue("roughness")
	if err != nil {
		return err
	}
	if rough < 1 || rough > maxRoughness {
		return fmt.Errorf("%w: roughness %g outside [1, %d]", param.ErrConstraintViolation, rough, maxRoughness)
	}
	t.seed, t.frequency, t.power = seed, float64(freq), float64(power)
	t.roughness = int(math.Round(float64(rough)))
	t.rebuild()
	return nil
}

func (t *TurbulenceEval) Value(x, y, z float64) float64 {
	var d [3]float64
	for i, gen := range t.distort {
		o := turbulenceOffsets[i]
		d[i] = gen.Noise3D((x+o[0])*t.frequency, (y+o[1])*t.frequency, (z+o[2])*t.frequency)
	}
	return t.in[0].Value(x+d[0]*t.power, y+d[1]*t.power, z+d[2]*t.power)
}
