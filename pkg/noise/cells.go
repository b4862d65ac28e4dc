package noise

import (
	"math"

	"github.com/chazu/mapgen/pkg/param"
)

// Lattice and shape generators. None of them take sources.

const sqrt3 = 1.7320508075688772

// VoronoiEval assigns each point the value of the nearest seed point in a
// jittered lattice, optionally adding the distance to that seed.
type VoronoiEval struct {
	sources
	seed           int32
	frequency      float64
	displacement   float64
	enableDistance bool
}

var voronoiParams = map[string]param.Kind{
	"seed":            param.KindInt,
	"displacement":    param.KindFloat,
	"frequency":       param.KindFloat,
	"enable_distance": param.KindBool,
}

func newVoronoi() *VoronoiEval {
	return &VoronoiEval{frequency: 1, displacement: 1}
}

func (*VoronoiEval) ValidateParams(p *param.Map) bool { return p.Require(voronoiParams) }

func (v *VoronoiEval) ApplyParams(m *param.Map) error {
	seed, err := m.IntValue("seed")
	if err != nil {
		return err
	}
	disp, err := m.FloatValue("displacement")
	if err != nil {
		return err
	}
	freq, err := m.FloatValue("frequency")
	if err != nil {
		return err
	}
	dist, err := m.BoolValue("enable_distance")
	if err != nil {
		return err
	}
	v.seed, v.displacement, v.frequency, v.enableDistance = seed, float64(disp), float64(freq), dist
	return nil
}

func (v *VoronoiEval) Value(x, y, z float64) float64 {
	x, y, z = x*v.frequency, y*v.frequency, z*v.frequency
	xi, yi, zi := floorInt32(x), floorInt32(y), floorInt32(z)

	minDist := math.MaxFloat64
	var cx, cy, cz float64

	// The nearest seed can lie up to two cells away once jittered.
	for zc := zi - 2; zc <= zi+2; zc++ {
		for yc := yi - 2; yc <= yi+2; yc++ {
			for xc := xi - 2; xc <= xi+2; xc++ {
				px := float64(xc) + valueNoise(xc, yc, zc, v.seed)
				py := float64(yc) + valueNoise(xc, yc, zc, v.seed+1)
				pz := float64(zc) + valueNoise(xc, yc, zc, v.seed+2)
				dx, dy, dz := px-x, py-y, pz-z
				if d := dx*dx + dy*dy + dz*dz; d < minDist {
					minDist = d
					cx, cy, cz = px, py, pz
				}
			}
		}
	}

	var value float64
	if v.enableDistance {
		dx, dy, dz := cx-x, cy-y, cz-z
		value = math.Sqrt(dx*dx+dy*dy+dz*dz)*sqrt3 - 1.0
	}
	return value + v.displacement*valueNoise(floorInt32(cx), floorInt32(cy), floorInt32(cz), 0)
}

// SpheresEval produces concentric shells around the origin: 1 on a shell,
// -1 halfway between shells.
type SpheresEval struct {
	sources
	frequency float64
}

var frequencyParams = map[string]param.Kind{"frequency": param.KindFloat}

func newSpheres() *SpheresEval { return &SpheresEval{frequency: 1} }

func (*SpheresEval) ValidateParams(p *param.Map) bool { return p.Require(frequencyParams) }

func (s *SpheresEval) ApplyParams(m *param.Map) error {
	f, err := m.FloatValue("frequency")
	if err != nil {
		return err
	}
	s.frequency = float64(f)
	return nil
}

func (s *SpheresEval) Value(x, y, z float64) float64 {
	x, y, z = x*s.frequency, y*s.frequency, z*s.frequency
	return shell(math.Sqrt(x*x + y*y + z*z))
}

// CylindersEval produces concentric cylinders around the y axis.
type CylindersEval struct {
	sources
	frequency float64
}

func newCylinders() *CylindersEval { return &CylindersEval{frequency: 1} }

func (*CylindersEval) ValidateParams(p *param.Map) bool { return p.Require(frequencyParams) }

func (c *CylindersEval) ApplyParams(m *param.Map) error {
	f, err := m.FloatValue("frequency")
	if err != nil {
		return err
	}
	c.frequency = float64(f)
	return nil
}

func (c *CylindersEval) Value(x, _, z float64) float64 {
	x, z = x*c.frequency, z*c.frequency
	return shell(math.Sqrt(x*x + z*z))
}

// shell maps a distance to 1 at integer radii and -1 between them.
func shell(d float64) float64 {
	fromSmaller := d - math.Floor(d)
	fromLarger := 1.0 - fromSmaller
	return 1.0 - min(fromSmaller, fromLarger)*4.0
}

// CheckerboardEval alternates 1 and -1 on unit cubes.
type CheckerboardEval struct {
	sources
	noParams
}

func (*CheckerboardEval) Value(x, y, z float64) float64 {
	ix, iy, iz := floorInt32(x), floorInt32(y), floorInt32(z)
	if (ix&1)^(iy&1)^(iz&1) != 0 {
		return -1
	}
	return 1
}

// ConstEval returns the same value everywhere.
type ConstEval struct {
	sources
	value float64
}

func (*ConstEval) ValidateParams(p *param.Map) bool {
	return p.Require(map[string]param.Kind{"value": param.KindFloat})
}

func (c *ConstEval) ApplyParams(m *param.Map) error {
	v, err := m.FloatValue("value")
	if err != nil {
		return err
	}
	c.value = float64(v)
	return nil
}

func (c *ConstEval) Value(_, _, _ float64) float64 { return c.value }
