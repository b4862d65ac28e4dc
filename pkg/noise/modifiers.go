package noise

import (
	"fmt"
	"math"

	"github.com/chazu/mapgen/pkg/param"
)

// ---------------------------------------------------------------------------
// Single-source modifiers
// ---------------------------------------------------------------------------

// AbsEval returns |source 0|.
type AbsEval struct {
	sources
	noParams
}

func (a *AbsEval) Value(x, y, z float64) float64 {
	return math.Abs(a.in[0].Value(x, y, z))
}

// InvertEval negates source 0.
type InvertEval struct {
	sources
	noParams
}

func (v *InvertEval) Value(x, y, z float64) float64 {
	return -v.in[0].Value(x, y, z)
}

// ClampEval clamps source 0 to [lower_bound, upper_bound].
type ClampEval struct {
	sources
	lower, upper float64
}

var boundsParams = map[string]param.Kind{
	"lower_bound": param.KindFloat,
	"upper_bound": param.KindFloat,
}

// ValidateParams also requires a non-empty interval.
func (*ClampEval) ValidateParams(p *param.Map) bool {
	return p.Require(boundsParams) && orderedBounds(p)
}

func (c *ClampEval) ApplyParams(m *param.Map) error {
	lo, hi, err := readBounds(m)
	if err != nil {
		return err
	}
	c.lower, c.upper = lo, hi
	return nil
}

func (c *ClampEval) Value(x, y, z float64) float64 {
	return min(max(c.in[0].Value(x, y, z), c.lower), c.upper)
}

// ExponentEval remaps source 0 from [-1, 1] to [0, 1], raises it to
// exponent, and maps it back.
type ExponentEval struct {
	sources
	exponent float64
}

func (*ExponentEval) ValidateParams(p *param.Map) bool {
	return p.Require(map[string]param.Kind{"exponent": param.KindFloat})
}

func (e *ExponentEval) ApplyParams(m *param.Map) error {
	v, err := m.FloatValue("exponent")
	if err != nil {
		return err
	}
	e.exponent = float64(v)
	return nil
}

func (e *ExponentEval) Value(x, y, z float64) float64 {
	v := e.in[0].Value(x, y, z)
	return math.Pow(math.Abs((v+1.0)/2.0), e.exponent)*2.0 - 1.0
}

// ScaleBiasEval returns source 0 * scale + bias.
type ScaleBiasEval struct {
	sources
	scale, bias float64
}

func (*ScaleBiasEval) ValidateParams(p *param.Map) bool {
	return p.Require(map[string]param.Kind{"bias": param.KindFloat, "scale": param.KindFloat})
}

func (s *ScaleBiasEval) ApplyParams(m *param.Map) error {
	bias, err := m.FloatValue("bias")
	if err != nil {
		return err
	}
	scale, err := m.FloatValue("scale")
	if err != nil {
		return err
	}
	s.bias, s.scale = float64(bias), float64(scale)
	return nil
}

func (s *ScaleBiasEval) Value(x, y, z float64) float64 {
	return s.in[0].Value(x, y, z)*s.scale + s.bias
}

// CacheEval memoizes the last sample of source 0. Repeated queries at the
// same point, common when one node feeds several others, hit the cache.
type CacheEval struct {
	sources
	noParams
	valid   bool
	x, y, z float64
	cached  float64
}

// SetSource drops the cached sample along with the old binding.
func (c *CacheEval) SetSource(i int, src Evaluator) error {
	if err := c.sources.SetSource(i, src); err != nil {
		return err
	}
	c.valid = false
	return nil
}

// ApplyParams is where a node pushes fresh state, so it also invalidates.
func (c *CacheEval) ApplyParams(*param.Map) error {
	c.valid = false
	return nil
}

func (c *CacheEval) Value(x, y, z float64) float64 {
	if !c.valid || x != c.x || y != c.y || z != c.z {
		c.cached = c.in[0].Value(x, y, z)
		c.x, c.y, c.z = x, y, z
		c.valid = true
	}
	return c.cached
}

// ---------------------------------------------------------------------------
// Two-source combiners
// ---------------------------------------------------------------------------

// combineEval applies op to sources 0 and 1.
type combineEval struct {
	sources
	noParams
	op func(a, b float64) float64
}

func newCombine(op func(a, b float64) float64) *combineEval {
	return &combineEval{sources: newSources(2), op: op}
}

func (c *combineEval) Value(x, y, z float64) float64 {
	return c.op(c.in[0].Value(x, y, z), c.in[1].Value(x, y, z))
}

func addOp(a, b float64) float64 { return a + b }
func maxOp(a, b float64) float64 { return max(a, b) }
func minOp(a, b float64) float64 { return min(a, b) }
func mulOp(a, b float64) float64 { return a * b }

// powOp returns NaN for a negative base with a fractional exponent, as
// math.Pow does.
func powOp(a, b float64) float64 { return math.Pow(a, b) }

// ---------------------------------------------------------------------------
// Shared parameter helpers
// ---------------------------------------------------------------------------

func readBounds(m *param.Map) (lo, hi float64, err error) {
	l, err := m.FloatValue("lower_bound")
	if err != nil {
		return 0, 0, err
	}
	u, err := m.FloatValue("upper_bound")
	if err != nil {
		return 0, 0, err
	}
	if l >= u {
		return 0, 0, fmt.Errorf("%w: lower_bound %g must be below upper_bound %g", param.ErrConstraintViolation, l, u)
	}
	return float64(l), float64(u), nil
}

func orderedBounds(m *param.Map) bool {
	_, _, err := readBounds(m)
	return err == nil
}
