package noise

import "github.com/chazu/mapgen/pkg/param"

// Slot layout shared by Select and Blend: two inputs and a control.
const (
	slotFirst   = 0
	slotSecond  = 1
	slotControl = 2
)

// SelectEval outputs source 1 where the control value lies inside
// [lower_bound, upper_bound] and source 0 elsewhere. A non-zero fall_off
// blends the two across each boundary.
type SelectEval struct {
	sources
	lower, upper float64
	falloff      float64
}

var selectParams = map[string]param.Kind{
	"lower_bound": param.KindFloat,
	"upper_bound": param.KindFloat,
	"fall_off":    param.KindFloat,
}

func newSelect() *SelectEval {
	return &SelectEval{sources: newSources(3), lower: -1, upper: 1}
}

// ValidateParams also requires lower_bound < upper_bound and a
// non-negative fall_off.
func (*SelectEval) ValidateParams(p *param.Map) bool {
	if !p.Require(selectParams) || !orderedBounds(p) {
		return false
	}
	f, _ := p.FloatValue("fall_off")
	return f >= 0
}

// ApplyParams caps fall_off at half the bound width so the two edge
// curves never overlap.
func (s *SelectEval) ApplyParams(m *param.Map) error {
	lo, hi, err := readBounds(m)
	if err != nil {
		return err
	}
	f, err := m.FloatValue("fall_off")
	if err != nil {
		return err
	}
	s.lower, s.upper = lo, hi
	s.falloff = min(float64(f), (hi-lo)/2)
	return nil
}

func (s *SelectEval) Value(x, y, z float64) float64 {
	control := s.in[slotControl].Value(x, y, z)
	a, b := s.in[slotFirst], s.in[slotSecond]

	if s.falloff <= 0 {
		if control < s.lower || control > s.upper {
			return a.Value(x, y, z)
		}
		return b.Value(x, y, z)
	}

	switch {
	case control < s.lower-s.falloff:
		return a.Value(x, y, z)
	case control < s.lower+s.falloff:
		lo, hi := s.lower-s.falloff, s.lower+s.falloff
		alpha := sCurve3((control - lo) / (hi - lo))
		return lerp(a.Value(x, y, z), b.Value(x, y, z), alpha)
	case control < s.upper-s.falloff:
		return b.Value(x, y, z)
	case control < s.upper+s.falloff:
		lo, hi := s.upper-s.falloff, s.upper+s.falloff
		alpha := sCurve3((control - lo) / (hi - lo))
		return lerp(b.Value(x, y, z), a.Value(x, y, z), alpha)
	default:
		return a.Value(x, y, z)
	}
}

// BlendEval linearly interpolates from source 0 to source 1, weighted by
// the control mapped from [-1, 1] to [0, 1].
type BlendEval struct {
	sources
	noParams
}

func (b *BlendEval) Value(x, y, z float64) float64 {
	alpha := (b.in[slotControl].Value(x, y, z) + 1.0) / 2.0
	return lerp(b.in[slotFirst].Value(x, y, z), b.in[slotSecond].Value(x, y, z), alpha)
}
