package work

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/pkg/utils"
)

// Interpolation selects how a ParameterCurve blends between control points.
type Interpolation string

const (
	// InterpolationLinear blends control points with straight segments
	InterpolationLinear Interpolation = "LINEAR"

	// InterpolationSmooth eases in and out of every control point (smoothstep).
	// It stays monotonic between monotonic control points.
	InterpolationSmooth Interpolation = "SMOOTH"
)

// ParseInterpolation maps a config string to an Interpolation; empty means linear.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "linear", "LINEAR":
		return InterpolationLinear, nil
	case "smooth", "SMOOTH":
		return InterpolationSmooth, nil
	default:
		return "", fmt.Errorf("unknown interpolation %q", s)
	}
}

// ControlPoint is one (fraction, value) pair of a ParameterCurve
type ControlPoint struct {
	Fraction float64
	Value    float64
}

// ParameterCurve maps a job's completion fraction (0..1) to a scalar such as
// accumulated mass or cost. Curves are immutable once built.
type ParameterCurve struct {
	points []ControlPoint
	mode   Interpolation
}

// NewParameterCurve builds a curve from control points.
// Points are sorted by fraction; fractions must lie in [0, 1] and be distinct.
func NewParameterCurve(mode Interpolation, points ...ControlPoint) (*ParameterCurve, error) {
	if len(points) == 0 {
		return nil, shared.NewValidationError("points", "curve needs at least one control point")
	}
	if mode == "" {
		mode = InterpolationLinear
	}
	if mode != InterpolationLinear && mode != InterpolationSmooth {
		return nil, shared.NewValidationError("mode", fmt.Sprintf("unknown interpolation %q", mode))
	}

	sorted := make([]ControlPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Fraction < sorted[j].Fraction })

	for i, p := range sorted {
		if p.Fraction < 0 || p.Fraction > 1 {
			return nil, shared.NewValidationError("points", fmt.Sprintf("control point fraction %g outside [0, 1]", p.Fraction))
		}
		if i > 0 && p.Fraction == sorted[i-1].Fraction {
			return nil, shared.NewValidationError("points", fmt.Sprintf("duplicate control point at fraction %g", p.Fraction))
		}
	}

	return &ParameterCurve{points: sorted, mode: mode}, nil
}

// LinearCurve is a two-point curve rising from `from` at 0 to `to` at 1.
func LinearCurve(from, to float64) *ParameterCurve {
	return &ParameterCurve{
		points: []ControlPoint{{Fraction: 0, Value: from}, {Fraction: 1, Value: to}},
		mode:   InterpolationLinear,
	}
}

// Mode returns the interpolation mode
func (c *ParameterCurve) Mode() Interpolation { return c.mode }

// Points returns a copy of the control points in fraction order
func (c *ParameterCurve) Points() []ControlPoint {
	out := make([]ControlPoint, len(c.points))
	copy(out, c.points)
	return out
}

// Evaluate returns the curve value at fraction f (clamped to [0, 1]).
// Outside the first/last control point the curve is flat.
func (c *ParameterCurve) Evaluate(f float64) float64 {
	f = utils.Clamp01(f)
	first, last := c.points[0], c.points[len(c.points)-1]
	if f <= first.Fraction {
		return first.Value
	}
	if f >= last.Fraction {
		return last.Value
	}

	// index of the first point strictly right of f
	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].Fraction > f })
	a, b := c.points[i-1], c.points[i]
	t := (f - a.Fraction) / (b.Fraction - a.Fraction)
	if c.mode == InterpolationSmooth {
		t = t * t * (3 - 2*t)
	}
	return a.Value + t*(b.Value-a.Value)
}

// Final returns the value at fraction 1
func (c *ParameterCurve) Final() float64 {
	return c.Evaluate(1)
}
