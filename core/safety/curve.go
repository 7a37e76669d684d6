package safety

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// CurvePoint is one sample of the RPM-fraction to stress mapping.
type CurvePoint struct {
	RPMFraction float64 `json:"rpm_fraction"`
	StressPct   float64 `json:"stress_pct"`
}

// DefaultCurve approximates the quadratic centrifugal stress profile of the
// reference core. The exact shape is tunable; only monotonicity and the
// [0,100] bound are contractual.
func DefaultCurve() []CurvePoint {
	return []CurvePoint{
		{0, 0},
		{0.25, 8},
		{0.5, 28},
		{0.75, 58},
		{1, 100},
	}
}

// StressCurve maps rpm/maxRPM to a material stress percentage via
// piecewise-linear interpolation over a fixed sample table.
type StressCurve struct {
	pl interp.PiecewiseLinear
}

// NewStressCurve fits a curve over the given points. Points must be strictly
// increasing in both coordinates, start at fraction 0 and end at fraction 1,
// and stay within [0,100] stress.
func NewStressCurve(points []CurvePoint) (*StressCurve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("stress curve needs at least 2 points, got %d", len(points))
	}
	if points[0].RPMFraction != 0 || points[len(points)-1].RPMFraction != 1 {
		return nil, fmt.Errorf("stress curve must span rpm fractions [0,1]")
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if p.StressPct < 0 || p.StressPct > 100 {
			return nil, fmt.Errorf("stress %v out of [0,100]", p.StressPct)
		}
		if i > 0 {
			if p.RPMFraction <= points[i-1].RPMFraction {
				return nil, fmt.Errorf("rpm fractions must be strictly increasing")
			}
			if p.StressPct < points[i-1].StressPct {
				return nil, fmt.Errorf("stress curve must be monotonically increasing")
			}
		}
		xs[i] = p.RPMFraction
		ys[i] = p.StressPct
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return &StressCurve{pl: pl}, nil
}

// Stress evaluates the curve at rpm/maxRPM, clamped to [0,100].
func (c *StressCurve) Stress(rpm, maxRPM float64) float64 {
	if maxRPM <= 0 {
		return 0
	}
	frac := rpm / maxRPM
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	s := c.pl.Predict(frac)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
