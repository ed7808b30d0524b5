// Package curve provides control-point curves used to drive time-varying
// visual parameters. A curve is an ordered table of (t, value) keys plus an
// interpolation rule. Sampling outside the key range holds the nearest
// endpoint. Spline curves instead treat the keys as a path in the (t, value)
// plane and sample it by distance travelled.
package curve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

var (
	// ErrEmpty is returned when a curve is built with no control points.
	ErrEmpty = errors.New("curve: no control points")
	// ErrNotIncreasing is returned when keys are not strictly increasing.
	ErrNotIncreasing = errors.New("curve: keys not strictly increasing")
	// ErrNonFinite is returned when a key or value is NaN or infinite.
	ErrNonFinite = errors.New("curve: non-finite control point")
)

// Interpolation selects how values between keys are computed.
type Interpolation uint8

const (
	Linear   Interpolation = iota // Straight segments between keys
	Monotone                      // Fritsch-Butland cubic, never overshoots the keys
	Spline                        // Catmull-Rom path sampled by arc length
)

// String returns the config name of the interpolation.
func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "linear"
	case Monotone:
		return "monotone"
	case Spline:
		return "spline"
	default:
		return fmt.Sprintf("Interpolation(%d)", uint8(i))
	}
}

// ParseInterpolation maps a config name to an Interpolation.
// An empty name selects Linear.
func ParseInterpolation(name string) (Interpolation, error) {
	switch name {
	case "", "linear":
		return Linear, nil
	case "monotone", "cubic":
		return Monotone, nil
	case "spline", "catmull_rom":
		return Spline, nil
	}
	return Linear, fmt.Errorf("curve: unknown interpolation %q", name)
}

// Point is a single control point.
type Point struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// Curve is an immutable sampled curve.
type Curve struct {
	points []Point
	mode   Interpolation
	pred   interp.Predictor
	path   *spline // Spline mode only
}

// New builds a curve from control points ordered by strictly increasing T.
// Spline curves accept keys in any order. A single point yields a constant
// curve.
func New(points []Point, mode Interpolation) (*Curve, error) {
	if len(points) == 0 {
		return nil, ErrEmpty
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if !finite(p.T) || !finite(p.V) {
			return nil, fmt.Errorf("point %d (%g, %g): %w", i, p.T, p.V, ErrNonFinite)
		}
		if mode != Spline && i > 0 && p.T <= points[i-1].T {
			return nil, fmt.Errorf("point %d key %g after %g: %w", i, p.T, points[i-1].T, ErrNotIncreasing)
		}
		xs[i] = p.T
		ys[i] = p.V
	}

	c := &Curve{
		points: append([]Point(nil), points...),
		mode:   mode,
	}

	if len(points) == 1 {
		c.pred = interp.Constant(points[0].V)
		return c, nil
	}
	if mode == Spline {
		c.path = newSpline(c.points)
		return c, nil
	}

	// Fit panics on bad input; the checks above rule that out. A monotone
	// cubic through two points is the straight segment.
	switch {
	case mode == Monotone && len(points) > 2:
		var fb interp.FritschButland
		if err := fb.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("fitting monotone curve: %w", err)
		}
		c.pred = &fb
	default:
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("fitting linear curve: %w", err)
		}
		c.pred = &pl
	}
	return c, nil
}

// MustNew is like New but panics on error. Intended for package-level
// curves built from literals.
func MustNew(points []Point, mode Interpolation) *Curve {
	c, err := New(points, mode)
	if err != nil {
		panic(err)
	}
	return c
}

// Sample returns the curve value at key t.
// Keys outside the control range hold the nearest endpoint value. A spline
// has no key axis, so t is mapped linearly onto progress along its length.
func (c *Curve) Sample(t float64) float64 {
	first, last := c.Domain()
	if c.path != nil {
		if !(last > first) {
			return c.path.sample(0)
		}
		return c.path.sample(clamp01((t - first) / (last - first)))
	}
	if !(t > first) {
		return c.points[0].V
	}
	if t >= last {
		return c.points[len(c.points)-1].V
	}
	return c.pred.Predict(t)
}

// SampleNormalized maps u in [0, 1] onto the whole key range and samples
// there. On a spline u is the fraction of the path length travelled.
// u outside [0, 1] is clamped.
func (c *Curve) SampleNormalized(u float64) float64 {
	if c.path != nil {
		return c.path.sample(clamp01(u))
	}
	first, last := c.Domain()
	return c.Sample(first + clamp01(u)*(last-first))
}

// Domain returns the first and last key. Spline keys may be unordered, so
// this is their smallest and largest.
func (c *Curve) Domain() (first, last float64) {
	if c.mode != Spline {
		return c.points[0].T, c.points[len(c.points)-1].T
	}
	first, last = c.points[0].T, c.points[0].T
	for _, p := range c.points[1:] {
		first = math.Min(first, p.T)
		last = math.Max(last, p.T)
	}
	return first, last
}

// KeyProgress returns the normalized progress at which control point k is
// reached, the u for which SampleNormalized(u) returns its value.
func (c *Curve) KeyProgress(k int) float64 {
	if c.path != nil {
		return c.path.progress(k)
	}
	first, last := c.Domain()
	if !(last > first) {
		return 0
	}
	return (c.points[k].T - first) / (last - first)
}

// Points returns a copy of the control points.
func (c *Curve) Points() []Point {
	return append([]Point(nil), c.points...)
}

// Interpolation returns the interpolation rule of the curve.
func (c *Curve) Interpolation() Interpolation {
	return c.mode
}

// Len returns the number of control points.
func (c *Curve) Len() int {
	return len(c.points)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func clamp01(x float64) float64 {
	// NaN compares false both ways; pin it to the start of the range.
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
