// Package fire implements the campfire particle effect: per-tick emission,
// aging, curve-driven mutation, layered stochastic effect rules, depth
// sorting and extraction of flat render attributes.
package fire

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNonFiniteElapsed is returned when elapsed time is NaN or infinite.
	ErrNonFiniteElapsed = errors.New("fire: elapsed time is not finite")
	// ErrNegativeElapsed is returned when elapsed time is below zero.
	ErrNegativeElapsed = errors.New("fire: elapsed time is negative")
	// ErrInvalidParams is returned when emission parameters are out of range.
	ErrInvalidParams = errors.New("fire: invalid emission parameters")
)

// Vec3 is a point or direction in scene space.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	d := v.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Colour is a linear RGB triple with components in [0, 1].
type Colour struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// Predefined colours.
var (
	White = Colour{R: 1, G: 1, B: 1}
	Black = Colour{}
)

// Lerp blends c toward o by amount t (0 = c, 1 = o).
func (c Colour) Lerp(o Colour, t float64) Colour {
	return Colour{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
	}
}

// Luminance returns the Rec. 709 relative luminance.
func (c Colour) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Particle is one simulated fire, smoke or spark element.
type Particle struct {
	Position    Vec3
	Size        float64 // Base size
	CurrentSize float64 // Size scaled by the size curve
	Colour      Colour
	Alpha       float64
	Lifetime    float64 // Remaining time to live
	MaxLife     float64
	Rotation    float64 // Sprite angle in radians, fixed at birth
	Velocity    Vec3    // Stored only; position is driven by curves
}

// Progress returns the normalized age: 0 at birth, approaching 1 at death.
func (p *Particle) Progress() float64 {
	return 1 - p.Lifetime/p.MaxLife
}

// Params is the live emission configuration read at the start of each tick.
type Params struct {
	SpawnCount int     `yaml:"spawn_count"`
	Size       float64 `yaml:"size"`
	Colour     Colour  `yaml:"colour"`
	Alpha      float64 `yaml:"alpha"`
	Lifetime   float64 `yaml:"lifetime"`
	MaxLife    float64 `yaml:"max_life"`
	Rotation   float64 `yaml:"rotation"`
	Velocity   Vec3    `yaml:"velocity"`
	WindSpeed  float64 `yaml:"wind_speed"`
}

// Validate reports out-of-range emission parameters.
// Rotation and wind speed may be negative.
func (p Params) Validate() error {
	var errs []error
	if p.SpawnCount < 0 {
		errs = append(errs, fmt.Errorf("spawn count %d < 0", p.SpawnCount))
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"size", p.Size},
		{"alpha", p.Alpha},
		{"lifetime", p.Lifetime},
		{"max life", p.MaxLife},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			errs = append(errs, fmt.Errorf("%s is not finite", c.name))
		} else if c.v < 0 {
			errs = append(errs, fmt.Errorf("%s %g < 0", c.name, c.v))
		}
	}
	if p.MaxLife == 0 && p.SpawnCount > 0 {
		errs = append(errs, errors.New("max life is zero"))
	}
	if p.Lifetime > p.MaxLife {
		errs = append(errs, fmt.Errorf("lifetime %g exceeds max life %g", p.Lifetime, p.MaxLife))
	}
	for _, v := range []float64{p.Rotation, p.WindSpeed, p.Velocity.X, p.Velocity.Y, p.Velocity.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, errors.New("rotation, wind speed and velocity must be finite"))
			break
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}

// Attributes holds the per-frame render buffers in sorted particle order.
type Attributes struct {
	Positions []float32 // 3 per particle
	Sizes     []float32 // 1 per particle
	Colours   []float32 // 4 per particle: r, g, b, alpha
	Angles    []float32 // 1 per particle
}

// Len returns the number of particles described.
func (a Attributes) Len() int {
	return len(a.Sizes)
}

// TickStats summarizes the membership changes of the last step.
type TickStats struct {
	Spawned int
	Expired int
	Live    int
}
