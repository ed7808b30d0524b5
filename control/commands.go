package control

import (
	"fmt"
	"math"

	"github.com/pthm-cable/campfire/fire"
)

// Range is the inclusive span a slider may produce.
type Range struct {
	Min, Max float64
}

// Contains reports whether v is finite and within r.
func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

func (r Range) check(name string, v float64) error {
	if !r.Contains(v) {
		return fmt.Errorf("%w: %s %g not in [%g, %g]", ErrOutOfRange, name, v, r.Min, r.Max)
	}
	return nil
}

// Slider ranges exposed by the debug panel.
var (
	SizeRange       = Range{0, 0.01}
	RotationRange   = Range{-math.Pi, math.Pi}
	LifetimeRange   = Range{0, 5}
	SpawnCountRange = Range{0, 20}
	WindSpeedRange  = Range{-10, 10}
	CameraRange     = Range{-2, 4}
	FirePlaceRangeX = Range{0, 10}
	FirePlaceRangeY = Range{0, 10}
	FirePlaceRangeZ = Range{-10, 10}
)

// Command is one queued change to Settings. Apply must leave s untouched when
// it returns an error.
type Command interface {
	Apply(s *Settings) error
}

// SetSpawnCount sets the particles emitted per tick.
type SetSpawnCount struct{ Count int }

// Apply implements Command.
func (c SetSpawnCount) Apply(s *Settings) error {
	if err := SpawnCountRange.check("spawn count", float64(c.Count)); err != nil {
		return err
	}
	s.Params.SpawnCount = c.Count
	return nil
}

// SetSize sets the base particle size.
type SetSize struct{ Size float64 }

// Apply implements Command.
func (c SetSize) Apply(s *Settings) error {
	if err := SizeRange.check("size", c.Size); err != nil {
		return err
	}
	s.Params.Size = c.Size
	return nil
}

// SetRotation sets the sprite angle given to new particles.
type SetRotation struct{ Radians float64 }

// Apply implements Command.
func (c SetRotation) Apply(s *Settings) error {
	if err := RotationRange.check("rotation", c.Radians); err != nil {
		return err
	}
	s.Params.Rotation = c.Radians
	return nil
}

// SetLifetime sets the initial lifetime of new particles. It may not exceed
// the configured max life.
type SetLifetime struct{ Lifetime float64 }

// Apply implements Command.
func (c SetLifetime) Apply(s *Settings) error {
	if err := LifetimeRange.check("lifetime", c.Lifetime); err != nil {
		return err
	}
	if c.Lifetime > s.Params.MaxLife {
		return fmt.Errorf("%w: lifetime %g exceeds max life %g", ErrOutOfRange, c.Lifetime, s.Params.MaxLife)
	}
	s.Params.Lifetime = c.Lifetime
	return nil
}

// SetWindSpeed sets the drift wind factor.
type SetWindSpeed struct{ Speed float64 }

// Apply implements Command.
func (c SetWindSpeed) Apply(s *Settings) error {
	if err := WindSpeedRange.check("wind speed", c.Speed); err != nil {
		return err
	}
	s.Params.WindSpeed = c.Speed
	return nil
}

// SelectElement switches the flame colour to a palette element.
type SelectElement struct{ Name string }

// Apply implements Command.
func (c SelectElement) Apply(s *Settings) error {
	return s.selectElement(c.Name)
}

// SelectSkybox switches the background.
type SelectSkybox struct{ Name string }

// Apply implements Command.
func (c SelectSkybox) Apply(s *Settings) error {
	return s.selectSkybox(c.Name)
}

// SetCameraPosition moves the camera eye.
type SetCameraPosition struct{ Position fire.Vec3 }

// Apply implements Command.
func (c SetCameraPosition) Apply(s *Settings) error {
	p := c.Position
	for _, v := range []struct {
		name string
		v    float64
	}{{"camera x", p.X}, {"camera y", p.Y}, {"camera z", p.Z}} {
		if err := CameraRange.check(v.name, v.v); err != nil {
			return err
		}
	}
	s.CameraPosition = p
	return nil
}

// SetFirePlacePosition moves the campfire model.
type SetFirePlacePosition struct{ Position fire.Vec3 }

// Apply implements Command.
func (c SetFirePlacePosition) Apply(s *Settings) error {
	p := c.Position
	if err := FirePlaceRangeX.check("fire place x", p.X); err != nil {
		return err
	}
	if err := FirePlaceRangeY.check("fire place y", p.Y); err != nil {
		return err
	}
	if err := FirePlaceRangeZ.check("fire place z", p.Z); err != nil {
		return err
	}
	s.FirePlacePosition = p
	return nil
}
