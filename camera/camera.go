// Package camera provides an orbit camera for viewing the campfire scene.
package camera

import (
	"math"

	"github.com/pthm-cable/campfire/fire"
)

// maxPitch keeps the eye just short of the poles so the up vector stays valid.
const maxPitch = math.Pi/2 - 0.01

// Orbit is an eye circling a target point. The eye position is derived from
// yaw, pitch and distance, so it can never drift away from the target.
type Orbit struct {
	Target fire.Vec3

	// Yaw is the angle around +Y measured from +Z, pitch the elevation above
	// the XZ plane. Both in radians.
	Yaw, Pitch float64

	Distance float64

	// Distance constraints
	MinDistance, MaxDistance float64

	// Vertical field of view in degrees
	Fovy float64

	// Input sensitivities
	ZoomSpeed, PanSpeed float64

	home, homeTarget fire.Vec3
}

// New creates an orbit camera looking from position at target.
func New(position, target fire.Vec3, fovy float64) *Orbit {
	o := &Orbit{
		MinDistance: 0.01,
		MaxDistance: 50,
		Fovy:        fovy,
		ZoomSpeed:   0.3,
		PanSpeed:    0.3,
		home:        position,
		homeTarget:  target,
	}
	o.FromPosition(position, target)
	return o
}

// FromPosition recomputes yaw, pitch and distance so the eye sits at pos
// looking at target. A pos equal to target keeps the current direction at
// the minimum distance.
func (o *Orbit) FromPosition(pos, target fire.Vec3) {
	o.Target = target
	off := pos.Sub(target)
	d := pos.Dist(target)
	if d == 0 {
		o.Distance = o.MinDistance
		return
	}
	o.Yaw = math.Atan2(off.X, off.Z)
	o.Pitch = clamp(math.Asin(off.Y/d), -maxPitch, maxPitch)
	o.Distance = clamp(d, o.MinDistance, o.MaxDistance)
}

// Position returns the eye position in world coordinates.
func (o *Orbit) Position() fire.Vec3 {
	return o.Target.Add(o.offset())
}

// Forward returns the unit view direction from eye to target.
func (o *Orbit) Forward() fire.Vec3 {
	off := o.offset()
	return scale(off, -1/o.Distance)
}

func (o *Orbit) offset() fire.Vec3 {
	cp := math.Cos(o.Pitch)
	return fire.Vec3{
		X: o.Distance * cp * math.Sin(o.Yaw),
		Y: o.Distance * math.Sin(o.Pitch),
		Z: o.Distance * cp * math.Cos(o.Yaw),
	}
}

// SetPosition moves the eye to pos and keeps the current target.
func (o *Orbit) SetPosition(pos fire.Vec3) {
	o.FromPosition(pos, o.Target)
}

// Rotate turns the eye around the target by the given radians.
// Pitch is clamped short of straight up or down.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = math.Mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom multiplies the distance by factor, clamped to min/max.
// Factors below 1 move closer.
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	o.Distance = clamp(o.Distance*factor, o.MinDistance, o.MaxDistance)
}

// ZoomSteps zooms by mouse wheel steps scaled by ZoomSpeed.
// Positive steps move closer.
func (o *Orbit) ZoomSteps(steps float64) {
	o.Zoom(math.Pow(0.95, steps*o.ZoomSpeed*10))
}

// Pan slides the target and eye together in the view plane. dx and dy are
// fractions of the viewport, scaled by distance and PanSpeed.
func (o *Orbit) Pan(dx, dy float64) {
	fwd := o.Forward()
	right := normalize(cross(fwd, fire.Vec3{Y: 1}))
	up := cross(right, fwd)

	k := o.Distance * o.PanSpeed
	o.Target = o.Target.Add(scale(right, -dx*k)).Add(scale(up, dy*k))
}

// Reset returns the camera to where it was created.
func (o *Orbit) Reset() {
	o.FromPosition(o.home, o.homeTarget)
}

func scale(v fire.Vec3, s float64) fire.Vec3 {
	return fire.Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func cross(a, b fire.Vec3) fire.Vec3 {
	return fire.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize(v fire.Vec3) fire.Vec3 {
	l := v.Dist(fire.Vec3{})
	if l == 0 {
		return v
	}
	return scale(v, 1/l)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
