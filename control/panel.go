package control

import (
	"math"

	"github.com/pthm-cable/campfire/fire"
)

// Folder titles of the debug panel.
const (
	FolderElements  = "Choose an element to burn"
	FolderParticles = "Particles"
	FolderLocation  = "Choose your location"
	FolderCamera    = "Camera position"
	FolderFirePlace = "Fire place position"
)

// Clamp limits v to r. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if !(v > r.Min) {
		return r.Min
	}
	return math.Min(v, r.Max)
}

// Slider describes one numeric panel control bound to a settings field.
// Widgets read through Get and turn a new value into a command with Set;
// they never write settings themselves.
type Slider struct {
	Label   string
	Range   Range
	Integer bool   // Round to whole numbers
	Format  string // Printf format for the value readout
	Get     func(s *Settings) float64
	Set     func(s *Settings, v float64) Command
}

// Value returns the current field value clamped to the slider range.
func (sl Slider) Value(s *Settings) float64 {
	return sl.Range.Clamp(sl.Get(s))
}

// Change returns the command for moving the slider to v, or nil when v does
// not differ from the current value.
func (sl Slider) Change(s *Settings, v float64) Command {
	v = sl.Range.Clamp(v)
	if sl.Integer {
		v = math.Round(v)
	}
	if v == sl.Value(s) {
		return nil
	}
	return sl.Set(s, v)
}

// ParticleSliders returns the controls of the Particles folder.
func ParticleSliders() []Slider {
	return []Slider{
		{
			Label: "size", Range: SizeRange, Format: "%.4f",
			Get: func(s *Settings) float64 { return s.Params.Size },
			Set: func(_ *Settings, v float64) Command { return SetSize{Size: v} },
		},
		{
			Label: "rotation", Range: RotationRange, Format: "%.2f",
			Get: func(s *Settings) float64 { return s.Params.Rotation },
			Set: func(_ *Settings, v float64) Command { return SetRotation{Radians: v} },
		},
		{
			Label: "lifetime", Range: LifetimeRange, Format: "%.2f",
			Get: func(s *Settings) float64 { return s.Params.Lifetime },
			Set: func(_ *Settings, v float64) Command { return SetLifetime{Lifetime: v} },
		},
		{
			Label: "spawn count", Range: SpawnCountRange, Integer: true, Format: "%.0f",
			Get: func(s *Settings) float64 { return float64(s.Params.SpawnCount) },
			Set: func(_ *Settings, v float64) Command { return SetSpawnCount{Count: int(v)} },
		},
		{
			Label: "wind speed", Range: WindSpeedRange, Format: "%.2f",
			Get: func(s *Settings) float64 { return s.Params.WindSpeed },
			Set: func(_ *Settings, v float64) Command { return SetWindSpeed{Speed: v} },
		},
	}
}

// CameraSliders returns the x, y and z controls of the Camera position folder.
// Moving one axis clamps the other two into range.
func CameraSliders() []Slider {
	axis := func(label string, get func(fire.Vec3) float64, set func(*fire.Vec3, float64)) Slider {
		return Slider{
			Label: label, Range: CameraRange, Format: "%.3f",
			Get: func(s *Settings) float64 { return get(s.CameraPosition) },
			Set: func(s *Settings, v float64) Command {
				p := clampVec(s.CameraPosition, CameraRange, CameraRange, CameraRange)
				set(&p, v)
				return SetCameraPosition{Position: p}
			},
		}
	}
	return []Slider{
		axis("x", getX, setX),
		axis("y", getY, setY),
		axis("z", getZ, setZ),
	}
}

// FirePlaceSliders returns the x, y and z controls of the Fire place
// position folder.
func FirePlaceSliders() []Slider {
	ranges := [3]Range{FirePlaceRangeX, FirePlaceRangeY, FirePlaceRangeZ}
	axis := func(label string, r Range, get func(fire.Vec3) float64, set func(*fire.Vec3, float64)) Slider {
		return Slider{
			Label: label, Range: r, Format: "%.2f",
			Get: func(s *Settings) float64 { return get(s.FirePlacePosition) },
			Set: func(s *Settings, v float64) Command {
				p := clampVec(s.FirePlacePosition, ranges[0], ranges[1], ranges[2])
				set(&p, v)
				return SetFirePlacePosition{Position: p}
			},
		}
	}
	return []Slider{
		axis("x", ranges[0], getX, setX),
		axis("y", ranges[1], getY, setY),
		axis("z", ranges[2], getZ, setZ),
	}
}

func clampVec(v fire.Vec3, rx, ry, rz Range) fire.Vec3 {
	return fire.Vec3{X: rx.Clamp(v.X), Y: ry.Clamp(v.Y), Z: rz.Clamp(v.Z)}
}

func getX(v fire.Vec3) float64 { return v.X }
func getY(v fire.Vec3) float64 { return v.Y }
func getZ(v fire.Vec3) float64 { return v.Z }

func setX(v *fire.Vec3, x float64) { v.X = x }
func setY(v *fire.Vec3, y float64) { v.Y = y }
func setZ(v *fire.Vec3, z float64) { v.Z = z }

// ElementToggle returns the command for a palette checkbox changing state.
// Checking an element selects it; unchecking the selected one is ignored so
// exactly one element stays chosen once any has been.
func ElementToggle(s *Settings, name string, checked bool) Command {
	if !checked || s.Element == name {
		return nil
	}
	return SelectElement{Name: name}
}

// SkyboxToggle is ElementToggle for the location checkboxes.
func SkyboxToggle(s *Settings, name string, checked bool) Command {
	if !checked || s.Skybox == name {
		return nil
	}
	return SelectSkybox{Name: name}
}
