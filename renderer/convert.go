package renderer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/campfire/fire"
)

// Vec3 converts a scene vector to raylib's float32 form.
func Vec3(v fire.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// Colour converts a normalized colour and alpha to 8-bit RGBA, clamping
// each channel to [0, 1].
func Colour(r, g, b, a float32) color.RGBA {
	return rl.ColorFromNormalized(rl.Vector4{X: unit(r), Y: unit(g), Z: unit(b), W: unit(a)})
}

// FireColour converts a fire colour to opaque RGBA.
func FireColour(c fire.Colour) color.RGBA {
	return Colour(float32(c.R), float32(c.G), float32(c.B), 1)
}

func unit(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	return min(x, 1)
}

// ParseBlend maps a config blend name to a raylib blend mode.
func ParseBlend(name string) (rl.BlendMode, error) {
	switch strings.ToLower(name) {
	case "", "normal", "alpha":
		return rl.BlendAlpha, nil
	case "additive", "add":
		return rl.BlendAdditive, nil
	default:
		return rl.BlendAlpha, fmt.Errorf("renderer: unknown blend mode %q", name)
	}
}

// degrees converts radians to degrees for raylib's rotation arguments.
func degrees(rad float32) float32 {
	return rad * 180 / math.Pi
}
