package renderer

import (
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/campfire/fire"
)

// spriteFallbackPx is the edge length of the generated sprite used when the
// texture file is missing.
const spriteFallbackPx = 64

// SpriteRenderer draws particle attributes as camera-facing textured quads.
type SpriteRenderer struct {
	texturePath string
	blend       rl.BlendMode
	worldScale  float32

	tex         rl.Texture2D
	src         rl.Rectangle
	initialized bool
}

// NewSpriteRenderer creates a sprite renderer. worldScale converts particle
// size to world units.
func NewSpriteRenderer(texturePath string, blend rl.BlendMode, worldScale float32) *SpriteRenderer {
	return &SpriteRenderer{
		texturePath: texturePath,
		blend:       blend,
		worldScale:  worldScale,
	}
}

// Init loads the sprite texture (must be called after raylib window is
// created). A missing or unreadable file is replaced by a soft radial blob.
func (r *SpriteRenderer) Init() {
	if r.initialized {
		return
	}

	if _, err := os.Stat(r.texturePath); err == nil {
		r.tex = rl.LoadTexture(r.texturePath)
	}
	if !rl.IsTextureValid(r.tex) {
		slog.Warn("sprite texture unavailable, using generated sprite", "path", r.texturePath)
		img := rl.GenImageGradientRadial(spriteFallbackPx, spriteFallbackPx, 0.2, rl.White, color.RGBA{R: 255, G: 255, B: 255, A: 0})
		r.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
	}
	rl.GenTextureMipmaps(&r.tex)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)

	r.src = rl.NewRectangle(0, 0, float32(r.tex.Width), float32(r.tex.Height))
	r.initialized = true
}

// SetBlend changes the blend mode used for subsequent draws.
func (r *SpriteRenderer) SetBlend(mode rl.BlendMode) {
	r.blend = mode
}

// Draw renders the particles in buffer order, which callers sort back to
// front. Must be called inside BeginMode3D. Depth is tested but not written
// so overlapping sprites blend instead of occluding each other.
func (r *SpriteRenderer) Draw(cam rl.Camera3D, attrs fire.Attributes) {
	if !r.initialized {
		r.Init()
	}
	n := attrs.Len()
	if n == 0 {
		return
	}

	up := rl.Vector3{Y: 1}
	rl.BeginBlendMode(r.blend)
	rl.DisableDepthMask()

	for i := 0; i < n; i++ {
		size := attrs.Sizes[i] * r.worldScale
		if size <= 0 {
			continue
		}
		pos := rl.Vector3{X: attrs.Positions[i*3], Y: attrs.Positions[i*3+1], Z: attrs.Positions[i*3+2]}
		c := attrs.Colours[i*4 : i*4+4]
		tint := Colour(c[0], c[1], c[2], c[3])

		rl.DrawBillboardPro(cam, r.tex, r.src, pos, up,
			rl.Vector2{X: size, Y: size},
			rl.Vector2{X: size / 2, Y: size / 2},
			degrees(attrs.Angles[i]), tint)
	}

	rl.EndBlendMode()
	rl.EnableDepthMask()
}

// Unload frees resources.
func (r *SpriteRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.tex)
		r.initialized = false
	}
}
