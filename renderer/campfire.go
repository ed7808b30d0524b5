package renderer

import (
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/campfire/fire"
)

// CampfireRenderer draws the static fire-pit model.
type CampfireRenderer struct {
	model  rl.Model
	scale  float32
	loaded bool
}

// NewCampfireRenderer creates an empty campfire renderer.
func NewCampfireRenderer(scale float32) *CampfireRenderer {
	return &CampfireRenderer{scale: scale}
}

// Load reads the model (must be called after raylib window is created).
// Failure leaves the renderer empty; the rest of the scene is unaffected.
func (c *CampfireRenderer) Load(path string) error {
	slog.Info("loading campfire model", "path", path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("campfire model: %w", err)
	}
	m := rl.LoadModel(path)
	if !rl.IsModelValid(m) {
		return fmt.Errorf("campfire model: cannot load %s", path)
	}
	if c.loaded {
		rl.UnloadModel(c.model)
	}
	c.model = m
	c.loaded = true
	slog.Info("campfire model loaded", "path", path, "meshes", m.MeshCount, "materials", m.MaterialCount)
	return nil
}

// Loaded reports whether a model is available.
func (c *CampfireRenderer) Loaded() bool {
	return c.loaded
}

// Draw renders the model at pos. Must be called inside BeginMode3D.
func (c *CampfireRenderer) Draw(pos fire.Vec3) {
	if !c.loaded {
		return
	}
	rl.DrawModel(c.model, Vec3(pos), c.scale, rl.White)
}

// Unload frees resources.
func (c *CampfireRenderer) Unload() {
	if c.loaded {
		rl.UnloadModel(c.model)
		c.loaded = false
	}
}
