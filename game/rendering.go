package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/campfire/renderer"
	"github.com/pthm-cable/campfire/ui"
)

// panelWidth is the width of the debug panel in pixels.
const panelWidth = 320

// initRenderers creates GPU resources. Asset failures are logged and the
// scene carries on without the missing piece.
func (g *Game) initRenderers() error {
	cfg := g.config()

	blend, err := renderer.ParseBlend(cfg.Sprite.Blend)
	if err != nil {
		return err
	}

	g.skybox = renderer.NewSkyboxRenderer(renderer.FireColour(cfg.Scene.ClearColour))
	g.skybox.Init()
	options := make([]ui.SkyboxOption, 0, len(cfg.Scene.Skyboxes))
	for _, sb := range cfg.Scene.Skyboxes {
		if err := g.skybox.Load(sb.Name, sb.Dir, sb.Faces); err != nil {
			slog.Warn("skybox unavailable, using clear colour", "skybox", sb.Name, "error", err)
		}
		options = append(options, ui.SkyboxOption{Name: sb.Name, Label: sb.Label})
	}

	g.campfire = renderer.NewCampfireRenderer(float32(cfg.Scene.ModelScale))
	if err := g.campfire.Load(cfg.Scene.ModelPath); err != nil {
		slog.Error("failed to load campfire model", "error", err)
	}

	g.sprites = renderer.NewSpriteRenderer(cfg.Sprite.Texture, blend, float32(cfg.Sprite.WorldScale))
	g.additive = blend == rl.BlendAdditive
	g.sprites.Init()

	g.panel = ui.NewDebugPanel(panelWidth, options, g.scene)
	g.hud = ui.NewHUD()
	g.perf = ui.NewPerfPanel(10, 140)
	return nil
}

// camera3D builds the raylib camera from the orbit camera.
func (g *Game) camera3D() rl.Camera3D {
	o := g.scene.Camera()
	return rl.Camera3D{
		Position:   renderer.Vec3(o.Position()),
		Target:     renderer.Vec3(o.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(o.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// frameMS returns the last frame time in milliseconds, the unit particle
// aging is tuned for.
func frameMS() float64 {
	return float64(rl.GetFrameTime()) * 1000
}

// Draw renders the frame.
func (g *Game) Draw() {
	if g.ticked {
		g.scene.DrawPhase()
	}
	g.scene.Perf().RecordFrame()

	s := g.scene.Settings()
	if s.Skybox != g.currentSkybox {
		g.skybox.Select(s.Skybox)
		g.currentSkybox = s.Skybox
	}

	cam := g.camera3D()

	rl.BeginDrawing()

	rl.BeginMode3D(cam)
	g.skybox.Draw()
	g.campfire.Draw(s.FirePlacePosition)
	g.sprites.Draw(cam, g.scene.Attributes())
	rl.EndMode3D()

	g.hud.Draw(ui.HUDData{
		Title:     g.config().Screen.Title,
		Particles: g.scene.Fire().Count(),
		Tick:      g.scene.CurrentTick(),
		FPS:       rl.GetFPS(),
		Element:   s.Element,
		Flame:     renderer.FireColour(s.Params.Colour),
		Skybox:    g.skyboxLabel(s.Skybox),
		Paused:    g.paused,
	})
	if g.showPerf {
		g.perf.Draw(g.scene.Perf().Stats())
	}
	g.panel.Draw(s, g.screenWidth, g.campfire.Loaded())
	g.hud.DrawControls(g.screenHeight, "Drag: orbit | Right drag: pan | Wheel: zoom | Home: reset view | G: GUI | B: blend | P: perf | Space: pause")

	rl.EndDrawing()

	if g.ticked {
		g.scene.EndFrame()
		g.ticked = false
	}
}

// skyboxLabel returns the display label of a configured skybox.
func (g *Game) skyboxLabel(name string) string {
	for _, sb := range g.config().Scene.Skyboxes {
		if sb.Name == name {
			return sb.Label
		}
	}
	return name
}
