package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyG) {
		g.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.toggleBlend()
	}

	// Camera controls
	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = int32(rl.GetScreenWidth())
	g.screenHeight = int32(rl.GetScreenHeight())
}

// toggleBlend switches the sprites between normal and additive blending.
func (g *Game) toggleBlend() {
	g.additive = !g.additive
	if g.additive {
		g.sprites.SetBlend(rl.BlendAdditive)
	} else {
		g.sprites.SetBlend(rl.BlendAlpha)
	}
}

// handleCameraInput orbits, pans and zooms the camera. Input over the debug
// panel belongs to the GUI.
func (g *Game) handleCameraInput() {
	o := g.scene.Camera()

	if rl.IsKeyPressed(rl.KeyHome) {
		o.Reset()
		return
	}

	mouse := rl.GetMousePosition()
	if g.panel.Contains(mouse) {
		return
	}

	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		speed := g.config().Camera.RotateSpeed
		o.Rotate(-float64(delta.X)*speed, float64(delta.Y)*speed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) && g.screenHeight > 0 {
		h := float64(g.screenHeight)
		o.Pan(float64(delta.X)/h, float64(delta.Y)/h)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		o.ZoomSteps(float64(wheel))
	}
}
