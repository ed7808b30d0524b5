package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/campfire/telemetry"
)

// HUDData is the per-frame state shown in the top-left overlay.
type HUDData struct {
	Title     string
	Particles int
	Tick      int32
	FPS       int32
	Element   string // Empty when none is selected
	Flame     rl.Color
	Skybox    string
	Paused    bool
}

// HUD draws the scene title and the per-frame readout.
type HUD struct {
	renderer *Renderer
}

// NewHUD returns a HUD with its own text renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer

	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Particles: %d | Tick: %d | FPS: %d", data.Particles, data.Tick, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	element := data.Element
	if element == "" {
		element = "none"
	}
	y := r.DrawColorSwatch(10, 57, "Flame", data.Flame)
	y = r.DrawLabelValue(10, y, "Element", element)
	r.DrawLabelValue(10, y, "Location", data.Skybox)

	if data.Paused {
		rl.DrawText("PAUSED", 10, y+r.Theme.LineHeight+4, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase frame timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick avg: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
