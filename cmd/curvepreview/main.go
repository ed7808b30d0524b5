// Curve preview tool - plots the configured particle curves with a progress
// cursor and an interpolation toggle.
//
// Usage: go run ./cmd/curvepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/campfire/config"
	"github.com/pthm-cable/campfire/curve"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	plotWidth    = 620
	plotHeight   = 150
	plotGap      = 22
	plotSamples  = 200
	panelX       = plotWidth + 40
	panelWidth   = windowWidth - panelX - 20
)

// plot is one named curve as configured and as currently previewed.
type plot struct {
	name   string
	source config.CurveConfig
	curve  *curve.Curve
	lo, hi float64 // Value range of the plotted samples
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	c := cfg.Curves
	plots := []*plot{
		{name: "alpha", source: c.Alpha},
		{name: "size", source: c.Size},
		{name: "velocity_x", source: c.VelocityX},
		{name: "velocity_y", source: c.VelocityY},
	}
	for _, p := range plots {
		mode, err := curve.ParseInterpolation(p.source.Interpolation)
		if err != nil {
			slog.Error("bad interpolation", "curve", p.name, "error", err)
			os.Exit(1)
		}
		if err := p.rebuild(mode); err != nil {
			slog.Error("bad curve", "curve", p.name, "error", err)
			os.Exit(1)
		}
	}

	rl.InitWindow(windowWidth, windowHeight, "Curve Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var progress float32
	selected := 0
	mode := plots[0].curve.Interpolation()

	for !rl.WindowShouldClose() {
		for i := range plots {
			if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
				selected = i
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		y := float32(10)
		for i, p := range plots {
			drawPlot(p, rl.Rectangle{X: 20, Y: y + 16, Width: plotWidth, Height: plotHeight}, float64(progress), i == selected)
			y += plotHeight + 16 + plotGap
		}

		// Control panel
		py := float32(10)
		rl.DrawText("Particle Curves", panelX, int32(py), 20, rl.DarkGray)
		py += 35

		rl.DrawText("Progress (0 = birth, 1 = death)", panelX, int32(py), 14, rl.Gray)
		py += 18
		progress = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: py, Width: panelWidth - 60, Height: 20},
			"", "",
			progress, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.3f", progress), panelX+panelWidth-55, int32(py+2), 16, rl.DarkGray)
		py += 35

		for _, p := range plots {
			v := p.curve.SampleNormalized(float64(progress))
			rl.DrawText(fmt.Sprintf("%-11s %9.4f", p.name, v), panelX, int32(py), 16, rl.DarkGray)
			py += 20
		}
		py += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: py, Width: 150, Height: 30}, "Interp: "+mode.String()) {
			mode = toggle(mode)
			for _, p := range plots {
				if err := p.rebuild(mode); err != nil {
					slog.Error("rebuild failed", "curve", p.name, "error", err)
				}
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 160, Y: py, Width: 120, Height: 30}, "Reset") {
			progress = 0
		}
		py += 50

		// Output YAML
		sel := plots[selected]
		rl.DrawText(fmt.Sprintf("YAML (%s):", sel.name), panelX, int32(py), 16, rl.DarkGray)
		py += 25
		text := sel.yaml()
		rl.DrawText(text, panelX, int32(py), 12, rl.Gray)

		rl.DrawText("1-4 select curve | C copies YAML", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// rebuild recreates the curve from its configured points with mode and
// refreshes the plotted value range.
func (p *plot) rebuild(mode curve.Interpolation) error {
	cv, err := curve.New(p.source.Points, mode)
	if err != nil {
		return err
	}
	p.curve = cv
	p.lo, p.hi = math.Inf(1), math.Inf(-1)
	for i := 0; i <= plotSamples; i++ {
		v := cv.SampleNormalized(float64(i) / plotSamples)
		p.lo = math.Min(p.lo, v)
		p.hi = math.Max(p.hi, v)
	}
	if p.hi-p.lo < 1e-9 {
		p.lo -= 0.5
		p.hi += 0.5
	}
	return nil
}

// yaml renders the curve as a config snippet.
func (p *plot) yaml() string {
	out := config.CurveConfig{Interpolation: p.curve.Interpolation().String(), Points: p.curve.Points()}
	data, err := yaml.Marshal(map[string]config.CurveConfig{p.name: out})
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func drawPlot(p *plot, r rl.Rectangle, progress float64, selected bool) {
	label := rl.DarkGray
	if selected {
		label = rl.Maroon
	}
	rl.DrawText(fmt.Sprintf("%s  [%.3g, %.3g]", p.name, p.lo, p.hi), int32(r.X), int32(r.Y)-16, 14, label)
	rl.DrawRectangleRec(r, rl.Color{R: 245, G: 240, B: 232, A: 255})
	rl.DrawRectangleLinesEx(r, 1, rl.LightGray)

	toScreen := func(u, v float64) rl.Vector2 {
		return rl.Vector2{
			X: r.X + float32(u)*r.Width,
			Y: r.Y + r.Height - float32((v-p.lo)/(p.hi-p.lo))*r.Height,
		}
	}

	// Zero line when in range
	if p.lo < 0 && p.hi > 0 {
		a, b := toScreen(0, 0), toScreen(1, 0)
		rl.DrawLineV(a, b, rl.LightGray)
	}

	prev := toScreen(0, p.curve.SampleNormalized(0))
	for i := 1; i <= plotSamples; i++ {
		u := float64(i) / plotSamples
		pt := toScreen(u, p.curve.SampleNormalized(u))
		rl.DrawLineV(prev, pt, rl.Orange)
		prev = pt
	}

	// Control points at the progress where the curve reaches them
	for k, cp := range p.curve.Points() {
		rl.DrawCircleV(toScreen(p.curve.KeyProgress(k), cp.V), 3, rl.DarkBrown)
	}

	// Progress cursor
	cx := r.X + float32(progress)*r.Width
	rl.DrawLineV(rl.Vector2{X: cx, Y: r.Y}, rl.Vector2{X: cx, Y: r.Y + r.Height}, rl.Red)
}

// toggle cycles spline, linear and monotone. Curves whose keys do not
// increase only build as splines and keep their previous fit otherwise.
func toggle(m curve.Interpolation) curve.Interpolation {
	switch m {
	case curve.Spline:
		return curve.Linear
	case curve.Linear:
		return curve.Monotone
	}
	return curve.Spline
}
