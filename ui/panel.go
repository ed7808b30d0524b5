package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/campfire/control"
)

// Pusher queues commands for the next tick.
type Pusher interface {
	Push(cmd control.Command)
}

// SkyboxOption is one entry of the location folder.
type SkyboxOption struct {
	Name  string
	Label string
}

// DebugPanel is the folder-based tuning panel. Every change becomes a
// command pushed to the queue; settings are only read.
type DebugPanel struct {
	renderer *Renderer
	anchor   PanelAnchor
	width    int32
	visible  bool

	skyboxes  []SkyboxOption
	particles []control.Slider
	camera    []control.Slider
	firePlace []control.Slider

	queue Pusher

	// Bounds of the last drawn frame, for input hit testing
	bounds rl.Rectangle
}

// NewDebugPanel creates a visible panel anchored to the top right.
func NewDebugPanel(width int32, skyboxes []SkyboxOption, queue Pusher) *DebugPanel {
	return &DebugPanel{
		renderer:  NewRenderer(),
		anchor:    AnchorTopRight,
		width:     width,
		visible:   true,
		skyboxes:  skyboxes,
		particles: control.ParticleSliders(),
		camera:    control.CameraSliders(),
		firePlace: control.FirePlaceSliders(),
		queue:     queue,
	}
}

// Toggle switches panel visibility.
func (p *DebugPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *DebugPanel) IsVisible() bool {
	return p.visible
}

// Contains reports whether pt lies over the panel as last drawn.
func (p *DebugPanel) Contains(pt rl.Vector2) bool {
	return p.visible && rl.CheckCollisionPointRec(pt, p.bounds)
}

// Draw renders the panel for the current settings. The fire place folder
// appears only once the campfire model has loaded.
func (p *DebugPanel) Draw(s *control.Settings, screenW int32, modelLoaded bool) {
	if !p.visible {
		p.bounds = rl.Rectangle{}
		return
	}

	r := p.renderer
	t := r.Theme

	rows := 4 + len(s.Elements) + len(p.particles) + len(p.skyboxes) + len(p.camera)
	if modelLoaded {
		rows += 1 + len(p.firePlace)
	}
	height := int32(rows)*t.LineHeight + t.Padding*2 + 4*5

	x := t.Padding
	if p.anchor == AnchorTopRight {
		x = screenW - p.width - t.Padding
	}
	y := t.Padding
	p.bounds = rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(p.width), Height: float32(height)}
	r.DrawPanel(x, y, p.width, height)

	x += t.Padding
	y += t.Padding
	inner := p.width - t.Padding*2

	y = r.DrawSectionHeader(x, y, control.FolderElements)
	for _, el := range s.Elements {
		var checked bool
		checked, y = r.DrawCheckBox(x, y, el.Name, s.Element == el.Name)
		p.queue.Push(control.ElementToggle(s, el.Name, checked))
	}
	y += 4

	y = r.DrawSectionHeader(x, y, control.FolderParticles)
	y = p.drawSliders(s, p.particles, x, y, inner)
	y += 4

	y = r.DrawSectionHeader(x, y, control.FolderLocation)
	for _, sb := range p.skyboxes {
		var checked bool
		checked, y = r.DrawCheckBox(x, y, sb.Label, s.Skybox == sb.Name)
		p.queue.Push(control.SkyboxToggle(s, sb.Name, checked))
	}
	y += 4

	y = r.DrawSectionHeader(x, y, control.FolderCamera)
	y = p.drawSliders(s, p.camera, x, y, inner)

	if modelLoaded {
		y += 4
		y = r.DrawSectionHeader(x, y, control.FolderFirePlace)
		p.drawSliders(s, p.firePlace, x, y, inner)
	}
}

// drawSliders draws each slider and pushes a command when the user moves
// one. Values are compared at slider precision so redrawing alone never
// produces a command.
func (p *DebugPanel) drawSliders(s *control.Settings, sliders []control.Slider, x, y, width int32) int32 {
	for _, sl := range sliders {
		cur := float32(sl.Value(s))
		var out float32
		out, y = p.renderer.DrawSlider(x, y, width, sl.Label, sl.Format,
			cur, float32(sl.Range.Min), float32(sl.Range.Max))
		if out != cur {
			p.queue.Push(sl.Change(s, float64(out)))
		}
	}
	return y
}
