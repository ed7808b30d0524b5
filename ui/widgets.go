package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawColorSwatch draws a labelled colour square.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	swatchSize := int32(12)
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, color)
	rl.DrawRectangleLines(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, r.Theme.PanelBorder)
	return y + r.Theme.LineHeight
}

// DrawSlider draws a labelled raygui slider with a value readout and returns
// the slider value and the new Y position.
func (r *Renderer) DrawSlider(x, y, width int32, label, format string, value, min, max float32) (float32, int32) {
	t := r.Theme
	rl.DrawText(label, x, y+1, t.FontSize, t.LabelColor)

	barW := width - t.LabelWidth - t.ValueWidth
	out := gui.SliderBar(
		rl.Rectangle{X: float32(x + t.LabelWidth), Y: float32(y), Width: float32(barW), Height: float32(t.SliderHeight)},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, value), x+t.LabelWidth+barW+6, y+1, t.FontSize, t.ValueColor)
	return out, y + t.LineHeight
}

// DrawCheckBox draws a raygui checkbox and returns its state and the new Y
// position.
func (r *Renderer) DrawCheckBox(x, y int32, label string, checked bool) (bool, int32) {
	size := float32(r.Theme.SliderHeight)
	out := gui.CheckBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: size, Height: size}, label, checked)
	return out, y + r.Theme.LineHeight
}
