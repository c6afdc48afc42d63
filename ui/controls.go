package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlActions reports which buttons were pressed this frame.
type ControlActions struct {
	TogglePause     bool
	StepOnce        bool
	ToggleWireframe bool
}

// ControlsPanel renders the simulation control buttons and overlay states.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and returns the buttons pressed.
// Step is only offered while paused.
func (c *ControlsPanel) Draw(paused bool, overlays *OverlayRegistry) ControlActions {
	var actions ControlActions

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	buttonH := float32(24)

	all := overlays.All()
	panelHeight := int32(buttonH)*3 + padding*5 + lineHeight*int32(len(all)+1)
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2)

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, toggleText(paused, "Resume", "Pause")) {
		actions.TogglePause = true
	}
	y += buttonH + float32(padding)

	if paused {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, "Step") {
			actions.StepOnce = true
		}
	}
	y += buttonH + float32(padding)

	wireframe := overlays.IsEnabled(OverlayWireframe)
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, toggleText(wireframe, "Hide Outlines", "Show Outlines")) {
		actions.ToggleWireframe = true
	}
	y += buttonH + float32(padding)

	rl.DrawText("Overlays", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += float32(lineHeight)
	for _, desc := range all {
		c.drawToggle(int32(x), int32(y), desc, overlays.IsEnabled(desc.ID), int32(w))
		y += float32(lineHeight)
	}

	return actions
}

// drawToggle draws a single overlay state line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
