package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Entities    int
	Offscreen   int
	Bodies      int
	Awake       int
	Steps       uint64
	Alpha       float64
	FPS         int32
	Paused      bool
	Wireframe   bool
	WorldWidth  float64
	WorldHeight float64
	Missing     int // sprites skipped for lack of a page texture
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD panel in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x := int32(16)
	y := int32(16)
	r.DrawPanel(x-6, y-6, 240, 8*r.Theme.LineHeight+r.Theme.HeaderFontSize+20)

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Entities", fmt.Sprintf("%d (%d offscreen)", data.Entities, data.Offscreen))
	y = r.DrawLabelValue(x, y, "Bodies", fmt.Sprintf("%d (%d awake)", data.Bodies, data.Awake))
	y = r.DrawLabelValue(x, y, "Steps", fmt.Sprintf("%d", data.Steps))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "View", fmt.Sprintf("%.1f x %.1f", data.WorldWidth, data.WorldHeight))
	y = r.DrawBar(x, y, "Interp", float32(data.Alpha), 220)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	if data.Wireframe {
		statusText += " | Wireframe"
	}
	rl.DrawText(statusText, x, y, r.Theme.FontSize, rl.Yellow)
	y += r.Theme.LineHeight

	if data.Missing > 0 {
		rl.DrawText(fmt.Sprintf("%d sprites without texture", data.Missing), x, y, r.Theme.FontSize, rl.Red)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, overlays *OverlayRegistry) {
	legend := "[Space] Pause  [S] Step"
	for _, desc := range overlays.All() {
		legend += fmt.Sprintf("  [%s] %s", desc.KeyLabel, desc.Name)
	}
	rl.DrawText(legend, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	PhaseTimes map[string]time.Duration
	Total      time.Duration
	Registry   *systems.PhaseRegistry
}

// PerfPanel renders the frame phase timing panel.
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

// Draw renders the performance panel, one line per registered phase.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	var phases []systems.PhaseInfo
	if data.Registry != nil {
		phases = data.Registry.All()
	}
	p.renderer.DrawPanel(x-6, y-6, 260, int32(len(phases))*14+48)

	y = p.renderer.DrawSectionHeader(x, y, "Frame Timing")
	y = p.renderer.DrawLabelValue(x, y, "Total", data.Total.Round(time.Microsecond).String())

	for _, phase := range phases {
		avg := data.PhaseTimes[phase.ID]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
