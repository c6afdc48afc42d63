package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/systems"
	"github.com/pthm-cable/fruitfall/ui"
)

// Draw renders the frame: sprites, then fixture outlines, then the HUD.
// A sprite lookup or dead body error aborts the frame and is returned.
func (g *Game) Draw() error {
	rl.BeginDrawing()
	err := g.DrawScene()
	if err == nil {
		g.perf.StartPhase(systems.PhaseHUD)
		g.drawUI()
	}
	rl.EndDrawing()
	g.perf.EndFrame()

	if err != nil {
		return err
	}
	g.flushTelemetry()
	return nil
}

// DrawScene clears the current render target and draws every entity sprite
// followed by the fixture outlines. The caller owns Begin/End.
func (g *Game) DrawScene() error {
	c := g.cfg.Derived.ClearRGBA
	rl.ClearBackground(rl.Color{R: c[0], G: c[1], B: c[2], A: c[3]})

	g.perf.StartPhase(systems.PhaseSprites)
	g.batch.Begin()
	if err := systems.DrawEntities(g.dir, g.world, g.registry, g.batch); err != nil {
		return fmt.Errorf("drawing entities: %w", err)
	}

	g.perf.StartPhase(systems.PhaseDebug)
	g.debug.Enabled = g.overlays.IsEnabled(ui.OverlayWireframe)
	g.debug.Render(g.world, g.view)
	return nil
}

// drawUI draws the HUD, the optional panels and applies control button presses.
func (g *Game) drawUI() {
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		_, _, maxX, maxY := g.view.VisibleWorldBounds()
		g.hud.Draw(ui.HUDData{
			Title:       g.cfg.Screen.Title,
			Entities:    g.dir.Len(),
			Offscreen:   systems.CountOffscreen(g.dir, g.world, g.registry, g.view),
			Bodies:      g.world.BodyCount(),
			Awake:       g.lastAwake,
			Steps:       g.stepper.Steps(),
			Alpha:       g.stepper.Alpha(),
			FPS:         rl.GetFPS(),
			Paused:      g.paused,
			Wireframe:   g.debug.Enabled,
			WorldWidth:  maxX,
			WorldHeight: maxY,
			Missing:     g.batch.Missing(),
		})
		g.hud.DrawControls(int32(g.view.ScreenH), g.overlays)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perf.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			PhaseTimes: stats.PhaseAvg,
			Total:      stats.AvgFrameDuration,
			Registry:   g.phases,
		})
	}

	if g.overlays.IsEnabled(ui.OverlayControls) {
		actions := g.controls.Draw(g.paused, g.overlays)
		if actions.TogglePause {
			g.TogglePause()
		}
		if actions.StepOnce {
			g.RequestStep()
		}
		if actions.ToggleWireframe {
			g.overlays.Toggle(ui.OverlayWireframe)
		}
	}
}
