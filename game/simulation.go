package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/systems"
)

// Update handles input and advances the simulation by the last frame's
// duration. Draw must follow in the same frame.
func (g *Game) Update() error {
	g.perf.StartFrame()
	g.handleInput()

	g.perf.StartPhase(systems.PhasePhysics)
	return g.advance(float64(rl.GetFrameTime()))
}

// UpdateHeadless advances one frame with a caller-supplied delta. It makes no
// raylib calls.
func (g *Game) UpdateHeadless(frameDelta float64) error {
	g.perf.StartFrame()
	g.perf.StartPhase(systems.PhasePhysics)
	err := g.advance(frameDelta)
	g.perf.EndFrame()
	if err != nil {
		return err
	}
	g.flushTelemetry()
	return nil
}

// advance feeds one frame delta to the stepper. While paused only a requested
// single step runs.
func (g *Game) advance(frameDelta float64) error {
	var (
		n   int
		err error
	)
	switch {
	case g.paused && g.stepOnce:
		g.stepOnce = false
		n, err = g.stepper.Advance(g.stepper.Step())
	case g.paused:
	default:
		n, err = g.stepper.Advance(frameDelta)
	}

	g.frame++
	g.simTime += float64(n) * g.stepper.Step()
	g.window.RecordFrame(frameDelta, n, frameDelta > g.cfg.Physics.MaxFrameDelta)

	if err != nil {
		return fmt.Errorf("frame %d: %w", g.frame, err)
	}
	return nil
}

// Pause stops the clock. Frames still render.
func (g *Game) Pause() {
	g.paused = true
}

// Resume restarts the clock.
func (g *Game) Resume() {
	g.paused = false
}

// TogglePause flips the paused state and returns it.
func (g *Game) TogglePause() bool {
	g.paused = !g.paused
	return g.paused
}

// RequestStep queues exactly one physics step for the next frame while paused.
func (g *Game) RequestStep() {
	if g.paused {
		g.stepOnce = true
	}
}

// Paused reports whether the clock is stopped.
func (g *Game) Paused() bool {
	return g.paused
}
