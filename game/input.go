package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.RequestStep()
	}

	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	if err := g.Resize(rl.GetScreenWidth(), rl.GetScreenHeight()); err != nil {
		slog.Error("failed to resize ground", "error", err)
	}
}

// Resize updates the viewport for a new screen size and rebuilds the ground to
// span the visible width. Non-positive sizes keep the current viewport.
func (g *Game) Resize(screenW, screenH int) error {
	worldW := g.view.Resize(screenW, screenH)
	if g.controls != nil {
		g.controls.SetPosition(int32(screenW)-190, 10)
	}
	return g.ground.Resize(g.world, worldW)
}
