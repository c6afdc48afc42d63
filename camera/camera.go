// Package camera maps the Y-up physics world onto the Y-down screen.
package camera

import "fmt"

// Viewport is an extend viewport: the minimum world area always fits on
// screen at uniform scale, and the longer screen axis shows extra world.
// The world origin sits at the bottom-left corner of the screen.
type Viewport struct {
	// Minimum visible world size
	MinWorldW, MinWorldH float64

	// Screen size in pixels
	ScreenW, ScreenH float32

	// Visible world size after the last Resize
	WorldW, WorldH float64

	ppu float64 // pixels per world unit
}

// New creates a viewport guaranteeing at least minW x minH world units are
// visible. Call Resize before projecting.
func New(minW, minH float64) (*Viewport, error) {
	if minW <= 0 || minH <= 0 {
		return nil, fmt.Errorf("viewport minimum must be positive, got %vx%v", minW, minH)
	}
	return &Viewport{MinWorldW: minW, MinWorldH: minH}, nil
}

// Resize recomputes the projection for a new screen size and returns the
// visible world width. Non-positive sizes are ignored and the current width
// is returned.
func (v *Viewport) Resize(screenW, screenH int) float64 {
	if screenW <= 0 || screenH <= 0 {
		return v.WorldW
	}
	sw, sh := float64(screenW), float64(screenH)

	// Fit the minimum area, then extend whichever axis has room to spare
	v.ppu = sw / v.MinWorldW
	if alt := sh / v.MinWorldH; alt < v.ppu {
		v.ppu = alt
	}
	v.ScreenW = float32(screenW)
	v.ScreenH = float32(screenH)
	v.WorldW = sw / v.ppu
	v.WorldH = sh / v.ppu
	return v.WorldW
}

// PixelsPerUnit returns the current screen scale.
func (v *Viewport) PixelsPerUnit() float64 {
	return v.ppu
}

// WorldToScreen converts world coordinates to screen pixels.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float32) {
	sx = float32(wx * v.ppu)
	sy = v.ScreenH - float32(wy*v.ppu)
	return sx, sy
}

// ScreenToWorld converts screen pixels to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	if v.ppu == 0 {
		return 0, 0
	}
	wx = float64(sx) / v.ppu
	wy = float64(v.ScreenH-sy) / v.ppu
	return wx, wy
}

// IsVisible reports whether a circle at (wx, wy) could overlap the screen.
func (v *Viewport) IsVisible(wx, wy, radius float64) bool {
	return wx+radius >= 0 && wx-radius <= v.WorldW &&
		wy+radius >= 0 && wy-radius <= v.WorldH
}

// VisibleWorldBounds returns (minX, minY, maxX, maxY) of the visible area.
func (v *Viewport) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	return 0, 0, v.WorldW, v.WorldH
}

// Quad is a screen-space textured quad in the form raylib's DrawTexturePro
// takes: the pivot position, the size, the pivot offset from the quad's
// top-left corner and a clockwise rotation in degrees.
type Quad struct {
	X, Y             float32
	Width, Height    float32
	OriginX, OriginY float32
	Rotation         float32
}

// SpriteQuad projects an image whose bottom-left corner sits (left, bottom)
// world units from a pivot at world (x, y), rotated counter-clockwise by
// degrees about that pivot.
func (v *Viewport) SpriteQuad(x, y, degrees, left, bottom, width, height float64) Quad {
	sx, sy := v.WorldToScreen(x, y)
	return Quad{
		X:        sx,
		Y:        sy,
		Width:    float32(width * v.ppu),
		Height:   float32(height * v.ppu),
		OriginX:  float32(-left * v.ppu),
		OriginY:  float32((bottom + height) * v.ppu),
		Rotation: float32(-degrees),
	}
}
