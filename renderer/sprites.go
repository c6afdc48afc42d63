package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/camera"
	"github.com/pthm-cable/fruitfall/sprites"
)

// SpriteBatch draws sprites from atlas textures through a viewport.
type SpriteBatch struct {
	textures *AtlasTextures
	view     *camera.Viewport
	tint     rl.Color

	drawn    int // sprites drawn since the last Begin
	missing  int // sprites skipped for lack of a page texture
	warned   map[string]bool
	released bool
}

// NewSpriteBatch creates a batch drawing from textures.
func NewSpriteBatch(textures *AtlasTextures, view *camera.Viewport) *SpriteBatch {
	return &SpriteBatch{textures: textures, view: view, tint: rl.White, warned: make(map[string]bool)}
}

// Begin resets the per-frame counters.
func (b *SpriteBatch) Begin() {
	b.drawn = 0
	b.missing = 0
}

// DrawSprite draws desc with its pivot at world (x, y), rotated
// counter-clockwise by degrees.
func (b *SpriteBatch) DrawSprite(desc sprites.Descriptor, x, y, degrees float64) {
	if b.released {
		return
	}
	tex, ok := b.textures.Texture(desc.Page)
	if !ok {
		b.missing++
		if !b.warned[desc.Page] {
			b.warned[desc.Page] = true
			slog.Warn("sprite_page_missing", "page", desc.Page, "sprite", string(desc.Name))
		}
		return
	}

	q := b.view.SpriteQuad(x, y, degrees,
		desc.Trim.X-desc.OriginX, desc.Trim.Y-desc.OriginY,
		desc.Trim.W, desc.Trim.H)
	src := rl.Rectangle{
		X:      float32(desc.Source.X),
		Y:      float32(desc.Source.Y),
		Width:  float32(desc.Source.W),
		Height: float32(desc.Source.H),
	}
	dest := rl.Rectangle{X: q.X, Y: q.Y, Width: q.Width, Height: q.Height}
	rl.DrawTexturePro(tex, src, dest, rl.Vector2{X: q.OriginX, Y: q.OriginY}, q.Rotation, b.tint)
	b.drawn++
}

// Drawn returns the number of sprites drawn since Begin.
func (b *SpriteBatch) Drawn() int {
	return b.drawn
}

// Missing returns the number of sprites skipped since Begin because their
// page texture was not loaded.
func (b *SpriteBatch) Missing() int {
	return b.missing
}

// Unload releases the batch. It does not own the atlas textures.
// Later calls do nothing.
func (b *SpriteBatch) Unload() {
	if b.released {
		return
	}
	b.textures = nil
	b.released = true
}
