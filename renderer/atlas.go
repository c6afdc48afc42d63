// Package renderer draws the simulation with raylib.
package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/sprites"
)

// AtlasTextures holds the GPU textures for every atlas page.
type AtlasTextures struct {
	pages    map[string]rl.Texture2D
	released bool
}

// LoadAtlasTextures uploads every page of atlas. Pages are read from dir, or
// from the embedded images when dir is empty. Must be called after the
// raylib window is created. On error nothing stays loaded.
func LoadAtlasTextures(atlas *sprites.Atlas, dir string) (*AtlasTextures, error) {
	t := &AtlasTextures{pages: make(map[string]rl.Texture2D, len(atlas.Pages))}

	for _, page := range atlas.Pages {
		tex, err := loadPage(page.Name, dir)
		if err != nil {
			t.Unload()
			return nil, err
		}
		rl.SetTextureFilter(tex, rl.FilterBilinear)
		t.pages[page.Name] = tex
	}
	return t, nil
}

func loadPage(name, dir string) (rl.Texture2D, error) {
	if dir == "" {
		data, ok := sprites.DefaultPageImage(name)
		if !ok {
			return rl.Texture2D{}, fmt.Errorf("atlas page %q: no embedded image and no atlas directory", name)
		}
		img := rl.LoadImageFromMemory(filepath.Ext(name), data, int32(len(data)))
		if img == nil || img.Data == nil {
			return rl.Texture2D{}, fmt.Errorf("atlas page %q: decoding embedded image failed", name)
		}
		defer rl.UnloadImage(img)
		return rl.LoadTextureFromImage(img), nil
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return rl.Texture2D{}, fmt.Errorf("atlas page %q: %w", name, err)
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		return rl.Texture2D{}, fmt.Errorf("atlas page %q: loading %s failed", name, path)
	}
	return tex, nil
}

// Texture returns the texture for a page.
func (t *AtlasTextures) Texture(page string) (rl.Texture2D, bool) {
	tex, ok := t.pages[page]
	return tex, ok && !t.released
}

// Unload frees every page texture. Later calls do nothing.
func (t *AtlasTextures) Unload() {
	if t.released {
		return
	}
	for name, tex := range t.pages {
		rl.UnloadTexture(tex)
		delete(t.pages, name)
	}
	t.released = true
}
