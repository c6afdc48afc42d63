package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pthm-cable/fruitfall/components"
	"github.com/pthm-cable/fruitfall/physics"
	"github.com/pthm-cable/fruitfall/sprites"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name       string
		shapes     []components.VisualName
		sprites    []components.VisualName
		shapeOnly  int
		spriteOnly int
	}{
		{"match", []components.VisualName{"banana", "orange"}, []components.VisualName{"banana", "orange"}, 0, 0},
		{"missing sprite", []components.VisualName{"banana", "kiwi"}, []components.VisualName{"banana"}, 1, 0},
		{"missing shape", []components.VisualName{"banana"}, []components.VisualName{"banana", "lime", "plum"}, 0, 2},
		{"disjoint", []components.VisualName{"a"}, []components.VisualName{"b"}, 1, 1},
		{"empty", nil, nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compare(tt.shapes, tt.sprites)
			if len(m.ShapeOnly) != tt.shapeOnly || len(m.SpriteOnly) != tt.spriteOnly {
				t.Errorf("Compare = %+v, want %d shape-only and %d sprite-only", m, tt.shapeOnly, tt.spriteOnly)
			}
			if m.Empty() != (tt.shapeOnly == 0 && tt.spriteOnly == 0) {
				t.Errorf("Empty() = %v", m.Empty())
			}
		})
	}
}

func TestEmbeddedAssetsMatch(t *testing.T) {
	catalog, err := physics.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	atlas, err := sprites.DefaultAtlas()
	if err != nil {
		t.Fatal(err)
	}
	m := Compare(catalog.Names(), sprites.Build(atlas.Regions(), 1).Names())
	if !m.Empty() {
		var buf bytes.Buffer
		Report(&buf, m)
		t.Errorf("embedded assets disagree:\n%s", buf.String())
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, Mismatch{ShapeOnly: []components.VisualName{"kiwi"}, SpriteOnly: []components.VisualName{"lime"}})
	out := buf.String()
	if !strings.Contains(out, "shape without sprite: kiwi") || !strings.Contains(out, "sprite without shape: lime") {
		t.Errorf("unexpected report:\n%s", out)
	}
}
