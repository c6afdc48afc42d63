// Catalog check tool - reports names present in the shape catalog or the
// texture atlas but not both.
//
// Usage: go run ./cmd/catalogcheck [-shapes shapes.xml] [-atlas fruit.atlas]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pthm-cable/fruitfall/components"
	"github.com/pthm-cable/fruitfall/physics"
	"github.com/pthm-cable/fruitfall/sprites"
)

// Mismatch lists the names each side is missing.
type Mismatch struct {
	ShapeOnly  []components.VisualName // in the catalog, no sprite
	SpriteOnly []components.VisualName // in the atlas, no shape
}

// Empty reports whether both sides agree.
func (m Mismatch) Empty() bool {
	return len(m.ShapeOnly) == 0 && len(m.SpriteOnly) == 0
}

// Compare diffs the catalog names against the atlas names.
func Compare(shapes, regions []components.VisualName) Mismatch {
	inShapes := make(map[components.VisualName]bool, len(shapes))
	for _, n := range shapes {
		inShapes[n] = true
	}
	inSprites := make(map[components.VisualName]bool, len(regions))
	for _, n := range regions {
		inSprites[n] = true
	}

	var m Mismatch
	for _, n := range shapes {
		if !inSprites[n] {
			m.ShapeOnly = append(m.ShapeOnly, n)
		}
	}
	for _, n := range regions {
		if !inShapes[n] {
			m.SpriteOnly = append(m.SpriteOnly, n)
		}
	}
	sort.Slice(m.ShapeOnly, func(i, j int) bool { return m.ShapeOnly[i] < m.ShapeOnly[j] })
	sort.Slice(m.SpriteOnly, func(i, j int) bool { return m.SpriteOnly[i] < m.SpriteOnly[j] })
	return m
}

// Report writes the mismatch in a human readable form.
func Report(w io.Writer, m Mismatch) {
	for _, n := range m.ShapeOnly {
		fmt.Fprintf(w, "shape without sprite: %s\n", n)
	}
	for _, n := range m.SpriteOnly {
		fmt.Fprintf(w, "sprite without shape: %s\n", n)
	}
}

func main() {
	shapesPath := flag.String("shapes", "", "Shape catalog (.yaml or PhysicsEditor .xml, empty = embedded)")
	atlasPath := flag.String("atlas", "", "Texture atlas (empty = embedded)")
	flag.Parse()

	catalog, err := physics.LoadCatalog(*shapesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shapes: %v\n", err)
		os.Exit(2)
	}
	atlas, err := sprites.LoadAtlas(*atlasPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load atlas: %v\n", err)
		os.Exit(2)
	}
	registry := sprites.Build(atlas.Regions(), 1)

	m := Compare(catalog.Names(), registry.Names())
	if !m.Empty() {
		Report(os.Stdout, m)
		os.Exit(1)
	}
	fmt.Printf("%d names match\n", catalog.Len())
}
