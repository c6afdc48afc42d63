// Sprite preview tool - shows every sprite over its collision shape with
// sliders for scale and rotation, to check the two line up.
//
// Usage: go run ./cmd/spritepreview [-shapes shapes.xml] [-atlas fruit.atlas]
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/camera"
	"github.com/pthm-cable/fruitfall/components"
	"github.com/pthm-cable/fruitfall/physics"
	"github.com/pthm-cable/fruitfall/renderer"
	"github.com/pthm-cable/fruitfall/sprites"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 640
	panelWidth   = windowWidth - previewSize - 30
	worldSize    = 20.0
)

// PreviewParams holds the slider values.
type PreviewParams struct {
	Scale    float32
	Rotation float32 // degrees
}

func defaultParams() PreviewParams {
	return PreviewParams{Scale: 0.05, Rotation: 0}
}

// preview holds one body per name shared by the catalog and the atlas.
type preview struct {
	catalog *physics.Catalog
	atlas   *sprites.Atlas
	names   []components.VisualName

	world    *physics.World
	bodies   []physics.BodyID
	registry *sprites.Registry
}

func main() {
	shapesPath := flag.String("shapes", "", "Shape catalog (empty = embedded)")
	atlasPath := flag.String("atlas", "", "Texture atlas (empty = embedded)")
	atlasDir := flag.String("atlas-dir", "", "Directory holding atlas page images (empty = embedded)")
	flag.Parse()

	catalog, err := physics.LoadCatalog(*shapesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shapes: %v\n", err)
		os.Exit(1)
	}
	atlas, err := sprites.LoadAtlas(*atlasPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load atlas: %v\n", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Sprite Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	textures, err := renderer.LoadAtlasTextures(atlas, *atlasDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load atlas pages: %v\n", err)
		os.Exit(1)
	}
	defer textures.Unload()

	view, _ := camera.New(worldSize, worldSize)
	view.Resize(previewSize, previewSize)
	batch := renderer.NewSpriteBatch(textures, view)
	defer batch.Unload()
	outlines := renderer.NewDebugRenderer(true)
	defer outlines.Unload()

	p := &preview{catalog: catalog, atlas: atlas, world: physics.NewWorld(physics.Vec2{})}
	defer p.world.Dispose()
	probe := sprites.Build(atlas.Regions(), 1)
	for _, name := range catalog.Names() {
		if probe.Has(name) {
			p.names = append(p.names, name)
		}
	}

	params := defaultParams()
	needsRebuild := true

	for !rl.WindowShouldClose() {
		if needsRebuild {
			if err := p.rebuild(params); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to build bodies: %v\n", err)
				return
			}
			needsRebuild = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// The viewport maps the preview world onto the top-left square
		rl.BeginScissorMode(0, 0, previewSize, previewSize)
		rl.DrawRectangle(0, 0, previewSize, previewSize, rl.Color{R: 145, G: 196, B: 217, A: 255})
		batch.Begin()
		for i, id := range p.bodies {
			pose, _ := p.world.Pose(id)
			desc, err := p.registry.Lookup(p.names[i])
			if err != nil {
				continue
			}
			batch.DrawSprite(desc, pose.X, pose.Y, pose.Angle*180/math.Pi)
		}
		outlines.Render(p.world, view)
		rl.EndScissorMode()
		rl.DrawRectangleLines(0, 0, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Shapes: %d  Regions: %d  Shared: %d", catalog.Len(), len(atlas.Regions()), len(p.names)),
			15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Sprites drawn: %d  Outline lines: %d", batch.Drawn(), outlines.Lines()), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Sprite Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Scale (world units per pixel)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.01", "0.2",
			params.Scale, 0.01, 0.2,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRebuild = true
		}
		panelY += 35

		rl.DrawText("Rotation (degrees, counter-clockwise)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRotation := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "360",
			params.Rotation, 0, 360,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Rotation), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRotation != params.Rotation {
			params.Rotation = newRotation
			needsRebuild = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(outlines.Enabled, "Hide Outlines", "Show Outlines")) {
			outlines.Enabled = !outlines.Enabled
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRebuild = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText("population:", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 16
		rl.DrawText(fmt.Sprintf("  scale: %.3f", params.Scale), int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf("population:\n  scale: %.3f", params.Scale))
		}

		rl.EndDrawing()
	}
}

// rebuild replaces every body with one at the new scale and rotation, laid
// out in a row across the preview.
func (p *preview) rebuild(params PreviewParams) error {
	for _, id := range p.bodies {
		p.world.DestroyBody(id)
	}
	p.bodies = p.bodies[:0]
	p.registry = sprites.Build(p.atlas.Regions(), float64(params.Scale))

	spacing := worldSize / float64(len(p.names)+1)
	rotation := float64(params.Rotation) * math.Pi / 180
	for i, name := range p.names {
		shape, err := p.catalog.Resolve(name)
		if err != nil {
			return err
		}
		s := float64(params.Scale)
		id, err := p.world.CreateBody(shape, s, s, spacing*float64(i+1)-2, worldSize/2-2, rotation)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		p.bodies = append(p.bodies, id)
	}
	return nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
