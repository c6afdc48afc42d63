// Frame dump tool - simulates a number of frames and renders the scene to a
// PNG file for inspection.
//
// Usage: go run ./cmd/framedump -frames 180 -out frame.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/config"
	"github.com/pthm-cable/fruitfall/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "frame.png", "Output PNG path")
	frames := flag.Int("frames", 180, "Frames to simulate before rendering")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	width, height := int32(cfg.Screen.Width), int32(cfg.Screen.Height)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(width, height, "Frame Dump")
	defer rl.CloseWindow()

	if err := dump(cfg, *seed, *frames, width, height, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Frame %d rendered to: %s (%dx%d)\n", *frames, *outPath, width, height)
}

func dump(cfg *config.Config, seed int64, frames int, width, height int32, outPath string) (err error) {
	g, err := game.New(cfg, game.Options{Seed: seed})
	if err != nil {
		return err
	}
	defer func() {
		if uerr := g.Unload(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	for i := 0; i < frames; i++ {
		if err := g.UpdateHeadless(1.0 / 60); err != nil {
			return err
		}
	}

	target := rl.LoadRenderTexture(width, height)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	err = g.DrawScene()
	rl.EndTextureMode()
	if err != nil {
		return err
	}

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	ok := rl.ExportImage(*img, outPath)
	rl.UnloadImage(img)
	if !ok {
		return fmt.Errorf("failed to export image to %s", outPath)
	}
	return nil
}
