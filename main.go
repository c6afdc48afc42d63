package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/config"
	"github.com/pthm-cable/fruitfall/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	frameDelta := flag.Float64("frame-delta", 1.0/60, "Synthetic frame delta in seconds for headless runs")
	shapes := flag.String("shapes", "", "Shape catalog (.yaml or PhysicsEditor .xml), overrides config")
	atlas := flag.String("atlas", "", "Texture atlas description, overrides config")
	atlasDir := flag.String("atlas-dir", "", "Directory holding atlas page images, overrides config")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *shapes != "" {
		cfg.Assets.Shapes = *shapes
	}
	if *atlas != "" {
		cfg.Assets.Atlas = *atlas
	}
	if *atlasDir != "" {
		cfg.Assets.AtlasDir = *atlasDir
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Headless:  *headless,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	var err error
	if *headless {
		err = runHeadless(cfg, opts, *frameDelta, *maxFrames)
	} else {
		err = runWindowed(cfg, opts, *maxFrames)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the simulation with a fixed synthetic delta and no raylib calls.
func runHeadless(cfg *config.Config, opts game.Options, frameDelta float64, maxFrames int64) (err error) {
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := g.Unload(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"frame_delta", frameDelta,
		"max_frames", maxFrames,
	)

	for maxFrames <= 0 || g.Frame() < maxFrames {
		if err := g.UpdateHeadless(frameDelta); err != nil {
			return err
		}
	}
	slog.Info("max frames reached", "frame", g.Frame(), "steps", g.Steps())
	return nil
}

// runWindowed opens a resizable window and runs until it closes.
func runWindowed(cfg *config.Config, opts game.Options, maxFrames int64) (err error) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := g.Unload(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			return err
		}
		if err := g.Draw(); err != nil {
			return err
		}

		if maxFrames > 0 && g.Frame() >= maxFrames {
			break
		}
	}
	return nil
}
