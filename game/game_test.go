package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fruitfall/config"
	"github.com/pthm-cable/fruitfall/physics"
	"github.com/pthm-cable/fruitfall/sprites"
)

func newHeadless(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Unload() })
	return g
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestHeadlessPopulates(t *testing.T) {
	cfg := defaultConfig(t)
	g := newHeadless(t, cfg, Options{Seed: 1})

	if g.Directory().Len() != cfg.Population.Count {
		t.Errorf("directory has %d entities, want %d", g.Directory().Len(), cfg.Population.Count)
	}
	if got := g.World().BodyCount(); got != cfg.Population.Count+1 {
		t.Errorf("world has %d bodies, want %d entities plus the ground", got, cfg.Population.Count)
	}
	if g.World().StaticCount() != 1 {
		t.Errorf("static bodies = %d, want 1", g.World().StaticCount())
	}
	if g.RunID() == "" {
		t.Error("empty run ID")
	}
}

func TestHeadlessStepsPerFrame(t *testing.T) {
	cfg := defaultConfig(t)
	g := newHeadless(t, cfg, Options{Seed: 1})

	for i := 0; i < 120; i++ {
		if err := g.UpdateHeadless(1.0 / 60); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if g.Frame() != 120 {
		t.Errorf("Frame = %d, want 120", g.Frame())
	}
	if g.Steps() != 120 {
		t.Errorf("Steps = %d, want 120", g.Steps())
	}
}

func TestHeadlessBodiesFall(t *testing.T) {
	cfg := defaultConfig(t)
	g := newHeadless(t, cfg, Options{Seed: 3})

	before, _ := g.sampleBodies()
	for i := 0; i < 30; i++ {
		if err := g.UpdateHeadless(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	after, _ := g.sampleBodies()

	if len(before) != len(after) || len(after) != cfg.Population.Count {
		t.Fatalf("sampled %d then %d bodies, want %d", len(before), len(after), cfg.Population.Count)
	}
	if stat.Mean(after, nil) >= stat.Mean(before, nil) {
		t.Errorf("mean height did not drop: %v -> %v", stat.Mean(before, nil), stat.Mean(after, nil))
	}
}

func TestPauseAndStepOnce(t *testing.T) {
	cfg := defaultConfig(t)
	g := newHeadless(t, cfg, Options{Seed: 1})

	g.Pause()
	for i := 0; i < 10; i++ {
		g.UpdateHeadless(1.0 / 60)
	}
	if g.Steps() != 0 {
		t.Fatalf("paused game took %d steps", g.Steps())
	}

	g.RequestStep()
	g.UpdateHeadless(1.0 / 60)
	g.UpdateHeadless(1.0 / 60)
	if g.Steps() != 1 {
		t.Errorf("step once took %d steps, want 1", g.Steps())
	}

	g.Resume()
	g.UpdateHeadless(1.0 / 60)
	if g.Steps() != 2 {
		t.Errorf("after resume Steps = %d, want 2", g.Steps())
	}
}

func TestRequestStepIgnoredWhileRunning(t *testing.T) {
	cfg := defaultConfig(t)
	g := newHeadless(t, cfg, Options{Seed: 1})

	g.RequestStep()
	g.Pause()
	g.UpdateHeadless(1.0 / 60)
	if g.Steps() != 0 {
		t.Errorf("a step requested while running was applied after pausing")
	}
}

func TestResizeKeepsOneGround(t *testing.T) {
	cfg := defaultConfig(t)
	g := newHeadless(t, cfg, Options{Seed: 1})

	sizes := [][2]int{{1600, 800}, {400, 800}, {0, 0}, {1024, 768}}
	for _, sz := range sizes {
		if err := g.Resize(sz[0], sz[1]); err != nil {
			t.Fatalf("Resize(%v): %v", sz, err)
		}
		if g.World().StaticCount() != 1 {
			t.Errorf("after Resize(%v) static bodies = %d, want 1", sz, g.World().StaticCount())
		}
		if g.ground.HalfWidth() < g.view.WorldW {
			t.Errorf("ground half-width %v narrower than visible width %v", g.ground.HalfWidth(), g.view.WorldW)
		}
	}
}

func TestNewRejectsUnknownShape(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Population.Names = append(cfg.Population.Names, "pineapple")

	_, err := New(cfg, Options{Headless: true})
	var notFound *physics.ShapeNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ShapeNotFoundError, got %v", err)
	}
	if notFound.Name != "pineapple" {
		t.Errorf("error names %q, want pineapple", notFound.Name)
	}
}

func TestNewRejectsMissingSprite(t *testing.T) {
	dir := t.TempDir()
	atlasPath := filepath.Join(dir, "partial.atlas")
	atlas := "sprites.png\nsize: 512, 256\nbanana\n  xy: 2, 2\n  size: 136, 112\n"
	if err := os.WriteFile(atlasPath, []byte(atlas), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig(t)
	cfg.Assets.Atlas = atlasPath

	_, err := New(cfg, Options{Headless: true})
	var unknown *sprites.UnknownVisualNameError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownVisualNameError, got %v", err)
	}
}

func TestTelemetryOutput(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Telemetry.WindowFrames = 50
	dir := filepath.Join(t.TempDir(), "run")

	g, err := New(cfg, Options{Seed: 1, Headless: true, OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		if err := g.UpdateHeadless(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Unload(); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if err := g.Unload(); err != nil {
		t.Fatalf("second Unload: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus two full windows and the partial one flushed by Unload
	if len(lines) != 4 {
		t.Errorf("frames.csv has %d lines, want 4:\n%s", len(lines), data)
	}
	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if !g.World().Disposed() {
		t.Error("world not disposed after Unload")
	}
}
