// Package game ties the physics world, the entity directory and the renderer
// into one frame loop.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fruitfall/camera"
	"github.com/pthm-cable/fruitfall/components"
	"github.com/pthm-cable/fruitfall/config"
	"github.com/pthm-cable/fruitfall/physics"
	"github.com/pthm-cable/fruitfall/renderer"
	"github.com/pthm-cable/fruitfall/sprites"
	"github.com/pthm-cable/fruitfall/systems"
	"github.com/pthm-cable/fruitfall/telemetry"
	"github.com/pthm-cable/fruitfall/ui"
)

// Options configures a game instance beyond the loaded config.
type Options struct {
	Seed      int64
	Headless  bool   // no raylib calls at all
	OutputDir string // CSV telemetry directory (empty = disabled)
	LogStats  bool   // log each telemetry window via slog

	// StatsCallback, if set, receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete sandbox state.
type Game struct {
	cfg  *config.Config
	opts Options

	// Simulation
	catalog  *physics.Catalog
	registry *sprites.Registry
	world    *physics.World
	ground   *physics.Ground
	dir      *systems.Directory
	stepper  *systems.FixedStepper
	view     *camera.Viewport

	// Rendering (nil when headless)
	textures  *renderer.AtlasTextures
	batch     *renderer.SpriteBatch
	debug     *renderer.DebugRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry

	// Telemetry
	phases *systems.PhaseRegistry
	perf   *telemetry.PerfCollector
	window *telemetry.WindowCollector
	output *telemetry.OutputManager
	runID  string

	res resources

	// State
	frame     int64
	simTime   float64
	paused    bool
	stepOnce  bool
	lastAwake int
	unloaded  bool
}

// New builds a populated game. Graphical mode must be called after the
// raylib window exists. On error everything acquired so far is released.
func New(cfg *config.Config, opts Options) (_ *Game, err error) {
	g := &Game{
		cfg:    cfg,
		opts:   opts,
		phases: systems.NewPhaseRegistry(),
		runID:  telemetry.NewRunID(),
	}
	defer func() {
		if err != nil {
			if rerr := g.res.releaseAll(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
	}()

	atlas, err := g.loadCatalogs()
	if err != nil {
		return nil, err
	}

	g.view, err = camera.New(cfg.Viewport.MinWidth, cfg.Viewport.MinHeight)
	if err != nil {
		return nil, err
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir, g.runID)
	if err != nil {
		return nil, err
	}
	if g.output != nil {
		g.res.acquire("telemetry output", g.output.Close)
		if err := g.output.WriteConfig(cfg); err != nil {
			return nil, err
		}
	}

	if !opts.Headless {
		g.debug = renderer.NewDebugRenderer(cfg.Debug.Wireframe)
		g.res.acquire("debug renderer", func() error {
			g.debug.Unload()
			return nil
		})

		g.textures, err = renderer.LoadAtlasTextures(atlas, cfg.Assets.AtlasDir)
		if err != nil {
			return nil, err
		}
		g.res.acquire("atlas textures", func() error {
			g.textures.Unload()
			return nil
		})
	}

	g.world = physics.NewWorld(physics.Vec2{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY})
	g.res.acquire("physics world", g.world.Dispose)

	if !opts.Headless {
		g.batch = renderer.NewSpriteBatch(g.textures, g.view)
		g.res.acquire("sprite batch", func() error {
			g.batch.Unload()
			return nil
		})
	}

	g.ground = physics.NewGround(cfg.Ground.HalfThickness, cfg.Ground.Friction)
	if err := g.ground.Resize(g.world, g.view.Resize(g.screenSize())); err != nil {
		return nil, fmt.Errorf("creating ground: %w", err)
	}

	g.dir, err = systems.Populate(g.populateRequest(), rand.New(rand.NewSource(opts.Seed)), g.catalog, g.world)
	if err != nil {
		return nil, err
	}

	g.stepper, err = systems.NewFixedStepper(systems.ClockConfig{
		Step:               cfg.Physics.Step,
		VelocityIterations: cfg.Physics.VelocityIterations,
		PositionIterations: cfg.Physics.PositionIterations,
		MaxFrameDelta:      cfg.Physics.MaxFrameDelta,
	}, g.world)
	if err != nil {
		return nil, err
	}

	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.WindowFrames)
	g.window = telemetry.NewWindowCollector(g.runID)

	if !opts.Headless {
		g.hud = ui.NewHUD()
		g.overlays = ui.NewOverlayRegistry(cfg.Debug.Wireframe)
		g.controls = ui.NewControlsPanel(int32(cfg.Screen.Width)-190, 10, 180)
		g.perfPanel = ui.NewPerfPanel(16, 200)
	}

	slog.Info("world_populated",
		"run_id", g.runID,
		"entities", g.dir.Len(),
		"bodies", g.world.BodyCount(),
		"seed", opts.Seed,
		"world_width", g.view.WorldW,
		"headless", opts.Headless,
	)
	return g, nil
}

// loadCatalogs loads the shape catalog and sprite registry and checks every
// configured name resolves in both. It returns the atlas for texture loading.
func (g *Game) loadCatalogs() (*sprites.Atlas, error) {
	var err error
	g.catalog, err = physics.LoadCatalog(g.cfg.Assets.Shapes)
	if err != nil {
		return nil, err
	}
	atlas, err := sprites.LoadAtlas(g.cfg.Assets.Atlas)
	if err != nil {
		return nil, err
	}
	g.registry = sprites.Build(atlas.Regions(), g.cfg.Population.Scale)

	for _, name := range g.names() {
		if _, err := g.catalog.Resolve(name); err != nil {
			return nil, err
		}
		if _, err := g.registry.Lookup(name); err != nil {
			return nil, err
		}
	}
	return atlas, nil
}

func (g *Game) names() []components.VisualName {
	names := make([]components.VisualName, len(g.cfg.Population.Names))
	for i, n := range g.cfg.Population.Names {
		names[i] = components.VisualName(n)
	}
	return names
}

func (g *Game) populateRequest() systems.PopulateRequest {
	p := g.cfg.Population
	return systems.PopulateRequest{
		Count:  p.Count,
		Names:  g.names(),
		Scale:  p.Scale,
		XRange: p.Spawn.XRange,
		YMin:   p.Spawn.YMin,
		YSpan:  p.Spawn.YSpan,
	}
}

// screenSize returns the window size, or the configured size when headless.
func (g *Game) screenSize() (int, int) {
	if g.opts.Headless {
		return g.cfg.Screen.Width, g.cfg.Screen.Height
	}
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Unload flushes any partial telemetry window and releases every resource in
// reverse acquisition order. Later calls do nothing.
func (g *Game) Unload() error {
	if g.unloaded {
		return nil
	}
	g.unloaded = true
	if g.window.Frames() > 0 {
		g.writeWindow()
	}
	return g.res.releaseAll()
}

// Frame returns the number of frames processed.
func (g *Game) Frame() int64 {
	return g.frame
}

// Steps returns the number of physics steps taken.
func (g *Game) Steps() uint64 {
	return g.stepper.Steps()
}

// Directory returns the entity directory.
func (g *Game) Directory() *systems.Directory {
	return g.dir
}

// World returns the physics world.
func (g *Game) World() *physics.World {
	return g.world
}

// RunID returns the identifier tagging this run's telemetry.
func (g *Game) RunID() string {
	return g.runID
}
