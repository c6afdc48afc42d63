// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Ground     GroundConfig     `yaml:"ground"`
	Assets     AssetsConfig     `yaml:"assets"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Debug      DebugConfig      `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	TargetFPS  int       `yaml:"target_fps"`
	Title      string    `yaml:"title"`
	ClearColor []float64 `yaml:"clear_color"` // RGB in [0, 1]
}

// ViewportConfig holds the minimum visible world area. The longer screen
// axis extends beyond it, the shorter one fits it exactly.
type ViewportConfig struct {
	MinWidth  float64 `yaml:"min_width"`
	MinHeight float64 `yaml:"min_height"`
}

// PhysicsConfig holds world and stepping parameters.
type PhysicsConfig struct {
	GravityX           float64 `yaml:"gravity_x"`
	GravityY           float64 `yaml:"gravity_y"`
	Step               float64 `yaml:"step"`                // Fixed solver step in seconds
	VelocityIterations int     `yaml:"velocity_iterations"` // Constraint solver velocity passes
	PositionIterations int     `yaml:"position_iterations"` // Constraint solver position passes
	MaxFrameDelta      float64 `yaml:"max_frame_delta"`     // Frame delta clamp in seconds
}

// PopulationConfig holds world population parameters.
type PopulationConfig struct {
	Count int         `yaml:"count"`
	Names []string    `yaml:"names"`
	Scale float64     `yaml:"scale"` // Pixel to world unit factor for shapes and sprites
	Spawn SpawnConfig `yaml:"spawn"`
}

// SpawnConfig holds the spawn region. x in [0, XRange), y in [YMin, YMin+YSpan).
type SpawnConfig struct {
	XRange float64 `yaml:"x_range"`
	YMin   float64 `yaml:"y_min"`
	YSpan  float64 `yaml:"y_span"`
}

// GroundConfig holds floor body parameters.
type GroundConfig struct {
	HalfThickness float64 `yaml:"half_thickness"`
	Friction      float64 `yaml:"friction"`
}

// AssetsConfig holds asset locations. Empty paths use the embedded assets.
type AssetsConfig struct {
	Shapes   string `yaml:"shapes"`    // YAML catalog or PhysicsEditor .xml
	Atlas    string `yaml:"atlas"`     // libGDX-style .atlas description
	AtlasDir string `yaml:"atlas_dir"` // Directory holding atlas page images
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowFrames int `yaml:"window_frames"` // Frames aggregated per stats window
}

// DebugConfig holds debug rendering toggles.
type DebugConfig struct {
	Wireframe bool `yaml:"wireframe"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ClearRGBA [4]uint8 // Screen.ClearColor as 8-bit RGBA
	StepHz    float64  // 1 / Physics.Step
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Physics.Step <= 0:
		return fmt.Errorf("physics.step must be positive, got %v", c.Physics.Step)
	case c.Physics.VelocityIterations <= 0 || c.Physics.PositionIterations <= 0:
		return fmt.Errorf("physics iterations must be positive, got velocity=%d position=%d",
			c.Physics.VelocityIterations, c.Physics.PositionIterations)
	case c.Physics.MaxFrameDelta < c.Physics.Step:
		return fmt.Errorf("physics.max_frame_delta (%v) must be at least one step (%v)",
			c.Physics.MaxFrameDelta, c.Physics.Step)
	case c.Population.Count < 0:
		return fmt.Errorf("population.count must not be negative, got %d", c.Population.Count)
	case c.Population.Count > 0 && len(c.Population.Names) == 0:
		return fmt.Errorf("population.names must not be empty")
	case c.Population.Scale <= 0:
		return fmt.Errorf("population.scale must be positive, got %v", c.Population.Scale)
	case len(c.Screen.ClearColor) != 3:
		return fmt.Errorf("screen.clear_color needs 3 components, got %d", len(c.Screen.ClearColor))
	case c.Viewport.MinWidth <= 0 || c.Viewport.MinHeight <= 0:
		return fmt.Errorf("viewport minimum must be positive, got %vx%v",
			c.Viewport.MinWidth, c.Viewport.MinHeight)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	for i, v := range c.Screen.ClearColor {
		c.Derived.ClearRGBA[i] = uint8(clamp01(v)*255 + 0.5)
	}
	c.Derived.ClearRGBA[3] = 255
	c.Derived.StepHz = 1 / c.Physics.Step

	if c.Telemetry.WindowFrames < 1 {
		c.Telemetry.WindowFrames = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
