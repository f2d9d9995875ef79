// Package config provides configuration loading and access for the particle demo.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Camera     CameraConfig     `yaml:"camera"`
	Emitters   []EmitterConfig  `yaml:"emitters"`
	Species    SpeciesConfig    `yaml:"species"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds tick parameters.
type SimulationConfig struct {
	DT             float64 `yaml:"dt"`               // seconds per tick
	Seed           int64   `yaml:"seed"`             // 0 = time-based
	StepsPerUpdate int     `yaml:"steps_per_update"` // ticks per Update call
}

// CameraConfig holds view parameters. The camera looks down the Z axis at
// the XY plane, centered on (CenterX, CenterY).
type CameraConfig struct {
	CenterX       float64 `yaml:"center_x"`
	CenterY       float64 `yaml:"center_y"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"` // screen pixels per world unit at zoom 1
	MinZoom       float64 `yaml:"min_zoom"`
	MaxZoom       float64 `yaml:"max_zoom"`
}

// EmitterConfig describes one particle pool and where it emits from.
type EmitterConfig struct {
	Name           string     `yaml:"name"`
	Species        string     `yaml:"species"` // fountain, ember, drift
	Capacity       int        `yaml:"capacity"`
	BirthRate      float64    `yaml:"birth_rate"`      // particles per second
	LifeExpectancy float64    `yaml:"life_expectancy"` // seconds
	LifeVariance   float64    `yaml:"life_variance"`   // nominally [0, 1]
	UseColor       bool       `yaml:"use_color"`
	Origin         [3]float64 `yaml:"origin"`
	PointSize      float64    `yaml:"point_size"` // pixels at scale 1, zoom 1
	Tint           string     `yaml:"tint"`       // hex color used when use_color is off
}

// SpeciesConfig holds per-species tuning shared by all emitters of a species.
type SpeciesConfig struct {
	Fountain FountainConfig `yaml:"fountain"`
	Ember    EmberConfig    `yaml:"ember"`
	Drift    DriftConfig    `yaml:"drift"`
}

// FountainConfig tunes ballistic particles launched in a cone.
type FountainConfig struct {
	Speed       float64 `yaml:"speed"`        // launch speed, units/sec
	SpeedSpread float64 `yaml:"speed_spread"` // relative, per slot
	ConeDegrees float64 `yaml:"cone_degrees"` // half-angle around +Y
	Gravity     float64 `yaml:"gravity"`      // units/sec^2, downward
	Jitter      float64 `yaml:"jitter"`       // spawn offset radius
	StartScale  float64 `yaml:"start_scale"`
	EndScale    float64 `yaml:"end_scale"`
	Color       string  `yaml:"color"`
}

// EmberConfig tunes rising, cooling particles.
type EmberConfig struct {
	Radius     float64 `yaml:"radius"`      // spawn disk radius
	RiseSpeed  float64 `yaml:"rise_speed"`  // units/sec
	Wobble     float64 `yaml:"wobble"`      // sideways amplitude, units/sec
	WobbleFreq float64 `yaml:"wobble_freq"` // radians/sec
	StartScale float64 `yaml:"start_scale"`
	HotColor   string  `yaml:"hot_color"`
	CoolColor  string  `yaml:"cool_color"`
}

// DriftConfig tunes slow ambient particles in a box.
type DriftConfig struct {
	Extent    [3]float64 `yaml:"extent"`     // half-size of the spawn box
	FallSpeed float64    `yaml:"fall_speed"` // units/sec
	Sway      float64    `yaml:"sway"`       // sideways amplitude, units/sec
	SwayFreq  float64    `yaml:"sway_freq"`  // radians/sec
	MaxScale  float64    `yaml:"max_scale"`
	Color     string     `yaml:"color"`

	Turbulence float64 `yaml:"turbulence"`  // noise push, units/sec
	NoiseScale float64 `yaml:"noise_scale"` // noise frequency per world unit
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds of sim time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32        // Simulation.DT as float32
	ScreenW32    float32        // Screen.Width as float32
	ScreenH32    float32        // Screen.Height as float32
	EmitterIndex map[string]int // name -> index into Emitters
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
		// Only overwrites fields present in the file. A list such as
		// emitters is replaced as a whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validation errors.
var (
	ErrNoEmitters       = errors.New("at least one emitter is required")
	ErrInvalidEmitter   = errors.New("invalid emitter")
	ErrInvalidTimestep  = errors.New("simulation dt must be positive")
	ErrDuplicateEmitter = errors.New("duplicate emitter name")
)

// Validate checks the values that the particle pools cannot accept.
func (c *Config) Validate() error {
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("validating config (dt %g): %w", c.Simulation.DT, ErrInvalidTimestep)
	}
	if len(c.Emitters) == 0 {
		return fmt.Errorf("validating config: %w", ErrNoEmitters)
	}
	seen := make(map[string]bool, len(c.Emitters))
	for i, e := range c.Emitters {
		switch {
		case e.Name == "":
			return fmt.Errorf("validating emitter %d: missing name: %w", i, ErrInvalidEmitter)
		case seen[e.Name]:
			return fmt.Errorf("validating emitter %q: %w", e.Name, ErrDuplicateEmitter)
		case e.Capacity <= 0:
			return fmt.Errorf("validating emitter %q: capacity %d: %w", e.Name, e.Capacity, ErrInvalidEmitter)
		case e.LifeExpectancy <= 0:
			return fmt.Errorf("validating emitter %q: life expectancy %g: %w", e.Name, e.LifeExpectancy, ErrInvalidEmitter)
		case e.BirthRate < 0:
			return fmt.Errorf("validating emitter %q: birth rate %g: %w", e.Name, e.BirthRate, ErrInvalidEmitter)
		}
		seen[e.Name] = true
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}

	for i := range c.Emitters {
		e := &c.Emitters[i]
		if e.PointSize == 0 {
			e.PointSize = 4
		}
		if e.Tint == "" {
			e.Tint = "#ffffff"
		}
	}

	c.Derived.EmitterIndex = make(map[string]int, len(c.Emitters))
	for i, e := range c.Emitters {
		c.Derived.EmitterIndex[e.Name] = i
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
