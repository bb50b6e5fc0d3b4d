// Package config provides configuration loading for the spark field simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// It is loaded once at startup and passed to the engine by the host;
// nothing reads it ambiently after construction.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Population  PopulationConfig  `yaml:"population"`
	Spark       SparkConfig       `yaml:"spark"`
	Motion      MotionConfig      `yaml:"motion"`
	Energy      EnergyConfig      `yaml:"energy"`
	Interaction InteractionConfig `yaml:"interaction"`
	Flow        FlowConfig        `yaml:"flow"`
	Render      RenderConfig      `yaml:"render"`
	Sim         SimConfig         `yaml:"sim"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	MaxDPR    float64 `yaml:"max_dpr"` // device pixel ratio clamp forwarded to the renderer
}

// PopulationConfig holds spawn-target parameters.
// The live target is derived from viewport area relative to a 1920x1080
// reference, then clamped to [min_count, max_count].
type PopulationConfig struct {
	DesktopCount    int     `yaml:"desktop_count"`
	MobileCount     int     `yaml:"mobile_count"` // used when the host reports low power
	MinCount        int     `yaml:"min_count"`
	MaxCount        int     `yaml:"max_count"`
	SpawnRatePerSec float64 `yaml:"spawn_rate_per_sec"`
}

// SparkConfig holds per-spark creation parameters.
type SparkConfig struct {
	RadiusMin    float64 `yaml:"radius_min"`
	RadiusMax    float64 `yaml:"radius_max"`
	LifetimeMin  float64 `yaml:"lifetime_min"` // seconds
	LifetimeMax  float64 `yaml:"lifetime_max"`
	SpawnPadding float64 `yaml:"spawn_padding"` // inset from viewport edges at spawn

	// Spawn palette: hue band in degrees plus fixed saturation/value.
	PaletteHueMin     float64 `yaml:"palette_hue_min"`
	PaletteHueMax     float64 `yaml:"palette_hue_max"`
	PaletteSaturation float64 `yaml:"palette_saturation"`
	PaletteValue      float64 `yaml:"palette_value"`
}

// MotionConfig holds kinematics parameters.
type MotionConfig struct {
	MaxSpeed      float64 `yaml:"max_speed"`      // velocity magnitude clamp (units/s)
	DriftStrength float64 `yaml:"drift_strength"` // sinusoidal drift acceleration (units/s^2)
	Damping       float64 `yaml:"damping"`        // per-frame factor at 60fps, applied as damping^(dt*60)
}

// EnergyConfig holds energy economics parameters.
// Decay floors at floor*0.5; transfer never takes a giver below floor.
type EnergyConfig struct {
	DecayPerSec        float64 `yaml:"decay_per_sec"`
	Floor              float64 `yaml:"floor"`
	TransferRatePerSec float64 `yaml:"transfer_rate_per_sec"`
}

// InteractionConfig holds pair-resolution parameters.
type InteractionConfig struct {
	Radius                float64 `yaml:"radius"`        // max center-to-center connection distance; also the grid cell size
	MaxPerFrame           int     `yaml:"max_per_frame"` // hard cap on pairs resolved per frame
	ActivationThreshold   float64 `yaml:"activation_threshold"`
	ColorRatePerSec       float64 `yaml:"color_rate_per_sec"`
	ConnectionRatePerSec  float64 `yaml:"connection_rate_per_sec"`  // strength approach rate toward target weight
	ConnectionDecayPerSec float64 `yaml:"connection_decay_per_sec"` // strength loss for pairs not resolved this frame
}

// FlowConfig holds transfer-particle parameters.
type FlowConfig struct {
	MaxParticles        int     `yaml:"max_particles"`
	Speed               float64 `yaml:"speed"`      // traversal speed in viewport units/s
	SpawnRate           float64 `yaml:"spawn_rate"` // per-frame probability scale at 60fps
	VisibilityThreshold float64 `yaml:"visibility_threshold"`
}

// RenderConfig holds parameters the renderer reads from the snapshot side.
type RenderConfig struct {
	GlowMultiplier float64 `yaml:"glow_multiplier"` // glow radius = body radius * this
	LineAlphaMax   float64 `yaml:"line_alpha_max"`
	RingDecay      float64 `yaml:"ring_decay"` // per-frame factor at 60fps, applied as ring_decay^(dt*60)
}

// SimConfig holds frame-pass timing parameters.
type SimConfig struct {
	MaxFrameDT float64 `yaml:"max_frame_dt"` // elapsed-time clamp in seconds; excess is discarded
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of sim time per stats window
	PerfWindow  int     `yaml:"perf_window"`  // frames per perf rolling window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	HalfFloor float64 // Energy.Floor * 0.5, the hard energy minimum
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

	cfg.ComputeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error. Intended for tests and tools
// that run on embedded defaults only.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// ComputeDerived calculates values derived from loaded config. Load calls
// it automatically; callers that mutate fields afterward must call it again.
func (c *Config) ComputeDerived() {
	if c.Screen.MaxDPR < 1 {
		c.Screen.MaxDPR = 1
	}
	if c.Population.MaxCount < c.Population.MinCount {
		c.Population.MaxCount = c.Population.MinCount
	}
	if c.Sim.MaxFrameDT <= 0 {
		c.Sim.MaxFrameDT = 0.1
	}

	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.HalfFloor = c.Energy.Floor * 0.5
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
