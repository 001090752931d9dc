// Package config provides configuration loading and access for the
// simulation.
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
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Domain    DomainConfig    `yaml:"domain"`
	Flock     FlockConfig     `yaml:"flock"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Camera    CameraConfig    `yaml:"camera"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// Vec3Config is a 3-component vector in configuration files.
type Vec3Config struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// DomainConfig holds the simulation volume bounds. Each axis spans
// [min, max); opposite faces are identified (toroidal wrap).
type DomainConfig struct {
	Min Vec3Config `yaml:"min"`
	Max Vec3Config `yaml:"max"`
}

// FlockConfig holds the boid population and steering tunables.
type FlockConfig struct {
	Count           int     `yaml:"count"`            // number of agents
	Accuracy        int     `yaml:"accuracy"`         // neighbor cap per agent
	Drag            float32 `yaml:"drag"`             // velocity damping per tick
	Randomness      float32 `yaml:"randomness"`       // steering jitter magnitude
	Radius          float32 `yaml:"radius"`           // interaction radius
	AlignmentForce  float32 `yaml:"alignment_force"`
	AlignmentBias   float32 `yaml:"alignment_bias"`   // velocity-similarity weighting
	CohesionForce   float32 `yaml:"cohesion_force"`
	SeparationForce float32 `yaml:"separation_force"`
	SteeringForce   float32 `yaml:"steering_force"`   // overall steering scale
	MinSpeed        float32 `yaml:"min_speed"`
	MaxSpeed        float32 `yaml:"max_speed"`
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// CameraConfig holds initial orbit camera parameters.
type CameraConfig struct {
	Distance float32 `yaml:"distance"` // initial orbit distance (0 = fit domain)
	FovYDeg  float32 `yaml:"fov_y"`    // vertical field of view, degrees
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
}

// RenderConfig holds boid presentation settings.
type RenderConfig struct {
	Mode       string  `yaml:"mode"`        // tetrahedron | billboard | hidden
	BoidSize   float32 `yaml:"boid_size"`   // world-space size of a boid marker
	ShowDomain bool    `yaml:"show_domain"` // draw the domain wireframe box
	ShowTree   bool    `yaml:"show_tree"`   // draw the octree wireframe
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
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
		// Unmarshal into the same struct - only overwrites fields present
		// in the file
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

// validate rejects configurations the integrator cannot run with.
func (c *Config) validate() error {
	if c.Flock.Count <= 0 {
		return fmt.Errorf("flock.count must be positive, got %d", c.Flock.Count)
	}
	if c.Flock.MaxSpeed < c.Flock.MinSpeed {
		return fmt.Errorf("flock.max_speed %v is below flock.min_speed %v", c.Flock.MaxSpeed, c.Flock.MinSpeed)
	}
	if c.Domain.Max.X <= c.Domain.Min.X || c.Domain.Max.Y <= c.Domain.Min.Y || c.Domain.Max.Z <= c.Domain.Min.Z {
		return fmt.Errorf("domain max must exceed domain min on every axis")
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
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
