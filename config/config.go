// Package config provides configuration loading and access for the fight simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Arena     ArenaConfig     `yaml:"arena"`
	Odds      OddsConfig      `yaml:"odds"`
	Roster    RosterConfig    `yaml:"roster"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds match orchestration timing.
type SimConfig struct {
	TickRate         int     `yaml:"tick_rate"`         // Fixed ticks per second
	CountdownSeconds float64 `yaml:"countdown_seconds"` // Pre-fight countdown
	VictorySeconds   float64 `yaml:"victory_seconds"`   // Post-fight display window
}

// ArenaConfig holds the dimensions of the arena box.
// X spans [-Width/2, Width/2], Z spans [-Depth/2, Depth/2], Y spans [0, Height].
type ArenaConfig struct {
	Width         float64 `yaml:"width"`
	Depth         float64 `yaml:"depth"`
	Height        float64 `yaml:"height"`
	Gravity       float64 `yaml:"gravity"`        // Units per tick squared
	WallProximity float64 `yaml:"wall_proximity"` // Distance at which a fighter counts as cornered
}

// OddsConfig holds betting odds parameters.
type OddsConfig struct {
	HouseEdge   float64 `yaml:"house_edge"` // Added to the summed win probability, split across both sides
	Horn        float64 `yaml:"horn"`
	Stinger     float64 `yaml:"stinger"`
	Shell       float64 `yaml:"shell"`
	Winged      float64 `yaml:"winged"`
	Wallcrawler float64 `yaml:"wallcrawler"`
}

// RosterConfig holds roster collaborator parameters.
type RosterConfig struct {
	Size           int    `yaml:"size"`             // Bugs generated for a fresh roster
	MinSize        int    `yaml:"min_size"`         // Retirement never shrinks the roster below this
	RetireLosses   int    `yaml:"retire_losses"`    // Losses before a bug is retired (0 = never)
	Path           string `yaml:"path"`             // Persistence file (empty = memory only)
	SaveDebounceMs int    `yaml:"save_debounce_ms"` // Coalesce saves within this window
}

// TelemetryConfig holds fight telemetry parameters.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // Directory for fights.csv and config.yaml (empty = disabled)
	LogFights bool   `yaml:"log_fights"` // Emit per-fight stats via slog
}

// ServerConfig holds spectator transport parameters.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	BroadcastEvery int    `yaml:"broadcast_every"` // Broadcast every N ticks
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickSeconds    float64       // 1 / TickRate
	TickInterval   time.Duration // Wall-clock duration of one tick
	CountdownTicks int           // Countdown length in ticks
	VictoryTicks   int           // Victory display length in ticks
	SaveDebounce   time.Duration // Roster save coalescing window
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
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Arena.Width <= 0 || c.Arena.Depth <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("arena dimensions must be positive, got %vx%vx%v",
			c.Arena.Width, c.Arena.Depth, c.Arena.Height)
	}
	if c.Roster.Size < 2 {
		return fmt.Errorf("roster.size must be at least 2, got %d", c.Roster.Size)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickSeconds = 1.0 / float64(c.Sim.TickRate)
	c.Derived.TickInterval = time.Second / time.Duration(c.Sim.TickRate)
	c.Derived.CountdownTicks = int(c.Sim.CountdownSeconds * float64(c.Sim.TickRate))
	c.Derived.VictoryTicks = int(c.Sim.VictorySeconds * float64(c.Sim.TickRate))
	c.Derived.SaveDebounce = time.Duration(c.Roster.SaveDebounceMs) * time.Millisecond

	if c.Roster.MinSize < 2 {
		c.Roster.MinSize = 2
	}
	if c.Server.BroadcastEvery < 1 {
		c.Server.BroadcastEvery = 1
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
