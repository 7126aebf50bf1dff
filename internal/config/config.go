// Package config loads the host configuration for industrysim.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every host setting.
type Config struct {
	LogLevel    string             `yaml:"log_level"`
	Database    DatabaseConfig     `yaml:"database"`
	Galaxy      GalaxyConfig       `yaml:"galaxy"`
	Engine      EngineConfig       `yaml:"engine"`
	Telemetry   TelemetryConfig    `yaml:"telemetry"`
	Controllers []ControllerConfig `yaml:"controllers"`
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path          string `yaml:"path"`
	KeepSnapshots int    `yaml:"keep_snapshots"` // galaxy snapshots retained after each save
}

// GalaxyConfig parameterizes generation of a fresh galaxy.
type GalaxyConfig struct {
	Planets        int   `yaml:"planets"`
	Seed           int64 `yaml:"seed"` // 0 = random
	WormholeRadius int   `yaml:"wormhole_radius"`
	Spacing        int   `yaml:"spacing"`
}

// EngineConfig sets the tick rate and cadences, in ticks.
type EngineConfig struct {
	Interval     time.Duration `yaml:"interval"`
	Speed        float64       `yaml:"speed"`
	PlanEvery    uint64        `yaml:"plan_every"`
	SummaryEvery uint64        `yaml:"summary_every"`
	SaveEvery    uint64        `yaml:"save_every"`
}

// TelemetryConfig controls the per-cycle CSV output.
type TelemetryConfig struct {
	Dir     string `yaml:"dir"`
	Enabled bool   `yaml:"enabled"`
}

// ControllerConfig describes one minor faction.
type ControllerConfig struct {
	Faction       int32 `yaml:"faction"`
	RaiderFaction int32 `yaml:"raider_faction"`
	HomePlanet    int32 `yaml:"home_planet"`
	CostIntensity int   `yaml:"cost_intensity"` // percent
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
		// Only overwrites fields present in the file. A controllers list
		// replaces the default list as a whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the host cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Database.Path == "":
		return fmt.Errorf("config: database.path is required")
	case c.Galaxy.Planets < 2:
		return fmt.Errorf("config: galaxy.planets must be at least 2, got %d", c.Galaxy.Planets)
	case c.Engine.Interval <= 0:
		return fmt.Errorf("config: engine.interval must be positive")
	case c.Engine.PlanEvery == 0:
		return fmt.Errorf("config: engine.plan_every must be positive")
	case len(c.Controllers) == 0:
		return fmt.Errorf("config: at least one controller is required")
	}
	seen := map[int32]bool{}
	for i, cc := range c.Controllers {
		if cc.Faction <= 0 {
			return fmt.Errorf("config: controllers[%d]: faction is required", i)
		}
		if seen[cc.Faction] {
			return fmt.Errorf("config: controllers[%d]: faction %d listed twice", i, cc.Faction)
		}
		seen[cc.Faction] = true
		if cc.CostIntensity < 0 {
			return fmt.Errorf("config: controllers[%d]: cost_intensity must not be negative", i)
		}
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
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
