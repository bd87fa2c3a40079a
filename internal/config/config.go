package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gridsim/server/internal/spatial"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Grid     GridConfig     `toml:"grid"`
	Sim      SimConfig      `toml:"sim"`
	Scenario ScenarioConfig `toml:"scenario"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name string `toml:"name"`
}

// GridConfig mirrors the spatial partition options. Validation happens when
// the index is configured, so a bad cell size fails the boot, not the tick.
type GridConfig struct {
	CellSize     float64 `toml:"cell_size"`
	BoundsX      float64 `toml:"bounds_x"`
	BoundsY      float64 `toml:"bounds_y"`
	BoundsWidth  float64 `toml:"bounds_width"`
	BoundsHeight float64 `toml:"bounds_height"`
}

// Spatial converts the TOML section to the index's own config type.
func (g GridConfig) Spatial() spatial.Config {
	return spatial.Config{
		CellSize: g.CellSize,
		Bounds: spatial.Bounds{
			X:      g.BoundsX,
			Y:      g.BoundsY,
			Width:  g.BoundsWidth,
			Height: g.BoundsHeight,
		},
	}
}

type SimConfig struct {
	TickRate           time.Duration `toml:"tick_rate"`
	Seed               int64         `toml:"seed"` // 0 = seed from clock
	SteerInterval      int           `toml:"steer_interval"`      // ticks between Lua steering calls
	VisibilityInterval int           `toml:"visibility_interval"` // ticks between proximity scans
	StatsInterval      int           `toml:"stats_interval"`      // ticks between occupancy log lines
}

type ScenarioConfig struct {
	Path       string `toml:"path"`
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "gridsim",
		},
		Grid: GridConfig{
			CellSize:     100,
			BoundsX:      0,
			BoundsY:      0,
			BoundsWidth:  4000,
			BoundsHeight: 4000,
		},
		Sim: SimConfig{
			TickRate:           200 * time.Millisecond,
			Seed:               0,
			SteerInterval:      5,
			VisibilityInterval: 2,
			StatsInterval:      150, // 150 ticks x 200ms = 30 seconds
		},
		Scenario: ScenarioConfig{
			Path:       "data/scenario.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
