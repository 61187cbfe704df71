// Package config loads the workload files read by the profiling programs.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Workload WorkloadConfig `toml:"workload" yaml:"workload"`
	World    WorldConfig    `toml:"world" yaml:"world"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Profile  ProfileConfig  `toml:"profile" yaml:"profile"`
}

type WorkloadConfig struct {
	Rounds     int `toml:"rounds" yaml:"rounds"`         // fresh world per round
	Iterations int `toml:"iterations" yaml:"iterations"` // passes per round
	Entities   int `toml:"entities" yaml:"entities"`     // entities touched per pass
	IDStride   int `toml:"id_stride" yaml:"id_stride"`   // gap between issued ids, 1 = dense
}

type WorldConfig struct {
	FirstEntityID   uint32 `toml:"first_entity_id" yaml:"first_entity_id"`
	InitialCapacity int    `toml:"initial_capacity" yaml:"initial_capacity"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode" yaml:"mode"` // "cpu", "mem", "allocs" or "off"
	Path string `toml:"path" yaml:"path"`
}

// Load reads a .toml, .yaml or .yml file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, eris.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Workload: WorkloadConfig{
			Rounds:     10,
			Iterations: 1000,
			Entities:   1000,
			IDStride:   1,
		},
		World: WorldConfig{
			FirstEntityID:   1,
			InitialCapacity: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Mode: "cpu",
			Path: ".",
		},
	}
}

func (c *Config) Validate() error {
	w := c.Workload
	if w.Rounds < 1 || w.Iterations < 1 || w.Entities < 1 {
		return eris.Errorf("workload counts must be positive, got rounds=%d iterations=%d entities=%d",
			w.Rounds, w.Iterations, w.Entities)
	}
	if w.IDStride < 1 {
		return eris.Errorf("id_stride %d must be at least 1", w.IDStride)
	}
	if c.World.FirstEntityID == 0 {
		return eris.New("first_entity_id must be non-zero")
	}
	if c.World.InitialCapacity < 1 {
		return eris.Errorf("initial_capacity %d must be positive", c.World.InitialCapacity)
	}
	switch c.Profile.Mode {
	case "cpu", "mem", "allocs", "off":
	default:
		return eris.Errorf("unknown profile mode %q", c.Profile.Mode)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return eris.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
