// Package config loads application settings from defaults, an optional YAML
// file and AUTOMATA_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"ring-ca/internal/sims/elementary"
)

// Config is the full application configuration.
type Config struct {
	Automaton Automaton `yaml:"automaton"`
	View      View      `yaml:"view"`
	Serve     Serve     `yaml:"serve"`

	Database string `yaml:"database" env:"AUTOMATA_DB"`
}

// Automaton configures the engine.
type Automaton struct {
	Rule         int    `yaml:"rule"          env:"AUTOMATA_RULE"`
	Width        int    `yaml:"width"         env:"AUTOMATA_WIDTH"`
	Generations  int    `yaml:"generations"   env:"AUTOMATA_GENERATIONS"`
	MaxWidth     int    `yaml:"max_width"     env:"AUTOMATA_MAX_WIDTH"`
	Seed         string `yaml:"seed"          env:"AUTOMATA_SEED"`
	SeedPosition int    `yaml:"seed_position" env:"AUTOMATA_SEED_POSITION"`
	RandomSeed   int64  `yaml:"random_seed"   env:"AUTOMATA_RANDOM_SEED"`
}

// View configures the ebiten window.
type View struct {
	Scale int `yaml:"scale" env:"AUTOMATA_VIEW_SCALE"`
	TPS   int `yaml:"tps"   env:"AUTOMATA_VIEW_TPS"`
}

// Serve configures the stream server.
type Serve struct {
	Listen string `yaml:"listen" env:"AUTOMATA_LISTEN"`
	TPS    int    `yaml:"tps"    env:"AUTOMATA_SERVE_TPS"`
}

// Default returns the built-in configuration.
func Default() Config {
	d := elementary.DefaultConfig()
	return Config{
		Automaton: Automaton{
			Rule:         d.Rule,
			Width:        d.Width,
			Generations:  d.Generations,
			MaxWidth:     d.MaxWidth,
			Seed:         string(d.Seed),
			SeedPosition: d.SeedPosition,
			RandomSeed:   d.RandomSeed,
		},
		View:  View{Scale: 3, TPS: 30},
		Serve: Serve{Listen: ":8080", TPS: 10},
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the engine cannot check itself.
func (c Config) Validate() error {
	var errs []error
	if _, err := elementary.ParseSeedMode(c.Automaton.Seed); err != nil {
		errs = append(errs, err)
	}
	if c.Automaton.Rule < 0 || c.Automaton.Rule > elementary.MaxRule {
		errs = append(errs, fmt.Errorf("rule %d outside [0,%d]", c.Automaton.Rule, elementary.MaxRule))
	}
	if c.Automaton.Width <= 0 {
		errs = append(errs, fmt.Errorf("width %d must be positive", c.Automaton.Width))
	}
	if c.Automaton.Generations < 1 {
		errs = append(errs, fmt.Errorf("generations %d must be at least 1", c.Automaton.Generations))
	}
	if c.View.Scale < 1 {
		errs = append(errs, fmt.Errorf("view scale %d must be at least 1", c.View.Scale))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Engine converts the automaton section into an engine configuration.
func (c Config) Engine() elementary.Config {
	e := elementary.DefaultConfig()
	e.Rule = c.Automaton.Rule
	e.Width = c.Automaton.Width
	e.Generations = c.Automaton.Generations
	if c.Automaton.MaxWidth > 0 {
		e.MaxWidth = c.Automaton.MaxWidth
	}
	e.Seed = elementary.SeedMode(c.Automaton.Seed)
	e.SeedPosition = c.Automaton.SeedPosition
	e.RandomSeed = c.Automaton.RandomSeed
	return e
}
