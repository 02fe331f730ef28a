package elementary

import (
	"fmt"
	"strconv"
)

// SeedMode selects how generation 0 is produced.
type SeedMode string

const (
	// SeedSingle turns on exactly one cell.
	SeedSingle SeedMode = "single"
	// SeedRandom sets every cell independently with probability 1/2.
	SeedRandom SeedMode = "random"
)

// AutoSeedPosition selects width/2-1 as the single seed position.
const AutoSeedPosition = -1

// DefaultMaxWidth is used when Config.MaxWidth is not set.
const DefaultMaxWidth = 4096

// Config holds parameters for the elementary cellular automaton.
type Config struct {
	Rule        int
	Width       int
	Generations int

	// MaxWidth bounds the width of any generation the engine stores.
	// Zero or negative selects DefaultMaxWidth.
	MaxWidth int
	// MaxCells bounds Width*Generations for the history allocation.
	// Zero or negative means no bound.
	MaxCells int

	Seed         SeedMode
	SeedPosition int
	RandomSeed   int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Rule:         30,
		Width:        160,
		Generations:  240,
		MaxWidth:     DefaultMaxWidth,
		MaxCells:     1 << 24,
		Seed:         SeedSingle,
		SeedPosition: AutoSeedPosition,
		RandomSeed:   42,
	}
}

// ParseSeedMode validates a seed mode name.
func ParseSeedMode(s string) (SeedMode, error) {
	switch SeedMode(s) {
	case SeedSingle, SeedRandom:
		return SeedMode(s), nil
	}
	return "", fmt.Errorf("unknown seed mode %q (want %q or %q)", s, SeedSingle, SeedRandom)
}

// Position resolves the single seed position for the configured width.
func (c Config) Position() int {
	if c.SeedPosition == AutoSeedPosition {
		return c.Width/2 - 1
	}
	return c.SeedPosition
}

func (c Config) maxWidth() int {
	if c.MaxWidth <= 0 {
		return DefaultMaxWidth
	}
	return c.MaxWidth
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["gens"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Generations = parsed
		}
	}
	if v, ok := cfg["rule"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= MaxRule {
			c.Rule = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if mode, err := ParseSeedMode(v); err == nil {
			c.Seed = mode
		}
	}
	if v, ok := cfg["pos"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.SeedPosition = parsed
		}
	}
	if v, ok := cfg["random_seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.RandomSeed = parsed
		}
	}
	return c
}
