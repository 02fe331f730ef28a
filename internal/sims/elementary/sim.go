package elementary

import (
	"log/slog"

	"ring-ca/internal/core"
)

// Sim adapts an Engine to core.Sim. Cells lays the history out top to bottom,
// oldest generation first, so the newest row is always at the bottom once the
// buffer is full.
type Sim struct {
	cfg  Config
	eng  *Engine
	grid *core.ByteGrid
}

// NewSim builds an engine for cfg and wraps it.
func NewSim(cfg Config) (*Sim, error) {
	eng, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Sim{cfg: cfg, eng: eng, grid: core.NewByteGrid(cfg.Width, cfg.Generations)}, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "elementary" }

// Size returns the simulation grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.grid.W, H: s.grid.H} }

// Engine exposes the wrapped engine.
func (s *Sim) Engine() *Engine { return s.eng }

// Reset rebuilds the engine. Random seeds are redrawn from seed; single-cell
// seeds ignore it. The current engine is kept if the rebuild fails.
func (s *Sim) Reset(seed int64) {
	cfg := s.cfg
	if cfg.Seed == SeedRandom {
		cfg.RandomSeed = seed
	}
	eng, err := New(cfg)
	if err != nil {
		slog.Error("reset failed", "sim", s.Name(), "seed", seed, "error", err)
		return
	}
	s.eng = eng
}

// Step advances the engine by one generation.
func (s *Sim) Step() error { return s.eng.Advance() }

// Cells exposes the render buffer. Rows that have not been written yet are zero.
func (s *Sim) Cells() []uint8 {
	s.grid.Clear()
	for y, g := range s.eng.History() {
		copy(s.grid.Row(y), g)
	}
	return s.grid.Cells()
}

func init() {
	core.Register("elementary", func(cfg map[string]string) (core.Sim, error) {
		s, err := NewSim(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
