package elementary

import (
	"ring-ca/internal/core"
)

// Engine runs a one-dimensional Wolfram code on a ring of cells and keeps the
// most recent generations in a fixed-capacity circular buffer.
//
// The buffer is written in slot order: generation n lives in slot
// n % Capacity(). CurrentSlot is the slot of the newest generation and
// TotalProduced counts every generation since the seed, so once the buffer
// wraps the two diverge. An Engine is not safe for concurrent use.
type Engine struct {
	cfg     Config
	rule    RuleTable
	history []Generation
	current int
	total   int
}

// New creates an engine and stores its seed as generation 0.
func New(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 {
		return nil, newError(KindInvalidGeneration, "new", "width %d must be positive", cfg.Width)
	}
	if cfg.Generations < 1 {
		return nil, newError(KindOutOfRange, "new", "generations %d must be at least 1", cfg.Generations)
	}
	rule, err := NewRuleTable(cfg.Rule)
	if err != nil {
		return nil, err
	}
	history, err := allocHistory(cfg.Width, cfg.Generations, cfg.MaxCells)
	if err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, rule: rule, history: history, current: -1, total: -1}

	seed, err := allocGeneration(cfg.Width)
	if err != nil {
		return nil, err
	}
	switch cfg.Seed {
	case SeedRandom:
		core.FillBinary(core.NewRNG(cfg.RandomSeed).Source(), seed)
	case SeedSingle, "":
		pos := cfg.Position()
		if pos < 0 || pos >= cfg.Width {
			return nil, newError(KindOutOfRange, "new", "seed position %d outside [0,%d)", pos, cfg.Width)
		}
		seed[pos] = 1
	default:
		return nil, newError(KindInvalidGeneration, "new", "unknown seed mode %q", cfg.Seed)
	}
	if err := e.validateGeneration("new", seed); err != nil {
		return nil, err
	}
	e.append(seed)
	return e, nil
}

// Derive creates an engine from src. With seedFromEnd the new engine starts
// over from src's newest generation as its own generation 0; otherwise it is
// a full copy of src's history and indices.
func Derive(src *Engine, seedFromEnd bool) (*Engine, error) {
	if src == nil || len(src.history) == 0 || src.current < 0 {
		return nil, newError(KindInvalidGeneration, "derive", "source engine has no generations")
	}
	history, err := allocHistory(src.Width(), src.Capacity(), src.cfg.MaxCells)
	if err != nil {
		return nil, err
	}
	e := &Engine{cfg: src.cfg, rule: src.rule, history: history, current: -1, total: -1}
	if seedFromEnd {
		latest := src.history[src.current]
		if err := e.validateGeneration("derive", latest); err != nil {
			return nil, err
		}
		e.append(latest)
		return e, nil
	}
	for i := range src.history {
		copy(e.history[i], src.history[i])
	}
	e.current, e.total = src.current, src.total
	return e, nil
}

// Advance computes the next generation from the current one and stores it in
// the next circular slot. On error the engine is left unchanged.
func (e *Engine) Advance() error {
	cur := e.history[e.current]
	next, err := allocGeneration(len(cur))
	if err != nil {
		return err
	}
	if err := e.transition(cur, next); err != nil {
		return err
	}
	if err := e.validateGeneration("advance", next); err != nil {
		return err
	}
	e.append(next)
	return nil
}

// Steps calls Advance n times, stopping at the first error.
func (e *Engine) Steps(n int) error {
	for i := 0; i < n; i++ {
		if err := e.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// FillToCapacity advances Capacity()-1 times so that a fresh engine ends up
// with every slot written.
func (e *Engine) FillToCapacity() error {
	return e.Steps(len(e.history) - 1)
}

// GenerationAt returns a copy of the generation stored in slot index.
func (e *Engine) GenerationAt(index int) (Generation, error) {
	if index < 0 || index >= e.written() {
		return nil, newError(KindOutOfRange, "generation", "slot %d outside [0,%d)", index, e.written())
	}
	return e.history[index].Clone(), nil
}

// Current returns a copy of the newest generation.
func (e *Engine) Current() Generation { return e.history[e.current].Clone() }

// History returns copies of every written generation, oldest first.
func (e *Engine) History() []Generation {
	n := e.written()
	start := 0
	if n == len(e.history) {
		start = (e.current + 1) % len(e.history)
	}
	out := make([]Generation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, e.history[(start+i)%len(e.history)].Clone())
	}
	return out
}

// CurrentSlot is the slot holding the newest generation.
func (e *Engine) CurrentSlot() int { return e.current }

// TotalProduced is the number of generations produced after the seed.
func (e *Engine) TotalProduced() int { return e.total }

// Capacity is the number of slots in the history buffer.
func (e *Engine) Capacity() int { return len(e.history) }

// Width is the number of cells per generation.
func (e *Engine) Width() int { return e.cfg.Width }

// Rule returns the engine's decoded rule.
func (e *Engine) Rule() RuleTable { return e.rule }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Neighborhood encodes the ring neighborhood of position p in g as
// right*1 + center*2 + left*4.
func Neighborhood(g Generation, p int) int {
	w := len(g)
	left := bit(g[(p-1+w)%w])
	center := bit(g[p])
	right := bit(g[(p+1)%w])
	return right + center<<1 + left<<2
}

func (e *Engine) transition(cur, next Generation) error {
	for p := range cur {
		out, err := e.rule.Lookup(Neighborhood(cur, p))
		if err != nil {
			return err
		}
		next[p] = out
	}
	return nil
}

func (e *Engine) append(g Generation) {
	e.total++
	e.current = (e.current + 1) % len(e.history)
	copy(e.history[e.current], g)
}

func (e *Engine) written() int {
	return min(e.total+1, len(e.history))
}

func (e *Engine) validateGeneration(op string, g Generation) error {
	if limit := e.cfg.maxWidth(); len(g) > limit {
		return newError(KindInvalidGeneration, op, "width %d exceeds maximum %d", len(g), limit)
	}
	if len(g) != e.cfg.Width {
		return newError(KindInvalidGeneration, op, "width %d, want %d", len(g), e.cfg.Width)
	}
	return nil
}

func allocHistory(width, capacity, maxCells int) (h []Generation, err error) {
	if maxCells > 0 && width > maxCells/capacity {
		return nil, newError(KindAllocation, "allocate", "history %dx%d exceeds %d cells", width, capacity, maxCells)
	}
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, newError(KindAllocation, "allocate", "history %dx%d: %v", width, capacity, r)
		}
	}()
	cells := make([]uint8, width*capacity)
	h = make([]Generation, capacity)
	for i := range h {
		h[i] = Generation(cells[i*width : (i+1)*width : (i+1)*width])
	}
	return h, nil
}

func allocGeneration(width int) (g Generation, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, newError(KindAllocation, "allocate", "generation of %d cells: %v", width, r)
		}
	}()
	return make(Generation, width), nil
}

func bit(c uint8) int {
	if c != 0 {
		return 1
	}
	return 0
}
