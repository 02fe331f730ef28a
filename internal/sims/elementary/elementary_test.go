package elementary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(s string) Generation {
	g := make(Generation, len(s))
	for i, c := range s {
		if c == '+' {
			g[i] = 1
		}
	}
	return g
}

func toyConfig(width, gens, rule, pos int) Config {
	cfg := DefaultConfig()
	cfg.Width = width
	cfg.Generations = gens
	cfg.Rule = rule
	cfg.SeedPosition = pos
	return cfg
}

// referenceStep applies the rule with explicit modulo indexing.
func referenceStep(rule int, g Generation) Generation {
	w := len(g)
	next := make(Generation, w)
	for p := 0; p < w; p++ {
		l := int(g[((p-1)%w+w)%w])
		c := int(g[p])
		r := int(g[(p+1)%w])
		next[p] = uint8((rule >> (4*l + 2*c + r)) & 1)
	}
	return next
}

func TestNewSeedsSingleCell(t *testing.T) {
	eng, err := New(toyConfig(7, 4, 30, 3))
	require.NoError(t, err)

	assert.Equal(t, 0, eng.CurrentSlot())
	assert.Equal(t, 0, eng.TotalProduced())
	assert.Equal(t, 4, eng.Capacity())
	assert.Equal(t, 7, eng.Width())
	assert.Equal(t, row("___+___"), eng.Current())
}

func TestNewDefaultSeedPosition(t *testing.T) {
	eng, err := New(DefaultConfig())
	require.NoError(t, err)

	g := eng.Current()
	require.Len(t, g, 160)
	assert.Equal(t, 1, g.Live())
	assert.Equal(t, uint8(1), g[79])
	assert.Equal(t, 240, eng.Capacity())
}

func TestNewRandomSeedDeterministic(t *testing.T) {
	cfg := toyConfig(64, 2, 30, AutoSeedPosition)
	cfg.Seed = SeedRandom
	cfg.RandomSeed = 1234

	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Current(), b.Current())
	live := a.Current().Live()
	assert.Greater(t, live, 0)
	assert.Less(t, live, 64)
}

func TestRule30Steps(t *testing.T) {
	eng, err := New(toyConfig(7, 8, 30, 3))
	require.NoError(t, err)

	want := []string{
		"___+___",
		"__+++__",
		"_++__+_",
		"++_++++",
	}
	for i := 1; i < len(want); i++ {
		require.NoError(t, eng.Advance())
		assert.Equal(t, row(want[i]), eng.Current(), "generation %d", i)
	}
	for i, w := range want {
		g, err := eng.GenerationAt(i)
		require.NoError(t, err)
		assert.Equal(t, row(w), g, "slot %d", i)
	}
}

func TestRingWraparound(t *testing.T) {
	eng, err := New(toyConfig(7, 4, 30, 0))
	require.NoError(t, err)
	seed := eng.Current()

	require.NoError(t, eng.Advance())
	assert.Equal(t, row("++____+"), eng.Current())
	assert.Equal(t, referenceStep(30, seed), eng.Current())

	assert.Equal(t, 1, Neighborhood(row("+______"), 6), "position 0 is the right neighbor of the last cell")
	assert.Equal(t, 4, Neighborhood(row("______+"), 0), "last cell is the left neighbor of position 0")
	assert.Equal(t, 2, Neighborhood(row("+______"), 0))
}

func TestMatchesReferenceForAllRules(t *testing.T) {
	for rule := 0; rule <= MaxRule; rule++ {
		cfg := toyConfig(13, 6, rule, AutoSeedPosition)
		cfg.Seed = SeedRandom
		cfg.RandomSeed = int64(rule)
		eng, err := New(cfg)
		require.NoError(t, err)

		prev := eng.Current()
		for step := 0; step < 10; step++ {
			require.NoError(t, eng.Advance())
			want := referenceStep(rule, prev)
			require.Equal(t, want, eng.Current(), "rule %d step %d", rule, step)
			prev = want
		}
	}
}

func TestCircularBufferOverwritesOldest(t *testing.T) {
	const capacity, extra = 4, 3
	eng, err := New(toyConfig(7, capacity, 30, 3))
	require.NoError(t, err)

	gens := []Generation{eng.Current()}
	for i := 0; i < capacity+extra; i++ {
		require.NoError(t, eng.Advance())
		gens = append(gens, referenceStep(30, gens[len(gens)-1]))
	}

	total := capacity + extra
	assert.Equal(t, total, eng.TotalProduced())
	assert.Equal(t, total%capacity, eng.CurrentSlot())
	assert.GreaterOrEqual(t, eng.TotalProduced(), eng.CurrentSlot())

	for slot := 0; slot < capacity; slot++ {
		// newest generation n <= total with n % capacity == slot
		n := total - ((total-slot)%capacity+capacity)%capacity
		got, err := eng.GenerationAt(slot)
		require.NoError(t, err)
		assert.Equal(t, gens[n], got, "slot %d should hold generation %d", slot, n)
	}

	history := eng.History()
	require.Len(t, history, capacity)
	for i, g := range history {
		assert.Equal(t, gens[total-capacity+1+i], g, "history[%d]", i)
	}
	assert.Equal(t, eng.Current(), history[len(history)-1])
}

func TestTotalProducedCountsAdvances(t *testing.T) {
	eng, err := New(toyConfig(9, 3, 110, 4))
	require.NoError(t, err)
	for i := 1; i <= 10; i++ {
		require.NoError(t, eng.Advance())
		assert.Equal(t, i, eng.TotalProduced())
		assert.Equal(t, i%3, eng.CurrentSlot())
	}
}

func TestGenerationAtBounds(t *testing.T) {
	eng, err := New(toyConfig(7, 5, 30, 3))
	require.NoError(t, err)

	_, err = eng.GenerationAt(1)
	assert.True(t, IsOutOfRange(err), "slot 1 not written yet")

	require.NoError(t, eng.Advance())
	_, err = eng.GenerationAt(1)
	require.NoError(t, err)
	_, err = eng.GenerationAt(2)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = eng.GenerationAt(-1)
	assert.True(t, IsOutOfRange(err))

	require.NoError(t, eng.Steps(10))
	for i := 0; i < 5; i++ {
		_, err := eng.GenerationAt(i)
		require.NoError(t, err)
	}
	_, err = eng.GenerationAt(5)
	assert.True(t, IsOutOfRange(err))
}

func TestGenerationAtReturnsCopy(t *testing.T) {
	eng, err := New(toyConfig(7, 2, 30, 3))
	require.NoError(t, err)

	g, err := eng.GenerationAt(0)
	require.NoError(t, err)
	g[0] = 1
	g[3] = 0

	again, err := eng.GenerationAt(0)
	require.NoError(t, err)
	assert.Equal(t, row("___+___"), again)

	cur := eng.Current()
	cur[1] = 1
	assert.Equal(t, row("___+___"), eng.Current())

	eng.History()[0][2] = 1
	assert.Equal(t, row("___+___"), eng.Current())
}

func TestFillToCapacity(t *testing.T) {
	eng, err := New(toyConfig(11, 6, 90, 5))
	require.NoError(t, err)
	require.NoError(t, eng.FillToCapacity())

	assert.Equal(t, 5, eng.CurrentSlot())
	assert.Equal(t, 5, eng.TotalProduced())
	for i := 0; i < eng.Capacity(); i++ {
		_, err := eng.GenerationAt(i)
		require.NoError(t, err, "slot %d", i)
	}
}

func TestSingleSlotBuffer(t *testing.T) {
	eng, err := New(toyConfig(7, 1, 30, 3))
	require.NoError(t, err)
	require.NoError(t, eng.FillToCapacity())
	assert.Equal(t, 0, eng.TotalProduced())

	require.NoError(t, eng.Advance())
	assert.Equal(t, 0, eng.CurrentSlot())
	assert.Equal(t, 1, eng.TotalProduced())
	assert.Equal(t, row("__+++__"), eng.Current())
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func(c *Config)
		check func(error) bool
	}{
		{"rule too large", func(c *Config) { c.Rule = 256 }, IsOutOfRange},
		{"negative rule", func(c *Config) { c.Rule = -4 }, IsOutOfRange},
		{"zero generations", func(c *Config) { c.Generations = 0 }, IsOutOfRange},
		{"seed position past end", func(c *Config) { c.SeedPosition = 7 }, IsOutOfRange},
		{"width above maximum", func(c *Config) { c.MaxWidth = 6 }, IsInvalidGeneration},
		{"zero width", func(c *Config) { c.Width = 0 }, IsInvalidGeneration},
		{"unknown seed mode", func(c *Config) { c.Seed = "striped" }, IsInvalidGeneration},
		{"history too large", func(c *Config) { c.MaxCells = 27 }, IsAllocationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := toyConfig(7, 4, 30, 3)
			tt.cfg(&cfg)
			eng, err := New(cfg)
			require.Error(t, err)
			assert.Nil(t, eng)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestDeriveCopiesHistory(t *testing.T) {
	src, err := New(toyConfig(7, 4, 30, 3))
	require.NoError(t, err)
	require.NoError(t, src.Steps(5))

	cp, err := Derive(src, false)
	require.NoError(t, err)
	assert.Equal(t, src.CurrentSlot(), cp.CurrentSlot())
	assert.Equal(t, src.TotalProduced(), cp.TotalProduced())
	assert.Equal(t, src.Rule(), cp.Rule())
	assert.Equal(t, src.History(), cp.History())

	require.NoError(t, cp.Advance())
	assert.Equal(t, 5, src.TotalProduced(), "advancing the copy must not touch the source")
	assert.NotEqual(t, src.CurrentSlot(), cp.CurrentSlot())

	require.NoError(t, src.Advance())
	assert.Equal(t, src.Current(), cp.Current())
}

func TestNewLiteralConfigUsesDefaultLimits(t *testing.T) {
	eng, err := New(Config{Rule: 30, Width: 7, Generations: 4, SeedPosition: 3})
	require.NoError(t, err)
	assert.Equal(t, row("___+___"), eng.Current())
	require.NoError(t, eng.Advance())
	assert.Equal(t, row("__+++__"), eng.Current())

	_, err = New(Config{Rule: 30, Width: DefaultMaxWidth + 1, Generations: 1, SeedPosition: 0})
	assert.True(t, IsInvalidGeneration(err), "unset MaxWidth still bounds width: %v", err)
}

func TestAdvanceFailureLeavesStateUnchanged(t *testing.T) {
	eng, err := New(toyConfig(7, 3, 30, 3))
	require.NoError(t, err)
	require.NoError(t, eng.Steps(4))

	slot, total := eng.CurrentSlot(), eng.TotalProduced()
	before := eng.History()

	// ___+___ after four rule 30 steps, so neighborhood 1 is needed.
	eng.rule[1] = 2
	err = eng.Advance()
	require.Error(t, err)
	assert.True(t, IsOutOfRange(err))

	assert.Equal(t, slot, eng.CurrentSlot())
	assert.Equal(t, total, eng.TotalProduced())
	assert.Equal(t, before, eng.History())
}

func TestDeriveNilSource(t *testing.T) {
	eng, err := Derive(nil, false)
	assert.Nil(t, eng)
	assert.True(t, IsInvalidGeneration(err))

	_, err = Derive(&Engine{}, true)
	assert.True(t, IsInvalidGeneration(err))
}

func TestDeriveSeedFromEnd(t *testing.T) {
	src, err := New(toyConfig(7, 4, 30, 3))
	require.NoError(t, err)
	require.NoError(t, src.Steps(2))

	d, err := Derive(src, true)
	require.NoError(t, err)
	assert.Equal(t, 0, d.CurrentSlot())
	assert.Equal(t, 0, d.TotalProduced())
	assert.Equal(t, 4, d.Capacity())
	assert.Equal(t, row("_++__+_"), d.Current())

	_, err = d.GenerationAt(1)
	assert.True(t, IsOutOfRange(err))

	require.NoError(t, d.Advance())
	assert.Equal(t, row("++_++++"), d.Current())
}

func TestParameters(t *testing.T) {
	eng, err := New(toyConfig(7, 4, 30, 3))
	require.NoError(t, err)
	require.NoError(t, eng.Steps(6))

	params := eng.Parameters()
	for key, want := range map[string]string{
		"rule":           "30",
		"w":              "7",
		"gens":           "4",
		"current_slot":   "2",
		"total_produced": "6",
		"seed":           "single",
		"pos":            "3",
	} {
		p, ok := params.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, want, p.Value, key)
	}
}
