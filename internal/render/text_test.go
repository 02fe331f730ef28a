package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ring-ca/internal/core"
	"ring-ca/internal/sims/elementary"
)

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func engine(t *testing.T, rule, width, gens, pos int) *elementary.Engine {
	t.Helper()
	cfg := elementary.DefaultConfig()
	cfg.Rule = rule
	cfg.Width = width
	cfg.Generations = gens
	cfg.SeedPosition = pos
	eng, err := elementary.New(cfg)
	require.NoError(t, err)
	return eng
}

func TestFormatGeneration(t *testing.T) {
	assert.Equal(t, "___+___", FormatGeneration(elementary.Generation{0, 0, 0, 1, 0, 0, 0}))
	assert.Equal(t, "", FormatGeneration(nil))
}

func TestParseGenerationRoundTrip(t *testing.T) {
	rng := core.NewRNG(5).Source()
	for i := 0; i < 50; i++ {
		g := make(elementary.Generation, rng.IntN(200))
		core.FillBinary(rng, g)

		s := FormatGeneration(g)
		require.Len(t, s, len(g))
		back, err := ParseGeneration(s)
		require.NoError(t, err)
		require.True(t, g.Equal(back), "round trip of %q", s)
	}
}

func TestParseGenerationRejectsUnknownChars(t *testing.T) {
	_, err := ParseGeneration("__+x_")
	assert.Error(t, err)
}

func TestWriteBufferFilled(t *testing.T) {
	eng := engine(t, 90, 15, 8, 7)
	require.NoError(t, eng.FillToCapacity())

	var buf bytes.Buffer
	require.NoError(t, WriteBuffer(&buf, eng))
	newGolden(t).Assert(t, "rule90_buffer", buf.Bytes())
}

func TestWriteBufferWrapped(t *testing.T) {
	eng := engine(t, 30, 9, 5, 4)
	require.NoError(t, eng.Steps(7))

	var buf bytes.Buffer
	require.NoError(t, WriteBuffer(&buf, eng))
	newGolden(t).Assert(t, "rule30_wrapped_buffer", buf.Bytes())

	buf.Reset()
	first := eng.TotalProduced() - eng.Capacity() + 1
	require.NoError(t, WriteHistory(&buf, eng.History(), first))
	newGolden(t).Assert(t, "rule30_wrapped_history", buf.Bytes())
}

func TestWriteBufferPartial(t *testing.T) {
	eng := engine(t, 30, 7, 10, 3)
	require.NoError(t, eng.Steps(2))

	var buf bytes.Buffer
	require.NoError(t, WriteBuffer(&buf, eng))
	assert.Equal(t, "0 ___+___\n1 __+++__\n2 _++__+_\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteBufferPropagatesWriteErrors(t *testing.T) {
	eng := engine(t, 30, 7, 2, 3)
	assert.Error(t, WriteBuffer(failingWriter{}, eng))
}
