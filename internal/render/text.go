package render

import (
	"fmt"
	"io"
	"strings"

	"ring-ca/internal/sims/elementary"
)

// Characters used for off and on cells in text output.
const (
	OffChar = '_'
	OnChar  = '+'
)

// FormatGeneration renders one character per cell.
func FormatGeneration(g elementary.Generation) string {
	var b strings.Builder
	b.Grow(len(g))
	for _, c := range g {
		if c == 0 {
			b.WriteByte(OffChar)
		} else {
			b.WriteByte(OnChar)
		}
	}
	return b.String()
}

// ParseGeneration is the inverse of FormatGeneration.
func ParseGeneration(s string) (elementary.Generation, error) {
	g := make(elementary.Generation, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case OffChar:
		case OnChar:
			g[i] = 1
		default:
			return nil, fmt.Errorf("parse generation: unexpected %q at %d", s[i], i)
		}
	}
	return g, nil
}

// Buffer is the read surface WriteBuffer needs from an engine.
type Buffer interface {
	Capacity() int
	GenerationAt(index int) (elementary.Generation, error)
}

// WriteBuffer writes every written slot of b in slot order as
// "<slot> <cells>" lines. Slots past the written range are skipped.
func WriteBuffer(w io.Writer, b Buffer) error {
	for i := 0; i < b.Capacity(); i++ {
		g, err := b.GenerationAt(i)
		if elementary.IsOutOfRange(err) {
			break
		}
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%d %s\n", i, FormatGeneration(g)); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistory writes generations oldest first, each line prefixed with its
// generation number counted from first.
func WriteHistory(w io.Writer, gens []elementary.Generation, first int) error {
	for i, g := range gens {
		if _, err := fmt.Fprintf(w, "%d %s\n", first+i, FormatGeneration(g)); err != nil {
			return err
		}
	}
	return nil
}
