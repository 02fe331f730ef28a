package elementary

import "slices"

// Generation is one row of binary cells.
type Generation []uint8

// Clone returns an independent copy of g.
func (g Generation) Clone() Generation {
	if g == nil {
		return nil
	}
	return slices.Clone(g)
}

// Equal reports whether both generations hold the same cells.
func (g Generation) Equal(o Generation) bool { return slices.Equal(g, o) }

// Live counts the cells that are on.
func (g Generation) Live() int {
	n := 0
	for _, c := range g {
		if c != 0 {
			n++
		}
	}
	return n
}
