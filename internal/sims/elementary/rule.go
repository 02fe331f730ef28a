package elementary

import "strings"

// NumNeighborhoods is the number of distinct 3-cell neighborhoods.
const NumNeighborhoods = 8

// MaxRule is the highest Wolfram rule code.
const MaxRule = 255

// RuleTable maps each neighborhood code (right=1, center=2, left=4) to the
// next state of the center cell.
type RuleTable [NumNeighborhoods]uint8

// NewRuleTable decodes a Wolfram rule code into its lookup table.
func NewRuleTable(code int) (RuleTable, error) {
	var t RuleTable
	if code < 0 || code > MaxRule {
		return t, newError(KindOutOfRange, "rule", "code %d outside [0,%d]", code, MaxRule)
	}
	for y := NumNeighborhoods - 1; y >= 0; y-- {
		digit := code / (1 << y)
		code -= digit * (1 << y)
		if digit != 0 {
			t[y] = 1
		}
	}
	return t, nil
}

// Lookup returns the output for a neighborhood code in [0,7].
func (t RuleTable) Lookup(neighborhood int) (uint8, error) {
	if neighborhood < 0 || neighborhood >= NumNeighborhoods {
		return 0, newError(KindOutOfRange, "lookup", "neighborhood %d outside [0,%d]", neighborhood, NumNeighborhoods-1)
	}
	out := t[neighborhood]
	if out > 1 {
		return 0, newError(KindOutOfRange, "lookup", "output %d for neighborhood %d", out, neighborhood)
	}
	return out, nil
}

// Code re-encodes the table as its rule number.
func (t RuleTable) Code() int {
	code := 0
	for i, v := range t {
		if v != 0 {
			code |= 1 << i
		}
	}
	return code
}

// String renders the table in the usual "111 110 ... 000" order, one
// "pattern:output" pair per neighborhood.
func (t RuleTable) String() string {
	var b strings.Builder
	for n := NumNeighborhoods - 1; n >= 0; n-- {
		if n != NumNeighborhoods-1 {
			b.WriteByte(' ')
		}
		for bit := 2; bit >= 0; bit-- {
			b.WriteByte('0' + byte((n>>bit)&1))
		}
		b.WriteByte(':')
		b.WriteByte('0' + t[n])
	}
	return b.String()
}
