package drawing

import (
	"maps"
	"slices"
	"strings"
)

// ColorTable maps canonical color names to indexed drawing colors.
type ColorTable map[string]int

// DefaultColorTable returns the fixed name to index mapping.
func DefaultColorTable() ColorTable {
	return ColorTable{
		"black":   0,
		"red":     1,
		"yellow":  2,
		"green":   3,
		"cyan":    4,
		"blue":    5,
		"magenta": 6,
		"white":   7,
		"gray":    8,
		"grey":    8,
	}
}

// With returns a copy of the table with overrides merged over it.
func (t ColorTable) With(overrides map[string]int) ColorTable {
	out := maps.Clone(t)
	if out == nil {
		out = ColorTable{}
	}
	for name, idx := range overrides {
		out[strings.ToLower(name)] = idx
	}
	return out
}

// Lookup resolves a color name case-insensitively.
func (t ColorTable) Lookup(name string) (int, bool) {
	idx, ok := t[strings.ToLower(strings.TrimSpace(name))]
	return idx, ok
}

// Names returns the table's color names sorted.
func (t ColorTable) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// NameOf returns the first name (alphabetically) mapped to idx, or "".
func (t ColorTable) NameOf(idx int) string {
	for _, name := range t.Names() {
		if t[name] == idx {
			return name
		}
	}
	return ""
}

// ValidLineweights are the lineweights (hundredths of a millimetre) drafting applications accept.
var ValidLineweights = []int{
	0, 5, 9, 13, 15, 18, 20, 25, 30, 35, 40, 50, 53, 60,
	70, 80, 90, 100, 106, 120, 140, 158, 200, 211,
}

// IsValidLineweight reports whether lw is one of ValidLineweights.
func IsValidLineweight(lw int) bool {
	return slices.Contains(ValidLineweights, lw)
}
