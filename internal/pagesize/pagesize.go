// Package pagesize provides the named paper-size table and
// landscape/portrait normalization pdfo's page template reads from
// (spec.md §6, "built-in constants"). Grounded verbatim on
// orig/src/constants.py's PAGE_SIZES_DICT and its landscape/portrait
// helpers.
package pagesize

import "github.com/pdfo-lang/pdfo/internal/units"

// Size is a page's (width, height) in points, always stored as given — use
// Landscape/Portrait to normalize orientation.
type Size struct {
	Width, Height float64
}

// Named holds every paper size from
// https://en.wikipedia.org/wiki/Paper_size that orig/src/constants.py
// carries, keyed by its upper-case name.
var Named = map[string]Size{
	"LETTER":          {8.5 * units.Inch, 11 * units.Inch},
	"LEGAL":           {8.5 * units.Inch, 14 * units.Inch},
	"ELEVENSEVENTEEN": {11 * units.Inch, 17 * units.Inch},
	"JUNIOR_LEGAL":    {5 * units.Inch, 8 * units.Inch},
	"HALF_LETTER":     {5.5 * units.Inch, 8 * units.Inch},
	"GOV_LETTER":      {8 * units.Inch, 10.5 * units.Inch},
	"GOV_LEGAL":       {8.5 * units.Inch, 13 * units.Inch},
	"TABLOID":         {11 * units.Inch, 17 * units.Inch},
	"LEDGER":          {17 * units.Inch, 11 * units.Inch},

	"A0": {841 * units.MM, 1189 * units.MM},
	"A1": {594 * units.MM, 841 * units.MM},
	"A2": {420 * units.MM, 594 * units.MM},
	"A3": {297 * units.MM, 420 * units.MM},
	"A4": {210 * units.MM, 297 * units.MM},
	"A5": {148 * units.MM, 210 * units.MM},
	"A6": {105 * units.MM, 148 * units.MM},
	"A7": {74 * units.MM, 105 * units.MM},
	"A8": {52 * units.MM, 74 * units.MM},

	"B0": {1000 * units.MM, 1414 * units.MM},
	"B1": {707 * units.MM, 1000 * units.MM},
	"B2": {500 * units.MM, 707 * units.MM},
	"B3": {353 * units.MM, 500 * units.MM},
	"B4": {250 * units.MM, 353 * units.MM},
	"B5": {176 * units.MM, 250 * units.MM},

	"C0": {917 * units.MM, 1297 * units.MM},
	"C1": {648 * units.MM, 917 * units.MM},
	"C2": {458 * units.MM, 648 * units.MM},
	"C3": {324 * units.MM, 458 * units.MM},
	"C4": {229 * units.MM, 324 * units.MM},
	"C5": {162 * units.MM, 229 * units.MM},
}

// Lookup resolves a page-size name case-insensitively.
func Lookup(name string) (Size, bool) {
	s, ok := Named[upper(name)]
	return s, ok
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// Landscape returns s with width >= height, swapping if necessary.
func (s Size) Landscape() Size {
	if s.Width < s.Height {
		return Size{s.Height, s.Width}
	}
	return s
}

// Portrait returns s with height >= width, swapping if necessary.
func (s Size) Portrait() Size {
	if s.Width >= s.Height {
		return Size{s.Height, s.Width}
	}
	return s
}
