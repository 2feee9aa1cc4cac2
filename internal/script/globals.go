package script

import (
	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/style"
	"github.com/pdfo-lang/pdfo/internal/units"
)

// Constants returns the built-in names spec.md §6 requires scripts be able
// to see without any explicit import: the unit constants, the enumeration
// tables (ALIGNMENT/UNDERLINE/STRIKE_THROUGH), and every named page size.
// Grounded on orig/src/constants.py's module-level UNIT/TT/PAGE_SIZES_DICT
// globals, which orig/src/compiler.py seeds every fresh script
// globals dict with before a file's own code ever runs.
//
// Enumeration members are exposed as nested maps (ALIGNMENT.left, not a
// bare LEFT global) because that is how orig/src/constants.py's ALIGNMENT
// class groups them; internal/script's member-access expression already
// resolves map[string]any fields, so no new Value kind is needed. Page
// sizes are exposed as a {width, height} map for the same reason — the
// language has no tuple/array literal, and a map is the one aggregate
// Value it already supports.
func Constants() map[string]any {
	out := map[string]any{
		"INCH": units.Inch,
		"CM":   units.CM,
		"MM":   units.MM,
		"PICA": units.Pica,

		"ALIGNMENT": map[string]any{
			"left":    int64(style.Left),
			"center":  int64(style.Center),
			"right":   int64(style.Right),
			"justify": int64(style.Justify),
		},
		"UNDERLINE": map[string]any{
			"none":              int64(style.UnderlineNone),
			"single":            int64(style.UnderlineSingle),
			"double":            int64(style.UnderlineDouble),
			"thick":             int64(style.UnderlineThick),
			"wave":              int64(style.UnderlineWave),
			"dotted":            int64(style.UnderlineDotted),
			"dashed":            int64(style.UnderlineDashed),
			"dot_dashed":        int64(style.UnderlineDotDashed),
			"dot_dot_dashed":    int64(style.UnderlineDotDotDashed),
		},
		"STRIKE_THROUGH": map[string]any{
			"none":   int64(style.StrikeNone),
			"single": int64(style.StrikeSingle),
			"double": int64(style.StrikeDouble),
		},
	}
	for name, sz := range pagesize.Named {
		out[name] = map[string]any{"width": sz.Width, "height": sz.Height}
	}
	return out
}

// DefaultGlobals merges Constants with Builtins into one map suitable as a
// fresh Context's script globals — the one seed every root/imported file
// starts from (spec.md §4.5: "run the file once in a fresh context",
// spec.md §6: "Built-in constants available to scripts").
func DefaultGlobals() map[string]any {
	out := Constants()
	for name, fn := range Builtins() {
		out[name] = fn
	}
	return out
}
