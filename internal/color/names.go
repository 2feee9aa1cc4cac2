package color

// Named is the CSS-level color palette (plus a handful of document-editing
// supplements pdfo's own macros reference) keyed by upper-case name, the Go
// rendering of the name→RGB table orig/src/color.py's Color.from_str looks
// up before falling through to hex/CMYK parsing.
var Named = map[string]Color{
	"BLACK":   Opaque(0, 0, 0),
	"WHITE":   Opaque(255, 255, 255),
	"RED":     Opaque(255, 0, 0),
	"GREEN":   Opaque(0, 128, 0),
	"BLUE":    Opaque(0, 0, 255),
	"YELLOW":  Opaque(255, 255, 0),
	"CYAN":    Opaque(0, 255, 255),
	"MAGENTA": Opaque(255, 0, 255),
	"ORANGE":  Opaque(255, 165, 0),
	"PURPLE":  Opaque(128, 0, 128),
	"PINK":    Opaque(255, 192, 203),
	"BROWN":   Opaque(165, 42, 42),
	"GRAY":    Opaque(128, 128, 128),
	"GREY":    Opaque(128, 128, 128),
	"SILVER":  Opaque(192, 192, 192),
	"GOLD":    Opaque(255, 215, 0),
	"NAVY":    Opaque(0, 0, 128),
	"TEAL":    Opaque(0, 128, 128),
	"OLIVE":   Opaque(128, 128, 0),
	"MAROON":  Opaque(128, 0, 0),
	"LIME":    Opaque(0, 255, 0),
	"INDIGO":  Opaque(75, 0, 130),
	"VIOLET":  Opaque(238, 130, 238),
	"CORAL":   Opaque(255, 127, 80),
	"SALMON":  Opaque(250, 128, 114),
	"KHAKI":   Opaque(240, 230, 140),
	"BEIGE":   Opaque(245, 245, 220),
	"IVORY":   Opaque(255, 255, 240),
	"CRIMSON": Opaque(220, 20, 60),
	"TRANSPARENT": {R: 0, G: 0, B: 0, A: 0},

	// Supplementary colors the teacher's code-block highlighter uses for
	// syntax categories (processor.go's processCodeblock token-kind
	// palette), given names so macro bodies can reference them by name
	// too.
	"SYNTAX_KEYWORD":  Opaque(42, 170, 138),
	"SYNTAX_STRING":   Opaque(137, 207, 240),
	"SYNTAX_COMMENT":  Opaque(130, 130, 130),
	"SYNTAX_NUMBER":   Opaque(255, 165, 0),
	"SYNTAX_FUNCTION": Opaque(0, 136, 163),
	"SYNTAX_OPERATOR": Opaque(255, 0, 255),
	"SYNTAX_ERROR":    Opaque(255, 80, 80),
	"SYNTAX_BUILTIN":  Opaque(82, 204, 0),
}
