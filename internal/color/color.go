// Package color implements the RGBA color record and named-color lookup
// pdfo's style records use (spec.md §3, TextInfo's font/highlight color
// fields). Grounded on orig/src/color.py's Color class (red/green/blue
// 0-255 plus alpha, hex/CMYK parsing, a named-color table) and wired to
// codeberg.org/go-pdf/fpdf's SetTextColor/SetFillColor signature (plain int
// RGB triples), the same collaborator the teacher drives in
// processCodeblock.
package color

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGBA value.
type Color struct {
	R, G, B, A uint8
}

// Opaque builds a Color with full alpha.
func Opaque(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// RGB returns the values codeberg.org/go-pdf/fpdf's SetTextColor/
// SetFillColor expect.
func (c Color) RGB() (int, int, int) { return int(c.R), int(c.G), int(c.B) }

// FromHex parses a "#RRGGBB" or "#RRGGBBAA" (leading '#' or "0x" optional)
// string into a Color.
func FromHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("%q is not a valid hex color", s)
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case 8:
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return Color{}, fmt.Errorf("%q is not a valid hex color", s)
		}
		return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	default:
		return Color{}, fmt.Errorf("%q is not 6 or 8 hex digits", s)
	}
}

// FromCMYK converts a (c, m, y, k) tuple, each 0-100, to an opaque Color.
func FromCMYK(c, m, y, k float64) Color {
	black := (100 - k) / 100
	r := 255 * ((100 - c) / 100) * black
	g := 255 * ((100 - m) / 100) * black
	b := 255 * ((100 - y) / 100) * black
	return Opaque(uint8(r), uint8(g), uint8(b))
}

// ToCMYK converts back to a (c, m, y, k) tuple in the 0-1 range.
func (c Color) ToCMYK() (cc, m, y, k float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	k = 1 - max
	if k >= 1 {
		return 0, 0, 0, 1
	}
	cc = (1 - r - k) / (1 - k)
	m = (1 - g - k) / (1 - k)
	y = (1 - b - k) / (1 - k)
	return
}

// Parse resolves a color from a named color, a "#RRGGBB"/"#RRGGBBAA" hex
// string, or an "r,g,b[,a]" tuple string, matching
// orig/src/color.py: Color.from_str's fallback chain.
func Parse(s string) (Color, error) {
	c, ok := ParseOrFalse(s)
	if !ok {
		return Color{}, fmt.Errorf("%q could not be parsed as a color", s)
	}
	return c, nil
}

// ParseOrFalse is the "or_false" variant orig/src/color.py's
// Color.from_str(false_on_fail=True) provides: ok is false rather than an
// error when s cannot be parsed, so callers (e.g. optional style
// attributes) can cheaply fall back to "inherit".
func ParseOrFalse(s string) (Color, bool) {
	trimmed := strings.TrimSpace(s)
	if named, ok := Named[strings.ToUpper(trimmed)]; ok {
		return named, true
	}
	if strings.Contains(trimmed, ",") {
		parts := strings.Split(trimmed, ",")
		if len(parts) == 3 || len(parts) == 4 {
			vals := make([]int, len(parts))
			ok := true
			for i, p := range parts {
				v, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil || v < 0 || v > 255 {
					ok = false
					break
				}
				vals[i] = v
			}
			if ok {
				a := 255
				if len(vals) == 4 {
					a = vals[3]
				}
				return Color{R: uint8(vals[0]), G: uint8(vals[1]), B: uint8(vals[2]), A: uint8(a)}, true
			}
		}
	}
	if c, err := FromHex(trimmed); err == nil {
		return c, true
	}
	return Color{}, false
}
