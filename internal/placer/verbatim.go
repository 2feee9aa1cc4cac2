package placer

import (
	"os"
	"strings"

	highlight "github.com/jessp01/gohighlight"
	wordwrap "github.com/mitchellh/go-wordwrap"

	"github.com/pdfo-lang/pdfo/internal/color"
	"github.com/pdfo-lang/pdfo/internal/geom"
)

// VerbatimRenderer resolves a \code{lang}{...} block's syntax definition and
// turns it into coloured lines a CanvasHook can draw directly. Grounded on
// aleksadvaisly-md2pdf/processor.go's codeBlock: one os.ReadFile of a
// "<lang>.yaml" syntax file under a configured directory, ParseDef/
// NewHighlighter/HighlightString to get per-character highlight groups, and
// mitchellh/go-wordwrap's fixed-column WrapString applied before
// highlighting runs (so a wrap point never splits a match). A missing or
// unrecognised language falls back to the teacher's own
// outputUnhighlightedCodeBlock behavior: the wrapped text in DefaultColor.
type VerbatimRenderer struct {
	SyntaxDir    string
	WrapCols     uint
	DefaultColor color.Color
	Palette      map[highlight.Group]color.Color
}

type verbatimLine struct {
	runs []verbatimRun
}

type verbatimRun struct {
	text  string
	color color.Color
}

func (vr VerbatimRenderer) render(lang, text string) []verbatimLine {
	wrapped := wordwrap.WrapString(text, vr.wrapCols())
	lines := strings.Split(wrapped, "\n")

	if lang == "" || vr.SyntaxDir == "" {
		return plainVerbatimLines(lines, vr.DefaultColor)
	}
	raw, err := os.ReadFile(vr.SyntaxDir + "/" + lang + ".yaml")
	if err != nil {
		return plainVerbatimLines(lines, vr.DefaultColor)
	}
	def, err := highlight.ParseDef(raw)
	if err != nil {
		return plainVerbatimLines(lines, vr.DefaultColor)
	}
	h := highlight.NewHighlighter(def)
	matches := h.HighlightString(wrapped)

	out := make([]verbatimLine, len(lines))
	for i, l := range lines {
		var runs []verbatimRun
		col := 0
		for _, c := range l {
			cl := vr.DefaultColor
			if group, ok := matches[i][col]; ok {
				if mapped, ok := vr.Palette[group]; ok {
					cl = mapped
				}
			}
			if n := len(runs); n > 0 && runs[n-1].color == cl {
				runs[n-1].text += string(c)
			} else {
				runs = append(runs, verbatimRun{text: string(c), color: cl})
			}
			col++
		}
		out[i] = verbatimLine{runs: runs}
	}
	return out
}

func (vr VerbatimRenderer) wrapCols() uint {
	if vr.WrapCols > 0 {
		return vr.WrapCols
	}
	return 90
}

func plainVerbatimLines(lines []string, c color.Color) []verbatimLine {
	out := make([]verbatimLine, len(lines))
	for i, l := range lines {
		if l == "" {
			continue
		}
		out[i] = verbatimLine{runs: []verbatimRun{{text: l, color: c}}}
	}
	return out
}

// DefaultPalette maps gohighlight's generic colour-named groups to RGB,
// matching the switch in aleksadvaisly-md2pdf/processor.go's codeBlock
// (green/blue/red/cyan/magenta/yellow plus the semantic aliases that
// fall through to them).
func DefaultPalette() map[highlight.Group]color.Color {
	p := map[highlight.Group]color.Color{}
	set := func(rgb color.Color, names ...string) {
		for _, n := range names {
			if g, ok := highlight.Groups[n]; ok {
				p[g] = rgb
			}
		}
	}
	set(color.Opaque(42, 170, 138), "statement", "green")
	set(color.Opaque(137, 207, 240), "identifier", "blue")
	set(color.Opaque(255, 80, 80), "preproc", "special", "type.keyword", "red")
	set(color.Opaque(0, 136, 163), "constant", "constant.number", "constant.bool", "symbol.brackets", "identifier.var", "cyan")
	set(color.Opaque(255, 0, 255), "constant.specialChar", "constant.string.url", "constant.string", "magenta")
	set(color.Opaque(255, 165, 0), "type", "symbol.operator", "symbol.tag.extended", "yellow")
	set(color.Opaque(82, 204, 0), "comment", "high.green")
	return p
}

// drawVerbatimLine builds the CanvasHook.Draw closure for one rendered
// verbatim line: set the monospace font once, then walk its coloured runs
// left to right.
func drawVerbatimLine(font EffectiveFont, ln verbatimLine, lineHeight float64) func(Surface, geom.Rect) {
	return func(s Surface, rect geom.Rect) {
		s.SetFont(font.Family, font.Bold, font.Italic, font.Size)
		x := rect.Left()
		baseline := rect.Top() + lineHeight
		for _, r := range ln.runs {
			s.SetTextColor(r.color.R, r.color.G, r.color.B)
			s.Text(x, baseline, r.text)
			x += s.StringWidth(r.text)
		}
	}
}
