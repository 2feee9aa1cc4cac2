// Package draw implements spec.md §4.7's Drawing collaborator: serializing
// a placed tree to PDF bytes via codeberg.org/go-pdf/fpdf, the same PDF
// library aleksadvaisly-md2pdf drives directly off its *fpdf.Fpdf-valued
// r.Pdf field. Canvas owns the one *fpdf.Fpdf for a whole document and
// implements both placer.Surface (the draw-time contract) and
// placer.Measurer (the measure(string, font, size) contract spec.md §9
// names), so internal/placer never imports fpdf itself.
package draw

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/placer"
)

// FontSpec names a font file to register with the underlying surface
// before it is first used — spec.md §4.7's "Fonts not available to the
// surface are registered on first use via a font-file path that the
// collaborator knows." Family/Bold/Italic select which of a family's four
// faces (regular/B/I/BI) the path supplies; Unicode is true for TTF/OTF
// faces that need AddUTF8Font rather than the builtin core-14 fonts.
type FontSpec struct {
	Family          string
	Bold, Italic    bool
	Path            string
	Unicode         bool
}

// Canvas wraps one *fpdf.Fpdf for the lifetime of a single document,
// tracking which (family, bold, italic) faces have already been
// registered so a repeated SetFont for the same face is a no-op past the
// first AddUTF8Font call, matching the teacher's own font setup which
// configures each face once up front rather than per word.
type Canvas struct {
	pdf       *fpdf.Fpdf
	fonts     map[FontSpec]bool
	available map[fontKey]FontSpec

	curFamily       string
	curBold, curItalic bool
	curSize         float64

	DefaultFamily string
	DefaultSize   float64
}

type fontKey struct {
	Family       string
	Bold, Italic bool
}

// NewCanvas builds a Canvas for a document whose first page is sized/
// oriented per defaultSize, in points (fpdf's own "pt" unit, so no
// conversion is needed at this boundary — see internal/units). fontDir is
// passed straight to fpdf.NewCustom as its FontDirStr, matching
// cmd/md2pdf/md2pdf.go's own NewPdfRenderer(..., fontDir) call.
func NewCanvas(defaultSize pagesize.Size, defaultFamily string, defaultFontSize float64, fontDir string) *Canvas {
	orientation := "P"
	if defaultSize.Width > defaultSize.Height {
		orientation = "L"
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		SizeStr:        "",
		Size:           fpdf.SizeType{Wd: defaultSize.Width, Ht: defaultSize.Height},
		FontDirStr:     fontDir,
	})
	pdf.SetAutoPageBreak(false, 0)
	return &Canvas{
		pdf:           pdf,
		fonts:         map[FontSpec]bool{},
		available:     map[fontKey]FontSpec{},
		DefaultFamily: defaultFamily,
		DefaultSize:   defaultFontSize,
	}
}

// RegisterFont records a font file for later use; the actual
// AddUTF8Font/AddFont call is deferred until SetFont first selects that
// face, matching spec.md §4.7's "registered on first use" wording exactly
// (eagerly adding every configured font up front would register faces a
// document never actually uses).
func (c *Canvas) RegisterFont(spec FontSpec) {
	c.available[fontKey{spec.Family, spec.Bold, spec.Italic}] = spec
}

func styleString(bold, italic bool) string {
	s := ""
	if bold {
		s += "B"
	}
	if italic {
		s += "I"
	}
	return s
}

// SetFont implements placer.Surface. It registers the requested face with
// the underlying fpdf.Fpdf on first use (AddUTF8Font for a face
// RegisterFont named, otherwise a bare SetFont against fpdf's built-in
// core-14 fonts — Helvetica/Times/Courier and their B/I/BI variants,
// matching cmd/md2pdf/md2pdf.go's own "Arial"/"Times"/"Courier"
// --font-family choices).
func (c *Canvas) SetFont(family string, bold, italic bool, size float64) {
	key := fontKey{family, bold, italic}
	if spec, ok := c.available[key]; ok && !c.fonts[spec] {
		if spec.Unicode {
			c.pdf.AddUTF8Font(family, styleString(bold, italic), spec.Path)
		} else {
			c.pdf.AddFont(family, styleString(bold, italic), spec.Path)
		}
		c.fonts[spec] = true
	}
	c.pdf.SetFont(family, styleString(bold, italic), size)
	c.curFamily, c.curBold, c.curItalic, c.curSize = family, bold, italic, size
}

// SetTextColor implements placer.Surface.
func (c *Canvas) SetTextColor(r, g, b uint8) { c.pdf.SetTextColor(int(r), int(g), int(b)) }

// SetFillColor implements placer.Surface.
func (c *Canvas) SetFillColor(r, g, b uint8) { c.pdf.SetFillColor(int(r), int(g), int(b)) }

// Text implements placer.Surface: draws s with its baseline at (x, y).
func (c *Canvas) Text(x, y float64, s string) { c.pdf.Text(x, y, s) }

// StringWidth implements placer.Surface.
func (c *Canvas) StringWidth(s string) float64 { return c.pdf.GetStringWidth(s) }

// Line implements placer.Surface, drawing a single ruled line at the given
// width — the underline/strikethrough primitive, grounded on
// aleksadvaisly-md2pdf/processor.go's processHorizontalRule
// (MoveTo/LineTo/SetLineWidth/DrawPath).
func (c *Canvas) Line(x1, y1, x2, y2, width float64) {
	c.pdf.SetLineWidth(width)
	c.pdf.MoveTo(x1, y1)
	c.pdf.LineTo(x2, y2)
	c.pdf.DrawPath("D")
}

// FillRect implements placer.Surface, painting a solid rectangle in the
// current fill color — the highlight-color primitive.
func (c *Canvas) FillRect(x, y, w, h float64) {
	c.pdf.Rect(x, y, w, h, "F")
}

// Measure implements placer.Measurer: width/height of s set in eff,
// without mutating the surface's currently-selected font for drawing —
// the placer measures every word before any of them are drawn, so
// SetFont/GetStringWidth/FontSize round-trip through the same *fpdf.Fpdf
// the eventual Render pass reuses.
func (c *Canvas) Measure(s string, eff placer.EffectiveFont) (width, height float64) {
	savedFamily, savedBold, savedItalic, savedSize := c.curFamily, c.curBold, c.curItalic, c.curSize
	c.SetFont(eff.Family, eff.Bold, eff.Italic, eff.Size)
	width = c.pdf.GetStringWidth(s)
	height, _ = c.pdf.GetFontSize()
	if savedFamily != "" {
		c.SetFont(savedFamily, savedBold, savedItalic, savedSize)
	}
	return width, height
}

// Err returns the first error recorded by the underlying fpdf.Fpdf, if
// any — fpdf accumulates draw errors internally rather than returning them
// from each call (spec.md §7's DrawError: "I/O failure writing the
// output").
func (c *Canvas) Err() error {
	if c.pdf.Err() {
		return fmt.Errorf("%w", c.pdf.Error())
	}
	return nil
}
