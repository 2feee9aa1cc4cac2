package draw

import (
	"bytes"

	"codeberg.org/go-pdf/fpdf"

	"github.com/pdfo-lang/pdfo/internal/placer"
	"github.com/pdfo-lang/pdfo/internal/style"
)

// drawable is one thing that paints into a column, in column-local Y
// order — either a placed line of words or a verbatim CanvasHook. Both
// internal/placer/naive.go's closeLine and placeVerbatim advance a
// column's HeightUsed monotonically as they append to PdfColumn.Lines and
// PdfDocument.CanvasHooks respectively, so merging the two sequences by Y
// reproduces the order they were placed in without the placer itself
// having to interleave them into one slice (spec.md §5: "Output order is a
// deterministic function of input bytes").
type drawable struct {
	y    float64
	line *placer.PdfParagraphLine
	hook *placer.CanvasHook
}

// Render serializes doc to a complete PDF file's bytes — spec.md §4.7's
// Drawing collaborator contract: begin a page, set font/color, draw text
// at an anchor, end the page, once per page/column/line/word in the placed
// tree. Grounded on aleksadvaisly-md2pdf/processor.go's Renderer driving
// r.Pdf page-by-page, node-by-node.
func (c *Canvas) Render(doc *placer.PdfDocument) ([]byte, error) {
	for pageIdx := range doc.Pages {
		c.renderPage(doc, pageIdx)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Canvas) renderPage(doc *placer.PdfDocument, pageIdx int) {
	pg := &doc.Pages[pageIdx]
	orientation := "P"
	if pg.Size.Width > pg.Size.Height {
		orientation = "L"
	}
	c.pdf.AddPageFormat(orientation, fpdf.SizeType{Wd: pg.Size.Width, Ht: pg.Size.Height})

	for colIdx := range pg.Columns {
		c.renderColumn(doc, pageIdx, colIdx)
	}
}

func (c *Canvas) renderColumn(doc *placer.PdfDocument, pageIdx, colIdx int) {
	col := &doc.Pages[pageIdx].Columns[colIdx]

	items := make([]drawable, 0, len(col.Lines))
	for i := range col.Lines {
		ln := &col.Lines[i]
		items = append(items, drawable{y: ln.Inner.Top() - col.Inner.Top(), line: ln})
	}
	for i := range doc.CanvasHooks {
		h := &doc.CanvasHooks[i]
		if h.PageIndex == pageIdx && h.ColumnIndex == colIdx {
			items = append(items, drawable{y: h.Y, hook: h})
		}
	}
	// Both source sequences are individually Y-monotonic; a stable
	// insertion sort merges them in O(n) amortized without pulling in
	// sort.Slice for what is, per column, typically a handful of entries.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].y < items[j-1].y; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}

	for _, it := range items {
		if it.line != nil {
			c.renderLine(it.line)
		} else {
			it.hook.Draw(c, col.Inner)
		}
	}
}

func (c *Canvas) renderLine(line *placer.PdfParagraphLine) {
	for i := range line.Words {
		c.renderWord(line, &line.Words[i])
	}
}

func (c *Canvas) renderWord(line *placer.PdfParagraphLine, w *placer.PdfWord) {
	font := placer.ResolveFont(w.Style, c.DefaultFamily, c.DefaultSize)
	x := line.Inner.Left() + w.Offset.X
	baseline := line.Inner.Top() + w.WithoutSpace.Height

	if w.Style.Highlight.Set {
		r, g, b := w.Style.Highlight.Value.RGB()
		c.SetFillColor(uint8(r), uint8(g), uint8(b))
		c.FillRect(x, line.Inner.Top(), w.WithoutSpace.Width, w.WithoutSpace.Height)
	}

	c.SetFont(font.Family, font.Bold, font.Italic, font.Size)
	c.applyTextColor(w.Style)
	c.Text(x, baseline, w.Text)

	if w.Style.Underline.Set && w.Style.Underline.Value != style.UnderlineNone {
		c.drawUnderline(x, baseline, w.WithoutSpace.Width, font.Size, w.Style.Underline.Value)
	}
	if w.Style.Strike.Set && w.Style.Strike.Value != style.StrikeNone {
		c.drawStrike(x, baseline, w.WithoutSpace.Width, font.Size, w.Style.Strike.Value)
	}
}

func (c *Canvas) applyTextColor(eff style.Info) {
	if eff.FontColor.Set {
		c.setColor(eff.FontColor.Value)
		return
	}
	if eff.FontGray.Set {
		g := uint8(eff.FontGray.Value * 255)
		c.SetTextColor(g, g, g)
		return
	}
	c.SetTextColor(0, 0, 0)
}

func (c *Canvas) setColor(col interface{ RGB() (int, int, int) }) {
	r, g, b := col.RGB()
	c.SetTextColor(uint8(r), uint8(g), uint8(b))
}

// drawUnderline renders every spec.md §6 UNDERLINE variant this placer
// supports drawing as one or two ruled lines beneath the baseline; the
// dotted/dashed/wave variants that fpdf has no dash-pattern primitive for
// fall back to the same plain rule as the single underline rather than
// silently drawing nothing.
func (c *Canvas) drawUnderline(x, baseline, width, size float64, u style.Underline) {
	offset := size * 0.08
	weight := size * 0.04
	switch u {
	case style.UnderlineThick:
		weight = size * 0.09
	case style.UnderlineDouble:
		c.Line(x, baseline+offset, x+width, baseline+offset, weight)
		c.Line(x, baseline+offset*2.5, x+width, baseline+offset*2.5, weight)
		return
	}
	c.Line(x, baseline+offset, x+width, baseline+offset, weight)
}

func (c *Canvas) drawStrike(x, baseline, width, size float64, s style.Strike) {
	mid := baseline - size*0.3
	weight := size * 0.04
	switch s {
	case style.StrikeDouble:
		c.Line(x, mid-weight*2, x+width, mid-weight*2, weight)
		c.Line(x, mid+weight*2, x+width, mid+weight*2, weight)
	default:
		c.Line(x, mid, x+width, mid, weight)
	}
}
