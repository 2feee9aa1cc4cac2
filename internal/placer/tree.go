package placer

import (
	"github.com/pdfo-lang/pdfo/internal/geom"
	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/style"
)

// WordDims is a measured word's width/height, cached once (with and without
// its trailing space) so line-breaking never re-measures the same word
// twice (spec.md §3's PdfWord: "dims_with_space, dims_without_space").
type WordDims struct {
	Width, Height float64
}

// PdfWord is one placed word (spec.md §3, "PdfWord"). Offset is relative to
// its owning PdfParagraphLine's Inner.Origin.
type PdfWord struct {
	Text           string
	WithSpace      WordDims
	WithoutSpace   WordDims
	SpaceBefore    bool
	SpaceAfter     bool
	Offset         geom.Point
	Style          style.Info
}

// PdfParagraphLine is one placed line of words (spec.md §3,
// "PdfParagraphLine"). Inner is the line's rectangle within its column;
// Width/Height cache the line's content extent once closed.
type PdfParagraphLine struct {
	Inner     geom.Rect
	Words     []PdfWord
	Alignment style.Alignment
	Width     float64
	Height    float64
}

// LineRef is a non-owning pointer to one physically-owned line: the
// Page/Column/Line triple addresses PdfDocument.Pages[Page].
// Columns[Column].Lines[Line]. spec.md §9 requires back-references in the
// placed tree to be non-owning; an index triple (rather than a pointer) is
// the systems-language rendering of that rule, grounded on
// src/placer/computed_info.py's line objects carrying a plain reference
// back to their owning paragraph without the paragraph owning them in turn.
type LineRef struct {
	Page, Column, Line int
}

// PdfParagraph is a column-spanning logical grouping of lines (spec.md §3,
// "PdfParagraph"). It does not own its PdfParagraphLine values — those are
// owned by the PdfColumn each line was placed into — only the LineRef
// indices addressing them, in placement order, which is what the
// end-callback walk and the "last line of a justified paragraph" rule
// iterate over.
type PdfParagraph struct {
	Lines     []LineRef
	Alignment style.Alignment
}

// PdfColumn is a rectangular subdivision of a page (spec.md §3,
// "PdfColumn"). It owns every PdfParagraphLine placed into it; Owning
// parallels Lines 1:1, giving each line's paragraph index within
// PdfDocument.Paragraphs — the "owning_paragraphs" back-reference spec.md
// names, kept as a plain int rather than a pointer.
type PdfColumn struct {
	Inner      geom.Rect
	HeightUsed float64
	Lines      []PdfParagraphLine
	Owning     []int
}

// PdfPage is one page of the document (spec.md §3, "PdfPage"). ColumnRects
// is the page's column grid in fill order (spec.md §4.6's "filling order is
// top-to-bottom within a column then left-to-right across columns, unless
// fill_rows_first is set"); Columns parallels it 1:1 once content is
// placed.
type PdfPage struct {
	Size                                   pagesize.Size
	MarginLeft, MarginTop, MarginRight, MarginBottom float64
	Rows, Cols                             int
	FillRowsFirst                          bool
	ColumnRects                            []geom.Rect
	Columns                                []PdfColumn
}

// CanvasHook lets a placed component bypass word-by-word placement and draw
// directly against the page surface at drawing time — the seam a \code
// verbatim block uses (internal/placer/verbatim.go) instead of flowing
// through PdfWord/PdfParagraphLine at all. Grounded on spec.md §3's
// "PdfDocument { ..., canvas-apply hooks, ... }".
type CanvasHook struct {
	PageIndex, ColumnIndex int
	// Y is the hook's vertical offset within the column's inner rectangle,
	// in column-local coordinates, advanced exactly like a line's height
	// would be so later lines in the same column start below it.
	Y      float64
	Height float64
	Draw   func(Surface, geom.Rect)
}

// Surface is the subset of the external PDF-drawing collaborator
// (spec.md §4.7) a CanvasHook needs: setting a font/color and drawing text
// at an anchor. internal/draw.Canvas implements it.
type Surface interface {
	SetFont(family string, bold, italic bool, size float64)
	SetTextColor(r, g, b uint8)
	SetFillColor(r, g, b uint8)
	Text(x, y float64, s string)
	StringWidth(s string) float64
	// Line and FillRect back the underline/strikethrough/highlight style
	// fields (spec.md §3's TextInfo): a thin ruled line and a filled
	// rectangle, the same two primitives
	// aleksadvaisly-md2pdf/processor.go's processHorizontalRule draws a
	// rule with (MoveTo/LineTo/DrawPath).
	Line(x1, y1, x2, y2, width float64)
	FillRect(x, y, w, h float64)
}

// EndCallback runs once, bottom-up, after every token has been placed
// (spec.md §4.6, "End-callbacks"). ApplyEndCallbacks calls it with
// paragraphIndex -1, so it reaches whatever it changes through doc; the
// built-in "last line of a justified paragraph realigns left" step runs
// before any EndCallback.
type EndCallback func(doc *PdfDocument, paragraphIndex int)

// PdfDocument is the root of the placed tree (spec.md §3, "PdfDocument").
type PdfDocument struct {
	Pages       []PdfPage
	Paragraphs  []PdfParagraph
	CanvasHooks []CanvasHook
	EndCallbacks []EndCallback
}

// Line dereferences a LineRef against this document's owning column.
func (d *PdfDocument) Line(ref LineRef) *PdfParagraphLine {
	return &d.Pages[ref.Page].Columns[ref.Column].Lines[ref.Line]
}
