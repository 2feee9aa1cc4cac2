package placer

import (
	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/style"
)

// PageGeometry is the per-page shape a Page-level Template selects: paper
// size, margins, and the column grid (spec.md §3's PdfPage fields, minus
// the content that is only known once placement runs).
type PageGeometry struct {
	Size                                             pagesize.Size
	MarginLeft, MarginTop, MarginRight, MarginBottom float64
	Rows, Cols                                       int
	FillRowsFirst                                    bool
	Style                                             style.Info
}

// Hierarchy is the five-level (plus Document) template stack spec.md §4.6
// names: Document → Page → Column → Paragraph → ParagraphLine → Word. Page
// additionally carries geometry; every other level only selects a style
// delta to merge into the cascade.
//
// The reset wiring is the one piece of structure spec.md calls out
// explicitly: advancing Document resets Page and Column, advancing Page
// resets Column, advancing Paragraph resets Line and Word, but advancing
// Column does *not* reset Paragraph, and neither does a Page or Document
// advance — a paragraph may span a column break without restarting its own
// template state.
type Hierarchy struct {
	Document  *Template[style.Info]
	Page      *Template[PageGeometry]
	Column    *Template[style.Info]
	Paragraph *Template[style.Info]
	Line      *Template[style.Info]
	Word      *Template[style.Info]
}

// NewHierarchy builds a Hierarchy whose Page level defaults to defPage and
// every style level defaults to an empty (all-inherit) style.Info.
func NewHierarchy(defPage PageGeometry) *Hierarchy {
	h := &Hierarchy{
		Document:  NewTemplate(style.Info{}),
		Page:      NewTemplate(defPage),
		Column:    NewTemplate(style.Info{}),
		Paragraph: NewTemplate(style.Info{}),
		Line:      NewTemplate(style.Info{}),
		Word:      NewTemplate(style.Info{}),
	}
	h.Document.SetResetChildren(true)
	h.Document.AddChild(h.Page)

	h.Page.SetResetChildren(true)
	h.Page.AddChild(h.Column)
	// Column deliberately does not reset Paragraph — spec.md §4.6's one named
	// exception to the otherwise-uniform "advancing resets what's beneath"
	// rule, so a paragraph's own template-selection state survives a column
	// break in the middle of it.

	h.Paragraph.SetResetChildren(true)
	h.Paragraph.AddChild(h.Line)
	h.Paragraph.AddChild(h.Word)
	return h
}

// Cascade computes the effective style for a word at the hierarchy's
// current indexed state, with active layered last — the running style
// produced by inline MarkupStart/MarkupEnd markers, the most specific
// (closest-to-the-word) layer of all (spec.md §4.6, "Style cascade").
func (h *Hierarchy) Cascade(active style.Info) style.Info {
	return style.Cascade(
		h.Document.Current(),
		h.Page.Current().Style,
		h.Column.Current(),
		h.Paragraph.Current(),
		h.Line.Current(),
		h.Word.Current(),
		active,
	)
}
