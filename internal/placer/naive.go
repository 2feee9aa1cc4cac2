package placer

import (
	"github.com/rivo/uniseg"

	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/geom"
	"github.com/pdfo-lang/pdfo/internal/interp"
	"github.com/pdfo-lang/pdfo/internal/script"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/style"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// Config carries the fallbacks the cascade bottoms out to once every
// template/marker layer leaves a field unset, plus the tunables SPEC_FULL's
// \code built-in needs.
type Config struct {
	DefaultFontFamily  string
	DefaultFontSize    float64
	DefaultLineSpacing float64
	DefaultAlignment   style.Alignment

	// VerbatimFontFamily/Size set the monospace face \code blocks render
	// with; VerbatimWrapCols is the go-wordwrap column width applied before
	// highlighting (spec.md's \code built-in, SPEC_FULL "Supplemented
	// features").
	VerbatimFontFamily string
	VerbatimFontSize   float64
	VerbatimWrapCols   uint
}

// Placer is spec.md §4.6's default ("naive greedy") line-breaking engine: a
// single left-to-right, top-to-bottom pass over the expanded token stream,
// consulting Hierarchy for per-level style/geometry and Measure for glyph
// metrics. Grounded on
// _examples/original_source/src/placer/naive_placer.py's NaivePlacer
// (read-token / try-append-word / close-line-on-overflow loop), the
// reference implementation's only placer with that algorithm spelled out.
type Placer struct {
	H       *Hierarchy
	Measure Measurer
	Host    *script.Host
	Cfg     Config

	// Highlight renders a \code block's already-wrapped lines, producing the
	// CanvasHook the placed tree carries for it — its type lives in
	// internal/placer/verbatim.go so this file stays free of the
	// gohighlight/go-wordwrap import surface; pdfo.Compile sets it.
	Highlight VerbatimRenderer
}

// New builds a Placer.
func New(h *Hierarchy, m Measurer, host *script.Host, cfg Config) *Placer {
	return &Placer{H: h, Measure: m, Host: host, Cfg: cfg}
}

// state is the mutable cursor threaded through one Place call. It is a
// separate type from Placer so Placer itself stays reusable/stateless
// across documents, matching internal/script.Host's own "stateless engine,
// stateful call" split.
type state struct {
	doc *PdfDocument

	active style.Info        // the running inline-markup style (spec.md §4.6)
	undo   map[int]undoEntry // PairID -> touched fields + inverse delta, applied at MarkupEnd

	havePage bool
	pageIdx  int
	colIdx   int

	paraIdx     int // index into doc.Paragraphs, or -1 before the first word
	lineWords   []PdfWord
	lineWidth   float64
	lineAlign   style.Alignment
	lineSpacing float64

	lastSpan source.Span // span of the token currently being placed, for diagnostics
}

// undoEntry is what a MarkupStart stashes for its paired MarkupEnd: touched
// is the Start marker's own Delta (its Set bits mark exactly which fields
// it's safe to restore), undo is the Info.DiffInverse captured from the
// active style at Start time. See Info.Restore for why both are needed.
type undoEntry struct {
	touched style.Info
	undo    style.Info
}

// Place runs the naive algorithm over items and returns the placed tree,
// or a *errs.Error (KindPlacement) if a word cannot fit any line, or
// whatever internal/script.Host reports (boxed KindScript) for a pass-2
// script that fails at placement time.
func (pl *Placer) Place(items []stream.Item) (*PdfDocument, error) {
	st := &state{
		doc:     &PdfDocument{},
		undo:    map[int]undoEntry{},
		paraIdx: -1,
	}

	queue := append([]stream.Item(nil), items...)
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		switch it.Kind {
		case stream.DeferredItem:
			expanded, err := interp.ExecDeferred(pl.Host, it.Deferred)
			if err != nil {
				return nil, err
			}
			queue = append(append([]stream.Item(nil), expanded...), queue...)

		case stream.MarkerItem:
			pl.applyMarker(st, it.Marker)

		case stream.VerbatimItem:
			if err := pl.placeVerbatim(st, it.Verbatim); err != nil {
				return nil, err
			}

		case stream.TokenItem:
			if err := pl.placeToken(st, it.Token); err != nil {
				return nil, err
			}
		}
	}

	if err := pl.closeLine(st); err != nil {
		return nil, err
	}
	ApplyEndCallbacks(st.doc)
	return st.doc, nil
}

func (pl *Placer) applyMarker(st *state, m style.Marker) {
	if m.IsStart {
		st.undo[m.PairID] = undoEntry{touched: m.Delta, undo: st.active.DiffInverse(m.Delta)}
		st.active.Merge(m.Delta)
		return
	}
	if e, ok := st.undo[m.PairID]; ok {
		st.active.Restore(e.touched, e.undo)
		delete(st.undo, m.PairID)
	}
}

func (pl *Placer) placeToken(st *state, t token.Token) error {
	switch t.Kind {
	case token.ParagraphBreak:
		if err := pl.closeLine(st); err != nil {
			return err
		}
		// Advance the Paragraph template now, at the boundary between the
		// paragraph that just closed and whichever one follows — Current()
		// stays pinned to the outgoing paragraph's entry for its whole
		// lifetime and only moves once there is a next paragraph to move to.
		pl.H.Paragraph.Next()
		st.paraIdx = -1
		return nil
	case token.Word:
		st.lastSpan = t.Span
		return pl.appendWord(st, t.Value, t.SpaceBefore)
	default:
		// FileStart/FileEnd and grouping tokens never reach the placer; the
		// interpreter only ever emits Word/ParagraphBreak token items.
		return nil
	}
}

func (pl *Placer) ensureParagraph(st *state) {
	if st.paraIdx >= 0 {
		return
	}
	st.doc.Paragraphs = append(st.doc.Paragraphs, PdfParagraph{
		Alignment: pl.effectiveAlignment(st),
	})
	st.paraIdx = len(st.doc.Paragraphs) - 1
	st.lineAlign = st.doc.Paragraphs[st.paraIdx].Alignment
}

func (pl *Placer) effectiveAlignment(st *state) style.Alignment {
	eff := pl.H.Cascade(st.active)
	if eff.Alignment.Set {
		return eff.Alignment.Value
	}
	return pl.Cfg.DefaultAlignment
}

func (pl *Placer) effectiveLineSpacing(st *state) float64 {
	eff := pl.H.Cascade(st.active)
	if eff.LineSpacing.Set {
		return eff.LineSpacing.Value
	}
	return pl.Cfg.DefaultLineSpacing
}

// appendWord implements spec.md §4.6 step 2: measure, try to append, and on
// overflow close the line (or the whole word, if it fits nowhere) and
// retry.
func (pl *Placer) appendWord(st *state, text string, spaceBefore bool) error {
	pl.ensureParagraph(st)

	eff := pl.H.Cascade(st.active)
	font := ResolveFont(eff, pl.Cfg.DefaultFontFamily, pl.Cfg.DefaultFontSize)
	wordW, wordH := pl.Measure.Measure(text, font)
	spaceW, _ := pl.Measure.Measure(" ", font)

	if err := pl.ensureColumnRoom(st, wordH*pl.lineSpacingOrDefault(st)); err != nil {
		return err
	}
	col := pl.currentColumn(st)
	innerWidth := col.Inner.Width

	gap := 0.0
	if len(st.lineWords) > 0 && spaceBefore {
		gap = spaceW
	}

	if st.lineWidth+gap+wordW > innerWidth {
		if len(st.lineWords) > 0 {
			if err := pl.closeLine(st); err != nil {
				return err
			}
			return pl.appendWord(st, text, spaceBefore)
		}
		// A single word wider than any column: split at grapheme boundaries if
		// the cascade allows it, else this word can never be placed.
		if eff.WordsCanSplit.Set && eff.WordsCanSplit.Value {
			return pl.appendSplitWord(st, text, spaceBefore, font, innerWidth)
		}
		return errs.New(errs.KindPlacement, st.lastSpan, "word %q (width %.2f) does not fit any line (inner width %.2f)", text, wordW, innerWidth)
	}

	w := PdfWord{
		Text:         text,
		WithoutSpace: WordDims{Width: wordW, Height: wordH},
		WithSpace:    WordDims{Width: wordW + spaceW, Height: wordH},
		SpaceBefore:  spaceBefore,
		Style:        eff,
	}
	if len(st.lineWords) > 0 {
		st.lineWords[len(st.lineWords)-1].SpaceAfter = spaceBefore
	}
	st.lineWords = append(st.lineWords, w)
	st.lineWidth += gap + wordW
	st.lineSpacing = pl.effectiveLineSpacing(st)
	pl.H.Word.Next()
	return nil
}

// appendSplitWord packs a too-wide word's grapheme clusters across as many
// lines as it takes, rather than raising a PlacementError — the
// grapheme-aware fallback SPEC_FULL wires in via github.com/rivo/uniseg
// (see DESIGN.md's domain-stack entry).
func (pl *Placer) appendSplitWord(st *state, text string, spaceBefore bool, font EffectiveFont, innerWidth float64) error {
	gr := uniseg.NewGraphemes(text)
	var piece string
	pieceSpaceBefore := spaceBefore
	flush := func() error {
		if piece == "" {
			return nil
		}
		w, h := pl.Measure.Measure(piece, font)
		sw, _ := pl.Measure.Measure(" ", font)
		word := PdfWord{
			Text:         piece,
			WithoutSpace: WordDims{Width: w, Height: h},
			WithSpace:    WordDims{Width: w + sw, Height: h},
			SpaceBefore:  pieceSpaceBefore,
			Style:        pl.H.Cascade(st.active),
		}
		if len(st.lineWords) > 0 {
			st.lineWords[len(st.lineWords)-1].SpaceAfter = pieceSpaceBefore
		}
		st.lineWords = append(st.lineWords, word)
		st.lineWidth += w
		piece = ""
		pieceSpaceBefore = false
		return nil
	}
	for gr.Next() {
		candidate := piece + gr.Str()
		w, _ := pl.Measure.Measure(candidate, font)
		if w > innerWidth && piece != "" {
			if err := flush(); err != nil {
				return err
			}
			if err := pl.closeLine(st); err != nil {
				return err
			}
		}
		piece += gr.Str()
	}
	return flush()
}

func (pl *Placer) lineSpacingOrDefault(st *state) float64 {
	if st.lineSpacing > 0 {
		return st.lineSpacing
	}
	ls := pl.effectiveLineSpacing(st)
	if ls <= 0 {
		return 1.0
	}
	return ls
}

// closeLine realizes the current run of buffered words into a placed
// PdfParagraphLine, applies alignment, and advances the owning column's
// used height (spec.md §4.6 step 3).
func (pl *Placer) closeLine(st *state) error {
	if len(st.lineWords) == 0 {
		return nil
	}
	if err := pl.ensureColumnRoom(st, 0); err != nil {
		return err
	}
	col := pl.currentColumnPtr(st)

	maxH := 0.0
	for _, w := range st.lineWords {
		if w.WithoutSpace.Height > maxH {
			maxH = w.WithoutSpace.Height
		}
	}
	line := PdfParagraphLine{
		Inner:     geom.NewRect(col.Inner.Left(), col.Inner.Top()+col.HeightUsed, col.Inner.Width, maxH),
		Words:     st.lineWords,
		Alignment: st.lineAlign,
		Height:    maxH,
	}
	realignLine(&line)

	col.Lines = append(col.Lines, line)
	col.Owning = append(col.Owning, st.paraIdx)
	lineIdx := len(col.Lines) - 1

	spacing := pl.lineSpacingOrDefault(st)
	col.HeightUsed += maxH * spacing

	if st.paraIdx >= 0 {
		st.doc.Paragraphs[st.paraIdx].Lines = append(st.doc.Paragraphs[st.paraIdx].Lines, LineRef{
			Page: st.pageIdx, Column: st.colIdx, Line: lineIdx,
		})
	}

	st.lineWords = nil
	st.lineWidth = 0
	st.lineSpacing = 0
	return nil
}

// placeVerbatim lays out a \code block one rendered line at a time,
// bypassing word placement entirely: each line becomes a CanvasHook drawn
// directly against the page surface at drawing time (spec.md §3's
// "canvas-apply hooks"). It closes whatever line/paragraph is open first,
// since a verbatim block is always its own block, never inline.
func (pl *Placer) placeVerbatim(st *state, v stream.Verbatim) error {
	if err := pl.closeLine(st); err != nil {
		return err
	}
	st.paraIdx = -1
	st.lastSpan = v.Span

	font := EffectiveFont{Family: pl.verbatimFontFamily(), Size: pl.verbatimFontSize()}
	_, lineHeight := pl.Measure.Measure("M", font)
	if lineHeight <= 0 {
		lineHeight = font.Size * 1.2
	}

	for _, ln := range pl.Highlight.render(v.Lang, v.Text) {
		if err := pl.ensureColumnRoom(st, lineHeight); err != nil {
			return err
		}
		col := pl.currentColumnPtr(st)
		hook := CanvasHook{
			PageIndex:   st.pageIdx,
			ColumnIndex: st.colIdx,
			Y:           col.HeightUsed,
			Height:      lineHeight,
			Draw:        drawVerbatimLine(font, ln, lineHeight),
		}
		st.doc.CanvasHooks = append(st.doc.CanvasHooks, hook)
		col.HeightUsed += lineHeight
	}
	return nil
}

func (pl *Placer) verbatimFontFamily() string {
	if pl.Cfg.VerbatimFontFamily != "" {
		return pl.Cfg.VerbatimFontFamily
	}
	return "Courier"
}

func (pl *Placer) verbatimFontSize() float64 {
	if pl.Cfg.VerbatimFontSize > 0 {
		return pl.Cfg.VerbatimFontSize
	}
	return pl.Cfg.DefaultFontSize
}

// realignLine offsets Words left-to-right from the line's origin and then
// shifts/distributes per Alignment (spec.md §4.6 step 3). Called both when
// a line first closes and again by the justified-last-line end-callback, so
// it is the one place offset math lives.
func realignLine(line *PdfParagraphLine) {
	x := 0.0
	used := 0.0
	gaps := 0
	for i := range line.Words {
		w := &line.Words[i]
		if i > 0 && w.SpaceBefore {
			x += w.WithSpace.Width - w.WithoutSpace.Width
			gaps++
		}
		w.Offset = geom.Point{X: x, Y: 0}
		x += w.WithoutSpace.Width
		used = x
	}
	line.Width = used

	slack := line.Inner.Width - used
	if slack <= 0 {
		return
	}
	switch line.Alignment {
	case style.Center:
		shift := slack / 2
		for i := range line.Words {
			line.Words[i].Offset.X += shift
		}
	case style.Right:
		for i := range line.Words {
			line.Words[i].Offset.X += slack
		}
	case style.Justify:
		if gaps == 0 {
			return
		}
		// Deterministic justify rounding (spec.md §8, "Justify gap rule" —
		// left unspecified by spec, resolved here): every gap but the last
		// gets slack/gaps exactly; the last gap absorbs the remainder, so the
		// sum of gap widths is exactly slack regardless of floating-point
		// rounding in the division.
		per := slack / float64(gaps)
		extra := 0.0
		seen := 0
		for i := 1; i < len(line.Words); i++ {
			if !line.Words[i].SpaceBefore {
				continue
			}
			seen++
			add := per
			if seen == gaps {
				add = slack - extra
			} else {
				extra += per
			}
			for j := i; j < len(line.Words); j++ {
				line.Words[j].Offset.X += add
			}
		}
	}
}
