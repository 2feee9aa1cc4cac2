package placer

import (
	"testing"

	"github.com/pdfo-lang/pdfo/internal/geom"
	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/style"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// fixedMeasurer is a deterministic Measurer for tests: every rune is
// charWidth points wide and every word lineHeight points tall, so test
// expectations don't depend on any real font metrics table.
type fixedMeasurer struct {
	charWidth  float64
	lineHeight float64
}

func (m fixedMeasurer) Measure(s string, _ EffectiveFont) (float64, float64) {
	return float64(len([]rune(s))) * m.charWidth, m.lineHeight
}

func newTestPlacer(cols int, colWidth, colHeight float64, measure fixedMeasurer) *Placer {
	geometry := PageGeometry{
		Size:         pagesize.Size{Width: colWidth*float64(cols) + 1, Height: colHeight + 1},
		MarginLeft:   0,
		MarginTop:    0,
		MarginRight:  0,
		MarginBottom: 0,
		Rows:         1,
		Cols:         cols,
	}
	h := NewHierarchy(geometry)
	cfg := Config{
		DefaultFontFamily:  "Helvetica",
		DefaultFontSize:    10,
		DefaultLineSpacing: 1.0,
		DefaultAlignment:   style.Left,
	}
	return New(h, measure, nil, cfg)
}

func wordItem(text string, spaceBefore bool) stream.Item {
	return stream.OfToken(token.Token{Kind: token.Word, Value: text, SpaceBefore: spaceBefore})
}

func breakItem() stream.Item {
	return stream.OfToken(token.Token{Kind: token.ParagraphBreak})
}

func TestPlaceSimpleWordsFitOneLine(t *testing.T) {
	pl := newTestPlacer(1, 1000, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	items := []stream.Item{wordItem("hello", false), wordItem("world", true)}

	doc, err := pl.Place(items)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Columns) != 1 {
		t.Fatalf("expected a single page/column, got %d pages", len(doc.Pages))
	}
	col := doc.Pages[0].Columns[0]
	if len(col.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(col.Lines))
	}
	if got := len(col.Lines[0].Words); got != 2 {
		t.Fatalf("expected 2 words on the line, got %d", got)
	}
}

func TestPlaceWordWrapsToNewLineOnOverflow(t *testing.T) {
	// Each word is 5 chars * 5pt = 25pt; a 40pt column fits one word per line.
	pl := newTestPlacer(1, 40, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	items := []stream.Item{wordItem("alpha", false), wordItem("bravo", true), wordItem("carol", true)}

	doc, err := pl.Place(items)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	col := doc.Pages[0].Columns[0]
	if len(col.Lines) != 3 {
		t.Fatalf("expected each word on its own line, got %d lines", len(col.Lines))
	}
	for i, want := range []string{"alpha", "bravo", "carol"} {
		if got := col.Lines[i].Words[0].Text; got != want {
			t.Errorf("line %d: got word %q, want %q", i, got, want)
		}
	}
}

func TestPlaceParagraphBreakStartsNewParagraph(t *testing.T) {
	pl := newTestPlacer(1, 1000, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	items := []stream.Item{wordItem("one", false), breakItem(), wordItem("two", false)}

	doc, err := pl.Place(items)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
	}
}

func TestPlaceColumnOverflowAdvancesPage(t *testing.T) {
	// Narrow column (40pt): "one"+"two" share a line (no space between),
	// then "three", then "four five" — three lines against room for 2 per
	// column/page (height 20 at lineHeight 10), so the 4th word must start a
	// new page.
	pl := newTestPlacer(1, 40, 20, fixedMeasurer{charWidth: 5, lineHeight: 10})
	items := []stream.Item{
		wordItem("one", false), wordItem("two", false),
		wordItem("three", false), wordItem("four", false), wordItem("five", false),
	}

	doc, err := pl.Place(items)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(doc.Pages) < 2 {
		t.Fatalf("expected placement to overflow onto a second page, got %d page(s)", len(doc.Pages))
	}
	for _, p := range doc.Pages {
		for _, c := range p.Columns {
			if c.HeightUsed > c.Inner.Height+1e-9 {
				t.Errorf("column height_used %.2f exceeds inner height %.2f", c.HeightUsed, c.Inner.Height)
			}
		}
	}
}

func TestPlaceWordTooWideWithoutSplitErrors(t *testing.T) {
	pl := newTestPlacer(1, 10, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	_, err := pl.Place([]stream.Item{wordItem("toowide", false)})
	if err == nil {
		t.Fatal("expected a PlacementError for a word wider than any line, got nil")
	}
}

func TestPlaceWordSplitsAtGraphemeBoundariesWhenAllowed(t *testing.T) {
	pl := newTestPlacer(1, 10, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	split := style.Info{WordsCanSplit: style.Some(true)}
	items := []stream.Item{
		stream.OfMarker(style.Marker{IsStart: true, Delta: split, PairID: 0}),
		wordItem("toowide", false),
		stream.OfMarker(style.Marker{IsStart: false, PairID: 0}),
	}

	doc, err := pl.Place(items)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	col := doc.Pages[0].Columns[0]
	if len(col.Lines) < 2 {
		t.Fatalf("expected the overlong word to split across multiple lines, got %d", len(col.Lines))
	}
}

func TestApplyMarkerRestoresPreviouslyUnsetField(t *testing.T) {
	// Regression test for Info.Restore: a MarkupStart/MarkupEnd pair around a
	// field that was unset ("inherit") before the Start must leave that field
	// unset again after the End, not clobber it to an explicit zero value.
	pl := newTestPlacer(1, 1000, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	st := &state{doc: &PdfDocument{}, undo: map[int]undoEntry{}, paraIdx: -1}

	if st.active.Bold.Set {
		t.Fatal("precondition: Bold should start unset")
	}

	start := style.Marker{IsStart: true, Delta: style.Info{Bold: style.Some(true)}, PairID: 0}
	pl.applyMarker(st, start)
	if !st.active.Bold.Set || !st.active.Bold.Value {
		t.Fatalf("expected Bold set to true after MarkupStart, got %+v", st.active.Bold)
	}

	end := style.Marker{IsStart: false, PairID: 0}
	pl.applyMarker(st, end)
	if st.active.Bold.Set {
		t.Errorf("expected Bold to revert to unset after MarkupEnd, got %+v", st.active.Bold)
	}
}

func TestRealignLineCenterConservesTotalWidth(t *testing.T) {
	// aa(20) + gap(5) + bb(20) = 45 used out of a 100pt line -> 55pt slack,
	// split evenly either side of center. The relative spacing between words
	// (a rigid shift) must be unchanged by the centering step.
	line := &PdfParagraphLine{
		Inner:     geom.NewRect(0, 0, 100, 10),
		Alignment: style.Center,
		Words: []PdfWord{
			{Text: "aa", WithoutSpace: WordDims{Width: 20}, WithSpace: WordDims{Width: 25}},
			{Text: "bb", WithoutSpace: WordDims{Width: 20}, WithSpace: WordDims{Width: 25}, SpaceBefore: true},
		},
	}
	realignLine(line)

	wantShift := 55.0 / 2
	if got := line.Words[0].Offset.X; got != wantShift {
		t.Errorf("word 0 offset = %.2f, want the centering shift %.2f", got, wantShift)
	}
	want1 := wantShift + 5 /* the inter-word gap */ + 20
	if got := line.Words[1].Offset.X; got != want1 {
		t.Errorf("word 1 offset = %.2f, want %.2f", got, want1)
	}
}

func TestRealignLineJustifyGapRoundingSumsToSlack(t *testing.T) {
	// Three words, two gaps, inner width chosen so the slack doesn't divide
	// evenly by the gap count — exercises the deterministic "last gap
	// absorbs the remainder" rounding rule (spec.md §8, "Justify gap rule").
	line := &PdfParagraphLine{
		Inner:     geom.NewRect(0, 0, 100, 10),
		Alignment: style.Justify,
		Words: []PdfWord{
			{Text: "a", WithoutSpace: WordDims{Width: 10}, WithSpace: WordDims{Width: 11}},
			{Text: "b", WithoutSpace: WordDims{Width: 10}, WithSpace: WordDims{Width: 11}, SpaceBefore: true},
			{Text: "c", WithoutSpace: WordDims{Width: 10}, WithSpace: WordDims{Width: 11}, SpaceBefore: true},
		},
	}
	realignLine(line)
	slack := line.Inner.Width - line.Width

	gap1 := line.Words[1].Offset.X - (line.Words[0].Offset.X + line.Words[0].WithoutSpace.Width)
	gap2 := line.Words[2].Offset.X - (line.Words[1].Offset.X + line.Words[1].WithoutSpace.Width)
	if total := gap1 + gap2; abs(total-slack) > 1e-9 {
		t.Errorf("gap widths sum to %.6f, want exactly the slack %.6f", total, slack)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestApplyEndCallbacksRealignsJustifiedLastLineLeft(t *testing.T) {
	pl := newTestPlacer(1, 1000, 1000, fixedMeasurer{charWidth: 5, lineHeight: 10})
	st := &state{doc: &PdfDocument{}, undo: map[int]undoEntry{}, paraIdx: -1}
	items := []stream.Item{
		stream.OfMarker(style.Marker{IsStart: true, Delta: style.Info{Alignment: style.Some(style.Justify)}, PairID: 0}),
		wordItem("short", false),
	}
	for _, it := range items {
		switch it.Kind {
		case stream.MarkerItem:
			pl.applyMarker(st, it.Marker)
		case stream.TokenItem:
			if err := pl.placeToken(st, it.Token); err != nil {
				t.Fatalf("placeToken: %v", err)
			}
		}
	}
	if err := pl.closeLine(st); err != nil {
		t.Fatalf("closeLine: %v", err)
	}
	ApplyEndCallbacks(st.doc)

	if got := st.doc.Paragraphs[0].Alignment; got != style.Justify {
		t.Fatalf("paragraph alignment = %v, want Justify (end-callback only retouches the last line)", got)
	}
	last := st.doc.Paragraphs[0].Lines[len(st.doc.Paragraphs[0].Lines)-1]
	if got := st.doc.Line(last).Alignment; got != style.Left {
		t.Errorf("last line alignment = %v, want Left after the justified-last-line end-callback", got)
	}
}
