package interp

import (
	"sort"

	"github.com/pdfo-lang/pdfo/internal/script"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/style"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// word is one maximal non-whitespace run of a script-produced string, with
// its rune offsets into the original string so styledTextItems can line up
// style-marker boundaries against it.
type word struct {
	text       string
	start, end int // rune offsets, end exclusive
}

// splitWords breaks s on runs of whitespace, recording each word's rune
// span — the inverse of internal/parser's space-joining, reused here to
// turn a script result string back into placeable Word tokens.
func splitWords(s string) []word {
	var words []word
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		for i < len(runes) && isSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}
		start := i
		for i < len(runes) && !isSpace(runes[i]) {
			i++
		}
		words = append(words, word{text: string(runes[start:i]), start: start, end: i})
	}
	return words
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// wordItems tokenizes a plain script-result string into Word items, per
// spec.md §4.4's Pass1Eval rule: "if string, tokenize as plain text".
func wordItems(s string, leadingSpaceBefore bool, span source.Span) []stream.Item {
	words := splitWords(s)
	items := make([]stream.Item, 0, len(words))
	for i, w := range words {
		sb := leadingSpaceBefore
		if i > 0 {
			sb = true
		}
		items = append(items, stream.OfToken(token.Token{Kind: token.Word, Value: w.text, Span: span, SpaceBefore: sb}))
	}
	return items
}

// styledTextItems converts a script.StyledText into a token stream
// preserving markers, per spec.md §4.4's Pass1Eval rule for style-bearing
// text. Ranges are assumed properly nested (internal/script's style
// builtins only ever produce that shape: layering wraps an argument's full
// span, never a sub-range of it), so a simple open/close stack per rune
// boundary is sufficient.
func styledTextItems(st script.StyledText, leadingSpaceBefore bool, span source.Span) []stream.Item {
	words := splitWords(st.Text)
	n := len([]rune(st.Text))

	starts := map[int][]int{}
	ends := map[int][]int{}
	for i, r := range st.Ranges {
		starts[r.Start] = append(starts[r.Start], i)
		ends[r.End] = append(ends[r.End], i)
	}

	var items []stream.Item
	emitStarts := func(pos int) {
		idxs := append([]int(nil), starts[pos]...)
		sort.Ints(idxs)
		for _, i := range idxs {
			items = append(items, stream.OfMarker(style.Marker{IsStart: true, Delta: st.Ranges[i].Delta, PairID: i}))
		}
	}
	emitEnds := func(pos int) {
		idxs := append([]int(nil), ends[pos]...)
		sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
		for _, i := range idxs {
			items = append(items, stream.OfMarker(style.Marker{IsStart: false, PairID: i}))
		}
	}

	lastWordEnd := -1
	for i, w := range words {
		emitStarts(w.start)
		sb := leadingSpaceBefore
		if i > 0 {
			sb = true
		}
		items = append(items, stream.OfToken(token.Token{Kind: token.Word, Value: w.text, Span: span, SpaceBefore: sb}))
		emitEnds(w.end)
		lastWordEnd = w.end
	}
	// A range ending at the string's length, or past any word (trailing
	// whitespace), never matched a word's own end offset in the loop above;
	// catch it here. Skip when the last word's end already covers it, or the
	// loop above already fired it.
	if lastWordEnd != n {
		emitEnds(n)
	}

	return items
}
