// Package stream defines Item, the element of the post-interpretation
// stream spec.md §4.6 hands to the placer: "the expanded token stream plus
// inline style-change markers". A plain token.Token and a deferred pass-2
// script carry different placer-time behavior (one is placed, the other is
// executed then placed), and a style.Marker carries none of the Token shape
// at all, so Item is a small tagged union rather than overloading
// token.Token's own Kind field a second time.
//
// This sits below both internal/interp (the producer) and internal/placer
// (the consumer) so neither has to import the other for this one shared
// vocabulary word.
package stream

import (
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/style"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// Kind tags which field of an Item is meaningful.
type Kind int

const (
	TokenItem Kind = iota
	DeferredItem
	MarkerItem
	VerbatimItem
)

// Verbatim is the payload of the \code{lang}{...} built-in macro (SPEC_FULL,
// "Supplemented features"): a literal block of text that bypasses
// word-by-word placement entirely. Lang is empty when no language was
// given (no syntax highlighting, still wrapped and drawn monospace).
type Verbatim struct {
	Lang string
	Text string
	Span source.Span
}

// Item is one element of the expanded stream.
type Item struct {
	Kind     Kind
	Token    token.Token    // Kind == TokenItem
	Deferred token.Deferred // Kind == DeferredItem
	Marker   style.Marker   // Kind == MarkerItem
	Verbatim Verbatim       // Kind == VerbatimItem
}

// OfToken wraps a plain token.
func OfToken(t token.Token) Item { return Item{Kind: TokenItem, Token: t} }

// OfDeferred wraps a pass-2 script closure.
func OfDeferred(d token.Deferred) Item { return Item{Kind: DeferredItem, Deferred: d} }

// OfMarker wraps an inline style marker.
func OfMarker(m style.Marker) Item { return Item{Kind: MarkerItem, Marker: m} }

// OfVerbatim wraps a \code block.
func OfVerbatim(v Verbatim) Item { return Item{Kind: VerbatimItem, Verbatim: v} }

// FilterDeferred returns only the DeferredItem entries of items, in order.
// internal/imports uses this to implement spec.md §4.5's import rule: an
// imported file's pass-1 output never reaches the caller's stream, only the
// pass-2 scripts it still owes (its pass-1 text was already placed once, in
// its own never-rendered run; re-emitting it would duplicate content the
// caller never asked to insert).
func FilterDeferred(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.Kind == DeferredItem {
			out = append(out, it)
		}
	}
	return out
}
