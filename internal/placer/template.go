// Package placer implements the line-breaking, column-packing, page-flowing
// engine (spec.md §4.6, "Placer"). It consumes the post-interpretation
// stream (stream.Item: tokens, style markers, deferred pass-2 scripts) and
// produces a PdfDocument tree of placed graphical primitives.
//
// Grounded throughout on _examples/original_source/src/placer/ (templates.py,
// pdf.py, placer.py, naive_placer.py), the only place in the retrieval pack
// that implements this shape; aleksadvaisly-md2pdf has no placer of its
// own — it hands paragraphs straight to fpdf's own line-wrapping (MultiCell/
// Write) — so the *algorithm* here is grounded on the reference
// implementation while the *surrounding Go idiom* (small struct-plus-
// methods types, one file per concern) follows the teacher's processor.go.
package placer

// Resettable is implemented by anything a parent Template's advance may
// reset back to its initial selection state — spec.md §4.6's "child levels
// may reset (configurable per level)".
type Resettable interface{ Reset() }

// Template is one level of the five-level factory hierarchy (spec.md §4.6:
// Document → Page → Column → Paragraph → ParagraphLine → Word). It holds
// three ordered collections of T plus a default, and selects among them in
// a fixed order: drain one-use first, else the concrete at the current
// index if one exists, else the repeating entry at index-mod-length, else
// the default. Calling Next both makes that selection and advances the
// index (one-use entries are consumed without advancing the index — they
// are a single interruption of the indexed sequence, not a member of it).
//
// Grounded on src/placer/templates.py's Template class (one_use/concretes/
// repeating/default lists plus a next()/peek() pair) and spec.md §9's
// "Template state machine" design note.
type Template[T any] struct {
	oneUse     []T
	concretes  []T
	repeating  []T
	def        T
	hasDefault bool
	index      int

	// children are reset when this level advances, but only if resetChildren
	// is true — the one asymmetry spec.md §4.6 calls out by name: paragraph
	// advancement resets line/word, column advancement does not reset
	// paragraph.
	children      []Resettable
	resetChildren bool
}

// NewTemplate builds a Template whose default (used once every other source
// is exhausted) is def.
func NewTemplate[T any](def T) *Template[T] {
	return &Template[T]{def: def, hasDefault: true}
}

// AddOneUse appends a value to be handed out exactly once, the next time
// Next is called, ahead of any indexed selection.
func (t *Template[T]) AddOneUse(v T) { t.oneUse = append(t.oneUse, v) }

// AddConcrete appends a value bound to a specific index (the n-th call to
// Next, after one-use entries are drained, returns concretes[n] if n is in
// range).
func (t *Template[T]) AddConcrete(v T) { t.concretes = append(t.concretes, v) }

// AddRepeating appends a value to the cyclic fallback sequence, used once
// the index runs past the concrete list.
func (t *Template[T]) AddRepeating(v T) { t.repeating = append(t.repeating, v) }

// SetResetChildren configures whether this level's children reset when this
// level advances; see the Template doc comment.
func (t *Template[T]) SetResetChildren(v bool) { t.resetChildren = v }

// AddChild registers a Resettable that resets when this level advances, if
// resetChildren is set.
func (t *Template[T]) AddChild(c Resettable) { t.children = append(t.children, c) }

// Current returns the component Next would select without advancing
// anything — used by Hierarchy.Cascade to read each level's style.
func (t *Template[T]) Current() T {
	if len(t.oneUse) > 0 {
		return t.oneUse[0]
	}
	return t.indexed()
}

func (t *Template[T]) indexed() T {
	if t.index < len(t.concretes) {
		return t.concretes[t.index]
	}
	if len(t.repeating) > 0 {
		return t.repeating[t.index%len(t.repeating)]
	}
	return t.def
}

// Next selects the next component per the order documented on Template and
// advances this level's state, resetting children if configured to.
func (t *Template[T]) Next() T {
	if len(t.oneUse) > 0 {
		v := t.oneUse[0]
		t.oneUse = t.oneUse[1:]
		return v
	}
	v := t.indexed()
	t.index++
	if t.resetChildren {
		for _, c := range t.children {
			c.Reset()
		}
	}
	return v
}

// Reset returns this level (and, transitively, every level beneath it) to
// its initial index — a fresh page's column template starts back at
// concretes[0]/repeating[0], for instance.
func (t *Template[T]) Reset() {
	t.index = 0
	for _, c := range t.children {
		c.Reset()
	}
}
