// Package style implements the optional-valued style record (spec.md §3,
// "Style Record (TextInfo)") and the inline markup markers that let the
// placer apply/undo ranged formatting in O(1) per marker.
//
// Grounded on
// _examples/original_source/src/placer/templates.py: TextInfo (merge,
// gen_undo_dict, undo, copy — every field optional, a merge overwrites only
// the fields the delta actually sets) and
// _examples/original_source/src/markup.py: MarkupStart/MarkupEnd (a start
// marker names its paired end; an end marker carries the undo delta
// computed at merge time). Rendered in the teacher's plain-struct-with-
// pointer-fields idiom (aleksadvaisly-md2pdf/processor.go's containerState
// holds a concrete, non-optional TextStyle because the teacher's markdown
// AST always supplies every field; pdfo's macro-driven cascade cannot
// assume that, so every field here is an Optional).
package style

import "github.com/pdfo-lang/pdfo/internal/color"

// Optional models a nullable field without reflection: Set is false means
// "inherit from the enclosing level".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some builds a set Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Set: true} }

// Script is the super/subscript variant of spec.md's "script variant"
// field, grounded on src/placer/templates.py's TextInfo._script (an int
// selecting superscript/subscript/normal).
type Script int

const (
	ScriptNormal Script = iota
	ScriptSuper
	ScriptSub
)

// Alignment is one of spec.md §6's ALIGNMENT enumeration values.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
	Justify
)

// Underline is one of spec.md §6's UNDERLINE enumeration values.
type Underline int

const (
	UnderlineNone Underline = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineThick
	UnderlineWave
	UnderlineDotted
	UnderlineDashed
	UnderlineDotDashed
	UnderlineDotDotDashed
)

// Strike is one of spec.md §6's STRIKE_THROUGH enumeration values.
type Strike int

const (
	StrikeNone Strike = iota
	StrikeSingle
	StrikeDouble
)

// Info is the cascading style record: every field is Optional, so a
// Level's Info only carries what it actually sets; inheritance is
// implemented by Merge walking the hierarchy root-to-leaf.
type Info struct {
	Script       Optional[Script]
	Alignment    Optional[Alignment]
	LineSpacing  Optional[float64]
	FontFamily   Optional[string]
	FontSize     Optional[float64]
	FontColor    Optional[color.Color]
	FontGray     Optional[float64]
	FontAlpha    Optional[float64]
	Highlight    Optional[color.Color]
	Underline    Optional[Underline]
	Strike       Optional[Strike]
	Bold         Optional[bool]
	Italic       Optional[bool]
	WordsCanSplit Optional[bool]
}

// Merge overwrites only the fields delta sets, leaving everything else in
// place — src/placer/templates.py's TextInfo.merge.
func (i *Info) Merge(delta Info) {
	if delta.Script.Set {
		i.Script = delta.Script
	}
	if delta.Alignment.Set {
		i.Alignment = delta.Alignment
	}
	if delta.LineSpacing.Set {
		i.LineSpacing = delta.LineSpacing
	}
	if delta.FontFamily.Set {
		i.FontFamily = delta.FontFamily
	}
	if delta.FontSize.Set {
		i.FontSize = delta.FontSize
	}
	if delta.FontColor.Set {
		i.FontColor = delta.FontColor
	}
	if delta.FontGray.Set {
		i.FontGray = delta.FontGray
	}
	if delta.FontAlpha.Set {
		i.FontAlpha = delta.FontAlpha
	}
	if delta.Highlight.Set {
		i.Highlight = delta.Highlight
	}
	if delta.Underline.Set {
		i.Underline = delta.Underline
	}
	if delta.Strike.Set {
		i.Strike = delta.Strike
	}
	if delta.Bold.Set {
		i.Bold = delta.Bold
	}
	if delta.Italic.Set {
		i.Italic = delta.Italic
	}
	if delta.WordsCanSplit.Set {
		i.WordsCanSplit = delta.WordsCanSplit
	}
}

// DiffInverse captures, before a Merge(delta) call, exactly the fields
// delta is about to overwrite — src/placer/templates.py's gen_undo_dict.
// A later i.Merge(inverse) undoes that one merge exactly, which is how a
// MarkupEnd reverses its paired MarkupStart in O(1). Each captured field is
// copied as-is, Set included: if i's field was already unset (inheriting)
// before the merge, the inverse must also be unset, so that undoing
// restores "inherit" rather than clobbering it to i's zero value as a
// false explicit override.
func (i Info) DiffInverse(delta Info) Info {
	var undo Info
	if delta.Script.Set {
		undo.Script = i.Script
	}
	if delta.Alignment.Set {
		undo.Alignment = i.Alignment
	}
	if delta.LineSpacing.Set {
		undo.LineSpacing = i.LineSpacing
	}
	if delta.FontFamily.Set {
		undo.FontFamily = i.FontFamily
	}
	if delta.FontSize.Set {
		undo.FontSize = i.FontSize
	}
	if delta.FontColor.Set {
		undo.FontColor = i.FontColor
	}
	if delta.FontGray.Set {
		undo.FontGray = i.FontGray
	}
	if delta.FontAlpha.Set {
		undo.FontAlpha = i.FontAlpha
	}
	if delta.Highlight.Set {
		undo.Highlight = i.Highlight
	}
	if delta.Underline.Set {
		undo.Underline = i.Underline
	}
	if delta.Strike.Set {
		undo.Strike = i.Strike
	}
	if delta.Bold.Set {
		undo.Bold = i.Bold
	}
	if delta.Italic.Set {
		undo.Italic = i.Italic
	}
	if delta.WordsCanSplit.Set {
		undo.WordsCanSplit = i.WordsCanSplit
	}
	return undo
}

// Restore unconditionally replaces, for every field touched.Field.Set
// marks, i's field with undo's corresponding field — including when
// undo.Field.Set is false, which correctly reverts that field to
// "inherit". This is how a MarkupEnd applies the Info DiffInverse captured
// at its paired MarkupStart: Merge's ordinary gate ("only touch fields the
// delta itself has Set") cannot express "clear this field back to unset",
// since on Merge's terms an unset delta field means "don't touch it", not
// "set it to unset". touched is the original MarkupStart's Delta — the
// same Set bits that drove the DiffInverse capture in the first place.
func (i *Info) Restore(touched, undo Info) {
	if touched.Script.Set {
		i.Script = undo.Script
	}
	if touched.Alignment.Set {
		i.Alignment = undo.Alignment
	}
	if touched.LineSpacing.Set {
		i.LineSpacing = undo.LineSpacing
	}
	if touched.FontFamily.Set {
		i.FontFamily = undo.FontFamily
	}
	if touched.FontSize.Set {
		i.FontSize = undo.FontSize
	}
	if touched.FontColor.Set {
		i.FontColor = undo.FontColor
	}
	if touched.FontGray.Set {
		i.FontGray = undo.FontGray
	}
	if touched.FontAlpha.Set {
		i.FontAlpha = undo.FontAlpha
	}
	if touched.Highlight.Set {
		i.Highlight = undo.Highlight
	}
	if touched.Underline.Set {
		i.Underline = undo.Underline
	}
	if touched.Strike.Set {
		i.Strike = undo.Strike
	}
	if touched.Bold.Set {
		i.Bold = undo.Bold
	}
	if touched.Italic.Set {
		i.Italic = undo.Italic
	}
	if touched.WordsCanSplit.Set {
		i.WordsCanSplit = undo.WordsCanSplit
	}
}

// Cascade merges base, then each level in order, into a fresh Info — the
// Document→Page→Column→Paragraph→Line→Word walk spec.md §4.6 describes for
// computing a concrete component's effective style.
func Cascade(levels ...Info) Info {
	var out Info
	for _, l := range levels {
		out.Merge(l)
	}
	return out
}

// Marker is an inline style-change token spliced into the post-
// interpretation stream (spec.md §3, "Inline Style Markers"). Start and End
// are paired 1:1 and must nest LIFO within a token stream; Undo is computed
// once, at the moment the placer applies Start's Delta to the active
// document-level style, and is otherwise unused until End is reached.
type Marker struct {
	IsStart bool
	Delta   Info // meaningful when IsStart
	Undo    Info // meaningful when !IsStart, filled in by the placer at Start time
	PairID  int  // matches a Start to its End within one token stream
}
