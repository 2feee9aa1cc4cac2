// Package ast defines the syntax tree the parser builds (spec.md §3,
// "Syntax Tree Nodes"). Every node is a small struct plus Pos/End methods,
// following btouchard-gmx/internal/compiler/ast.go's shape (one type per
// grammar production, a narrow Node interface, marker methods standing in
// for a sum type).
package ast

import "github.com/pdfo-lang/pdfo/internal/source"

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() source.Pos
	End() source.Pos
	node()
}

// File is the root of one compiled source file.
type File struct {
	Name     string
	Document *Document
	Span     source.Span
}

func (f *File) Pos() source.Pos { return f.Span.Start }
func (f *File) End() source.Pos { return f.Span.End }
func (*File) node()             {}

// Document is a sequence of Paragraphs (spec.md §4.2:
// `document := ParagraphBreak? (paragraph)* ParagraphBreak?`).
type Document struct {
	Paragraphs []*Paragraph
	Span       source.Span
}

func (d *Document) Pos() source.Pos { return d.Span.Start }
func (d *Document) End() source.Pos { return d.Span.End }
func (*Document) node()             {}

// Paragraph pairs an optional leading break with a single Writing
// (spec.md §3: "Paragraph(optional leading-break, writing)"; §4.4: visiting
// a Paragraph "visits its writing" — singular). Visually contiguous prose
// made of several Writing nodes in a row (a word run, then a macro call,
// then more words) becomes several Paragraph nodes with LeadingBreak=false
// between them; real paragraph breaks in the rendered document come from
// the ParagraphBreak tokens the interpreter re-emits, not from nesting
// here.
type Paragraph struct {
	LeadingBreak bool
	Writing      Writing
	Span         source.Span
}

func (p *Paragraph) Pos() source.Pos { return p.Span.Start }
func (p *Paragraph) End() source.Pos { return p.Span.End }
func (*Paragraph) node()             {}

// Writing is any node that can stand alone inside a Paragraph: plain text,
// a macro definition/call, a script, or a brace-delimited group.
type Writing interface {
	Node
	writing()
}

// PlainText is a maximal run of Word/Equals/Comma/OpenParen/CloseParen
// tokens with no intervening structural token. A bare brace always starts
// or ends a TextGroup rather than being absorbed here — see DESIGN.md for
// why this reading was chosen over treating loose braces as plain text.
type PlainText struct {
	Text        string
	SpaceBefore bool
	Span        source.Span
}

func (t *PlainText) Pos() source.Pos { return t.Span.Start }
func (t *PlainText) End() source.Pos { return t.Span.End }
func (*PlainText) node()             {}
func (*PlainText) writing()          {}

// TextGroup is a brace-delimited sub-document: `{ ... }`. It is both a
// Writing (may nest inside a paragraph) and the value bound to a macro's
// parameters and call arguments.
type TextGroup struct {
	Document    *Document
	SpaceBefore bool // the opening '{' token's space_before (spec.md §4.4)
	Span        source.Span
}

func (g *TextGroup) Pos() source.Pos { return g.Span.Start }
func (g *TextGroup) End() source.Pos { return g.Span.End }
func (*TextGroup) node()             {}
func (*TextGroup) writing()          {}

// KeyParam is one `name=default_group` formal parameter of a
// MacroDefinition.
type KeyParam struct {
	Name    string
	Default *TextGroup
	Span    source.Span
}

// MacroDefinition introduces a new macro into the enclosing scope:
// `name = (p1, p2, k1=default) {body}`.
type MacroDefinition struct {
	Name             string
	PositionalParams []string
	KeyParams        []KeyParam
	Body             *TextGroup
	Span             source.Span
}

func (d *MacroDefinition) Pos() source.Pos { return d.Span.Start }
func (d *MacroDefinition) End() source.Pos { return d.Span.End }
func (*MacroDefinition) node()             {}
func (*MacroDefinition) writing()          {}

// KeyArg is one `{name=value}` actual argument of a MacroCall.
type KeyArg struct {
	Name  string
	Value *TextGroup
	Span  source.Span
}

// MacroCall invokes a previously defined (or built-in) macro:
// `\name{pos1}{pos2}{key=val}` — every argument is its own brace-delimited
// group; a group whose content opens with `Identifier '='` is a key
// argument, any other group is the next positional argument.
type MacroCall struct {
	Name           string
	PositionalArgs []*TextGroup
	KeyArgs        []KeyArg
	SpaceBefore    bool // the call's leading identifier token's space_before
	Span           source.Span
}

func (c *MacroCall) Pos() source.Pos { return c.Span.Start }
func (c *MacroCall) End() source.Pos { return c.Span.End }
func (*MacroCall) node()             {}
func (*MacroCall) writing()          {}

// ScriptPass identifies when a Script node's body runs.
type ScriptPass int

const (
	Pass1 ScriptPass = iota + 1
	Pass2
)

// Script is an embedded scripting-host block: pass-1 scripts run during
// interpretation, pass-2 scripts are deferred to placement time and close
// over a snapshot of the locals active where they appear.
type Script struct {
	Pass   ScriptPass
	IsEval bool // true: expression result is spliced into the tree; false: run for effect
	Source string
	Span   source.Span
}

func (s *Script) Pos() source.Pos { return s.Span.Start }
func (s *Script) End() source.Pos { return s.Span.End }
func (*Script) node()             {}
func (*Script) writing()          {}
