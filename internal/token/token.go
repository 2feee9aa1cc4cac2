// Package token defines the tagged-variant token produced by the lexer
// (spec.md §3, "Token"). Grounded on
// btouchard-gmx/internal/compiler/token.Token's (Type, Literal, Pos) shape,
// generalized to the grouping/structural/identifier/script kinds spec.md
// names and extended with SpaceBefore.
package token

import "github.com/pdfo-lang/pdfo/internal/source"

// Kind is the tag of a Token's variant.
type Kind int

const (
	ILLEGAL Kind = iota

	// grouping
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	Comma
	Equals

	// structural
	Word
	ParagraphBreak
	FileStart
	FileEnd

	// identifier
	Identifier

	// script
	Pass1Exec
	Pass1Eval
	Pass2Exec
	Pass2Eval
)

func (k Kind) String() string {
	switch k {
	case OpenBrace:
		return "OpenBrace"
	case CloseBrace:
		return "CloseBrace"
	case OpenParen:
		return "OpenParen"
	case CloseParen:
		return "CloseParen"
	case Comma:
		return "Comma"
	case Equals:
		return "Equals"
	case Word:
		return "Word"
	case ParagraphBreak:
		return "ParagraphBreak"
	case FileStart:
		return "FileStart"
	case FileEnd:
		return "FileEnd"
	case Identifier:
		return "Identifier"
	case Pass1Exec:
		return "Pass1Exec"
	case Pass1Eval:
		return "Pass1Eval"
	case Pass2Exec:
		return "Pass2Exec"
	case Pass2Eval:
		return "Pass2Eval"
	default:
		return "ILLEGAL"
	}
}

// Token is one lexical unit. Value holds the Word text, the Identifier
// name, or the raw script source for the four script kinds; it is unused
// for pure grouping/structural tokens.
type Token struct {
	Kind        Kind
	Value       string
	Span        source.Span
	SpaceBefore bool
}

func (t Token) Start() source.Pos { return t.Span.Start }
func (t Token) End() source.Pos   { return t.Span.End }

// IsScript reports whether k is one of the four pass/eval-vs-exec script
// kinds.
func (k Kind) IsScript() bool {
	switch k {
	case Pass1Exec, Pass1Eval, Pass2Exec, Pass2Eval:
		return true
	}
	return false
}

// IsPass2 reports whether k is a deferred (placement-time) script kind.
func (k Kind) IsPass2() bool {
	return k == Pass2Exec || k == Pass2Eval
}

// IsEval reports whether k evaluates an expression (vs. executing
// statements for side effect).
func (k Kind) IsEval() bool {
	return k == Pass1Eval || k == Pass2Eval
}

// Deferred is a pass-2 script token plus the snapshot of local bindings
// active when the interpreter reached it (spec.md §3, "Deferred-Script
// Token"). The placer executes the script later against these Locals and
// the (still shared, still mutable) globals map.
type Deferred struct {
	Token   Token
	Locals  map[string]any
	Globals map[string]any
}
