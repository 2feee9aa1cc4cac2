// Package lexer implements the scanner described in spec.md §4.1: it turns
// one source file into an ordered token sequence, honoring the
// backslash-escape discipline, the eight script-block delimiter families,
// comments, paragraph-break collapsing, and brace/paren balance.
//
// The position-tracking, rune-at-a-time scan loop (readChar/peekChar,
// save-then-restore backtracking for multi-character lookahead) is grounded
// on btouchard-gmx/internal/compiler/lexer.Lexer, which uses the same shape
// to recognize its own multi-character `<script>`/`<template>` section
// tags. The escape-closure rule, the eight delimiter families, and their
// longest-prefix-first precedence are grounded on
// _examples/original_source/src/compiler.py (`_tokenize_cntrl_seq`,
// `_tokenize_python`, `_tokenize_comment`) and
// _examples/original_source/src/constants.py (`TT_M`).
package lexer

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// escapable is the set of characters spec.md §4.1 allows to be escaped.
var escapable = map[rune]bool{
	'{': true, '}': true, '=': true, '\\': true, '(': true, ')': true, ',': true,
}

// asciiLetter matches spec.md's identifier alphabet: A-Z, a-z, underscore.
func asciiLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

type delim struct {
	pattern string
	kind    token.Kind
	multi   bool
	isEval  bool
}

// Start delimiters, longest-prefix-first is enforced by sorting on pattern
// length at init time rather than relying on declaration order.
var starters = []delim{
	{"\\->", token.Pass1Exec, true, false},
	{"\\1->", token.Pass1Exec, true, false},
	{"\\1?->", token.Pass1Eval, true, true},
	{"\\2->", token.Pass2Exec, true, false},
	{"\\?->", token.Pass2Eval, true, true},
	{"\\>", token.Pass1Exec, false, false},
	{"\\1>", token.Pass1Exec, false, false},
	{"\\?>", token.Pass1Eval, false, true},
	{"\\1?>", token.Pass1Eval, false, true},
	{"\\2>", token.Pass2Exec, false, false},
	{"\\2?>", token.Pass2Eval, false, true},
}

var commentStarters = []string{"\\%->", "\\#->", "\\%", "\\#"}

func init() {
	sort.Slice(starters, func(i, j int) bool { return len(starters[i].pattern) > len(starters[j].pattern) })
	sort.Slice(commentStarters, func(i, j int) bool { return len(commentStarters[i]) > len(commentStarters[j]) })
}

// terminators for each (kind, multi, isEval) combination, per TT_M in
// original_source/src/constants.py.
func terminators(kind token.Kind, multi, isEval bool) []string {
	switch {
	case kind == token.Pass1Exec && multi:
		return []string{"<-\\", "<-1\\"}
	case kind == token.Pass1Exec && !multi:
		return []string{"<\\", "<1\\"}
	case kind == token.Pass1Eval && multi:
		return []string{"<-\\", "<-?1\\"}
	case kind == token.Pass1Eval && !multi:
		return []string{"<\\", "<?\\", "<?1\\"}
	case kind == token.Pass2Exec && multi:
		return []string{"<-\\", "<-2\\"}
	case kind == token.Pass2Exec && !multi:
		return []string{"<\\", "<2\\"}
	case kind == token.Pass2Eval && multi:
		return []string{"<-\\", "<-?\\"}
	case kind == token.Pass2Eval && !multi:
		return []string{"<\\", "<?\\", "<?2\\"}
	}
	return nil
}

// Lexer scans one source file into a token slice.
type Lexer struct {
	input string
	file  source.FileID
	pos   source.Pos // position of the next unread rune
	idx   int        // byte offset of the next unread rune (== pos.Byte)

	tokens []token.Token

	plainStart  source.Pos
	plainText   []rune
	plainSpace  bool
	havePlain   bool

	openBraces int
	openParens int
	firstBrace source.Pos
	firstParen source.Pos
}

// New creates a Lexer over text belonging to file.
func New(text string, file source.FileID) *Lexer {
	return &Lexer{input: text, file: file, pos: source.Start(file)}
}

// Lex tokenizes the whole input and returns FileStart...FileEnd-bounded
// tokens, or the first ScanError encountered.
func Lex(text string, file source.FileID) ([]token.Token, error) {
	l := New(text, file)
	return l.run()
}

func (l *Lexer) run() ([]token.Token, error) {
	l.tokens = append(l.tokens, token.Token{Kind: token.FileStart, Span: source.Span{Start: l.pos, End: l.pos}})

	for l.idx < len(l.input) {
		if err := l.step(); err != nil {
			return nil, err
		}
	}
	l.flushPlain()

	if l.openBraces > 0 {
		return nil, errs.New(errs.KindScan, source.Span{Start: l.firstBrace, End: l.firstBrace},
			"%d unpaired, unescaped opening curly brace(s); escape each with a backslash or pair it with '}'.", l.openBraces)
	}
	if l.openParens > 0 {
		return nil, errs.New(errs.KindScan, source.Span{Start: l.firstParen, End: l.firstParen},
			"%d unpaired, unescaped opening parenthes(es); escape each with a backslash or pair it with ')'.", l.openParens)
	}

	l.tokens = append(l.tokens, token.Token{Kind: token.FileEnd, Span: source.Span{Start: l.pos, End: l.pos}})
	return l.tokens, nil
}

// --- rune access helpers -----------------------------------------------

func (l *Lexer) at(i int) (rune, int) {
	if i >= len(l.input) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.input[i:])
	return r, size
}

func (l *Lexer) current() rune {
	r, _ := l.at(l.idx)
	return r
}

func (l *Lexer) advance() {
	r, size := l.at(l.idx)
	if size == 0 {
		return
	}
	l.pos = l.pos.Advance(r)
	l.idx += size
}

// prevByteIsSpace reports whether the byte immediately before idx is
// horizontal or vertical whitespace, used to seed SpaceBefore for the very
// first plain-text rune in a run.
func (l *Lexer) prevByteIsSpace() bool {
	if l.idx == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(l.input[:l.idx])
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// eolAt returns the byte length of the end-of-line sequence that begins at
// byte offset i, or 0 if there is none ("\r\n" counts as one).
func eolAt(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	if s[i] == '\r' {
		if i+1 < len(s) && s[i+1] == '\n' {
			return 2
		}
		return 1
	}
	if s[i] == '\n' || s[i] == '\f' {
		return 1
	}
	return 0
}

func isNonEOLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v'
}

// --- escape discipline ---------------------------------------------------

// isEscaped reports whether the rune at byte offset i is preceded by an odd
// number of consecutive backslashes (spec.md §4.1).
func (l *Lexer) isEscaped(i int) bool {
	r, _ := l.at(i)
	if !escapable[r] {
		return false
	}
	count := 0
	j := i
	for j > 0 && l.input[j-1] == '\\' {
		count++
		j--
	}
	return count%2 == 1
}

// isEscaping reports whether the rune at byte offset i is a backslash that
// is itself the escape for the following escapable character (and so is
// suppressed rather than emitted).
func (l *Lexer) isEscaping(i int) bool {
	if i >= len(l.input) || l.input[i] != '\\' {
		return false
	}
	r, size := l.at(i + 1)
	return size > 0 && escapable[r]
}

// --- main scan loop -------------------------------------------------------

func (l *Lexer) step() error {
	i := l.idx
	cc := l.current()

	switch {
	case l.isEscaped(i):
		l.plainChar()
		return nil
	case l.isEscaping(i):
		l.advance()
		return nil
	}

	if n := eolAt(l.input, i); n > 0 {
		l.flushPlain()
		start := l.pos
		l.consume(n)
		count := 1
		for {
			if m := eolAt(l.input, l.idx); m > 0 {
				l.consume(m)
				count++
				continue
			}
			break
		}
		if count >= 2 {
			l.tokens = append(l.tokens, token.Token{Kind: token.ParagraphBreak, Span: source.Span{Start: start, End: l.pos}})
		}
		return nil
	}

	if isNonEOLSpace(cc) {
		l.flushPlain()
		l.advance()
		return nil
	}

	switch cc {
	case '{':
		l.flushPlain()
		if l.openBraces == 0 {
			l.firstBrace = l.pos
		}
		l.openBraces++
		start := l.pos
		sp := l.prevByteIsSpace()
		l.advance()
		l.tokens = append(l.tokens, token.Token{Kind: token.OpenBrace, Value: "{", Span: source.Span{Start: start, End: l.pos}, SpaceBefore: sp})
		return nil
	case '}':
		l.flushPlain()
		l.openBraces--
		if l.openBraces < 0 {
			return errs.New(errs.KindScan, source.Span{Start: l.pos, End: l.pos.Advance('}')},
				`unpaired, unescaped closing curly brace "}"; add a matching "{" or escape it.`)
		}
		start := l.pos
		sp := l.prevByteIsSpace()
		l.advance()
		l.tokens = append(l.tokens, token.Token{Kind: token.CloseBrace, Value: "}", Span: source.Span{Start: start, End: l.pos}, SpaceBefore: sp})
		return nil
	case '(':
		l.flushPlain()
		if l.openParens == 0 {
			l.firstParen = l.pos
		}
		l.openParens++
		start := l.pos
		sp := l.prevByteIsSpace()
		l.advance()
		l.tokens = append(l.tokens, token.Token{Kind: token.OpenParen, Value: "(", Span: source.Span{Start: start, End: l.pos}, SpaceBefore: sp})
		return nil
	case ')':
		l.flushPlain()
		l.openParens--
		if l.openParens < 0 {
			return errs.New(errs.KindScan, source.Span{Start: l.pos, End: l.pos.Advance(')')},
				`unpaired, unescaped closing parenthesis ")"; add a matching "(" or escape it.`)
		}
		start := l.pos
		sp := l.prevByteIsSpace()
		l.advance()
		l.tokens = append(l.tokens, token.Token{Kind: token.CloseParen, Value: ")", Span: source.Span{Start: start, End: l.pos}, SpaceBefore: sp})
		return nil
	case ',':
		l.flushPlain()
		start := l.pos
		sp := l.prevByteIsSpace()
		l.advance()
		l.tokens = append(l.tokens, token.Token{Kind: token.Comma, Value: ",", Span: source.Span{Start: start, End: l.pos}, SpaceBefore: sp})
		return nil
	case '=':
		l.flushPlain()
		start := l.pos
		sp := l.prevByteIsSpace()
		l.advance()
		l.tokens = append(l.tokens, token.Token{Kind: token.Equals, Value: "=", Span: source.Span{Start: start, End: l.pos}, SpaceBefore: sp})
		return nil
	case '\\':
		l.flushPlain()
		return l.controlSequence()
	default:
		l.plainChar()
		return nil
	}
}

// plainChar appends the current rune to the pending plain-text run.
func (l *Lexer) plainChar() {
	if !l.havePlain {
		l.plainStart = l.pos
		l.plainSpace = l.prevByteIsSpace()
		l.havePlain = true
	}
	r := l.current()
	l.plainText = append(l.plainText, r)
	l.advance()
}

func (l *Lexer) flushPlain() {
	if !l.havePlain {
		return
	}
	if len(l.plainText) > 0 {
		l.tokens = append(l.tokens, token.Token{
			Kind:        token.Word,
			Value:       string(l.plainText),
			Span:        source.Span{Start: l.plainStart, End: l.pos},
			SpaceBefore: l.plainSpace,
		})
	}
	l.plainText = l.plainText[:0]
	l.havePlain = false
}

// matchLongest tries each pattern (already sorted longest-first by the
// caller) against the input at the current offset, without consuming.
func (l *Lexer) matchLongest(patterns []string) (string, bool) {
	for _, p := range patterns {
		if l.startsWith(p) {
			return p, true
		}
	}
	return "", false
}

func (l *Lexer) startsWith(p string) bool {
	return len(l.input)-l.idx >= len(p) && l.input[l.idx:l.idx+len(p)] == p
}

func (l *Lexer) consume(n int) {
	for n > 0 {
		_, size := l.at(l.idx)
		if size == 0 {
			return
		}
		l.advance()
		n -= size
	}
}

// controlSequence dispatches a backslash to one of: a multi/one-line
// pass-1/pass-2 exec/eval script, a comment, or an identifier (macro
// name). Longer delimiters are tried before shorter ones.
func (l *Lexer) controlSequence() error {
	start := l.pos

	for _, d := range starters {
		if l.startsWith(d.pattern) {
			l.consume(len(d.pattern))
			return l.scriptBody(d, start)
		}
	}
	for _, c := range commentStarters {
		if l.startsWith(c) {
			l.consume(len(c))
			multi := len(c) >= 4 && c[len(c)-2:] == "->"
			return l.commentBody(multi, start)
		}
	}
	space := l.prevByteIsSpace()
	l.advance() // consume the introducing backslash
	return l.identifier(start, space)
}

// scriptBody consumes a script's raw source text up to (and, for one-line
// scripts ended by a bare line break, not including) its terminator.
func (l *Lexer) scriptBody(d delim, start source.Pos) error {
	term := terminators(d.kind, d.multi, d.isEval)

	var text []rune
	terminated := false
	for l.idx < len(l.input) {
		if m, ok := l.matchLongest(term); ok {
			l.consume(len(m))
			terminated = true
			break
		}
		if !d.multi {
			if n := eolAt(l.input, l.idx); n > 0 {
				// A bare line break ends a one-line script; leave it in
				// place for paragraph-break detection.
				terminated = true
				break
			}
		}
		text = append(text, l.current())
		l.advance()
	}
	if !terminated && d.multi {
		return errs.New(errs.KindScan, source.Span{Start: start, End: l.pos},
			"unterminated multi-line script: reached end of file with no matching closing delimiter.")
	}

	l.tokens = append(l.tokens, token.Token{Kind: d.kind, Value: string(text), Span: source.Span{Start: start, End: l.pos}})
	return nil
}

func (l *Lexer) commentBody(multi bool, start source.Pos) error {
	var term []string
	if multi {
		term = []string{"<-\\", "<-%\\", "<-#\\"}
	} else {
		term = []string{"%\\", "#\\"}
	}

	found := false
	for l.idx < len(l.input) {
		if m, ok := l.matchLongest(term); ok {
			l.consume(len(m))
			found = true
			break
		}
		if !multi {
			if n := eolAt(l.input, l.idx); n > 0 {
				found = true
				break
			}
		}
		l.advance()
	}
	if multi && !found {
		return errs.New(errs.KindScan, source.Span{Start: start, End: l.pos},
			`unterminated multi-line comment: reached end of file with no matching "<-\" (or "<-%%\"/"<-#\").`)
	}

	// If the token right before this comment was a ParagraphBreak, eat any
	// trailing end-of-line whitespace so the comment doesn't let a second
	// ParagraphBreak slip through (spec.md §4.1).
	if len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Kind == token.ParagraphBreak {
		for {
			if n := eolAt(l.input, l.idx); n > 0 {
				l.advance()
				continue
			}
			break
		}
	}
	return nil
}

func (l *Lexer) identifier(start source.Pos, space bool) error {
	var name []rune
	problemStart := l.pos
	for l.idx < len(l.input) {
		r := l.current()
		if asciiLetter(r) {
			name = append(name, r)
			l.advance()
			continue
		}
		break
	}
	if len(name) == 0 {
		got := "end of file"
		if l.idx < len(l.input) {
			got = fmt.Sprintf("%q", l.current())
		}
		return errs.New(errs.KindScan, source.Span{Start: problemStart, End: l.pos},
			"expected a macro name (letters or underscore) after '\\', found %s.", got)
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.Identifier, Value: string(name), Span: source.Span{Start: start, End: l.pos}, SpaceBefore: space})
	return nil
}
