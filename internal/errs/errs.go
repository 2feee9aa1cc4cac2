// Package errs defines pdfo's error taxonomy (spec.md §7): every error
// carries a source span, a short kind, and a detail string, and runtime
// errors additionally carry a context chain for a traceback.
//
// Grounded on btouchard-gmx/internal/compiler/errors.CompileError/ErrorList
// (phase tag, Add/HasErrors/String), extended with the source-excerpt +
// caret rendering spec.md §7 requires and the Frame traceback chain spec.md
// asks for on ScriptError/runtime errors.
package errs

import (
	"fmt"
	"strings"

	"github.com/pdfo-lang/pdfo/internal/source"
)

// Kind is the taxonomy tag from spec.md §7.
type Kind string

const (
	KindScan      Kind = "ScanError"
	KindParse     Kind = "ParseError"
	KindResolve   Kind = "ResolveError"
	KindImport    Kind = "ImportError"
	KindScript    Kind = "ScriptError"
	KindPlacement Kind = "PlacementError"
	KindDraw      Kind = "DrawError"
)

// Frame is one entry of a runtime error's context chain: the display name
// of the context it happened in (macro name, file name, "top level") and
// the position that invoked it.
type Frame struct {
	Name string
	At   source.Pos
}

// Error is a single pdfo diagnostic. It implements the standard error
// interface so it composes with %w/errors.Is/errors.As, but callers that
// need the full span/kind/context should type-assert to *Error.
type Error struct {
	Kind    Kind
	Span    source.Span
	Detail  string
	Context []Frame // innermost-last; empty for scan/parse errors
	Cause   error   // wrapped host error, e.g. a ScriptError's native panic value
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Kind, e.Span.Start, e.Detail)
	for i := len(e.Context) - 1; i >= 0; i-- {
		f := e.Context[i]
		fmt.Fprintf(&b, "\n  at %s (%s)", f.Name, f.At)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no context chain (scan/parse/resolve/import
// errors are typically raised this way, close to the scanner/parser).
func New(kind Kind, span source.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a context frame to err and returns it, building up a
// traceback as a runtime error propagates out through nested macro/file
// contexts. If err is not *Error it is boxed into a ScriptError first.
func Wrap(err error, frame Frame) *Error {
	ce, ok := err.(*Error)
	if !ok {
		ce = &Error{Kind: KindScript, Detail: err.Error(), Cause: err}
	}
	ce.Context = append(ce.Context, frame)
	return ce
}

// Excerpt renders a three-line source excerpt centered on span.Start with a
// caret underline, as spec.md §7 requires for user-visible output. lines is
// the full source split on '\n' (1-based line numbers, matching source.Pos).
func Excerpt(lines []string, span source.Span) string {
	line := span.Start.Line
	var b strings.Builder
	for l := line - 1; l <= line+1; l++ {
		if l < 1 || l > len(lines) {
			continue
		}
		fmt.Fprintf(&b, "%4d | %s\n", l, lines[l-1])
		if l == line {
			col := span.Start.Column
			if col < 1 {
				col = 1
			}
			width := span.End.Column - span.Start.Column
			if width < 1 || span.End.Line != span.Start.Line {
				width = 1
			}
			fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
		}
	}
	return b.String()
}

// List collects multiple diagnostics, mirroring
// btouchard-gmx/internal/compiler/errors.ErrorList.
type List struct {
	Errors []*Error
}

func (l *List) Add(e *Error)     { l.Errors = append(l.Errors, e) }
func (l *List) HasErrors() bool  { return len(l.Errors) > 0 }
func (l *List) Error() string {
	var b strings.Builder
	for _, e := range l.Errors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
