package interp

import (
	"github.com/pdfo-lang/pdfo/internal/ast"
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/symtab"
)

// CodeBuiltin implements SPEC_FULL's \code{...} / \code{lang}{...} built-in
// macro: a verbatim block that bypasses word-by-word placement entirely.
// Grounded on aleksadvaisly-md2pdf/processor.go's processCodeblock (a
// fenced block carries an optional language tag plus its literal body) and
// registered the same way internal/imports.Register wires \insert/\import
// — a BuiltinFunc bound into the root symbol table rather than a special
// case in macroCall's switch, so \code composes with user shadowing and
// scoping exactly like any other macro name would.
//
// Its body text is produced by StringifyGroup, the same literal-text
// rendering a macro's positional arguments get for their script-locals
// binding (spec.md §4.4) — consistent with the rest of this language
// having no separate "raw" lexer mode for code bodies; words inside the
// group already passed through the ordinary whitespace-collapsing lexer
// rules before this builtin ever sees them.
func CodeBuiltin() BuiltinFunc {
	return func(p *Interp, ctx *symtab.Context, call *ast.MacroCall) ([]stream.Item, error) {
		var lang, body string
		switch len(call.PositionalArgs) {
		case 1:
			body = StringifyGroup(call.PositionalArgs[0])
		case 2:
			lang = StringifyGroup(call.PositionalArgs[0])
			body = StringifyGroup(call.PositionalArgs[1])
		default:
			return nil, errs.New(errs.KindResolve, call.Span,
				"%q expects 1 ({code}) or 2 ({lang}{code}) arguments, got %d", call.Name, len(call.PositionalArgs))
		}
		return []stream.Item{stream.OfVerbatim(stream.Verbatim{Lang: lang, Text: body, Span: call.Span})}, nil
	}
}

// RegisterBuiltins binds every Go-implemented macro that does not need a
// file-system/import-graph handle (unlike \insert/\import, which
// internal/imports.Register wires separately since only that package
// holds a *imports.Graph).
func RegisterBuiltins(root *symtab.SymbolTable) {
	root.Set("code", CodeBuiltin())
}
