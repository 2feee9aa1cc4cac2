// Package interp walks the syntax tree and produces the expanded token
// stream the placer consumes (spec.md §4.4, "Interpreter"). It executes
// macro definitions, expands macro calls, runs pass-1 scripts immediately,
// and defers pass-2 scripts as snapshotted closures.
//
// Grounded on orig/src/compiler.py's Visitor-style tree walk (visit_file,
// visit_document, visit_paragraph, visit_script, visit_macro_call), kept in
// the teacher's one-struct-per-phase shape (aleksadvaisly-md2pdf/
// processor.go's Renderer walking a tree and accumulating output).
package interp

import (
	"fmt"

	"github.com/pdfo-lang/pdfo/internal/ast"
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/script"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/symtab"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// ReturnVar is the convention variable name a Pass1Exec block leaves its
// result in, mirroring orig/src/tools.py's exec_python popping a variable
// literally named "ret" out of locals-then-globals after running an exec
// block's statements (spec.md §4.4: "if a convention variable named by the
// host is set, take its value").
const ReturnVar = "ret"

// DefaultMaxDepth bounds macro-expansion recursion (spec.md §4.4: "Recursion
// depth is bounded by a configurable guard (default large)").
const DefaultMaxDepth = 500

// BuiltinFunc is a macro implemented in Go rather than by user `name =
// {...}` source — the hook import-graph built-ins (\insert, \import) are
// wired through. internal/imports owns path resolution/caching; this
// package only knows how to invoke whatever is bound to a name.
type BuiltinFunc func(p *Interp, ctx *symtab.Context, call *ast.MacroCall) ([]stream.Item, error)

// Interp holds the configuration shared across one compile: the scripting
// host pass-1/pass-2 scripts run against, and the expansion depth guard.
type Interp struct {
	Host     *script.Host
	MaxDepth int
}

// New builds an Interp with the default recursion guard.
func New(host *script.Host) *Interp {
	return &Interp{Host: host, MaxDepth: DefaultMaxDepth}
}

// File visits the whole file's document at depth 0.
func (p *Interp) File(ctx *symtab.Context, f *ast.File) ([]stream.Item, error) {
	return p.document(ctx, f.Document, 0)
}

// document visits each paragraph in order; at the top level (ctx.AtTopLevel)
// every emitted item is also appended to the context's accumulated stream,
// per spec.md §4.4's Document rule.
func (p *Interp) document(ctx *symtab.Context, d *ast.Document, depth int) ([]stream.Item, error) {
	var items []stream.Item
	for _, para := range d.Paragraphs {
		it, err := p.paragraph(ctx, para, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, it...)
	}
	if ctx.AtTopLevel {
		ctx.AppendItems(items...)
	}
	return items, nil
}

// paragraph visits its single writing; if it had a leading break and the
// writing produced anything, the break is emitted before those items, so an
// empty macro call never injects a stray break.
func (p *Interp) paragraph(ctx *symtab.Context, para *ast.Paragraph, depth int) ([]stream.Item, error) {
	items, err := p.writing(ctx, para.Writing, depth)
	if err != nil {
		return nil, err
	}
	if para.LeadingBreak && len(items) > 0 {
		brk := stream.OfToken(token.Token{Kind: token.ParagraphBreak, Span: para.Span})
		items = append([]stream.Item{brk}, items...)
	}
	return items, nil
}

func (p *Interp) writing(ctx *symtab.Context, w ast.Writing, depth int) ([]stream.Item, error) {
	switch n := w.(type) {
	case *ast.PlainText:
		return p.plainText(n), nil
	case *ast.TextGroup:
		return p.textGroup(ctx, n, depth)
	case *ast.MacroDefinition:
		return p.macroDefinition(ctx, n)
	case *ast.MacroCall:
		return p.macroCall(ctx, n, depth)
	case *ast.Script:
		return p.script(ctx, n)
	default:
		return nil, fmt.Errorf("interp: unhandled writing node %T", w)
	}
}

// plainText re-splits the parser's space-joined aggregate back into Word
// tokens: the parser inserted exactly one literal space wherever a
// sub-token's SpaceBefore was true (see internal/parser's parsePlainText),
// so splitting on plain spaces recovers the original token boundaries.
func (p *Interp) plainText(n *ast.PlainText) []stream.Item {
	return wordItems(n.Text, n.SpaceBefore, n.Span)
}

// textGroup visits the group's document; the first emitted token's
// space_before is overridden to the opening brace's, per spec.md §4.4.
func (p *Interp) textGroup(ctx *symtab.Context, g *ast.TextGroup, depth int) ([]stream.Item, error) {
	items, err := p.document(ctx, g.Document, depth)
	if err != nil {
		return nil, err
	}
	setLeadingSpaceBefore(items, g.SpaceBefore)
	return items, nil
}

// macroDefinition binds name in the local symbol table and emits nothing.
func (p *Interp) macroDefinition(ctx *symtab.Context, d *ast.MacroDefinition) ([]stream.Item, error) {
	ctx.Symbols.Set(d.Name, d)
	return nil, nil
}

// script implements spec.md §4.4's four Script variants.
func (p *Interp) script(ctx *symtab.Context, s *ast.Script) ([]stream.Item, error) {
	if s.Pass == ast.Pass2 {
		// Do not execute now: emit a deferred-script token carrying a snapshot
		// of the locals active here. Globals are intentionally the live map,
		// not a copy — spec.md §4.4 only snapshots locals.
		d := token.Deferred{
			Token:   token.Token{Kind: pass2Kind(s.IsEval), Value: s.Source, Span: s.Span},
			Locals:  snapshot(ctx.Locals()),
			Globals: ctx.Globals(),
		}
		return []stream.Item{stream.OfDeferred(d)}, nil
	}

	if s.IsEval {
		v, err := p.Host.Eval(s.Source, ctx.Globals(), ctx.Locals())
		if err != nil {
			return nil, errs.New(errs.KindScript, s.Span, "%s", err)
		}
		return valueToItems(v, s.Span)
	}

	if err := p.Host.Exec(s.Source, ctx.Globals(), ctx.Locals()); err != nil {
		return nil, errs.New(errs.KindScript, s.Span, "%s", err)
	}
	v, ok := takeReturnVar(ctx)
	if !ok {
		return nil, nil
	}
	return valueToItems(v, s.Span)
}

func pass2Kind(isEval bool) token.Kind {
	if isEval {
		return token.Pass2Eval
	}
	return token.Pass2Exec
}

// takeReturnVar pops ReturnVar from locals, then globals, matching
// orig/src/tools.py's exec_python lookup order.
func takeReturnVar(ctx *symtab.Context) (any, bool) {
	return takeReturnVarFrom(ctx.Locals(), ctx.Globals())
}

func valueToItems(v any, span source.Span) ([]stream.Item, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return wordItems(t, false, span), nil
	case script.StyledText:
		return styledTextItems(t, false, span), nil
	default:
		return nil, errs.New(errs.KindScript, span, "script result must be nil, a string, or style-bearing text, got %T", v)
	}
}

func snapshot(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func setLeadingSpaceBefore(items []stream.Item, spaceBefore bool) {
	SetLeadingSpaceBefore(items, spaceBefore)
}

// SetLeadingSpaceBefore patches the first token-bearing item's SpaceBefore,
// skipping over any leading marker items (which carry none). Exported so
// internal/imports can apply the same call-site space_before adjustment
// spec.md §4.4/§4.5 both require, to an inserted or imported file's output.
func SetLeadingSpaceBefore(items []stream.Item, spaceBefore bool) {
	for i := range items {
		if items[i].Kind == stream.TokenItem {
			items[i].Token.SpaceBefore = spaceBefore
			return
		}
		if items[i].Kind == stream.DeferredItem {
			items[i].Deferred.Token.SpaceBefore = spaceBefore
			return
		}
		// Marker items carry no space_before; skip past them to the first
		// actual token/deferred item.
	}
}
