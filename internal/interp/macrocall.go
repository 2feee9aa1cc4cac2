package interp

import (
	"github.com/pdfo-lang/pdfo/internal/ast"
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/symtab"
)

// macroCall implements spec.md §4.4's MacroCall rule: resolve the name,
// either re-emitting a bound argument's TextGroup or expanding a macro
// definition's body against a freshly bound child context.
func (p *Interp) macroCall(ctx *symtab.Context, call *ast.MacroCall, depth int) ([]stream.Item, error) {
	if depth >= p.MaxDepth {
		return nil, errs.New(errs.KindScript, call.Span, "macro expansion exceeded depth %d (possible infinite recursion in %q)", p.MaxDepth, call.Name)
	}

	bound, ok := ctx.Symbols.Get(call.Name)
	if !ok {
		return nil, errs.New(errs.KindResolve, call.Span, "undefined macro %q", call.Name)
	}

	switch m := bound.(type) {
	case *ast.TextGroup:
		// call.Name currently names a macro *argument*, not a macro: visit the
		// bound group directly and adjust the leading space_before to the
		// call site's, same as any other macro expansion would.
		items, err := p.textGroup(ctx, m, depth+1)
		if err != nil {
			return nil, err
		}
		setLeadingSpaceBefore(items, call.SpaceBefore)
		return items, nil
	case BuiltinFunc:
		return m(p, ctx, call)
	case *ast.MacroDefinition:
		return p.expandMacro(ctx, m, call, depth)
	default:
		return nil, errs.New(errs.KindResolve, call.Span, "%q does not resolve to a macro", call.Name)
	}
}

func (p *Interp) expandMacro(ctx *symtab.Context, def *ast.MacroDefinition, call *ast.MacroCall, depth int) ([]stream.Item, error) {
	bindings, err := bindArguments(def, call)
	if err != nil {
		return nil, err
	}

	localsToAdd := make(map[string]any, len(bindings))
	for name, grp := range bindings {
		localsToAdd[name] = stringifyGroup(grp)
	}

	child := ctx.GenChild(def.Name, localsToAdd)
	for name, grp := range bindings {
		child.Symbols.Set(name, grp)
	}

	items, err := p.textGroup(child, def.Body, depth+1)
	if err != nil {
		return nil, errs.Wrap(err, errs.Frame{Name: def.Name, At: call.Span.Start})
	}
	setLeadingSpaceBefore(items, call.SpaceBefore)
	return items, nil
}

// bindArguments resolves positional and key arguments against a
// definition's parameter lists, per spec.md §4.4's arity rule: extra
// positionals beyond the declared positional params fill the declared
// key-params in order, and named key-arguments must name a declared
// key-param.
func bindArguments(def *ast.MacroDefinition, call *ast.MacroCall) (map[string]*ast.TextGroup, error) {
	minArgs := len(def.PositionalParams)
	maxArgs := minArgs + len(def.KeyParams)
	nPos := len(call.PositionalArgs)
	if nPos < minArgs || nPos > maxArgs {
		return nil, errs.New(errs.KindResolve, call.Span,
			"%q expects %d to %d positional arguments, got %d", call.Name, minArgs, maxArgs, nPos)
	}

	bound := make(map[string]*ast.TextGroup, maxArgs)
	for i, name := range def.PositionalParams {
		bound[name] = call.PositionalArgs[i]
	}
	// Extra positionals beyond the required params fill key-params in
	// declared order.
	extra := call.PositionalArgs[minArgs:]
	for i, grp := range extra {
		bound[def.KeyParams[i].Name] = grp
	}

	seen := make(map[string]bool, len(call.KeyArgs))
	for _, ka := range call.KeyArgs {
		if seen[ka.Name] {
			return nil, errs.New(errs.KindResolve, ka.Span, "duplicate key argument %q in call to %q", ka.Name, call.Name)
		}
		seen[ka.Name] = true
		if !isDeclaredKeyParam(def, ka.Name) {
			return nil, errs.New(errs.KindResolve, ka.Span, "%q has no key parameter %q", call.Name, ka.Name)
		}
		if _, already := bound[ka.Name]; already {
			return nil, errs.New(errs.KindResolve, ka.Span, "%q passed both positionally and by name in call to %q", ka.Name, call.Name)
		}
		bound[ka.Name] = ka.Value
	}

	// Key-params not supplied fall back to their declared default.
	for _, kp := range def.KeyParams {
		if _, ok := bound[kp.Name]; !ok {
			bound[kp.Name] = kp.Default
		}
	}

	return bound, nil
}

func isDeclaredKeyParam(def *ast.MacroDefinition, name string) bool {
	for _, kp := range def.KeyParams {
		if kp.Name == name {
			return true
		}
	}
	return false
}

// stringifyGroup renders a bound argument's TextGroup as plain text for the
// script-locals binding spec.md §4.4 requires: "a stringified form becomes
// a script local under the same name (so pass-2 scripts in the body can
// read the argument text)". Only PlainText contributes visible characters;
// nested macro calls/scripts are not executed for this purpose, matching
// the Python reference's str(group) producing the group's literal source
// text rather than its expansion.
func stringifyGroup(g *ast.TextGroup) string {
	return StringifyGroup(g)
}

// StringifyGroup renders a TextGroup as plain literal text, joining
// paragraphs with a blank line where the source had a paragraph break.
// Exported so internal/imports can read a path argument's literal text the
// same way a macro's bound parameters are stringified for script locals.
func StringifyGroup(g *ast.TextGroup) string {
	var out string
	for _, para := range g.Document.Paragraphs {
		if para.LeadingBreak && out != "" {
			out += "\n\n"
		}
		out += stringifyWriting(para.Writing)
	}
	return out
}

func stringifyWriting(w ast.Writing) string {
	switch n := w.(type) {
	case *ast.PlainText:
		if n.SpaceBefore {
			return " " + n.Text
		}
		return n.Text
	case *ast.TextGroup:
		return stringifyGroup(n)
	default:
		return ""
	}
}
