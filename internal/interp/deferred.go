package interp

import (
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/script"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// ExecDeferred runs a pass-2 script's closure against its snapshotted
// locals and live globals, the placement-time half of spec.md §4.4's
// Pass2{Exec,Eval} rule ("carries a snapshot of current script locals").
// internal/placer calls this when its line-breaking loop reaches a
// token.Deferred item — this package owns the convention (ReturnVar,
// string/StyledText result shapes) so the placer does not have to
// duplicate it.
func ExecDeferred(host *script.Host, d token.Deferred) ([]stream.Item, error) {
	if d.Token.Kind.IsEval() {
		v, err := host.Eval(d.Token.Value, d.Globals, d.Locals)
		if err != nil {
			return nil, errs.New(errs.KindScript, d.Token.Span, "%s", err)
		}
		return valueToItems(v, d.Token.Span)
	}

	if err := host.Exec(d.Token.Value, d.Globals, d.Locals); err != nil {
		return nil, errs.New(errs.KindScript, d.Token.Span, "%s", err)
	}
	v, ok := takeReturnVarFrom(d.Locals, d.Globals)
	if !ok {
		return nil, nil
	}
	return valueToItems(v, d.Token.Span)
}

func takeReturnVarFrom(locals, globals map[string]any) (any, bool) {
	if locals != nil {
		if v, ok := locals[ReturnVar]; ok {
			delete(locals, ReturnVar)
			return v, true
		}
	}
	if globals != nil {
		if v, ok := globals[ReturnVar]; ok {
			delete(globals, ReturnVar)
			return v, true
		}
	}
	return nil, false
}
