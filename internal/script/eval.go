package script

import (
	"fmt"
)

// Func is a builtin callable a Host exposes to script source through its
// globals or locals map — the scripting-host equivalent of a macro's Go
// implementation.
type Func func(args []any) (any, error)

// Host runs script source against caller-supplied globals/locals maps.
// It has no state of its own: every call is pure with respect to the maps
// passed in, matching spec.md §9's contract — "(a) execute a source string
// in a globals-and-locals environment; (b) evaluate an expression returning
// a string or style-bearing text or nil; (c) raise an exception capturable
// into ScriptError."
type Host struct{}

// NewHost constructs a Host. It carries no configuration today but exists
// as a named type so callers have a stable seam if the host ever needs
// shared state (a sandbox timeout, a registered builtin table).
func NewHost() *Host { return &Host{} }

// Exec runs source (a pass-1 or pass-2 exec block's body) as a sequence of
// statements. Assignments mutate locals in place; globals is consulted for
// names locals doesn't define and is itself mutable through calls made
// against it (a builtin closing over the same map a caller passed in).
func (h *Host) Exec(source string, globals, locals map[string]any) error {
	toks, err := tokenize(source)
	if err != nil {
		return &ScriptError{Err: err}
	}
	stmts, err := parseStatements(toks)
	if err != nil {
		return &ScriptError{Err: err}
	}
	env := &env{globals: globals, locals: locals}
	for _, s := range stmts {
		if err := execStmt(env, s); err != nil {
			return &ScriptError{Err: err}
		}
	}
	return nil
}

// Eval runs source (a pass-1 or pass-2 eval block's body) as a single
// expression and returns its value.
func (h *Host) Eval(source string, globals, locals map[string]any) (any, error) {
	toks, err := tokenize(source)
	if err != nil {
		return nil, &ScriptError{Err: err}
	}
	e, err := parseExpression(toks)
	if err != nil {
		return nil, &ScriptError{Err: err}
	}
	env := &env{globals: globals, locals: locals}
	v, err := evalExpr(env, e)
	if err != nil {
		return nil, &ScriptError{Err: err}
	}
	return v, nil
}

// ScriptError wraps any failure raised while running script source —
// a lex/parse error in the script language itself, an undefined name, a
// type mismatch, or a builtin's own reported error. internal/errs wraps
// this into a Kind=ScriptError *errs.Error at the call site, which is where
// the source span and context frame are available.
type ScriptError struct{ Err error }

func (e *ScriptError) Error() string { return e.Err.Error() }
func (e *ScriptError) Unwrap() error { return e.Err }

type env struct {
	globals map[string]any
	locals  map[string]any
}

func (e *env) lookup(name string) (any, bool) {
	if e.locals != nil {
		if v, ok := e.locals[name]; ok {
			return v, true
		}
	}
	if e.globals != nil {
		if v, ok := e.globals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func execStmt(e *env, s Stmt) error {
	switch s := s.(type) {
	case *AssignStmt:
		v, err := evalExpr(e, s.Value)
		if err != nil {
			return err
		}
		if e.locals == nil {
			e.locals = map[string]any{}
		}
		e.locals[s.Name] = v
		return nil
	case *ExprStmt:
		_, err := evalExpr(e, s.Value)
		return err
	default:
		return fmt.Errorf("unhandled statement type %T", s)
	}
}

func evalExpr(e *env, expr Expr) (any, error) {
	switch x := expr.(type) {
	case *IntLit:
		return x.Value, nil
	case *FloatLit:
		return x.Value, nil
	case *StringLit:
		return x.Value, nil
	case *BoolLit:
		return x.Value, nil
	case *NilLit:
		return nil, nil
	case *IdentExpr:
		v, ok := e.lookup(x.Name)
		if !ok {
			return nil, fmt.Errorf("undefined name %q", x.Name)
		}
		return v, nil
	case *UnaryExpr:
		return evalUnary(e, x)
	case *BinaryExpr:
		return evalBinary(e, x)
	case *MemberExpr:
		return evalMember(e, x)
	case *CallExpr:
		return evalCall(e, x)
	default:
		return nil, fmt.Errorf("unhandled expression type %T", expr)
	}
}

func evalUnary(e *env, x *UnaryExpr) (any, error) {
	v, err := evalExpr(e, x.Operand)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case Bang:
		return !truthy(v), nil
	case Minus:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, fmt.Errorf("cannot negate %T", v)
	default:
		return nil, fmt.Errorf("unhandled unary operator %s", x.Op)
	}
}

func evalBinary(e *env, x *BinaryExpr) (any, error) {
	if x.Op == And {
		l, err := evalExpr(e, x.Left)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return false, nil
		}
		r, err := evalExpr(e, x.Right)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}
	if x.Op == Or {
		l, err := evalExpr(e, x.Left)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return true, nil
		}
		r, err := evalExpr(e, x.Right)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}

	l, err := evalExpr(e, x.Left)
	if err != nil {
		return nil, err
	}
	r, err := evalExpr(e, x.Right)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case Plus:
		if lt, ok := l.(StyledText); ok {
			rt, ok := asStyledText(r)
			if !ok {
				return nil, fmt.Errorf("cannot add style-bearing text and %T", r)
			}
			return Concat(lt, rt), nil
		}
		if rt, ok := r.(StyledText); ok {
			lt, ok := asStyledText(l)
			if !ok {
				return nil, fmt.Errorf("cannot add %T and style-bearing text", l)
			}
			return Concat(lt, rt), nil
		}
		if ls, ok := l.(string); ok {
			rs, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("cannot add string and %T", r)
			}
			return ls + rs, nil
		}
		return arith(x.Op, l, r)
	case Minus, Star, Slash, Percent:
		return arith(x.Op, l, r)
	case Eq:
		return equal(l, r), nil
	case NotEq:
		return !equal(l, r), nil
	case Lt, Gt, LtEq, GtEq:
		return compare(x.Op, l, r)
	default:
		return nil, fmt.Errorf("unhandled binary operator %s", x.Op)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func arith(op Kind, l, r any) (any, error) {
	li, lIsInt := l.(int64)
	ri, rIsInt := r.(int64)
	if lIsInt && rIsInt {
		switch op {
		case Plus:
			return li + ri, nil
		case Minus:
			return li - ri, nil
		case Star:
			return li * ri, nil
		case Slash:
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return li / ri, nil
		case Percent:
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return li % ri, nil
		}
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("cannot apply %s to %T and %T", op, l, r)
	}
	switch op {
	case Plus:
		return lf + rf, nil
	case Minus:
		return lf - rf, nil
	case Star:
		return lf * rf, nil
	case Slash:
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf / rf, nil
	case Percent:
		return nil, fmt.Errorf("%% requires integer operands")
	}
	return nil, fmt.Errorf("unhandled arithmetic operator %s", op)
}

func compare(op Kind, l, r any) (any, error) {
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if lok && rok {
		switch op {
		case Lt:
			return lf < rf, nil
		case Gt:
			return lf > rf, nil
		case LtEq:
			return lf <= rf, nil
		case GtEq:
			return lf >= rf, nil
		}
	}
	ls, lIsStr := l.(string)
	rs, rIsStr := r.(string)
	if lIsStr && rIsStr {
		switch op {
		case Lt:
			return ls < rs, nil
		case Gt:
			return ls > rs, nil
		case LtEq:
			return ls <= rs, nil
		case GtEq:
			return ls >= rs, nil
		}
	}
	return nil, fmt.Errorf("cannot compare %T and %T", l, r)
}

func equal(l, r any) bool {
	if l == nil || r == nil {
		return l == r
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if lok && rok {
		return lf == rf
	}
	return l == r
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func evalMember(e *env, x *MemberExpr) (any, error) {
	target, err := evalExpr(e, x.Target)
	if err != nil {
		return nil, err
	}
	switch m := target.(type) {
	case map[string]any:
		v, ok := m[x.Name]
		if !ok {
			return nil, fmt.Errorf("no attribute %q", x.Name)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("cannot access attribute %q of %T", x.Name, target)
	}
}

func evalCall(e *env, x *CallExpr) (any, error) {
	callee, err := evalExpr(e, x.Callee)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Func)
	if !ok {
		return nil, fmt.Errorf("value is not callable: %T", callee)
	}
	args := make([]any, len(x.Args))
	for i, a := range x.Args {
		v, err := evalExpr(e, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args)
}
