// Package script implements the sandboxed expression/statement language
// that backs pdfo's embedded scripting host (spec.md §9, "Scripting host").
// Exec and Eval blocks in source documents are small Go-flavored
// expressions over the host's globals/locals maps, not a full general
// purpose language — spec.md leaves the exact language to the
// implementation and names only the contract: run a source string against
// a globals-and-locals environment, evaluate an expression to a value, and
// capture any failure as a *errs.Error of Kind ScriptError.
//
// Structurally grounded on btouchard-gmx/internal/compiler/script's
// Pratt-parser shape (precedence table, registerPrefix/registerInfix
// dispatch), scaled down to the handful of operators a macro-language host
// actually needs: arithmetic, comparison, boolean logic, member access,
// calls, and assignment.
package script

// Kind identifies a lexical token kind.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	String
	True
	False
	Nil

	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	Eq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	And
	Or
	Bang
	Dot
	Comma
	LParen
	RParen
	Semicolon
)

var names = map[Kind]string{
	EOF: "EOF", Ident: "IDENT", Int: "INT", Float: "FLOAT", String: "STRING",
	True: "true", False: "false", Nil: "nil",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	Eq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	And: "&&", Or: "||", Bang: "!", Dot: ".", Comma: ",",
	LParen: "(", RParen: ")", Semicolon: ";",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]Kind{
	"true": True, "false": False, "nil": Nil,
}

// Token is one lexical unit of a script source.
type Token struct {
	Kind  Kind
	Value string // identifier text, or the literal's source text
	Pos   int    // byte offset into the script source
}
