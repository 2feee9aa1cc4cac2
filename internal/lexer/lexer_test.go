package lexer

import (
	"testing"

	"github.com/pdfo-lang/pdfo/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func values(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Value
	}
	return out
}

func eqKinds(t *testing.T, got, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("kind count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %s, want %s\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

func TestLexPlainWord(t *testing.T) {
	toks, err := Lex("hello", 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eqKinds(t, kinds(toks), []token.Kind{token.FileStart, token.Word, token.FileEnd})
	if toks[1].Value != "hello" {
		t.Fatalf("word value = %q, want %q", toks[1].Value, "hello")
	}
}

func TestLexParagraphBreakCollapsing(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"single newline is whitespace", "a\nb", []token.Kind{token.FileStart, token.Word, token.Word, token.FileEnd}},
		{"two newlines break", "a\n\nb", []token.Kind{token.FileStart, token.Word, token.ParagraphBreak, token.Word, token.FileEnd}},
		{"three newlines still one break", "a\n\n\nb", []token.Kind{token.FileStart, token.Word, token.ParagraphBreak, token.Word, token.FileEnd}},
		{"crlf counts as one eol", "a\r\nb", []token.Kind{token.FileStart, token.Word, token.Word, token.FileEnd}},
		{"two crlf breaks", "a\r\n\r\nb", []token.Kind{token.FileStart, token.Word, token.ParagraphBreak, token.Word, token.FileEnd}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Lex(c.src, 0)
			if err != nil {
				t.Fatalf("Lex(%q): %v", c.src, err)
			}
			eqKinds(t, kinds(toks), c.want)
		})
	}
}

func TestLexEscapeDiscipline(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"double backslash before escapable yields one literal backslash", `a\\b`, `a\b`},
		{"quadruple backslash before brace collapses to two literal", `a\\\\{b}`, `a\\b`},
		{"escaped brace is plain text", `a\{b`, `a{b`},
		{"escaped paren is plain text", `a\(b`, `a(b`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Lex(c.src, 0)
			if err != nil {
				t.Fatalf("Lex(%q): %v", c.src, err)
			}
			var words []string
			for _, tk := range toks {
				if tk.Kind == token.Word {
					words = append(words, tk.Value)
				}
			}
			got := ""
			for _, w := range words {
				got += w
			}
			if got != c.want {
				t.Fatalf("Lex(%q) plain text = %q, want %q", c.src, got, c.want)
			}
		})
	}
}

func TestLexQuadrupleBackslashLeavesBraceUnescaped(t *testing.T) {
	toks, err := Lex(`a\\\\{b}`, 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eqKinds(t, kinds(toks), []token.Kind{
		token.FileStart, token.Word, token.OpenBrace, token.Word, token.CloseBrace, token.FileEnd,
	})
}

func TestLexGrouping(t *testing.T) {
	toks, err := Lex(`\foo(a, b=c){body}`, 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eqKinds(t, kinds(toks), []token.Kind{
		token.FileStart, token.Identifier, token.OpenParen, token.Word, token.Comma,
		token.Word, token.Equals, token.Word, token.CloseParen, token.OpenBrace,
		token.Word, token.CloseBrace, token.FileEnd,
	})
	if toks[1].Value != "foo" {
		t.Fatalf("identifier value = %q, want %q", toks[1].Value, "foo")
	}
}

func TestLexUnmatchedBraceIsError(t *testing.T) {
	if _, err := Lex(`a{b`, 0); err == nil {
		t.Fatal("expected error for unmatched opening brace")
	}
	if _, err := Lex(`a}b`, 0); err == nil {
		t.Fatal("expected error for unmatched closing brace")
	}
}

func TestLexIdentifierRequiresName(t *testing.T) {
	if _, err := Lex(`\ `, 0); err == nil {
		t.Fatal("expected error for empty macro name")
	}
}

func TestLexScriptVariants(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind token.Kind
		body string
	}{
		{"one-line pass-1 exec", `\>x=1<\`, token.Pass1Exec, "x=1"},
		{"one-line pass-1 exec terminated by newline", "\\>x=1\n", token.Pass1Exec, "x=1"},
		{"multi-line pass-1 exec", "\\->\nx=1\n<-\\", token.Pass1Exec, "\nx=1\n"},
		{"one-line pass-1 eval", `\?>x<\`, token.Pass1Eval, "x"},
		{"multi-line pass-1 eval", `\1?->x<-\`, token.Pass1Eval, "x"},
		{"one-line pass-2 exec", `\2>x=1<\`, token.Pass2Exec, "x=1"},
		{"multi-line pass-2 exec", `\2->x<-\`, token.Pass2Exec, "x"},
		{"one-line pass-2 eval", `\2?>x<\`, token.Pass2Eval, "x"},
		{"multi-line pass-2 eval", `\?->x<-\`, token.Pass2Eval, "x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Lex(c.src, 0)
			if err != nil {
				t.Fatalf("Lex(%q): %v", c.src, err)
			}
			var found *token.Token
			for i := range toks {
				if toks[i].Kind.IsScript() {
					found = &toks[i]
					break
				}
			}
			if found == nil {
				t.Fatalf("Lex(%q): no script token found among %v", c.src, kinds(toks))
			}
			if found.Kind != c.kind {
				t.Fatalf("Lex(%q): script kind = %s, want %s", c.src, found.Kind, c.kind)
			}
			if found.Value != c.body {
				t.Fatalf("Lex(%q): script body = %q, want %q", c.src, found.Value, c.body)
			}
		})
	}
}

func TestLexCommentSuppressesDoubleParagraphBreak(t *testing.T) {
	toks, err := Lex("a\n\n\\% a comment\nb", 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eqKinds(t, kinds(toks), []token.Kind{
		token.FileStart, token.Word, token.ParagraphBreak, token.Word, token.FileEnd,
	})
}

func TestLexMultiLineComment(t *testing.T) {
	toks, err := Lex("a\\%-> dropped entirely\nstill dropped <-\\b", 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eqKinds(t, kinds(toks), []token.Kind{token.FileStart, token.Word, token.Word, token.FileEnd})
	if got := values(toks); got[1] != "a" || got[2] != "b" {
		t.Fatalf("words = %v, want [a b]", got)
	}
}

func TestLexUnterminatedMultiLineScriptIsError(t *testing.T) {
	if _, err := Lex("\\->x=1", 0); err == nil {
		t.Fatal("expected error for unterminated multi-line script")
	}
}

func TestLexSpaceBefore(t *testing.T) {
	toks, err := Lex("a \\foo", 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	var ident *token.Token
	for i := range toks {
		if toks[i].Kind == token.Identifier {
			ident = &toks[i]
		}
	}
	if ident == nil {
		t.Fatal("no identifier token found")
	}
	if !ident.SpaceBefore {
		t.Fatal("expected SpaceBefore = true for identifier preceded by a space")
	}
}
