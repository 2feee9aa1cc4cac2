package parser

import (
	"testing"

	"github.com/pdfo-lang/pdfo/internal/ast"
	"github.com/pdfo-lang/pdfo/internal/lexer"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	toks, err := lexer.Lex(src, 0)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	f, err := Parse(toks, "<test>")
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return f
}

func TestParsePlainText(t *testing.T) {
	f := parse(t, "hello world")
	if len(f.Document.Paragraphs) != 1 {
		t.Fatalf("paragraphs = %d, want 1", len(f.Document.Paragraphs))
	}
	pt, ok := f.Document.Paragraphs[0].Writing.(*ast.PlainText)
	if !ok {
		t.Fatalf("writing = %T, want *ast.PlainText", f.Document.Paragraphs[0].Writing)
	}
	if pt.Text != "hello world" {
		t.Fatalf("text = %q, want %q", pt.Text, "hello world")
	}
}

func TestParseParagraphBreak(t *testing.T) {
	f := parse(t, "one\n\ntwo")
	if len(f.Document.Paragraphs) != 2 {
		t.Fatalf("paragraphs = %d, want 2", len(f.Document.Paragraphs))
	}
	if f.Document.Paragraphs[0].LeadingBreak {
		t.Fatal("first paragraph should not have a leading break")
	}
	if !f.Document.Paragraphs[1].LeadingBreak {
		t.Fatal("second paragraph should have a leading break")
	}
}

func TestParseTextGroup(t *testing.T) {
	f := parse(t, "{nested text}")
	grp, ok := f.Document.Paragraphs[0].Writing.(*ast.TextGroup)
	if !ok {
		t.Fatalf("writing = %T, want *ast.TextGroup", f.Document.Paragraphs[0].Writing)
	}
	if len(grp.Document.Paragraphs) != 1 {
		t.Fatalf("group paragraphs = %d, want 1", len(grp.Document.Paragraphs))
	}
	pt := grp.Document.Paragraphs[0].Writing.(*ast.PlainText)
	if pt.Text != "nested text" {
		t.Fatalf("group text = %q, want %q", pt.Text, "nested text")
	}
}

func TestParseMacroDefinitionNoParams(t *testing.T) {
	f := parse(t, "\\greeting = {Hello}")
	def, ok := f.Document.Paragraphs[0].Writing.(*ast.MacroDefinition)
	if !ok {
		t.Fatalf("writing = %T, want *ast.MacroDefinition", f.Document.Paragraphs[0].Writing)
	}
	if def.Name != "greeting" {
		t.Fatalf("name = %q, want %q", def.Name, "greeting")
	}
	if len(def.PositionalParams) != 0 || len(def.KeyParams) != 0 {
		t.Fatalf("expected no params, got %+v / %+v", def.PositionalParams, def.KeyParams)
	}
}

func TestParseMacroDefinitionWithParams(t *testing.T) {
	f := parse(t, "\\hi = (\\name, \\greet={Hello}) {\\greet \\name}")
	def, ok := f.Document.Paragraphs[0].Writing.(*ast.MacroDefinition)
	if !ok {
		t.Fatalf("writing = %T, want *ast.MacroDefinition", f.Document.Paragraphs[0].Writing)
	}
	if len(def.PositionalParams) != 1 || def.PositionalParams[0] != "name" {
		t.Fatalf("positional params = %v, want [name]", def.PositionalParams)
	}
	if len(def.KeyParams) != 1 || def.KeyParams[0].Name != "greet" {
		t.Fatalf("key params = %+v, want one named 'greet'", def.KeyParams)
	}
}

func TestParseMacroCallPositional(t *testing.T) {
	f := parse(t, "\\hi{World}{Hi}")
	call, ok := f.Document.Paragraphs[0].Writing.(*ast.MacroCall)
	if !ok {
		t.Fatalf("writing = %T, want *ast.MacroCall", f.Document.Paragraphs[0].Writing)
	}
	if call.Name != "hi" {
		t.Fatalf("name = %q, want %q", call.Name, "hi")
	}
	if len(call.PositionalArgs) != 2 {
		t.Fatalf("positional args = %d, want 2", len(call.PositionalArgs))
	}
}

func TestParseMacroCallKeyArg(t *testing.T) {
	f := parse(t, "\\hi{\\greet={Hi}}")
	call, ok := f.Document.Paragraphs[0].Writing.(*ast.MacroCall)
	if !ok {
		t.Fatalf("writing = %T, want *ast.MacroCall", f.Document.Paragraphs[0].Writing)
	}
	if len(call.PositionalArgs) != 0 {
		t.Fatalf("positional args = %d, want 0", len(call.PositionalArgs))
	}
	if len(call.KeyArgs) != 1 || call.KeyArgs[0].Name != "greet" {
		t.Fatalf("key args = %+v, want one named 'greet'", call.KeyArgs)
	}
}

func TestParseScript(t *testing.T) {
	f := parse(t, `\>x=1<\`)
	s, ok := f.Document.Paragraphs[0].Writing.(*ast.Script)
	if !ok {
		t.Fatalf("writing = %T, want *ast.Script", f.Document.Paragraphs[0].Writing)
	}
	if s.Pass != ast.Pass1 || s.IsEval {
		t.Fatalf("script pass/eval = %v/%v, want Pass1/false", s.Pass, s.IsEval)
	}
	if s.Source != "x=1" {
		t.Fatalf("source = %q, want %q", s.Source, "x=1")
	}
}

// TestParseCrossedBracketsIsError exercises a genuinely parser-level
// failure: braces and parens each balance on their own (so the lexer
// accepts the input), but their interleaving crosses, which the
// key-argument grammar rejects when it expects the value's opening brace.
func TestParseCrossedBracketsIsError(t *testing.T) {
	toks, err := lexer.Lex(`\hi{\k=(}){x}`, 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if _, err := Parse(toks, "<test>"); err == nil {
		t.Fatal("expected a parse error for crossed brackets in a key argument")
	}
}
