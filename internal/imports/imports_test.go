package imports

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/pdfo-lang/pdfo/internal/interp"
	"github.com/pdfo-lang/pdfo/internal/lexer"
	"github.com/pdfo-lang/pdfo/internal/parser"
	"github.com/pdfo-lang/pdfo/internal/script"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/symtab"
)

// writeArchive materializes a txtar fixture under a fresh temp directory,
// one real file per archive entry, so path-resolution logic exercises
// actual os.Stat calls rather than an in-memory stand-in.
func writeArchive(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range txtar.Parse([]byte(data)).Files {
		p := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newGraph(dir string) (*Graph, *interp.Interp, *source.FileSet) {
	in := interp.New(script.NewHost())
	fs := source.NewFileSet("<main>")
	g := NewGraph(in, fs, dir, filepath.Join(dir, "std"), func() map[string]any { return map[string]any{} })
	return g, in, fs
}

func compileFile(t *testing.T, ctx *symtab.Context, in *interp.Interp, path string) []stream.Item {
	t.Helper()
	text, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	toks, err := lexer.Lex(string(text), 0)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	f, err := parser.Parse(toks, path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ctx.FilePath = path
	items, err := in.File(ctx, f)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	return items
}

func wordValues(items []stream.Item) []string {
	var out []string
	for _, it := range items {
		if it.Kind == stream.TokenItem {
			out = append(out, it.Token.Value)
		}
	}
	return out
}

func TestInsertSplicesOutputAndDefinitions(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
before \insert{child.pdfo} after
-- child.pdfo --
middle
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	items := compileFile(t, ctx, in, filepath.Join(dir, "main.pdfo"))
	got := wordValues(items)
	want := []string{"before", "middle", "after"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestInsertDefinitionVisibleAfterInsertion(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
\insert{macros.pdfo} \greet
-- macros.pdfo --
\greet = {hello}
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	items := compileFile(t, ctx, in, filepath.Join(dir, "main.pdfo"))
	got := wordValues(items)
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v, want [hello] (macro defined by the inserted file should be callable afterward)", got)
	}
}

func TestImportDoesNotSpliceItsPlainText(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
before \import{child.pdfo} after
-- child.pdfo --
middle
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	items := compileFile(t, ctx, in, filepath.Join(dir, "main.pdfo"))
	got := wordValues(items)
	want := []string{"before", "after"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v (import must not splice the imported file's pass-1 text)", got, want)
	}
}

func TestImportCachesAndRunsOnce(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
\import{once.pdfo} \import{once.pdfo}
-- once.pdfo --
x
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	if _, err := compileFile2(ctx, in, filepath.Join(dir, "main.pdfo")); err != nil {
		t.Fatalf("File: %v", err)
	}
	if len(g.parsed) != 1 {
		t.Fatalf("parsed cache has %d entries, want 1 (once.pdfo parsed once)", len(g.parsed))
	}
	if len(g.imported) != 1 {
		t.Fatalf("imported cache has %d entries, want 1", len(g.imported))
	}
}

// compileFile2 mirrors compileFile without the *testing.T dependency, for
// tests that want the raw error rather than an immediate Fatal.
func compileFile2(ctx *symtab.Context, in *interp.Interp, path string) ([]stream.Item, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Lex(string(text), 0)
	if err != nil {
		return nil, err
	}
	f, err := parser.Parse(toks, path)
	if err != nil {
		return nil, err
	}
	ctx.FilePath = path
	return in.File(ctx, f)
}

func TestInsertDetectsCircularInsert(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
\insert{a.pdfo}
-- a.pdfo --
\insert{main.pdfo}
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	if _, err := compileFile2(ctx, in, filepath.Join(dir, "main.pdfo")); err == nil {
		t.Fatal("expected a circular-insert error")
	}
}

func TestStrictInsertResolvesRelativeToCurrentFile(t *testing.T) {
	dir := writeArchive(t, `
-- sub/main.pdfo --
\strict_insert{sibling.pdfo}
-- sub/sibling.pdfo --
found
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "sub", "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	items := compileFile(t, ctx, in, filepath.Join(dir, "sub", "main.pdfo"))
	got := wordValues(items)
	if len(got) != 1 || got[0] != "found" {
		t.Fatalf("got %v, want [found]", got)
	}
}

func TestStrictInsertDoesNotFallBackToMainDir(t *testing.T) {
	dir := writeArchive(t, `
-- sub/main.pdfo --
\strict_insert{only_in_main.pdfo}
-- only_in_main.pdfo --
found
`)
	g, in, _ := newGraph(dir)
	g.MainDir = dir
	ctx := symtab.NewRoot("main", filepath.Join(dir, "sub", "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	if _, err := compileFile2(ctx, in, filepath.Join(dir, "sub", "main.pdfo")); err == nil {
		t.Fatal("strict_insert must not fall back to the main file's directory")
	}
}

func TestNearPathPrefersCurrentFileOverMainOverStd(t *testing.T) {
	dir := writeArchive(t, `
-- current/x.pdfo --
from-current
-- main/x.pdfo --
from-main
-- std/x.pdfo --
from-std
`)
	p, ok := nearPath(filepath.Join(dir, "current"), filepath.Join(dir, "main"), filepath.Join(dir, "std"), "x.pdfo")
	if !ok || filepath.Dir(p) != filepath.Join(dir, "current") {
		t.Fatalf("nearPath = %q, ok=%v, want a path under current/", p, ok)
	}
}

func TestFarPathPrefersStdOverMainOverCurrent(t *testing.T) {
	dir := writeArchive(t, `
-- current/x.pdfo --
from-current
-- main/x.pdfo --
from-main
-- std/x.pdfo --
from-std
`)
	p, ok := farPath(filepath.Join(dir, "current"), filepath.Join(dir, "main"), filepath.Join(dir, "std"), "x.pdfo")
	if !ok || filepath.Dir(p) != filepath.Join(dir, "std") {
		t.Fatalf("farPath = %q, ok=%v, want a path under std/", p, ok)
	}
}

func TestStdImportResolvesAgainstStdDirOnly(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
\std_import{util}
-- std/util.pdfo --
\x = {y}
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	if _, err := compileFile2(ctx, in, filepath.Join(dir, "main.pdfo")); err != nil {
		t.Fatalf("File: %v", err)
	}
	if _, ok := ctx.Symbols.Get("x"); !ok {
		t.Fatal("std_import should have merged util.pdfo's macro definitions")
	}
}

func TestImportUndefinedFileErrors(t *testing.T) {
	dir := writeArchive(t, `
-- main.pdfo --
\import{nope.pdfo}
`)
	g, in, _ := newGraph(dir)
	ctx := symtab.NewRoot("main", filepath.Join(dir, "main.pdfo"), map[string]any{})
	Register(ctx.Symbols, g)

	if _, err := compileFile2(ctx, in, filepath.Join(dir, "main.pdfo")); err == nil {
		t.Fatal("expected an ImportError for a file on no search path")
	}
}
