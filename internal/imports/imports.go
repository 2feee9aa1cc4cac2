package imports

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pdfo-lang/pdfo/internal/ast"
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/interp"
	"github.com/pdfo-lang/pdfo/internal/lexer"
	"github.com/pdfo-lang/pdfo/internal/parser"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/stream"
	"github.com/pdfo-lang/pdfo/internal/symtab"
)

// importedFile caches what an "import" (as opposed to "insert") must reuse
// across repeats of the same absolute path: the context the file ran in
// (for its symbols and globals) and the pass-2-only subset of what it
// emitted — spec.md §4.5: "cache the resulting symbol table and the subset
// of pass-2 tokens". A file's pass-1 output is discarded once cached; it
// was already placed once, in the fresh run that built the cache, and
// re-emitting it on every subsequent import would duplicate content the
// caller never asked to insert.
type importedFile struct {
	ctx   *symtab.Context
	items []stream.Item
}

// Graph loads, caches, and runs files reached through \insert/\import.
// Files are parsed once and cached by absolute path; a file with an
// in-progress run trips cycle detection; imports are additionally cached
// by their resulting context and filtered token subset so a file imported
// twice only runs once — grounded on
// _examples/original_source/src/compiler.py's _files_by_path/being_run/
// import_context/import_tokens bookkeeping.
type Graph struct {
	Interp  *interp.Interp
	Files   *source.FileSet
	MainDir string
	StdDir  string

	// NewGlobals seeds a freshly-imported file's own Context, independent of
	// the importing file's globals — spec.md §4.5's "run the file once in a
	// fresh context". It should return the same built-in-constants base
	// (spec.md §6) every root file starts from.
	NewGlobals func() map[string]any

	parsed   map[string]*ast.File
	running  map[string]bool
	imported map[string]*importedFile
}

// NewGraph builds an empty Graph.
func NewGraph(in *interp.Interp, fs *source.FileSet, mainDir, stdDir string, newGlobals func() map[string]any) *Graph {
	return &Graph{
		Interp:     in,
		Files:      fs,
		MainDir:    mainDir,
		StdDir:     stdDir,
		NewGlobals: newGlobals,
		parsed:     make(map[string]*ast.File),
		running:    make(map[string]bool),
		imported:   make(map[string]*importedFile),
	}
}

func (g *Graph) load(absPath string) (*ast.File, error) {
	if f, ok := g.parsed[absPath]; ok {
		return f, nil
	}
	log.Printf("pdfo: reading %s", absPath)
	text, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	fid := g.Files.Add(absPath)
	toks, err := lexer.Lex(string(text), fid)
	if err != nil {
		return nil, err
	}
	f, err := parser.Parse(toks, absPath)
	if err != nil {
		return nil, err
	}
	g.parsed[absPath] = f
	return f, nil
}

func (g *Graph) enter(absPath string, span source.Span) error {
	if g.running[absPath] {
		return errs.New(errs.KindImport, span, "circular import/insert of %s", absPath)
	}
	g.running[absPath] = true
	return nil
}

func (g *Graph) leave(absPath string) { delete(g.running, absPath) }

// MarkRunning registers absPath as in-progress for the duration of its own
// top-level run, returning a function to clear it. Insert and Import apply
// this bookkeeping automatically to every file they reach; the root
// compiler calls it once, itself, around the main file's own
// interpretation, so a direct self-insert/self-import of the main file
// trips the same cycle check reaching it indirectly already does.
func (g *Graph) MarkRunning(absPath string, span source.Span) (func(), error) {
	if err := g.enter(absPath, span); err != nil {
		return nil, err
	}
	return func() { g.leave(absPath) }, nil
}

// Insert runs the named file directly in ctx — the same Context object, not
// a copy — so its macro definitions and script globals land in the scope
// the call happened in and every token it produces flows straight into the
// caller's stream. Only the first emitted item's space_before is patched to
// the call site's. Grounded on _insert_file.
func (g *Graph) Insert(ctx *symtab.Context, loc Locality, path string, call *ast.MacroCall) ([]stream.Item, error) {
	absPath, ok, where := resolve(loc, filepath.Dir(ctx.FilePath), g.MainDir, g.StdDir, path)
	if !ok {
		return nil, errs.New(errs.KindImport, call.Span, "could not find %q %s", path, where)
	}
	if err := g.enter(absPath, call.Span); err != nil {
		return nil, err
	}
	defer g.leave(absPath)

	f, err := g.load(absPath)
	if err != nil {
		return nil, errs.New(errs.KindImport, call.Span, "reading %s: %s", absPath, err)
	}

	savedName, savedPath, savedTop := ctx.DisplayName, ctx.FilePath, ctx.AtTopLevel
	ctx.DisplayName, ctx.FilePath, ctx.AtTopLevel = absPath, absPath, false
	items, err := g.Interp.File(ctx, f)
	ctx.DisplayName, ctx.FilePath, ctx.AtTopLevel = savedName, savedPath, savedTop
	if err != nil {
		return nil, errs.Wrap(err, errs.Frame{Name: absPath, At: call.Span.Start})
	}

	interp.SetLeadingSpaceBefore(items, call.SpaceBefore)
	return items, nil
}

// Import runs the named file once in a Context of its own, then merges that
// Context's symbols and globals into ctx and splices in the pass-2-only
// subset of what it emitted. Repeat imports of the same absolute path reuse
// the cached Context and token subset instead of re-running the file.
// Grounded on _import_file / Context.import_ (whose
// token_document().extend(tokens_to_import) call is what makes "import",
// unlike a pure symbol-table merge, still contribute tokens — just the
// pass-2 ones, since the pass-1 text was already placed once in the fresh
// run that built the cache).
func (g *Graph) Import(ctx *symtab.Context, loc Locality, path string, call *ast.MacroCall) ([]stream.Item, error) {
	absPath, ok, where := resolve(loc, filepath.Dir(ctx.FilePath), g.MainDir, g.StdDir, path)
	if !ok {
		return nil, errs.New(errs.KindImport, call.Span, "could not find %q %s", path, where)
	}
	return g.importResolved(ctx, absPath, call)
}

// importResolved runs Import's body against an already-resolved absolute
// path, letting std_import (which resolves directly against the
// standard-library directory, bypassing the near/strict/far strategies)
// share the run-once-and-cache logic.
func (g *Graph) importResolved(ctx *symtab.Context, absPath string, call *ast.MacroCall) ([]stream.Item, error) {
	cached, isCached := g.imported[absPath]
	if !isCached {
		if err := g.enter(absPath, call.Span); err != nil {
			return nil, err
		}
		defer g.leave(absPath)

		f, err := g.load(absPath)
		if err != nil {
			return nil, errs.New(errs.KindImport, call.Span, "reading %s: %s", absPath, err)
		}

		fresh := symtab.NewRoot(absPath, absPath, g.NewGlobals())
		if _, err := g.Interp.File(fresh, f); err != nil {
			return nil, errs.Wrap(err, errs.Frame{Name: absPath, At: call.Span.Start})
		}

		cached = &importedFile{ctx: fresh, items: stream.FilterDeferred(fresh.Items())}
		g.imported[absPath] = cached
		log.Printf("pdfo: imported %s (%d pass-2 item(s) cached)", absPath, len(cached.items))
	} else {
		log.Printf("pdfo: import cache hit for %s", absPath)
	}

	if err := ctx.Import(cached.ctx, nil); err != nil {
		return nil, errs.New(errs.KindImport, call.Span, "%s", err)
	}

	items := append([]stream.Item(nil), cached.items...)
	interp.SetLeadingSpaceBefore(items, call.SpaceBefore)
	return items, nil
}
