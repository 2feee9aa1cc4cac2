// Package pdfo compiles a markup-and-script document into a paginated PDF
// (spec.md §1, the overview pipeline: Scanner → Parser → Interpreter →
// Placer → Drawing). Compile is the single entrypoint cmd/pdfo drives;
// everything else in this file wires the packages under internal/ together
// the way aleksadvaisly-md2pdf/processor.go's NewPdfRenderer wired the
// markdown parser, its Renderer, and an *fpdf.Fpdf into one call.
package pdfo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfo-lang/pdfo/internal/color"
	"github.com/pdfo-lang/pdfo/internal/draw"
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/imports"
	"github.com/pdfo-lang/pdfo/internal/interp"
	"github.com/pdfo-lang/pdfo/internal/lexer"
	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/parser"
	"github.com/pdfo-lang/pdfo/internal/placer"
	"github.com/pdfo-lang/pdfo/internal/progress"
	"github.com/pdfo-lang/pdfo/internal/script"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/style"
	"github.com/pdfo-lang/pdfo/internal/symtab"
)

// options collects everything an Option can set, with the defaults
// SPEC_FULL.md's Configuration section names: US Letter, portrait, a
// half-inch margin, one column, a progress bar whenever stdout is a
// terminal. Mirrors the teacher's own RenderOption-over-a-private-struct
// pattern (mdtopdf.IsHorizontalRuleNewPage, mdtopdf.SetSyntaxHighlightBaseDir).
type options struct {
	pageSize   pagesize.Size
	landscape  bool
	marginL    float64
	marginT    float64
	marginR    float64
	marginB    float64
	columns    int
	fillRows   bool

	fontFamily string
	fontSize   float64
	fontDir    string

	stdlibDir string
	maxDepth  int

	verbatimFontFamily string
	verbatimFontSize   float64
	verbatimWrapCols   uint
	syntaxDir          string

	titleMargins     *PageMargins
	frontMargins     []PageMargins
	repeatingMargins []PageMargins

	progress bool
	out      io.Writer // where progress bars are written; os.Stdout if nil
}

// PageMargins is one entry in a WithPageMarginSchedule call: the four
// margins of a single page, in points.
type PageMargins struct{ Left, Top, Right, Bottom float64 }

func defaultOptions() options {
	return options{
		pageSize:           pagesize.Named["LETTER"],
		marginL:            36,
		marginT:            36,
		marginR:            36,
		marginB:            36,
		columns:            1,
		fontFamily:         "Helvetica",
		fontSize:           11,
		maxDepth:           interp.DefaultMaxDepth,
		verbatimFontFamily: "Courier",
		verbatimFontSize:   10,
		progress:           true,
	}
}

// Option configures a Compile call, functional-options style.
type Option func(*options)

// WithPageSize sets the document's default page size (spec.md §6's named
// sizes, or any explicit Size).
func WithPageSize(sz pagesize.Size) Option { return func(o *options) { o.pageSize = sz } }

// WithLandscape forces the default page size to landscape orientation.
func WithLandscape(v bool) Option { return func(o *options) { o.landscape = v } }

// WithMargins sets the default page's four margins, in points.
func WithMargins(left, top, right, bottom float64) Option {
	return func(o *options) { o.marginL, o.marginT, o.marginR, o.marginB = left, top, right, bottom }
}

// WithColumns sets the default page's column count and fill order.
func WithColumns(n int, fillRowsFirst bool) Option {
	return func(o *options) { o.columns, o.fillRows = n, fillRowsFirst }
}

// WithDefaultFont sets the fallback family/size the cascade bottoms out to
// when no template or marker sets one (internal/placer.Config).
func WithDefaultFont(family string, size float64) Option {
	return func(o *options) { o.fontFamily, o.fontSize = family, size }
}

// WithFontDir points at a directory of TTF/OTF font files Canvas can
// register, matching cmd/md2pdf/md2pdf.go's --font-dir flag.
func WithFontDir(dir string) Option { return func(o *options) { o.fontDir = dir } }

// WithStdlibDir sets the directory std_import/far_insert/far_import search,
// SPEC_FULL.md's --stdlib-dir flag.
func WithStdlibDir(dir string) Option { return func(o *options) { o.stdlibDir = dir } }

// WithMaxExpansionDepth overrides the macro-recursion guard (spec.md §4.4).
func WithMaxExpansionDepth(n int) Option { return func(o *options) { o.maxDepth = n } }

// WithVerbatimFont sets the \code built-in's monospace face and wrap
// column width (SPEC_FULL.md's Supplemented features).
func WithVerbatimFont(family string, size float64, wrapCols uint) Option {
	return func(o *options) { o.verbatimFontFamily, o.verbatimFontSize, o.verbatimWrapCols = family, size, wrapCols }
}

// WithSyntaxDir points \code{lang}{...} at a directory of gohighlight .yaml
// syntax definitions, matching processor.go's codeBlock lookup directory.
func WithSyntaxDir(dir string) Option { return func(o *options) { o.syntaxDir = dir } }

// WithPageMarginSchedule wires the Page level's full one-use/concrete/
// repeating selection order (spec.md §4.6, §9's "Template state machine"):
// title, if non-nil, is a one-use margin set consumed by page 1 alone
// without advancing the page index (a title page, typically with a larger
// top margin, that doesn't disturb any subsequent page numbering); fronts
// are concrete margins applied in order to the pages right after it (e.g.
// distinct front-matter pages); repeating is a cyclic fallback every page
// beyond those falls back to (e.g. alternating recto/verso margins for
// double-sided printing). When repeating is empty, pages beyond the title
// and fronts keep WithMargins' uniform margins. Any argument may be
// nil/empty.
func WithPageMarginSchedule(title *PageMargins, fronts, repeating []PageMargins) Option {
	return func(o *options) {
		o.titleMargins = title
		o.frontMargins = append([]PageMargins(nil), fronts...)
		o.repeatingMargins = append([]PageMargins(nil), repeating...)
	}
}

// WithProgress turns the terminal progress bar on or off outright
// (SPEC_FULL.md's -np/--no-progress flag); WithProgressWriter redirects it.
func WithProgress(v bool) Option { return func(o *options) { o.progress = v } }

func WithProgressWriter(w io.Writer) Option { return func(o *options) { o.out = w } }

// Result is everything a successful Compile produces: the rendered PDF
// bytes plus the placed tree's page count, so a caller can inspect it
// without re-parsing the output.
type Result struct {
	PDF   []byte
	Pages int
}

// Compile reads path, runs it through the full pipeline (spec.md §1), and
// returns the rendered PDF bytes. Grounded on
// aleksadvaisly-md2pdf/processor.go's Process (read file, build a parser,
// walk the tree, hand the accumulated state to *fpdf.Fpdf.Output), widened
// to this tree's five-stage pipeline.
func Compile(path string, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.out == nil {
		o.out = os.Stdout
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfo: reading %s: %w", path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	files := source.NewFileSet(absPath)

	tokBar := progress.New(o.out, "tokenizing", len(text), o.progress)
	tokBar.Update(0)
	toks, err := lexer.Lex(string(text), 0)
	tokBar.Update(len(text))
	tokBar.Done()
	if err != nil {
		return nil, annotate(err, string(text))
	}

	parseBar := progress.New(o.out, "parsing", len(toks), o.progress)
	parseBar.Update(0)
	astFile, err := parser.Parse(toks, absPath)
	parseBar.Update(len(toks))
	parseBar.Done()
	if err != nil {
		return nil, annotate(err, string(text))
	}

	host := script.NewHost()
	in := interp.New(host)
	in.MaxDepth = o.maxDepth

	root := symtab.New(nil)
	mainDir := filepath.Dir(absPath)
	graph := imports.NewGraph(in, files, mainDir, o.stdlibDir, script.DefaultGlobals)
	imports.Register(root, graph)
	interp.RegisterBuiltins(root)

	ctx := symtab.NewRoot(absPath, absPath, script.DefaultGlobals())
	ctx.Symbols = root
	done, err := graph.MarkRunning(absPath, source.Span{})
	if err != nil {
		return nil, annotate(err, string(text))
	}
	items, err := in.File(ctx, astFile)
	done()
	if err != nil {
		return nil, annotate(err, string(text))
	}

	pageGeom := placer.PageGeometry{
		Size:           resolvedPageSize(o),
		MarginLeft:     o.marginL,
		MarginTop:      o.marginT,
		MarginRight:    o.marginR,
		MarginBottom:   o.marginB,
		Rows:           1,
		Cols:           maxInt(o.columns, 1),
		FillRowsFirst:  o.fillRows,
		Style:          style.Info{},
	}
	hierarchy := placer.NewHierarchy(pageGeom)
	withMargins := func(pm PageMargins) placer.PageGeometry {
		g := pageGeom
		g.MarginLeft, g.MarginTop, g.MarginRight, g.MarginBottom = pm.Left, pm.Top, pm.Right, pm.Bottom
		return g
	}
	if o.titleMargins != nil {
		hierarchy.Page.AddOneUse(withMargins(*o.titleMargins))
	}
	for _, pm := range o.frontMargins {
		hierarchy.Page.AddConcrete(withMargins(pm))
	}
	for _, pm := range o.repeatingMargins {
		hierarchy.Page.AddRepeating(withMargins(pm))
	}

	canvas := draw.NewCanvas(pageGeom.Size, o.fontFamily, o.fontSize, o.fontDir)

	pl := placer.New(hierarchy, canvas, host, placer.Config{
		DefaultFontFamily:  o.fontFamily,
		DefaultFontSize:    o.fontSize,
		DefaultLineSpacing: 1.15,
		DefaultAlignment:   style.Left,
		VerbatimFontFamily: o.verbatimFontFamily,
		VerbatimFontSize:   o.verbatimFontSize,
		VerbatimWrapCols:   o.verbatimWrapCols,
	})
	pl.Highlight = placer.VerbatimRenderer{
		SyntaxDir:    o.syntaxDir,
		WrapCols:     o.verbatimWrapCols,
		DefaultColor: color.Opaque(0, 0, 0),
		Palette:      placer.DefaultPalette(),
	}

	placeBar := progress.New(o.out, "placing", len(items), o.progress)
	placeBar.Update(0)
	doc, err := pl.Place(items)
	placeBar.Update(len(items))
	placeBar.Done()
	if err != nil {
		return nil, annotate(err, string(text))
	}

	pdfBytes, err := canvas.Render(doc)
	if err != nil {
		return nil, annotate(err, string(text))
	}

	return &Result{PDF: pdfBytes, Pages: len(doc.Pages)}, nil
}

func resolvedPageSize(o options) pagesize.Size {
	if o.landscape {
		return o.pageSize.Landscape()
	}
	return o.pageSize.Portrait()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// annotate attaches a source excerpt to a pdfo error for spec.md §7's
// user-visible format ("the failing file, line, column, kind, detail, a
// three-line source excerpt with caret underline, and for runtime errors
// the context chain"), leaving any other error untouched.
func annotate(err error, src string) error {
	ce, ok := err.(*errs.Error)
	if !ok {
		return err
	}
	lines := strings.Split(src, "\n")
	return fmt.Errorf("%s\n%s", ce.Error(), errs.Excerpt(lines, ce.Span))
}
