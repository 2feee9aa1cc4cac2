// Command pdfo compiles a .pdfo markup/script document into a PDF
// (spec.md §1). Grounded on cmd/md2pdf/md2pdf.go's flag layout and
// positional-argument fallback, retargeted from mdtopdf.RenderOption to
// pdfo.Option.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/pdfo-lang/pdfo"
	"github.com/pdfo-lang/pdfo/internal/pagesize"
)

var (
	output         = flag.StringP("output", "o", "", "Output PDF filename; defaults to the input name with .pdf")
	noProgress     = flag.BoolP("no-progress", "n", false, "Disable the terminal progress bar")
	stdlibDir      = flag.String("stdlib-dir", "", "Directory std_import/far_insert/far_import search")
	maxExpandDepth = flag.Int("max-expansion-depth", 0, "Macro-expansion recursion guard (0: use the built-in default)")
	pageSizeName   = flag.String("page-size", "LETTER", "Named page size, e.g. LETTER, A4, LEGAL")
	landscape      = flag.Bool("landscape", false, "Use landscape orientation")
	margins        = flag.String("margins", "", "Page margins in points: single value or left,top,right,bottom")
	fontFamily     = flag.String("font-family", "", "Default font family [Helvetica | Times | Courier]")
	fontSize       = flag.Float64("font-size", 0, "Default font size in points")
	fontDir        = flag.String("font-dir", "", "Directory of TTF/OTF font files to register")
	syntaxDir      = flag.String("syntax-files", "", "Path to github.com/jessp01/gohighlight syntax_files, for \\code{lang}{...}")
	help           = flag.BoolP("help", "h", false, "Show usage message")
)

func usage(msg string) {
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	fmt.Fprintln(os.Stderr, "usage: pdfo compile <input_file_path> [-o <output_file_path>] [-np]")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	// pflag shorthands are single letters, so the two-letter -np form is
	// rewritten to its long name before parsing.
	for i, a := range os.Args[1:] {
		if a == "-np" {
			os.Args[i+1] = "--no-progress"
		}
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 && args[0] == "compile" {
		args = args[1:]
	}

	if *help || len(args) == 0 {
		usage("")
		if len(args) == 0 {
			os.Exit(1)
		}
		return
	}

	input := args[0]
	out := *output
	if out == "" && len(args) > 1 {
		out = args[1]
	}
	if out == "" {
		out = defaultOutputPath(input)
	}

	opts, err := buildOptions()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	result, err := pdfo.Compile(input, opts...)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := os.WriteFile(out, result.PDF, 0o644); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// defaultOutputPath mirrors cmd/md2pdf/md2pdf.go's own extension handling:
// replace a recognised source extension with .pdf, otherwise append it.
func defaultOutputPath(input string) string {
	for _, ext := range []string{".pdfo", ".pdo", ".txt"} {
		if strings.HasSuffix(input, ext) {
			return strings.TrimSuffix(input, ext) + ".pdf"
		}
	}
	return input + ".pdf"
}

func buildOptions() ([]pdfo.Option, error) {
	var opts []pdfo.Option

	opts = append(opts, pdfo.WithProgress(!*noProgress))

	if *pageSizeName != "" {
		sz, ok := pagesize.Lookup(*pageSizeName)
		if !ok {
			return nil, fmt.Errorf("pdfo: unknown page size %q", *pageSizeName)
		}
		opts = append(opts, pdfo.WithPageSize(sz))
	}
	if *landscape {
		opts = append(opts, pdfo.WithLandscape(true))
	}
	if *margins != "" {
		l, t, r, b, err := parseMargins(*margins)
		if err != nil {
			return nil, fmt.Errorf("pdfo: %w", err)
		}
		opts = append(opts, pdfo.WithMargins(l, t, r, b))
	}
	if *fontFamily != "" || *fontSize > 0 {
		family := *fontFamily
		if family == "" {
			family = "Helvetica"
		}
		size := *fontSize
		if size == 0 {
			size = 11
		}
		opts = append(opts, pdfo.WithDefaultFont(family, size))
	}
	if *fontDir != "" {
		opts = append(opts, pdfo.WithFontDir(*fontDir))
	}
	if *syntaxDir != "" {
		opts = append(opts, pdfo.WithSyntaxDir(*syntaxDir))
	}
	if *stdlibDir != "" {
		opts = append(opts, pdfo.WithStdlibDir(*stdlibDir))
	}
	if *maxExpandDepth > 0 {
		opts = append(opts, pdfo.WithMaxExpansionDepth(*maxExpandDepth))
	}
	return opts, nil
}

// parseMargins accepts a single value (all four sides) or four
// comma-separated point values, unlike cmd/md2pdf/md2pdf.go's unit-suffixed
// ("20mm"/"15pt") syntax: pdfo's own internal/units already expresses point
// conversions as constants a document can use directly, so the CLI margin
// flag stays in the same unit the rest of the configuration surface uses.
func parseMargins(s string) (left, top, right, bottom float64, err error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &vals[i]); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid margin value %q", p)
		}
	}
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0], nil
	case 4:
		return vals[0], vals[1], vals[2], vals[3], nil
	default:
		return 0, 0, 0, 0, fmt.Errorf("margins must be a single value or 4 comma-separated values")
	}
}
