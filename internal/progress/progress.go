// Package progress implements the terminal progress bar spec.md §5 calls
// "observational and not part of the contract" and §9's open question
// resolves as "make it a no-op otherwise" when stdout is not a TTY.
//
// Grounded on _examples/original_source/src/tools.py's
// print_progress_bar/calc_prog_bar_refresh_rate (percentage bar, a
// refresh-rate throttle so redrawing a terminal line isn't done on every
// single iteration) and wired to golang.org/x/term.IsTerminal for the TTY
// check the reference implementation does with os.get_terminal_size()
// (which itself raises on a non-TTY stdout — the condition this package
// checks for up front instead of handling the resulting error).
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Bar reports percentage-complete for one compiler phase (tokenizing,
// parsing, placing — spec.md §2's pipeline stages). Constructed once per
// phase; redrawn in place on the same terminal line.
type Bar struct {
	w       io.Writer
	phase   string
	total   int
	refresh int
	isTTY   bool
	printed bool
}

// New builds a Bar for total iterations of phase, writing to w (normally
// os.Stdout). If w is not a terminal, or enabled is false (the caller's
// -n/--no-progress flag), every method becomes a no-op — spec.md §9's
// "make it a no-op otherwise" — rather than emitting raw
// carriage-return-laden text into a log file or pipe.
func New(w io.Writer, phase string, total int, enabled bool) *Bar {
	isTTY := false
	if enabled {
		if f, ok := w.(*os.File); ok {
			isTTY = term.IsTerminal(int(f.Fd()))
		}
	}
	return &Bar{w: w, phase: phase, total: total, refresh: refreshRate(total), isTTY: isTTY}
}

// refreshRate mirrors calc_prog_bar_refresh_rate: redraw often enough that
// the displayed percentage (two decimal places) visibly changes, no more
// — printing to a terminal is comparatively expensive, so a bar iterating
// over many thousands of tokens should not redraw on every single one.
func refreshRate(total int) int {
	const decimalRefresh = 100 // 10^PB_NUM_DECS, with PB_NUM_DECS == 2
	rate := total / (100 * decimalRefresh)
	return rate + 1
}

// Update reports iteration out of the Bar's total, redrawing only every
// refresh-rate-th call (and always on the final iteration) so the common
// case is a cheap no-op comparison rather than a terminal write.
func (b *Bar) Update(iteration int) {
	if !b.isTTY {
		return
	}
	if iteration != b.total && iteration%b.refresh != 0 {
		return
	}
	total := b.total
	if total == 0 {
		total, iteration = 1, 1
	}
	percent := 100 * float64(iteration) / float64(total)
	fmt.Fprintf(b.w, "\r%-12s |%s| %6.2f%%", b.phase, bar(percent), percent)
	b.printed = true
}

func bar(percent float64) string {
	const length = 30
	filled := int(length * percent / 100)
	if filled > length {
		filled = length
	}
	out := make([]byte, length)
	for i := range out {
		if i < filled {
			out[i] = '='
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

// Done finishes the bar, moving the cursor to a fresh line if anything was
// ever printed on this one.
func (b *Bar) Done() {
	if b.printed {
		fmt.Fprintln(b.w)
	}
}
