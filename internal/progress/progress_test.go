package progress

import (
	"bytes"
	"os"
	"testing"
)

func TestRefreshRateNeverZero(t *testing.T) {
	for _, total := range []int{0, 1, 500, 10000, 1000000} {
		if r := refreshRate(total); r < 1 {
			t.Errorf("refreshRate(%d) = %d, want >= 1", total, r)
		}
	}
}

func TestBarNoopOnNonTTY(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "placing", 100, true)
	b.Update(0)
	b.Update(50)
	b.Update(100)
	b.Done()
	if buf.Len() != 0 {
		t.Errorf("expected no output when writer is not a terminal, got %q", buf.String())
	}
}

func TestBarNoopWhenDisabled(t *testing.T) {
	// New only checks term.IsTerminal when enabled is true, so a disabled Bar
	// must stay silent even against os.Stdout, a real terminal in CI or not.
	b := New(os.Stdout, "placing", 100, false)
	if b.isTTY {
		t.Fatal("isTTY should be false when enabled=false, regardless of the writer")
	}
}

func TestBarDoneOnlyPrintsIfSomethingWasPrinted(t *testing.T) {
	b := &Bar{w: &bytes.Buffer{}, phase: "x", total: 10, refresh: 1}
	b.Done()
	if b.printed {
		t.Error("Done should not mark printed when nothing was ever drawn")
	}
}
