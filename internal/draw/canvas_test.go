package draw

import (
	"bytes"
	"testing"

	"github.com/pdfo-lang/pdfo/internal/geom"
	"github.com/pdfo-lang/pdfo/internal/pagesize"
	"github.com/pdfo-lang/pdfo/internal/placer"
	"github.com/pdfo-lang/pdfo/internal/style"
)

func TestMeasureWiderStringIsWider(t *testing.T) {
	c := NewCanvas(pagesize.Named["LETTER"], "Helvetica", 11, "")
	short, hShort := c.Measure("a", placer.EffectiveFont{Family: "Helvetica", Size: 11})
	long, hLong := c.Measure("a long word", placer.EffectiveFont{Family: "Helvetica", Size: 11})
	if long <= short {
		t.Errorf("Measure(%q) = %v, want > Measure(%q) = %v", "a long word", long, "a", short)
	}
	if hShort <= 0 || hLong <= 0 {
		t.Errorf("expected positive measured heights, got %v and %v", hShort, hLong)
	}
}

func TestMeasureDoesNotMutateCurrentFont(t *testing.T) {
	c := NewCanvas(pagesize.Named["LETTER"], "Helvetica", 11, "")
	c.SetFont("Helvetica", false, false, 11)
	c.Measure("probe", placer.EffectiveFont{Family: "Courier", Size: 20, Bold: true})
	if c.curFamily != "Helvetica" || c.curSize != 11 {
		t.Errorf("Measure leaked its font selection: curFamily=%q curSize=%v", c.curFamily, c.curSize)
	}
}

func TestRenderProducesAPDF(t *testing.T) {
	c := NewCanvas(pagesize.Named["LETTER"], "Helvetica", 11, "")

	doc := &placer.PdfDocument{
		Pages: []placer.PdfPage{{
			Size: pagesize.Named["LETTER"],
			Columns: []placer.PdfColumn{{
				Inner: geom.NewRect(36, 36, 540, 720),
				Lines: []placer.PdfParagraphLine{{
					Inner: geom.NewRect(36, 36, 540, 14),
					Words: []placer.PdfWord{{
						Text:         "hello",
						WithoutSpace: placer.WordDims{Width: 30, Height: 11},
						Style:        style.Info{},
					}},
				}},
			}},
		}},
	}

	out, err := c.Render(doc)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("Render output does not start with a PDF header: %q", out[:min(20, len(out))])
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
