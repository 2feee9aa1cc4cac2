package color

import "testing"

func TestFromHex6(t *testing.T) {
	c, err := FromHex("#FF0000")
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if c != Opaque(255, 0, 0) {
		t.Fatalf("c = %+v, want red", c)
	}
}

func TestFromHex8WithAlpha(t *testing.T) {
	c, err := FromHex("0x00FF0080")
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if c.R != 0 || c.G != 255 || c.B != 0 || c.A != 0x80 {
		t.Fatalf("c = %+v, want {0,255,0,128}", c)
	}
}

func TestFromHexInvalidLength(t *testing.T) {
	if _, err := FromHex("ABC"); err == nil {
		t.Fatal("expected an error for a 3-digit hex string")
	}
}

func TestParseNamedColor(t *testing.T) {
	c, err := Parse("red")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c != Opaque(255, 0, 0) {
		t.Fatalf("c = %+v, want red", c)
	}
}

func TestParseOrFalseRejectsGarbage(t *testing.T) {
	if _, ok := ParseOrFalse("not a color"); ok {
		t.Fatal("expected ParseOrFalse to report false for garbage input")
	}
}

func TestParseRGBTuple(t *testing.T) {
	c, err := Parse("10, 20, 30")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 255 {
		t.Fatalf("c = %+v, want {10,20,30,255}", c)
	}
}

func TestCMYKRoundTrip(t *testing.T) {
	orig := Opaque(200, 100, 50)
	c, m, y, k := orig.ToCMYK()
	back := FromCMYK(c*100, m*100, y*100, k*100)
	// Integer truncation in FromCMYK means this is only approximately
	// exact; check within a small tolerance.
	if absDiff(back.R, orig.R) > 1 || absDiff(back.G, orig.G) > 1 || absDiff(back.B, orig.B) > 1 {
		t.Fatalf("round-tripped color = %+v, want close to %+v", back, orig)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
