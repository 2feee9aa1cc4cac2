package pagesize

import "testing"

func TestLookupIsCaseInsensitive(t *testing.T) {
	a, ok := Lookup("a4")
	if !ok {
		t.Fatal("expected a4 to resolve")
	}
	b, _ := Lookup("A4")
	if a != b {
		t.Fatalf("a4 = %+v, A4 = %+v, want equal", a, b)
	}
}

func TestLookupUnknownName(t *testing.T) {
	if _, ok := Lookup("NOT_A_SIZE"); ok {
		t.Fatal("expected an unknown page size to miss")
	}
}

func TestLandscapeSwapsWhenNarrower(t *testing.T) {
	s := Size{Width: 100, Height: 200}.Landscape()
	if s.Width != 200 || s.Height != 100 {
		t.Fatalf("landscape = %+v, want {200,100}", s)
	}
}

func TestPortraitLeavesAlreadyPortraitAlone(t *testing.T) {
	s := Size{Width: 100, Height: 200}.Portrait()
	if s.Width != 100 || s.Height != 200 {
		t.Fatalf("portrait = %+v, want unchanged", s)
	}
}

func TestLetterSizeMatchesKnownValue(t *testing.T) {
	s, _ := Lookup("LETTER")
	if s.Width != 8.5*72 || s.Height != 11*72 {
		t.Fatalf("LETTER = %+v, want {612, 792}", s)
	}
}
