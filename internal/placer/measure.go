package placer

import "github.com/pdfo-lang/pdfo/internal/style"

// Measurer is the external contract spec.md §9 names: "a function
// measure(string, font, size) -> (width, height)". The placer treats it as
// deterministic for fixed inputs; internal/draw.Canvas implements it over
// codeberg.org/go-pdf/fpdf's GetStringWidth/font-metrics.
type Measurer interface {
	// Measure returns the rendered width/height of s set in the font named by
	// eff (family, size, bold, italic all resolved — no more Optional fields).
	Measure(s string, eff EffectiveFont) (width, height float64)
}

// EffectiveFont is a style.Info collapsed to the handful of fields that
// change how a string measures, computed once per word by resolving the
// cascade's Optional fields against the compiler's configured fallbacks.
type EffectiveFont struct {
	Family      string
	Size        float64
	Bold        bool
	Italic      bool
}

// ResolveFont extracts the Measurer-relevant fields from a cascaded style,
// falling back to defaultFamily/defaultSize for anything still unset after
// the cascade (spec.md §3: "unset means inherit" bottoms out at the
// compiler's configured defaults, not an error).
func ResolveFont(eff style.Info, defaultFamily string, defaultSize float64) EffectiveFont {
	f := EffectiveFont{Family: defaultFamily, Size: defaultSize}
	if eff.FontFamily.Set {
		f.Family = eff.FontFamily.Value
	}
	if eff.FontSize.Set {
		f.Size = eff.FontSize.Value
	}
	if eff.Bold.Set {
		f.Bold = eff.Bold.Value
	}
	if eff.Italic.Set {
		f.Italic = eff.Italic.Value
	}
	return f
}
