package script

import (
	"fmt"

	"github.com/pdfo-lang/pdfo/internal/color"
	"github.com/pdfo-lang/pdfo/internal/style"
)

// StyledText is a Value: text with zero or more style deltas applied over
// rune ranges — the Go-side analogue of
// _examples/original_source/src/marked_up_text.py's MarkedUpText. A script
// that wants to hand the interpreter ranged formatting (spec.md §4.4:
// "if style-bearing text, convert to a token stream preserving markers")
// returns one of these from an Eval block, or leaves it in the 'ret' global
// after an Exec block.
type StyledText struct {
	Text   string
	Ranges []StyleRange
}

// StyleRange is a half-open [Start, End) rune range of a StyledText's Text
// that Delta applies to.
type StyleRange struct {
	Start, End int
	Delta      style.Info
}

// Plain wraps a bare string with no style ranges.
func Plain(s string) StyledText { return StyledText{Text: s} }

func wrapWhole(s string, delta style.Info) StyledText {
	n := len([]rune(s))
	return StyledText{Text: s, Ranges: []StyleRange{{Start: 0, End: n, Delta: delta}}}
}

// Concat appends b after a, shifting b's ranges by a's rune length —
// grounded on MarkedUpText's `+`/`__iadd__` operators, which the original
// uses to build up a document's formatted runs piecemeal.
func Concat(a, b StyledText) StyledText {
	offset := len([]rune(a.Text))
	out := StyledText{Text: a.Text + b.Text}
	out.Ranges = append(out.Ranges, a.Ranges...)
	for _, r := range b.Ranges {
		out.Ranges = append(out.Ranges, StyleRange{Start: r.Start + offset, End: r.End + offset, Delta: r.Delta})
	}
	return out
}

func asStyledText(v any) (StyledText, bool) {
	switch t := v.(type) {
	case StyledText:
		return t, true
	case string:
		return Plain(t), true
	default:
		return StyledText{}, false
	}
}

func wantString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case StyledText:
		return t.Text, nil
	default:
		return "", fmt.Errorf("expected a string, got %T", v)
	}
}

func styleBuiltin(delta func(args []any) (style.Info, error)) Func {
	return func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("expected at least one argument")
		}
		s, err := wantString(args[0])
		if err != nil {
			return nil, err
		}
		d, err := delta(args[1:])
		if err != nil {
			return nil, err
		}
		base, _ := asStyledText(args[0])
		if len(base.Ranges) == 0 {
			return wrapWhole(s, d), nil
		}
		// Layer the new delta under the existing ranges so an already-styled
		// argument (e.g. bold(italic(s))) keeps both deltas rather than one
		// clobbering the other — both ranges span the whole string since
		// neither builtin knows about sub-ranges of its argument.
		out := wrapWhole(s, d)
		out.Ranges = append(out.Ranges, base.Ranges...)
		return out, nil
	}
}

// Builtins returns the style-bearing-text constructor functions available
// to script source as globals: bold, italic, underline, strikeThrough, color,
// highlight, fontSize, fontFamily, align, script. Grounded on
// src/markup.py/src/placer/templates.py's TextInfo fields — each builtin
// sets exactly one of those fields as a delta over its string argument.
func Builtins() map[string]Func {
	return map[string]Func{
		"bold": styleBuiltin(func([]any) (style.Info, error) {
			return style.Info{Bold: style.Some(true)}, nil
		}),
		"italic": styleBuiltin(func([]any) (style.Info, error) {
			return style.Info{Italic: style.Some(true)}, nil
		}),
		"underline": styleBuiltin(func(args []any) (style.Info, error) {
			u := style.UnderlineSingle
			if len(args) > 0 {
				n, ok := args[0].(int64)
				if !ok {
					return style.Info{}, fmt.Errorf("underline: expected an UNDERLINE constant")
				}
				u = style.Underline(n)
			}
			return style.Info{Underline: style.Some(u)}, nil
		}),
		"strikeThrough": styleBuiltin(func(args []any) (style.Info, error) {
			s := style.StrikeSingle
			if len(args) > 0 {
				n, ok := args[0].(int64)
				if !ok {
					return style.Info{}, fmt.Errorf("strikeThrough: expected a STRIKE_THROUGH constant")
				}
				s = style.Strike(n)
			}
			return style.Info{Strike: style.Some(s)}, nil
		}),
		"color": styleBuiltin(func(args []any) (style.Info, error) {
			if len(args) == 0 {
				return style.Info{}, fmt.Errorf("color: expected a color name or (r,g,b)")
			}
			c, err := colorArg(args)
			if err != nil {
				return style.Info{}, err
			}
			return style.Info{FontColor: style.Some(c)}, nil
		}),
		"highlight": styleBuiltin(func(args []any) (style.Info, error) {
			if len(args) == 0 {
				return style.Info{}, fmt.Errorf("highlight: expected a color name or (r,g,b)")
			}
			c, err := colorArg(args)
			if err != nil {
				return style.Info{}, err
			}
			return style.Info{Highlight: style.Some(c)}, nil
		}),
		"fontSize": styleBuiltin(func(args []any) (style.Info, error) {
			f, ok := toFloat(firstArg(args))
			if !ok {
				return style.Info{}, fmt.Errorf("fontSize: expected a number")
			}
			return style.Info{FontSize: style.Some(f)}, nil
		}),
		"fontFamily": styleBuiltin(func(args []any) (style.Info, error) {
			name, ok := firstArg(args).(string)
			if !ok {
				return style.Info{}, fmt.Errorf("fontFamily: expected a string")
			}
			return style.Info{FontFamily: style.Some(name)}, nil
		}),
		"align": styleBuiltin(func(args []any) (style.Info, error) {
			n, ok := firstArg(args).(int64)
			if !ok {
				return style.Info{}, fmt.Errorf("align: expected an ALIGNMENT constant")
			}
			return style.Info{Alignment: style.Some(style.Alignment(n))}, nil
		}),
		"script": styleBuiltin(func(args []any) (style.Info, error) {
			n, ok := firstArg(args).(int64)
			if !ok {
				return style.Info{}, fmt.Errorf("script: expected a script-variant constant")
			}
			return style.Info{Script: style.Some(style.Script(n))}, nil
		}),
	}
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func colorArg(args []any) (color.Color, error) {
	if name, ok := args[0].(string); ok {
		c, ok := color.ParseOrFalse(name)
		if !ok {
			return color.Color{}, fmt.Errorf("unknown color %q", name)
		}
		return c, nil
	}
	if len(args) >= 3 {
		r, rok := toFloat(args[0])
		g, gok := toFloat(args[1])
		b, bok := toFloat(args[2])
		if rok && gok && bok {
			return color.Opaque(uint8(r), uint8(g), uint8(b)), nil
		}
	}
	return color.Color{}, fmt.Errorf("expected a color name or (r, g, b)")
}
