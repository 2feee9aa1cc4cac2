// Package parser implements the recursive-descent parser of spec.md §4.2:
// predictive descent with single-token backtracking via a lightweight
// "try" mechanism (an advancement count plus an affinity score per
// attempt; on failure the index rewinds but the affinity, and the error
// that produced it, survive so the furthest-progressed alternative reports
// the failure).
//
// Structurally grounded on btouchard-gmx/internal/compiler/parser.go's
// Pratt-parser shape (index-into-tokens, registerPrefix-style dispatch by
// leading token kind) adapted to spec.md's grammar, which has no operator
// precedence to climb — every production dispatches on one or two lookahead
// tokens.
package parser

import (
	"github.com/pdfo-lang/pdfo/internal/ast"
	"github.com/pdfo-lang/pdfo/internal/errs"
	"github.com/pdfo-lang/pdfo/internal/source"
	"github.com/pdfo-lang/pdfo/internal/token"
)

// Parser consumes a token slice produced by internal/lexer and builds an
// *ast.File.
type Parser struct {
	toks []token.Token
	pos  int

	bestPos    int
	bestErr    *errs.Error
}

// New creates a Parser over toks, which must be FileStart...FileEnd framed.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse builds the syntax tree for one file.
func Parse(toks []token.Token, name string) (*ast.File, error) {
	p := New(toks)
	return p.parseFile(name)
}

// --- token access ---------------------------------------------------------

func (p *Parser) cur() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // FileEnd
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// mark/restore implement the try/affinity backtracking mechanism: mark
// records the starting index; restore rewinds to it but always records how
// far this attempt progressed (and, if it's the furthest yet, the error
// that stopped it) so the most-informative failure can be reported if
// every alternative in a chain of tries fails.
type mark struct {
	pos int
}

func (p *Parser) markPos() mark { return mark{pos: p.pos} }

func (p *Parser) restore(m mark, err *errs.Error) {
	if err != nil && p.pos > p.bestPos {
		p.bestPos = p.pos
		p.bestErr = err
	}
	p.pos = m.pos
}

func (p *Parser) fail(format string, args ...any) *errs.Error {
	return errs.New(errs.KindParse, source.Span{Start: p.cur().Start(), End: p.cur().End()}, format, args...)
}

// bestFailure returns the most informative error recorded across all
// backtracked attempts, falling back to err if nothing progressed further.
func (p *Parser) bestFailure(err *errs.Error) *errs.Error {
	if p.bestErr != nil && p.bestPos >= p.pos {
		return p.bestErr
	}
	return err
}

// --- entry point -----------------------------------------------------------

func (p *Parser) parseFile(name string) (*ast.File, error) {
	start := p.cur().Start()
	if !p.at(token.FileStart) {
		return nil, p.fail("expected start of file, found %s", p.cur().Kind)
	}
	p.advance()

	doc, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	if !p.at(token.FileEnd) {
		return nil, p.fail("expected end of file, found %s %q", p.cur().Kind, p.cur().Value)
	}
	end := p.cur().End()

	return &ast.File{Name: name, Document: doc, Span: source.Span{Start: start, End: end}}, nil
}

// --- document / paragraph ---------------------------------------------------

func (p *Parser) parseDocument() (*ast.Document, error) {
	start := p.cur().Start()
	var paragraphs []*ast.Paragraph

	// Leading ParagraphBreak is absorbed into the first paragraph's
	// LeadingBreak rather than discarded, so the interpreter can still
	// tell whether the document opened on a break.
	for {
		if p.at(token.FileEnd) || p.at(token.CloseBrace) {
			break
		}
		leading := false
		if p.at(token.ParagraphBreak) {
			leading = true
			p.advance()
			if p.at(token.FileEnd) || p.at(token.CloseBrace) {
				break
			}
		}
		if !startsWriting(p.cur().Kind) {
			if leading {
				// A trailing break with nothing after it: legal, just
				// stop — spec.md's document grammar allows a trailing
				// ParagraphBreak.
				break
			}
			return nil, p.fail("expected a paragraph, found %s", p.cur().Kind)
		}
		pStart := p.cur().Start()
		w, err := p.parseWriting()
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, &ast.Paragraph{
			LeadingBreak: leading,
			Writing:      w,
			Span:         source.Span{Start: pStart, End: w.End()},
		})
	}

	end := p.cur().Start()
	if len(paragraphs) > 0 {
		end = paragraphs[len(paragraphs)-1].End()
	}
	return &ast.Document{Paragraphs: paragraphs, Span: source.Span{Start: start, End: end}}, nil
}

func startsWriting(k token.Kind) bool {
	switch k {
	case token.Pass1Exec, token.Pass1Eval, token.Pass2Exec, token.Pass2Eval,
		token.Identifier, token.OpenBrace,
		token.Word, token.Equals, token.Comma, token.OpenParen, token.CloseParen:
		return true
	}
	return false
}

// --- writing ---------------------------------------------------------------

func (p *Parser) parseWriting() (ast.Writing, error) {
	switch p.cur().Kind {
	case token.Pass1Exec, token.Pass1Eval, token.Pass2Exec, token.Pass2Eval:
		return p.parseScript(), nil
	case token.OpenBrace:
		return p.parseTextGroup()
	case token.Identifier:
		return p.parseIdentifierLed()
	case token.Word, token.Equals, token.Comma, token.OpenParen, token.CloseParen:
		return p.parsePlainText(), nil
	default:
		return nil, p.fail("unexpected %s in document", p.cur().Kind)
	}
}

func (p *Parser) parseScript() *ast.Script {
	t := p.advance()
	pass := ast.Pass1
	if t.Kind.IsPass2() {
		pass = ast.Pass2
	}
	return &ast.Script{Pass: pass, IsEval: t.Kind.IsEval(), Source: t.Value, Span: t.Span}
}

// parsePlainText aggregates a maximal run of punctuation/word tokens that
// do not open or close a structural construct.
func (p *Parser) parsePlainText() *ast.PlainText {
	start := p.cur()
	var text string
	end := start.Span
	for {
		k := p.cur().Kind
		if k != token.Word && k != token.Equals && k != token.Comma &&
			k != token.OpenParen && k != token.CloseParen {
			break
		}
		t := p.advance()
		if text != "" && t.SpaceBefore {
			text += " "
		}
		text += tokenText(t)
		end = t.Span
	}
	return &ast.PlainText{Text: text, SpaceBefore: start.SpaceBefore, Span: source.Span{Start: start.Span.Start, End: end.End}}
}

func tokenText(t token.Token) string {
	switch t.Kind {
	case token.Equals:
		return "="
	case token.Comma:
		return ","
	case token.OpenParen:
		return "("
	case token.CloseParen:
		return ")"
	default:
		return t.Value
	}
}

// --- text group --------------------------------------------------------

func (p *Parser) parseTextGroup() (*ast.TextGroup, error) {
	open := p.cur()
	start := open.Start()
	if !p.at(token.OpenBrace) {
		return nil, p.fail("expected '{', found %s", p.cur().Kind)
	}
	p.advance()

	doc, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	if !p.at(token.CloseBrace) {
		return nil, p.fail("expected '}' to close group opened earlier, found %s", p.cur().Kind)
	}
	end := p.advance().End()

	return &ast.TextGroup{Document: doc, SpaceBefore: open.SpaceBefore, Span: source.Span{Start: start, End: end}}, nil
}

// --- identifier-led: macro definition or macro call -------------------------

// parseIdentifierLed disambiguates `macro_def` from `macro_call`: both
// start with an Identifier, but a definition's next significant token is
// '=' (skipping an allowed ParagraphBreak). This one token of lookahead
// beyond the identifier is exactly what the try/affinity mechanism exists
// to make cheap to backtrack from.
func (p *Parser) parseIdentifierLed() (ast.Writing, error) {
	m := p.markPos()
	if def, err := p.tryMacroDefinition(); err == nil {
		return def, nil
	} else {
		p.restore(m, err)
	}

	call, err := p.parseMacroCall()
	if err != nil {
		return nil, p.bestFailure(err.(*errs.Error))
	}
	return call, nil
}

func (p *Parser) tryMacroDefinition() (*ast.MacroDefinition, *errs.Error) {
	start := p.cur().Start()
	if !p.at(token.Identifier) {
		return nil, p.fail("expected identifier")
	}
	name := p.advance().Value

	p.skipParagraphBreak()
	if !p.at(token.Equals) {
		return nil, p.fail("not a macro definition: expected '=' after %q", name)
	}
	p.advance()
	p.skipParagraphBreak()

	var positional []string
	var keyParams []ast.KeyParam
	if p.at(token.OpenParen) {
		p.advance()
		for !p.at(token.CloseParen) {
			if p.at(token.FileEnd) {
				return nil, p.fail("unterminated parameter list for %q", name)
			}
			if !p.at(token.Identifier) {
				return nil, p.fail("expected a parameter name, found %s", p.cur().Kind)
			}
			pt := p.advance()
			if p.at(token.Equals) {
				p.advance()
				grp, err := p.parseTextGroup()
				if err != nil {
					return nil, toParseErr(err)
				}
				keyParams = append(keyParams, ast.KeyParam{Name: pt.Value, Default: grp, Span: source.Span{Start: pt.Span.Start, End: grp.End()}})
			} else {
				positional = append(positional, pt.Value)
			}
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if !p.at(token.CloseParen) {
			return nil, p.fail("expected ',' or ')' in parameter list for %q", name)
		}
		p.advance()
	}

	p.skipParagraphBreak()
	body, err := p.parseTextGroup()
	if err != nil {
		return nil, toParseErr(err)
	}

	return &ast.MacroDefinition{
		Name:             name,
		PositionalParams: positional,
		KeyParams:        keyParams,
		Body:             body,
		Span:             source.Span{Start: start, End: body.End()},
	}, nil
}

func (p *Parser) skipParagraphBreak() {
	if p.at(token.ParagraphBreak) {
		p.advance()
	}
}

func toParseErr(err error) *errs.Error {
	if e, ok := err.(*errs.Error); ok {
		return e
	}
	return nil
}

func (p *Parser) parseMacroCall() (*ast.MacroCall, error) {
	head := p.cur()
	start := head.Start()
	if !p.at(token.Identifier) {
		return nil, p.fail("expected identifier")
	}
	name := p.advance().Value
	end := p.toks[p.pos-1].End()

	var positional []*ast.TextGroup
	var keyArgs []ast.KeyArg
	for p.at(token.OpenBrace) {
		argStart := p.cur().Start()
		// Peek past '{' for `Identifier '='`, the key-arg shape.
		save := p.markPos()
		p.advance() // '{'
		isKeyArg := false
		keyName := ""
		if p.at(token.Identifier) {
			keyName = p.cur().Value
			p.advance()
			isKeyArg = p.at(token.Equals)
		}
		if !isKeyArg {
			p.restore(save, nil)
			grp, err := p.parseTextGroup()
			if err != nil {
				return nil, err
			}
			positional = append(positional, grp)
			end = grp.End()
			continue
		}

		p.advance() // '='
		val, err := p.parseTextGroup()
		if err != nil {
			return nil, err
		}
		if !p.at(token.CloseBrace) {
			return nil, p.fail("expected '}' to close key argument %q", keyName)
		}
		closeEnd := p.advance().End()
		keyArgs = append(keyArgs, ast.KeyArg{Name: keyName, Value: val, Span: source.Span{Start: argStart, End: closeEnd}})
		end = closeEnd
	}

	return &ast.MacroCall{
		Name:           name,
		PositionalArgs: positional,
		KeyArgs:        keyArgs,
		SpaceBefore:    head.SpaceBefore,
		Span:           source.Span{Start: start, End: end},
	}, nil
}
