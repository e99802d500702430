package gherkin

import (
	"strings"

	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/lexer"
	"github.com/cwbudde/go-ecma/token"
)

// Parser walks the token stream a lexer.NewGherkin-constructed Lexer
// produces, one token of lookahead at a time — the grammar here is
// strictly line-oriented, so unlike parser.Parser this cursor never needs
// to buffer the whole stream for backtracking.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	errs []*errors.Error
}

// New wraps l, which must have been constructed with lexer.NewGherkin —
// Parse relies on l.Next() already dispatching to Gherkin-mode scanning
// (see lexer.Lexer.Next).
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	return p
}

// Errors returns every lexical and structural diagnostic accumulated
// during Parse, mirroring parser.Parser.Errors' shape so a caller can
// format both front-ends' errors the same way (errors.FormatAll).
func (p *Parser) Errors() []*errors.Error {
	all := make([]*errors.Error, 0, len(p.errs)+len(p.l.Errors()))
	for _, le := range p.l.Errors() {
		all = append(all, errors.Syntax(le.Pos, "%s", le.Message))
	}
	all = append(all, p.errs...)
	return all
}

func (p *Parser) advance() {
	for {
		t := p.l.Next()
		if t.Type == token.L_COMMENT || t.Type == token.B_COMMENT {
			continue
		}
		p.cur = t
		return
	}
}

func (p *Parser) addError(format string, args ...any) {
	p.errs = append(p.errs, errors.Syntax(p.cur.Pos(), format, args...))
}

// Parse consumes the entire token stream and returns the Feature it
// describes (spec.md §4.3). A malformed or empty input (no "Feature:"
// line) yields a zero Feature and a recorded error rather than a panic.
func (p *Parser) Parse() *Feature {
	tags := p.collectTags()

	if p.cur.Type != token.G_FEATURE {
		p.addError("expected 'Feature:', got %s", p.cur.Type)
		return &Feature{Tags: tags}
	}
	p.advance()

	name, desc := p.collectNameAndDescription()
	feature := &Feature{Tags: tags, Name: name, Description: desc}

	for p.cur.Type != token.EOF {
		sectionTags := p.collectTags()
		if p.cur.Type != token.G_SCENARIO {
			if p.cur.Type == token.EOF {
				break
			}
			p.addError("expected 'Scenario:', got %s", p.cur.Type)
			p.advance()
			continue
		}
		p.advance()

		sName, sDesc := p.collectNameAndDescription()
		scenario := Scenario{Name: sName, Description: sDesc, Tags: sectionTags, Steps: p.collectSteps()}
		feature.Sections = append(feature.Sections, FeatureSection{Scenario: scenario})
	}

	return feature
}

// collectTags consumes every leading G_TAG token (spec.md §4.1), stopping
// at the first non-tag token.
func (p *Parser) collectTags() []Tag {
	var tags []Tag
	for p.cur.Type == token.G_TAG {
		tags = append(tags, Tag(strings.TrimPrefix(p.cur.Text, "@")))
		p.advance()
	}
	return tags
}

// collectNameAndDescription reads contiguous G_DESC lines following a
// "Feature:"/"Scenario:" keyword (spec.md §4.3): "the first trimmed
// non-empty line is the name; the remainder, joined with newlines, is the
// description."
func (p *Parser) collectNameAndDescription() (name, description string) {
	var lines []string
	for p.cur.Type == token.G_DESC {
		lines = append(lines, p.cur.Text)
		p.advance()
	}

	for idx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name = strings.TrimSpace(line)
		description = strings.Join(lines[idx+1:], "\n")
		return name, description
	}
	return "", ""
}

// collectSteps consumes ordered Given/When/Then/And/But/"*" lines until a
// token that cannot start another step (a new feature/scenario tag,
// "Scenario:", or EOF) is reached.
func (p *Parser) collectSteps() []Step {
	var steps []Step
	for p.cur.Type == token.G_PREFIX {
		prefix := p.cur.Text
		line := p.cur.Line
		p.advance()

		text := ""
		if p.cur.Type == token.G_RHS {
			text = p.cur.Text
			p.advance()
		}
		steps = append(steps, Step{Prefix: prefix, Text: text, Line: line})
	}
	return steps
}
