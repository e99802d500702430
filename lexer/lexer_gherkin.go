package lexer

import (
	"strings"

	"github.com/cwbudde/go-ecma/token"
)

// stepPrefixes is the closed set spec.md §6 names for Gherkin output, plus
// the terse "*" step form.
var stepPrefixes = []string{"Given", "When", "Then", "And", "But", "*"}

// nextGherkin recognizes line-leading Gherkin keywords (spec.md §4.1
// "Gherkin mode", §4.3). It always reports ok=true and does not itself
// check l.gherkin; Next() only calls it when l.gherkin is true.
func (l *Lexer) nextGherkin() (token.Token, bool) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, true
	}

	for {
		l.skipWhitespaceExceptLF()
		if l.ch == '\n' {
			l.readChar()
			continue
		}
		break
	}

	startLine, startCol, startOff := l.line, l.column, l.position

	if l.ch == 0 {
		return token.Token{Type: token.EOF, Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}, true
	}

	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		text := l.input[startOff:l.position]
		return token.Token{Type: token.L_COMMENT, Text: text, Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}, true
	}

	if l.ch == '@' {
		start := l.position
		l.readChar()
		for isIdentPart(l.ch) || l.ch == '-' {
			l.readChar()
		}
		text := l.input[start:l.position]
		return token.Token{Type: token.G_TAG, Text: text, Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}, true
	}

	// Read the remainder of the physical line; all Gherkin productions
	// below are line-oriented.
	lineStart := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	line := l.input[lineStart:l.position]
	trimmed := strings.TrimLeft(line, " \t")
	leadWS := len(line) - len(trimmed)

	posAt := func(relOffset int) (tline, tcol, toff int) {
		p := l.buf.PositionFor(lineStart + leadWS + relOffset)
		return p.Line, p.Column, p.Offset
	}

	switch {
	case hasFoldPrefix(trimmed, "Feature:"):
		rest := strings.TrimSpace(trimmed[len("Feature:"):])
		if rest != "" {
			dline, dcol, doff := posAt(len("Feature:"))
			l.pending = append(l.pending, token.Token{Type: token.G_DESC, Text: rest, Line: dline, Column: dcol, Offset: doff, Buf: l.buf})
		}
		return token.Token{Type: token.G_FEATURE, Text: "Feature", Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}, true

	case hasFoldPrefix(trimmed, "Scenario Outline:"):
		return l.emitScenario(trimmed, "Scenario Outline:", startLine, startCol, startOff, posAt)

	case hasFoldPrefix(trimmed, "Scenario:"):
		return l.emitScenario(trimmed, "Scenario:", startLine, startCol, startOff, posAt)

	default:
		if prefix, rest, ok := matchStepPrefix(trimmed); ok {
			rline, rcol, roff := posAt(len(prefix))
			rest = strings.TrimSpace(rest)
			if rest != "" {
				l.pending = append(l.pending, token.Token{Type: token.G_RHS, Text: rest, Line: rline, Column: rcol, Offset: roff, Buf: l.buf})
			}
			return token.Token{Type: token.G_PREFIX, Text: prefix, Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}, true
		}

		return token.Token{Type: token.G_DESC, Text: strings.TrimRight(trimmed, " \t\r"), Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}, true
	}
}

func (l *Lexer) emitScenario(trimmed, keyword string, line, col, off int, posAt func(int) (int, int, int)) (token.Token, bool) {
	rest := strings.TrimSpace(trimmed[len(keyword):])
	if rest != "" {
		dline, dcol, doff := posAt(len(keyword))
		l.pending = append(l.pending, token.Token{Type: token.G_DESC, Text: rest, Line: dline, Column: dcol, Offset: doff, Buf: l.buf})
	}
	return token.Token{Type: token.G_SCENARIO, Text: "Scenario", Line: line, Column: col, Offset: off, Buf: l.buf}, true
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// matchStepPrefix matches a leading step keyword ("Given", "When", "Then",
// "And", "But", or the terse "*") followed by whitespace, returning the
// matched prefix and the remainder of the line.
func matchStepPrefix(line string) (prefix, rest string, ok bool) {
	for _, p := range stepPrefixes {
		if p == "*" {
			if strings.HasPrefix(line, "*") {
				return "*", line[1:], true
			}
			continue
		}
		if len(line) > len(p) && strings.HasPrefix(line, p) && (line[len(p)] == ' ' || line[len(p)] == '\t') {
			return p, line[len(p):], true
		}
		if line == p {
			return p, "", true
		}
	}
	return "", "", false
}
