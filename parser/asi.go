package parser

import "github.com/cwbudde/go-ecma/token"

// consumeSemicolon implements automatic semicolon insertion (spec.md §4.2):
// an explicit `;` always terminates; otherwise the statement terminates at
// a newline, at `}`, or at EOF. Anything else is a syntax error.
func (p *Parser) consumeSemicolon() {
	if p.curIs(token.SEMICOLON) {
		p.advance()
		return
	}
	if p.curIs(token.RBRACE) || p.curIs(token.EOF) || p.curNLBefore() {
		return
	}
	p.addError(p.cur().Pos(), "expected ';', found %s", p.cur())
}

// restrictedNoLineTerminator reports whether inserting a line terminator
// before the current token would violate a restricted production
// (`return`, `throw`, `continue`, `break`, postfix `++`/`--` — spec.md
// §4.2). Callers check this immediately after consuming the restricted
// keyword/operand and before looking at what follows.
func (p *Parser) restrictedNoLineTerminator() bool {
	return p.curNLBefore()
}
