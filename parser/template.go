package parser

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/token"
)

// parseTemplateLiteral drives the lexer's template-specific methods
// directly instead of going through the ordinary buffered token stream,
// since the lexer cannot tell literal template text from JavaScript by
// token type alone (spec.md §4.1 rule 5). Each chunk it returns is still
// pushed onto the parser's buffer via pushTemplateToken so position
// tracking and the rest of the parser's machinery stay uniform.
//
// Nested `${...}` content is parsed as an ordinary Expression, which
// self-balances any braces it contains (object literals, block-bodied
// arrow functions); by the time that call returns, the current token really
// is the interpolation's own closing `}` — no separate brace counter is
// needed on the lexer side.
func (p *Parser) parseTemplateLiteral() *ast.Node {
	startTok := p.advance() // consumes BACKTICK
	var children []*ast.Node
	// Children alternate Quasi/expression and start and end with a Quasi, so
	// an empty literal run (before `${`, between `}${`, before the closing
	// backtick) gets an empty Quasi.
	needQuasi := true
	emptyQuasi := func(at token.Token) {
		t := token.Token{Type: token.T_STRING, Line: at.Line, Column: at.Column, Offset: at.Offset, Buf: at.Buf}
		children = append(children, ast.New(ast.Quasi, &t))
	}
	for {
		chunk := p.l.NextTemplateChunk()
		p.pushTemplateToken(chunk)
		switch chunk.Type {
		case token.T_STRING:
			quasiTok := p.advance()
			children = append(children, ast.New(ast.Quasi, &quasiTok))
			needQuasi = false
		case token.DOLLAR_L_CURLY:
			if needQuasi {
				emptyQuasi(chunk)
			}
			needQuasi = true
			p.advance()
			expr := p.parseExpression()
			children = append(children, expr)
			if p.curIs(token.RBRACE) {
				p.advance()
			} else {
				p.addError(p.cur().Pos(), "expected '}' to close template interpolation")
			}
		case token.BACKTICK:
			if needQuasi {
				emptyQuasi(chunk)
			}
			p.advance()
			return ast.New(ast.TemplateLit, &startTok, children...)
		default: // EOF after an unterminated template; the lexer already recorded the error.
			p.advance()
			return ast.New(ast.TemplateLit, &startTok, children...)
		}
	}
}
