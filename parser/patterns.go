package parser

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/token"
)

// parseBindingTarget parses a binding pattern: a plain identifier or an
// object/array destructuring pattern, each of whose elements may carry a
// default and/or a rest marker (spec.md §4.2 "destructuring patterns...
// nested, with defaults and rest").
func (p *Parser) parseBindingTarget() *ast.Node {
	switch p.cur().Type {
	case token.LBRACE:
		return p.parseObjectPattern()
	case token.LBRACKET:
		return p.parseArrayPattern()
	default:
		tok := p.advance()
		return ast.New(ast.Identifier, &tok)
	}
}

func (p *Parser) parseObjectPattern() *ast.Node {
	tok, _ := p.expect(token.LBRACE)
	var props []*ast.Node
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.ELLIPSIS) {
			rtok := p.advance()
			target := p.parseBindingTarget()
			props = append(props, ast.New(ast.RestElement, &rtok, target))
		} else {
			props = append(props, p.parsePropertyPattern())
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return ast.New(ast.ObjectPattern, &tok, props...)
}

func (p *Parser) parsePropertyPattern() *ast.Node {
	n := ast.New(ast.PropertyPattern, nil)
	computed := false
	var key *ast.Node
	if p.curIs(token.LBRACKET) {
		computed = true
		p.advance()
		key = p.parseAssignExpr()
		p.expect(token.RBRACKET)
	} else {
		ktok := p.advance()
		key = ast.New(ast.Identifier, &ktok)
	}
	var value *ast.Node
	if p.curIs(token.COLON) {
		p.advance()
		value = p.parseBindingTargetWithDefault()
	} else {
		// Shorthand `{ a }` or `{ a = default }`: value mirrors the key.
		value = p.parseShorthandDefault(key)
	}
	n.Computed = computed
	n.Children = []*ast.Node{key, value}
	return n
}

func (p *Parser) parseShorthandDefault(key *ast.Node) *ast.Node {
	if p.curIs(token.ASSIGN) {
		p.advance()
		def := p.parseAssignExpr()
		return ast.New(ast.AssignPattern, nil, ast.New(ast.Identifier, key.Token), def)
	}
	return ast.New(ast.Identifier, key.Token)
}

// parseBindingTargetWithDefault parses a binding target optionally followed
// by `= defaultExpr`, wrapping it in an AssignPattern when present.
func (p *Parser) parseBindingTargetWithDefault() *ast.Node {
	target := p.parseBindingTarget()
	if p.curIs(token.ASSIGN) {
		p.advance()
		def := p.parseAssignExpr()
		return ast.New(ast.AssignPattern, nil, target, def)
	}
	return target
}

func (p *Parser) parseArrayPattern() *ast.Node {
	tok, _ := p.expect(token.LBRACKET)
	var elems []*ast.Node
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.COMMA) {
			elems = append(elems, nil) // elision
			p.advance()
			continue
		}
		if p.curIs(token.ELLIPSIS) {
			rtok := p.advance()
			target := p.parseBindingTarget()
			elems = append(elems, ast.New(ast.RestElement, &rtok, target))
		} else {
			elems = append(elems, p.parseBindingTargetWithDefault())
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return ast.New(ast.ArrayPattern, &tok, elems...)
}

// parseParamList parses a function/arrow parameter list `(p1, p2 = d, ...rest)`.
func (p *Parser) parseParamList() []*ast.Node {
	p.expect(token.LPAREN)
	var params []*ast.Node
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.ELLIPSIS) {
			rtok := p.advance()
			target := p.parseBindingTarget()
			params = append(params, ast.New(ast.RestElement, &rtok, target))
		} else {
			params = append(params, p.parseBindingTargetWithDefault())
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}
