package parser

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/token"
)

func (p *Parser) registerExpressionParsers() {
	p.prefixFns[token.NUMBER] = p.parseNumberLit
	p.prefixFns[token.STRING] = p.parseStringLit
	p.prefixFns[token.REGEX] = p.parseRegexLit
	p.prefixFns[token.NULL] = p.parseNullLit
	p.prefixFns[token.TRUE] = p.parseBoolLit
	p.prefixFns[token.FALSE] = p.parseBoolLit
	p.prefixFns[token.THIS] = p.parseThisExpr
	p.prefixFns[token.IDENT] = p.parseIdentifierOrArrow
	p.prefixFns[token.LPAREN] = p.parseGroupOrArrowParams
	p.prefixFns[token.LBRACKET] = p.parseArrayLiteral
	p.prefixFns[token.LBRACE] = p.parseObjectLiteral
	p.prefixFns[token.FUNCTION] = p.parseFunctionExpr
	p.prefixFns[token.NEW] = p.parseNewExpr
	p.prefixFns[token.BACKTICK] = p.parseTemplateLiteral
	for _, t := range []token.Type{token.BANG, token.MINUS, token.PLUS, token.TILDE, token.TYPEOF, token.VOID, token.DELETE} {
		p.prefixFns[t] = p.parseUnaryPrefix
	}
	p.prefixFns[token.PLUS_PLUS] = p.parsePrefixUpdate
	p.prefixFns[token.MINUS_MINUS] = p.parsePrefixUpdate

	p.infixFns[token.DOT] = p.parseMemberDot
	p.infixFns[token.LBRACKET] = p.parseMemberComputed
	p.infixFns[token.QUESTION_DOT] = p.parseOptionalChain
	p.infixFns[token.LPAREN] = p.parseCallArgs
	p.infixFns[token.PLUS_PLUS] = p.parsePostfixUpdate
	p.infixFns[token.MINUS_MINUS] = p.parsePostfixUpdate
	p.infixFns[token.STAR_STAR] = p.parseRightAssocBinary

	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NOT_EQ,
		token.LESS, token.GREATER, token.LESS_EQ, token.GREATER_EQ,
		token.SHL, token.SHR, token.USHR,
		token.AMP, token.PIPE, token.CARET,
		token.INSTANCEOF,
	} {
		p.infixFns[t] = p.parseLeftAssocBinary
	}
	p.infixFns[token.IN] = p.parseInOperator
	for _, t := range []token.Type{token.AND_AND, token.OR_OR, token.QUESTION_QUESTION} {
		p.infixFns[t] = p.parseLogical
	}
}

func (p *Parser) withoutNoIn(f func() *ast.Node) *ast.Node {
	saved := p.noIn
	p.noIn = false
	result := f()
	p.noIn = saved
	return result
}

// noIn suppresses treating a bare `in` token as a binary operator while
// parsing a for-loop's head (spec.md §4.2 for…in), since that `in` belongs
// to the statement grammar, not an expression.
func (p *Parser) setNoIn(v bool) (restore func()) {
	saved := p.noIn
	p.noIn = v
	return func() { p.noIn = saved }
}

// parseExpression parses a top-level Expression, including the comma
// operator (spec.md §4.2 "sequence").
func (p *Parser) parseExpression() *ast.Node {
	first := p.parseAssignExpr()
	if first == nil {
		return nil
	}
	if !p.curIs(token.COMMA) {
		return first
	}
	elems := []*ast.Node{first}
	tok := p.cur()
	for p.curIs(token.COMMA) {
		p.advance()
		elems = append(elems, p.parseAssignExpr())
	}
	return ast.New(ast.SequenceExpr, &tok, elems...)
}

var assignOps = map[token.Type]bool{
	token.ASSIGN: true, token.PLUS_EQ: true, token.MINUS_EQ: true,
	token.STAR_EQ: true, token.SLASH_EQ: true, token.PERCENT_EQ: true,
	token.STAR_STAR_EQ: true, token.AMP_EQ: true, token.PIPE_EQ: true,
	token.CARET_EQ: true, token.SHL_EQ: true, token.SHR_EQ: true,
	token.USHR_EQ: true, token.AND_AND_EQ: true, token.OR_OR_EQ: true,
	token.QUESTION_QUESTION_EQ: true,
}

// parseAssignExpr parses ConditionalExpression, then — since assignment is
// right-associative and its left side must already have been parsed as an
// ordinary expression (arrays/objects double as destructuring targets, the
// cover-grammar trick real engines use instead of re-parsing) — an optional
// trailing assignment.
func (p *Parser) parseAssignExpr() *ast.Node {
	left := p.parseConditional()
	if left == nil {
		return nil
	}
	if assignOps[p.cur().Type] {
		op := p.advance()
		right := p.parseAssignExpr()
		return ast.New(ast.AssignExpr, &op, left, right)
	}
	return left
}

func (p *Parser) parseConditional() *ast.Node {
	test := p.parseBinary(NULLISH)
	if test == nil || !p.curIs(token.QUESTION) {
		return test
	}
	tok := p.advance()
	consequent := p.withoutNoIn(p.parseAssignExpr)
	p.expect(token.COLON)
	alternate := p.parseAssignExpr()
	return ast.New(ast.ConditionalExpr, &tok, test, consequent, alternate)
}

func (p *Parser) parseBinary(minPrec int) *ast.Node {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}
	for {
		opType := p.cur().Type
		if (opType == token.PLUS_PLUS || opType == token.MINUS_MINUS) && p.curNLBefore() {
			break
		}
		if opType == token.IN && p.noIn {
			break
		}
		prec := p.precedenceOf(opType)
		if prec < minPrec {
			break
		}
		fn, ok := p.infixFns[opType]
		if !ok {
			break
		}
		left = fn(left)
	}
	return left
}

func (p *Parser) parsePrefixExpr() *ast.Node {
	fn, ok := p.prefixFns[p.cur().Type]
	if !ok {
		p.addError(p.cur().Pos(), "unexpected token %s", p.cur())
		p.advance()
		return nil
	}
	return fn()
}

// --- literals -------------------------------------------------------------

func (p *Parser) parseNumberLit() *ast.Node { tok := p.advance(); return ast.New(ast.NumberLit, &tok) }
func (p *Parser) parseStringLit() *ast.Node { tok := p.advance(); return ast.New(ast.StringLit, &tok) }
func (p *Parser) parseRegexLit() *ast.Node  { tok := p.advance(); return ast.New(ast.RegexLit, &tok) }
func (p *Parser) parseNullLit() *ast.Node   { tok := p.advance(); return ast.New(ast.NullLit, &tok) }
func (p *Parser) parseBoolLit() *ast.Node   { tok := p.advance(); return ast.New(ast.BoolLit, &tok) }
func (p *Parser) parseThisExpr() *ast.Node  { tok := p.advance(); return ast.New(ast.ThisExpr, &tok) }

func (p *Parser) parseIdentifierOrArrow() *ast.Node {
	if p.peekIs(token.ARROW) && !p.curNLBeforePeek() {
		tok := p.advance()
		param := ast.New(ast.Identifier, &tok)
		p.advance() // '=>'
		body := p.parseArrowBody()
		n := ast.New(ast.ArrowFunction, &tok, param, body)
		n.Prefix = bodyIsBlock(body)
		return n
	}
	tok := p.advance()
	return ast.New(ast.Identifier, &tok)
}

// curNLBeforePeek reports whether a newline precedes the peek token —
// used so `x\n=>y` is not mistaken for an arrow function (ASI would have
// already ended the prior statement).
func (p *Parser) curNLBeforePeek() bool {
	p.fill(1)
	return p.buf[p.pos+1].nlBefore
}

func bodyIsBlock(n *ast.Node) bool { return n != nil && n.Type == ast.BlockStmt }

func (p *Parser) parseGroupOrArrowParams() *ast.Node {
	if params, ok := p.tryParseArrowParams(); ok {
		arrowTok := p.advance() // '=>'
		body := p.parseArrowBody()
		children := append(params, body)
		n := ast.New(ast.ArrowFunction, &arrowTok, children...)
		n.Prefix = bodyIsBlock(body)
		return n
	}
	p.expect(token.LPAREN)
	expr := p.withoutNoIn(p.parseExpression)
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) tryParseArrowParams() ([]*ast.Node, bool) {
	if !p.curIs(token.LPAREN) {
		return nil, false
	}
	m := p.mark()
	errsLen := len(p.errs)
	params := p.parseParamList()
	if p.curIs(token.ARROW) && !p.curNLBefore() {
		return params, true
	}
	p.reset(m)
	p.errs = p.errs[:errsLen]
	return nil, false
}

func (p *Parser) parseArrowBody() *ast.Node {
	if p.curIs(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseAssignExpr()
}

func (p *Parser) parseUnaryPrefix() *ast.Node {
	tok := p.advance()
	operand := p.parseBinary(UNARY)
	return ast.New(ast.UnaryExpr, &tok, operand)
}

func (p *Parser) parsePrefixUpdate() *ast.Node {
	tok := p.advance()
	operand := p.parseBinary(UNARY)
	n := ast.New(ast.UpdateExpr, &tok, operand)
	n.Prefix = true
	return n
}

func (p *Parser) parsePostfixUpdate(left *ast.Node) *ast.Node {
	tok := p.advance()
	n := ast.New(ast.UpdateExpr, &tok, left)
	n.Prefix = false
	return n
}

func (p *Parser) parseLeftAssocBinary(left *ast.Node) *ast.Node {
	opType := p.cur().Type
	tok := p.advance()
	right := p.parseBinary(p.precedenceOf(opType) + 1)
	return ast.New(ast.BinaryExpr, &tok, left, right)
}

func (p *Parser) parseRightAssocBinary(left *ast.Node) *ast.Node {
	opType := p.cur().Type
	tok := p.advance()
	right := p.parseBinary(p.precedenceOf(opType))
	return ast.New(ast.BinaryExpr, &tok, left, right)
}

func (p *Parser) parseInOperator(left *ast.Node) *ast.Node {
	tok := p.advance()
	right := p.parseBinary(RELATIONAL + 1)
	return ast.New(ast.BinaryExpr, &tok, left, right)
}

func (p *Parser) parseLogical(left *ast.Node) *ast.Node {
	opType := p.cur().Type
	tok := p.advance()
	right := p.parseBinary(p.precedenceOf(opType) + 1)
	return ast.New(ast.LogicalExpr, &tok, left, right)
}

func (p *Parser) parseMemberDot(left *ast.Node) *ast.Node {
	tok := p.advance() // '.'
	prop := p.advance()
	n := ast.New(ast.MemberExpr, &tok, left, ast.New(ast.Identifier, &prop))
	return n
}

func (p *Parser) parseMemberComputed(left *ast.Node) *ast.Node {
	tok := p.advance() // '['
	idx := p.withoutNoIn(p.parseExpression)
	p.expect(token.RBRACKET)
	n := ast.New(ast.MemberExpr, &tok, left, idx)
	n.Computed = true
	return n
}

func (p *Parser) parseOptionalChain(left *ast.Node) *ast.Node {
	tok := p.advance() // '?.'
	switch p.cur().Type {
	case token.LPAREN:
		n := p.parseCallArgs(left)
		n.Optional = true
		return n
	case token.LBRACKET:
		p.advance()
		idx := p.withoutNoIn(p.parseExpression)
		p.expect(token.RBRACKET)
		n := ast.New(ast.MemberExpr, &tok, left, idx)
		n.Computed = true
		n.Optional = true
		return n
	default:
		prop := p.advance()
		n := ast.New(ast.MemberExpr, &tok, left, ast.New(ast.Identifier, &prop))
		n.Optional = true
		return n
	}
}

func (p *Parser) parseCallArgs(left *ast.Node) *ast.Node {
	tok := p.advance() // '('
	args := p.parseArgList()
	children := append([]*ast.Node{left}, args...)
	return ast.New(ast.CallExpr, &tok, children...)
}

func (p *Parser) parseArgList() []*ast.Node {
	var args []*ast.Node
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.ELLIPSIS) {
			rtok := p.advance()
			arg := p.withoutNoIn(p.parseAssignExpr)
			args = append(args, ast.New(ast.SpreadElement, &rtok, arg))
		} else {
			args = append(args, p.withoutNoIn(p.parseAssignExpr))
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseNewExpr() *ast.Node {
	tok := p.advance() // 'new'
	if p.curIs(token.NEW) {
		callee := p.parseNewExpr()
		return wrapNewCall(tok, callee, nil)
	}
	callee := p.parsePrefixExpr()
	for {
		switch p.cur().Type {
		case token.DOT:
			p.advance()
			prop := p.advance()
			callee = ast.New(ast.MemberExpr, nil, callee, ast.New(ast.Identifier, &prop))
		case token.LBRACKET:
			p.advance()
			idx := p.withoutNoIn(p.parseExpression)
			p.expect(token.RBRACKET)
			m := ast.New(ast.MemberExpr, nil, callee, idx)
			m.Computed = true
			callee = m
		default:
			var args []*ast.Node
			if p.curIs(token.LPAREN) {
				p.advance()
				args = p.parseArgList()
			}
			return wrapNewCall(tok, callee, args)
		}
	}
}

func wrapNewCall(tok token.Token, callee *ast.Node, args []*ast.Node) *ast.Node {
	children := append([]*ast.Node{callee}, args...)
	return ast.New(ast.NewExpr, &tok, children...)
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	tok, _ := p.expect(token.LBRACKET)
	var elems []*ast.Node
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.COMMA) {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		if p.curIs(token.ELLIPSIS) {
			rtok := p.advance()
			arg := p.withoutNoIn(p.parseAssignExpr)
			elems = append(elems, ast.New(ast.SpreadElement, &rtok, arg))
		} else {
			elems = append(elems, p.withoutNoIn(p.parseAssignExpr))
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return ast.New(ast.ArrayLit, &tok, elems...)
}

func (p *Parser) parseObjectLiteral() *ast.Node {
	tok, _ := p.expect(token.LBRACE)
	var props []*ast.Node
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.ELLIPSIS) {
			rtok := p.advance()
			arg := p.withoutNoIn(p.parseAssignExpr)
			props = append(props, ast.New(ast.SpreadElement, &rtok, arg))
		} else {
			props = append(props, p.parseObjectProperty())
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return ast.New(ast.ObjectLit, &tok, props...)
}

func (p *Parser) parseObjectProperty() *ast.Node {
	computed := false
	var key *ast.Node
	if p.curIs(token.LBRACKET) {
		computed = true
		p.advance()
		key = p.withoutNoIn(p.parseAssignExpr)
		p.expect(token.RBRACKET)
	} else {
		ktok := p.advance()
		if ktok.Type == token.STRING || ktok.Type == token.NUMBER {
			key = ast.New(ast.StringLit, &ktok)
		} else {
			key = ast.New(ast.Identifier, &ktok)
		}
	}
	n := ast.New(ast.Property, nil)
	n.Computed = computed
	if p.curIs(token.COLON) {
		p.advance()
		value := p.withoutNoIn(p.parseAssignExpr)
		n.Children = []*ast.Node{key, value}
		return n
	}
	// Shorthand: `{ a }`.
	n.Prefix = true
	n.Children = []*ast.Node{key, ast.New(ast.Identifier, key.Token)}
	return n
}

func (p *Parser) parseFunctionExpr() *ast.Node {
	tok := p.advance() // 'function'
	var nameTok *token.Token
	if p.curIs(token.IDENT) {
		t := p.advance()
		nameTok = &t
	}
	params := p.parseParamList()
	body := p.parseBlock()
	children := append(params, body)
	if nameTok != nil {
		return ast.New(ast.FunctionExpr, nameTok, children...)
	}
	return ast.New(ast.FunctionExpr, &tok, children...)
}
