package parser

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/token"
)

func (p *Parser) parseStatement() *ast.Node {
	switch p.cur().Type {
	case token.VAR, token.LET, token.CONST:
		n := p.parseVarDecl()
		p.consumeSemicolon()
		return n
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.SWITCH:
		return p.parseSwitch()
	case token.BREAK:
		return p.parseBreakContinue(ast.BreakStmt)
	case token.CONTINUE:
		return p.parseBreakContinue(ast.ContinueStmt)
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.SEMICOLON:
		tok := p.advance()
		return ast.New(ast.EmptyStmt, &tok)
	default:
		return p.parseExpressionOrLabeledStatement()
	}
}

func (p *Parser) parseBlock() *ast.Node {
	tok, _ := p.expect(token.LBRACE)
	var stmts []*ast.Node
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		} else {
			p.synchronize()
		}
	}
	p.expect(token.RBRACE)
	return ast.New(ast.BlockStmt, &tok, stmts...)
}

func (p *Parser) parseVarDecl() *ast.Node {
	kw := p.advance() // var / let / const
	var decls []*ast.Node
	for {
		pattern := p.parseBindingTarget()
		var init *ast.Node
		if p.curIs(token.ASSIGN) {
			p.advance()
			init = p.parseAssignExpr()
		}
		if init != nil {
			decls = append(decls, ast.New(ast.Declarator, nil, pattern, init))
		} else {
			decls = append(decls, ast.New(ast.Declarator, nil, pattern))
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return ast.New(ast.VarDecl, &kw, decls...)
}

func (p *Parser) parseIf() *ast.Node {
	tok, _ := p.expect(token.IF)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	consequent := p.parseStatement()
	var children []*ast.Node
	if p.curIs(token.ELSE) {
		p.advance()
		alternate := p.parseStatement()
		children = []*ast.Node{test, consequent, alternate}
	} else {
		children = []*ast.Node{test, consequent}
	}
	return ast.New(ast.IfStmt, &tok, children...)
}

// parseFor disambiguates C-style `for (init; test; update)` from
// `for (x in obj)` / `for (x of iterable)` by parsing the head speculatively
// and checking which keyword (or `;`) follows.
func (p *Parser) parseFor() *ast.Node {
	tok, _ := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var left *ast.Node
	isDecl := p.curIs(token.VAR) || p.curIs(token.LET) || p.curIs(token.CONST)
	if isDecl {
		kw := p.advance()
		pattern := p.parseBindingTarget()
		left = ast.New(ast.VarDecl, &kw, ast.New(ast.Declarator, nil, pattern))
	} else if !p.curIs(token.SEMICOLON) {
		restore := p.setNoIn(true)
		left = p.parseExpression()
		restore()
	}

	if p.curIs(token.IN) || p.curIs(token.OF) {
		kind := ast.ForInStmt
		if p.curIs(token.OF) {
			kind = ast.ForOfStmt
		}
		p.advance()
		right := p.parseAssignExpr()
		p.expect(token.RPAREN)
		body := p.parseStatement()
		return ast.New(kind, &tok, left, right, body)
	}

	// C-style: left (if any) was either a VarDecl or an expression used as
	// the init clause; reassemble full var decl if there are more
	// declarators separated by commas.
	var init *ast.Node
	if isDecl && left != nil {
		decl := left
		if p.curIs(token.ASSIGN) {
			p.advance()
			dinit := p.parseAssignExpr()
			decl.Children[0] = ast.New(ast.Declarator, nil, decl.Children[0].Children[0], dinit)
		}
		for p.curIs(token.COMMA) {
			p.advance()
			pattern := p.parseBindingTarget()
			var dinit *ast.Node
			if p.curIs(token.ASSIGN) {
				p.advance()
				dinit = p.parseAssignExpr()
			}
			if dinit != nil {
				decl.Children = append(decl.Children, ast.New(ast.Declarator, nil, pattern, dinit))
			} else {
				decl.Children = append(decl.Children, ast.New(ast.Declarator, nil, pattern))
			}
		}
		init = decl
	} else {
		init = left
	}
	p.expect(token.SEMICOLON)
	var test *ast.Node
	if !p.curIs(token.SEMICOLON) {
		test = p.parseExpression()
	}
	p.expect(token.SEMICOLON)
	var update *ast.Node
	if !p.curIs(token.RPAREN) {
		update = p.parseExpression()
	}
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return ast.New(ast.ForStmt, &tok, init, test, update, body)
}

func (p *Parser) parseWhile() *ast.Node {
	tok, _ := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return ast.New(ast.WhileStmt, &tok, test, body)
}

func (p *Parser) parseDoWhile() *ast.Node {
	tok, _ := p.expect(token.DO)
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	return ast.New(ast.DoWhileStmt, &tok, body, test)
}

func (p *Parser) parseSwitch() *ast.Node {
	tok, _ := p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	discriminant := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	children := []*ast.Node{discriminant}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		ctok := p.cur()
		var test *ast.Node
		if p.curIs(token.CASE) {
			p.advance()
			test = p.parseExpression()
		} else {
			p.expect(token.DEFAULT)
		}
		p.expect(token.COLON)
		var body []*ast.Node
		for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if s := p.parseStatement(); s != nil {
				body = append(body, s)
			}
		}
		caseChildren := append([]*ast.Node{test}, body...)
		children = append(children, ast.New(ast.CaseClause, &ctok, caseChildren...))
	}
	p.expect(token.RBRACE)
	return ast.New(ast.SwitchStmt, &tok, children...)
}

func (p *Parser) parseBreakContinue(kind ast.Type) *ast.Node {
	tok := p.advance()
	var label *token.Token
	if !p.restrictedNoLineTerminator() && p.curIs(token.IDENT) {
		l := p.advance()
		label = &l
	}
	n := ast.New(kind, &tok)
	if label != nil {
		n.Children = []*ast.Node{ast.New(ast.Identifier, label)}
	}
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	tok := p.advance()
	var arg *ast.Node
	if !p.restrictedNoLineTerminator() && !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		arg = p.parseExpression()
	}
	p.consumeSemicolon()
	if arg != nil {
		return ast.New(ast.ReturnStmt, &tok, arg)
	}
	return ast.New(ast.ReturnStmt, &tok)
}

func (p *Parser) parseThrow() *ast.Node {
	tok := p.advance()
	if p.restrictedNoLineTerminator() {
		p.addError(tok.Pos(), "illegal newline after throw")
	}
	arg := p.parseExpression()
	p.consumeSemicolon()
	return ast.New(ast.ThrowStmt, &tok, arg)
}

func (p *Parser) parseTry() *ast.Node {
	tok, _ := p.expect(token.TRY)
	block := p.parseBlock()
	var catchParam, catchBody, finallyBody *ast.Node
	if p.curIs(token.CATCH) {
		p.advance()
		if p.curIs(token.LPAREN) {
			p.advance()
			catchParam = p.parseBindingTarget()
			p.expect(token.RPAREN)
		}
		catchBody = p.parseBlock()
	}
	if p.curIs(token.FINALLY) {
		p.advance()
		finallyBody = p.parseBlock()
	}
	return ast.New(ast.TryStmt, &tok, block, catchParam, catchBody, finallyBody)
}

func (p *Parser) parseFunctionDecl() *ast.Node {
	p.expect(token.FUNCTION)
	name := p.advance() // IDENT
	params := p.parseParamList()
	body := p.parseBlock()
	children := append(params, body)
	return ast.New(ast.FunctionDeclStmt, &name, children...)
}

// parseExpressionOrLabeledStatement disambiguates `ident:` (a label) from
// an ordinary expression statement starting with an identifier.
func (p *Parser) parseExpressionOrLabeledStatement() *ast.Node {
	if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
		label := p.advance()
		p.advance() // ':'
		body := p.parseStatement()
		return ast.New(ast.LabeledStmt, &label, body)
	}
	tok := p.cur()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	p.consumeSemicolon()
	return ast.New(ast.ExprStmt, &tok, expr)
}
