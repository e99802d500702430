// Package parser implements the recursive-descent, Pratt-precedence
// JavaScript parser described in spec.md §4.2, following the teacher's
// internal/parser/parser.go: a prefix/infix parse-function table keyed by
// token type, a precedence table for the Pratt loop, and a cursor over a
// fully buffered token stream that makes backtracking (arrow-function
// disambiguation, for-loop head shapes) a cheap index save/restore instead
// of re-lexing.
package parser

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/lexer"
	"github.com/cwbudde/go-ecma/token"
)

// Precedence levels, lowest to highest (spec.md §4.2 "standard JS
// precedence and associativity").
const (
	_ int = iota
	LOWEST
	COMMA_PREC
	ASSIGN
	CONDITIONAL
	NULLISH
	LOGICAL_OR
	LOGICAL_AND
	BITWISE_OR
	BITWISE_XOR
	BITWISE_AND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	UNARY
	POSTFIX
	CALL_MEMBER
)

var precedences = map[token.Type]int{
	token.COMMA:                COMMA_PREC,
	token.ASSIGN:                ASSIGN,
	token.PLUS_EQ:               ASSIGN,
	token.MINUS_EQ:              ASSIGN,
	token.STAR_EQ:               ASSIGN,
	token.SLASH_EQ:              ASSIGN,
	token.PERCENT_EQ:            ASSIGN,
	token.STAR_STAR_EQ:          ASSIGN,
	token.AMP_EQ:                ASSIGN,
	token.PIPE_EQ:               ASSIGN,
	token.CARET_EQ:              ASSIGN,
	token.SHL_EQ:                ASSIGN,
	token.SHR_EQ:                ASSIGN,
	token.USHR_EQ:               ASSIGN,
	token.AND_AND_EQ:            ASSIGN,
	token.OR_OR_EQ:               ASSIGN,
	token.QUESTION_QUESTION_EQ:  ASSIGN,
	token.QUESTION:              CONDITIONAL,
	token.QUESTION_QUESTION:     NULLISH,
	token.OR_OR:                 LOGICAL_OR,
	token.AND_AND:                LOGICAL_AND,
	token.PIPE:                  BITWISE_OR,
	token.CARET:                 BITWISE_XOR,
	token.AMP:                   BITWISE_AND,
	token.EQ:                    EQUALITY,
	token.NOT_EQ:                EQUALITY,
	token.STRICT_EQ:             EQUALITY,
	token.STRICT_NOT_EQ:         EQUALITY,
	token.LESS:                  RELATIONAL,
	token.GREATER:                RELATIONAL,
	token.LESS_EQ:                RELATIONAL,
	token.GREATER_EQ:             RELATIONAL,
	token.INSTANCEOF:            RELATIONAL,
	token.IN:                    RELATIONAL,
	token.SHL:                   SHIFT,
	token.SHR:                   SHIFT,
	token.USHR:                  SHIFT,
	token.PLUS:                  ADDITIVE,
	token.MINUS:                 ADDITIVE,
	token.STAR:                  MULTIPLICATIVE,
	token.SLASH:                 MULTIPLICATIVE,
	token.PERCENT:               MULTIPLICATIVE,
	token.STAR_STAR:             EXPONENT,
	token.PLUS_PLUS:             POSTFIX,
	token.MINUS_MINUS:           POSTFIX,
	token.LPAREN:                CALL_MEMBER,
	token.LBRACKET:              CALL_MEMBER,
	token.DOT:                   CALL_MEMBER,
	token.QUESTION_DOT:          CALL_MEMBER,
}

type prefixParseFn func() *ast.Node
type infixParseFn func(left *ast.Node) *ast.Node

// bufTok pairs a token with whether a line terminator preceded it — the
// lexer reports newlines as WS_LF (spec.md §4.1 rule 2); the parser
// collapses runs of them into this one bit, which ASI and the restricted
// productions (spec.md §4.2) consult.
type bufTok struct {
	tok      token.Token
	nlBefore bool
}

// Parser turns a token stream into an ast.Node tree. The entire stream is
// buffered as it is produced so backtracking (Save/Reset) is an index
// change, never a re-lex — mirroring the teacher's TokenCursor but without
// its companion lexer-state snapshot, since this lexer's only
// context-sensitive state (regexAllowed, template nesting) is already
// captured per-token by the time it lands in the buffer.
type Parser struct {
	l   *lexer.Lexer
	buf []bufTok
	pos int

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn

	noIn bool

	errs []*errors.Error
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixFns = make(map[token.Type]prefixParseFn)
	p.infixFns = make(map[token.Type]infixParseFn)
	p.registerExpressionParsers()
	return p
}

// Errors returns accumulated syntax errors (including any lexical errors
// the lexer recorded).
func (p *Parser) Errors() []*errors.Error {
	all := make([]*errors.Error, 0, len(p.errs)+len(p.l.Errors()))
	for _, le := range p.l.Errors() {
		all = append(all, errors.Syntax(le.Pos, "%s", le.Message))
	}
	all = append(all, p.errs...)
	return all
}

func (p *Parser) addError(pos token.Position, format string, args ...any) {
	p.errs = append(p.errs, errors.Syntax(pos, format, args...))
}

// fill ensures the buffer holds at least n+1 tokens from pos on.
func (p *Parser) fill(n int) {
	for len(p.buf) <= p.pos+n {
		p.pullToken()
	}
}

func (p *Parser) pullToken() {
	nl := false
	for {
		t := p.l.Next()
		if t.Type == token.WS_LF {
			nl = true
			continue
		}
		p.buf = append(p.buf, bufTok{tok: t, nlBefore: nl})
		return
	}
}

// pushTemplateToken injects a token produced out-of-band by
// lexer.NextTemplateChunk into the same buffer the ordinary cursor walks,
// so template literals participate in backtracking like everything else.
func (p *Parser) pushTemplateToken(t token.Token) {
	p.buf = append(p.buf, bufTok{tok: t})
}

func (p *Parser) cur() token.Token {
	p.fill(0)
	return p.buf[p.pos].tok
}

func (p *Parser) curNLBefore() bool {
	p.fill(0)
	return p.buf[p.pos].nlBefore
}

func (p *Parser) peek() token.Token {
	p.fill(1)
	return p.buf[p.pos+1].tok
}

func (p *Parser) peekN(n int) token.Token {
	p.fill(n)
	return p.buf[p.pos+n].tok
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	p.pos++
	return t
}

// mark/reset implement backtracking for speculative parses (e.g. "is this
// `(` the start of an arrow-function parameter list or a parenthesized
// expression?").
type mark struct{ pos int }

func (p *Parser) mark() mark { return mark{pos: p.pos} }
func (p *Parser) reset(m mark) {
	p.pos = m.pos
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek().Type == t }

func (p *Parser) expect(t token.Type) (token.Token, bool) {
	if p.curIs(t) {
		return p.advance(), true
	}
	p.addError(p.cur().Pos(), "expected %s, found %s", t, p.cur())
	return p.cur(), false
}

func (p *Parser) precedenceOf(t token.Type) int {
	if pr, ok := precedences[t]; ok {
		return pr
	}
	return LOWEST
}

// Parse parses the whole token stream as a JavaScript program (spec.md
// §4.2). Errors do not stop parsing; Parse always returns a Program
// node, consulting Errors() afterward is how a caller detects failure.
func (p *Parser) Parse() *ast.Node {
	var stmts []*ast.Node
	for !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize()
		}
	}
	return &ast.Node{Type: ast.Program, Children: stmts}
}

// synchronize recovers from a statement-level parse failure by skipping
// tokens until a likely statement boundary, so one syntax error does not
// cascade into hundreds.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.advance()
			return
		}
		switch p.cur().Type {
		case token.RBRACE, token.VAR, token.LET, token.CONST, token.IF, token.FOR,
			token.WHILE, token.DO, token.SWITCH, token.FUNCTION, token.RETURN,
			token.TRY, token.THROW, token.BREAK, token.CONTINUE:
			return
		}
		p.advance()
	}
}
