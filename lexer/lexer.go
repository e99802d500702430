// Package lexer implements the single-pass scanner described in spec.md
// §4.1: a context-sensitive tokenizer that disambiguates regex-vs-division
// and drives template-literal interpolation, plus an alternate Gherkin mode
// (lexer_gherkin.go) that recognizes line-leading feature-file keywords and
// falls back to JS-expression lexing for step text.
//
// Structurally this follows the teacher's internal/lexer/lexer.go: UTF-8
// aware rune-at-a-time scanning, a saved/restored LexerState for
// backtracking, and a running error list the parser consults after
// tokenizing.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cwbudde/go-ecma/token"
)

// Error is a lexical diagnostic: an unrecognized character or malformed
// literal. The parser surfaces these as SyntaxErrors (spec.md §4.1 "on an
// unrecognized character, emit a synthetic token and record a lexer
// diagnostic").
type Error struct {
	Pos     token.Position
	Message string
}

// Lexer scans either plain JavaScript or, when constructed with
// NewGherkin, Gherkin feature-file text whose step expressions are
// themselves JavaScript (spec.md §4.1 "Gherkin mode").
type Lexer struct {
	buf *token.Buffer

	input        string
	position     int
	readPosition int
	line         int
	column       int
	ch           rune

	regexAllowed bool
	errors       []Error

	gherkin     bool
	atLineStart bool
	pending     []token.Token
}

// State is a saved snapshot for backtracking (teacher: LexerState).
type State struct {
	position     int
	readPosition int
	line         int
	column       int
	ch           rune
	regexAllowed bool
	atLineStart  bool
}

// New creates a Lexer over JavaScript source text, stripping a leading
// UTF-8 BOM if present.
func New(filename, input string) *Lexer {
	return newLexer(filename, input, false)
}

// NewGherkin creates a Lexer over Gherkin feature-file text whose step
// bodies are lexed as JavaScript expressions (spec.md §4.1, §4.3).
func NewGherkin(filename, input string) *Lexer {
	return newLexer(filename, input, true)
}

func newLexer(filename, input string, gherkin bool) *Lexer {
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
	}
	l := &Lexer{
		buf:         token.NewBuffer(filename, input),
		input:       input,
		line:        1,
		column:      0,
		gherkin:     gherkin,
		atLineStart: true,
	}
	l.readChar()
	return l
}

func (l *Lexer) Buffer() *token.Buffer { return l.buf }
func (l *Lexer) Errors() []Error       { return l.errors }

func (l *Lexer) addError(msg string) {
	l.errors = append(l.errors, Error{Pos: l.currentPos(), Message: msg})
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	if r == utf8.RuneError && size == 1 {
		l.addError("invalid UTF-8 encoding")
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(byteOffset int) rune {
	pos := l.readPosition + byteOffset
	if pos >= len(l.input) || pos < 0 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

// Save captures the lexer state for speculative lookahead (e.g. the parser
// disambiguating arrow-function parameter lists from parenthesized
// expressions).
func (l *Lexer) Save() State {
	return State{
		position: l.position, readPosition: l.readPosition,
		line: l.line, column: l.column, ch: l.ch,
		regexAllowed: l.regexAllowed, atLineStart: l.atLineStart,
	}
}

// Restore undoes all scanning since the matching Save.
func (l *Lexer) Restore(s State) {
	l.position, l.readPosition = s.position, s.readPosition
	l.line, l.column, l.ch = s.line, s.column, s.ch
	l.regexAllowed = s.regexAllowed
	l.atLineStart = s.atLineStart
}

func isLetter(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isIdentPart(ch rune) bool { return isLetter(ch) || isDigit(ch) }

func isHorizontalWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func (l *Lexer) skipWhitespaceExceptLF() {
	for isHorizontalWhitespace(l.ch) {
		l.readChar()
	}
}

// Next returns the next token, driving regexAllowed from the previously
// emitted primary token (spec.md §4.1). Whitespace is skipped rather than
// returned, except that a line terminator is reported as WS_LF so the
// parser's automatic-semicolon-insertion logic can see it; comments are
// likewise skipped (the teacher's WithPreserveComments toggle has no
// script-visible consumer here, so this lexer always discards comment
// text; a line break inside a block comment is not reported as WS_LF and
// so is not seen by ASI). Use NextRaw
// to recover the trivia Next discards.
func (l *Lexer) Next() token.Token {
	if l.gherkin {
		if tok, ok := l.nextGherkin(); ok {
			return tok
		}
	}
	for {
		tok := l.scanOne()
		if tok.Type == token.WS || tok.Type == token.L_COMMENT || tok.Type == token.B_COMMENT {
			continue
		}
		return tok
	}
}

// NextRaw returns the next token without discarding trivia: runs of
// horizontal whitespace come back as WS, line terminators as WS_LF, and
// comments as L_COMMENT/B_COMMENT, so concatenating every token's Text in
// order reproduces the source exactly (spec.md §8's lexer invariant). In
// Gherkin mode, where a physical line maps to synthesized keyword/
// description tokens rather than verbatim spans, NextRaw falls back to
// Next's behavior — that grammar was never meant to round-trip byte for
// byte.
func (l *Lexer) NextRaw() token.Token {
	if l.gherkin {
		return l.Next()
	}
	return l.scanOne()
}

func (l *Lexer) scanOne() token.Token {
	startLine, startCol, startOff := l.line, l.column, l.position

	mk := func(typ token.Type, text string) token.Token {
		tok := token.Token{Type: typ, Text: text, Line: startLine, Column: startCol, Offset: startOff, Buf: l.buf}
		l.updateRegexFlag(typ)
		return tok
	}

	switch {
	case isHorizontalWhitespace(l.ch):
		for isHorizontalWhitespace(l.ch) {
			l.readChar()
		}
		return mk(token.WS, l.input[startOff:l.position])
	case l.ch == 0:
		return mk(token.EOF, "")
	case l.ch == '\n':
		l.readChar()
		return mk(token.WS_LF, "\n")
	case l.ch == '/' && l.peekChar() == '/':
		return l.readLineComment(startLine, startCol, startOff)
	case l.ch == '/' && l.peekChar() == '*':
		return l.readBlockComment(startLine, startCol, startOff)
	case l.ch == '\'' || l.ch == '"':
		return l.readString(startLine, startCol, startOff)
	case l.ch == '`':
		return l.readBacktick(startLine, startCol, startOff)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(startLine, startCol, startOff)
	case l.ch == '/':
		if l.regexAllowed {
			return l.readRegex(startLine, startCol, startOff)
		}
		return l.readOperator(startLine, startCol, startOff)
	case isLetter(l.ch):
		return l.readIdentifier(startLine, startCol, startOff)
	default:
		return l.readOperator(startLine, startCol, startOff)
	}
}

func (l *Lexer) updateRegexFlag(typ token.Type) {
	allowed, inherit := typ.RegexAllowedAfter()
	if inherit {
		return
	}
	l.regexAllowed = allowed
}

func (l *Lexer) readLineComment(line, col, off int) token.Token {
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	text := l.input[start:l.position]
	tok := token.Token{Type: token.L_COMMENT, Text: text, Line: line, Column: col, Offset: off, Buf: l.buf}
	return tok
}

func (l *Lexer) readBlockComment(line, col, off int) token.Token {
	start := l.position
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		if l.ch == 0 {
			l.addError("unterminated block comment")
			break
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	text := l.input[start:l.position]
	return token.Token{Type: token.B_COMMENT, Text: text, Line: line, Column: col, Offset: off, Buf: l.buf}
}

func (l *Lexer) readIdentifier(line, col, off int) token.Token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	typ := token.IDENT
	if kw, ok := token.Keywords[text]; ok {
		typ = kw
	}
	tok := token.Token{Type: typ, Text: text, Line: line, Column: col, Offset: off, Buf: l.buf}
	l.updateRegexFlag(typ)
	return tok
}

func (l *Lexer) readNumber(line, col, off int) token.Token {
	start := l.position
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		l.readChar()
		l.readChar()
		for l.ch >= '0' && l.ch <= '7' {
			l.readChar()
		}
	} else if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar()
		l.readChar()
		for l.ch == '0' || l.ch == '1' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		} else if l.ch == '.' && !isLetter(l.peekChar()) {
			l.readChar()
		}
		if l.ch == 'e' || l.ch == 'E' {
			save := l.Save()
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if isDigit(l.ch) {
				for isDigit(l.ch) {
					l.readChar()
				}
			} else {
				l.Restore(save)
			}
		}
	}
	text := l.input[start:l.position]
	tok := token.Token{Type: token.NUMBER, Text: text, Line: line, Column: col, Offset: off, Buf: l.buf}
	l.updateRegexFlag(token.NUMBER)
	return tok
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// readString scans a single- or double-quoted string literal, handling the
// standard escapes plus \uXXXX and \xXX (spec.md §4.1 rule 4). The decoded
// value is stored in Text; callers needing the raw source span can re-slice
// via Buf.
func (l *Lexer) readString(line, col, off int) token.Token {
	quote := l.ch
	l.readChar()
	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			l.addError("unterminated string literal")
			break
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteString(l.readEscape())
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	tok := token.Token{Type: token.STRING, Text: sb.String(), Line: line, Column: col, Offset: off, Buf: l.buf}
	l.updateRegexFlag(token.STRING)
	return tok
}

func (l *Lexer) readEscape() string {
	switch l.ch {
	case 'n':
		l.readChar()
		return "\n"
	case 't':
		l.readChar()
		return "\t"
	case 'r':
		l.readChar()
		return "\r"
	case 'b':
		l.readChar()
		return "\b"
	case 'f':
		l.readChar()
		return "\f"
	case 'v':
		l.readChar()
		return "\v"
	case '0':
		l.readChar()
		return "\x00"
	case 'u':
		l.readChar()
		if l.ch == '{' {
			l.readChar()
			start := l.position
			for l.ch != '}' && l.ch != 0 {
				l.readChar()
			}
			hex := l.input[start:l.position]
			l.readChar() // consume '}'
			return decodeHexRune(hex)
		}
		hex := l.takeN(4)
		return decodeHexRune(hex)
	case 'x':
		l.readChar()
		hex := l.takeN(2)
		return decodeHexRune(hex)
	case '\n':
		l.readChar()
		return ""
	default:
		ch := l.ch
		l.readChar()
		return string(ch)
	}
}

func (l *Lexer) takeN(n int) string {
	start := l.position
	for i := 0; i < n && l.ch != 0; i++ {
		l.readChar()
	}
	return l.input[start:l.position]
}

func decodeHexRune(hex string) string {
	var v rune
	for _, c := range hex {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= c - '0'
		case c >= 'a' && c <= 'f':
			v |= c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v |= c - 'A' + 10
		}
	}
	return string(v)
}

// readBacktick scans a template literal. The opening/closing backtick and
// each `${ ... }` delimiter are returned as distinct tokens so the parser
// can drive interpolation (spec.md §4.1 rule 5); this call only returns the
// BACKTICK token and primes the lexer to emit T_STRING next.
func (l *Lexer) readBacktick(line, col, off int) token.Token {
	l.readChar()
	tok := token.Token{Type: token.BACKTICK, Text: "`", Line: line, Column: col, Offset: off, Buf: l.buf}
	l.updateRegexFlag(token.BACKTICK)
	return tok
}

// NextTemplateChunk resumes lexing inside a template literal after a
// BACKTICK or a closing interpolation RBRACE, returning the next run of
// literal text (T_STRING), an interpolation opener (DOLLAR_L_CURLY), or the
// closing BACKTICK. The parser calls this explicitly rather than Next()
// because the grammar position (inside vs. outside a template) cannot be
// recovered from token type alone. Nested braces inside `${...}` (object
// literals, block bodies) need no separate counter here: the parser parses
// a complete, self-balancing Expression for the interpolation before
// resuming this method, so by construction the next `}` it sees is the
// interpolation's own (spec.md §4.1 rule 5).
func (l *Lexer) NextTemplateChunk() token.Token {
	line, col, off := l.line, l.column, l.position
	var sb strings.Builder
	for {
		switch l.ch {
		case 0:
			l.addError("unterminated template literal")
			return token.Token{Type: token.T_STRING, Text: sb.String(), Line: line, Column: col, Offset: off, Buf: l.buf}
		case '`':
			if sb.Len() > 0 {
				return token.Token{Type: token.T_STRING, Text: sb.String(), Line: line, Column: col, Offset: off, Buf: l.buf}
			}
			l.readChar()
			l.updateRegexFlag(token.BACKTICK)
			return token.Token{Type: token.BACKTICK, Text: "`", Line: line, Column: col, Offset: off, Buf: l.buf}
		case '$':
			if l.peekChar() == '{' {
				if sb.Len() > 0 {
					return token.Token{Type: token.T_STRING, Text: sb.String(), Line: line, Column: col, Offset: off, Buf: l.buf}
				}
				l.readChar()
				l.readChar()
				l.updateRegexFlag(token.DOLLAR_L_CURLY)
				return token.Token{Type: token.DOLLAR_L_CURLY, Text: "${", Line: line, Column: col, Offset: off, Buf: l.buf}
			}
			sb.WriteRune(l.ch)
			l.readChar()
		case '\\':
			l.readChar()
			sb.WriteString(l.readEscape())
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// readRegex scans a regex literal once regexAllowed has signalled that `/`
// begins one (spec.md §4.1 rule 8), honoring escapes and character classes
// so an embedded `]` or `/` inside `[...]` does not terminate the literal
// early.
func (l *Lexer) readRegex(line, col, off int) token.Token {
	start := l.position
	l.readChar() // opening '/'
	inClass := false
	for {
		if l.ch == 0 || l.ch == '\n' {
			l.addError("unterminated regex literal")
			break
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		} else if l.ch == '/' && !inClass {
			l.readChar()
			break
		}
		l.readChar()
	}
	for isLetter(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	tok := token.Token{Type: token.REGEX, Text: text, Line: line, Column: col, Offset: off, Buf: l.buf}
	l.updateRegexFlag(token.REGEX)
	return tok
}

// operators is checked longest-match-first (maximal munch, spec.md §4.1
// rule 7).
var operators = []struct {
	text string
	typ  token.Type
}{
	{">>>=", token.USHR_EQ},
	{"...", token.ELLIPSIS},
	{"===", token.STRICT_EQ},
	{"!==", token.STRICT_NOT_EQ},
	{"**=", token.STAR_STAR_EQ},
	{"<<=", token.SHL_EQ},
	{">>=", token.SHR_EQ},
	{"&&=", token.AND_AND_EQ},
	{"||=", token.OR_OR_EQ},
	{"??=", token.QUESTION_QUESTION_EQ},
	{">>>", token.USHR},
	{"=>", token.ARROW},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LESS_EQ},
	{">=", token.GREATER_EQ},
	{"&&", token.AND_AND},
	{"||", token.OR_OR},
	{"??", token.QUESTION_QUESTION},
	{"?.", token.QUESTION_DOT},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"**", token.STAR_STAR},
	{"+=", token.PLUS_EQ},
	{"-=", token.MINUS_EQ},
	{"*=", token.STAR_EQ},
	{"/=", token.SLASH_EQ},
	{"%=", token.PERCENT_EQ},
	{"&=", token.AMP_EQ},
	{"|=", token.PIPE_EQ},
	{"^=", token.CARET_EQ},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"(", token.LPAREN}, {")", token.RPAREN},
	{"{", token.LBRACE}, {"}", token.RBRACE},
	{"[", token.LBRACKET}, {"]", token.RBRACKET},
	{",", token.COMMA}, {";", token.SEMICOLON}, {":", token.COLON},
	{".", token.DOT}, {"?", token.QUESTION},
	{"=", token.ASSIGN},
	{"<", token.LESS}, {">", token.GREATER},
	{"+", token.PLUS}, {"-", token.MINUS},
	{"*", token.STAR}, {"/", token.SLASH}, {"%", token.PERCENT},
	{"&", token.AMP}, {"|", token.PIPE}, {"^", token.CARET}, {"~", token.TILDE},
	{"!", token.BANG},
}

func (l *Lexer) readOperator(line, col, off int) token.Token {
	for _, op := range operators {
		if l.matchesAt(op.text) {
			for range op.text {
				l.readChar()
			}
			tok := token.Token{Type: op.typ, Text: op.text, Line: line, Column: col, Offset: off, Buf: l.buf}
			l.updateRegexFlag(op.typ)
			return tok
		}
	}
	ch := l.ch
	l.addError("unexpected character " + string(ch))
	l.readChar()
	tok := token.Token{Type: token.ILLEGAL, Text: string(ch), Line: line, Column: col, Offset: off, Buf: l.buf}
	l.updateRegexFlag(token.ILLEGAL)
	return tok
}

func (l *Lexer) matchesAt(s string) bool {
	if len(s) == 0 {
		return false
	}
	first := rune(s[0])
	if l.ch != first {
		return false
	}
	for i := 1; i < len(s); i++ {
		if l.peekCharAt(i-1) != rune(s[i]) {
			return false
		}
	}
	return true
}
