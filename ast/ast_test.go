package ast

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-ecma/token"
)

func tok(typ token.Type, text string) *token.Token {
	return &token.Token{Type: typ, Text: text, Line: 1, Column: 1}
}

func TestNodePos(t *testing.T) {
	id := New(Identifier, tok(token.IDENT, "x"))
	if id.Pos().Line != 1 {
		t.Fatalf("expected line 1, got %d", id.Pos().Line)
	}

	prog := New(Program, nil, id)
	if prog.Pos() != id.Pos() {
		t.Fatalf("Program.Pos() should fall back to first child")
	}
}

func TestBinaryExprAccessors(t *testing.T) {
	left := New(NumberLit, tok(token.NUMBER, "1"))
	right := New(NumberLit, tok(token.NUMBER, "2"))
	bin := New(BinaryExpr, tok(token.PLUS, "+"), left, right)

	if bin.Left() != left || bin.Right() != right {
		t.Fatalf("Left/Right accessors did not round-trip")
	}
	if bin.Text() != "+" {
		t.Fatalf("expected operator text '+', got %q", bin.Text())
	}
}

func TestFunctionParamsAndBody(t *testing.T) {
	p1 := New(Identifier, tok(token.IDENT, "a"))
	p2 := New(Identifier, tok(token.IDENT, "b"))
	body := New(BlockStmt, nil)
	fn := New(FunctionExpr, tok(token.FUNCTION, "function"), p1, p2, body)

	params := fn.Params()
	if len(params) != 2 || params[0] != p1 || params[1] != p2 {
		t.Fatalf("expected 2 params, got %v", params)
	}
	if fn.Body() != body {
		t.Fatalf("Body() did not return the last child")
	}
}

func TestTryStmtAccessors(t *testing.T) {
	block := New(BlockStmt, nil)
	finallyBody := New(BlockStmt, nil)
	try := New(TryStmt, nil, block, nil, nil, finallyBody)

	if try.TryBlock() != block {
		t.Fatalf("TryBlock mismatch")
	}
	if try.HasCatch() {
		t.Fatalf("expected HasCatch() false when catch body is nil")
	}
	if !try.HasFinally() {
		t.Fatalf("expected HasFinally() true")
	}
}

func TestStringRendersEmptyChildMarker(t *testing.T) {
	arr := New(ArrayLit, nil, New(NumberLit, tok(token.NUMBER, "1")), nil)
	out := arr.String()
	if !strings.Contains(out, "<empty>") {
		t.Fatalf("expected elision to render as <empty>, got:\n%s", out)
	}
}
