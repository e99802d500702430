package parser

import (
	"testing"

	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/lexer"
)

func mustParse(t *testing.T, src string) *ast.Node {
	t.Helper()
	p := New(lexer.New("test.js", src))
	prog := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func firstStmt(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog := mustParse(t, src)
	stmts := prog.Statements()
	if len(stmts) == 0 {
		t.Fatalf("no statements parsed from %q", src)
	}
	return stmts[0]
}

func TestVarDeclKinds(t *testing.T) {
	for _, kw := range []string{"var", "let", "const"} {
		stmt := firstStmt(t, kw+" x = 1;")
		if stmt.Type != ast.VarDecl {
			t.Fatalf("%s: expected VarDecl, got %s", kw, stmt.Type)
		}
		if stmt.Text() != kw {
			t.Fatalf("expected decl keyword %q, got %q", kw, stmt.Text())
		}
		decls := stmt.Declarations()
		if len(decls) != 1 {
			t.Fatalf("expected 1 declarator, got %d", len(decls))
		}
		if decls[0].Pattern().Text() != "x" {
			t.Fatalf("expected pattern identifier x, got %s", decls[0].Pattern().Text())
		}
		if decls[0].Init().Type != ast.NumberLit {
			t.Fatalf("expected NumberLit init, got %s", decls[0].Init().Type)
		}
	}
}

func TestMultiDeclaratorVarDecl(t *testing.T) {
	stmt := firstStmt(t, "let a = 1, b = 2, c;")
	decls := stmt.Declarations()
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarators, got %d", len(decls))
	}
	if decls[2].Init() != nil {
		t.Fatalf("expected nil init for bare `c`, got %v", decls[2].Init())
	}
}

func TestIfElse(t *testing.T) {
	stmt := firstStmt(t, "if (a) b; else c;")
	if stmt.Type != ast.IfStmt {
		t.Fatalf("expected IfStmt, got %s", stmt.Type)
	}
	if stmt.IfTest().Text() != "a" {
		t.Fatalf("expected test `a`, got %s", stmt.IfTest().Text())
	}
	if stmt.IfAlternate() == nil {
		t.Fatalf("expected non-nil alternate")
	}
}

func TestIfWithoutElse(t *testing.T) {
	stmt := firstStmt(t, "if (a) b;")
	if stmt.IfAlternate() != nil {
		t.Fatalf("expected nil alternate, got %v", stmt.IfAlternate())
	}
}

func TestCStyleForLoop(t *testing.T) {
	stmt := firstStmt(t, "for (let i = 0; i < 10; i++) {}")
	if stmt.Type != ast.ForStmt {
		t.Fatalf("expected ForStmt, got %s", stmt.Type)
	}
	if stmt.ForInit().Type != ast.VarDecl {
		t.Fatalf("expected VarDecl init, got %s", stmt.ForInit().Type)
	}
	if stmt.ForTest().Type != ast.BinaryExpr {
		t.Fatalf("expected BinaryExpr test, got %s", stmt.ForTest().Type)
	}
	if stmt.ForUpdate().Type != ast.UpdateExpr {
		t.Fatalf("expected UpdateExpr update, got %s", stmt.ForUpdate().Type)
	}
}

func TestForInDoesNotSwallowInOperator(t *testing.T) {
	stmt := firstStmt(t, "for (let k in obj) {}")
	if stmt.Type != ast.ForInStmt {
		t.Fatalf("expected ForInStmt, got %s", stmt.Type)
	}
	if stmt.ForInRight().Text() != "obj" {
		t.Fatalf("expected right operand `obj`, got %s", stmt.ForInRight().Text())
	}
}

func TestForOf(t *testing.T) {
	stmt := firstStmt(t, "for (const v of items) {}")
	if stmt.Type != ast.ForOfStmt {
		t.Fatalf("expected ForOfStmt, got %s", stmt.Type)
	}
}

func TestForWithInExpressionInsideParens(t *testing.T) {
	// A bare `in` inside a parenthesized init clause must still parse as a
	// binary operator (noIn resets inside nested brackets).
	stmt := firstStmt(t, "for ((a in b); ; ) {}")
	if stmt.Type != ast.ForStmt {
		t.Fatalf("expected ForStmt, got %s", stmt.Type)
	}
	if stmt.ForInit().Type != ast.BinaryExpr {
		t.Fatalf("expected `in` parsed as BinaryExpr inside parens, got %s", stmt.ForInit().Type)
	}
}

func TestWhileAndDoWhile(t *testing.T) {
	w := firstStmt(t, "while (x) { x = x - 1; }")
	if w.Type != ast.WhileStmt {
		t.Fatalf("expected WhileStmt, got %s", w.Type)
	}
	d := firstStmt(t, "do { x = x - 1; } while (x);")
	if d.Type != ast.DoWhileStmt {
		t.Fatalf("expected DoWhileStmt, got %s", d.Type)
	}
}

func TestSwitchStatement(t *testing.T) {
	stmt := firstStmt(t, `switch (x) {
		case 1: a(); break;
		default: b();
	}`)
	if stmt.Type != ast.SwitchStmt {
		t.Fatalf("expected SwitchStmt, got %s", stmt.Type)
	}
	cases := stmt.Cases()
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].CaseTest() == nil {
		t.Fatalf("expected non-nil test on first case")
	}
	if cases[1].CaseTest() != nil {
		t.Fatalf("expected nil test on default case")
	}
}

func TestTryCatchFinally(t *testing.T) {
	stmt := firstStmt(t, "try { a(); } catch (e) { b(); } finally { c(); }")
	if stmt.Type != ast.TryStmt {
		t.Fatalf("expected TryStmt, got %s", stmt.Type)
	}
	if !stmt.HasCatch() || !stmt.HasFinally() {
		t.Fatalf("expected both catch and finally present")
	}
	if stmt.CatchParam().Text() != "e" {
		t.Fatalf("expected catch param `e`, got %s", stmt.CatchParam().Text())
	}
}

func TestTryWithoutCatchParam(t *testing.T) {
	stmt := firstStmt(t, "try { a(); } catch { b(); }")
	if !stmt.HasCatch() {
		t.Fatalf("expected catch present")
	}
	if stmt.CatchParam() != nil {
		t.Fatalf("expected nil catch param, got %v", stmt.CatchParam())
	}
}

func TestReturnASIStopsAtLineBreak(t *testing.T) {
	// A line break after `return` triggers ASI: the following identifier
	// must NOT be consumed as the return's argument (spec.md restricted
	// production rule).
	prog := mustParse(t, "function f() {\n  return\n  x;\n}")
	fn := prog.Statements()[0]
	body := fn.Body()
	retStmt := body.Statements()[0]
	if retStmt.Type != ast.ReturnStmt {
		t.Fatalf("expected ReturnStmt, got %s", retStmt.Type)
	}
	if retStmt.Argument() != nil {
		t.Fatalf("expected nil return argument due to ASI, got %v", retStmt.Argument())
	}
}

func TestPostfixUpdateRestrictedAcrossNewline(t *testing.T) {
	prog := mustParse(t, "a\n++\nb")
	stmts := prog.Statements()
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements (ASI split before `++`), got %d", len(stmts))
	}
}

func TestBinaryPrecedence(t *testing.T) {
	stmt := firstStmt(t, "a + b * c;")
	expr := stmt.Expr()
	if expr.Type != ast.BinaryExpr || expr.Text() != "+" {
		t.Fatalf("expected top-level `+`, got %s %q", expr.Type, expr.Text())
	}
	if expr.Right().Text() != "*" {
		t.Fatalf("expected `*` to bind tighter on the right, got %s", expr.Right().Text())
	}
}

func TestExponentIsRightAssociative(t *testing.T) {
	stmt := firstStmt(t, "a ** b ** c;")
	expr := stmt.Expr()
	if expr.Text() != "**" {
		t.Fatalf("expected top `**`, got %q", expr.Text())
	}
	if expr.Right().Text() != "**" {
		t.Fatalf("expected right-associative nesting, got %s", expr.Right().Type)
	}
	if expr.Left().Type != ast.Identifier {
		t.Fatalf("expected plain identifier on the left, got %s", expr.Left().Type)
	}
}

func TestTernaryAndNullish(t *testing.T) {
	stmt := firstStmt(t, "a ? b : c ?? d;")
	expr := stmt.Expr()
	if expr.Type != ast.ConditionalExpr {
		t.Fatalf("expected ConditionalExpr, got %s", expr.Type)
	}
	if expr.Children[2].Type != ast.LogicalExpr {
		t.Fatalf("expected nullish-coalescing alternate, got %s", expr.Children[2].Type)
	}
}

func TestMemberAndOptionalChain(t *testing.T) {
	stmt := firstStmt(t, "a.b?.c[d];")
	expr := stmt.Expr()
	if expr.Type != ast.MemberExpr || !expr.Computed {
		t.Fatalf("expected computed MemberExpr at top, got %s computed=%v", expr.Type, expr.Computed)
	}
	mid := expr.Object()
	if !mid.Optional {
		t.Fatalf("expected optional-chain member, got %+v", mid)
	}
}

func TestCallExpression(t *testing.T) {
	stmt := firstStmt(t, "f(1, ...rest);")
	call := stmt.Expr()
	if call.Type != ast.CallExpr {
		t.Fatalf("expected CallExpr, got %s", call.Type)
	}
	args := call.Args()
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[1].Type != ast.SpreadElement {
		t.Fatalf("expected SpreadElement rest arg, got %s", args[1].Type)
	}
}

func TestNewExpressionMemberCallee(t *testing.T) {
	stmt := firstStmt(t, "new Foo.Bar(1);")
	n := stmt.Expr()
	if n.Type != ast.NewExpr {
		t.Fatalf("expected NewExpr, got %s", n.Type)
	}
	if n.Callee().Type != ast.MemberExpr {
		t.Fatalf("expected member callee, got %s", n.Callee().Type)
	}
	if len(n.Args()) != 1 {
		t.Fatalf("expected 1 constructor arg, got %d", len(n.Args()))
	}
}

func TestNewExpressionThenCall(t *testing.T) {
	stmt := firstStmt(t, "new Foo().bar();")
	outer := stmt.Expr()
	if outer.Type != ast.CallExpr {
		t.Fatalf("expected outer CallExpr, got %s", outer.Type)
	}
	member := outer.Callee()
	if member.Type != ast.MemberExpr {
		t.Fatalf("expected MemberExpr callee, got %s", member.Type)
	}
	if member.Object().Type != ast.NewExpr {
		t.Fatalf("expected `new Foo()` as member object, got %s", member.Object().Type)
	}
}

func TestArrowFunctionSingleBareParam(t *testing.T) {
	stmt := firstStmt(t, "const f = x => x + 1;")
	arrow := stmt.Declarations()[0].Init()
	if arrow.Type != ast.ArrowFunction {
		t.Fatalf("expected ArrowFunction, got %s", arrow.Type)
	}
	if len(arrow.Params()) != 1 {
		t.Fatalf("expected 1 param, got %d", len(arrow.Params()))
	}
	if arrow.Prefix {
		t.Fatalf("expected Prefix=false for an expression body")
	}
}

func TestArrowFunctionParenParamsWithBlockBody(t *testing.T) {
	stmt := firstStmt(t, "const f = (a, b = 1, ...rest) => { return a; };")
	arrow := stmt.Declarations()[0].Init()
	params := arrow.Params()
	if len(params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(params))
	}
	if params[1].Type != ast.AssignPattern {
		t.Fatalf("expected default param as AssignPattern, got %s", params[1].Type)
	}
	if params[2].Type != ast.RestElement {
		t.Fatalf("expected rest param, got %s", params[2].Type)
	}
	if !arrow.Prefix {
		t.Fatalf("expected Prefix=true for a block body")
	}
}

func TestGroupedExpressionIsNotMistakenForArrow(t *testing.T) {
	stmt := firstStmt(t, "(a + b);")
	expr := stmt.Expr()
	if expr.Type != ast.BinaryExpr {
		t.Fatalf("expected the parenthesized expression to parse as BinaryExpr, got %s", expr.Type)
	}
}

func TestArrayLiteralWithElisionAndSpread(t *testing.T) {
	stmt := firstStmt(t, "[1, , ...rest];")
	arr := stmt.Expr()
	elems := arr.Elements()
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	if elems[1] != nil {
		t.Fatalf("expected elision to be a nil element, got %v", elems[1])
	}
	if elems[2].Type != ast.SpreadElement {
		t.Fatalf("expected trailing SpreadElement, got %s", elems[2].Type)
	}
}

func TestObjectLiteralShorthandAndComputed(t *testing.T) {
	stmt := firstStmt(t, "({ a, [k]: 1 });")
	obj := stmt.Expr()
	if obj.Type != ast.ObjectLit {
		t.Fatalf("expected ObjectLit, got %s", obj.Type)
	}
	props := obj.Children
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	if !props[0].Prefix {
		t.Fatalf("expected shorthand flag on first property")
	}
	if !props[1].Computed {
		t.Fatalf("expected computed flag on second property")
	}
}

func TestDestructuringArrayAndObjectAssignment(t *testing.T) {
	decl := firstStmt(t, "let [a, [b, c]] = pair;")
	pattern := decl.Declarations()[0].Pattern()
	if pattern.Type != ast.ArrayPattern {
		t.Fatalf("expected ArrayPattern, got %s", pattern.Type)
	}
	nested := pattern.Elements()[1]
	if nested.Type != ast.ArrayPattern {
		t.Fatalf("expected nested ArrayPattern, got %s", nested.Type)
	}

	obj := firstStmt(t, "let { x, y: { z } } = point;")
	objPattern := obj.Declarations()[0].Pattern()
	if objPattern.Type != ast.ObjectPattern {
		t.Fatalf("expected ObjectPattern, got %s", objPattern.Type)
	}
}

func TestLabeledStatement(t *testing.T) {
	stmt := firstStmt(t, "outer: for (;;) { break outer; }")
	if stmt.Type != ast.LabeledStmt {
		t.Fatalf("expected LabeledStmt, got %s", stmt.Type)
	}
	if stmt.Text() != "outer" {
		t.Fatalf("expected label text `outer`, got %q", stmt.Text())
	}
}

func TestTemplateLiteralInterpolation(t *testing.T) {
	stmt := firstStmt(t, "`a${1 + 2}b${c}`;")
	tmpl := stmt.Expr()
	if tmpl.Type != ast.TemplateLit {
		t.Fatalf("expected TemplateLit, got %s", tmpl.Type)
	}
	quasis := tmpl.Quasis()
	exprs := tmpl.TemplateExpressions()
	if len(quasis) != 3 {
		t.Fatalf("expected 3 quasis, got %d", len(quasis))
	}
	if len(exprs) != 2 {
		t.Fatalf("expected 2 interpolated expressions, got %d", len(exprs))
	}
	if exprs[0].Type != ast.BinaryExpr {
		t.Fatalf("expected first interpolation to be a BinaryExpr, got %s", exprs[0].Type)
	}
	if exprs[1].Type != ast.Identifier {
		t.Fatalf("expected second interpolation to be an Identifier, got %s", exprs[1].Type)
	}
}

func TestNestedTemplateLiteral(t *testing.T) {
	stmt := firstStmt(t, "`a${`b${c}d`}e`;")
	outer := stmt.Expr()
	inner := outer.TemplateExpressions()[0]
	if inner.Type != ast.TemplateLit {
		t.Fatalf("expected nested TemplateLit, got %s", inner.Type)
	}
	if len(inner.TemplateExpressions()) != 1 {
		t.Fatalf("expected 1 interpolation in the nested template, got %d", len(inner.TemplateExpressions()))
	}
}

func TestTemplateLiteralWithObjectLiteralInterpolation(t *testing.T) {
	// The interpolation's own closing `}` must not be confused with the
	// object literal's closing `}` nested inside it.
	stmt := firstStmt(t, "`${ {a: 1}.a }`;")
	tmpl := stmt.Expr()
	exprs := tmpl.TemplateExpressions()
	if len(exprs) != 1 {
		t.Fatalf("expected 1 interpolation, got %d", len(exprs))
	}
	if exprs[0].Type != ast.MemberExpr {
		t.Fatalf("expected MemberExpr over an object literal, got %s", exprs[0].Type)
	}
	if exprs[0].Object().Type != ast.ObjectLit {
		t.Fatalf("expected ObjectLit object, got %s", exprs[0].Object().Type)
	}
}

func TestFunctionDeclarationAndExpression(t *testing.T) {
	decl := firstStmt(t, "function add(a, b) { return a + b; }")
	if decl.Type != ast.FunctionDeclStmt {
		t.Fatalf("expected FunctionDeclStmt, got %s", decl.Type)
	}
	if decl.Text() != "add" {
		t.Fatalf("expected function name `add`, got %q", decl.Text())
	}
	if len(decl.Params()) != 2 {
		t.Fatalf("expected 2 params, got %d", len(decl.Params()))
	}

	expr := firstStmt(t, "(function named() {});")
	fn := expr.Expr()
	if fn.Type != ast.FunctionExpr {
		t.Fatalf("expected FunctionExpr, got %s", fn.Type)
	}
}

func TestSequenceExpression(t *testing.T) {
	stmt := firstStmt(t, "a = (1, 2, 3);")
	seq := stmt.Expr().AssignValue()
	if seq.Type != ast.SequenceExpr {
		t.Fatalf("expected SequenceExpr, got %s", seq.Type)
	}
	if len(seq.Elements()) != 3 {
		t.Fatalf("expected 3 sequence elements, got %d", len(seq.Elements()))
	}
}

func TestSyntaxErrorRecovery(t *testing.T) {
	p := New(lexer.New("test.js", "let ; let y = 1;"))
	prog := p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one syntax error")
	}
	// synchronize() should still let the parser find the second statement.
	found := false
	for _, s := range prog.Statements() {
		if s.Type == ast.VarDecl && s.Declarations()[0].Pattern().Text() == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and still find `let y = 1;`")
	}
}
