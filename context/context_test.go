package context

import (
	"testing"

	"github.com/cwbudde/go-ecma/values"
)

func newRoot() *Context {
	return NewRoot(values.NewStore(), func(string, []values.Value) {})
}

func TestNewRootHasNoParent(t *testing.T) {
	c := newRoot()
	if c.Parent != nil {
		t.Error("root Context should have no parent")
	}
	if c.Kind != RootKind {
		t.Errorf("root Kind = %v, want RootKind", c.Kind)
	}
}

func TestDeclareHereAndLookup(t *testing.T) {
	c := newRoot()
	c.DeclareHere(LetBinding, "x", values.Num(42), true)

	b, ok := c.Lookup("x")
	if !ok {
		t.Fatal("x not found after DeclareHere")
	}
	if b.Value.NumberVal() != 42 {
		t.Errorf("x = %v, want 42", b.Value.NumberVal())
	}
}

func TestLookupMissingNameFails(t *testing.T) {
	c := newRoot()
	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup of undeclared name should fail")
	}
}

func TestBlockChildShadowsOuterBinding(t *testing.T) {
	root := newRoot()
	root.DeclareHere(LetBinding, "x", values.Num(1), true)

	block := root.NewChild(BlockKind)
	block.DeclareHere(LetBinding, "x", values.Num(2), true)

	b, _ := block.Lookup("x")
	if b.Value.NumberVal() != 2 {
		t.Errorf("inner x = %v, want 2 (shadowing)", b.Value.NumberVal())
	}

	outer, _ := root.Lookup("x")
	if outer.Value.NumberVal() != 1 {
		t.Errorf("outer x = %v, want 1 (unaffected by shadow)", outer.Value.NumberVal())
	}
}

func TestDeclareHereSameEvalDuplicateIsRejected(t *testing.T) {
	c := newRoot()
	c.DeclareHere(LetBinding, "x", values.Num(1), true)
	_, created := c.DeclareHere(LetBinding, "x", values.Num(2), true)
	if created {
		t.Error("redeclaring a name within the same eval should report created=false")
	}
}

func TestDeclareHereAcrossEvalsOverwrites(t *testing.T) {
	c := newRoot()
	c.DeclareHere(LetBinding, "x", values.Num(1), true)

	c.BeginEval()
	b, created := c.DeclareHere(LetBinding, "x", values.Num(2), true)
	if !created {
		t.Fatal("redeclaring across a new eval id should be allowed")
	}
	if b.Value.NumberVal() != 2 {
		t.Errorf("x = %v, want 2", b.Value.NumberVal())
	}
	if b.Previous == nil || b.Previous.Value.NumberVal() != 1 {
		t.Error("new binding should chain to the shadowed one via Previous")
	}
}

func TestDeclareVarHoistsThroughBlocks(t *testing.T) {
	root := newRoot()
	fn := root.NewChild(FunctionKind)
	block := fn.NewChild(BlockKind)
	inner := block.NewChild(BlockKind)

	inner.DeclareVar("counter", values.Num(0))

	if _, ok := inner.bindings["counter"]; ok {
		t.Error("var should not land in the innermost block's own map")
	}
	b, ok := fn.Lookup("counter")
	if !ok {
		t.Fatal("var should be visible from the function Context")
	}
	if b.Level != fn.Level {
		t.Errorf("hoisted var Level = %d, want function Level %d", b.Level, fn.Level)
	}
}

func TestDeclareVarIsIdempotent(t *testing.T) {
	fn := newRoot().NewChild(FunctionKind)
	fn.DeclareVar("x", values.Num(1))
	fn.DeclareVar("x", values.Num(2)) // re-hoisting (e.g. a loop body) must not clobber

	b, _ := fn.Lookup("x")
	if b.Value.NumberVal() != 1 {
		t.Errorf("x = %v, want 1 (first DeclareVar wins)", b.Value.NumberVal())
	}
}

func TestAssignUpdatesNearestVisibleBinding(t *testing.T) {
	root := newRoot()
	root.DeclareHere(LetBinding, "x", values.Num(1), true)
	block := root.NewChild(BlockKind)

	if !block.Assign("x", values.Num(99)) {
		t.Fatal("Assign should find x in an outer scope")
	}
	b, _ := root.Lookup("x")
	if b.Value.NumberVal() != 99 {
		t.Errorf("x = %v, want 99", b.Value.NumberVal())
	}
}

func TestAssignUndeclaredNameFails(t *testing.T) {
	c := newRoot()
	if c.Assign("nope", values.Num(1)) {
		t.Error("Assign to an undeclared name should fail")
	}
}

func TestFunctionChildGetsFreshFlowCell(t *testing.T) {
	root := newRoot()
	block := root.NewChild(BlockKind)
	fn := root.NewChild(FunctionKind)

	if block.Flow() != root.Flow() {
		t.Error("a Block child should share its parent's flow cell")
	}
	if fn.Flow() == root.Flow() {
		t.Error("a Function child should get its own flow cell")
	}
}

func TestControlFlowBreakPropagatesAcrossNestedBlocks(t *testing.T) {
	root := newRoot()
	loopBody := root.NewChild(BlockKind)
	nested := loopBody.NewChild(BlockKind)

	nested.Flow().SetBreak("")

	if !loopBody.Flow().IsActive() {
		t.Fatal("break set in a nested block should be visible from the enclosing block")
	}
	if loopBody.Flow().Kind != FlowBreak {
		t.Errorf("Flow.Kind = %v, want FlowBreak", loopBody.Flow().Kind)
	}
}

func TestControlFlowTargetsLoop(t *testing.T) {
	var cf ControlFlow
	cf.SetBreak("")
	if !cf.TargetsLoop("outer") {
		t.Error("an unlabeled break should target any loop")
	}

	cf.SetBreak("outer")
	if !cf.TargetsLoop("outer") || cf.TargetsLoop("inner") {
		t.Error("a labeled break should target only its matching label")
	}
}

func TestEnclosingFunctionStopsAtRoot(t *testing.T) {
	root := newRoot()
	block := root.NewChild(BlockKind)
	if block.EnclosingFunction() != root {
		t.Error("EnclosingFunction from a block directly under root should be root itself")
	}
}
