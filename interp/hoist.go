package interp

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/values"
)

// hoist implements spec.md §4.4's "Hoisting rules applied on function/root
// entry": var and function declarations reachable through stmts (without
// descending into nested function bodies, which hoist on their own
// activation) are bound onto the nearest function-or-root scope before any
// statement runs, followed by let/const declarations directly in stmts
// getting an uninitialized placeholder in ctx itself (spec.md §4.4's
// temporal dead zone — referencing the name before its declaration
// executes throws a ReferenceError via Context.Lookup's Initialized flag).
func (i *Interp) hoist(stmts []*ast.Node, ctx *context.Context) {
	for _, s := range stmts {
		i.hoistVar(s, ctx)
	}
	for _, s := range stmts {
		i.hoistFunction(s, ctx)
	}
	for _, s := range stmts {
		if s.Type != ast.VarDecl || s.Text() == "var" {
			continue
		}
		kind := context.LetBinding
		if s.Text() == "const" {
			kind = context.ConstBinding
		}
		for _, decl := range s.Declarations() {
			for _, name := range bindingNames(decl.Pattern()) {
				ctx.DeclareHere(kind, name, values.UndefinedValue, false)
			}
		}
	}
}

// hoistVar walks into every statement shape that can contain a nested `var`
// declaration without itself introducing a new function scope, mirroring
// which of this grammar's statement forms are "transparent" to hoisting.
func (i *Interp) hoistVar(n *ast.Node, ctx *context.Context) {
	if n == nil {
		return
	}
	switch n.Type {
	case ast.VarDecl:
		if n.Text() != "var" {
			return
		}
		for _, decl := range n.Declarations() {
			for _, name := range bindingNames(decl.Pattern()) {
				ctx.DeclareVar(name, values.UndefinedValue)
			}
		}
	case ast.BlockStmt:
		for _, c := range n.Statements() {
			i.hoistVar(c, ctx)
		}
	case ast.IfStmt:
		i.hoistVar(n.IfConsequent(), ctx)
		i.hoistVar(n.IfAlternate(), ctx)
	case ast.ForStmt:
		i.hoistVar(n.ForInit(), ctx)
		i.hoistVar(n.ForBody(), ctx)
	case ast.ForInStmt, ast.ForOfStmt:
		i.hoistVar(n.ForInLeft(), ctx)
		i.hoistVar(n.ForInBody(), ctx)
	case ast.WhileStmt:
		i.hoistVar(n.WhileBody(), ctx)
	case ast.DoWhileStmt:
		i.hoistVar(n.DoWhileBody(), ctx)
	case ast.TryStmt:
		i.hoistVar(n.TryBlock(), ctx)
		i.hoistVar(n.CatchBody(), ctx)
		i.hoistVar(n.FinallyBody(), ctx)
	case ast.SwitchStmt:
		for _, c := range n.Cases() {
			for _, s := range c.CaseBody() {
				i.hoistVar(s, ctx)
			}
		}
	case ast.LabeledStmt:
		i.hoistVar(n.LabeledBody(), ctx)
	}
}

// hoistFunction declares (and, for a top-level FunctionDeclStmt, fully
// initializes) hoisted functions after var hoisting so a later function
// declaration's value wins over an earlier one sharing the same name
// (Context.Assign always overwrites, unlike DeclareVar's keep-first rule).
func (i *Interp) hoistFunction(n *ast.Node, ctx *context.Context) {
	if n == nil {
		return
	}
	if n.Type == ast.FunctionDeclStmt {
		target := ctx.EnclosingFunction()
		target.DeclareVar(n.Text(), values.UndefinedValue)
		target.Assign(n.Text(), i.makeFunction(n, ctx, false))
		return
	}
	switch n.Type {
	case ast.BlockStmt:
		for _, c := range n.Statements() {
			i.hoistFunction(c, ctx)
		}
	case ast.IfStmt:
		i.hoistFunction(n.IfConsequent(), ctx)
		i.hoistFunction(n.IfAlternate(), ctx)
	case ast.TryStmt:
		i.hoistFunction(n.TryBlock(), ctx)
		i.hoistFunction(n.CatchBody(), ctx)
		i.hoistFunction(n.FinallyBody(), ctx)
	case ast.LabeledStmt:
		i.hoistFunction(n.LabeledBody(), ctx)
	}
}

// bindingNames flattens a binding pattern (Identifier, ArrayPattern,
// ObjectPattern, AssignPattern, RestElement, and Empty for elisions) into
// the list of plain names it introduces, used both by hoisting and by
// declarePattern's declaration step.
func bindingNames(pattern *ast.Node) []string {
	if pattern == nil {
		return nil
	}
	switch pattern.Type {
	case ast.Identifier:
		return []string{pattern.Text()}
	case ast.ArrayPattern:
		var out []string
		for _, el := range pattern.Elements() {
			out = append(out, bindingNames(el)...)
		}
		return out
	case ast.ObjectPattern:
		var out []string
		for _, prop := range pattern.Elements() {
			out = append(out, bindingNames(prop.Value())...)
		}
		return out
	case ast.AssignPattern:
		return bindingNames(pattern.Target())
	case ast.RestElement:
		return bindingNames(pattern.Target())
	default:
		return nil
	}
}
