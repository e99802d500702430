// Package ast defines the tagged node tree the parser produces and the
// evaluator walks.
package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-ecma/token"
)

// Type names a grammatical production. Unlike the teacher's per-production
// struct types (internal/ast/ast.go's Expression/Statement interfaces), this
// engine uses one Node shape for every production, tagged by Type, as
// spec.md §3 requires: `{ type, children, token? }`. Keeping a single
// concrete type instead of one Go type per production lets the evaluator's
// dispatch mirror the spec's "dispatch on Node.type" description directly.
type Type int

const (
	Program Type = iota

	// Statements.
	VarDecl  // Children: one Declarator per binding. Token: var/let/const keyword.
	BlockStmt
	IfStmt      // Children: [test, consequent, alternate?]
	ForStmt     // Children: [init?, test?, update?, body] (init/test/update may be Empty)
	ForInStmt   // Children: [left, right, body]
	ForOfStmt   // Children: [left, right, body]
	WhileStmt   // Children: [test, body]
	DoWhileStmt // Children: [body, test]
	SwitchStmt  // Children: [discriminant, case...]
	CaseClause  // Children: [test?, stmt...] (test nil for default)
	BreakStmt   // Token: optional label identifier token
	ContinueStmt
	ReturnStmt  // Children: [argument?]
	ThrowStmt   // Children: [argument]
	TryStmt     // Children: [block, catchParam?, catchBody?, finallyBody?] — see TryStmt accessors
	LabeledStmt // Children: [body]; Token: label
	ExprStmt    // Children: [expression]
	EmptyStmt
	FunctionDeclStmt // Children: [params..., body]; Token: function name identifier

	// Declarators (children of VarDecl).
	Declarator // Children: [pattern, init?]

	// Patterns.
	Identifier
	ArrayPattern  // Children: element patterns (Empty for elisions)
	ObjectPattern // Children: PropertyPattern nodes
	PropertyPattern // Children: [keyNode, valuePattern]; Computed set for [expr]:
	AssignPattern // Children: [target, default]
	RestElement   // Children: [target]

	// Literals and primary expressions.
	NullLit
	BoolLit
	NumberLit
	StringLit
	RegexLit
	ThisExpr
	TemplateLit    // Children: alternating StringLit-ish Quasi nodes and expressions
	Quasi          // Token.Text is the raw literal run
	ArrayLit       // Children: elements (SpreadElement or expression; Empty for elisions)
	ObjectLit      // Children: Property nodes
	Property       // Children: [keyNode, valueNode]; Computed set for [expr]:, Shorthand via Prefix flag
	SpreadElement  // Children: [argument]
	FunctionExpr   // Children: [params..., body]; Token: optional name identifier
	ArrowFunction  // Children: [params..., body]; Prefix flag reused to mean "body is block"

	// Operators.
	UnaryExpr  // Children: [operand]; Token: operator
	UpdateExpr // Children: [operand]; Token: operator; Prefix true for ++x/--x
	BinaryExpr // Children: [left, right]; Token: operator
	LogicalExpr // Children: [left, right]; Token: && || ??
	ConditionalExpr // Children: [test, consequent, alternate]
	AssignExpr      // Children: [target, value]; Token: operator (= += ...)
	SequenceExpr    // Children: expressions evaluated left to right

	// Member/call chains — never collapsed (spec.md §3).
	MemberExpr // Children: [object, property]; Computed, Optional flags
	CallExpr   // Children: [callee, arg...]; Optional flag for ?.()
	NewExpr    // Children: [callee, arg...]

	// Parameter wrapper distinguishing a bare identifier/pattern from one
	// with a default or rest marker; Params are AssignPattern/RestElement/
	// Identifier nodes directly, so no separate Param type is needed.
)

var typeNames = map[Type]string{
	Program: "Program", VarDecl: "VarDecl", BlockStmt: "BlockStmt",
	IfStmt: "IfStmt", ForStmt: "ForStmt", ForInStmt: "ForInStmt", ForOfStmt: "ForOfStmt",
	WhileStmt: "WhileStmt", DoWhileStmt: "DoWhileStmt", SwitchStmt: "SwitchStmt",
	CaseClause: "CaseClause", BreakStmt: "BreakStmt", ContinueStmt: "ContinueStmt",
	ReturnStmt: "ReturnStmt", ThrowStmt: "ThrowStmt", TryStmt: "TryStmt",
	LabeledStmt: "LabeledStmt", ExprStmt: "ExprStmt", EmptyStmt: "EmptyStmt",
	FunctionDeclStmt: "FunctionDeclStmt", Declarator: "Declarator",
	Identifier: "Identifier", ArrayPattern: "ArrayPattern", ObjectPattern: "ObjectPattern",
	PropertyPattern: "PropertyPattern", AssignPattern: "AssignPattern", RestElement: "RestElement",
	NullLit: "NullLit", BoolLit: "BoolLit", NumberLit: "NumberLit", StringLit: "StringLit",
	RegexLit: "RegexLit", ThisExpr: "ThisExpr", TemplateLit: "TemplateLit", Quasi: "Quasi",
	ArrayLit: "ArrayLit", ObjectLit: "ObjectLit", Property: "Property", SpreadElement: "SpreadElement",
	FunctionExpr: "FunctionExpr", ArrowFunction: "ArrowFunction",
	UnaryExpr: "UnaryExpr", UpdateExpr: "UpdateExpr", BinaryExpr: "BinaryExpr",
	LogicalExpr: "LogicalExpr", ConditionalExpr: "ConditionalExpr", AssignExpr: "AssignExpr",
	SequenceExpr: "SequenceExpr", MemberExpr: "MemberExpr", CallExpr: "CallExpr", NewExpr: "NewExpr",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Node is the single concrete node shape for every production (spec.md §3).
// Leaf nodes (Identifier, NumberLit, ...) carry Token and no Children.
// Interior nodes carry Children and usually also a Token for position info
// and, for operator-bearing productions, the operator text itself.
//
// Computed/Optional/Prefix are narrow boolean flags for productions whose
// shape the grammar disambiguates but a bare child list cannot: `a.b` vs
// `a[b]`, `a?.b` vs `a.b`, `++x` vs `x++`. They carry no semantic meaning
// beyond syntax shape — the evaluator still dispatches purely on Type.
type Node struct {
	Type     Type
	Children []*Node
	Token    *token.Token

	Computed bool
	Optional bool
	Prefix   bool
}

// Pos returns the node's source position, falling back to its first child's
// position when the node itself carries no token (e.g. Program, BlockStmt).
func (n *Node) Pos() token.Position {
	if n.Token != nil {
		return n.Token.Pos()
	}
	if len(n.Children) > 0 && n.Children[0] != nil {
		return n.Children[0].Pos()
	}
	return token.Position{}
}

// Text returns the node's own token text, or "" for nodes without one.
func (n *Node) Text() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Text
}

// String renders a compact debug form, not a JS pretty-printer: good enough
// for test failure messages and snapshot tests, following the teacher's
// ast.go String() methods in spirit (each node renders itself plus its
// children) without attempting to reproduce exact source syntax.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Type.String())
	if n.Token != nil && n.Token.Text != "" {
		fmt.Fprintf(sb, "(%s)", n.Token.Text)
	}
	flags := make([]string, 0, 3)
	if n.Computed {
		flags = append(flags, "computed")
	}
	if n.Optional {
		flags = append(flags, "optional")
	}
	if n.Prefix {
		flags = append(flags, "prefix")
	}
	if len(flags) > 0 {
		sb.WriteString(" [" + strings.Join(flags, ",") + "]")
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		if c == nil {
			sb.WriteString(strings.Repeat("  ", depth+1))
			sb.WriteString("<empty>\n")
			continue
		}
		c.write(sb, depth+1)
	}
}

// New builds a Node, a thin convenience the parser uses throughout instead
// of repeating struct literals.
func New(typ Type, tok *token.Token, children ...*Node) *Node {
	return &Node{Type: typ, Token: tok, Children: children}
}
