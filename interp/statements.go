package interp

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// execStmt dispatches a single statement node, following this package's
// convention (documented on Interp.propagateErr): a statement never
// returns a Go error of its own — it either completes normally or leaves
// ctx.Flow() active, which every caller (runStatements, and every compound
// statement's own sub-evaluation below) checks immediately afterward. The
// returned Value is only meaningful for ExprStmt, mirroring the teacher's
// Interpreter.Eval returning the last expression statement's value as the
// program's completion value.
func (i *Interp) execStmt(n *ast.Node, ctx *context.Context) values.Value {
	switch n.Type {
	case ast.ExprStmt:
		return i.eval(n.Expr(), ctx)

	case ast.EmptyStmt, ast.FunctionDeclStmt:
		return values.UndefinedValue // already hoisted

	case ast.VarDecl:
		i.execVarDecl(n, ctx)
		return values.UndefinedValue

	case ast.BlockStmt:
		i.execBlock(n, ctx)
		return values.UndefinedValue

	case ast.IfStmt:
		i.execIf(n, ctx)
		return values.UndefinedValue

	case ast.WhileStmt:
		i.execWhile(n, ctx, "")
		return values.UndefinedValue

	case ast.DoWhileStmt:
		i.execDoWhile(n, ctx, "")
		return values.UndefinedValue

	case ast.ForStmt:
		i.execFor(n, ctx, "")
		return values.UndefinedValue

	case ast.ForInStmt:
		i.execForIn(n, ctx, "")
		return values.UndefinedValue

	case ast.ForOfStmt:
		i.execForOf(n, ctx, "")
		return values.UndefinedValue

	case ast.SwitchStmt:
		i.execSwitch(n, ctx)
		return values.UndefinedValue

	case ast.BreakStmt:
		ctx.Flow().SetBreak(n.Text())
		return values.UndefinedValue

	case ast.ContinueStmt:
		ctx.Flow().SetContinue(n.Text())
		return values.UndefinedValue

	case ast.ReturnStmt:
		v := values.UndefinedValue
		if arg := n.Argument(); arg != nil {
			v = i.eval(arg, ctx)
			if ctx.Flow().IsActive() {
				return values.UndefinedValue
			}
		}
		ctx.Flow().SetReturn(v)
		return values.UndefinedValue

	case ast.ThrowStmt:
		v := i.eval(n.Argument(), ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		ctx.Flow().SetThrow(v)
		return values.UndefinedValue

	case ast.TryStmt:
		i.execTry(n, ctx)
		return values.UndefinedValue

	case ast.LabeledStmt:
		i.execLabeled(n, ctx)
		return values.UndefinedValue

	default:
		i.throwError(ctx, errors.JsErrorKind, "cannot execute %s as a statement", n.Type)
		return values.UndefinedValue
	}
}

func (i *Interp) execBlock(n *ast.Node, ctx *context.Context) {
	child := ctx.NewChild(context.BlockKind)
	i.runStatements(n.Statements(), child)
}

func (i *Interp) execVarDecl(n *ast.Node, ctx *context.Context) {
	kind := context.VarBinding
	switch n.Text() {
	case "let":
		kind = context.LetBinding
	case "const":
		kind = context.ConstBinding
	}
	for _, decl := range n.Declarations() {
		var v values.Value = values.UndefinedValue
		if init := decl.Init(); init != nil {
			v = i.eval(init, ctx)
			if ctx.Flow().IsActive() {
				return
			}
		}
		if kind == context.VarBinding {
			// var's binding slot already exists (hoisted); this is a plain
			// assignment into it.
			i.assignPattern(ctx, decl.Pattern(), v)
		} else {
			i.declarePattern(ctx, kind, decl.Pattern(), v)
		}
	}
}

// declarePattern binds a (possibly destructuring) pattern's names directly
// in ctx via DeclareHere — used for let/const declarations and for
// parameter binding, where each name is new in its own scope.
func (i *Interp) declarePattern(ctx *context.Context, kind context.BindingKind, pattern *ast.Node, v values.Value) {
	switch pattern.Type {
	case ast.Identifier:
		b, created := ctx.DeclareHere(kind, pattern.Text(), v, true)
		if !created {
			if b.Initialized {
				i.throwError(ctx, errors.SyntaxErrorKind, "Identifier '%s' has already been declared", pattern.Text())
			} else {
				// The hoisting pass's uninitialized let/const placeholder.
				b.Value, b.Initialized = v, true
			}
		}
	case ast.ArrayPattern:
		i.destructureArray(ctx, pattern, v, func(c *context.Context, target *ast.Node, val values.Value) {
			i.declarePattern(c, kind, target, val)
		})
	case ast.ObjectPattern:
		i.destructureObject(ctx, pattern, v, func(c *context.Context, target *ast.Node, val values.Value) {
			i.declarePattern(c, kind, target, val)
		})
	case ast.AssignPattern:
		if v.IsUndefined() {
			v = i.eval(pattern.Default(), ctx)
		}
		i.declarePattern(ctx, kind, pattern.Target(), v)
	case ast.RestElement:
		i.declarePattern(ctx, kind, pattern.Target(), v)
	}
}

// assignPattern binds a (possibly destructuring) pattern through ordinary
// assignment (`var`, or a bare `=` expression target) rather than a fresh
// declaration: names must already be visible via Context.Assign.
func (i *Interp) assignPattern(ctx *context.Context, pattern *ast.Node, v values.Value) {
	switch pattern.Type {
	case ast.Identifier:
		if !ctx.Assign(pattern.Text(), v) {
			ctx.Root().DeclareHere(context.VarBinding, pattern.Text(), v, true)
		}
	case ast.ArrayPattern:
		i.destructureArray(ctx, pattern, v, i.assignPattern)
	case ast.ObjectPattern:
		i.destructureObject(ctx, pattern, v, i.assignPattern)
	case ast.AssignPattern:
		if v.IsUndefined() {
			v = i.eval(pattern.Default(), ctx)
		}
		i.assignPattern(ctx, pattern.Target(), v)
	case ast.RestElement:
		i.assignPattern(ctx, pattern.Target(), v)
	case ast.MemberExpr:
		i.assignMember(ctx, pattern, v)
	}
}

type bindFunc func(ctx *context.Context, target *ast.Node, v values.Value)

func (i *Interp) destructureArray(ctx *context.Context, pattern *ast.Node, v values.Value, bind bindFunc) {
	elems := pattern.Elements()
	for idx, el := range elems {
		if el == nil {
			continue
		}
		if el.Type == ast.RestElement {
			rest := i.arrayTail(v, idx)
			bind(ctx, el.Target(), rest)
			return
		}
		item, _ := i.getProperty(v, itoa(idx))
		bind(ctx, el, item)
	}
}

func (i *Interp) destructureObject(ctx *context.Context, pattern *ast.Node, v values.Value, bind bindFunc) {
	taken := map[string]bool{}
	for _, prop := range pattern.Elements() {
		if prop.Type == ast.RestElement {
			rest := i.newPlainObject()
			if v.Kind() == values.Obj {
				for _, k := range i.Store.EnumerateKeys(v) {
					if !taken[k] {
						val, _ := i.getProperty(v, k)
						i.setProperty(rest, k, val)
					}
				}
			}
			bind(ctx, prop.Target(), rest)
			continue
		}
		key := i.propertyKeyOf(prop.Key(), prop.Computed, ctx)
		taken[key] = true
		val, _ := i.getProperty(v, key)
		bind(ctx, prop.Value(), val)
	}
}

func (i *Interp) arrayTail(v values.Value, from int) values.Value {
	var out []values.Value
	if v.Kind() == values.Obj && i.Store.Object(v).Class == values.ClassArray {
		length := i.Store.Object(v).ArrayLength
		for idx := from; idx < length; idx++ {
			item, _ := i.getProperty(v, itoa(idx))
			out = append(out, item)
		}
	}
	return i.newArray(out)
}

func (i *Interp) execIf(n *ast.Node, ctx *context.Context) {
	test := i.eval(n.IfTest(), ctx)
	if ctx.Flow().IsActive() {
		return
	}
	if terms.Truthy(test) {
		i.execStmt(n.IfConsequent(), ctx)
	} else if alt := n.IfAlternate(); alt != nil {
		i.execStmt(alt, ctx)
	}
}

func (i *Interp) execWhile(n *ast.Node, ctx *context.Context, label string) {
	for {
		test := i.eval(n.WhileTest(), ctx)
		if ctx.Flow().IsActive() {
			return
		}
		if !terms.Truthy(test) {
			return
		}
		i.execStmt(n.WhileBody(), ctx)
		if i.consumeLoopFlow(ctx, label) {
			return
		}
	}
}

func (i *Interp) execDoWhile(n *ast.Node, ctx *context.Context, label string) {
	for {
		i.execStmt(n.DoWhileBody(), ctx)
		if i.consumeLoopFlow(ctx, label) {
			return
		}
		test := i.eval(n.DoWhileTest(), ctx)
		if ctx.Flow().IsActive() {
			return
		}
		if !terms.Truthy(test) {
			return
		}
	}
}

func (i *Interp) execFor(n *ast.Node, ctx *context.Context, label string) {
	loopCtx := ctx.NewChild(context.BlockKind)
	if init := n.ForInit(); init != nil {
		if init.Type == ast.VarDecl {
			i.hoist([]*ast.Node{init}, loopCtx)
			i.execStmt(init, loopCtx)
		} else {
			i.eval(init, loopCtx)
		}
		if loopCtx.Flow().IsActive() {
			return
		}
	}
	for {
		if test := n.ForTest(); test != nil {
			tv := i.eval(test, loopCtx)
			if loopCtx.Flow().IsActive() {
				return
			}
			if !terms.Truthy(tv) {
				return
			}
		}
		i.execStmt(n.ForBody(), loopCtx)
		if i.consumeLoopFlow(loopCtx, label) {
			return
		}
		if update := n.ForUpdate(); update != nil {
			i.eval(update, loopCtx)
			if loopCtx.Flow().IsActive() {
				return
			}
		}
	}
}

func (i *Interp) execForIn(n *ast.Node, ctx *context.Context, label string) {
	right := i.eval(n.ForInRight(), ctx)
	if ctx.Flow().IsActive() {
		return
	}
	if right.Kind() != values.Obj {
		return
	}
	for _, key := range i.Store.EnumerateKeys(right) {
		iterCtx := ctx.NewChild(context.BlockKind)
		i.bindForTarget(n.ForInLeft(), values.Str(key), iterCtx)
		if iterCtx.Flow().IsActive() {
			return
		}
		i.execStmt(n.ForInBody(), iterCtx)
		if i.consumeLoopFlow(ctx, label) {
			return
		}
	}
}

func (i *Interp) execForOf(n *ast.Node, ctx *context.Context, label string) {
	right := i.eval(n.ForInRight(), ctx)
	if ctx.Flow().IsActive() {
		return
	}
	items, ok := i.iterableItems(right)
	if !ok {
		i.throwError(ctx, errors.TypeErrorKind, "value is not iterable")
		return
	}
	for _, item := range items {
		iterCtx := ctx.NewChild(context.BlockKind)
		i.bindForTarget(n.ForInLeft(), item, iterCtx)
		if iterCtx.Flow().IsActive() {
			return
		}
		i.execStmt(n.ForInBody(), iterCtx)
		if i.consumeLoopFlow(ctx, label) {
			return
		}
	}
}

// iterableItems supports the array/string iterables spec.md §4.4's for-of
// needs; a general Symbol.iterator protocol is out of scope (SPEC_FULL.md
// names only array/string for-of).
func (i *Interp) iterableItems(v values.Value) ([]values.Value, bool) {
	switch v.Kind() {
	case values.Obj:
		obj := i.Store.Object(v)
		if obj.Class != values.ClassArray {
			return nil, false
		}
		out := make([]values.Value, obj.ArrayLength)
		for idx := range out {
			out[idx], _ = i.getProperty(v, itoa(idx))
		}
		return out, true
	case values.String:
		r := []rune(v.StringVal())
		out := make([]values.Value, len(r))
		for idx, c := range r {
			out[idx] = values.Str(string(c))
		}
		return out, true
	default:
		return nil, false
	}
}

// bindForTarget handles the three legal for-in/for-of left-hand forms: a
// fresh `var`/`let`/`const` declaration, or a bare assignment target.
func (i *Interp) bindForTarget(left *ast.Node, v values.Value, ctx *context.Context) {
	if left.Type == ast.VarDecl {
		kind := context.LetBinding
		switch left.Text() {
		case "var":
			kind = context.VarBinding
		case "const":
			kind = context.ConstBinding
		}
		pattern := left.Declarations()[0].Pattern()
		if kind == context.VarBinding {
			i.assignPattern(ctx, pattern, v)
		} else {
			i.declarePattern(ctx, kind, pattern, v)
		}
		return
	}
	i.assignPattern(ctx, left, v)
}

// consumeLoopFlow inspects ctx.Flow() after one loop-body execution: Break
// (matching label, or unlabeled) stops the loop; Continue (matching) is
// cleared so the loop proceeds; anything else (Return/Throw, or a break/
// continue aimed at an outer label) is left active for the caller to
// propagate. Reports whether the loop should stop.
func (i *Interp) consumeLoopFlow(ctx *context.Context, label string) bool {
	flow := ctx.Flow()
	if !flow.IsActive() {
		return false
	}
	switch flow.Kind {
	case context.FlowBreak:
		if flow.TargetsLoop(label) {
			flow.Clear()
			return true
		}
		return true
	case context.FlowContinue:
		if flow.TargetsLoop(label) {
			flow.Clear()
			return false
		}
		return true
	default:
		return true
	}
}

func (i *Interp) execSwitch(n *ast.Node, ctx *context.Context) {
	disc := i.eval(n.Discriminant(), ctx)
	if ctx.Flow().IsActive() {
		return
	}
	switchCtx := ctx.NewChild(context.BlockKind)

	cases := n.Cases()
	matched := -1
	for idx, c := range cases {
		if c.CaseTest() == nil {
			continue
		}
		tv := i.eval(c.CaseTest(), switchCtx)
		if switchCtx.Flow().IsActive() {
			return
		}
		if terms.StrictEquals(i.Store, disc, tv) {
			matched = idx
			break
		}
	}
	if matched == -1 {
		for idx, c := range cases {
			if c.CaseTest() == nil {
				matched = idx
				break
			}
		}
	}
	if matched == -1 {
		return
	}
	for _, c := range cases[matched:] {
		for _, stmt := range c.CaseBody() {
			i.execStmt(stmt, switchCtx)
			if switchCtx.Flow().IsActive() {
				if switchCtx.Flow().Kind == context.FlowBreak && switchCtx.Flow().TargetsLoop("") {
					switchCtx.Flow().Clear()
				}
				return
			}
		}
	}
}

func (i *Interp) execTry(n *ast.Node, ctx *context.Context) {
	i.execBlock(n.TryBlock(), ctx)

	if n.HasCatch() && ctx.Flow().Kind == context.FlowThrow {
		thrown := ctx.Flow().Value
		ctx.Flow().Clear()
		catchCtx := ctx.NewChild(context.CatchKind)
		if param := n.CatchParam(); param != nil {
			i.declarePattern(catchCtx, context.LetBinding, param, thrown)
		}
		i.runStatements(n.CatchBody().Statements(), catchCtx)
	}

	if n.HasFinally() {
		pending := *ctx.Flow()
		ctx.Flow().Clear()
		i.execBlock(n.FinallyBody(), ctx)
		if !ctx.Flow().IsActive() {
			*ctx.Flow() = pending
		}
	}
}

// execLabeled dispatches straight into a loop's own exec function when its
// body is a loop (so the loop's own consumeLoopFlow sees the label and a
// matching `continue label` advances the loop rather than ending it), and
// falls back to execStmt for a label on any other statement, where only a
// matching `break label` can legally apply.
func (i *Interp) execLabeled(n *ast.Node, ctx *context.Context) {
	label := n.Text()
	body := n.LabeledBody()
	switch body.Type {
	case ast.WhileStmt:
		i.execWhile(body, ctx, label)
	case ast.DoWhileStmt:
		i.execDoWhile(body, ctx, label)
	case ast.ForStmt:
		i.execFor(body, ctx, label)
	case ast.ForInStmt:
		i.execForIn(body, ctx, label)
	case ast.ForOfStmt:
		i.execForOf(body, ctx, label)
	default:
		i.execStmt(body, ctx)
	}
	flow := ctx.Flow()
	if flow.Kind == context.FlowBreak && flow.Label == label {
		flow.Clear()
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[pos:])
}
