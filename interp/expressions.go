package interp

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// eval dispatches a single expression node, following the same after-each-
// evaluation convention execStmt does: a thrown error leaves ctx.Flow()
// active and eval returns values.UndefinedValue, which every caller here
// checks before using the result for anything further (exactly the
// teacher's evalBinaryExpression-style "if isError(result) { return result
// }" guard, generalized to this engine's Flow cell).
func (i *Interp) eval(n *ast.Node, ctx *context.Context) values.Value {
	switch n.Type {
	case ast.NullLit:
		return values.NullValue
	case ast.BoolLit:
		return values.Bool(n.Text() == "true")
	case ast.NumberLit:
		return values.Num(parseNumberLiteral(n.Text()))
	case ast.StringLit:
		return values.Str(n.Text())
	case ast.RegexLit:
		return i.evalRegexLit(n, ctx)
	case ast.ThisExpr:
		return ctx.This
	case ast.Identifier:
		return i.evalIdentifier(n, ctx)
	case ast.TemplateLit:
		return i.evalTemplateLit(n, ctx)
	case ast.ArrayLit:
		return i.evalArrayLit(n, ctx)
	case ast.ObjectLit:
		return i.evalObjectLit(n, ctx)
	case ast.FunctionExpr:
		return i.makeFunction(n, ctx, false)
	case ast.ArrowFunction:
		return i.makeFunction(n, ctx, true)
	case ast.UnaryExpr:
		return i.evalUnary(n, ctx)
	case ast.UpdateExpr:
		return i.evalUpdate(n, ctx)
	case ast.BinaryExpr:
		return i.evalBinary(n, ctx)
	case ast.LogicalExpr:
		return i.evalLogical(n, ctx)
	case ast.ConditionalExpr:
		return i.evalConditional(n, ctx)
	case ast.AssignExpr:
		return i.evalAssign(n, ctx)
	case ast.SequenceExpr:
		return i.evalSequence(n, ctx)
	case ast.MemberExpr:
		v, _ := i.evalMember(n, ctx)
		return v
	case ast.CallExpr:
		return i.evalCall(n, ctx)
	case ast.NewExpr:
		return i.evalNew(n, ctx)
	default:
		i.throwError(ctx, errors.JsErrorKind, "cannot evaluate %s", n.Type)
		return values.UndefinedValue
	}
}

func (i *Interp) evalIdentifier(n *ast.Node, ctx *context.Context) values.Value {
	name := n.Text()
	b, ok := ctx.Lookup(name)
	if !ok {
		if root := ctx.Root(); root.Globals != nil {
			if v, ok := root.Globals.GetOwn(name); ok {
				return v.Value
			}
		}
		i.throwError(ctx, errors.ReferenceErrorKind, "%s is not defined", name)
		return values.UndefinedValue
	}
	if !b.Initialized {
		i.throwError(ctx, errors.ReferenceErrorKind, "Cannot access '%s' before initialization", name)
		return values.UndefinedValue
	}
	return b.Value
}

// evalRegexLit builds a ClassRegExp object from the literal's raw
// /pattern/flags text; RegExp semantics themselves live in builtins.
func (i *Interp) evalRegexLit(n *ast.Node, ctx *context.Context) values.Value {
	text := n.Text()
	end := len(text) - 1
	for end > 0 && text[end] != '/' {
		end--
	}
	pattern := text[1:end]
	flags := text[end+1:]
	v := i.Store.New(values.ClassRegExp, i.Store.RegExpProto)
	obj := i.Store.Object(v)
	obj.RegexSource = pattern
	obj.RegexFlags = flags
	obj.SetOwn("source", values.Str(pattern))
	obj.SetOwn("flags", values.Str(flags))
	obj.SetOwn("lastIndex", values.Num(0))
	return v
}

func (i *Interp) evalTemplateLit(n *ast.Node, ctx *context.Context) values.Value {
	quasis := n.Quasis()
	exprs := n.TemplateExpressions()
	var sb []byte
	for idx, q := range quasis {
		sb = append(sb, q.Text()...)
		if idx < len(exprs) {
			v := i.eval(exprs[idx], ctx)
			if ctx.Flow().IsActive() {
				return values.UndefinedValue
			}
			s, err := terms.ToString(i.Store, v)
			if i.propagateErr(ctx, err) {
				return values.UndefinedValue
			}
			sb = append(sb, s...)
		}
	}
	return values.Str(string(sb))
}

func (i *Interp) evalArrayLit(n *ast.Node, ctx *context.Context) values.Value {
	var out []values.Value
	for _, el := range n.Elements() {
		if el == nil {
			out = append(out, values.UndefinedValue)
			continue
		}
		if el.Type == ast.SpreadElement {
			sv := i.eval(el.Argument(), ctx)
			if ctx.Flow().IsActive() {
				return values.UndefinedValue
			}
			items, _ := i.iterableItems(sv)
			out = append(out, items...)
			continue
		}
		v := i.eval(el, ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		out = append(out, v)
	}
	return i.newArray(out)
}

func (i *Interp) evalObjectLit(n *ast.Node, ctx *context.Context) values.Value {
	obj := i.newPlainObject()
	for _, prop := range n.Elements() {
		if prop.Type == ast.SpreadElement {
			sv := i.eval(prop.Argument(), ctx)
			if ctx.Flow().IsActive() {
				return values.UndefinedValue
			}
			if sv.Kind() == values.Obj {
				for _, k := range i.Store.EnumerateKeys(sv) {
					val, _ := i.getProperty(sv, k)
					i.setProperty(obj, k, val)
				}
			}
			continue
		}
		key := i.propertyKeyOf(prop.Key(), prop.Computed, ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		val := i.eval(prop.Value(), ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		i.setProperty(obj, key, val)
	}
	return obj
}

// propertyKeyOf resolves a Property/PropertyPattern key node to its string
// key: a computed key evaluates an expression and ToStrings the result, a
// plain one is an Identifier or literal whose token text is the key.
func (i *Interp) propertyKeyOf(key *ast.Node, computed bool, ctx *context.Context) string {
	if computed {
		v := i.eval(key, ctx)
		if ctx.Flow().IsActive() {
			return ""
		}
		s, err := terms.ToString(i.Store, v)
		if i.propagateErr(ctx, err) {
			return ""
		}
		return s
	}
	return key.Text()
}

func (i *Interp) evalUnary(n *ast.Node, ctx *context.Context) values.Value {
	op := n.Text()
	if op == "typeof" && n.Operand().Type == ast.Identifier {
		// typeof on an undeclared identifier is not a ReferenceError.
		if _, ok := ctx.Lookup(n.Operand().Text()); !ok {
			return values.Str("undefined")
		}
	}
	if op == "delete" {
		return i.evalDelete(n.Operand(), ctx)
	}

	v := i.eval(n.Operand(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	switch op {
	case "-":
		num, err := terms.ToNumber(i.Store, v)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return values.Num(-num)
	case "+":
		num, err := terms.ToNumber(i.Store, v)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return values.Num(num)
	case "!":
		return values.Bool(!terms.Truthy(v))
	case "~":
		iv, err := terms.ToInt32(i.Store, v)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return values.Num(float64(^iv))
	case "typeof":
		return values.Str(terms.TypeOf(i.Store, v))
	case "void":
		return values.UndefinedValue
	default:
		i.throwError(ctx, errors.JsErrorKind, "unsupported unary operator %q", op)
		return values.UndefinedValue
	}
}

func (i *Interp) evalDelete(target *ast.Node, ctx *context.Context) values.Value {
	if target.Type != ast.MemberExpr {
		return values.True
	}
	objVal := i.eval(target.Object(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	key := i.memberKey(target, ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	return values.Bool(i.deleteProperty(objVal, key))
}

func (i *Interp) evalUpdate(n *ast.Node, ctx *context.Context) values.Value {
	operand := n.Operand()
	old := i.eval(operand, ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	num, err := terms.ToNumber(i.Store, old)
	if i.propagateErr(ctx, err) {
		return values.UndefinedValue
	}
	var next float64
	if n.Text() == "++" {
		next = num + 1
	} else {
		next = num - 1
	}
	i.assignTarget(operand, values.Num(next), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	if n.Prefix {
		return values.Num(next)
	}
	return values.Num(num)
}

func (i *Interp) evalBinary(n *ast.Node, ctx *context.Context) values.Value {
	left := i.eval(n.Left(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	right := i.eval(n.Right(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}

	s := i.Store
	switch n.Text() {
	case "+":
		v, err := terms.Add(s, left, right)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return v
	case "-":
		return i.numBinary(ctx)(terms.Sub(s, left, right))
	case "*":
		return i.numBinary(ctx)(terms.Mul(s, left, right))
	case "/":
		return i.numBinary(ctx)(terms.Div(s, left, right))
	case "%":
		return i.numBinary(ctx)(terms.Mod(s, left, right))
	case "**":
		return i.numBinary(ctx)(terms.Pow(s, left, right))
	case "&":
		return i.numBinary(ctx)(terms.BitAnd(s, left, right))
	case "|":
		return i.numBinary(ctx)(terms.BitOr(s, left, right))
	case "^":
		return i.numBinary(ctx)(terms.BitXor(s, left, right))
	case "<<":
		return i.numBinary(ctx)(terms.Shl(s, left, right))
	case ">>":
		return i.numBinary(ctx)(terms.Shr(s, left, right))
	case ">>>":
		return i.numBinary(ctx)(terms.Ushr(s, left, right))
	case "===":
		return values.Bool(terms.StrictEquals(s, left, right))
	case "!==":
		return values.Bool(!terms.StrictEquals(s, left, right))
	case "==":
		eq, err := terms.LooseEquals(s, left, right)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return values.Bool(eq)
	case "!=":
		eq, err := terms.LooseEquals(s, left, right)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return values.Bool(!eq)
	case "<", "<=", ">", ">=":
		return i.evalRelational(ctx, n.Text(), left, right)
	case "instanceof":
		return i.evalInstanceOf(ctx, left, right)
	case "in":
		if right.Kind() != values.Obj {
			i.throwError(ctx, errors.TypeErrorKind, "cannot use 'in' operator on a non-object")
			return values.UndefinedValue
		}
		key, err := terms.ToString(s, left)
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return values.Bool(s.HasProperty(right, key))
	default:
		i.throwError(ctx, errors.JsErrorKind, "unsupported binary operator %q", n.Text())
		return values.UndefinedValue
	}
}

func (i *Interp) numBinary(ctx *context.Context) func(values.Value, error) values.Value {
	return func(v values.Value, err error) values.Value {
		if i.propagateErr(ctx, err) {
			return values.UndefinedValue
		}
		return v
	}
}

func (i *Interp) evalRelational(ctx *context.Context, op string, left, right values.Value) values.Value {
	cmp, ok, err := terms.Compare(i.Store, left, right)
	if i.propagateErr(ctx, err) {
		return values.UndefinedValue
	}
	if !ok {
		return values.False
	}
	switch op {
	case "<":
		return values.Bool(cmp < 0)
	case "<=":
		return values.Bool(cmp <= 0)
	case ">":
		return values.Bool(cmp > 0)
	default:
		return values.Bool(cmp >= 0)
	}
}

func (i *Interp) evalInstanceOf(ctx *context.Context, left, right values.Value) values.Value {
	if right.Kind() != values.Obj || i.Store.Object(right).Class != values.ClassFunction {
		i.throwError(ctx, errors.TypeErrorKind, "Right-hand side of 'instanceof' is not callable")
		return values.UndefinedValue
	}
	proto := i.Store.Object(right).Call.ConstructProto
	if left.Kind() != values.Obj || proto == 0 {
		return values.False
	}
	return values.Bool(i.Store.IsInstanceOf(left, proto))
}

func (i *Interp) evalLogical(n *ast.Node, ctx *context.Context) values.Value {
	left := i.eval(n.Left(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	switch n.Text() {
	case "&&":
		if !terms.Truthy(left) {
			return left
		}
	case "||":
		if terms.Truthy(left) {
			return left
		}
	case "??":
		if !left.IsNullish() {
			return left
		}
	}
	return i.eval(n.Right(), ctx)
}

func (i *Interp) evalConditional(n *ast.Node, ctx *context.Context) values.Value {
	test := i.eval(n.IfTest(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	if terms.Truthy(test) {
		return i.eval(n.IfConsequent(), ctx)
	}
	return i.eval(n.IfAlternate(), ctx)
}

func (i *Interp) evalSequence(n *ast.Node, ctx *context.Context) values.Value {
	var last values.Value = values.UndefinedValue
	for _, el := range n.Elements() {
		last = i.eval(el, ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
	}
	return last
}

// memberKey resolves a MemberExpr's property to a string key, evaluating a
// computed `[expr]` property or reading a plain `.name` identifier's text.
func (i *Interp) memberKey(n *ast.Node, ctx *context.Context) string {
	if !n.Computed {
		return n.Property().Text()
	}
	v := i.eval(n.Property(), ctx)
	if ctx.Flow().IsActive() {
		return ""
	}
	key, err := terms.ToString(i.Store, v)
	if i.propagateErr(ctx, err) {
		return ""
	}
	return key
}

// evalMember resolves a MemberExpr to its value and, as a second result,
// the `this` the access should bind if it's immediately called (spec.md
// §4.4: `obj.method()` calls method with `this === obj`).
func (i *Interp) evalMember(n *ast.Node, ctx *context.Context) (values.Value, values.Value) {
	objVal := i.eval(n.Object(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue, values.UndefinedValue
	}
	if n.Optional && objVal.IsNullish() {
		return values.UndefinedValue, values.UndefinedValue
	}
	key := i.memberKey(n, ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue, values.UndefinedValue
	}
	if objVal.IsNullish() {
		i.throwError(ctx, errors.TypeErrorKind, "Cannot read properties of %s (reading '%s')", terms.TypeOf(i.Store, objVal), key)
		return values.UndefinedValue, values.UndefinedValue
	}
	v, _ := i.getProperty(objVal, key)
	return v, objVal
}

func (i *Interp) evalCall(n *ast.Node, ctx *context.Context) values.Value {
	callee := n.Callee()
	var fn, thisVal values.Value
	if callee.Type == ast.MemberExpr {
		fn, thisVal = i.evalMember(callee, ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		if callee.Optional && fn.IsUndefined() && thisVal.IsUndefined() {
			return values.UndefinedValue
		}
	} else {
		fn = i.eval(callee, ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		thisVal = values.UndefinedValue
	}

	if n.Optional && fn.IsNullish() {
		return values.UndefinedValue
	}

	args, ok := i.evalArgs(n.Args(), ctx)
	if !ok {
		return values.UndefinedValue
	}

	if fn.Kind() != values.Obj || i.Store.Object(fn).Class != values.ClassFunction {
		i.throwError(ctx, errors.TypeErrorKind, "%s is not a function", calleeDescription(callee))
		return values.UndefinedValue
	}
	result, err := i.Call(fn, thisVal, args)
	if i.propagateErr(ctx, err) {
		return values.UndefinedValue
	}
	return result
}

func (i *Interp) evalNew(n *ast.Node, ctx *context.Context) values.Value {
	fn := i.eval(n.Callee(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	args, ok := i.evalArgs(n.Args(), ctx)
	if !ok {
		return values.UndefinedValue
	}
	result, err := i.Construct(fn, args)
	if i.propagateErr(ctx, err) {
		return values.UndefinedValue
	}
	return result
}

// evalArgs evaluates a call/new argument list, expanding SpreadElement
// arguments in place; the bool result is false when evaluation was cut
// short by a pending Flow signal.
func (i *Interp) evalArgs(argNodes []*ast.Node, ctx *context.Context) ([]values.Value, bool) {
	var args []values.Value
	for _, a := range argNodes {
		if a.Type == ast.SpreadElement {
			v := i.eval(a.Argument(), ctx)
			if ctx.Flow().IsActive() {
				return nil, false
			}
			items, _ := i.iterableItems(v)
			args = append(args, items...)
			continue
		}
		v := i.eval(a, ctx)
		if ctx.Flow().IsActive() {
			return nil, false
		}
		args = append(args, v)
	}
	return args, true
}

func calleeDescription(n *ast.Node) string {
	switch n.Type {
	case ast.Identifier:
		return n.Text()
	case ast.MemberExpr:
		return calleeDescription(n.Object()) + "." + n.Property().Text()
	default:
		return "expression"
	}
}

func (i *Interp) evalAssign(n *ast.Node, ctx *context.Context) values.Value {
	op := n.Text()
	target := n.Target()

	if op == "=" {
		v := i.eval(n.AssignValue(), ctx)
		if ctx.Flow().IsActive() {
			return values.UndefinedValue
		}
		switch target.Type {
		case ast.ArrayPattern, ast.ObjectPattern:
			i.assignPattern(ctx, target, v)
		default:
			i.assignTarget(target, v, ctx)
		}
		return v
	}

	// Compound assignment: `&&=`/`||=`/`??=` short-circuit (never evaluate
	// the right side, and never write back, when the left side already
	// decides the result); every other compound form always evaluates and
	// writes.
	current := i.eval(target, ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}
	switch op {
	case "&&=":
		if !terms.Truthy(current) {
			return current
		}
	case "||=":
		if terms.Truthy(current) {
			return current
		}
	case "??=":
		if !current.IsNullish() {
			return current
		}
	}

	rhs := i.eval(n.AssignValue(), ctx)
	if ctx.Flow().IsActive() {
		return values.UndefinedValue
	}

	var result values.Value
	var err error
	s := i.Store
	switch op {
	case "&&=", "||=", "??=":
		result = rhs
	case "+=":
		result, err = terms.Add(s, current, rhs)
	case "-=":
		result, err = terms.Sub(s, current, rhs)
	case "*=":
		result, err = terms.Mul(s, current, rhs)
	case "/=":
		result, err = terms.Div(s, current, rhs)
	case "%=":
		result, err = terms.Mod(s, current, rhs)
	case "**=":
		result, err = terms.Pow(s, current, rhs)
	case "&=":
		result, err = terms.BitAnd(s, current, rhs)
	case "|=":
		result, err = terms.BitOr(s, current, rhs)
	case "^=":
		result, err = terms.BitXor(s, current, rhs)
	case "<<=":
		result, err = terms.Shl(s, current, rhs)
	case ">>=":
		result, err = terms.Shr(s, current, rhs)
	case ">>>=":
		result, err = terms.Ushr(s, current, rhs)
	default:
		i.throwError(ctx, errors.JsErrorKind, "unsupported assignment operator %q", op)
		return values.UndefinedValue
	}
	if i.propagateErr(ctx, err) {
		return values.UndefinedValue
	}
	i.assignTarget(target, result, ctx)
	return result
}

// assignTarget writes v into an Identifier or MemberExpr target — the two
// legal non-destructuring assignment targets.
func (i *Interp) assignTarget(target *ast.Node, v values.Value, ctx *context.Context) {
	switch target.Type {
	case ast.Identifier:
		if !ctx.Assign(target.Text(), v) {
			ctx.Root().DeclareHere(context.VarBinding, target.Text(), v, true)
		}
	case ast.MemberExpr:
		i.assignMember(ctx, target, v)
	default:
		i.throwError(ctx, errors.SyntaxErrorKind, "invalid assignment target")
	}
}

func (i *Interp) assignMember(ctx *context.Context, target *ast.Node, v values.Value) {
	objVal := i.eval(target.Object(), ctx)
	if ctx.Flow().IsActive() {
		return
	}
	key := i.memberKey(target, ctx)
	if ctx.Flow().IsActive() {
		return
	}
	i.setProperty(objVal, key, v)
}
