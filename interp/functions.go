package interp

import (
	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/token"
	"github.com/cwbudde/go-ecma/values"
)

// makeFunction builds the runtime Callable for a FunctionDeclStmt,
// FunctionExpr or ArrowFunction node, closing over ctx exactly the way the
// teacher's Interpreter captures its Environment in evalFunctionExpression —
// generalized from DWScript's single closure form to spec.md §4.4's arrow-
// vs-ordinary distinction (IsArrow controls `this`/`arguments` binding, see
// invoke below).
func (i *Interp) makeFunction(n *ast.Node, ctx *context.Context, isArrow bool) values.Value {
	name := n.Text()
	fnVal := i.Store.New(values.ClassFunction, i.Store.FunctionProto)
	obj := i.Store.Object(fnVal)

	params := make([]any, len(n.Params()))
	for idx, p := range n.Params() {
		params[idx] = p
	}

	obj.Call = &values.Callable{
		Name:    name,
		Params:  params,
		Body:    n.Body(),
		Closure: ctx,
		IsArrow: isArrow,
	}
	obj.SetOwn("name", values.Str(name))
	obj.SetOwn("length", values.Num(float64(countSimpleParams(n.Params()))))

	if !isArrow {
		protoVal := i.newPlainObject()
		i.Store.Object(protoVal).SetOwn("constructor", fnVal)
		obj.Call.ConstructProto = protoVal.Ref()
		obj.SetOwn("prototype", protoVal)
	}
	return fnVal
}

// countSimpleParams reports the function's .length: the count of leading
// parameters before the first default or rest parameter (spec.md §4.4).
func countSimpleParams(params []*ast.Node) int {
	n := 0
	for _, p := range params {
		if p.Type == ast.AssignPattern || p.Type == ast.RestElement {
			break
		}
		n++
	}
	return n
}

// Call invokes fn with the given `this` and arguments, following spec.md
// §4.4's function-call semantics. It is the boundary this package's call
// sites funnel through — evalCall and the Store.ToPrimitive hook installed
// in New; Construct shares its body, invoke — always returning a plain
// (Value, error) regardless of whether the callee threw, returned, or (for
// an arrow with an expression body) simply evaluated to a value.
func (i *Interp) Call(fn values.Value, thisVal values.Value, args []values.Value) (values.Value, error) {
	return i.invoke(fn, thisVal, args, false)
}

// Construct implements `new Fn(...)`: allocates a fresh plain object linked
// to Fn.prototype, invokes Fn with that object as `this`, and returns the
// constructor's own return value if it returned an object, otherwise the
// newly allocated one (spec.md §4.4's "new" construction rule).
func (i *Interp) Construct(fn values.Value, args []values.Value) (values.Value, error) {
	if fn.Kind() != values.Obj || i.Store.Object(fn).Class != values.ClassFunction {
		return values.Value{}, errors.TypeErr(token.Position{}, "value is not a constructor")
	}
	callable := i.Store.Object(fn).Call
	proto := i.Store.ObjectProto
	if callable.ConstructProto != 0 {
		proto = callable.ConstructProto
	}
	self := i.Store.New(values.ClassPlain, proto)

	result, err := i.invoke(fn, self, args, true)
	if err != nil {
		return values.Value{}, err
	}
	if result.Kind() == values.Obj {
		return result, nil
	}
	return self, nil
}

// invoke is Call/Construct's shared body: dispatch to a native Go function
// or run a Node-backed closure's body to completion, converting whatever
// ControlFlow signal the body ends on into invoke's own (Value, error).
func (i *Interp) invoke(fn values.Value, thisVal values.Value, args []values.Value, isNew bool) (values.Value, error) {
	if fn.Kind() != values.Obj || i.Store.Object(fn).Class != values.ClassFunction {
		return values.Value{}, errors.TypeErr(token.Position{}, "value is not a function")
	}
	callable := i.Store.Object(fn).Call
	if callable == nil {
		return values.Value{}, errors.TypeErr(token.Position{}, "value is not callable")
	}
	if callable.Native != nil {
		return callable.Native(i.Store, thisVal, args)
	}

	if i.MaxCallDepth > 0 && i.callDepth >= i.MaxCallDepth {
		return values.Value{}, errors.Range(token.Position{}, "Maximum call stack size exceeded")
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	closureCtx, _ := callable.Closure.(*context.Context)
	fnCtx := closureCtx.NewChild(context.FunctionKind)
	if !callable.IsArrow {
		fnCtx.SetThis(thisVal)
		fnCtx.Call = &context.CallInfo{IsNew: isNew, Callee: fn}
		i.bindArguments(args, fnCtx)
	}
	i.bindParams(callable.Params, args, fnCtx)

	body, _ := callable.Body.(*ast.Node)
	var result values.Value
	if body.Type == ast.BlockStmt {
		result, _ = i.runStatements(body.Statements(), fnCtx)
	} else {
		// Arrow function with a bare expression body (no braces): the
		// expression's value is the implicit return.
		result = i.eval(body, fnCtx)
	}

	flow := fnCtx.Flow()
	switch flow.Kind {
	case context.FlowThrow:
		thrown := flow.Value
		flow.Clear()
		return values.Value{}, i.wrapThrown(thrown)
	case context.FlowReturn:
		v := flow.Value
		flow.Clear()
		return v, nil
	case context.FlowNone:
		return result, nil
	default:
		// A stray break/continue reaching the function boundary: treat it
		// the same way drainFlow treats one reaching the program's top —
		// there is nothing left to interpret it, so the call simply
		// completes with the implicit undefined return.
		flow.Clear()
		return values.UndefinedValue, nil
	}
}

// bindParams declares each parameter name in fnCtx, applying defaults for
// AssignPattern parameters and collecting the remainder into a RestElement
// parameter's array, per spec.md §4.4's parameter-binding rules.
func (i *Interp) bindParams(params []any, args []values.Value, fnCtx *context.Context) {
	for idx, p := range params {
		node, _ := p.(*ast.Node)
		if node == nil {
			continue
		}
		if node.Type == ast.RestElement {
			rest := []values.Value{}
			if idx < len(args) {
				rest = append(rest, args[idx:]...)
			}
			i.declarePattern(fnCtx, context.LetBinding, node.Target(), i.newArray(rest))
			return
		}

		var arg values.Value
		if idx < len(args) {
			arg = args[idx]
		} else {
			arg = values.UndefinedValue
		}

		target := node
		if node.Type == ast.AssignPattern {
			target = node.Target()
			if arg.IsUndefined() {
				arg = i.eval(node.Default(), fnCtx)
			}
		}
		i.declarePattern(fnCtx, context.LetBinding, target, arg)
	}
}

// bindArguments materializes the array-like `arguments` object spec.md
// §4.4 asks ordinary (non-arrow) functions to expose.
func (i *Interp) bindArguments(args []values.Value, fnCtx *context.Context) {
	argsVal := i.newArray(args)
	fnCtx.DeclareHere(context.VarBinding, "arguments", argsVal, true)
}
