// Package interp is the tree-walking evaluator spec.md §3/§4.4 describes:
// "Walks AST against a Context, effecting values & side effects." It plays
// the role the teacher's internal/interp package (interpreter.go's central
// Eval switch, dispatching on ast.Node's Go type) plays for DWScript,
// adapted to dispatch on ast.Node.Type since this engine collapsed every
// production into one Node shape (spec.md §3).
package interp

import (
	"fmt"

	"github.com/cwbudde/go-ecma/ast"
	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/token"
	"github.com/cwbudde/go-ecma/values"
)

// Interp holds the object arena and owns the root Context; callDepth is its
// one other piece of mutable state, tracking live (non-native) function
// activations so MaxCallDepth (engine.WithMaxCallDepth) can turn unbounded
// script recursion into a catchable RangeError instead of a Go stack
// overflow — spec.md §5 promises cooperative single-threaded execution, not
// a crash on a runaway recursive script.
type Interp struct {
	Store *values.Store
	Root  *context.Context

	// MaxCallDepth caps simultaneous non-native function activations; 0
	// means unbounded (the zero value New leaves it at, matching every
	// other Interp built directly rather than through engine.New).
	MaxCallDepth int
	callDepth    int
}

// New creates an Interp with a fresh root Context and installs
// Store.ToPrimitive so terms.ToNumber/ToString can invoke user-defined
// valueOf/toString without terms importing this package (see values/store.go
// and DESIGN.md's terms/ ledger entry).
func New(store *values.Store, console context.ConsoleSink) *Interp {
	i := &Interp{Store: store, Root: context.NewRoot(store, console)}
	store.ToPrimitive = i.toPrimitive
	return i
}

// RunProgram evaluates a parsed Program node to completion (spec.md §5:
// "runs to completion on the calling thread and returns a value or
// throws"). Each call bumps the root's eval id first, so a second
// evaluate() sharing this Interp may redeclare root-level let/const
// (spec.md §9's eval-id tracking) instead of erroring.
func (i *Interp) RunProgram(prog *ast.Node) (values.Value, error) {
	i.Root.BeginEval()
	last, _ := i.runStatements(prog.Statements(), i.Root)
	return last, i.drainFlow(i.Root)
}

// runStatements hoists var/function declarations over stmts onto ctx's
// enclosing function-or-root scope, then executes them in order, following
// spec.md §4.4's "Hoisting rules applied on function/root entry." It stops
// as soon as ctx.Flow() goes active (break/continue/return/throw) without
// consuming the signal — the caller (RunProgram for the top level, Call
// for a function body) decides what an active flow means in its position.
// The returned Value is the completion value of the last ExprStmt executed
// (used by Engine.Eval as the script's result); the returned error is
// always nil — callers read the pending flow via ctx.Flow(), not this
// return, after runStatements comes back.
func (i *Interp) runStatements(stmts []*ast.Node, ctx *context.Context) (values.Value, error) {
	i.hoist(stmts, ctx)

	var last values.Value = values.UndefinedValue
	for _, stmt := range stmts {
		v := i.execStmt(stmt, ctx)
		if ctx.Flow().IsActive() {
			return last, nil
		}
		if stmt.Type == ast.ExprStmt {
			last = v
		}
	}
	return last, nil
}

// drainFlow converts a pending FlowThrow on ctx into the Go error the
// public API surfaces (spec.md §7: "errors that escape the top-level eval
// are re-raised to the caller as a single host exception"). Any other
// active signal (a stray break/continue/return reaching the very top of
// the program) has no enclosing construct left to interpret it; rather
// than fail the whole evaluation over what amounts to malformed input the
// parser didn't statically reject, it is treated as an implicit end of the
// program and silently cleared.
func (i *Interp) drainFlow(ctx *context.Context) error {
	flow := ctx.Flow()
	if flow.Kind == context.FlowThrow {
		thrown := flow.Value
		flow.Clear()
		return i.wrapThrown(thrown)
	}
	flow.Clear()
	return nil
}

// wrapThrown renders a thrown Value as a Go error, preserving the original
// value on Error.Thrown so a host catch block can recover the exact JS
// Error object (spec.md §7).
func (i *Interp) wrapThrown(v values.Value) error {
	message := i.errorMessage(v)
	return errors.Thrown(token.Position{}, v, message)
}

func (i *Interp) errorMessage(v values.Value) string {
	s, err := terms.ToString(i.Store, v)
	if err != nil {
		return "<error converting thrown value to string>"
	}
	return s
}

// throwError builds a JS Error object of the given kind and message and
// immediately signals it via ctx.Flow() (spec.md §7's error kinds). Callers
// evaluating an expression return their normal zero Value right after
// calling this; the caller's own caller is expected to check
// ctx.Flow().IsActive() before doing anything with that Value, per this
// package's after-every-evaluation convention.
func (i *Interp) throwError(ctx *context.Context, kind errors.Kind, format string, args ...any) values.Value {
	message := fmt.Sprintf(format, args...)
	errVal := i.newErrorObject(string(kind), message)
	ctx.Flow().SetThrow(errVal)
	return values.UndefinedValue
}

// newErrorObject allocates a ClassError object with name/message/stack own
// properties, matching what the Error/TypeError/... constructors in
// builtins produce, so a throwError-raised error and a script-constructed
// `new TypeError(...)` are indistinguishable to catch(e).
func (i *Interp) newErrorObject(kind, message string) values.Value {
	proto := i.Store.ErrorProtoFor(kind)
	v := i.Store.New(values.ClassError, proto)
	obj := i.Store.Object(v)
	obj.ErrorKind = kind
	obj.SetOwn("name", values.Str(kind))
	obj.SetOwn("message", values.Str(message))
	obj.SetOwn("stack", values.Str(kind+": "+message))
	return v
}

// toPrimitive is the values.Store.ToPrimitive hook: it calls a plain
// object's valueOf() then toString() (spec.md §4.5), using this package's
// own function-invocation machinery (Call), which is exactly what terms
// cannot do without importing interp.
func (i *Interp) toPrimitive(store *values.Store, v values.Value, hint string) (values.Value, error) {
	order := []string{"valueOf", "toString"}
	if hint == "string" {
		order = []string{"toString", "valueOf"}
	}
	for _, method := range order {
		fnVal, ok := store.Get(v, method)
		if !ok || fnVal.Kind() != values.Obj || store.Object(fnVal).Class != values.ClassFunction {
			continue
		}
		result, err := i.Call(fnVal, v, nil)
		if err != nil {
			return values.Value{}, err
		}
		if result.Kind() != values.Obj {
			return result, nil
		}
	}
	return values.Str("[object Object]"), nil
}

// propagateErr surfaces a Go error returned from terms/Call as a pending
// Throw on ctx, and reports whether it did so — the idiom every evaluator
// function in this package uses right after a call that can fail:
//
//	v, err := terms.ToNumber(i.Store, operand)
//	if i.propagateErr(ctx, err) {
//		return values.UndefinedValue
//	}
func (i *Interp) propagateErr(ctx *context.Context, err error) bool {
	if err == nil {
		return false
	}
	if je, ok := err.(*errors.Error); ok {
		if v, ok := je.Thrown.(values.Value); ok {
			ctx.Flow().SetThrow(v)
			return true
		}
		ctx.Flow().SetThrow(i.newErrorObject(string(je.Kind), je.Message))
		return true
	}
	ctx.Flow().SetThrow(i.newErrorObject(string(errors.JsErrorKind), err.Error()))
	return true
}
