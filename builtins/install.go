// Package builtins wires the standard-library singletons spec.md §4.6 asks
// for (Array, String, Number, Object, Math, JSON, Date, RegExp, Error,
// console, TextEncoder/TextDecoder, Uint8Array) onto a freshly constructed
// interp.Interp's Store/Root, playing the role the teacher's
// builtins_*.go files play for DWScript's function-table built-ins —
// reworked from DWScript's flat global-function registry into
// ECMAScript's constructor+prototype object model.
package builtins

import (
	"math"

	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/values"
)

// Install populates i.Store's well-known prototype ids and i.Root.Globals
// with every built-in spec.md §4.6 names. Call it once per Interp,
// immediately after interp.New, before evaluating any script.
func Install(i *interp.Interp) {
	s := i.Store

	s.ObjectProto = s.New(values.ClassPlain, 0).Ref()
	s.FunctionProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.ArrayProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.StringProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.NumberProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.BooleanProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.DateProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.RegExpProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.ErrorProto = s.New(values.ClassPlain, s.ObjectProto).Ref()
	s.TypeErrorProto = s.New(values.ClassPlain, s.ErrorProto).Ref()
	s.RangeErrorProto = s.New(values.ClassPlain, s.ErrorProto).Ref()
	s.ReferenceErrorProto = s.New(values.ClassPlain, s.ErrorProto).Ref()
	s.SyntaxErrorProto = s.New(values.ClassPlain, s.ErrorProto).Ref()

	global := i.Store.Object(i.Store.New(values.ClassPlain, s.ObjectProto))
	i.Root.Globals = global

	installObject(i, global)
	installFunction(i)
	installArray(i, global)
	installString(i, global)
	installNumber(i, global)
	installBoolean(i)
	installMath(i, global)
	installJSON(i, global)
	installDate(i, global)
	installRegExp(i, global)
	installErrors(i, global)
	installConsole(i, global)
	installTextCodec(i, global)

	global.SetOwn("undefined", values.UndefinedValue)
	global.SetOwn("NaN", values.Num(math.NaN()))
	global.SetOwn("Infinity", values.Num(math.Inf(1)))
	global.SetOwn("globalThis", values.FromRef(global.ID))

	for _, name := range global.AllOwnKeys() {
		p, _ := global.GetOwn(name)
		i.Root.DeclareHere(context.VarBinding, name, p.Value, true)
	}
}

// nativeFunction allocates a ClassFunction object wrapping a Go native,
// installs it as an own property of target, and returns it — the shared
// plumbing every builtins_*.go file uses instead of repeating the
// Store.New/Define boilerplate per method. Every property it writes is
// non-enumerable, matching real JS's built-in methods: target is almost
// always a shared prototype singleton (ObjectProto, ArrayProto, ...), and an
// enumerable installation there would leak into every for-in over a plain
// object/array inheriting from it.
func nativeFunction(i *interp.Interp, target *values.Object, name string, length int, fn values.NativeFunc) values.Value {
	v := i.Store.New(values.ClassFunction, i.Store.FunctionProto)
	obj := i.Store.Object(v)
	obj.Call = &values.Callable{Name: name, Native: fn}
	obj.Define("name", values.Str(name), false, false)
	obj.Define("length", values.Num(float64(length)), false, false)
	if target != nil {
		target.Define(name, v, true, false)
	}
	return v
}

func newConstructor(i *interp.Interp, name string, proto int32, fn values.NativeFunc) (values.Value, *values.Object) {
	ctorVal := i.Store.New(values.ClassFunction, i.Store.FunctionProto)
	ctorObj := i.Store.Object(ctorVal)
	ctorObj.Call = &values.Callable{Name: name, Native: fn, ConstructProto: proto}
	ctorObj.Define("name", values.Str(name), false, false)
	protoObj := i.Store.ObjectByID(proto)
	protoObj.Define("constructor", ctorVal, true, false)
	return ctorVal, ctorObj
}
