package builtins

import (
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/values"
)

// installFunction wires Function.prototype's call/apply/bind, the
// invocation-manipulation trio every other callable (including user
// FunctionDeclStmt/arrow closures, which all share this one prototype)
// inherits.
func installFunction(i *interp.Interp) {
	proto := i.Store.ObjectByID(i.Store.FunctionProto)

	nativeFunction(i, proto, "call", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		thisArg := arg(args, 0)
		var rest []values.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return i.Call(this, thisArg, rest)
	})
	nativeFunction(i, proto, "apply", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		thisArg := arg(args, 0)
		var rest []values.Value
		if len(args) > 1 && args[1].Kind() == values.Obj {
			rest = elements(s, args[1])
		}
		return i.Call(this, thisArg, rest)
	})
	nativeFunction(i, proto, "bind", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		target := this
		boundThis := arg(args, 0)
		var bound []values.Value
		if len(args) > 1 {
			bound = append([]values.Value{}, args[1:]...)
		}
		name := "bound"
		if target.Kind() == values.Obj && s.Object(target).Call != nil {
			name = "bound " + s.Object(target).Call.Name
		}
		fnVal := s.New(values.ClassFunction, s.FunctionProto)
		s.Object(fnVal).Call = &values.Callable{
			Name: name,
			Native: func(s *values.Store, _ values.Value, callArgs []values.Value) (values.Value, error) {
				return i.Call(target, boundThis, append(append([]values.Value{}, bound...), callArgs...))
			},
		}
		return fnVal, nil
	})
	nativeFunction(i, proto, "toString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		name := "anonymous"
		if this.Kind() == values.Obj && s.Object(this).Call != nil {
			name = s.Object(this).Call.Name
		}
		return values.Str("function " + name + "() { [native code] }"), nil
	})
}
