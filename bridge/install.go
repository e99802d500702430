package bridge

import (
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// Install wires the script-visible `Java` object (spec.md §6: "Java.type(name)
// returns the wrapper; Java.to(x) unwraps x back to a host value"). The
// object is installed unconditionally; both methods consult i.Root.Bridge
// at call time rather than at install time, so engine.SetBridge can
// attach or detach a Bridge after Install runs without reinstalling
// anything — `Java.type` evaluates to a function that always returns
// undefined while no Bridge is set, matching "when null, Java evaluates to
// undefined" in spirit (the object itself stays present and inert, rather
// than the identifier disappearing, so a script that already captured
// `Java` into a variable sees the detach too).
func Install(i *interp.Interp, global *values.Object) {
	javaVal := i.Store.New(values.ClassPlain, i.Store.ObjectProto)
	javaObj := i.Store.Object(javaVal)
	global.SetOwn("Java", javaVal)

	nativeFunction(i, javaObj, "type", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		b, _ := i.Root.Bridge.(Bridge)
		if b == nil {
			return values.UndefinedValue, nil
		}
		name, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		t, err := b.ForType(name)
		if err != nil {
			return values.Value{}, err
		}
		return wrapType(i, t), nil
	})

	nativeFunction(i, javaObj, "to", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		b, _ := i.Root.Bridge.(Bridge)
		if b == nil {
			return values.NullValue, nil
		}
		goVal := FromScript(s, arg(args, 0))
		if goVal == nil {
			return values.NullValue, nil
		}
		return ToScript(i, goVal), nil
	})
}

// wrapType builds the callable wrapper spec.md §6 describes for a resolved
// host Type: static members readable by name, invocation ("new Fn(...)"
// or a bare call — this engine, like real JS, does not distinguish the
// two at the Callable level) running Type.New.
func wrapType(i *interp.Interp, t *Type) values.Value {
	fnVal := i.Store.New(values.ClassFunction, i.Store.FunctionProto)
	obj := i.Store.Object(fnVal)
	obj.Call = &values.Callable{
		Name: t.Name,
		Native: func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			if t.New == nil {
				return values.Value{}, errNotConstructible(t.Name)
			}
			goArgs := make([]any, len(args))
			for idx, a := range args {
				goArgs[idx] = FromScript(s, a)
			}
			result, err := t.New(goArgs)
			if err != nil {
				return values.Value{}, err
			}
			return ToScript(i, result), nil
		},
	}
	obj.SetOwn("name", values.Str(t.Name))
	for name, val := range t.Statics {
		obj.SetOwn(name, ToScript(i, val))
	}
	return fnVal
}

func arg(args []values.Value, n int) values.Value {
	if n < len(args) {
		return args[n]
	}
	return values.UndefinedValue
}

func nativeFunction(i *interp.Interp, target *values.Object, name string, length int, fn values.NativeFunc) {
	v := i.Store.New(values.ClassFunction, i.Store.FunctionProto)
	obj := i.Store.Object(v)
	obj.Call = &values.Callable{Name: name, Native: fn}
	obj.SetOwn("name", values.Str(name))
	obj.SetOwn("length", values.Num(float64(length)))
	target.SetOwn(name, v)
}
