package builtins

import (
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installObject wires the Object constructor, its static methods, and
// Object.prototype, following spec.md §4.6's Object entry and, for the
// supplemented Object.is, the original's equivalent strict-equality-with-
// NaN/-0 helper noted in SPEC_FULL.md.
func installObject(i *interp.Interp, global *values.Object) {
	ctorVal, ctorObj := newConstructor(i, "Object", i.Store.ObjectProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 || args[0].IsNullish() {
			return i.NewPlainObject(), nil
		}
		return args[0], nil
	})
	global.SetOwn("Object", ctorVal)

	nativeFunction(i, ctorObj, "keys", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Obj {
			return i.NewArray(nil), nil
		}
		out := make([]values.Value, 0)
		for _, k := range s.Object(v).OwnKeys() {
			out = append(out, values.Str(k))
		}
		return i.NewArray(out), nil
	})
	nativeFunction(i, ctorObj, "values", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Obj {
			return i.NewArray(nil), nil
		}
		obj := s.Object(v)
		out := make([]values.Value, 0)
		for _, k := range obj.OwnKeys() {
			p, _ := obj.GetOwn(k)
			out = append(out, p.Value)
		}
		return i.NewArray(out), nil
	})
	nativeFunction(i, ctorObj, "entries", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Obj {
			return i.NewArray(nil), nil
		}
		obj := s.Object(v)
		out := make([]values.Value, 0)
		for _, k := range obj.OwnKeys() {
			p, _ := obj.GetOwn(k)
			out = append(out, i.NewArray([]values.Value{values.Str(k), p.Value}))
		}
		return i.NewArray(out), nil
	})
	nativeFunction(i, ctorObj, "assign", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.UndefinedValue, errTypeErr("Object.assign requires a target")
		}
		target := args[0]
		if target.Kind() != values.Obj {
			return target, nil
		}
		targetObj := s.Object(target)
		for _, src := range args[1:] {
			if src.Kind() != values.Obj {
				continue
			}
			srcObj := s.Object(src)
			for _, k := range srcObj.OwnKeys() {
				p, _ := srcObj.GetOwn(k)
				targetObj.SetOwn(k, p.Value)
			}
		}
		return target, nil
	})
	nativeFunction(i, ctorObj, "freeze", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() == values.Obj {
			obj := s.Object(v)
			obj.Frozen = true
			obj.Extensible = false
			for _, k := range obj.AllOwnKeys() {
				p, _ := obj.GetOwn(k)
				obj.Define(k, p.Value, false, p.Enumerable)
			}
		}
		return v, nil
	})
	nativeFunction(i, ctorObj, "isFrozen", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Obj {
			return values.True, nil
		}
		return values.Bool(s.Object(v).Frozen), nil
	})
	nativeFunction(i, ctorObj, "getPrototypeOf", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Obj {
			return values.NullValue, nil
		}
		p, ok := s.PrototypeOf(v)
		if !ok {
			return values.NullValue, nil
		}
		return p, nil
	})
	nativeFunction(i, ctorObj, "setPrototypeOf", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Obj {
			return v, nil
		}
		proto := arg(args, 1)
		if proto.Kind() == values.Obj {
			s.Object(v).Proto = proto.Ref()
		} else {
			s.Object(v).Proto = 0
		}
		return v, nil
	})
	nativeFunction(i, ctorObj, "create", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		proto := arg(args, 0)
		var protoID int32
		if proto.Kind() == values.Obj {
			protoID = proto.Ref()
		}
		v := s.New(values.ClassPlain, protoID)
		if len(args) > 1 && args[1].Kind() == values.Obj {
			applyDescriptors(s, v, args[1])
		}
		return v, nil
	})
	nativeFunction(i, ctorObj, "defineProperty", 3, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) < 3 || args[0].Kind() != values.Obj {
			return values.UndefinedValue, errTypeErr("Object.defineProperty called on non-object")
		}
		key, err := terms.ToString(s, args[1])
		if err != nil {
			return values.Value{}, err
		}
		defineOne(s, s.Object(args[0]), key, args[2])
		return args[0], nil
	})
	nativeFunction(i, ctorObj, "is", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return values.Bool(sameValue(arg(args, 0), arg(args, 1))), nil
	})

	proto := i.Store.ObjectByID(i.Store.ObjectProto)
	nativeFunction(i, proto, "hasOwnProperty", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if this.Kind() != values.Obj {
			return values.False, nil
		}
		key, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		_, ok := s.Object(this).GetOwn(key)
		return values.Bool(ok), nil
	})
	nativeFunction(i, proto, "isPrototypeOf", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if this.Kind() != values.Obj || v.Kind() != values.Obj {
			return values.False, nil
		}
		return values.Bool(s.IsInstanceOf(v, this.Ref())), nil
	})
	nativeFunction(i, proto, "toString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		str, err := terms.ToString(s, this)
		if err != nil {
			return values.Value{}, err
		}
		if this.Kind() == values.Obj {
			return values.Str("[object Object]"), nil
		}
		return values.Str(str), nil
	})
}

// arg returns args[n] or undefined if n is out of range — every builtin in
// this package uses it instead of repeating a len(args) check per parameter.
func arg(args []values.Value, n int) values.Value {
	if n < len(args) {
		return args[n]
	}
	return values.UndefinedValue
}

// sameValue implements Object.is's SameValue algorithm: like ===, except
// NaN equals NaN and +0 does not equal -0.
func sameValue(a, b values.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case values.Number:
		an, bn := a.NumberVal(), b.NumberVal()
		if an != an && bn != bn { // both NaN
			return true
		}
		if an == 0 && bn == 0 {
			return (1/an > 0) == (1/bn > 0)
		}
		return an == bn
	case values.String:
		return a.StringVal() == b.StringVal()
	case values.Boolean:
		return a.BoolVal() == b.BoolVal()
	case values.Undefined, values.Null:
		return true
	case values.Obj:
		return a.Ref() == b.Ref()
	default:
		return false
	}
}

// applyDescriptors installs every own property of descriptors onto v via
// defineOne, Object.create's second-argument form.
func applyDescriptors(s *values.Store, v values.Value, descriptors values.Value) {
	obj := s.Object(v)
	descObj := s.Object(descriptors)
	for _, k := range descObj.OwnKeys() {
		p, _ := descObj.GetOwn(k)
		defineOne(s, obj, k, p.Value)
	}
}

// defineOne implements Object.defineProperty's minimal data-descriptor form
// (spec.md §4.6: "minimal writable/value form"): value/writable/enumerable
// own keys of descriptor, defaulting writable/enumerable to false per the
// real spec when the descriptor omits them.
func defineOne(s *values.Store, obj *values.Object, key string, descriptor values.Value) {
	var value values.Value
	writable, enumerable := false, false
	if descriptor.Kind() == values.Obj {
		descObj := s.Object(descriptor)
		if p, ok := descObj.GetOwn("value"); ok {
			value = p.Value
		}
		if p, ok := descObj.GetOwn("writable"); ok {
			writable = terms.Truthy(p.Value)
		}
		if p, ok := descObj.GetOwn("enumerable"); ok {
			enumerable = terms.Truthy(p.Value)
		}
	}
	obj.Define(key, value, writable, enumerable)
}
