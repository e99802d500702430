package bridge

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/values"
)

// ToScript converts a Go value returned from a bridge call into an
// engine-native values.Value, following spec.md §6's auto-wrap rule:
// "primitives -> JS primitives; host collections/maps -> Array/object
// views; other host objects -> opaque external values". Grounded on the
// teacher's MarshalToDWS (internal/interp/marshal.go), generalized from
// DWScript's fixed INTEGER/FLOAT/STRING/BOOLEAN/ARRAY/RECORD value union
// to this engine's values.Value and reflect.Kind switch covering the
// wider set of Go numeric kinds a host API may return.
func ToScript(i *interp.Interp, goVal any) values.Value {
	if goVal == nil {
		return values.NullValue
	}
	if ext, ok := goVal.(External); ok {
		return wrapExternal(i, goVal, ext.JsValue())
	}

	v := reflect.ValueOf(goVal)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return values.Num(float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return values.Num(float64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return values.Num(v.Float())
	case reflect.String:
		return values.Str(v.String())
	case reflect.Bool:
		return values.Bool(v.Bool())
	case reflect.Slice, reflect.Array:
		elements := make([]values.Value, v.Len())
		for idx := range elements {
			elements[idx] = ToScript(i, v.Index(idx).Interface())
		}
		return i.NewArray(elements)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return wrapExternal(i, goVal, goVal)
		}
		obj := i.NewPlainObject()
		target := i.Store.Object(obj)
		keys := v.MapKeys()
		names := make([]string, len(keys))
		for idx, k := range keys {
			names[idx] = k.String()
		}
		sort.Strings(names)
		for _, name := range names {
			target.SetOwn(name, ToScript(i, v.MapIndex(reflect.ValueOf(name)).Interface()))
		}
		return obj
	default:
		return wrapExternal(i, goVal, goVal)
	}
}

// wrapExternal builds spec.md §6's opaque external value: a ClassHost
// object carrying the original Go value in Host, with getJavaValue/
// getJsValue own methods (every external value gets its own pair rather
// than sharing one prototype, since this engine's well-known prototype
// ids are a fixed set — see values/store.go — with no externally-added
// slot for a "host value" prototype).
func wrapExternal(i *interp.Interp, javaVal, jsVal any) values.Value {
	s := i.Store
	v := s.New(values.ClassHost, s.ObjectProto)
	obj := s.Object(v)
	obj.Host = javaVal
	obj.SetOwn("getJavaValue", hostAccessor(i, javaVal))
	obj.SetOwn("getJsValue", hostAccessor(i, jsVal))
	return v
}

func hostAccessor(i *interp.Interp, result any) values.Value {
	fnVal := i.Store.New(values.ClassFunction, i.Store.FunctionProto)
	i.Store.Object(fnVal).Call = &values.Callable{
		Name: "getJavaValue",
		Native: func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			return ToScript(i, result), nil
		},
	}
	return fnVal
}

// FromScript converts an engine-native values.Value back to a plain Go
// value, the inverse ToScript uses for Java.to and for marshaling script
// arguments into a Type.New call. Grounded on the teacher's MarshalToGo
// (internal/interp/marshal.go), adapted from "convert toward a known
// reflect.Target type" (DWScript's FFI knows the Go signature ahead of
// time) to "convert toward whatever shape the value carries" (this
// engine's bridge has no static Go-side signature to target).
func FromScript(s *values.Store, v values.Value) any {
	switch v.Kind() {
	case values.Undefined, values.Null:
		return nil
	case values.Boolean:
		return v.BoolVal()
	case values.Number:
		return v.NumberVal()
	case values.String:
		return v.StringVal()
	case values.Obj:
		obj := s.Object(v)
		switch obj.Class {
		case values.ClassHost:
			return obj.Host
		case values.ClassArray:
			out := make([]any, obj.ArrayLength)
			for idx := range out {
				if p, ok := obj.GetOwn(strconv.Itoa(idx)); ok {
					out[idx] = FromScript(s, p.Value)
				}
			}
			return out
		case values.ClassFunction:
			return obj.Host
		default:
			out := make(map[string]any)
			for _, k := range obj.OwnKeys() {
				p, _ := obj.GetOwn(k)
				out[k] = FromScript(s, p.Value)
			}
			return out
		}
	default:
		return nil
	}
}
