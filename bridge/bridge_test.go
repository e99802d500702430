package bridge

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/values"
)

func newInterp() *interp.Interp {
	store := values.NewStore()
	return interp.New(store, nil)
}

func TestToScriptPrimitives(t *testing.T) {
	i := newInterp()

	tests := []struct {
		name string
		in   any
		want values.Value
	}{
		{"nil", nil, values.NullValue},
		{"int", 42, values.Num(42)},
		{"uint32", uint32(7), values.Num(7)},
		{"float64", 3.14, values.Num(3.14)},
		{"string", "hi", values.Str("hi")},
		{"bool", true, values.Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToScript(i, tt.in)
			if got.Kind() != tt.want.Kind() {
				t.Fatalf("Kind() = %v, want %v", got.Kind(), tt.want.Kind())
			}
			switch tt.want.Kind() {
			case values.Number:
				if got.NumberVal() != tt.want.NumberVal() {
					t.Fatalf("got %v, want %v", got.NumberVal(), tt.want.NumberVal())
				}
			case values.String:
				if got.StringVal() != tt.want.StringVal() {
					t.Fatalf("got %q, want %q", got.StringVal(), tt.want.StringVal())
				}
			case values.Boolean:
				if got.BoolVal() != tt.want.BoolVal() {
					t.Fatalf("got %v, want %v", got.BoolVal(), tt.want.BoolVal())
				}
			}
		})
	}
}

func TestToScriptSlice(t *testing.T) {
	i := newInterp()
	v := ToScript(i, []int{1, 2, 3})
	if v.Kind() != values.Obj {
		t.Fatalf("expected an object, got %v", v.Kind())
	}
	obj := i.Store.Object(v)
	if obj.Class != values.ClassArray {
		t.Fatalf("expected ClassArray, got %v", obj.Class)
	}
	if obj.ArrayLength != 3 {
		t.Fatalf("expected length 3, got %d", obj.ArrayLength)
	}
	p, ok := obj.GetOwn("1")
	if !ok || p.Value.NumberVal() != 2 {
		t.Fatalf("expected element 1 == 2, got %+v", p)
	}
}

func TestToScriptStringMap(t *testing.T) {
	i := newInterp()
	v := ToScript(i, map[string]any{"a": 1, "b": "two"})
	if v.Kind() != values.Obj {
		t.Fatalf("expected an object, got %v", v.Kind())
	}
	obj := i.Store.Object(v)
	a, _ := obj.GetOwn("a")
	if a.Value.NumberVal() != 1 {
		t.Fatalf("expected a == 1, got %+v", a.Value)
	}
	b, _ := obj.GetOwn("b")
	if b.Value.StringVal() != "two" {
		t.Fatalf("expected b == \"two\", got %+v", b.Value)
	}
}

func TestToScriptNonStringMapWrapsExternal(t *testing.T) {
	i := newInterp()
	v := ToScript(i, map[int]string{1: "x"})
	if v.Kind() != values.Obj {
		t.Fatalf("expected an object, got %v", v.Kind())
	}
	if i.Store.Object(v).Class != values.ClassHost {
		t.Fatalf("expected ClassHost for a non-string-keyed map, got %v", i.Store.Object(v).Class)
	}
}

// greeter implements External so ToScript wraps it using JsValue() rather
// than falling into the reflect.Struct default branch.
type greeter struct{ name string }

func (g greeter) JsValue() any { return g.name }

func TestToScriptExternalUsesJsValue(t *testing.T) {
	i := newInterp()
	v := ToScript(i, greeter{name: "Ada"})
	if i.Store.Object(v).Class != values.ClassHost {
		t.Fatalf("expected ClassHost, got %v", i.Store.Object(v).Class)
	}
	if got := i.Store.Object(v).Host; got != (greeter{name: "Ada"}) {
		t.Fatalf("Host = %#v, want the original Go value", got)
	}
}

func TestToScriptUnknownStructWrapsExternal(t *testing.T) {
	i := newInterp()
	type point struct{ X, Y int }
	v := ToScript(i, point{X: 1, Y: 2})
	obj := i.Store.Object(v)
	if obj.Class != values.ClassHost {
		t.Fatalf("expected ClassHost for an unrecognized struct, got %v", obj.Class)
	}
	if obj.Host != (point{X: 1, Y: 2}) {
		t.Fatalf("Host = %#v, want the original struct", obj.Host)
	}
}

func TestFromScriptPrimitives(t *testing.T) {
	i := newInterp()

	if got := FromScript(i.Store, values.UndefinedValue); got != nil {
		t.Fatalf("undefined -> %#v, want nil", got)
	}
	if got := FromScript(i.Store, values.NullValue); got != nil {
		t.Fatalf("null -> %#v, want nil", got)
	}
	if got := FromScript(i.Store, values.Num(5)); got != float64(5) {
		t.Fatalf("number -> %#v, want 5", got)
	}
	if got := FromScript(i.Store, values.Str("x")); got != "x" {
		t.Fatalf("string -> %#v, want \"x\"", got)
	}
	if got := FromScript(i.Store, values.Bool(true)); got != true {
		t.Fatalf("boolean -> %#v, want true", got)
	}
}

func TestFromScriptArray(t *testing.T) {
	i := newInterp()
	arr := i.NewArray([]values.Value{values.Num(1), values.Str("two"), values.Bool(false)})
	got, ok := FromScript(i.Store, arr).([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", FromScript(i.Store, arr))
	}
	want := []any{float64(1), "two", false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestFromScriptPlainObject(t *testing.T) {
	i := newInterp()
	obj := i.NewPlainObject()
	i.Store.Object(obj).SetOwn("a", values.Num(1))
	i.Store.Object(obj).SetOwn("b", values.Str("two"))

	got, ok := FromScript(i.Store, obj).(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", FromScript(i.Store, obj))
	}
	if got["a"] != float64(1) || got["b"] != "two" {
		t.Fatalf("got %#v", got)
	}
}

func TestFromScriptHostRoundTrip(t *testing.T) {
	i := newInterp()
	original := greeter{name: "Ada"}
	wrapped := ToScript(i, original)
	if got := FromScript(i.Store, wrapped); got != original {
		t.Fatalf("round-trip got %#v, want %#v", got, original)
	}
}

func TestWrapExternalAccessors(t *testing.T) {
	i := newInterp()
	v := wrapExternal(i, "java-side", "js-side")
	obj := i.Store.Object(v)

	javaFn, ok := obj.GetOwn("getJavaValue")
	if !ok {
		t.Fatal("expected a getJavaValue own property")
	}
	result, err := i.Store.Object(javaFn.Value).Call.Native(i.Store, v, nil)
	if err != nil {
		t.Fatalf("getJavaValue() error: %v", err)
	}
	if result.StringVal() != "java-side" {
		t.Fatalf("getJavaValue() = %q, want %q", result.StringVal(), "java-side")
	}

	jsFn, ok := obj.GetOwn("getJsValue")
	if !ok {
		t.Fatal("expected a getJsValue own property")
	}
	result, err = i.Store.Object(jsFn.Value).Call.Native(i.Store, v, nil)
	if err != nil {
		t.Fatalf("getJsValue() error: %v", err)
	}
	if result.StringVal() != "js-side" {
		t.Fatalf("getJsValue() = %q, want %q", result.StringVal(), "js-side")
	}
}

// stubBridge is a minimal Bridge for exercising Install/wrapType directly,
// without going through engine.Engine.
type stubBridge struct {
	types map[string]*Type
}

func (s stubBridge) ForType(name string) (*Type, error) {
	t, ok := s.types[name]
	if !ok {
		return nil, errors.New("unknown type: " + name)
	}
	return t, nil
}

func TestInstallJavaTypeAndTo(t *testing.T) {
	i := newInterp()
	global := i.Store.Object(i.NewPlainObject())

	i.Root.Bridge = stubBridge{types: map[string]*Type{
		"demo.Greeter": {
			Name:    "demo.Greeter",
			Statics: map[string]any{"DEFAULT_NAME": "world"},
			New: func(args []any) (any, error) {
				name, _ := args[0].(string)
				return greeter{name: name}, nil
			},
		},
	}}
	Install(i, global)

	javaVal, _ := global.GetOwn("Java")
	javaObj := i.Store.Object(javaVal.Value)

	typeFn, _ := javaObj.GetOwn("type")
	wrapped, err := i.Store.Object(typeFn.Value).Call.Native(i.Store, values.UndefinedValue, []values.Value{values.Str("demo.Greeter")})
	if err != nil {
		t.Fatalf("Java.type error: %v", err)
	}
	wrappedObj := i.Store.Object(wrapped)

	name, _ := wrappedObj.GetOwn("DEFAULT_NAME")
	if name.Value.StringVal() != "world" {
		t.Fatalf("DEFAULT_NAME = %q, want %q", name.Value.StringVal(), "world")
	}

	instance, err := wrappedObj.Call.Native(i.Store, values.UndefinedValue, []values.Value{values.Str("Ada")})
	if err != nil {
		t.Fatalf("constructing instance: %v", err)
	}
	if i.Store.Object(instance).Host != (greeter{name: "Ada"}) {
		t.Fatalf("Host = %#v, want greeter{name: \"Ada\"}", i.Store.Object(instance).Host)
	}

	toFn, _ := javaObj.GetOwn("to")
	unwrapped, err := i.Store.Object(toFn.Value).Call.Native(i.Store, values.UndefinedValue, []values.Value{instance})
	if err != nil {
		t.Fatalf("Java.to error: %v", err)
	}
	if i.Store.Object(unwrapped).Host != (greeter{name: "Ada"}) {
		t.Fatalf("Java.to result Host = %#v, want greeter{name: \"Ada\"}", i.Store.Object(unwrapped).Host)
	}
}

func TestInstallJavaTypeWithoutBridgeReturnsUndefined(t *testing.T) {
	i := newInterp()
	global := i.Store.Object(i.NewPlainObject())
	Install(i, global)

	javaVal, _ := global.GetOwn("Java")
	javaObj := i.Store.Object(javaVal.Value)
	typeFn, _ := javaObj.GetOwn("type")

	got, err := i.Store.Object(typeFn.Value).Call.Native(i.Store, values.UndefinedValue, []values.Value{values.Str("anything")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != values.Undefined {
		t.Fatalf("expected undefined, got %v", got.Kind())
	}
}

func TestWrapTypeNotConstructibleWithoutNew(t *testing.T) {
	i := newInterp()
	wrapped := wrapType(i, &Type{Name: "demo.Constants", Statics: map[string]any{"PI": 3}})
	obj := i.Store.Object(wrapped)
	if _, err := obj.Call.Native(i.Store, values.UndefinedValue, nil); err == nil {
		t.Fatal("expected an error constructing a static-only type wrapper")
	}
}
