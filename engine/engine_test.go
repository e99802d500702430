package engine_test

import (
	"testing"

	"github.com/cwbudde/go-ecma/bridge"
	"github.com/cwbudde/go-ecma/engine"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

func evalString(t *testing.T, e *engine.Engine, src string) string {
	t.Helper()
	v, err := e.Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	s, err := terms.ToString(e.Store(), v)
	if err != nil {
		t.Fatalf("ToString: %v", err)
	}
	return s
}

func TestEvalArithmetic(t *testing.T) {
	e := engine.New()
	if got := evalString(t, e, "1 + 2 * 3"); got != "7" {
		t.Fatalf("got %q, want %q", got, "7")
	}
}

func TestEvalSharesGlobalsAcrossCalls(t *testing.T) {
	e := engine.New()
	if _, err := e.Eval("var counter = 0;"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got := evalString(t, e, "counter = counter + 1; counter"); got != "1" {
		t.Fatalf("got %q, want %q", got, "1")
	}
	if got := evalString(t, e, "counter = counter + 1; counter"); got != "2" {
		t.Fatalf("got %q, want %q", got, "2")
	}
}

func TestEvalParseErrorReportsSyntaxError(t *testing.T) {
	e := engine.New()
	_, err := e.Eval("var = ;")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEvalThrowPropagatesAsError(t *testing.T) {
	e := engine.New()
	_, err := e.Eval(`throw new TypeError("boom");`)
	if err == nil {
		t.Fatal("expected an error from throw")
	}
}

func TestSetGet(t *testing.T) {
	e := engine.New()
	e.Set("greeting", values.Str("hi"))

	v, ok := e.Get("greeting")
	if !ok {
		t.Fatal("Get(\"greeting\") not found")
	}
	s, _ := terms.ToString(e.Store(), v)
	if s != "hi" {
		t.Fatalf("got %q, want %q", s, "hi")
	}

	if got := evalString(t, e, "greeting + '!'"); got != "hi!" {
		t.Fatalf("got %q, want %q", got, "hi!")
	}

	if _, ok := e.Get("doesNotExist"); ok {
		t.Fatal("Get(\"doesNotExist\") unexpectedly found")
	}
}

func TestConsoleSink(t *testing.T) {
	var gotLevel string
	var gotArgs []any

	e := engine.New(engine.WithConsoleSink(func(level string, args []any) {
		gotLevel = level
		gotArgs = args
	}))

	if _, err := e.Eval(`console.log("a", 1, true);`); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if gotLevel != "log" {
		t.Fatalf("got level %q, want %q", gotLevel, "log")
	}
	if len(gotArgs) != 3 || gotArgs[0] != "a" || gotArgs[1] != float64(1) || gotArgs[2] != true {
		t.Fatalf("got args %#v", gotArgs)
	}
}

func TestSetConsoleSinkAfterConstruction(t *testing.T) {
	e := engine.New()

	called := false
	e.SetConsoleSink(func(level string, args []any) { called = true })

	if _, err := e.Eval(`console.warn("late binding");`); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !called {
		t.Fatal("expected the post-construction console sink to fire")
	}

	e.SetConsoleSink(nil)
	called = false
	if _, err := e.Eval(`console.warn("discarded");`); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if called {
		t.Fatal("expected console sink to be a no-op after SetConsoleSink(nil)")
	}
}

func TestMaxCallDepth(t *testing.T) {
	e := engine.New(engine.WithMaxCallDepth(8))

	_, err := e.Eval(`
		function recurse(n) { return recurse(n + 1); }
		recurse(0);
	`)
	if err == nil {
		t.Fatal("expected a RangeError from unbounded recursion")
	}
}

type greeterType struct{ name string }

func (g *greeterType) JsValue() any { return g.name }

func TestBridge(t *testing.T) {
	b := stubBridge{types: map[string]*bridge.Type{
		"demo.Greeter": {
			Name: "demo.Greeter",
			New: func(args []any) (any, error) {
				name, _ := args[0].(string)
				return &greeterType{name: name}, nil
			},
		},
	}}

	e := engine.New(engine.WithBridge(b))
	got := evalString(t, e, `Java.type("demo.Greeter")("world").getJsValue()`)
	if got != "world" {
		t.Fatalf("got %q, want %q", got, "world")
	}
}

type stubBridge struct{ types map[string]*bridge.Type }

func (b stubBridge) ForType(name string) (*bridge.Type, error) {
	if t, ok := b.types[name]; ok {
		return t, nil
	}
	return nil, nil
}
