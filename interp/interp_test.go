package interp_test

import (
	"testing"

	"github.com/cwbudde/go-ecma/builtins"
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/lexer"
	"github.com/cwbudde/go-ecma/parser"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// newInterp builds an Interp with every builtin installed, following this
// package's own New(store, console) constructor plus builtins.Install —
// exactly what engine.New does, minus the Option layer this package
// doesn't know about.
func newInterp(t *testing.T) *interp.Interp {
	t.Helper()
	store := values.NewStore()
	i := interp.New(store, nil)
	builtins.Install(i)
	return i
}

func run(t *testing.T, i *interp.Interp, src string) (values.Value, error) {
	t.Helper()
	p := parser.New(lexer.New("test.js", src))
	prog := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return i.RunProgram(prog)
}

func evalOK(t *testing.T, i *interp.Interp, src string) values.Value {
	t.Helper()
	v, err := run(t, i, src)
	if err != nil {
		t.Fatalf("eval(%q) error: %v", src, err)
	}
	return v
}

func evalStr(t *testing.T, i *interp.Interp, src string) string {
	t.Helper()
	v := evalOK(t, i, src)
	s, err := terms.ToString(i.Store, v)
	if err != nil {
		t.Fatalf("ToString: %v", err)
	}
	return s
}

func TestArithmeticPrecedence(t *testing.T) {
	cases := map[string]string{
		"1 + 2 * 3":       "7",
		"(1 + 2) * 3":     "9",
		"2 ** 3 ** 2":     "512",
		"10 % 3":          "1",
		"1 + '1'":         "11",
		"'5' - 1":         "4",
		"-5 + +'3'":       "-2",
		"typeof 1":        "number",
		"typeof 'x'":      "string",
		"typeof undefined": "undefined",
	}
	for src, want := range cases {
		i := newInterp(t)
		if got := evalStr(t, i, src); got != want {
			t.Errorf("%q: got %q, want %q", src, got, want)
		}
	}
}

func TestVariablesAndHoisting(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var x = hoisted();
		function hoisted() { return "works"; }
		x;
	`)
	if got != "works" {
		t.Fatalf("got %q, want %q", got, "works")
	}
}

func TestLetTemporalDeadZone(t *testing.T) {
	i := newInterp(t)
	_, err := run(t, i, `console; let x = x + 1;`)
	if err == nil {
		t.Fatal("expected an error reading x in its own TDZ")
	}
}

func TestClosures(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		function makeCounter() {
			let n = 0;
			return function() { n = n + 1; return n; };
		}
		let c = makeCounter();
		c(); c(); c();
	`)
	if got != "3" {
		t.Fatalf("got %q, want %q", got, "3")
	}
}

func TestArrowFunctionLexicalThis(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var obj = {
			name: "arrow",
			greet: function() {
				var fn = () => this.name;
				return fn();
			}
		};
		obj.greet();
	`)
	if got != "arrow" {
		t.Fatalf("got %q, want %q", got, "arrow")
	}
}

func TestDestructuringWithDefaultsAndRest(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		function f({a, b = 10, ...rest}) {
			return a + "," + b + "," + JSON.stringify(rest);
		}
		f({a: 1, c: 2, d: 3});
	`)
	if got != `1,10,{"c":2,"d":3}` {
		t.Fatalf("got %q", got)
	}
}

func TestArrayDestructuring(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var [a, , b, ...rest] = [1, 2, 3, 4, 5];
		a + "," + b + "," + rest.join("-");
	`)
	if got != "1,3,4-5" {
		t.Fatalf("got %q", got)
	}
}

func TestForInInsertionOrder(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var obj = {z: 1, a: 2, m: 3};
		var out = "";
		for (var k in obj) { out = out + k; }
		out;
	`)
	if got != "zam" {
		t.Fatalf("got %q, want %q", got, "zam")
	}
}

func TestForInDoesNotLeakBuiltinPrototypeMembers(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var out = "";
		for (var k in {z: 1, a: 2}) { out = out + k; }
		for (var k in [10, 20]) { out = out + k; }
		out;
	`)
	if got != "za01" {
		t.Fatalf("got %q, want %q — a built-in prototype member leaked into for-in", got, "za01")
	}
}

func TestForOfArray(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var out = 0;
		for (var v of [1, 2, 3]) { out = out + v; }
		out;
	`)
	if got != "6" {
		t.Fatalf("got %q, want %q", got, "6")
	}
}

func TestTryCatchFinally(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var log = "";
		try {
			throw new Error("boom");
		} catch (e) {
			log = log + "catch:" + e.message;
		} finally {
			log = log + ",finally";
		}
		log;
	`)
	if got != "catch:boom,finally" {
		t.Fatalf("got %q", got)
	}
}

func TestFinallyReplacesPendingException(t *testing.T) {
	i := newInterp(t)
	_, err := run(t, i, `
		function f() {
			try {
				throw new Error("first");
			} finally {
				throw new Error("second");
			}
		}
		f();
	`)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestSwitchFallthrough(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		function classify(n) {
			var out = "";
			switch (n) {
				case 1:
				case 2:
					out = out + "low-";
				case 3:
					out = out + "mid";
					break;
				default:
					out = out + "other";
			}
			return out;
		}
		classify(1) + "|" + classify(3) + "|" + classify(9);
	`)
	if got != "low-mid|mid|other" {
		t.Fatalf("got %q", got)
	}
}

func TestNewAndPrototypeChain(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		function Animal(name) { this.name = name; }
		Animal.prototype.speak = function() { return this.name + " speaks"; };
		var a = new Animal("Rex");
		a.speak();
	`)
	if got != "Rex speaks" {
		t.Fatalf("got %q", got)
	}
}

func TestOptionalChainingAndNullish(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var obj = {a: {b: null}};
		var r1 = obj?.a?.b?.c;
		var r2 = obj?.x?.y;
		var r3 = (r2 ?? "fallback");
		String(r1) + "," + String(r2) + "," + r3;
	`)
	if got != "undefined,undefined,fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestSpreadInCallAndArray(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		function sum(a, b, c) { return a + b + c; }
		var nums = [1, 2, 3];
		var combined = [0, ...nums, 4];
		sum(...nums) + "," + combined.join("-");
	`)
	if got != "6,0-1-2-3-4" {
		t.Fatalf("got %q", got)
	}
}

func TestLabeledBreakContinue(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var out = "";
		outer:
		for (var x = 0; x < 3; x = x + 1) {
			for (var y = 0; y < 3; y = y + 1) {
				if (y === 1) continue outer;
				if (x === 2) break outer;
				out = out + x + "" + y + ",";
			}
		}
		out;
	`)
	if got != "00,10," {
		t.Fatalf("got %q", got)
	}
}

func TestCompoundAssignmentReadsOnce(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var calls = 0;
		var arr = [10];
		function idx() { calls = calls + 1; return 0; }
		arr[idx()] += 5;
		arr[0] + "," + calls;
	`)
	if got != "15,1" {
		t.Fatalf("got %q", got)
	}
}

func TestUnresolvedIdentifierInCallUnwindsToError(t *testing.T) {
	i := newInterp(t)
	_, err := run(t, i, `
		function f() { return undefinedName; }
		f();
	`)
	if err == nil {
		t.Fatal("expected a ReferenceError for an unresolved identifier inside a call")
	}
}

func TestInstanceofAndIn(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		function Foo() {}
		var f = new Foo();
		var obj = {key: 1};
		(f instanceof Foo) + "," + ("key" in obj) + "," + ("missing" in obj);
	`)
	if got != "true,true,false" {
		t.Fatalf("got %q", got)
	}
}
