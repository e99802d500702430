package builtins_test

import (
	"testing"

	"github.com/cwbudde/go-ecma/builtins"
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/lexer"
	"github.com/cwbudde/go-ecma/parser"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

func newInterp(t *testing.T) *interp.Interp {
	t.Helper()
	store := values.NewStore()
	i := interp.New(store, nil)
	builtins.Install(i)
	return i
}

func evalStr(t *testing.T, i *interp.Interp, src string) string {
	t.Helper()
	p := parser.New(lexer.New("test.js", src))
	prog := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	v, err := i.RunProgram(prog)
	if err != nil {
		t.Fatalf("eval(%q) error: %v", src, err)
	}
	s, err := terms.ToString(i.Store, v)
	if err != nil {
		t.Fatalf("ToString: %v", err)
	}
	return s
}

func TestArrayMethods(t *testing.T) {
	cases := map[string]string{
		`[1,2,3].map(x => x * 2).join(",")`:                       "2,4,6",
		`[1,2,3,4].filter(x => x % 2 === 0).join(",")`:            "2,4",
		`[1,2,3].reduce((acc, x) => acc + x, 0)`:                   "6",
		`[3,1,2].sort().join(",")`:                                 "1,2,3",
		`[1,[2,3],[4,[5]]].flat(2).join(",")`:                      "1,2,3,4,5",
		`[1,2,3].slice(1).join(",")`:                                "2,3",
		`[1,2,3].indexOf(2)`:                                        "1",
		`[1,2,3].includes(4)`:                                       "false",
		`Array.isArray([1,2])`:                                      "true",
		`[1,2,3].reverse().join(",")`:                               "3,2,1",
		`[1,2,3].find(x => x > 1)`:                                  "2",
		`["a","b"].concat(["c"]).join(",")`:                        "a,b,c",
		`[1,2,3].every(x => x > 0)`:                                 "true",
		`[1,2,3].some(x => x > 2)`:                                  "true",
	}
	for src, want := range cases {
		i := newInterp(t)
		if got := evalStr(t, i, src); got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestStringMethods(t *testing.T) {
	cases := map[string]string{
		`"hello".toUpperCase()`:                "HELLO",
		`"HELLO".toLowerCase()`:                "hello",
		`"  hi  ".trim()`:                      "hi",
		`"abc".charAt(1)`:                      "b",
		`"a,b,c".split(",").join("-")`:         "a-b-c",
		`"hello".slice(1, 3)`:                  "el",
		`"hello".includes("ell")`:               "true",
		`"hello".replace("l", "L")`:             "heLlo",
		`"hello".startsWith("he")`:              "true",
		`"hello".endsWith("lo")`:                "true",
		`"ab".repeat(3)`:                        "ababab",
		`"5".padStart(3, "0")`:                  "005",
		`[1,2,3].join("") + String(123)`:        "123123",
	}
	for src, want := range cases {
		i := newInterp(t)
		if got := evalStr(t, i, src); got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestObjectMethods(t *testing.T) {
	cases := map[string]string{
		`Object.keys({a:1, b:2}).join(",")`:       "a,b",
		`Object.values({a:1, b:2}).join(",")`:     "1,2",
		`JSON.stringify(Object.assign({}, {a:1}, {b:2}))`: `{"a":1,"b":2}`,
		`Object.freeze({a:1}).a`:                  "1",
	}
	for src, want := range cases {
		i := newInterp(t)
		if got := evalStr(t, i, src); got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestMathAndNumber(t *testing.T) {
	cases := map[string]string{
		`Math.max(1, 5, 3)`:       "5",
		`Math.min(1, 5, 3)`:       "1",
		`Math.abs(-4)`:            "4",
		`Math.floor(1.7)`:         "1",
		`Math.ceil(1.2)`:          "2",
		`Math.round(1.5)`:         "2",
		`Number("42")`:            "42",
		`Number.isInteger(4)`:     "true",
		`(255).toString(16)`:      "ff",
		`Number.parseInt("42px")`:   "42",
		`Number.parseFloat("3.14abc")`: "3.14",
	}
	for src, want := range cases {
		i := newInterp(t)
		if got := evalStr(t, i, src); got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestJSON(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `JSON.stringify(JSON.parse('{"a":[1,2,3],"b":"x"}'))`)
	want := `{"a":[1,2,3],"b":"x"}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRegExpTest(t *testing.T) {
	cases := map[string]string{
		`/ab+c/.test("abbbc")`:          "true",
		`"foo bar".match(/\w+/)[0]`:     "foo",
		`"a1b2c3".replace(/\d/g, "#")`:  "a#b#c#",
	}
	for src, want := range cases {
		i := newInterp(t)
		if got := evalStr(t, i, src); got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestErrorBuiltins(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		try {
			null.foo;
		} catch (e) {
			e.name;
		}
	`)
	if got != "TypeError" {
		t.Fatalf("got %q, want %q", got, "TypeError")
	}
}

func TestDateBasic(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `new Date(2024, 0, 15).getFullYear()`)
	if got != "2024" {
		t.Fatalf("got %q, want %q", got, "2024")
	}
}

func TestTextEncoderDecoderRoundTrip(t *testing.T) {
	i := newInterp(t)
	got := evalStr(t, i, `
		var enc = new TextEncoder();
		var bytes = enc.encode("hi");
		var dec = new TextDecoder();
		dec.decode(bytes);
	`)
	if got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}
