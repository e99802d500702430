package terms

import (
	"math"
	"testing"

	"github.com/cwbudde/go-ecma/values"
)

// ============================================================================
// Truthy Tests
// ============================================================================

func TestTruthy(t *testing.T) {
	s := values.NewStore()
	arr := s.New(values.ClassArray, 0)

	tests := []struct {
		name string
		v    values.Value
		want bool
	}{
		{"undefined", values.UndefinedValue, false},
		{"null", values.NullValue, false},
		{"false", values.False, false},
		{"true", values.True, true},
		{"zero", values.Num(0), false},
		{"negative zero", values.Num(math.Copysign(0, -1)), false},
		{"NaN", values.Num(math.NaN()), false},
		{"nonzero number", values.Num(1), true},
		{"empty string", values.Str(""), false},
		{"nonempty string", values.Str("0"), true},
		{"empty array object", arr, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// ToNumber Tests
// ============================================================================

func TestToNumber(t *testing.T) {
	s := values.NewStore()

	tests := []struct {
		name string
		v    values.Value
		want float64
	}{
		{"undefined is NaN", values.UndefinedValue, math.NaN()},
		{"null is zero", values.NullValue, 0},
		{"true is one", values.True, 1},
		{"false is zero", values.False, 0},
		{"number passes through", values.Num(3.14), 3.14},
		{"trimmed numeric string", values.Str("  42  "), 42},
		{"empty string is zero", values.Str(""), 0},
		{"hex string", values.Str("0x1F"), 31},
		{"garbage string is NaN", values.Str("not a number"), math.NaN()},
		{"Infinity string", values.Str("Infinity"), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNumber(s, tt.v)
			if err != nil {
				t.Fatalf("ToNumber() error = %v", err)
			}
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("ToNumber() = %v, want NaN", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ToNumber() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToNumberArray(t *testing.T) {
	s := values.NewStore()
	arr := s.New(values.ClassArray, 0)
	obj := s.Object(arr)
	obj.ArrayLength = 1
	obj.SetOwn("0", values.Str("42"))

	got, err := ToNumber(s, arr)
	if err != nil {
		t.Fatalf("ToNumber() error = %v", err)
	}
	if got != 42 {
		t.Errorf("ToNumber(single-element array) = %v, want 42", got)
	}
}

// ============================================================================
// ToString Tests
// ============================================================================

func TestNumberToString(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{1, "1"},
		{1.5, "1.5"},
		{-3, "-3"},
	}
	for _, tt := range tests {
		if got := NumberToString(tt.n); got != tt.want {
			t.Errorf("NumberToString(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestToStringArrayJoinsElements(t *testing.T) {
	s := values.NewStore()
	arr := s.New(values.ClassArray, 0)
	obj := s.Object(arr)
	obj.ArrayLength = 3
	obj.SetOwn("0", values.Num(1))
	obj.SetOwn("1", values.NullValue)
	obj.SetOwn("2", values.Str("x"))

	got, err := ToString(s, arr)
	if err != nil {
		t.Fatalf("ToString() error = %v", err)
	}
	if got != "1,,x" {
		t.Errorf("ToString(array) = %q, want %q", got, "1,,x")
	}
}

// ============================================================================
// Equality Tests
// ============================================================================

func TestStrictEquals(t *testing.T) {
	s := values.NewStore()
	obj := s.New(values.ClassPlain, 0)

	tests := []struct {
		name string
		a, b values.Value
		want bool
	}{
		{"NaN !== NaN", values.Num(math.NaN()), values.Num(math.NaN()), false},
		{"0 === -0", values.Num(0), values.Num(math.Copysign(0, -1)), true},
		{"same string", values.Str("a"), values.Str("a"), true},
		{"different type", values.Num(1), values.Str("1"), false},
		{"undefined === undefined", values.UndefinedValue, values.UndefinedValue, true},
		{"null !== undefined", values.NullValue, values.UndefinedValue, false},
		{"same object ref", obj, obj, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrictEquals(s, tt.a, tt.b); got != tt.want {
				t.Errorf("StrictEquals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLooseEquals(t *testing.T) {
	s := values.NewStore()

	tests := []struct {
		name string
		a, b values.Value
		want bool
	}{
		{"null == undefined", values.NullValue, values.UndefinedValue, true},
		{"1 == \"1\"", values.Num(1), values.Str("1"), true},
		{"0 == false", values.Num(0), values.False, true},
		{"1 == true", values.Num(1), values.True, true},
		{"null != 0", values.NullValue, values.Num(0), false},
		{"\"\" == 0", values.Str(""), values.Num(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LooseEquals(s, tt.a, tt.b)
			if err != nil {
				t.Fatalf("LooseEquals() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("LooseEquals() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Compare / Arithmetic Tests
// ============================================================================

func TestCompareStringsUseLexicographicOrder(t *testing.T) {
	s := values.NewStore()
	cmp, ok, err := Compare(s, values.Str("apple"), values.Str("banana"))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !ok || cmp >= 0 {
		t.Errorf("Compare(apple, banana) = %v, %v, want negative, true", cmp, ok)
	}
}

func TestCompareNaNIsNeverOrdered(t *testing.T) {
	s := values.NewStore()
	_, ok, err := Compare(s, values.Num(math.NaN()), values.Num(1))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if ok {
		t.Errorf("Compare() with NaN operand should report ok=false")
	}
}

func TestAddConcatenatesWhenEitherSideIsString(t *testing.T) {
	s := values.NewStore()
	got, err := Add(s, values.Str("n = "), values.Num(1))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got.Kind() != values.String || got.StringVal() != "n = 1" {
		t.Errorf("Add() = %#v, want string %q", got, "n = 1")
	}
}

func TestAddIsNumericOtherwise(t *testing.T) {
	s := values.NewStore()
	got, err := Add(s, values.Num(1), values.Num(2))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got.Kind() != values.Number || got.NumberVal() != 3 {
		t.Errorf("Add() = %#v, want number 3", got)
	}
}

func TestDivByZeroFollowsIEEE754(t *testing.T) {
	s := values.NewStore()
	pos, err := Div(s, values.Num(1), values.Num(0))
	if err != nil {
		t.Fatalf("Div() error = %v", err)
	}
	if !math.IsInf(pos.NumberVal(), 1) {
		t.Errorf("1/0 = %v, want +Inf", pos.NumberVal())
	}

	zero, err := Div(s, values.Num(0), values.Num(0))
	if err != nil {
		t.Fatalf("Div() error = %v", err)
	}
	if !math.IsNaN(zero.NumberVal()) {
		t.Errorf("0/0 = %v, want NaN", zero.NumberVal())
	}
}

func TestBitwiseOperatorsCoerceThroughInt32(t *testing.T) {
	s := values.NewStore()

	or, err := BitOr(s, values.Num(0), values.Num(-1))
	if err != nil {
		t.Fatalf("BitOr() error = %v", err)
	}
	if or.NumberVal() != -1 {
		t.Errorf("0 | -1 = %v, want -1", or.NumberVal())
	}

	ushr, err := Ushr(s, values.Num(-1), values.Num(0))
	if err != nil {
		t.Fatalf("Ushr() error = %v", err)
	}
	if ushr.NumberVal() != 4294967295 {
		t.Errorf("-1 >>> 0 = %v, want 4294967295", ushr.NumberVal())
	}
}

// ============================================================================
// typeof Tests
// ============================================================================

func TestTypeOf(t *testing.T) {
	s := values.NewStore()
	fn := s.New(values.ClassFunction, 0)
	s.Object(fn).Call = &values.Callable{Name: "f"}

	tests := []struct {
		name string
		v    values.Value
		want string
	}{
		{"undefined", values.UndefinedValue, "undefined"},
		{"null is object", values.NullValue, "object"},
		{"boolean", values.True, "boolean"},
		{"number", values.Num(1), "number"},
		{"string", values.Str("x"), "string"},
		{"function", fn, "function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(s, tt.v); got != tt.want {
				t.Errorf("TypeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
