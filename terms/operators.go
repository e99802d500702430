package terms

import (
	"math"
	"strings"

	"github.com/cwbudde/go-ecma/values"
)

// StrictEquals implements `===`: "same type and same value with NaN≠NaN
// and ±0 equal" (spec.md §4.5).
func StrictEquals(s *values.Store, a, b values.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case values.Undefined, values.Null:
		return true
	case values.Boolean:
		return a.BoolVal() == b.BoolVal()
	case values.Number:
		an, bn := a.NumberVal(), b.NumberVal()
		if math.IsNaN(an) || math.IsNaN(bn) {
			return false
		}
		return an == bn // Go's == already treats +0 == -0 as true
	case values.String:
		return a.StringVal() == b.StringVal()
	case values.Obj:
		return a.Ref() == b.Ref() // reference identity
	default:
		return false
	}
}

// LooseEquals implements `==`'s "standard cross-type coercion table" from
// spec.md §4.5: null==undefined, number<->string by ToNumber, boolean->
// number, object->primitive via valueOf/toString, then re-compare.
func LooseEquals(s *values.Store, a, b values.Value) (bool, error) {
	if a.Kind() == b.Kind() {
		return StrictEquals(s, a, b), nil
	}

	if a.IsNullish() && b.IsNullish() {
		return true, nil
	}
	if a.IsNullish() || b.IsNullish() {
		return false, nil // null/undefined compare equal only to each other
	}

	switch {
	case a.Kind() == values.Number && b.Kind() == values.String:
		bn, err := ToNumber(s, b)
		if err != nil {
			return false, err
		}
		return numEquals(a.NumberVal(), bn), nil
	case a.Kind() == values.String && b.Kind() == values.Number:
		an, err := ToNumber(s, a)
		if err != nil {
			return false, err
		}
		return numEquals(an, b.NumberVal()), nil
	case a.Kind() == values.Boolean:
		an, err := ToNumber(s, a)
		if err != nil {
			return false, err
		}
		return LooseEquals(s, values.Num(an), b)
	case b.Kind() == values.Boolean:
		bn, err := ToNumber(s, b)
		if err != nil {
			return false, err
		}
		return LooseEquals(s, a, values.Num(bn))
	case a.Kind() == values.Obj && (b.Kind() == values.Number || b.Kind() == values.String):
		aPrim, err := ToPrimitive(s, a, "default")
		if err != nil {
			return false, err
		}
		return LooseEquals(s, aPrim, b)
	case b.Kind() == values.Obj && (a.Kind() == values.Number || a.Kind() == values.String):
		bPrim, err := ToPrimitive(s, b, "default")
		if err != nil {
			return false, err
		}
		return LooseEquals(s, a, bPrim)
	default:
		return false, nil
	}
}

func numEquals(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a == b
}

// Compare implements the abstract relational comparison behind `<` `<=`
// `>` `>=` (spec.md §4.5: "two strings use lexicographic code-unit
// comparison, otherwise ToNumber on both sides; NaN makes all four return
// false"). It returns -1/0/1 and ok=false when either side is NaN, so
// callers can special-case "always false" without re-checking NaN
// themselves.
func Compare(s *values.Store, a, b values.Value) (cmp int, ok bool, err error) {
	if a.Kind() == values.String && b.Kind() == values.String {
		return strings.Compare(a.StringVal(), b.StringVal()), true, nil
	}
	an, err := ToNumber(s, a)
	if err != nil {
		return 0, false, err
	}
	bn, err := ToNumber(s, b)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(an) || math.IsNaN(bn) {
		return 0, false, nil
	}
	switch {
	case an < bn:
		return -1, true, nil
	case an > bn:
		return 1, true, nil
	default:
		return 0, true, nil
	}
}

// Add implements the `+` operator's dual nature: "on any string yields
// string concatenation; otherwise numeric" (spec.md §4.5), by first taking
// both ToPrimitive and only falling to concatenation if either primitive is
// a string.
func Add(s *values.Store, a, b values.Value) (values.Value, error) {
	aPrim, err := ToPrimitive(s, a, "default")
	if err != nil {
		return values.Value{}, err
	}
	bPrim, err := ToPrimitive(s, b, "default")
	if err != nil {
		return values.Value{}, err
	}
	if aPrim.Kind() == values.String || bPrim.Kind() == values.String {
		as, err := ToString(s, aPrim)
		if err != nil {
			return values.Value{}, err
		}
		bs, err := ToString(s, bPrim)
		if err != nil {
			return values.Value{}, err
		}
		return values.Str(as + bs), nil
	}
	an, err := ToNumber(s, aPrim)
	if err != nil {
		return values.Value{}, err
	}
	bn, err := ToNumber(s, bPrim)
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(an + bn), nil
}

// Sub/Mul/Div/Mod/Pow implement the remaining numeric binary operators;
// `/` by zero follows IEEE-754 (±Inf or NaN) as spec.md §4.5 requires, which
// Go's float64 division already does natively.
func Sub(s *values.Store, a, b values.Value) (values.Value, error) {
	return numOp(s, a, b, func(x, y float64) float64 { return x - y })
}

func Mul(s *values.Store, a, b values.Value) (values.Value, error) {
	return numOp(s, a, b, func(x, y float64) float64 { return x * y })
}

func Div(s *values.Store, a, b values.Value) (values.Value, error) {
	return numOp(s, a, b, func(x, y float64) float64 { return x / y })
}

func Mod(s *values.Store, a, b values.Value) (values.Value, error) {
	return numOp(s, a, b, math.Mod)
}

func Pow(s *values.Store, a, b values.Value) (values.Value, error) {
	return numOp(s, a, b, math.Pow)
}

func numOp(s *values.Store, a, b values.Value, f func(x, y float64) float64) (values.Value, error) {
	an, err := ToNumber(s, a)
	if err != nil {
		return values.Value{}, err
	}
	bn, err := ToNumber(s, b)
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(f(an, bn)), nil
}

// BitAnd/BitOr/BitXor/Shl/Shr/Ushr implement the bitwise family: "first
// ToInt32, then apply, then return signed 32-bit integer (>>> returns
// unsigned 32-bit)" (spec.md §4.5).
func BitAnd(s *values.Store, a, b values.Value) (values.Value, error) {
	return int32Op(s, a, b, func(x, y int32) int32 { return x & y })
}

func BitOr(s *values.Store, a, b values.Value) (values.Value, error) {
	return int32Op(s, a, b, func(x, y int32) int32 { return x | y })
}

func BitXor(s *values.Store, a, b values.Value) (values.Value, error) {
	return int32Op(s, a, b, func(x, y int32) int32 { return x ^ y })
}

func Shl(s *values.Store, a, b values.Value) (values.Value, error) {
	x, y, err := int32AndShiftCount(s, a, b)
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(float64(x << y)), nil
}

func Shr(s *values.Store, a, b values.Value) (values.Value, error) {
	x, y, err := int32AndShiftCount(s, a, b)
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(float64(x >> y)), nil
}

func Ushr(s *values.Store, a, b values.Value) (values.Value, error) {
	x, err := ToUint32(s, a)
	if err != nil {
		return values.Value{}, err
	}
	yn, err := ToUint32(s, b)
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(float64(x >> (yn & 31))), nil
}

func int32Op(s *values.Store, a, b values.Value, f func(x, y int32) int32) (values.Value, error) {
	x, err := ToInt32(s, a)
	if err != nil {
		return values.Value{}, err
	}
	y, err := ToInt32(s, b)
	if err != nil {
		return values.Value{}, err
	}
	return values.Num(float64(f(x, y))), nil
}

func int32AndShiftCount(s *values.Store, a, b values.Value) (int32, uint32, error) {
	x, err := ToInt32(s, a)
	if err != nil {
		return 0, 0, err
	}
	yu, err := ToUint32(s, b)
	if err != nil {
		return 0, 0, err
	}
	return x, yu & 31, nil
}
