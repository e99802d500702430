package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installNumber wires the Number constructor, its static methods/constants,
// and Number.prototype.toFixed/toString from spec.md §4.6.
func installNumber(i *interp.Interp, global *values.Object) {
	ctorVal, ctorObj := newConstructor(i, "Number", i.Store.NumberProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.Num(0), nil
		}
		n, err := terms.ToNumber(s, args[0])
		return values.Num(n), err
	})
	global.SetOwn("Number", ctorVal)

	ctorObj.SetOwn("MAX_SAFE_INTEGER", values.Num(9007199254740991))
	ctorObj.SetOwn("MIN_SAFE_INTEGER", values.Num(-9007199254740991))
	ctorObj.SetOwn("MAX_VALUE", values.Num(math.MaxFloat64))
	ctorObj.SetOwn("MIN_VALUE", values.Num(math.SmallestNonzeroFloat64))
	ctorObj.SetOwn("EPSILON", values.Num(2.220446049250313e-16))
	ctorObj.SetOwn("POSITIVE_INFINITY", values.Num(math.Inf(1)))
	ctorObj.SetOwn("NEGATIVE_INFINITY", values.Num(math.Inf(-1)))
	ctorObj.SetOwn("NaN", values.Num(math.NaN()))

	nativeFunction(i, ctorObj, "isInteger", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Number {
			return values.False, nil
		}
		n := v.NumberVal()
		return values.Bool(!math.IsNaN(n) && !math.IsInf(n, 0) && n == math.Trunc(n)), nil
	})
	nativeFunction(i, ctorObj, "isFinite", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Number {
			return values.False, nil
		}
		n := v.NumberVal()
		return values.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	})
	nativeFunction(i, ctorObj, "isNaN", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		if v.Kind() != values.Number {
			return values.False, nil
		}
		return values.Bool(math.IsNaN(v.NumberVal())), nil
	})
	nativeFunction(i, ctorObj, "parseFloat", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		str, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Num(parseLeadingFloat(str)), nil
	})
	nativeFunction(i, ctorObj, "parseInt", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		str, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		radix := 10
		if len(args) > 1 && !args[1].IsUndefined() {
			n, err := terms.ToNumber(s, args[1])
			if err != nil {
				return values.Value{}, err
			}
			if int(n) != 0 {
				radix = int(n)
			}
		}
		return values.Num(parseLeadingInt(str, radix)), nil
	})

	proto := i.Store.ObjectByID(i.Store.NumberProto)
	nativeFunction(i, proto, "toFixed", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		n, err := terms.ToNumber(s, this)
		if err != nil {
			return values.Value{}, err
		}
		digits := 0
		if len(args) > 0 {
			d, err := terms.ToNumber(s, args[0])
			if err != nil {
				return values.Value{}, err
			}
			digits = int(d)
		}
		return values.Str(strconv.FormatFloat(n, 'f', digits, 64)), nil
	})
	nativeFunction(i, proto, "toString", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		n, err := terms.ToNumber(s, this)
		if err != nil {
			return values.Value{}, err
		}
		radix := 10
		if len(args) > 0 && !args[0].IsUndefined() {
			r, err := terms.ToNumber(s, args[0])
			if err != nil {
				return values.Value{}, err
			}
			radix = int(r)
		}
		if radix == 10 {
			return values.Str(terms.NumberToString(n)), nil
		}
		return values.Str(strconv.FormatInt(int64(n), radix)), nil
	})
	nativeFunction(i, proto, "valueOf", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		n, err := terms.ToNumber(s, this)
		return values.Num(n), err
	})
}

// installBoolean wires Boolean.prototype.toString/valueOf; no global
// Boolean constructor is installed, so these are reached only through
// property lookups on boolean primitives.
func installBoolean(i *interp.Interp) {
	proto := i.Store.ObjectByID(i.Store.BooleanProto)
	nativeFunction(i, proto, "toString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if this.Kind() != values.Boolean || !this.BoolVal() {
			return values.Str("false"), nil
		}
		return values.Str("true"), nil
	})
	nativeFunction(i, proto, "valueOf", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return this, nil
	})
}

// parseLeadingFloat implements Number.parseFloat's "parse as much of a
// leading numeric literal as possible, NaN if none" semantics, unlike
// terms.ToNumber's stricter whole-string coercion.
func parseLeadingFloat(s string) float64 {
	t := strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
	for end < len(t) {
		c := t[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == '+' || c == '-') && (end == 0 || t[end-1] == 'e' || t[end-1] == 'E'):
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			goto done
		}
		end++
	}
done:
	if !seenDigit {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(t[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// parseLeadingInt implements Number.parseInt's leading-digit-run parse in
// the given radix (2-36), auto-detecting a 0x prefix for radix 16/0.
func parseLeadingInt(s string, radix int) float64 {
	t := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	} else if strings.HasPrefix(t, "+") {
		t = t[1:]
	}
	if (radix == 16 || radix == 0) && (strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X")) {
		t = t[2:]
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	end := 0
	for end < len(t) {
		_, ok := digitVal(t[end], radix)
		if !ok {
			break
		}
		end++
	}
	if end == 0 {
		return math.NaN()
	}
	n, err := strconv.ParseInt(t[:end], radix, 64)
	if err != nil {
		return math.NaN()
	}
	if neg {
		return -float64(n)
	}
	return float64(n)
}

func digitVal(c byte, radix int) (int, bool) {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return 0, false
	}
	if v >= radix {
		return 0, false
	}
	return v, true
}
