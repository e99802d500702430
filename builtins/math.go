package builtins

import (
	"math"
	"math/rand"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installMath wires the Math object spec.md §4.6 names: constants PI/E and
// the abs/floor/ceil/round/trunc/sqrt/pow/exp/log/min/max/random/sign
// methods, each a thin terms.ToNumber-coerced wrapper over math.*.
func installMath(i *interp.Interp, global *values.Object) {
	mathObj := i.Store.Object(i.NewPlainObject())
	global.SetOwn("Math", values.FromRef(mathObj.ID))

	mathObj.SetOwn("PI", values.Num(math.Pi))
	mathObj.SetOwn("E", values.Num(math.E))

	unary := func(name string, fn func(float64) float64) {
		nativeFunction(i, mathObj, name, 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			n, err := terms.ToNumber(s, arg(args, 0))
			if err != nil {
				return values.Value{}, err
			}
			return values.Num(fn(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", jsRound)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("exp", math.Exp)
	unary("log", math.Log)
	unary("sign", jsSign)

	nativeFunction(i, mathObj, "pow", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		base, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		exp, err := terms.ToNumber(s, arg(args, 1))
		if err != nil {
			return values.Value{}, err
		}
		return values.Num(math.Pow(base, exp)), nil
	})
	nativeFunction(i, mathObj, "min", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return reduceNumbers(s, args, math.Inf(1), math.Min)
	})
	nativeFunction(i, mathObj, "max", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return reduceNumbers(s, args, math.Inf(-1), math.Max)
	})
	nativeFunction(i, mathObj, "random", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return values.Num(rand.Float64()), nil
	})
}

func reduceNumbers(s *values.Store, args []values.Value, seed float64, combine func(a, b float64) float64) (values.Value, error) {
	acc := seed
	for _, a := range args {
		n, err := terms.ToNumber(s, a)
		if err != nil {
			return values.Value{}, err
		}
		if math.IsNaN(n) {
			return values.Num(math.NaN()), nil
		}
		acc = combine(acc, n)
	}
	return values.Num(acc), nil
}

// jsRound implements Math.round's half-up-toward-+Infinity tie-break,
// distinct from Go's math.Round (which rounds half away from zero).
func jsRound(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n
	}
	return math.Floor(n + 0.5)
}

func jsSign(n float64) float64 {
	switch {
	case math.IsNaN(n):
		return n
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return n // preserves -0/+0
	}
}
