package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-ecma/values"
)

// parseNumberLiteral converts a NumberLit token's raw text into its float64
// value, covering decimal (with optional exponent), 0x/0o/0b integer
// literals, and numeric separators (1_000), following spec.md §4.1's
// number-literal grammar. Malformed input (which the lexer should never
// produce) falls back to NaN rather than panicking.
func parseNumberLiteral(text string) float64 {
	t := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(t)
	switch {
	case strings.HasPrefix(lower, "0x"):
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	case strings.HasPrefix(lower, "0o"):
		n, err := strconv.ParseUint(t[2:], 8, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	case strings.HasPrefix(lower, "0b"):
		n, err := strconv.ParseUint(t[2:], 2, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// newArray allocates a ClassArray object from already-evaluated elements,
// the evaluator's counterpart to the teacher's array-literal construction in
// expressions.go, adapted to spec.md §4.6's Array built-in backing store
// (numeric-string own keys plus an authoritative ArrayLength).
func (i *Interp) newArray(elements []values.Value) values.Value {
	v := i.Store.New(values.ClassArray, i.Store.ArrayProto)
	obj := i.Store.Object(v)
	for idx, el := range elements {
		obj.SetOwn(strconv.Itoa(idx), el)
	}
	obj.ArrayLength = len(elements)
	return v
}

func (i *Interp) newPlainObject() values.Value {
	return i.Store.New(values.ClassPlain, i.Store.ObjectProto)
}

// NewArray and NewPlainObject are newArray/newPlainObject's exported
// counterparts, used by the builtins package (a separate package from
// interp) to allocate arrays/objects the same way the evaluator itself
// does — Array.prototype.map, JSON.parse, and friends all need to build
// fresh engine-native values without duplicating this arena bookkeeping.
func (i *Interp) NewArray(elements []values.Value) values.Value { return i.newArray(elements) }
func (i *Interp) NewPlainObject() values.Value                  { return i.newPlainObject() }

// parseIndex reports whether key is a canonical non-negative array index
// ("0", "1", "23", never "01" or "-1"), per spec.md §4.6's array semantics.
func parseIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	if key == "0" {
		return 0, true
	}
	if key[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// getProperty reads key off v, boxing string/number/boolean primitives
// against their prototype rather than their own (non-existent) property map
// — spec.md §4.6's String/Number/Boolean prototypes back primitive method
// calls like "x".toUpperCase() without ever allocating a wrapper object.
func (i *Interp) getProperty(v values.Value, key string) (values.Value, bool) {
	switch v.Kind() {
	case values.Obj:
		return i.Store.Get(v, key)
	case values.String:
		s := v.StringVal()
		if key == "length" {
			return values.Num(float64(len([]rune(s)))), true
		}
		if idx, ok := parseIndex(key); ok {
			r := []rune(s)
			if idx < len(r) {
				return values.Str(string(r[idx])), true
			}
			return values.UndefinedValue, true
		}
		return i.protoGet(i.Store.StringProto, key)
	case values.Number:
		return i.protoGet(i.Store.NumberProto, key)
	case values.Boolean:
		return i.protoGet(i.Store.BooleanProto, key)
	default:
		return values.UndefinedValue, false
	}
}

func (i *Interp) protoGet(protoID int32, key string) (values.Value, bool) {
	if protoID == 0 {
		return values.UndefinedValue, false
	}
	return i.Store.Get(values.FromRef(protoID), key)
}

// setProperty assigns a property on v, a no-op for non-object v (sloppy-
// mode assignment to a primitive's property is silently dropped, matching
// real JS). Array index/length writes keep ArrayLength authoritative.
func (i *Interp) setProperty(v values.Value, key string, val values.Value) {
	if v.Kind() != values.Obj {
		return
	}
	obj := i.Store.Object(v)
	if obj.Class == values.ClassArray {
		if key == "length" {
			n := int(val.NumberVal())
			for idx := n; idx < obj.ArrayLength; idx++ {
				obj.Delete(strconv.Itoa(idx))
			}
			obj.ArrayLength = n
			return
		}
		if idx, ok := parseIndex(key); ok && idx >= obj.ArrayLength {
			obj.ArrayLength = idx + 1
		}
	}
	obj.SetOwn(key, val)
}

func (i *Interp) deleteProperty(v values.Value, key string) bool {
	if v.Kind() != values.Obj {
		return true
	}
	obj := i.Store.Object(v)
	obj.Delete(key)
	if obj.Class == values.ClassArray {
		if idx, ok := parseIndex(key); ok && idx == obj.ArrayLength-1 {
			obj.ArrayLength = idx
		}
	}
	return true
}
