package builtins

import (
	"sort"
	"strconv"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installArray wires the Array constructor/statics and Array.prototype's
// full method list from spec.md §4.6, plus the supplemented
// Array.prototype.at noted in SPEC_FULL.md. Callback-taking methods
// (map/filter/...) are registered as closures over i so they can call
// back into script via i.Call — values.NativeFunc itself carries no
// *interp.Interp, so every such method lives here rather than as a
// standalone package-level function.
func installArray(i *interp.Interp, global *values.Object) {
	ctorVal, ctorObj := newConstructor(i, "Array", i.Store.ArrayProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 1 && args[0].Kind() == values.Number {
			n := int(args[0].NumberVal())
			return i.NewArray(make([]values.Value, n)), nil
		}
		return i.NewArray(append([]values.Value{}, args...)), nil
	})
	global.SetOwn("Array", ctorVal)

	nativeFunction(i, ctorObj, "isArray", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := arg(args, 0)
		return values.Bool(v.Kind() == values.Obj && s.Object(v).Class == values.ClassArray), nil
	})
	nativeFunction(i, ctorObj, "of", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return i.NewArray(append([]values.Value{}, args...)), nil
	})
	nativeFunction(i, ctorObj, "from", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		src := arg(args, 0)
		items := arrayLikeItems(s, src)
		mapFn := arg(args, 1)
		if mapFn.Kind() == values.Obj && s.Object(mapFn).Class == values.ClassFunction {
			out := make([]values.Value, len(items))
			for idx, el := range items {
				v, err := i.Call(mapFn, values.UndefinedValue, []values.Value{el, values.Num(float64(idx))})
				if err != nil {
					return values.Value{}, err
				}
				out[idx] = v
			}
			return i.NewArray(out), nil
		}
		return i.NewArray(items), nil
	})

	proto := i.Store.ObjectByID(i.Store.ArrayProto)

	nativeFunction(i, proto, "push", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		obj := s.Object(this)
		for _, a := range args {
			obj.SetOwn(strconv.Itoa(obj.ArrayLength), a)
			obj.ArrayLength++
		}
		return values.Num(float64(obj.ArrayLength)), nil
	})
	nativeFunction(i, proto, "pop", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		obj := s.Object(this)
		if obj.ArrayLength == 0 {
			return values.UndefinedValue, nil
		}
		obj.ArrayLength--
		key := strconv.Itoa(obj.ArrayLength)
		p, _ := obj.GetOwn(key)
		obj.Delete(key)
		return p.Value, nil
	})
	nativeFunction(i, proto, "shift", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		if len(items) == 0 {
			return values.UndefinedValue, nil
		}
		first := items[0]
		setElements(s, this, items[1:])
		return first, nil
	})
	nativeFunction(i, proto, "unshift", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := append(append([]values.Value{}, args...), elements(s, this)...)
		setElements(s, this, items)
		return values.Num(float64(len(items))), nil
	})
	nativeFunction(i, proto, "slice", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		start, end := sliceBounds(len(items), arg(args, 0), arg(args, 1))
		return i.NewArray(append([]values.Value{}, items[start:end]...)), nil
	})
	nativeFunction(i, proto, "splice", 2, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		n := len(items)
		start := normalizeIndex(n, arg(args, 0))
		delCount := n - start
		if len(args) > 1 {
			dn, _ := terms.ToNumber(s, args[1])
			delCount = clamp(int(dn), 0, n-start)
		}
		removed := append([]values.Value{}, items[start:start+delCount]...)
		var inserted []values.Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		rest := append([]values.Value{}, items[:start]...)
		rest = append(rest, inserted...)
		rest = append(rest, items[start+delCount:]...)
		setElements(s, this, rest)
		return i.NewArray(removed), nil
	})
	nativeFunction(i, proto, "concat", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		out := append([]values.Value{}, elements(s, this)...)
		for _, a := range args {
			if a.Kind() == values.Obj && s.Object(a).Class == values.ClassArray {
				out = append(out, elements(s, a)...)
			} else {
				out = append(out, a)
			}
		}
		return i.NewArray(out), nil
	})
	nativeFunction(i, proto, "join", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			var err error
			sep, err = terms.ToString(s, args[0])
			if err != nil {
				return values.Value{}, err
			}
		}
		items := elements(s, this)
		parts := make([]string, len(items))
		for idx, el := range items {
			if el.IsNullish() {
				continue
			}
			str, err := terms.ToString(s, el)
			if err != nil {
				return values.Value{}, err
			}
			parts[idx] = str
		}
		out := ""
		for idx, p := range parts {
			if idx > 0 {
				out += sep
			}
			out += p
		}
		return values.Str(out), nil
	})
	nativeFunction(i, proto, "indexOf", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		target := arg(args, 0)
		for idx, el := range items {
			if terms.StrictEquals(s, el, target) {
				return values.Num(float64(idx)), nil
			}
		}
		return values.Num(-1), nil
	})
	nativeFunction(i, proto, "lastIndexOf", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		target := arg(args, 0)
		for idx := len(items) - 1; idx >= 0; idx-- {
			if terms.StrictEquals(s, items[idx], target) {
				return values.Num(float64(idx)), nil
			}
		}
		return values.Num(-1), nil
	})
	nativeFunction(i, proto, "includes", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		target := arg(args, 0)
		for _, el := range items {
			if sameValueZero(el, target) {
				return values.True, nil
			}
		}
		return values.False, nil
	})
	nativeFunction(i, proto, "at", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		idx := int(n)
		if idx < 0 {
			idx += len(items)
		}
		if idx < 0 || idx >= len(items) {
			return values.UndefinedValue, nil
		}
		return items[idx], nil
	})
	nativeFunction(i, proto, "reverse", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		for l, r := 0, len(items)-1; l < r; l, r = l+1, r-1 {
			items[l], items[r] = items[r], items[l]
		}
		setElements(s, this, items)
		return this, nil
	})
	nativeFunction(i, proto, "flat", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		depth := 1
		if len(args) > 0 {
			n, err := terms.ToNumber(s, args[0])
			if err != nil {
				return values.Value{}, err
			}
			depth = int(n)
		}
		return i.NewArray(flatten(s, elements(s, this), depth)), nil
	})

	nativeFunction(i, proto, "sort", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		items := elements(s, this)
		cmp := arg(args, 0)
		var sortErr error
		sort.SliceStable(items, func(a, b int) bool {
			if sortErr != nil {
				return false
			}
			av, bv := items[a], items[b]
			if av.IsUndefined() {
				return false
			}
			if bv.IsUndefined() {
				return true
			}
			if cmp.Kind() == values.Obj && s.Object(cmp).Class == values.ClassFunction {
				result, err := i.Call(cmp, values.UndefinedValue, []values.Value{av, bv})
				if err != nil {
					sortErr = err
					return false
				}
				n, err := terms.ToNumber(s, result)
				if err != nil {
					sortErr = err
					return false
				}
				return n < 0
			}
			as, _ := terms.ToString(s, av)
			bs, _ := terms.ToString(s, bv)
			return as < bs
		})
		if sortErr != nil {
			return values.Value{}, sortErr
		}
		setElements(s, this, items)
		return this, nil
	})

	nativeFunction(i, proto, "forEach", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		for idx, el := range elements(s, this) {
			if _, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this}); err != nil {
				return values.Value{}, err
			}
		}
		return values.UndefinedValue, nil
	})
	nativeFunction(i, proto, "map", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		items := elements(s, this)
		out := make([]values.Value, len(items))
		for idx, el := range items {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			out[idx] = v
		}
		return i.NewArray(out), nil
	})
	nativeFunction(i, proto, "filter", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		out := make([]values.Value, 0)
		for idx, el := range elements(s, this) {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			if terms.Truthy(v) {
				out = append(out, el)
			}
		}
		return i.NewArray(out), nil
	})
	nativeFunction(i, proto, "find", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		for idx, el := range elements(s, this) {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			if terms.Truthy(v) {
				return el, nil
			}
		}
		return values.UndefinedValue, nil
	})
	nativeFunction(i, proto, "findIndex", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		for idx, el := range elements(s, this) {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			if terms.Truthy(v) {
				return values.Num(float64(idx)), nil
			}
		}
		return values.Num(-1), nil
	})
	nativeFunction(i, proto, "some", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		for idx, el := range elements(s, this) {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			if terms.Truthy(v) {
				return values.True, nil
			}
		}
		return values.False, nil
	})
	nativeFunction(i, proto, "every", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		for idx, el := range elements(s, this) {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			if !terms.Truthy(v) {
				return values.False, nil
			}
		}
		return values.True, nil
	})
	nativeFunction(i, proto, "reduce", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return reduceArray(i, s, this, args, false)
	})
	nativeFunction(i, proto, "reduceRight", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return reduceArray(i, s, this, args, true)
	})
	nativeFunction(i, proto, "flatMap", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		fn := arg(args, 0)
		thisArg := arg(args, 1)
		var out []values.Value
		for idx, el := range elements(s, this) {
			v, err := i.Call(fn, thisArg, []values.Value{el, values.Num(float64(idx)), this})
			if err != nil {
				return values.Value{}, err
			}
			if v.Kind() == values.Obj && s.Object(v).Class == values.ClassArray {
				out = append(out, elements(s, v)...)
			} else {
				out = append(out, v)
			}
		}
		return i.NewArray(out), nil
	})

	nativeFunction(i, proto, "toString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		str, err := terms.ToString(s, this)
		return values.Str(str), err
	})
}

func reduceArray(i *interp.Interp, s *values.Store, this values.Value, args []values.Value, fromRight bool) (values.Value, error) {
	fn := arg(args, 0)
	items := elements(s, this)
	if fromRight {
		reversed := make([]values.Value, len(items))
		for idx, el := range items {
			reversed[len(items)-1-idx] = el
		}
		items = reversed
	}

	var acc values.Value
	start := 0
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(items) == 0 {
			return values.Value{}, typeErrNoInitial()
		}
		acc = items[0]
		start = 1
	}
	for idx := start; idx < len(items); idx++ {
		realIdx := idx
		if fromRight {
			realIdx = len(items) - 1 - idx
		}
		v, err := i.Call(fn, values.UndefinedValue, []values.Value{acc, items[idx], values.Num(float64(realIdx)), this})
		if err != nil {
			return values.Value{}, err
		}
		acc = v
	}
	return acc, nil
}

func typeErrNoInitial() error {
	return errTypeErr("Reduce of empty array with no initial value")
}

// elements reads an array (or array-like) object's items 0..ArrayLength-1.
func elements(s *values.Store, v values.Value) []values.Value {
	obj := s.Object(v)
	n := obj.ArrayLength
	out := make([]values.Value, n)
	for idx := range out {
		p, ok := obj.GetOwn(strconv.Itoa(idx))
		if ok {
			out[idx] = p.Value
		} else {
			out[idx] = values.UndefinedValue
		}
	}
	return out
}

// setElements rewrites this's backing array object to hold exactly items,
// trimming any now-stale indices past the new length.
func setElements(s *values.Store, v values.Value, items []values.Value) {
	obj := s.Object(v)
	for idx := len(items); idx < obj.ArrayLength; idx++ {
		obj.Delete(strconv.Itoa(idx))
	}
	for idx, el := range items {
		obj.SetOwn(strconv.Itoa(idx), el)
	}
	obj.ArrayLength = len(items)
}

// arrayLikeItems reads Array.from's source: a real array, a string (split
// into its runes), or any object exposing length and indexed properties.
func arrayLikeItems(s *values.Store, v values.Value) []values.Value {
	if v.Kind() == values.String {
		runes := []rune(v.StringVal())
		out := make([]values.Value, len(runes))
		for idx, r := range runes {
			out[idx] = values.Str(string(r))
		}
		return out
	}
	if v.Kind() != values.Obj {
		return nil
	}
	obj := s.Object(v)
	if obj.Class == values.ClassArray {
		return elements(s, v)
	}
	lenProp, ok := obj.GetOwn("length")
	if !ok {
		return nil
	}
	n := int(lenProp.Value.NumberVal())
	out := make([]values.Value, n)
	for idx := range out {
		val, _ := s.Get(v, strconv.Itoa(idx))
		out[idx] = val
	}
	return out
}

// sliceBounds resolves slice/substring-style start/end arguments (which may
// be negative, omitted, or past the collection's length) into a clamped
// [start, end) pair.
func sliceBounds(n int, startArg, endArg values.Value) (int, int) {
	start := 0
	if !startArg.IsUndefined() {
		start = normalizeIndex(n, startArg)
	}
	end := n
	if !endArg.IsUndefined() {
		end = normalizeIndex(n, endArg)
	}
	if end < start {
		end = start
	}
	return start, end
}

func normalizeIndex(n int, v values.Value) int {
	if v.Kind() != values.Number {
		return 0
	}
	idx := int(v.NumberVal())
	if idx < 0 {
		idx += n
	}
	return clamp(idx, 0, n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func flatten(s *values.Store, items []values.Value, depth int) []values.Value {
	var out []values.Value
	for _, el := range items {
		if depth > 0 && el.Kind() == values.Obj && s.Object(el).Class == values.ClassArray {
			out = append(out, flatten(s, elements(s, el), depth-1)...)
		} else {
			out = append(out, el)
		}
	}
	return out
}

// sameValueZero is SameValue except +0 equals -0 (Array.prototype.includes'
// comparison algorithm, distinct from indexOf's strict-equals).
func sameValueZero(a, b values.Value) bool {
	if a.Kind() == values.Number && b.Kind() == values.Number {
		an, bn := a.NumberVal(), b.NumberVal()
		if an != an && bn != bn {
			return true
		}
		return an == bn
	}
	return sameValue(a, b)
}
