package builtins

import (
	"math"
	"strings"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installString wires the String constructor and String.prototype's full
// method list from spec.md §4.6 plus the supplemented String.prototype.at.
// Every method coerces `this` to a Go string up front via thisString, since
// this engine never allocates a wrapper object for primitive strings
// (interp/helpers.go's getProperty dispatches "foo".method() straight to
// this prototype without boxing).
func installString(i *interp.Interp, global *values.Object) {
	ctorVal, ctorObj := newConstructor(i, "String", i.Store.StringProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.Str(""), nil
		}
		str, err := terms.ToString(s, args[0])
		return values.Str(str), err
	})
	global.SetOwn("String", ctorVal)
	nativeFunction(i, ctorObj, "fromCharCode", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		var sb strings.Builder
		for _, a := range args {
			n, err := terms.ToNumber(s, a)
			if err != nil {
				return values.Value{}, err
			}
			sb.WriteRune(rune(int(n)))
		}
		return values.Str(sb.String()), nil
	})

	proto := i.Store.ObjectByID(i.Store.StringProto)

	method := func(name string, length int, fn func(s *values.Store, str string, args []values.Value) (values.Value, error)) {
		nativeFunction(i, proto, name, length, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			str, err := thisString(s, this)
			if err != nil {
				return values.Value{}, err
			}
			return fn(s, str, args)
		})
	}

	method("charAt", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		idx := int(n)
		if idx < 0 || idx >= len(r) {
			return values.Str(""), nil
		}
		return values.Str(string(r[idx])), nil
	})
	method("charCodeAt", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		idx := int(n)
		if idx < 0 || idx >= len(r) {
			return values.Num(math.NaN()), nil
		}
		return values.Num(float64(r[idx])), nil
	})
	method("codePointAt", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		idx := int(n)
		if idx < 0 || idx >= len(r) {
			return values.UndefinedValue, nil
		}
		return values.Num(float64(r[idx])), nil
	})
	method("indexOf", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		sub, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Num(float64(runeIndex(str, strings.Index(str, sub)))), nil
	})
	method("lastIndexOf", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		sub, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Num(float64(runeIndex(str, strings.LastIndex(str, sub)))), nil
	})
	method("includes", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		sub, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Bool(strings.Contains(str, sub)), nil
	})
	method("startsWith", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		sub, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Bool(strings.HasPrefix(str, sub)), nil
	})
	method("endsWith", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		sub, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Bool(strings.HasSuffix(str, sub)), nil
	})
	method("slice", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		start, end := sliceBounds(len(r), arg(args, 0), arg(args, 1))
		return values.Str(string(r[start:end])), nil
	})
	method("substring", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		n := len(r)
		start := clampNonNeg(s, arg(args, 0), n)
		end := n
		if !arg(args, 1).IsUndefined() {
			end = clampNonNeg(s, arg(args, 1), n)
		}
		if start > end {
			start, end = end, start
		}
		return values.Str(string(r[start:end])), nil
	})
	method("substr", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		n := len(r)
		start := normalizeIndex(n, arg(args, 0))
		length := n - start
		if !arg(args, 1).IsUndefined() {
			ln, err := terms.ToNumber(s, args[1])
			if err != nil {
				return values.Value{}, err
			}
			length = clamp(int(ln), 0, n-start)
		}
		return values.Str(string(r[start : start+length])), nil
	})
	method("split", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		if len(args) == 0 || args[0].IsUndefined() {
			return i.NewArray([]values.Value{values.Str(str)}), nil
		}
		sep, err := terms.ToString(s, args[0])
		if err != nil {
			return values.Value{}, err
		}
		var parts []string
		if sep == "" {
			for _, r := range str {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(str, sep)
		}
		out := make([]values.Value, len(parts))
		for idx, p := range parts {
			out[idx] = values.Str(p)
		}
		return i.NewArray(out), nil
	})
	method("replace", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return replaceString(i, s, str, args, false)
	})
	method("replaceAll", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return replaceString(i, s, str, args, true)
	})
	method("toUpperCase", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(strings.ToUpper(str)), nil
	})
	method("toLowerCase", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(strings.ToLower(str)), nil
	})
	method("trim", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(strings.TrimSpace(str)), nil
	})
	method("trimStart", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(strings.TrimLeft(str, " \t\n\r\v\f")), nil
	})
	method("trimEnd", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(strings.TrimRight(str, " \t\n\r\v\f")), nil
	})
	method("repeat", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		if n < 0 {
			return values.Value{}, errRangeErr("Invalid count value")
		}
		return values.Str(strings.Repeat(str, int(n))), nil
	})
	method("padStart", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return padString(s, str, args, true)
	})
	method("padEnd", 2, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return padString(s, str, args, false)
	})
	method("concat", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		sb := strings.Builder{}
		sb.WriteString(str)
		for _, a := range args {
			part, err := terms.ToString(s, a)
			if err != nil {
				return values.Value{}, err
			}
			sb.WriteString(part)
		}
		return values.Str(sb.String()), nil
	})
	method("at", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		r := []rune(str)
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		idx := int(n)
		if idx < 0 {
			idx += len(r)
		}
		if idx < 0 || idx >= len(r) {
			return values.UndefinedValue, nil
		}
		return values.Str(string(r[idx])), nil
	})
	method("match", 1, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return matchString(i, s, str, arg(args, 0))
	})
	method("toString", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(str), nil
	})
	method("valueOf", 0, func(s *values.Store, str string, args []values.Value) (values.Value, error) {
		return values.Str(str), nil
	})
}

func thisString(s *values.Store, this values.Value) (string, error) {
	return terms.ToString(s, this)
}

// runeIndex converts a byte offset from strings.Index/LastIndex (-1 for "not
// found") into a rune offset, since this engine's string indices are always
// counted in runes (spec.md §4.6's charAt/slice family).
func runeIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(s[:byteIdx]))
}

func clampNonNeg(s *values.Store, v values.Value, n int) int {
	num, err := terms.ToNumber(s, v)
	if err != nil || num != num {
		return 0
	}
	return clamp(int(num), 0, n)
}

func padString(s *values.Store, str string, args []values.Value, start bool) (values.Value, error) {
	targetLen, err := terms.ToNumber(s, arg(args, 0))
	if err != nil {
		return values.Value{}, err
	}
	pad := " "
	if len(args) > 1 && !args[1].IsUndefined() {
		pad, err = terms.ToString(s, args[1])
		if err != nil {
			return values.Value{}, err
		}
	}
	r := []rune(str)
	need := int(targetLen) - len(r)
	if need <= 0 || pad == "" {
		return values.Str(str), nil
	}
	padRunes := []rune(strings.Repeat(pad, (need/len([]rune(pad)))+1))[:need]
	if start {
		return values.Str(string(padRunes) + str), nil
	}
	return values.Str(str + string(padRunes)), nil
}
