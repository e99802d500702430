package builtins

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installTextCodec wires TextEncoder/TextDecoder and a minimal Uint8Array
// (spec.md §4.6), promoting x/text/encoding/unicode from the teacher's
// indirect test-tooling dependency to a direct import: its UTF-8 decoder
// is exactly the "bytes -> string" operation TextDecoder.decode needs
// (unicode.UTF8 keeps a leading byte order mark rather than stripping it), so this engine uses it instead of a hand-rolled byte loop (see
// DESIGN.md's Domain Stack entry). Encoding a JS string to UTF-8 bytes
// needs no transform of its own — Go strings are already UTF-8 — so
// TextEncoder.encode uses []byte(str) directly.
func installTextCodec(i *interp.Interp, global *values.Object) {
	utf8Decoder := unicode.UTF8.NewDecoder()

	encoderProto := i.Store.New(values.ClassPlain, i.Store.ObjectProto).Ref()
	encoderCtor, _ := newConstructor(i, "TextEncoder", encoderProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := s.New(values.ClassPlain, encoderProto)
		s.Object(v).SetOwn("encoding", values.Str("utf-8"))
		return v, nil
	})
	global.SetOwn("TextEncoder", encoderCtor)
	nativeFunction(i, i.Store.ObjectByID(encoderProto), "encode", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		str, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return newUint8ArrayFromBytes(i, []byte(str)), nil
	})

	decoderProto := i.Store.New(values.ClassPlain, i.Store.ObjectProto).Ref()
	decoderCtor, _ := newConstructor(i, "TextDecoder", decoderProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		v := s.New(values.ClassPlain, decoderProto)
		s.Object(v).SetOwn("encoding", values.Str("utf-8"))
		return v, nil
	})
	global.SetOwn("TextDecoder", decoderCtor)
	nativeFunction(i, i.Store.ObjectByID(decoderProto), "decode", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		bytes := bytesFromUint8Array(s, arg(args, 0))
		out, _, err := transform.Bytes(utf8Decoder, bytes)
		if err != nil {
			return values.Value{}, errTypeErr("TextDecoder.decode: %s", err.Error())
		}
		return values.Str(string(out)), nil
	})

	installUint8Array(i, global)
}

// installUint8Array wires spec.md §4.6's "minimal byte-array view": a
// ClassArray-backed object whose elements are always clamped to a single
// byte, constructed either from a length or from an existing array/
// Uint8Array of byte values.
func installUint8Array(i *interp.Interp, global *values.Object) {
	ctorVal, _ := newConstructor(i, "Uint8Array", i.Store.ArrayProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return i.NewArray(nil), nil
		}
		if args[0].Kind() == values.Number {
			return i.NewArray(make([]values.Value, int(args[0].NumberVal()))), nil
		}
		if args[0].Kind() == values.Obj && s.Object(args[0]).Class == values.ClassArray {
			src := elements(s, args[0])
			out := make([]values.Value, len(src))
			for idx, el := range src {
				n, err := terms.ToNumber(s, el)
				if err != nil {
					return values.Value{}, err
				}
				out[idx] = values.Num(float64(byte(int64(n))))
			}
			return i.NewArray(out), nil
		}
		return i.NewArray(nil), nil
	})
	global.SetOwn("Uint8Array", ctorVal)
}

// newUint8ArrayFromBytes builds a byte-array-view value directly from a
// []byte, used by TextEncoder.encode.
func newUint8ArrayFromBytes(i *interp.Interp, data []byte) values.Value {
	items := make([]values.Value, len(data))
	for idx, b := range data {
		items[idx] = values.Num(float64(b))
	}
	return i.NewArray(items)
}

func bytesFromUint8Array(s *values.Store, v values.Value) []byte {
	if v.Kind() != values.Obj {
		return nil
	}
	items := elements(s, v)
	out := make([]byte, len(items))
	for idx, el := range items {
		out[idx] = byte(int64(el.NumberVal()))
	}
	return out
}
