package builtins

import (
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installErrors wires Error and its four sibling constructors (TypeError,
// RangeError, ReferenceError, SyntaxError — spec.md §4.6), each sharing
// Error.prototype's name/message/toString but linked to its own dedicated
// prototype so `instanceof` and `.name` distinguish them, matching how
// interp.newErrorObject/Store.ErrorProtoFor build the same shape for
// internally-raised errors (see interp/interp.go).
func installErrors(i *interp.Interp, global *values.Object) {
	proto := i.Store.ObjectByID(i.Store.ErrorProto)
	proto.Define("name", values.Str("Error"), true, false)
	proto.Define("message", values.Str(""), true, false)

	nativeFunction(i, proto, "toString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		name := "Error"
		message := ""
		if this.Kind() == values.Obj {
			if p, ok := s.Get(this, "name"); ok {
				if str, err := terms.ToString(s, p); err == nil {
					name = str
				}
			}
			if p, ok := s.Get(this, "message"); ok {
				if str, err := terms.ToString(s, p); err == nil {
					message = str
				}
			}
		}
		if message == "" {
			return values.Str(name), nil
		}
		return values.Str(name + ": " + message), nil
	})

	register := func(jsName string, protoID int32) {
		ctorVal, _ := newConstructor(i, jsName, protoID, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			v := s.New(values.ClassError, protoID)
			obj := s.Object(v)
			obj.ErrorKind = jsName
			if len(args) > 0 && !args[0].IsUndefined() {
				message, err := terms.ToString(s, args[0])
				if err != nil {
					return values.Value{}, err
				}
				obj.SetOwn("message", values.Str(message))
			}
			obj.SetOwn("stack", values.Str(jsName+": "+errMessageOf(s, v)))
			return v, nil
		})
		global.SetOwn(jsName, ctorVal)
		protoObj := i.Store.ObjectByID(protoID)
		protoObj.Define("name", values.Str(jsName), true, false)
	}

	register("Error", i.Store.ErrorProto)
	register("TypeError", i.Store.TypeErrorProto)
	register("RangeError", i.Store.RangeErrorProto)
	register("ReferenceError", i.Store.ReferenceErrorProto)
	register("SyntaxError", i.Store.SyntaxErrorProto)
}

func errMessageOf(s *values.Store, v values.Value) string {
	if p, ok := s.Get(v, "message"); ok && p.Kind() == values.String {
		return p.StringVal()
	}
	return ""
}
