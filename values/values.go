// Package values implements the runtime value universe (spec.md §3, §9): a
// single tagged Value variant rather than the teacher's per-primitive struct
// hierarchy (IntegerValue/FloatValue/... in internal/interp/runtime), since
// spec.md §9 explicitly calls for re-architecting that hierarchy into one
// tagged type. Objects live in an arena (Store) and are referenced by id, so
// prototype links and closures can form back-edges without Go ownership
// cycles.
package values

import "fmt"

// Kind discriminates the tagged Value union.
type Kind int

const (
	Undefined Kind = iota
	Null
	Boolean
	Number
	String
	Obj // object, array, function, date, error, regex, or host-wrapped value
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Obj:
		return "object"
	default:
		return "unknown"
	}
}

// Value is copied by value everywhere in this engine; the only heap
// reference it carries is ref, an index into a Store's object arena.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	ref  int32
}

var (
	UndefinedValue = Value{kind: Undefined}
	NullValue      = Value{kind: Null}
	True           = Value{kind: Boolean, b: true}
	False          = Value{kind: Boolean, b: false}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Num(n float64) Value    { return Value{kind: Number, n: n} }
func Str(s string) Value     { return Value{kind: String, s: s} }
func FromRef(id int32) Value { return Value{kind: Obj, ref: id} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == Undefined }
func (v Value) IsNull() bool      { return v.kind == Null }
func (v Value) IsNullish() bool   { return v.kind == Undefined || v.kind == Null }
func (v Value) IsObject() bool    { return v.kind == Obj }

// BoolVal/NumberVal/StringVal do not check the kind: called against the
// wrong kind they return that field's zero value (false, 0, ""). Callers
// (the terms package, mostly) check Kind() first.
func (v Value) BoolVal() bool      { return v.b }
func (v Value) NumberVal() float64 { return v.n }
func (v Value) StringVal() string  { return v.s }
func (v Value) Ref() int32         { return v.ref }

func (v Value) GoString() string {
	switch v.kind {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		return fmt.Sprintf("%t", v.b)
	case Number:
		return fmt.Sprintf("%v", v.n)
	case String:
		return fmt.Sprintf("%q", v.s)
	case Obj:
		return fmt.Sprintf("#%d", v.ref)
	default:
		return "<?>"
	}
}
