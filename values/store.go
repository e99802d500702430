package values

// Store is the object arena spec.md §9 asks for: "an arena of objects
// indexed by id to avoid owned cycles (prototype links and closures form
// back-edges)." Object id 0 is reserved and never allocated, so a zero
// Proto/ref field unambiguously means "no object."
type Store struct {
	objects []*Object

	// Well-known prototype ids, populated by builtins.Install. Zero until
	// installed; code that runs before installation (there is none in this
	// engine's own startup path) must not dereference them.
	ObjectProto   int32
	ArrayProto    int32
	FunctionProto int32
	StringProto   int32
	NumberProto   int32
	BooleanProto  int32
	DateProto     int32
	RegExpProto   int32
	ErrorProto    int32
	TypeErrorProto      int32
	RangeErrorProto     int32
	ReferenceErrorProto int32
	SyntaxErrorProto    int32

	// ToPrimitive lets terms.ToNumber/ToString ask the evaluator to call a
	// user-defined valueOf/toString method (spec.md §4.5: "objects via
	// valueOf() then toString()"). terms itself only depends on values, so
	// the call-back into interp is wired here rather than via an import
	// cycle; it is nil until interp.New installs it, which is soon enough
	// that no coercion of an object happens first.
	ToPrimitive func(s *Store, v Value, hint string) (Value, error)
}

func NewStore() *Store {
	return &Store{objects: make([]*Object, 1, 64)} // index 0 reserved
}

// New allocates a fresh object of the given class with the given prototype
// id (0 for none) and returns a Value wrapping its id.
func (s *Store) New(class Class, proto int32) Value {
	id := int32(len(s.objects))
	s.objects = append(s.objects, newObject(id, class, proto))
	return FromRef(id)
}

// Object dereferences a Value's ref into the backing *Object. It does not
// check v's kind: a non-Obj value carries ref 0 and yields the reserved nil
// slot, and an out-of-range id panics — both are interpreter bugs, not
// script-facing errors.
func (s *Store) Object(v Value) *Object {
	return s.objects[v.ref]
}

// ObjectByID is Object's id-based counterpart, used when only an id (e.g.
// Callable.ConstructProto) is in hand rather than a Value.
func (s *Store) ObjectByID(id int32) *Object {
	return s.objects[id]
}

// Get walks the prototype chain, returning the first matching property's
// value and true, or UndefinedValue and false (spec.md §3: "own entries →
// prototype → ... → null").
func (s *Store) Get(v Value, key string) (Value, bool) {
	id := v.ref
	for id != 0 {
		obj := s.objects[id]
		if p, ok := obj.GetOwn(key); ok {
			return p.Value, true
		}
		id = obj.Proto
	}
	return UndefinedValue, false
}

// HasProperty reports whether key is found anywhere on the prototype chain,
// own or inherited (used by `in` and Object.prototype.hasOwnProperty's
// inverse, plus for-in enumeration).
func (s *Store) HasProperty(v Value, key string) bool {
	_, ok := s.Get(v, key)
	return ok
}

// EnumerateKeys collects own-then-inherited enumerable string keys in
// insertion order, each appearing exactly once even if shadowed further up
// the chain (spec.md §4.4 for…in, §8 "exactly once in insertion order").
func (s *Store) EnumerateKeys(v Value) []string {
	seen := make(map[string]bool)
	var out []string
	id := v.ref
	for id != 0 {
		obj := s.objects[id]
		for _, k := range obj.OwnKeys() {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
		id = obj.Proto
	}
	return out
}

// PrototypeOf returns the prototype object as a Value, or UndefinedValue
// when there is none (Object.getPrototypeOf with no parent returns null in
// real JS; callers translate the 0 id to NullValue as appropriate).
func (s *Store) PrototypeOf(v Value) (Value, bool) {
	obj := s.Object(v)
	if obj.Proto == 0 {
		return Value{}, false
	}
	return FromRef(obj.Proto), true
}

// ErrorProtoFor maps an error kind name ("TypeError", "RangeError", ...) to
// its prototype id, falling back to the generic Error prototype for kinds
// with no dedicated one (spec.md §4.6 only requires Error and TypeError as
// built-ins; RangeError/ReferenceError/SyntaxError still need a distinct
// `.name` but share Error's prototype chain beyond that).
func (s *Store) ErrorProtoFor(kind string) int32 {
	switch kind {
	case "TypeError":
		return s.TypeErrorProto
	case "RangeError":
		return s.RangeErrorProto
	case "ReferenceError":
		return s.ReferenceErrorProto
	case "SyntaxError":
		return s.SyntaxErrorProto
	default:
		return s.ErrorProto
	}
}

// IsInstanceOf reports whether proto appears anywhere in v's prototype
// chain (the runtime support for `instanceof`).
func (s *Store) IsInstanceOf(v Value, proto int32) bool {
	if v.kind != Obj {
		return false
	}
	id := s.Object(v).Proto
	for id != 0 {
		if id == proto {
			return true
		}
		id = s.objects[id].Proto
	}
	return false
}
