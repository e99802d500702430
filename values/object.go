package values

// Class distinguishes the Object variant's sub-shapes (spec.md §9's "kind
// enum" on the Object variant): built-in method dispatch switches on Class,
// ordinary property lookup always walks the prototype chain regardless of
// it.
type Class int

const (
	ClassPlain Class = iota
	ClassArray
	ClassFunction
	ClassDate
	ClassRegExp
	ClassError
	ClassHost
)

// Property is one own entry of an Object's map. Writable/Enumerable follow
// spec.md §4.6's "minimal writable/value form" for Object.defineProperty;
// everything this engine creates through ordinary assignment is writable
// and enumerable.
type Property struct {
	Value      Value
	Writable   bool
	Enumerable bool
}

// Callable is the invocation contract an Object may carry (spec.md §3:
// "may also carry an invocation contract"). Exactly one of Native/Body is
// set; Body-backed callables additionally close over a *context.Context via
// the Closure field, but context can't be imported here (it imports
// values), so Closure is stored as an opaque any and type-asserted by
// interp.
type Callable struct {
	Name      string
	Params    []any // []*ast.Node binding targets; any to avoid importing ast here
	Body      any   // *ast.Node function body
	Closure   any   // *context.Context
	IsArrow   bool  // arrow functions capture lexical `this` and `arguments`
	Native    NativeFunc
	ConstructProto int32 // object id to use as .prototype when `new`-invoked; 0 makes Construct use Object.prototype
}

// NativeFunc is a Go-implemented builtin. thisVal and args are already
// coerced to Values; the Store is passed so natives can allocate/read
// objects (Array.prototype.map creating a new array, for example).
type NativeFunc func(s *Store, thisVal Value, args []Value) (Value, error)

// Object is one arena-resident heap value: a plain/array/function/date/
// regexp/error/host-wrapped object, per spec.md §3's "open maps from string
// key to value with an associated prototype link."
type Object struct {
	ID    int32
	Class Class
	Proto int32 // object id of the prototype, or 0 for "no prototype"
	props map[string]*Property
	keys  []string // insertion order, for for-in / Object.keys (spec.md §8)

	Extensible bool
	Frozen     bool

	Call *Callable // non-nil for ClassFunction

	ArrayLength int // authoritative length for ClassArray; indices are ordinary numeric-string keys

	DateMillis float64 // ClassDate: milliseconds since epoch, NaN if invalid

	RegexSource, RegexFlags string // ClassRegExp

	ErrorKind string // ClassError: "TypeError", "RangeError", ... surfaced as .name

	Host any // ClassHost: opaque bridge-wrapped value (see bridge.ToScript)
}

func newObject(id int32, class Class, proto int32) *Object {
	return &Object{
		ID:         id,
		Class:      class,
		Proto:      proto,
		props:      make(map[string]*Property),
		Extensible: true,
	}
}

// GetOwn returns the object's own property, ignoring the prototype chain.
func (o *Object) GetOwn(key string) (*Property, bool) {
	p, ok := o.props[key]
	return p, ok
}

// SetOwn creates or overwrites an own, writable, enumerable property,
// preserving existing insertion order for the key if it's already present.
// An existing non-writable property is left unchanged, and an existing
// property keeps its Enumerable flag.
func (o *Object) SetOwn(key string, v Value) {
	if p, ok := o.props[key]; ok {
		if !p.Writable {
			return
		}
		p.Value = v
		return
	}
	o.props[key] = &Property{Value: v, Writable: true, Enumerable: true}
	o.keys = append(o.keys, key)
}

// Define installs a property with explicit writable/enumerable flags
// (Object.defineProperty's minimal form, spec.md §4.6).
func (o *Object) Define(key string, v Value, writable, enumerable bool) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = &Property{Value: v, Writable: writable, Enumerable: enumerable}
}

// Delete removes an own property, preserving the relative order of the
// remaining keys.
func (o *Object) Delete(key string) {
	if _, ok := o.props[key]; !ok {
		return
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// OwnKeys returns own enumerable string keys in insertion order.
func (o *Object) OwnKeys() []string {
	out := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if p := o.props[k]; p != nil && p.Enumerable {
			out = append(out, k)
		}
	}
	return out
}

// AllOwnKeys returns every own key (including non-enumerable), used by
// Object.getOwnPropertyNames-style internals and the evaluator's own
// bookkeeping.
func (o *Object) AllOwnKeys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}
