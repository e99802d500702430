// Package bridge implements spec.md §6's host interop surface: an
// externally-supplied Bridge resolves a fully-qualified host type name to
// a callable wrapper, and the script-visible `Java` object (installed by
// Install) exposes that lookup as `Java.type`/`Java.to`. It plays the role
// the teacher's internal/interp/marshal.go + ffi_errors.go pair play for
// DWScript's Go-function registration, generalized from "register one Go
// func as a DWScript callable" to "resolve an opaque host type name to a
// wrapper, lazily, at script request" — this engine has no static FFI
// registration step, only the bridge.Bridge interface an embedder
// implements and installs via engine.WithBridge.
package bridge

// Bridge is the host interop surface an embedder implements externally and
// installs via engine.WithBridge/Engine.SetBridge (spec.md §6). When no
// Bridge is installed, the `Java` object is still present: Java.type
// returns undefined and Java.to returns null (see Install).
type Bridge interface {
	// ForType resolves a fully-qualified host type name to its wrapper
	// description (spec.md §6's "forType(fullyQualifiedName) -> callable
	// wrapper of host type"). A Bridge that knows no such type returns an
	// error, which the script sees as a thrown generic Error carrying the
	// host message (spec.md §7).
	ForType(fullyQualifiedName string) (*Type, error)
}

// Type describes one host type as the bridge exposes it to script: a set
// of static members (spec.md §6: "the wrapper exposes static members by
// name") plus an optional constructor ("invocation constructs an
// instance"). A Type with a nil New is still a valid static-only wrapper
// (e.g. a host type used only for its constants) — calling it from script
// raises a TypeError the same way calling a non-constructor function does
// elsewhere in this engine.
type Type struct {
	Name    string
	Statics map[string]any
	New     func(args []any) (any, error)
}

// External is the opaque external-value shape spec.md §6 describes for a
// host object with no natural JS representation: "other host objects ->
// opaque external values implementing getJavaValue() that returns the
// underlying and getJsValue() that returns the representation used for
// arithmetic/comparison — default is the same." Go values that ToScript
// wraps as a host object satisfy this implicitly (both script-visible
// methods return the same Go value by default); a host type may implement
// this interface itself to supply a distinct arithmetic/comparison
// representation.
type External interface {
	JsValue() any
}
