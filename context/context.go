// Package context implements the scope/binding tree spec.md §3 calls the
// "scope & binding store": a Context tree with lexical shadowing, `this`
// resolution, and the host bridge surface. It plays the role the teacher's
// internal/interp/environment.go Environment chain plays for DWScript,
// generalized from DWScript's single "variable" concept to spec.md §3's
// richer Binding (var/let/const, temporal-dead-zone `initialized`,
// eval-id redeclaration).
package context

import "github.com/cwbudde/go-ecma/values"

// Kind is the scope kind spec.md §3 names: "scope kind (root, function,
// block, catch, with-like for destructuring)".
type Kind int

const (
	RootKind Kind = iota
	FunctionKind
	BlockKind
	CatchKind
	WithKind
)

// ConsoleSink receives console.log/warn/error/info/debug calls (spec.md
// §4.6); level is "log", "warn", "error", "info", or "debug".
type ConsoleSink func(level string, args []values.Value)

// CallInfo describes the currently active call, per spec.md §3's "a
// call-info stub describing any active call (whether new-invoked, target
// callee)".
type CallInfo struct {
	IsNew  bool
	Callee values.Value
}

// Context is one lexical scope frame (spec.md §3's Context). Every Context
// created by NewChild is a genuine node in the tree — a block statement
// pushes one, a function call pushes one, a catch clause pushes one — so
// that an inner `let` simply lives in its own Context's map and is never
// visible to a Lookup that starts further out; restoring the enclosing
// scope on block exit is just discarding the child Context, with no
// separate per-name shadow stack required. See DESIGN.md for why this
// reading of spec.md §3/§9's Binding.previous/level fields was chosen over
// a single flat-map-with-shadow-stack design.
type Context struct {
	Kind   Kind
	Parent *Context
	Level  int

	bindings map[string]*Binding // lazy: nil until the first DeclareHere/DeclareVar

	This        values.Value
	CurrentNode any // *ast.Node, for diagnostics/stack traces; any to avoid importing ast
	Call        *CallInfo

	// flow is the pending-signal cell every statement evaluator checks
	// after each statement (spec.md §4.4's "standard semantics" for break/
	// continue/return, and this engine's folding of throw into the same
	// mechanism). It is fresh per function activation — Return must not
	// escape past the function that issued it — but shared by reference
	// across every Block/Catch/With Context nested inside that activation,
	// so a break three blocks deep is visible to the loop sitting at the
	// function's own Context without any explicit propagation code.
	flow *ControlFlow

	// Root-only fields (non-nil only when Kind == RootKind).
	Store      *values.Store
	Console    ConsoleSink
	Bridge     any // bridge.Bridge, typed any to avoid an import cycle
	Globals    *values.Object
	evalSeq    int
	currentEvl int
}

// NewRoot creates the program's single root Context. The global object
// itself (Globals) is left nil until builtins.Install populates it, mirroring
// spec.md §3's "materialized on first access" for the global built-in map.
func NewRoot(store *values.Store, console ConsoleSink) *Context {
	return &Context{
		Kind:    RootKind,
		Level:   0,
		Store:   store,
		Console: console,
		This:    values.UndefinedValue,
		flow:    &ControlFlow{},
	}
}

// NewChild pushes a new scope of the given kind under c. `this` is
// inherited from the parent by default (ordinary blocks and catch clauses
// don't rebind `this`); callers that do rebind it (an ordinary function
// call, as opposed to an arrow) call SetThis on the result. A Function
// child gets its own fresh flow cell; every other kind shares c's, so a
// non-local exit raised inside a nested block is visible to the nearest
// loop or function boundary without being threaded through every
// intermediate call by hand.
func (c *Context) NewChild(kind Kind) *Context {
	child := &Context{
		Kind:   kind,
		Parent: c,
		Level:  c.Level + 1,
		This:   c.This,
	}
	if kind == FunctionKind {
		child.flow = &ControlFlow{}
	} else {
		child.flow = c.flow
	}
	return child
}

// Flow returns the pending control-flow signal cell for c's function
// activation (see the flow field's doc comment).
func (c *Context) Flow() *ControlFlow { return c.flow }

// Root walks up to the tree's root Context, where Store/Console/Bridge/
// Globals live.
func (c *Context) Root() *Context {
	n := c
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// EnclosingFunction walks up to the nearest Function or Root Context — the
// target for hoisted `var`/function declarations (spec.md §4.4: "hoist
// inner var and function declarations" at "function/root entry").
func (c *Context) EnclosingFunction() *Context {
	n := c
	for n.Kind != FunctionKind && n.Kind != RootKind {
		n = n.Parent
	}
	return n
}

func (c *Context) SetThis(v values.Value) { c.This = v }

// Lookup walks from c outward, returning the nearest Binding named name.
func (c *Context) Lookup(name string) (*Binding, bool) {
	for n := c; n != nil; n = n.Parent {
		if n.bindings != nil {
			if b, ok := n.bindings[name]; ok {
				return b, true
			}
		}
	}
	return nil, false
}

// Has reports whether name is visible from c (bound here or in an
// enclosing scope).
func (c *Context) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// DeclareHere binds name directly in c's own map (not hoisted), used for
// let/const (block-scoped) and for function parameters. Redeclaring a
// let/const already present in the SAME eval (spec.md §9: the engine's
// monotonic eval counter) returns the existing Binding and false; interp's
// declarePattern turns that into a SyntaxError, except that it initializes
// the uninitialized placeholder interp's hoisting pass declared for the same
// let/const; redeclaring across two eval
// calls sharing this Context is allowed and overwrites, per spec.md §9's
// "Eval-id tracking" note, with the old Binding kept reachable via
// Previous so nothing observing it mid-flight is disrupted.
func (c *Context) DeclareHere(kind BindingKind, name string, v values.Value, initialized bool) (*Binding, bool) {
	if c.bindings == nil {
		c.bindings = make(map[string]*Binding)
	}
	evalID := c.Root().currentEvl
	if existing, ok := c.bindings[name]; ok {
		if existing.EvalID == evalID {
			return existing, false // genuine same-eval redeclaration: caller reports the error
		}
		b := &Binding{Name: name, Value: v, Level: c.Level, Kind: kind, Initialized: initialized, EvalID: evalID, Previous: existing}
		c.bindings[name] = b
		return b, true
	}
	b := &Binding{Name: name, Value: v, Level: c.Level, Kind: kind, Initialized: initialized, EvalID: evalID}
	c.bindings[name] = b
	return b, true
}

// DeclareVar implements `var`/function-declaration hoisting: the binding
// always lands in the nearest Function-or-Root Context's map regardless of
// which nested block the declaration's source position is in (spec.md
// §4.4). Re-running the same var declaration (hoisting revisits it, or a
// loop body redeclares it) is never an error — "var" collapses to a no-op
// redeclare, matching real JS.
func (c *Context) DeclareVar(name string, v values.Value) *Binding {
	target := c.EnclosingFunction()
	if target.bindings == nil {
		target.bindings = make(map[string]*Binding)
	}
	if existing, ok := target.bindings[name]; ok {
		return existing
	}
	b := &Binding{Name: name, Value: v, Level: target.Level, Kind: VarBinding, Initialized: true, EvalID: target.Root().currentEvl}
	target.bindings[name] = b
	return b
}

// Assign sets an already-declared binding's value, walking outward to find
// it (ordinary `x = v`). Returns false if no binding named name is visible
// anywhere in the chain — interp's assignTarget then declares the name as
// an implicit-global var on the root, as sloppy-mode ECMAScript does for
// assignment to an undeclared name.
func (c *Context) Assign(name string, v values.Value) bool {
	b, ok := c.Lookup(name)
	if !ok {
		return false
	}
	b.Value = v
	b.Initialized = true
	return true
}

// BeginEval bumps the root's eval counter, returning the new id. interp
// calls this at the start of every RunProgram, so the first program
// evaluation runs as eval id 1 (id 0 covers what was declared before any
// evaluation, such as the globals builtins.Install binds) and DeclareHere
// can tell a same-eval duplicate `let` apart from a second eval's
// redeclaration.
func (c *Context) BeginEval() int {
	root := c.Root()
	root.evalSeq++
	root.currentEvl = root.evalSeq
	return root.currentEvl
}
