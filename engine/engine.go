// Package engine is the single embeddable front door spec.md §6 describes:
// "Construct an engine, evaluate script text against it, read/write
// globals, redirect console output, attach a host bridge." It plays the
// role the teacher's pkg/dwscript package plays for DWScript — New(opts...)
// building a ready-to-run engine, Eval(source) running script text to
// completion — generalized from DWScript's PrintLn-to-io.Writer output
// model to this engine's host-callback ConsoleSink (builtins/console.go)
// and from DWScript's compile-then-run split to evaluate-to-completion,
// since spec.md §5 only promises run-to-completion semantics, not a
// separate bytecode stage.
package engine

import (
	"github.com/cwbudde/go-ecma/bridge"
	"github.com/cwbudde/go-ecma/builtins"
	"github.com/cwbudde/go-ecma/context"
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/lexer"
	"github.com/cwbudde/go-ecma/parser"
	"github.com/cwbudde/go-ecma/values"
)

// Engine wraps one interp.Interp/values.Store pair: every Eval call shares
// the same global object, so declarations from one Eval are visible to the
// next (spec.md §9's eval-id redeclaration semantics let `let`/`const` at
// the root be re-run rather than erroring "already declared").
type Engine struct {
	store  *values.Store
	interp *interp.Interp
}

// New builds an Engine and installs every spec.md §4.6 built-in onto it,
// following the teacher's dwscript.New(opts...) shape. Options apply before
// any built-in is installed so WithBridge/WithConsoleSink are in effect for
// the very first Eval.
func New(opts ...Option) *Engine {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	store := values.NewStore()
	i := interp.New(store, consoleSink(store, cfg.console))
	i.MaxCallDepth = cfg.maxCallDepth
	i.Root.Bridge = cfg.bridge

	builtins.Install(i)
	bridge.Install(i, i.Root.Globals)

	return &Engine{store: store, interp: i}
}

// consoleSink adapts an embedder's func(level string, args []any) into the
// context.ConsoleSink this package's interp actually calls, unwrapping each
// argument with bridge.FromScript so the embedder never imports values
// itself (spec.md §6: "setConsoleSink(fn(string))" generalized to carry the
// full argument list rather than a single pre-joined string, matching
// console.log's variadic signature). A nil sink yields a nil ConsoleSink,
// which the console methods treat as "discard" (see builtins/console.go).
func consoleSink(store *values.Store, sink func(level string, args []any)) context.ConsoleSink {
	if sink == nil {
		return nil
	}
	return func(level string, args []values.Value) {
		out := make([]any, len(args))
		for idx, a := range args {
			out[idx] = bridge.FromScript(store, a)
		}
		sink(level, out)
	}
}

// Eval parses and runs source to completion against this Engine's shared
// root scope (spec.md §6: "eval(source) → value | throws"). A parse
// failure is reported as a single *errors.Error of SyntaxErrorKind whose
// message is every parse error FormatAll renders, at the first error's
// position — mirroring the teacher's FormatErrors-then-return-one-
// CompileError shape.
func (e *Engine) Eval(source string) (values.Value, error) {
	const file = "<eval>"
	l := lexer.New(file, source)
	p := parser.New(l)
	prog := p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		return values.Value{}, errors.Syntax(errs[0].Pos, "%s", errors.FormatAll(errs, source, file, false))
	}

	return e.interp.RunProgram(prog)
}

// Set declares or overwrites a root-scope global (spec.md §6: "set(name,
// value)"), visible to every subsequent Eval the same way a top-level `var`
// declaration would be.
func (e *Engine) Set(name string, v values.Value) {
	e.interp.Root.DeclareVar(name, v)
}

// Get reads a root-scope global (spec.md §6: "get(name)"), reporting false
// if no such binding exists rather than returning undefined indistinctly
// from a declared-but-undefined variable.
func (e *Engine) Get(name string) (values.Value, bool) {
	b, ok := e.interp.Root.Lookup(name)
	if !ok {
		return values.Value{}, false
	}
	return b.Value, true
}

// SetConsoleSink redirects console.log/warn/error/info/debug after
// construction (spec.md §6: "setConsoleSink(fn(string))"). Passing nil
// restores the default no-op sink.
func (e *Engine) SetConsoleSink(sink func(level string, args []any)) {
	e.interp.Root.Console = consoleSink(e.store, sink)
}

// SetBridge attaches or detaches the host bridge Java.type/Java.to resolve
// through (spec.md §6: "setBridge(bridge | null)"). bridge.Install reads
// i.Root.Bridge at call time, so this takes effect on the very next script
// statement that touches Java.
func (e *Engine) SetBridge(b bridge.Bridge) {
	if b == nil {
		e.interp.Root.Bridge = nil
		return
	}
	e.interp.Root.Bridge = b
}

// Store exposes the underlying values.Store for callers that need to build
// values.Value arguments for Set or a bridge.Type's statics directly
// (bridge.ToScript's i *interp.Interp parameter is available via Interp).
func (e *Engine) Store() *values.Store { return e.store }

// Interp exposes the underlying interp.Interp, the one piece of state
// bridge.ToScript/bridge.Install and builtins need to operate against —
// an embedder wiring a custom bridge.Type.New typically calls
// bridge.ToScript(e.Interp(), goValue) to hand a constructed host value
// back to script.
func (e *Engine) Interp() *interp.Interp { return e.interp }
