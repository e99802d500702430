package engine

import (
	"github.com/cwbudde/go-ecma/bridge"
)

// Option configures an Engine at construction time, following the
// teacher's lexer.LexerOption shape (internal/lexer/lexer.go's
// WithPreserveComments/WithTracing) rather than a struct of public
// fields — spec.md's SPEC_FULL.md names this "Configuration / engine
// options" as the ambient-stack counterpart to the teacher's lexer
// configuration.
type Option func(*config)

type config struct {
	console      func(level string, args []any)
	bridge       bridge.Bridge
	maxCallDepth int
}

// WithConsoleSink installs the callback console.log/warn/error/info/debug
// forward through (spec.md §6: "setConsoleSink(fn(string))"). Each
// console.* argument is handed to sink already unwrapped to a plain Go
// value (via bridge.FromScript, see engine.go's consoleSink), so an
// embedder never needs to import values itself. Passing nil restores the
// default no-op sink.
func WithConsoleSink(sink func(level string, args []any)) Option {
	return func(c *config) { c.console = sink }
}

// WithBridge installs the host bridge Java.type/Java.to resolve through
// (spec.md §6: "setBridge(bridge | null)"). Passing nil leaves the Java
// object present but inert: Java.type returns undefined and Java.to
// returns null.
func WithBridge(b bridge.Bridge) Option {
	return func(c *config) { c.bridge = b }
}

// WithMaxCallDepth bounds simultaneous script function activations,
// turning runaway recursion into a catchable RangeError instead of a Go
// stack overflow (see interp/functions.go's invoke). 0 (the default)
// leaves recursion unbounded.
func WithMaxCallDepth(n int) Option {
	return func(c *config) { c.maxCallDepth = n }
}
