package builtins

import (
	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installConsole wires console.log/warn/error/info/debug (spec.md §4.6)
// through i.Root.Console, the context.ConsoleSink callback an embedder
// installs via interp.New, handing it the raw argument values — this engine never writes to stdout directly, matching the
// teacher's host-callback-based I/O builtins rather than DWScript's direct
// Writeln.
func installConsole(i *interp.Interp, global *values.Object) {
	consoleObj := i.Store.Object(i.NewPlainObject())
	global.SetOwn("console", values.FromRef(consoleObj.ID))

	level := func(name string) {
		nativeFunction(i, consoleObj, name, 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			if i.Root.Console != nil {
				i.Root.Console(name, args)
			}
			return values.UndefinedValue, nil
		})
	}
	level("log")
	level("warn")
	level("error")
	level("info")
	level("debug")
}

// ConsoleFormat renders a console.log-style argument list the way an
// embedder's default ConsoleSink typically wants to: space-joined
// ToString of each argument. Exported so cmd/ecmarun (and any other host)
// doesn't need to reimplement it.
func ConsoleFormat(s *values.Store, args []values.Value) string {
	out := ""
	for idx, a := range args {
		if idx > 0 {
			out += " "
		}
		str, err := terms.ToString(s, a)
		if err != nil {
			str = "<error>"
		}
		out += str
	}
	return out
}
