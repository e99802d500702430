package builtins

import (
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/token"
)

// errTypeErr/errRangeErr build the Go errors builtins return for script-
// visible TypeError/RangeError conditions; interp.propagateErr turns them
// into a pending Throw of the matching JS Error object at the call site.
func errTypeErr(format string, args ...any) error {
	return errors.TypeErr(token.Position{}, format, args...)
}

func errRangeErr(format string, args ...any) error {
	return errors.Range(token.Position{}, format, args...)
}

func errSyntaxErr(format string, args ...any) error {
	return errors.Syntax(token.Position{}, format, args...)
}
