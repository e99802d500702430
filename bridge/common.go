package bridge

import (
	"github.com/cwbudde/go-ecma/errors"
	"github.com/cwbudde/go-ecma/token"
)

func errNotConstructible(typeName string) error {
	return errors.TypeErr(token.Position{}, "%s is not a constructor", typeName)
}
