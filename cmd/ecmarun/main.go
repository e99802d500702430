// Command ecmarun is the CLI entry point wrapping cmd.Execute, following
// the teacher's cmd/dwscript/main.go shape: a one-line main that hands
// everything to the cobra command tree and exits nonzero on failure.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-ecma/cmd/ecmarun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
