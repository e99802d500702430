// Package cmd is the cobra command tree for ecmarun (SPEC_FULL.md's
// "thin cobra CLI demonstrating eval + gherkin parse"), grounded on the
// teacher's cmd/dwscript/cmd (root.go's rootCmd/Execute/version-template
// shape, run.go's file-or-inline-expression argument handling).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags, following the teacher's
	// cmd/dwscript/cmd/root.go convention).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ecmarun",
	Short: "Embeddable ECMAScript interpreter CLI",
	Long: `ecmarun hosts the go-ecma engine from the command line: evaluate
JavaScript source text directly, or parse a Gherkin feature file whose
step expressions are themselves JavaScript.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
