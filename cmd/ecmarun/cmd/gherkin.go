package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/go-ecma/gherkin"
	"github.com/cwbudde/go-ecma/lexer"
	"github.com/spf13/cobra"
)

var gherkinExpr string

var gherkinCmd = &cobra.Command{
	Use:   "gherkin [file]",
	Short: "Parse a Gherkin feature file and print its structure",
	Long: `Parse a Gherkin feature file (spec.md §4.3) and print the resulting
Feature tree: tags, the feature name/description, and every scenario's
ordered steps.

Examples:
  # Parse a feature file
  ecmarun gherkin login.feature

  # Parse inline feature text
  ecmarun gherkin -e $'Feature: Login\n  Scenario: ok\n    Given a user'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGherkin,
}

func init() {
	rootCmd.AddCommand(gherkinCmd)

	gherkinCmd.Flags().StringVarP(&gherkinExpr, "eval", "e", "", "parse inline feature text instead of reading from file")
}

func runGherkin(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(gherkinExpr, args, "<feature>")
	if err != nil {
		return err
	}

	p := gherkin.New(lexer.NewGherkin(filename, source))
	feature := p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Format(source, filename, false))
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	printFeature(feature)
	return nil
}

// printFeature renders a Feature the way spec.md §6 describes the Gherkin
// output format: "[tags]* Feature: <name>\n<description>\n (Scenario:
// <name>\n<desc>\n (step)+ )+".
func printFeature(f *gherkin.Feature) {
	for _, t := range f.Tags {
		fmt.Printf("@%s ", t)
	}
	if len(f.Tags) > 0 {
		fmt.Println()
	}
	fmt.Printf("Feature: %s\n", f.Name)
	if f.Description != "" {
		fmt.Println(f.Description)
	}

	for _, section := range f.Sections {
		s := section.Scenario
		fmt.Println()
		for _, t := range s.Tags {
			fmt.Printf("  @%s ", t)
		}
		if len(s.Tags) > 0 {
			fmt.Println()
		}
		fmt.Printf("  Scenario: %s\n", s.Name)
		if s.Description != "" {
			fmt.Println("  " + strings.ReplaceAll(s.Description, "\n", "\n  "))
		}
		for _, step := range s.Steps {
			fmt.Printf("    %s %s\n", step.Prefix, step.Text)
		}
	}
}
