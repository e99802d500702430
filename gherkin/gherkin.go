// Package gherkin parses the Gherkin-mode token stream lexer/lexer_gherkin.go
// produces into a Feature value tree (spec.md §4.3), following the teacher's
// internal/parser layout — a small cursor over a token stream with its own
// parse methods — but for a strictly line-oriented grammar with none of the
// JavaScript parser's precedence climbing. Step text is left as the raw
// source slice the lexer captured (G_RHS); spec.md §6's Gherkin front-end is
// explicit that step *execution* — re-parsing that text as JavaScript and
// running it — is a collaborator's job, out of this package's scope.
package gherkin

// Tag is a feature- or scenario-level annotation like "@smoke" (spec.md
// §4.1's G_TAG token), stored without its leading "@".
type Tag string

// Step is one Given/When/Then/And/But/"*" line (spec.md §4.3: "A step
// captures prefix ..., optional keyword, raw text slice from source
// (position-preserving), and line number"). Keyword stays empty for this
// grammar — the lexer defines token.G_KEYWORD but this dialect's
// nextGherkin never produces one, so there is nothing to carry into it.
type Step struct {
	Prefix  string
	Keyword string
	Text    string
	Line    int
}

// Scenario is one "Scenario:" or "Scenario Outline:" block: a name/
// description pair gathered from contiguous G_DESC lines (spec.md §4.3),
// its own tags, and its ordered steps.
type Scenario struct {
	Name        string
	Description string
	Tags        []Tag
	Steps       []Step
}

// FeatureSection wraps one Scenario, named to match spec.md §6's Gherkin
// output shape ("sections:[ FeatureSection{ scenario: ... } ]") — a Feature
// may grow other section kinds (e.g. Background) beyond plain scenarios in
// future grammar revisions without widening Feature.Sections' element type.
type FeatureSection struct {
	Scenario Scenario
}

// Feature is the root value this package's Parse produces (spec.md §4.3 /
// §6). Tags and the Name/Description pair are gathered exactly the way a
// Scenario's are, just anchored to the leading "Feature:" line instead of a
// "Scenario:" one.
type Feature struct {
	Tags        []Tag
	Name        string
	Description string
	Sections    []FeatureSection
}
