package gherkin

import (
	"testing"

	"github.com/cwbudde/go-ecma/lexer"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGherkinFixtures snapshot-tests Parse's output against a handful of
// representative feature files, the way the teacher's
// internal/interp/fixture_test.go uses go-snaps.MatchSnapshot to pin down
// an evaluator's output without hand-writing the expected value for every
// case.
func TestGherkinFixtures(t *testing.T) {
	fixtures := []struct {
		name string
		src  string
	}{
		{
			name: "LoginFeature",
			src: `Feature: Login
  As a visitor
  I want to sign in

  @smoke
  Scenario: Valid credentials
    Given a registered account "alice"
    When she submits the correct password
    Then she sees the dashboard
`,
		},
		{
			name: "MultiScenario",
			src: `@billing
Feature: Invoicing

  Scenario: Draft invoice
    Given an empty cart
    When a line item is added
    Then the invoice total updates

  Scenario: Void invoice
    Given a draft invoice
    * it is voided
    Then it no longer appears in the open list
`,
		},
		{
			name: "NoScenarios",
			src: `Feature: Empty feature
  Nothing here yet.
`,
		},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			p := New(lexer.NewGherkin(fx.name, fx.src))
			feature := p.Parse()
			if errs := p.Errors(); len(errs) > 0 {
				t.Fatalf("unexpected parse errors: %v", errs)
			}
			snaps.MatchSnapshot(t, fx.name, feature)
		})
	}
}
