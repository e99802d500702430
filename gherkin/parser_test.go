package gherkin

import (
	"testing"

	"github.com/cwbudde/go-ecma/lexer"
)

func parse(t *testing.T, src string) *Feature {
	t.Helper()
	p := New(lexer.NewGherkin("<test>", src))
	f := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return f
}

func TestParseFeatureNameAndDescription(t *testing.T) {
	f := parse(t, `Feature: Login
  As a user
  I want to log in

  Scenario: Happy path
    Given a registered user
    When they submit valid credentials
    Then they are signed in
`)

	if f.Name != "Login" {
		t.Fatalf("got name %q, want %q", f.Name, "Login")
	}
	if f.Description != "As a user\nI want to log in" {
		t.Fatalf("got description %q", f.Description)
	}
	if len(f.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(f.Sections))
	}

	scenario := f.Sections[0].Scenario
	if scenario.Name != "Happy path" {
		t.Fatalf("got scenario name %q", scenario.Name)
	}
	if len(scenario.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(scenario.Steps))
	}
	want := []Step{
		{Prefix: "Given", Text: "a registered user"},
		{Prefix: "When", Text: "they submit valid credentials"},
		{Prefix: "Then", Text: "they are signed in"},
	}
	for idx, s := range want {
		got := scenario.Steps[idx]
		if got.Prefix != s.Prefix || got.Text != s.Text {
			t.Fatalf("step %d: got %+v, want prefix/text %+v", idx, got, s)
		}
	}
}

func TestParseTags(t *testing.T) {
	f := parse(t, `@smoke @wip
Feature: Tagged feature

  @slow
  Scenario: Tagged scenario
    * does something
`)

	if len(f.Tags) != 2 || f.Tags[0] != "smoke" || f.Tags[1] != "wip" {
		t.Fatalf("got feature tags %v", f.Tags)
	}

	scenario := f.Sections[0].Scenario
	if len(scenario.Tags) != 1 || scenario.Tags[0] != "slow" {
		t.Fatalf("got scenario tags %v", scenario.Tags)
	}
	if len(scenario.Steps) != 1 || scenario.Steps[0].Prefix != "*" {
		t.Fatalf("got steps %+v", scenario.Steps)
	}
}

func TestParseMultipleScenarios(t *testing.T) {
	f := parse(t, `Feature: Multi

  Scenario: First
    Given a

  Scenario: Second
    Given b
    And c
`)

	if len(f.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(f.Sections))
	}
	if f.Sections[0].Scenario.Name != "First" || f.Sections[1].Scenario.Name != "Second" {
		t.Fatalf("got sections %+v", f.Sections)
	}
	if len(f.Sections[1].Scenario.Steps) != 2 {
		t.Fatalf("got %d steps in second scenario", len(f.Sections[1].Scenario.Steps))
	}
}

func TestParseMissingFeatureRecordsError(t *testing.T) {
	p := New(lexer.NewGherkin("<test>", "Scenario: Oops\n  Given a\n"))
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for a feature file missing 'Feature:'")
	}
}
