package templates

import (
	"strings"
	"testing"
	"time"

	"daily5/internal/core"
	"daily5/internal/validate"
)

func testEvidence() core.Evidence {
	return core.Evidence{
		ActiveRepos: []core.RepoActivity{
			{Name: "pipeliner", FullName: "dev/pipeliner", Language: "Go"},
			{Name: "webhooks", FullName: "dev/webhooks", Language: "TypeScript"},
		},
		Languages: []string{"Go", "TypeScript"},
	}
}

func TestGenerateCount(t *testing.T) {
	items := Generate(core.UserProfile{Name: "Dev"}, testEvidence(), 5, time.Now())
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
}

func TestGenerateRepoItemsFirst(t *testing.T) {
	items := Generate(core.UserProfile{}, testEvidence(), 5, time.Now())
	if !strings.Contains(items[0].Body, "pipeliner") {
		t.Errorf("expected first item about the most active repo, got %q", items[0].Title)
	}
	if !strings.Contains(items[1].Body, "webhooks") {
		t.Errorf("expected second item about the next repo, got %q", items[1].Title)
	}
}

func TestGenerateWithoutEvidence(t *testing.T) {
	items := Generate(core.UserProfile{}, core.Evidence{}, 3, time.Now())
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.URL == "" {
			t.Errorf("item %d missing URL", i)
		}
		if item.Source != "fallback" {
			t.Errorf("item %d: expected fallback source, got %q", i, item.Source)
		}
	}
}

// Fallback output must survive the default validator unconditionally;
// that is its single job.
func TestGeneratePassesValidation(t *testing.T) {
	rules, err := validate.DefaultRuleset()
	if err != nil {
		t.Fatalf("failed to load ruleset: %v", err)
	}
	v := validate.NewValidator(rules)

	evidence := testEvidence()
	items := Generate(core.UserProfile{Name: "Dev"}, evidence, 5, time.Now())

	result := v.ValidateBatch(items, evidence, false)
	if !result.Valid {
		t.Fatalf("fallback batch failed validation: %v", result.Errors)
	}
}

func TestGeneratePassesValidationWithoutEvidence(t *testing.T) {
	rules, err := validate.DefaultRuleset()
	if err != nil {
		t.Fatalf("failed to load ruleset: %v", err)
	}
	v := validate.NewValidator(rules)

	items := Generate(core.UserProfile{}, core.Evidence{}, 5, time.Now())
	result := v.ValidateBatch(items, core.Evidence{}, false)
	if !result.Valid {
		t.Fatalf("fallback batch failed validation: %v", result.Errors)
	}
}

func TestGenerateIncludesCurrentDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	items := Generate(core.UserProfile{}, core.Evidence{}, 3, now)
	for i, item := range items {
		if !strings.Contains(item.Body, "August 30") {
			t.Errorf("item %d missing the current date", i)
		}
	}
}
