package llm

import (
	"strings"
	"testing"

	"daily5/internal/core"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	input := "Here is the digest:\n```json\n[{\"title\": \"x\"}]\n```\nDone."
	got := extractJSON(input)
	if got != `[{"title": "x"}]` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	input := "```\n[{\"title\": \"y\"}]\n```"
	got := extractJSON(input)
	if got != `[{"title": "y"}]` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	input := `Sure! [{"title": "z"}] Hope that helps.`
	got := extractJSON(input)
	if got != `[{"title": "z"}]` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONPassthrough(t *testing.T) {
	input := `[{"title": "clean"}]`
	if got := extractJSON(input); got != input {
		t.Errorf("expected clean JSON unchanged, got %q", got)
	}
}

func TestParseResponseMatchesCandidates(t *testing.T) {
	c := &Client{model: DefaultModel}
	candidates := []core.ScoredItem{
		{
			ContentItem: core.ContentItem{
				URL:         "https://example.com/a",
				Source:      "Hacker News",
				PublishedAt: "2026-08-29T10:00:00Z",
			},
			Relevance: 4.5,
		},
	}

	response := `[
		{"title": "Known", "body": "text", "action": "read it", "category": "release", "url": "https://example.com/a"},
		{"title": "Hallucinated", "body": "text", "url": "https://example.com/invented"}
	]`

	items, err := c.parseResponse(response, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected hallucinated URL dropped, got %d items", len(items))
	}
	if items[0].Source != "Hacker News" {
		t.Errorf("expected source carried from candidate, got %q", items[0].Source)
	}
	if items[0].RelevanceScore != 4.5 {
		t.Errorf("expected relevance carried over, got %v", items[0].RelevanceScore)
	}
}

func TestParseResponseInvalidJSON(t *testing.T) {
	c := &Client{model: DefaultModel}
	if _, err := c.parseResponse("I cannot help with that.", nil); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestBuildPromptIncludesProfile(t *testing.T) {
	c := &Client{model: DefaultModel}
	profile := core.UserProfile{
		Name:      "Dev",
		Interests: []string{"go", "databases"},
	}
	evidence := core.Evidence{
		ActiveRepos: []core.RepoActivity{{FullName: "dev/pipeliner"}},
		Languages:   []string{"Go"},
	}
	candidates := []core.ScoredItem{
		{ContentItem: core.ContentItem{Title: "Item", URL: "https://example.com"}},
	}

	prompt, err := c.buildPrompt(candidates, profile, evidence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"go, databases", "dev/pipeliner", "https://example.com", "JSON array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}
