package relevance

import (
	"testing"
	"time"

	"daily5/internal/core"
)

func TestScorePhraseMatch(t *testing.T) {
	item := core.ContentItem{
		Title:       "Machine learning in production",
		Description: "Deploying models at scale",
	}
	score := Score(item, []string{"machine learning"})
	// Phrase match plus both words over 3 characters.
	if score != 5.0 {
		t.Errorf("expected 5.0, got %v", score)
	}
}

func TestScoreWordMatchOnly(t *testing.T) {
	item := core.ContentItem{Title: "Learning Go the hard way"}
	score := Score(item, []string{"machine learning"})
	if score != 1.0 {
		t.Errorf("expected 1.0 for single word match, got %v", score)
	}
}

func TestScoreShortWordsIgnored(t *testing.T) {
	item := core.ContentItem{Title: "The way of go"}
	if score := Score(item, []string{"go web"}); score != 0 {
		t.Errorf("expected words of 3 or fewer characters ignored, got %v", score)
	}
}

func TestScoreSynonymExpansion(t *testing.T) {
	item := core.ContentItem{Title: "New LLM beats benchmarks"}
	score := Score(item, []string{"ai"})
	if score != 0.5 {
		t.Errorf("expected 0.5 synonym weight, got %v", score)
	}
}

func TestScoreUsesKeywordsField(t *testing.T) {
	item := core.ContentItem{
		Title:    "Weekly roundup",
		Keywords: []string{"kubernetes", "golang"},
	}
	score := Score(item, []string{"kubernetes"})
	if score != 4.0 {
		t.Errorf("expected keywords blob to count, got %v", score)
	}
}

func TestScoreEmptyInterests(t *testing.T) {
	item := core.ContentItem{Title: "Anything at all"}
	if score := Score(item, nil); score != 0 {
		t.Errorf("expected 0 with no interests, got %v", score)
	}
}

func TestDiversityScoresPenalizeDominantSource(t *testing.T) {
	items := []core.ContentItem{
		{Source: "Hacker News"},
		{Source: "Hacker News"},
		{Source: "Hacker News"},
		{Source: "Dev.to"},
	}
	scores := DiversityScores(items)
	if scores[3] <= scores[0] {
		t.Errorf("expected rare source to outscore dominant one: %v", scores)
	}
}

func TestRankOrdersByRelevance(t *testing.T) {
	items := []core.ContentItem{
		{Title: "Cooking tips", Source: "a"},
		{Title: "Rust memory safety deep dive", Source: "b"},
		{Title: "Rust", Source: "c"},
	}
	ranked := Rank(items, []string{"rust memory safety"})

	if ranked[0].Title != "Rust memory safety deep dive" {
		t.Errorf("expected strongest match first, got %q", ranked[0].Title)
	}
	if ranked[2].Title != "Cooking tips" {
		t.Errorf("expected zero-score item last, got %q", ranked[2].Title)
	}
}

func TestRankEmptyInterestsPreservesOrder(t *testing.T) {
	items := []core.ContentItem{
		{Title: "first"},
		{Title: "second"},
		{Title: "third"},
	}
	ranked := Rank(items, nil)
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, ranked[i].Title)
		}
	}
}

func TestRankTieBreaksOnRecency(t *testing.T) {
	now := time.Now().UTC()
	items := []core.ContentItem{
		{Title: "go release older", Source: "a", PublishedAt: now.Add(-10 * time.Hour).Format(time.RFC3339)},
		{Title: "go release newer", Source: "b", PublishedAt: now.Add(-1 * time.Hour).Format(time.RFC3339)},
	}
	ranked := Rank(items, []string{"release"})
	if ranked[0].Title != "go release newer" {
		t.Errorf("expected newer item first on equal score, got %q", ranked[0].Title)
	}
}

func TestRankStableOnFullTie(t *testing.T) {
	items := []core.ContentItem{
		{Title: "go news alpha", Source: "same"},
		{Title: "go news beta", Source: "same"},
	}
	ranked := Rank(items, []string{"news"})
	if ranked[0].Title != "go news alpha" {
		t.Errorf("expected insertion order preserved on tie, got %q first", ranked[0].Title)
	}
}

func TestTopK(t *testing.T) {
	scored := []core.ScoredItem{
		{ContentItem: core.ContentItem{Title: "a"}},
		{ContentItem: core.ContentItem{Title: "b"}},
		{ContentItem: core.ContentItem{Title: "c"}},
	}
	if got := TopK(scored, 2); len(got) != 2 {
		t.Errorf("expected 2 items, got %d", len(got))
	}
	if got := TopK(scored, 10); len(got) != 3 {
		t.Errorf("expected full batch when k exceeds size, got %d", len(got))
	}
	if got := TopK(scored, 0); len(got) != 3 {
		t.Errorf("expected k=0 to mean no limit, got %d", len(got))
	}
}
