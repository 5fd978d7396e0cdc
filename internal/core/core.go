package core

import "time"

// ContentItem represents a normalized piece of content discovered by a
// source fetcher. All sources, regardless of transport (JSON API, RSS,
// scraped HTML), produce this shape.
type ContentItem struct {
	ID          string   `json:"id"`           // Deterministic identifier derived from the URL
	Title       string   `json:"title"`        // Item title (required, non-empty)
	Description string   `json:"description"`  // Short plain-text description (may be empty)
	URL         string   `json:"url"`          // Canonical link (required)
	Source      string   `json:"source"`       // Source tag, e.g. "Hacker News", "GitHub Trending"
	Category    string   `json:"category"`     // Coarse tag: "tech_news", "discussion", "release", ...
	PublishedAt string   `json:"published_at"` // Raw timestamp as the source reported it; parsed downstream
	Keywords    []string `json:"keywords"`     // Tags used only for relevance scoring, not display
}

// ScoredItem is a ContentItem with ranking scores attached. Scores are
// comparable only within a single assembly run; they are never persisted.
type ScoredItem struct {
	ContentItem
	Relevance float64 `json:"relevance"` // Interest-match score, unbounded ranking key
	Diversity float64 `json:"diversity"` // Source-frequency penalty, higher is better
}

// RepoActivity describes one of the user's recently active repositories.
type RepoActivity struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	URL         string    `json:"url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Evidence holds behavioral signals derived from the user's GitHub
// activity, used for scoring and for grounding generated content.
type Evidence struct {
	ActiveRepos   []RepoActivity `json:"active_repos"`
	Languages     []string       `json:"languages"`      // Primary languages, most used first
	StarredTopics []string       `json:"starred_topics"` // Interests inferred from starred repos
}

// UserProfile identifies a recipient and their stated interests.
type UserProfile struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Interests      []string `json:"interests"`
	Skills         []string `json:"skills"`
	Goals          []string `json:"goals"`
	GitHubUsername string   `json:"github_username"`
	Location       string   `json:"location"`
}

// GeneratedItem is one enriched recommendation ready for validation and
// delivery. Body is prose produced by the enrichment step or a fallback
// template, not raw fetched text.
type GeneratedItem struct {
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Action         string     `json:"action"`   // Suggested next step for the reader
	Category       string     `json:"category"` // Display category, e.g. "🎯 FOR YOU"
	URL            string     `json:"url"`
	Source         string     `json:"source"`
	PublishedAt    string     `json:"published_at"`
	RelevanceScore float64    `json:"relevance_score"`
	Confidence     Confidence `json:"confidence"`
}

// Confidence is a 0-100 evidentiary-strength score for a generated item,
// recomputed on every validation pass and never cached.
type Confidence struct {
	Score        int    `json:"score"`         // 0-100
	Level        string `json:"level"`         // "HIGH" (>=80), "MEDIUM" (>=50), "LOW"
	Facts        int    `json:"facts"`         // Verifiable facts tier, max 40
	Benchmarks   int    `json:"benchmarks"`    // Benchmarks/comparisons tier, max 30
	UserEvidence int    `json:"user_evidence"` // User-specific evidence tier, max 30
	Explanation  string `json:"explanation"`
}

// ValidationResult reports the outcome of validating a candidate batch.
// It is returned as data; validation never panics or aborts the pipeline.
type ValidationResult struct {
	Valid    bool            `json:"valid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Stats    ValidationStats `json:"stats"`
}

// ValidationStats carries observability counters alongside a result.
type ValidationStats struct {
	TotalItems    int          `json:"total_items"`
	RepoMentions  int          `json:"repo_mentions"`
	AvgConfidence float64      `json:"avg_confidence"`
	Confidence    []Confidence `json:"confidence"`
}

// CacheEntry records one item previously sent to a user. Entries are
// created after delivery, pruned by the retention window, never mutated.
type CacheEntry struct {
	Hash   string    `json:"hash"`
	SentAt time.Time `json:"sent_at"`
	Title  string    `json:"title"` // Truncated to 100 chars for reference
	URL    string    `json:"url"`
}
