package dedupe

import (
	"testing"
	"time"

	"daily5/internal/core"
	"daily5/internal/store"
)

func newManager(t *testing.T, retention time.Duration) *Manager {
	t.Helper()
	s, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewManager(s, retention)
}

func TestHashCanonicalization(t *testing.T) {
	a := Hash("  My Title  ", "HTTPS://Example.com/X")
	b := Hash("my title", "https://example.com/x")
	if a != b {
		t.Error("expected hash to ignore case and surrounding whitespace")
	}
	if Hash("my title", "https://example.com/x") == Hash("my title", "https://example.com/y") {
		t.Error("expected different URLs to produce different hashes")
	}
}

func TestIsDuplicateAfterRecord(t *testing.T) {
	m := newManager(t, 72*time.Hour)

	items := []core.GeneratedItem{{Title: "Go 1.25 released", URL: "https://go.dev/blog"}}
	if m.IsDuplicate("user@example.com", "Go 1.25 released", "https://go.dev/blog") {
		t.Error("expected unseen item to not be a duplicate")
	}

	if err := m.RecordSent("user@example.com", items); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	if !m.IsDuplicate("user@example.com", "Go 1.25 released", "https://go.dev/blog") {
		t.Error("expected recorded item to be a duplicate")
	}
	if m.IsDuplicate("other@example.com", "Go 1.25 released", "https://go.dev/blog") {
		t.Error("expected dedup scoped per user")
	}
}

func TestFilterNew(t *testing.T) {
	m := newManager(t, 72*time.Hour)

	sent := []core.GeneratedItem{{Title: "Already seen", URL: "https://example.com/seen"}}
	if err := m.RecordSent("user@example.com", sent); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	batch := []core.GeneratedItem{
		{Title: "Already seen", URL: "https://example.com/seen"},
		{Title: "Brand new", URL: "https://example.com/new"},
	}
	kept := m.FilterNew("user@example.com", batch)
	if len(kept) != 1 || kept[0].Title != "Brand new" {
		t.Errorf("expected only the new item, got %+v", kept)
	}
}

func TestRetentionWindowExpiry(t *testing.T) {
	// A tiny retention window makes recorded entries expire immediately
	// on the next prune.
	m := newManager(t, time.Nanosecond)

	items := []core.GeneratedItem{{Title: "Ephemeral", URL: "https://example.com/e"}}
	if err := m.RecordSent("user@example.com", items); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if m.IsDuplicate("user@example.com", "Ephemeral", "https://example.com/e") {
		t.Error("expected entry outside the retention window to be eligible again")
	}
}

func TestRecordSentTruncatesTitle(t *testing.T) {
	m := newManager(t, 72*time.Hour)

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	items := []core.GeneratedItem{{Title: string(long), URL: "https://example.com/long"}}
	if err := m.RecordSent("user@example.com", items); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	// The full title still participates in the identity hash.
	if !m.IsDuplicate("user@example.com", string(long), "https://example.com/long") {
		t.Error("expected long-titled item to be recognized as duplicate")
	}
}

func TestCollapseBatchExactDuplicates(t *testing.T) {
	items := []core.ContentItem{
		{Title: "Same story", URL: "https://example.com/a"},
		{Title: "Same story", URL: "https://example.com/a"},
		{Title: "Different story", URL: "https://example.com/b"},
	}
	kept := CollapseBatch(items)
	if len(kept) != 2 {
		t.Errorf("expected exact duplicate collapsed, got %d items", len(kept))
	}
}

func TestCollapseBatchCrossSourceTitles(t *testing.T) {
	items := []core.ContentItem{
		{Title: "OpenAI releases new model!", URL: "https://news.ycombinator.com/item?id=1", Source: "Hacker News"},
		{Title: "OpenAI Releases New Model", URL: "https://reddit.com/r/tech/2", Source: "Reddit"},
	}
	kept := CollapseBatch(items)
	if len(kept) != 1 {
		t.Fatalf("expected title-normalized collapse, got %d items", len(kept))
	}
	if kept[0].Source != "Hacker News" {
		t.Errorf("expected first occurrence kept, got %q", kept[0].Source)
	}
}

func TestCollapseBatchKeepsDistinct(t *testing.T) {
	items := []core.ContentItem{
		{Title: "Story one", URL: "https://example.com/1"},
		{Title: "Story two", URL: "https://example.com/2"},
	}
	kept := CollapseBatch(items)
	if len(kept) != 2 {
		t.Errorf("expected distinct items untouched, got %d", len(kept))
	}
}
