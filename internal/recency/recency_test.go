package recency

import (
	"testing"
	"time"

	"daily5/internal/core"
)

func TestParseTimestampFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339 utc", "2026-08-29T10:30:00Z", time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2026-08-29T12:30:00+02:00", time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)},
		{"naive datetime", "2026-08-29 10:30:00", time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)},
		{"date only", "2026-08-29", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)},
		{"epoch seconds", "1787000000", time.Unix(1787000000, 0).UTC()},
		{"rfc1123z", "Sat, 29 Aug 2026 10:30:00 +0000", time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.value)
			if !ok {
				t.Fatalf("expected %q to parse", tt.value)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, value := range []string{"", "not a date", "yesterday"} {
		if _, ok := ParseTimestamp(value); ok {
			t.Errorf("expected %q to fail parsing", value)
		}
	}
}

func TestFilterDropsStaleItems(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	items := []core.ContentItem{
		{Title: "fresh", PublishedAt: now.Add(-1 * time.Hour).Format(time.RFC3339)},
		{Title: "edge", PublishedAt: now.Add(-71 * time.Hour).Format(time.RFC3339)},
		{Title: "stale", PublishedAt: now.Add(-100 * time.Hour).Format(time.RFC3339)},
	}

	kept := Filter(items, 72*time.Hour, now)
	if len(kept) != 2 {
		t.Fatalf("expected 2 items kept, got %d", len(kept))
	}
	for _, item := range kept {
		if item.Title == "stale" {
			t.Error("stale item should have been dropped")
		}
	}
}

func TestFilterKeepsUnparseableTimestamps(t *testing.T) {
	now := time.Now().UTC()
	items := []core.ContentItem{
		{Title: "no timestamp"},
		{Title: "garbage", PublishedAt: "not a date"},
	}

	kept := Filter(items, 72*time.Hour, now)
	if len(kept) != 2 {
		t.Errorf("expected items without readable timestamps to pass, got %d", len(kept))
	}
}

func TestFilterZeroMaxAgeDisablesFiltering(t *testing.T) {
	items := []core.ContentItem{
		{Title: "ancient", PublishedAt: "2001-01-01T00:00:00Z"},
	}
	kept := Filter(items, 0, time.Now())
	if len(kept) != 1 {
		t.Errorf("expected filtering disabled, got %d items", len(kept))
	}
}

func TestFilterNormalizesOffsets(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	// Same instant expressed in a non-UTC zone must not change the verdict.
	items := []core.ContentItem{
		{Title: "offset fresh", PublishedAt: now.Add(-10 * time.Hour).In(time.FixedZone("X", 9*3600)).Format(time.RFC3339)},
	}
	kept := Filter(items, 72*time.Hour, now)
	if len(kept) != 1 {
		t.Errorf("expected offset timestamp treated as fresh, got %d items", len(kept))
	}
}
