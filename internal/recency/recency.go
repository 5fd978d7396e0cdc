// Package recency filters content items by publication age, tolerating
// the mix of timestamp formats the sources produce.
package recency

import (
	"strconv"
	"time"

	"daily5/internal/core"
	"daily5/internal/logger"
)

// timestampLayouts are tried in order when parsing a published-at value.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTimestamp parses a published-at string in any supported format
// and returns the time in UTC. Numeric strings are treated as Unix
// epoch seconds.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(epoch, 0).UTC(), true
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// Filter returns the items published within maxAge of now. Items whose
// timestamp is missing or unparseable pass through; sources already
// pre-filter by freshness, so an unreadable date is not evidence of
// stale content.
func Filter(items []core.ContentItem, maxAge time.Duration, now time.Time) []core.ContentItem {
	if maxAge <= 0 {
		return items
	}
	cutoff := now.UTC().Add(-maxAge)

	kept := make([]core.ContentItem, 0, len(items))
	dropped := 0
	for _, item := range items {
		ts, ok := ParseTimestamp(item.PublishedAt)
		if !ok {
			kept = append(kept, item)
			continue
		}
		if ts.Before(cutoff) {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	if dropped > 0 {
		logger.Debug("Filtered stale items", "dropped", dropped, "kept", len(kept))
	}
	return kept
}
