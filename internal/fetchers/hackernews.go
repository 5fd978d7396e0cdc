package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"
)

const hnAPIBase = "https://hacker-news.firebaseio.com/v0"

type hnItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
	Type  string `json:"type"`
}

// HackerNews fetches recent stories from the Hacker News Firebase API.
type HackerNews struct {
	client  *http.Client
	baseURL string
	cfg     config.Sources
}

func NewHackerNews(cfg config.Sources) *HackerNews {
	return &HackerNews{
		client:  newHTTPClient(cfg),
		baseURL: hnAPIBase,
		cfg:     cfg,
	}
}

func (h *HackerNews) Name() string { return "hackernews" }

// Fetch retrieves new story IDs and resolves each one, keeping stories
// published within the last 24 hours. Individual story failures are
// skipped; only a failure to list IDs fails the source.
func (h *HackerNews) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	ids, err := fetchJSON[[]int](ctx, h.client, h.baseURL+"/newstories.json", h.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	maxItems := h.cfg.MaxPerSource
	if maxItems <= 0 {
		maxItems = 20
	}
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	var items []core.ContentItem
	for _, id := range ids {
		if len(items) >= maxItems {
			break
		}
		if err := courtesyPause(ctx, h.cfg.CourtesyDelay); err != nil {
			return items, nil
		}

		story, err := fetchJSON[hnItem](ctx, h.client, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), h.cfg.UserAgent)
		if err != nil {
			continue
		}
		if story.Type != "story" || story.Title == "" {
			continue
		}
		published := time.Unix(story.Time, 0).UTC()
		if published.Before(cutoff) {
			continue
		}

		url := story.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
		}

		items = append(items, core.ContentItem{
			ID:          itemID(url),
			Title:       story.Title,
			Description: truncate(cleanHTML(story.Text), 500),
			URL:         url,
			Source:      "Hacker News",
			Category:    "discussion",
			PublishedAt: published.Format(time.RFC3339),
		})
	}
	return items, nil
}
