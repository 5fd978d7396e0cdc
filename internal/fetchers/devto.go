package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"
)

const devtoAPIBase = "https://dev.to/api"

type devtoArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"published_at"`
	TagList     []string `json:"tag_list"`
	Reactions   int      `json:"positive_reactions_count"`
}

// DevTo fetches top articles from the Dev.to public API.
type DevTo struct {
	client  *http.Client
	baseURL string
	cfg     config.Sources
}

func NewDevTo(cfg config.Sources) *DevTo {
	return &DevTo{
		client:  newHTTPClient(cfg),
		baseURL: devtoAPIBase,
		cfg:     cfg,
	}
}

func (d *DevTo) Name() string { return "devto" }

// Fetch retrieves top articles of the day. Interest hints narrow the
// query by tag when present.
func (d *DevTo) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	url := d.baseURL + "/articles?top=1&per_page=20"
	if len(hints) > 0 {
		url += "&tag=" + sanitizeTag(hints[0])
	}

	articles, err := fetchJSON[[]devtoArticle](ctx, d.client, url, d.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -3)

	var items []core.ContentItem
	for _, article := range articles {
		if article.Title == "" || article.URL == "" {
			continue
		}
		published, err := time.Parse(time.RFC3339, article.PublishedAt)
		if err == nil && published.Before(cutoff) {
			continue
		}
		items = append(items, core.ContentItem{
			ID:          itemID(article.URL),
			Title:       article.Title,
			Description: truncate(cleanHTML(article.Description), 500),
			URL:         article.URL,
			Source:      "Dev.to",
			Category:    "tech_news",
			PublishedAt: article.PublishedAt,
			Keywords:    article.TagList,
		})
	}
	return capItems(items, d.cfg.MaxPerSource), nil
}

// sanitizeTag lowercases a hint and strips characters Dev.to tags do not
// allow.
func sanitizeTag(hint string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(hint) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
