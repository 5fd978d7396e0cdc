package fetchers

import (
	"context"
	"fmt"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"

	"github.com/mmcdole/gofeed"
)

// RSS is a generic adapter for any configured RSS or Atom feed.
type RSS struct {
	parser *gofeed.Parser
	feed   config.RSSFeed
	cfg    config.Sources
}

func NewRSS(cfg config.Sources, feed config.RSSFeed) *RSS {
	parser := gofeed.NewParser()
	if cfg.UserAgent != "" {
		parser.UserAgent = cfg.UserAgent
	}
	return &RSS{
		parser: parser,
		feed:   feed,
		cfg:    cfg,
	}
}

func (r *RSS) Name() string { return "rss:" + r.feed.Name }

func (r *RSS) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	feed, err := r.parser.ParseURLWithContext(r.feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", r.feed.Name, err)
	}

	category := r.feed.Category
	if category == "" {
		category = "tech_news"
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -3)

	var items []core.ContentItem
	for _, entry := range feed.Items {
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		published := entry.Published
		if entry.PublishedParsed != nil {
			if entry.PublishedParsed.Before(cutoff) {
				continue
			}
			published = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}
		if published == "" {
			published = time.Now().UTC().Format(time.RFC3339)
		}
		items = append(items, core.ContentItem{
			ID:          itemID(entry.Link),
			Title:       entry.Title,
			Description: truncate(cleanHTML(entry.Description), 500),
			URL:         entry.Link,
			Source:      r.feed.Name,
			Category:    category,
			PublishedAt: published,
			Keywords:    entry.Categories,
		})
	}
	return capItems(items, r.cfg.MaxPerSource), nil
}
