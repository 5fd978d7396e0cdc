package fetchers

import (
	"context"
	"fmt"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"

	"github.com/mmcdole/gofeed"
)

const productHuntFeed = "https://www.producthunt.com/feed"

// ProductHunt reads the public Product Hunt Atom feed.
type ProductHunt struct {
	parser  *gofeed.Parser
	feedURL string
	cfg     config.Sources
}

func NewProductHunt(cfg config.Sources) *ProductHunt {
	parser := gofeed.NewParser()
	if cfg.UserAgent != "" {
		parser.UserAgent = cfg.UserAgent
	}
	return &ProductHunt{
		parser:  parser,
		feedURL: productHuntFeed,
		cfg:     cfg,
	}
}

func (p *ProductHunt) Name() string { return "producthunt" }

func (p *ProductHunt) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	feed, err := p.parser.ParseURLWithContext(p.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var items []core.ContentItem
	for _, entry := range feed.Items {
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		published := entry.Published
		if published == "" && entry.PublishedParsed != nil {
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
			Source:      "Product Hunt",
			Category:    "product_launch",
			PublishedAt: published,
		})
	}
	return capItems(items, p.cfg.MaxPerSource), nil
}
