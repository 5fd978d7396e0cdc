package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"

	"github.com/PuerkitoBio/goquery"
)

const devpostURL = "https://devpost.com/hackathons"

// Devpost scrapes the public hackathon listing page. Devpost has no
// stable public API, so this adapter is best effort and degrades to an
// empty result when the page layout changes.
type Devpost struct {
	client  *http.Client
	pageURL string
	cfg     config.Sources
}

func NewDevpost(cfg config.Sources) *Devpost {
	return &Devpost{
		client:  newHTTPClient(cfg),
		pageURL: devpostURL,
		cfg:     cfg,
	}
}

func (d *Devpost) Name() string { return "devpost" }

func (d *Devpost) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if d.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", d.cfg.UserAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	fetched := time.Now().UTC().Format(time.RFC3339)
	seen := map[string]bool{}

	var items []core.ContentItem
	doc.Find("div.hackathon-tile, a.hackathon-tile").Each(func(_ int, tile *goquery.Selection) {
		title := strings.TrimSpace(tile.Find("h3").First().Text())
		if title == "" {
			title = strings.TrimSpace(tile.Find("h2").First().Text())
		}
		if title == "" {
			return
		}

		link, ok := tile.Attr("href")
		if !ok {
			link, _ = tile.Find("a").First().Attr("href")
		}
		if link == "" {
			return
		}
		if strings.HasPrefix(link, "/") {
			link = "https://devpost.com" + link
		}
		if seen[link] {
			return
		}
		seen[link] = true

		prize := strings.TrimSpace(tile.Find(".prize-amount, .prize").First().Text())
		desc := "Hackathon accepting submissions"
		if prize != "" {
			desc = fmt.Sprintf("Hackathon with %s in prizes", prize)
		}

		items = append(items, core.ContentItem{
			ID:          itemID(link),
			Title:       title,
			Description: desc,
			URL:         link,
			Source:      "Devpost",
			Category:    "hackathon",
			PublishedAt: fetched,
		})
	})
	return capItems(items, d.cfg.MaxPerSource), nil
}
