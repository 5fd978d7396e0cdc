package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"
)

const redditBase = "https://www.reddit.com"

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	URL        string  `json:"url"`
	CreatedUTC float64 `json:"created_utc"`
	Subreddit  string  `json:"subreddit"`
	Stickied   bool    `json:"stickied"`
	Score      int     `json:"score"`
}

// Reddit fetches hot posts from the configured subreddits via the public
// JSON endpoints. Reddit requires a descriptive User-Agent.
type Reddit struct {
	client  *http.Client
	baseURL string
	cfg     config.Sources
}

func NewReddit(cfg config.Sources) *Reddit {
	return &Reddit{
		client:  newHTTPClient(cfg),
		baseURL: redditBase,
		cfg:     cfg,
	}
}

func (r *Reddit) Name() string { return "reddit" }

func (r *Reddit) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	subreddits := r.cfg.Subreddits
	if len(subreddits) == 0 {
		subreddits = []string{"programming"}
	}

	var items []core.ContentItem
	var lastErr error
	for _, sub := range subreddits {
		if err := courtesyPause(ctx, r.cfg.CourtesyDelay); err != nil {
			return items, nil
		}

		listing, err := fetchJSON[redditListing](ctx, r.client,
			fmt.Sprintf("%s/r/%s/hot.json?limit=15", r.baseURL, sub), r.cfg.UserAgent)
		if err != nil {
			lastErr = fmt.Errorf("subreddit %s: %w", sub, err)
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied || post.Title == "" {
				continue
			}
			permalink := r.baseURL + post.Permalink
			items = append(items, core.ContentItem{
				ID:          itemID(permalink),
				Title:       post.Title,
				Description: truncate(cleanHTML(post.Selftext), 500),
				URL:         permalink,
				Source:      "Reddit r/" + post.Subreddit,
				Category:    "discussion",
				PublishedAt: time.Unix(int64(post.CreatedUTC), 0).UTC().Format(time.RFC3339),
			})
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return capItems(items, r.cfg.MaxPerSource), nil
}
