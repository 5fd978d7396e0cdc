// Package fetchers provides one adapter per content source, each
// normalizing its results into core.ContentItem.
package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"
	"daily5/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Fetcher is implemented by every content source adapter. Fetch may
// return an error for whole-source failures; FetchAll converts those to
// empty results so a single bad source never fails the batch.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error)
}

// Result aggregates the outcome of fanning out to all sources.
type Result struct {
	Items         []core.ContentItem
	SourcesOK     int
	SourcesFailed int
	Errors        []error
}

// FetchAll runs every fetcher concurrently under a bounded semaphore and
// merges the results. Failed sources contribute nothing but are recorded;
// the caller treats "source failed" and "source empty" identically.
func FetchAll(ctx context.Context, fetchers []Fetcher, hints []string, maxConcurrency int) *Result {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}

	result := &Result{}
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, f := range fetchers {
		wg.Add(1)
		sem <- struct{}{}

		go func(f Fetcher) {
			defer wg.Done()
			defer func() { <-sem }()

			items, err := f.Fetch(ctx, hints)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("Source fetch failed", err, "source", f.Name())
				result.SourcesFailed++
				result.Errors = append(result.Errors, fmt.Errorf("source %s: %w", f.Name(), err))
				return
			}
			result.SourcesOK++
			result.Items = append(result.Items, items...)
			logger.Debug("Source fetched", "source", f.Name(), "items", len(items))
		}(f)
	}

	wg.Wait()
	return result
}

// Enabled constructs the fetchers named in the sources configuration.
// Unknown names are skipped with a warning.
func Enabled(cfg config.Sources) []Fetcher {
	var fetchers []Fetcher
	for _, name := range cfg.Enabled {
		switch name {
		case "hackernews":
			fetchers = append(fetchers, NewHackerNews(cfg))
		case "github_trending":
			fetchers = append(fetchers, NewGitHubTrending(cfg))
		case "github_releases":
			fetchers = append(fetchers, NewGitHubReleases(cfg))
		case "devto":
			fetchers = append(fetchers, NewDevTo(cfg))
		case "reddit":
			fetchers = append(fetchers, NewReddit(cfg))
		case "producthunt":
			fetchers = append(fetchers, NewProductHunt(cfg))
		case "devpost":
			fetchers = append(fetchers, NewDevpost(cfg))
		default:
			logger.Warn("Unknown source in configuration", "source", name)
		}
	}
	for _, feed := range cfg.RSSFeeds {
		fetchers = append(fetchers, NewRSS(cfg, feed))
	}
	return fetchers
}

// newHTTPClient returns a client with the configured timeout. Each
// fetcher owns its client; there is no shared mutable state across
// sources.
func newHTTPClient(cfg config.Sources) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// fetchJSON issues a GET request and decodes the JSON response body.
func fetchJSON[T any](ctx context.Context, client *http.Client, url, userAgent string) (T, error) {
	var result T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

// itemID creates a deterministic ID for a content item based on its URL.
func itemID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// cleanHTML strips markup from a description blob and collapses
// whitespace. Sources routinely embed HTML fragments in summaries.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	text := doc.Text()
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// courtesyPause sleeps for the configured delay between sequential
// requests to the same host, unless the context is done first.
func courtesyPause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// capItems applies the per-source item limit.
func capItems(items []core.ContentItem, max int) []core.ContentItem {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
