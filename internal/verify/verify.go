// Package verify checks that recommendation URLs are actually reachable
// before they go into an email. A broken link destroys reader trust, so
// the batch gate is zero-tolerance.
package verify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"daily5/internal/core"
	"daily5/internal/logger"
)

// Status classifies a verification outcome.
type Status string

const (
	StatusVerified   Status = "VERIFIED"   // URL responded 2xx or a redirect
	StatusSuspicious Status = "SUSPICIOUS" // URL responded but with a bad status
	StatusUnverified Status = "UNVERIFIED" // No response, or no real URL to check
)

// Result is the outcome of verifying one URL.
type Result struct {
	URL        string
	Status     Status
	StatusCode int
	Reason     string
}

// BatchResult aggregates results for a batch of items.
type BatchResult struct {
	AllVerified bool
	Results     []Result
	FailedItems []int // Indices of items whose URL did not verify
}

// Verifier issues HEAD requests with a bounded timeout.
type Verifier struct {
	client *http.Client
}

func NewVerifier(timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Verifier{
		client: &http.Client{Timeout: timeout},
	}
}

// VerifyURL checks one URL with a HEAD request. Redirects are followed;
// 404s and server errors are suspicious; transport failures are
// unverified.
func (v *Verifier) VerifyURL(ctx context.Context, url string) Result {
	if url == "" || url == "#" || strings.Contains(strings.ToLower(url), "placeholder") {
		return Result{URL: url, Status: StatusUnverified, Reason: "placeholder or empty URL"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Result{URL: url, Status: StatusUnverified, Reason: fmt.Sprintf("invalid URL: %v", err)}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{URL: url, Status: StatusUnverified, Reason: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return Result{URL: url, Status: StatusVerified, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		return Result{URL: url, Status: StatusSuspicious, StatusCode: resp.StatusCode, Reason: "URL not found"}
	case resp.StatusCode >= 500:
		return Result{URL: url, Status: StatusSuspicious, StatusCode: resp.StatusCode, Reason: "server error"}
	default:
		return Result{URL: url, Status: StatusSuspicious, StatusCode: resp.StatusCode, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
}

// VerifyAll checks every item's URL concurrently. Any non-verified URL
// marks the whole batch as failed.
func (v *Verifier) VerifyAll(ctx context.Context, items []core.GeneratedItem) BatchResult {
	results := make([]Result, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i] = v.VerifyURL(ctx, url)
		}(i, item.URL)
	}
	wg.Wait()

	batch := BatchResult{AllVerified: true, Results: results}
	for i, result := range results {
		if result.Status != StatusVerified {
			batch.AllVerified = false
			batch.FailedItems = append(batch.FailedItems, i)
			logger.Warn("URL failed verification", "url", result.URL, "status", string(result.Status), "reason", result.Reason)
		}
	}
	return batch
}
