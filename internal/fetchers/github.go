package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"daily5/internal/config"
	"daily5/internal/core"
)

const githubAPIBase = "https://api.github.com"

type githubSearchResponse struct {
	Items []githubRepo `json:"items"`
}

type githubRepo struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Stars       int    `json:"stargazers_count"`
	Language    string `json:"language"`
	CreatedAt   string `json:"created_at"`
}

type githubRelease struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	Body        string `json:"body"`
	HTMLURL     string `json:"html_url"`
	PublishedAt string `json:"published_at"`
	Draft       bool   `json:"draft"`
	Prerelease  bool   `json:"prerelease"`
}

// GitHubTrending surfaces repositories created in the last week, ordered
// by stars, via the search API.
type GitHubTrending struct {
	client  *http.Client
	baseURL string
	cfg     config.Sources
}

func NewGitHubTrending(cfg config.Sources) *GitHubTrending {
	return &GitHubTrending{
		client:  newHTTPClient(cfg),
		baseURL: githubAPIBase,
		cfg:     cfg,
	}
}

func (g *GitHubTrending) Name() string { return "github_trending" }

func (g *GitHubTrending) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	since := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
	query := url.Values{}
	query.Set("q", "created:>"+since)
	query.Set("sort", "stars")
	query.Set("order", "desc")
	query.Set("per_page", "15")

	resp, err := fetchJSON[githubSearchResponse](ctx, g.client,
		g.baseURL+"/search/repositories?"+query.Encode(), g.cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	var items []core.ContentItem
	for _, repo := range resp.Items {
		desc := repo.Description
		if repo.Language != "" {
			desc = fmt.Sprintf("[%s, %d stars] %s", repo.Language, repo.Stars, desc)
		}
		items = append(items, core.ContentItem{
			ID:          itemID(repo.HTMLURL),
			Title:       "Trending: " + repo.FullName,
			Description: truncate(desc, 500),
			URL:         repo.HTMLURL,
			Source:      "GitHub Trending",
			Category:    "tech_news",
			PublishedAt: repo.CreatedAt,
			Keywords:    []string{repo.Language},
		})
	}
	return capItems(items, g.cfg.MaxPerSource), nil
}

// GitHubReleases fetches the latest release of each watched repository,
// keeping releases published within the last 30 days.
type GitHubReleases struct {
	client  *http.Client
	baseURL string
	cfg     config.Sources
}

func NewGitHubReleases(cfg config.Sources) *GitHubReleases {
	return &GitHubReleases{
		client:  newHTTPClient(cfg),
		baseURL: githubAPIBase,
		cfg:     cfg,
	}
}

func (g *GitHubReleases) Name() string { return "github_releases" }

func (g *GitHubReleases) Fetch(ctx context.Context, hints []string) ([]core.ContentItem, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	var items []core.ContentItem
	for _, repo := range g.cfg.WatchedRepos {
		if err := courtesyPause(ctx, g.cfg.CourtesyDelay); err != nil {
			return items, nil
		}

		release, err := fetchJSON[githubRelease](ctx, g.client,
			fmt.Sprintf("%s/repos/%s/releases/latest", g.baseURL, repo), g.cfg.UserAgent)
		if err != nil {
			// Repos without releases return 404; skip them.
			continue
		}
		if release.Draft || release.Prerelease {
			continue
		}
		published, err := time.Parse(time.RFC3339, release.PublishedAt)
		if err != nil || published.Before(cutoff) {
			continue
		}

		name := release.Name
		if name == "" {
			name = release.TagName
		}
		items = append(items, core.ContentItem{
			ID:          itemID(release.HTMLURL),
			Title:       fmt.Sprintf("%s released %s", repo, name),
			Description: truncate(cleanHTML(release.Body), 500),
			URL:         release.HTMLURL,
			Source:      "GitHub Releases",
			Category:    "release",
			PublishedAt: release.PublishedAt,
		})
	}
	return capItems(items, g.cfg.MaxPerSource), nil
}
