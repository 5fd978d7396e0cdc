// Package github gathers behavioral evidence about a user from their
// public GitHub activity. Evidence is advisory; every failure degrades
// to empty evidence rather than failing the pipeline.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"daily5/internal/core"
	"daily5/internal/logger"
)

const apiBase = "https://api.github.com"

// Client talks to the GitHub REST API.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewClient(token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: apiBase,
		token:   token,
	}
}

type apiRepo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	HTMLURL     string `json:"html_url"`
	UpdatedAt   string `json:"updated_at"`
	Fork        bool   `json:"fork"`
	Topics      []string `json:"topics"`
}

// UserEvidence collects the user's recently active repositories, primary
// languages, and topics inferred from starred repos. A missing username
// or any API failure yields empty evidence.
func (c *Client) UserEvidence(ctx context.Context, username string) core.Evidence {
	if username == "" {
		return core.Evidence{}
	}

	evidence := core.Evidence{}

	repos, err := c.fetchRepos(ctx, fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=10", c.baseURL, username))
	if err != nil {
		logger.Warn("Failed to fetch user repos, continuing without evidence", "user", username, "error", err.Error())
		return evidence
	}

	languageCounts := map[string]int{}
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		updated, _ := time.Parse(time.RFC3339, repo.UpdatedAt)
		evidence.ActiveRepos = append(evidence.ActiveRepos, core.RepoActivity{
			Name:        repo.Name,
			FullName:    repo.FullName,
			Description: repo.Description,
			Language:    repo.Language,
			URL:         repo.HTMLURL,
			UpdatedAt:   updated,
		})
		if repo.Language != "" {
			languageCounts[repo.Language]++
		}
	}
	evidence.Languages = rankedLanguages(languageCounts)

	starred, err := c.fetchRepos(ctx, fmt.Sprintf("%s/users/%s/starred?per_page=30", c.baseURL, username))
	if err != nil {
		logger.Warn("Failed to fetch starred repos", "user", username, "error", err.Error())
		return evidence
	}
	evidence.StarredTopics = starredTopics(starred)

	return evidence
}

func (c *Client) fetchRepos(ctx context.Context, url string) ([]apiRepo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var repos []apiRepo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return repos, nil
}

// rankedLanguages orders languages by repo count, most used first.
func rankedLanguages(counts map[string]int) []string {
	languages := make([]string, 0, len(counts))
	for lang := range counts {
		languages = append(languages, lang)
	}
	sort.Slice(languages, func(i, j int) bool {
		if counts[languages[i]] != counts[languages[j]] {
			return counts[languages[i]] > counts[languages[j]]
		}
		return languages[i] < languages[j]
	})
	return languages
}

// starredTopics collects distinct topics and languages from starred
// repos, preserving first-seen order.
func starredTopics(repos []apiRepo) []string {
	seen := map[string]bool{}
	var topics []string
	add := func(topic string) {
		if topic == "" || seen[topic] {
			return
		}
		seen[topic] = true
		topics = append(topics, topic)
	}
	for _, repo := range repos {
		for _, topic := range repo.Topics {
			add(topic)
		}
		add(repo.Language)
	}
	return topics
}
