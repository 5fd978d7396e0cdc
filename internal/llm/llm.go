// Package llm turns ranked raw content into reader-facing
// recommendations using the Gemini API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"daily5/internal/core"
	"daily5/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

const enrichPromptTemplate = `You are writing a personalized daily digest for a developer.

READER PROFILE:
Name: %s
Interests: %s
Active repositories: %s
Primary languages: %s

CANDIDATE ITEMS (JSON):
%s

For each candidate worth recommending, write one digest entry. Rules:
- Body between 80 and 250 words of concrete, factual prose.
- Mention specific dates, numbers, and sources. Attribute every claim.
- Never invent facts, research attribution, or claims about the reader's private activity.
- No marketing filler ("game-changer", "worth exploring", "could be useful").
- Keep the item's original URL exactly as given.
- End the body with one concrete next step.

Respond with ONLY a JSON array, no other text:
[{"title": "...", "body": "...", "action": "...", "category": "...", "url": "..."}]`

// Client wraps a Gemini client for enrichment calls.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates an enrichment client. The API key is required.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required, set GEMINI_API_KEY or gemini.api_key in config")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// enrichedPayload is the JSON shape the model is asked to return.
type enrichedPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Action   string `json:"action"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// Enrich sends the ranked candidates to the model and parses its output
// into generated items. Model output not matching a candidate URL is
// dropped rather than trusted.
func (c *Client) Enrich(ctx context.Context, candidates []core.ScoredItem, profile core.UserProfile, evidence core.Evidence) ([]core.GeneratedItem, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	prompt, err := c.buildPrompt(candidates, profile, evidence)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	logger.Debug("Enrichment call completed", "model", c.model, "duration", time.Since(start).String())

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	return c.parseResponse(text, candidates)
}

func (c *Client) buildPrompt(candidates []core.ScoredItem, profile core.UserProfile, evidence core.Evidence) (string, error) {
	items, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidates: %w", err)
	}

	var repos []string
	for _, repo := range evidence.ActiveRepos {
		repos = append(repos, repo.FullName)
	}

	return fmt.Sprintf(enrichPromptTemplate,
		profile.Name,
		strings.Join(profile.Interests, ", "),
		strings.Join(repos, ", "),
		strings.Join(evidence.Languages, ", "),
		string(items),
	), nil
}

func (c *Client) parseResponse(text string, candidates []core.ScoredItem) ([]core.GeneratedItem, error) {
	payload := extractJSON(text)

	var enriched []enrichedPayload
	if err := json.Unmarshal([]byte(payload), &enriched); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	byURL := make(map[string]core.ScoredItem, len(candidates))
	for _, candidate := range candidates {
		byURL[candidate.URL] = candidate
	}

	var items []core.GeneratedItem
	for _, entry := range enriched {
		candidate, ok := byURL[entry.URL]
		if !ok {
			logger.Warn("Model returned unknown URL, dropping item", "url", entry.URL)
			continue
		}
		items = append(items, core.GeneratedItem{
			Title:          entry.Title,
			Body:           entry.Body,
			Action:         entry.Action,
			Category:       entry.Category,
			URL:            entry.URL,
			Source:         candidate.Source,
			PublishedAt:    candidate.PublishedAt,
			RelevanceScore: candidate.Relevance,
		})
	}
	return items, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// extractJSON pulls a JSON document out of model output that may be
// wrapped in markdown code fences or surrounding prose.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// Close releases the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}
