package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"daily5/internal/core"
)

func sampleItems() []core.GeneratedItem {
	return []core.GeneratedItem{
		{
			Title:    "Go 1.25 released",
			Body:     "The release ships a faster linker.",
			Action:   "Read the release notes",
			Category: "release",
			URL:      "https://go.dev/blog/go1.25",
			Source:   "GitHub Releases",
		},
		{
			Title:    "Postgres tuning thread",
			Body:     "A long discussion on shared_buffers sizing.",
			Category: "discussion",
			URL:      "https://news.ycombinator.com/item?id=1",
			Source:   "Hacker News",
		},
	}
}

func TestRenderDigest(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	profile := core.UserProfile{Name: "Dev", Email: "dev@example.com"}

	subject, html, err := Render(nil, profile, sampleItems(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if subject != "Your Daily 5 - August 30" {
		t.Errorf("unexpected subject %q", subject)
	}
	for _, want := range []string{
		"Your Daily 5, Dev",
		"Saturday, August 30, 2026",
		"Go 1.25 released",
		`href="https://go.dev/blog/go1.25"`,
		"Next step: Read the release notes",
		"2 picks",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestRenderEscapesContent(t *testing.T) {
	items := []core.GeneratedItem{
		{Title: "<script>alert(1)</script>", Body: "safe", URL: "https://example.com"},
		{Title: "b", Body: "safe", URL: "https://example.com"},
	}
	_, html, err := Render(nil, core.UserProfile{}, items, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("expected title to be HTML-escaped")
	}
}

func TestRenderAnonymousProfile(t *testing.T) {
	_, html, err := Render(nil, core.UserProfile{}, sampleItems(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "Your Daily 5,") {
		t.Error("expected no name suffix for anonymous profile")
	}
}

func TestResendSenderSend(t *testing.T) {
	var got resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key-123" {
			t.Errorf("missing auth header, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewResendSender("key-123", "digest@example.com", 5*time.Second)
	s.apiURL = server.URL

	err := s.Send(context.Background(), "dev@example.com", "Subject", "<p>hi</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.From != "digest@example.com" || len(got.To) != 1 || got.To[0] != "dev@example.com" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestResendSenderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer server.Close()

	s := NewResendSender("key-123", "bad", 5*time.Second)
	s.apiURL = server.URL

	err := s.Send(context.Background(), "dev@example.com", "Subject", "<p>hi</p>")
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Errorf("expected API error with status, got %v", err)
	}
}

func TestResendSenderRequiresKey(t *testing.T) {
	s := NewResendSender("", "digest@example.com", time.Second)
	if err := s.Send(context.Background(), "dev@example.com", "s", "h"); err == nil {
		t.Error("expected error without API key")
	}
}
