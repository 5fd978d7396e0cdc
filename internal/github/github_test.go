package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUserEvidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/users/dev/repos":
			fmt.Fprint(w, `[
				{"name":"pipeliner","full_name":"dev/pipeliner","language":"Go","html_url":"https://github.com/dev/pipeliner","updated_at":"2026-08-29T08:00:00Z"},
				{"name":"scripts","full_name":"dev/scripts","language":"Go","html_url":"https://github.com/dev/scripts","updated_at":"2026-08-28T08:00:00Z"},
				{"name":"site","full_name":"dev/site","language":"TypeScript","html_url":"https://github.com/dev/site","updated_at":"2026-08-27T08:00:00Z"},
				{"name":"forked","full_name":"dev/forked","language":"Rust","fork":true,"updated_at":"2026-08-26T08:00:00Z"}
			]`)
		case "/users/dev/starred":
			fmt.Fprint(w, `[
				{"name":"db","language":"Go","topics":["database","storage"]},
				{"name":"ml","language":"Python","topics":["database"]}
			]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewClient("test-token", 5*time.Second)
	c.baseURL = server.URL

	evidence := c.UserEvidence(context.Background(), "dev")

	if len(evidence.ActiveRepos) != 3 {
		t.Fatalf("expected forks excluded, got %d repos", len(evidence.ActiveRepos))
	}
	if evidence.ActiveRepos[0].Name != "pipeliner" {
		t.Errorf("expected most recently updated repo first, got %q", evidence.ActiveRepos[0].Name)
	}
	if len(evidence.Languages) == 0 || evidence.Languages[0] != "Go" {
		t.Errorf("expected Go as primary language, got %v", evidence.Languages)
	}
	want := []string{"database", "storage", "Go", "Python"}
	if len(evidence.StarredTopics) != len(want) {
		t.Fatalf("expected %d topics, got %v", len(want), evidence.StarredTopics)
	}
	for i, topic := range want {
		if evidence.StarredTopics[i] != topic {
			t.Errorf("topic %d: expected %q, got %q", i, topic, evidence.StarredTopics[i])
		}
	}
}

func TestUserEvidenceDegradesOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient("", 5*time.Second)
	c.baseURL = server.URL

	evidence := c.UserEvidence(context.Background(), "dev")
	if len(evidence.ActiveRepos) != 0 || len(evidence.Languages) != 0 {
		t.Errorf("expected empty evidence on API failure, got %+v", evidence)
	}
}

func TestUserEvidenceEmptyUsername(t *testing.T) {
	c := NewClient("", time.Second)
	evidence := c.UserEvidence(context.Background(), "")
	if len(evidence.ActiveRepos) != 0 {
		t.Errorf("expected empty evidence without username, got %+v", evidence)
	}
}
