package scoreline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poolhouse/confidence-pool/internal/platform/logging"
)

const seasonPayload = `{
	"season": 2025,
	"weeks": [
		{"week": 2, "games": [
			{"home": "DAL", "visitor": "PHI", "kickoff": "2025-09-14T17:00:00Z", "status": "pregame"}
		]},
		{"week": 1, "games": [
			{"home": "NE", "visitor": "NYJ", "kickoff": "2025-09-07T17:00:00Z", "status": "final", "homeScore": 21, "visitorScore": 14},
			{"home": "GB", "visitor": "CHI", "kickoff": "not-a-time", "status": "pregame"}
		]},
		{"week": 3, "games": []}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "secret-token",
		Season:     2025,
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
	})
}

func TestClient_FetchSeason(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seasons/2025/schedule" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "secret-token" {
			t.Error("missing token query param")
		}
		_, _ = w.Write([]byte(seasonPayload))
	}, 0)

	weeks, err := client.FetchSeason(context.Background())
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}

	// Sorted by week; the empty week 3 is dropped; the unparseable kickoff is
	// skipped without failing the fetch.
	if len(weeks) != 2 || weeks[0].Week != 1 || weeks[1].Week != 2 {
		t.Fatalf("unexpected weeks: %+v", weeks)
	}
	if len(weeks[0].Matchups) != 1 {
		t.Fatalf("bad kickoff matchup should be skipped: %+v", weeks[0].Matchups)
	}
	first := weeks[0].Matchups[0]
	if first.HomeRef != "NE" || first.VisitorRef != "NYJ" || first.Status != "FINAL" {
		t.Fatalf("unexpected matchup: %+v", first)
	}
	if first.HomeScore == nil || *first.HomeScore != 21 {
		t.Fatalf("score not carried: %+v", first)
	}
}

func TestClient_FetchSeason_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(seasonPayload))
	}, 2)

	if _, err := client.FetchSeason(context.Background()); err != nil {
		t.Fatalf("fetch season after retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_FetchSeason_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}, 3)

	if _, err := client.FetchSeason(context.Background()); err == nil {
		t.Fatal("expected error for forbidden response")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("client errors must not retry, got %d attempts", got)
	}
}
