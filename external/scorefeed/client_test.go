package scorefeed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/resilience"
	"github.com/kurtiswh/pigskin-picksix-sub006/internal/usecase"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		APIKey:         "feed-secret",
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestFetchScores_ParsesScoreboard(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "feed-secret" {
			t.Errorf("unexpected api_key: %s", got)
		}
		if got := r.URL.Query().Get("season"); got != "2025" {
			t.Errorf("unexpected season: %s", got)
		}
		if got := r.URL.Query().Get("week"); got != "3" {
			t.Errorf("unexpected week: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"games":[
			{"game_id":"2025-w3-uga-tenn","home_points":27,"away_points":13,"status":"final"},
			{"game_id":"2025-w3-osu-psu","home_points":14,"away_points":10,"status":"live"},
			{"game_id":"","status":"final"},
			{"game_id":"2025-w3-lsu-bama","status":"pre"}
		]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0, resilience.CircuitBreakerConfig{Enabled: false})

	reports, err := client.FetchScores(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("fetch scores failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}

	first := reports[0]
	if first.MatchupID != "2025-w3-uga-tenn" {
		t.Fatalf("unexpected matchup id: %s", first.MatchupID)
	}
	if first.Status != "completed" {
		t.Fatalf("expected final mapped to completed, got %s", first.Status)
	}
	if first.HomeScore == nil || *first.HomeScore != 27 {
		t.Fatalf("unexpected home score: %v", first.HomeScore)
	}
	if first.AwayScore == nil || *first.AwayScore != 13 {
		t.Fatalf("unexpected away score: %v", first.AwayScore)
	}

	if reports[1].Status != "in_progress" {
		t.Fatalf("expected live mapped to in_progress, got %s", reports[1].Status)
	}
	if reports[2].Status != "scheduled" {
		t.Fatalf("expected pre mapped to scheduled, got %s", reports[2].Status)
	}
	if reports[2].HomeScore != nil {
		t.Fatalf("expected nil home score for scheduled game")
	}
}

func TestFetchScores_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"games":[{"game_id":"g-1","status":"final"}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 2, resilience.CircuitBreakerConfig{Enabled: false})

	reports, err := client.FetchScores(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("fetch scores failed after retry: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestFetchScores_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad week"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 3, resilience.CircuitBreakerConfig{Enabled: false})

	if _, err := client.FetchScores(context.Background(), 2025, 1); err == nil {
		t.Fatalf("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries on 400, got %d calls", calls.Load())
	}
}

func TestFetchScores_CircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchScores(context.Background(), 2025, 1); err == nil {
			t.Fatalf("expected failure on attempt %d", i+1)
		}
	}

	_, err := client.FetchScores(context.Background(), 2025, 1)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once breaker opens, got %v", err)
	}
}

func TestFetchScores_RejectsInvalidScope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:0", 0, resilience.CircuitBreakerConfig{Enabled: false})

	if _, err := client.FetchScores(context.Background(), 0, 1); err == nil {
		t.Fatalf("expected error for season 0")
	}
	if _, err := client.FetchScores(context.Background(), 2025, 0); err == nil {
		t.Fatalf("expected error for week 0")
	}
}

func TestSanitizeSensitiveText_RedactsKey(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial failed for /games?api_key=feed-secret&week=1", "feed-secret")
	if got != "dial failed for /games?api_key=REDACTED&week=1" {
		t.Fatalf("unexpected sanitized text: %s", got)
	}

	if got := redactFeedURL("https://feed.example/v1/games?api_key=feed-secret&season=2025"); got == "https://feed.example/v1/games?api_key=feed-secret&season=2025" {
		t.Fatalf("expected api_key to be redacted, got %s", got)
	}
}
