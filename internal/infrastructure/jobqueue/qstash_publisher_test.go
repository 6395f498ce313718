package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
)

func TestQStashPublisher_Enqueue(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotDelay, gotDedup, gotForward, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDelay = r.Header.Get("Upstash-Delay")
		gotDedup = r.Header.Get("Upstash-Deduplication-Id")
		gotForward = r.Header.Get("Upstash-Forward-X-Internal-Job-Token")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://picksix.example",
		InternalJobToken: "job-secret",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(),
		"/v1/internal/jobs/poll-scores",
		map[string]int{"season": 2025, "week": 3},
		90*time.Second,
		"poll-scores-2025-3",
	)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/v2/publish/") {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	if !strings.Contains(gotPath, "picksix.example/v1/internal/jobs/poll-scores") {
		t.Fatalf("target url missing from publish path: %s", gotPath)
	}
	if gotAuth != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if gotDelay != "90s" {
		t.Fatalf("unexpected delay header: %s", gotDelay)
	}
	if gotDedup != "poll-scores-2025-3" {
		t.Fatalf("unexpected dedup header: %s", gotDedup)
	}
	if gotForward != "job-secret" {
		t.Fatalf("unexpected forward token header: %s", gotForward)
	}
	if !strings.Contains(gotBody, `"season":2025`) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestQStashPublisher_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "not a url",
		TargetBaseURL: "https://picksix.example",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/poll-scores", nil, 0, ""); err == nil {
		t.Fatalf("expected error for invalid base url")
	}

	publisher = NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.example",
		TargetBaseURL: "https://picksix.example",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "   ", nil, 0, ""); err == nil {
		t.Fatalf("expected error for empty job path")
	}
}
