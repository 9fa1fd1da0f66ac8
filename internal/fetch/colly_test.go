package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewCollyFetcherRequiresUserAgent(t *testing.T) {
	t.Parallel()

	if _, err := NewCollyFetcher(Options{}, zap.NewNop()); err == nil {
		t.Fatalf("expected error for missing user agent")
	}
}

func TestFetchReturnsPage(t *testing.T) {
	t.Parallel()

	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	fetcher, err := NewCollyFetcher(Options{
		UserAgent:      "test-agent",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCollyFetcher() error = %v", err)
	}

	page, err := fetcher.Fetch(context.Background(), srv.URL+"/index.html")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", page.StatusCode)
	}
	if string(page.Body) != "<html><body>hello</body></html>" {
		t.Fatalf("unexpected body: %q", string(page.Body))
	}
	if page.Headers.Get("Content-Type") != "text/html" {
		t.Fatalf("expected content type header, got %q", page.Headers.Get("Content-Type"))
	}
	if gotAgent != "test-agent" {
		t.Fatalf("expected configured user agent, got %q", gotAgent)
	}
}

func TestFetchReportsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	fetcher, err := NewCollyFetcher(Options{UserAgent: "test-agent"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCollyFetcher() error = %v", err)
	}

	if _, err := fetcher.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 410 response")
	}
}

func TestFetchSameURLTwice(t *testing.T) {
	t.Parallel()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	fetcher, err := NewCollyFetcher(Options{UserAgent: "test-agent"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCollyFetcher() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := fetcher.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch() attempt %d error = %v", i+1, err)
		}
	}
	if hits != 2 {
		t.Fatalf("expected revisit to be allowed, got %d hits", hits)
	}
}
