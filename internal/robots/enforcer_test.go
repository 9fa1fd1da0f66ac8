package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestEnforcerRespectsDisallow(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		fetches.Add(1)
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	t.Cleanup(srv.Close)

	policy := NewEnforcer(true, "test-agent", 5*time.Second, zap.NewNop())
	ctx := context.Background()

	if !policy.Allowed(ctx, srv.URL+"/recipes/pie/") {
		t.Fatalf("expected /recipes/ to be allowed")
	}
	if policy.Allowed(ctx, srv.URL+"/private/secret/") {
		t.Fatalf("expected /private/ to be disallowed")
	}
	if policy.Allowed(ctx, srv.URL+"/private/") {
		t.Fatalf("expected /private/ to be disallowed")
	}

	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected robots.txt to be fetched once and cached, got %d fetches", got)
	}
}

func TestEnforcerDisabledAllowsEverything(t *testing.T) {
	t.Parallel()

	policy := NewEnforcer(false, "test-agent", time.Second, zap.NewNop())
	if !policy.Allowed(context.Background(), "https://example.com/private/") {
		t.Fatalf("disabled enforcer should allow every URL")
	}
}

func TestEnforcerFailsOpenOnFetchError(t *testing.T) {
	t.Parallel()

	policy := NewEnforcer(true, "test-agent", 500*time.Millisecond, zap.NewNop())
	if !policy.Allowed(context.Background(), "http://127.0.0.1:1/recipes/") {
		t.Fatalf("expected fetch failure to fail open")
	}
}

func TestEnforcerRejectsUnparseableURL(t *testing.T) {
	t.Parallel()

	policy := NewEnforcer(true, "test-agent", time.Second, zap.NewNop())
	if policy.Allowed(context.Background(), "://bad") {
		t.Fatalf("expected unparseable URL to be rejected")
	}
}
