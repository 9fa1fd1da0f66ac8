package scraper

import (
	"context"
	"errors"
	"testing"
	"time"
)

type timeoutErr struct{ timeout bool }

func (e *timeoutErr) Error() string   { return "net error" }
func (e *timeoutErr) Timeout() bool   { return e.timeout }
func (e *timeoutErr) Temporary() bool { return e.timeout }

func TestShouldRetry(t *testing.T) {
	t.Parallel()

	policy := NewExponentialRetryPolicy(3)

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{"nil error", nil, 1, false},
		{"generic error", errors.New("boom"), 1, true},
		{"attempts exhausted", errors.New("boom"), 3, false},
		{"context canceled", context.Canceled, 1, false},
		{"deadline exceeded", context.DeadlineExceeded, 1, false},
		{"net timeout", &timeoutErr{timeout: true}, 1, true},
		{"net non-timeout", &timeoutErr{timeout: false}, 1, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := policy.ShouldRetry(tt.err, tt.attempt); got != tt.want {
				t.Fatalf("ShouldRetry(%v, %d) = %v, want %v", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestBackoffStaysWithinBounds(t *testing.T) {
	t.Parallel()

	policy := NewExponentialRetryPolicy(5)
	for attempt := 0; attempt < 8; attempt++ {
		d := policy.Backoff(attempt)
		if d < 0 {
			t.Fatalf("attempt %d: negative backoff %v", attempt, d)
		}
		if d > 5*time.Second {
			t.Fatalf("attempt %d: backoff %v above cap", attempt, d)
		}
	}
}

func TestNewExponentialRetryPolicyDefaultsAttempts(t *testing.T) {
	t.Parallel()

	policy := NewExponentialRetryPolicy(0)
	if !policy.ShouldRetry(errors.New("boom"), 2) {
		t.Fatalf("expected default policy to allow a second attempt")
	}
	if policy.ShouldRetry(errors.New("boom"), 3) {
		t.Fatalf("expected default policy to stop at three attempts")
	}
}
