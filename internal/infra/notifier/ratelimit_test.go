package notifier

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewRateLimiter(1.0, 3)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Allow(ctx); err != nil {
			t.Fatalf("unexpected error on request %d: %v", i+1, err)
		}
	}

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst requests should not block, took %v", elapsed)
	}
}

func TestRateLimiter_BlocksBeyondBurst(t *testing.T) {
	limiter := NewRateLimiter(10.0, 1)

	ctx := context.Background()
	if err := limiter.Allow(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	if err := limiter.Allow(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second request must wait for a token (10 req/s = 100ms).
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected second request to block, took %v", elapsed)
	}
}

func TestRateLimiter_RespectsContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(0.1, 1)

	ctx := context.Background()
	if err := limiter.Allow(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	canceled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := limiter.Allow(canceled); err == nil {
		t.Error("expected error when context deadline expires before a token is available")
	}
}
