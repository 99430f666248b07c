package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// testConfig trips after 4 failures for fast tests.
func testConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      4,
	}
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := New(testConfig("test-success"))

	result, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected 'ok', got %v", result)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed state, got %v", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := New(testConfig("test-open"))

	boom := errors.New("boom")
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, boom
		})
	}

	if !cb.IsOpen() {
		t.Fatalf("expected circuit to be open, state=%v", cb.State())
	}

	// While open, calls fail fast without invoking the function.
	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})

	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if called {
		t.Error("function should not run while circuit is open")
	}
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cb := New(testConfig("test-min-requests"))

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, boom
		})
	}

	if cb.IsOpen() {
		t.Error("circuit should stay closed below the minimum request count")
	}
}

func TestCircuitBreaker_Name(t *testing.T) {
	cb := New(DefaultConfig("webhooks"))
	if cb.Name() != "webhooks" {
		t.Errorf("expected name 'webhooks', got %q", cb.Name())
	}
}

func TestWebhookConfig(t *testing.T) {
	cfg := WebhookConfig()
	if cfg.Name != "webhook" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.FailureThreshold != 0.5 {
		t.Errorf("unexpected failure threshold %v", cfg.FailureThreshold)
	}
}
