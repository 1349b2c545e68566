package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_Transitions(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(2, time.Minute)
	b.now = func() time.Time { return clock }

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow: %v", err)
	}
	b.RecordFailure()
	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker should reject, got %v", err)
	}

	// After the open timeout exactly one probe gets through.
	clock = clock.Add(time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be admitted: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second request during probe should be rejected, got %v", err)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow again: %v", err)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, time.Minute)
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	clock = clock.Add(time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be admitted: %v", err)
	}
	b.RecordFailure()

	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("failed probe should reopen, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("reopened breaker should reject, got %v", err)
	}
	// The timeout restarts from the failed probe.
	clock = clock.Add(time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("next probe should be admitted: %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(2, time.Minute)
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("non-consecutive failures must not trip the breaker, got %s", got)
	}
}
