package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = flight.Do("schedule", func() (any, error) {
			executions.Add(1)
			close(started)
			<-release
			return "payload", nil
		})
	}()
	<-started

	const followers = 4
	results := make([]any, followers)
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, err := flight.Do("schedule", func() (any, error) {
				executions.Add(1)
				return "late", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = val
		}(i)
	}

	// Give the followers time to block on the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	for i, val := range results {
		if val != "payload" {
			t.Fatalf("follower %d got %v", i, val)
		}
	}
}

func TestSingleFlight_KeyClearsAfterCompletion(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	calls := 0
	for i := 0; i < 2; i++ {
		if _, err := flight.Do("k", func() (any, error) {
			calls++
			return nil, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("sequential calls must each execute, got %d", calls)
	}
}
