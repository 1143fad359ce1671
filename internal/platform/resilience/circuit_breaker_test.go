package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestBreaker(t *testing.T, threshold int) (*CircuitBreaker, *time.Time) {
	t.Helper()

	b := NewCircuitBreaker("f1data", CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      10 * time.Second,
		HalfOpenMaxReq:   1,
	})
	now := time.Date(2025, 3, 16, 5, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	t.Parallel()

	b, now := newTestBreaker(t, 2)

	var (
		mu          sync.Mutex
		transitions []CircuitState
	)
	b.OnStateChange(func(_ string, _, to CircuitState) {
		mu.Lock()
		transitions = append(transitions, to)
		mu.Unlock()
	})

	for i := 0; i < 2; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow #%d: %v", i, err)
		}
		b.RecordFailure()
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state=%s want open", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	*now = now.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe should be rejected, got %v", err)
	}
	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state=%s want closed", got)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("transitions=%v want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions=%v want %v", transitions, want)
		}
	}
}

func TestCircuitBreaker_DoIgnoresNonFailures(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(t, 1)
	notFound := errors.New("not found")

	err := b.Do(func() error { return notFound }, func(err error) bool { return !errors.Is(err, notFound) })
	if !errors.Is(err, notFound) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state=%s want closed", got)
	}

	_ = b.Do(func() error { return errors.New("boom") }, nil)
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state=%s want open", got)
	}
}

func TestCircuitBreaker_NilIsPassThrough(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker("disabled", CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker for disabled config")
	}
	if err := b.Do(func() error { return nil }, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state=%s want closed", got)
	}
}
