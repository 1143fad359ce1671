package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

func TestScheduler_RunsRegisteredTask(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Logger: logging.NewNop(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	err = s.Every("tick", 20*time.Millisecond, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("expected task context to carry a deadline")
		}
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	s.Start()
	defer func() { _ = s.Shutdown() }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("task did not run")
	}
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer func() { _ = s.Shutdown() }()

	if err := s.Every("tick", 0, func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected interval error")
	}
}
