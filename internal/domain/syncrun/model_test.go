package syncrun

import (
	"errors"
	"testing"
	"time"
)

func TestRun_Finish(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)

	ok := Run{}
	ok.Finish(nil, now)
	if ok.Status != StatusSucceeded || ok.FinishedAt == nil {
		t.Fatalf("unexpected run: %+v", ok)
	}

	partial := Run{Errors: []string{"room r2: boom"}}
	partial.Finish(nil, now)
	if partial.Status != StatusPartial {
		t.Fatalf("status=%s want partial", partial.Status)
	}

	failed := Run{}
	failed.Finish(errors.New("provider unavailable"), now)
	if failed.Status != StatusFailed || failed.Message != "provider unavailable" {
		t.Fatalf("unexpected failed run: %+v", failed)
	}
}
