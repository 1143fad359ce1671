package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

func TestNextRace(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	round := func(n int, startsAt time.Time, scored bool) race.Race {
		r := testRace(fmt.Sprintf("race-2026-%02d", n), "season-2026", startsAt)
		r.Round = n
		if scored {
			res := testResult()
			r.Result = &res
		}
		return r
	}

	t.Run("prefers the earliest upcoming round", func(t *testing.T) {
		t.Parallel()

		items := []race.Race{
			round(3, now.Add(14*24*time.Hour), false),
			round(1, now.Add(-7*24*time.Hour), true),
			round(2, now.Add(3*24*time.Hour), false),
		}
		got := nextRace(items, now)
		if got == nil || got.Round != 2 {
			t.Fatalf("unexpected next race: %+v", got)
		}
	})

	t.Run("falls back to a started race still awaiting results", func(t *testing.T) {
		t.Parallel()

		items := []race.Race{
			round(1, now.Add(-7*24*time.Hour), true),
			round(2, now.Add(-2*time.Hour), false),
		}
		got := nextRace(items, now)
		if got == nil || got.Round != 2 {
			t.Fatalf("unexpected next race: %+v", got)
		}
	})

	t.Run("nil when the season is complete", func(t *testing.T) {
		t.Parallel()

		items := []race.Race{round(1, now.Add(-7*24*time.Hour), true)}
		if got := nextRace(items, now); got != nil {
			t.Fatalf("expected no next race, got %+v", got)
		}
	})
}
