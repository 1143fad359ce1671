package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	racemock "github.com/riskibarqy/race-predictor/internal/mocks/domain/race"
)

type fakeSyncer struct {
	failures map[string]error
	calls    []string
	triggers []syncrun.Trigger
}

func (f *fakeSyncer) SyncRace(_ context.Context, raceID string, trigger syncrun.Trigger) (SyncResult, error) {
	f.calls = append(f.calls, raceID)
	f.triggers = append(f.triggers, trigger)
	if err := f.failures[raceID]; err != nil {
		return SyncResult{RaceID: raceID}, err
	}
	return SyncResult{RaceID: raceID, Success: true}, nil
}

func TestPollerService_Run_SyncsOnlyRacesPastGrace(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 8, 20, 0, 0, 0, time.UTC)
	races := racemock.NewRepository(t)
	syncer := &fakeSyncer{}

	finished := testRace("race-2026-01", "season-2026", now.Add(-7*24*time.Hour))
	justEnded := testRace("race-2026-02", "season-2026", now.Add(-150*time.Minute))
	justEnded.Round = 2
	boundary := testRace("race-2026-03", "season-2026", now.Add(-3*time.Hour))
	boundary.Round = 3

	races.On("ListStartedWithoutResult", anyCtx, now).
		Return([]race.Race{finished, justEnded, boundary}, nil).
		Once()

	var slept []time.Duration
	svc := newPollerService(races, syncer, nil, PollerConfig{
		RaceDuration:   2 * time.Hour,
		GracePeriod:    time.Hour,
		InterRaceDelay: time.Second,
	}, nil)
	svc.now = fixedClock(now)
	svc.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	got, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run poller: %v", err)
	}
	if got.RacesFound != 3 || got.RacesSynced != 2 || got.RacesSkipped != 1 || got.RacesFailed != 0 {
		t.Fatalf("unexpected poll result: %+v", got)
	}
	if len(syncer.calls) != 2 || syncer.calls[0] != finished.ID || syncer.calls[1] != boundary.ID {
		t.Fatalf("unexpected synced races: %v", syncer.calls)
	}
	for _, trig := range syncer.triggers {
		if trig != syncrun.TriggerPoller {
			t.Fatalf("unexpected trigger: %s", trig)
		}
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected one pause between syncs, got %v", slept)
	}
}

func TestPollerService_Run_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 8, 20, 0, 0, 0, time.UTC)
	races := racemock.NewRepository(t)
	first := testRace("race-2026-01", "season-2026", now.Add(-72*time.Hour))
	second := testRace("race-2026-02", "season-2026", now.Add(-48*time.Hour))
	second.Round = 2

	races.On("ListStartedWithoutResult", anyCtx, now).Return([]race.Race{first, second}, nil).Once()

	syncer := &fakeSyncer{failures: map[string]error{first.ID: ErrNotReady}}
	svc := newPollerService(races, syncer, nil, PollerConfig{}, nil)
	svc.now = fixedClock(now)
	svc.sleep = noSleep

	got, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run poller: %v", err)
	}
	if got.RacesFailed != 1 || got.RacesSynced != 1 {
		t.Fatalf("unexpected poll result: %+v", got)
	}
	if len(got.Errors) != 1 {
		t.Fatalf("expected one error entry, got %v", got.Errors)
	}
	if len(syncer.calls) != 2 {
		t.Fatalf("each race should be attempted exactly once, got %v", syncer.calls)
	}
}

func TestPollerService_Run_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 8, 20, 0, 0, 0, time.UTC)
	races := racemock.NewRepository(t)
	first := testRace("race-2026-01", "season-2026", now.Add(-72*time.Hour))
	second := testRace("race-2026-02", "season-2026", now.Add(-48*time.Hour))

	races.On("ListStartedWithoutResult", anyCtx, now).Return([]race.Race{first, second}, nil).Once()

	syncer := &fakeSyncer{}
	svc := newPollerService(races, syncer, nil, PollerConfig{}, nil)
	svc.now = fixedClock(now)
	svc.sleep = func(context.Context, time.Duration) error { return context.Canceled }

	got, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run poller: %v", err)
	}
	if len(syncer.calls) != 1 || got.RacesSynced != 1 || len(got.Errors) != 1 {
		t.Fatalf("expected the run to stop after the first race: calls=%v result=%+v", syncer.calls, got)
	}
}

func TestPollerService_Run_ListError(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 8, 20, 0, 0, 0, time.UTC)
	races := racemock.NewRepository(t)
	races.On("ListStartedWithoutResult", anyCtx, now).Return(nil, errors.New("db unavailable")).Once()

	svc := newPollerService(races, &fakeSyncer{}, nil, PollerConfig{}, nil)
	svc.now = fixedClock(now)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected list error to surface")
	}
}
