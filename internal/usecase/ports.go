package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/driver"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

// ExternalRace is one calendar entry as normalized by the race-data adapter.
type ExternalRace struct {
	Round    int
	Name     string
	Circuit  string
	Location string
	Country  string
	StartsAt time.Time
	Sessions *race.SessionTimes
}

// RaceDataProvider is the single boundary to the external race-data source.
// Implementations return ErrNotReady when a result has not been published
// and ErrDependencyUnavailable for transport failures.
type RaceDataProvider interface {
	FetchRaceResult(ctx context.Context, rc race.Race) (race.OfficialResult, error)
	FetchSeasonSchedule(ctx context.Context, year int) ([]ExternalRace, error)
	FetchDrivers(ctx context.Context) ([]driver.Driver, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// SyncMetrics receives race-sync outcomes.
type SyncMetrics interface {
	ObserveRaceSync(trigger, status string, duration time.Duration)
	ObserveRoomScored(created, updated int)
	ObservePollerRun(processed, synced, skipped, failed int)
}

type noopSyncMetrics struct{}

func (noopSyncMetrics) ObserveRaceSync(string, string, time.Duration) {}
func (noopSyncMetrics) ObserveRoomScored(int, int)                    {}
func (noopSyncMetrics) ObservePollerRun(int, int, int, int)           {}

func NewNoopSyncMetrics() SyncMetrics {
	return noopSyncMetrics{}
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
