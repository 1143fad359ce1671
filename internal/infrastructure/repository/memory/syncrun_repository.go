package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu    sync.RWMutex
	items map[string]syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{items: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Save(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.Errors = slices.Clone(run.Errors)
	r.items[run.ID] = run
	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, runID string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[runID]
	return run, ok, nil
}

// ListByRace returns the newest runs first.
func (r *SyncRunRepository) ListByRace(_ context.Context, raceID string, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.Run, 0)
	for _, run := range r.items {
		if run.RaceID == raceID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
