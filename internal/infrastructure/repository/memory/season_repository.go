package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[string]season.Season
}

func NewSeasonRepository(seed []season.Season) *SeasonRepository {
	items := make(map[string]season.Season, len(seed))
	for _, s := range seed {
		items[s.ID] = s
	}
	return &SeasonRepository{items: items}
}

// List returns seasons newest first.
func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[seasonID]
	return item, ok, nil
}

func (r *SeasonRepository) GetByYear(_ context.Context, year int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.items {
		if s.Year == year {
			return s, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) Upsert(_ context.Context, s season.Season) (season.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[s.ID] = s
	return s, nil
}
