package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

type RaceRepository struct {
	mu    sync.RWMutex
	items map[string]race.Race
}

func NewRaceRepository(seed []race.Race) *RaceRepository {
	items := make(map[string]race.Race, len(seed))
	for _, rc := range seed {
		items[rc.ID] = cloneRace(rc)
	}
	return &RaceRepository{items: items}
}

func (r *RaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceID]
	if !ok {
		return race.Race{}, false, nil
	}
	return cloneRace(item), true, nil
}

func (r *RaceRepository) GetBySeasonRound(_ context.Context, seasonID string, round int) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SeasonID == seasonID && item.Round == round {
			return cloneRace(item), true, nil
		}
	}
	return race.Race{}, false, nil
}

func (r *RaceRepository) ListBySeason(_ context.Context, seasonID string) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, cloneRace(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (r *RaceRepository) ListStartedWithoutResult(_ context.Context, before time.Time) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0)
	for _, item := range r.items {
		if item.StartsAt.Before(before) && !item.HasResult() {
			out = append(out, cloneRace(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *RaceRepository) Upsert(_ context.Context, rc race.Race) (race.Race, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.SeasonID == rc.SeasonID && item.Round == rc.Round {
			rc.ID = id
			if rc.Result == nil {
				rc.Result = item.Result
			}
			if rc.Sessions == nil {
				rc.Sessions = item.Sessions
			}
			break
		}
	}
	r.items[rc.ID] = cloneRace(rc)
	return cloneRace(rc), nil
}

func (r *RaceRepository) SetOfficialResult(_ context.Context, raceID string, result race.OfficialResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[raceID]
	if !ok {
		return fmt.Errorf("race %s not found", raceID)
	}
	item.Result = result.Clone()
	r.items[raceID] = item
	return nil
}

func cloneRace(rc race.Race) race.Race {
	copied := rc
	copied.Result = rc.Result.Clone()
	if rc.Sessions != nil {
		sessions := *rc.Sessions
		copied.Sessions = &sessions
	}
	return copied
}
