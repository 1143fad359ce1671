package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

type ScoreRepository struct {
	mu    sync.RWMutex
	items map[string]scoring.Score
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{items: make(map[string]scoring.Score)}
}

func (r *ScoreRepository) Upsert(_ context.Context, s scoring.Score) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := predictionKey(s.RoomID, s.RaceID, s.UserID)
	_, exists := r.items[key]
	r.items[key] = s
	return !exists, nil
}

func (r *ScoreRepository) ListByRoomRace(_ context.Context, roomID, raceID string) ([]scoring.Score, error) {
	return r.list(func(s scoring.Score) bool { return s.RoomID == roomID && s.RaceID == raceID }), nil
}

func (r *ScoreRepository) ListByRoom(_ context.Context, roomID string) ([]scoring.Score, error) {
	return r.list(func(s scoring.Score) bool { return s.RoomID == roomID }), nil
}

func (r *ScoreRepository) CountByRoomRace(_ context.Context, roomID, raceID string) (int, error) {
	return len(r.list(func(s scoring.Score) bool { return s.RoomID == roomID && s.RaceID == raceID })), nil
}

func (r *ScoreRepository) ListByRoomUser(_ context.Context, roomID, userID string) ([]scoring.Score, error) {
	return r.list(func(s scoring.Score) bool { return s.RoomID == roomID && s.UserID == userID }), nil
}

func (r *ScoreRepository) list(keep func(scoring.Score) bool) []scoring.Score {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Score, 0)
	for _, s := range r.items {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RaceID != out[j].RaceID {
			return out[i].RaceID < out[j].RaceID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
