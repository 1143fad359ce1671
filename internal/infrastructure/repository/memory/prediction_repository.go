package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) Get(_ context.Context, roomID, raceID, userID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[predictionKey(roomID, raceID, userID)]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	return clonePrediction(item), true, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := predictionKey(p.RoomID, p.RaceID, p.UserID)
	if existing, ok := r.items[key]; ok {
		p.SubmittedAt = existing.SubmittedAt
	}
	r.items[key] = clonePrediction(p)
	return clonePrediction(p), nil
}

func (r *PredictionRepository) ListByRoomRace(_ context.Context, roomID, raceID string) ([]prediction.Prediction, error) {
	return r.list(func(p prediction.Prediction) bool { return p.RoomID == roomID && p.RaceID == raceID }), nil
}

func (r *PredictionRepository) CountByRoomRace(_ context.Context, roomID, raceID string) (int, error) {
	return len(r.list(func(p prediction.Prediction) bool { return p.RoomID == roomID && p.RaceID == raceID })), nil
}

func (r *PredictionRepository) ListByRoomUser(_ context.Context, roomID, userID string) ([]prediction.Prediction, error) {
	return r.list(func(p prediction.Prediction) bool { return p.RoomID == roomID && p.UserID == userID }), nil
}

func (r *PredictionRepository) list(keep func(prediction.Prediction) bool) []prediction.Prediction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if keep(p) {
			out = append(out, clonePrediction(p))
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

func predictionKey(roomID, raceID, userID string) string {
	return roomID + "::" + raceID + "::" + userID
}

func clonePrediction(p prediction.Prediction) prediction.Prediction {
	copied := p
	copied.Picks = slices.Clone(p.Picks)
	copied.DNFDrivers = slices.Clone(p.DNFDrivers)
	return copied
}
