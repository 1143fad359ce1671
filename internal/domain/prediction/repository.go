package prediction

import "context"

type Repository interface {
	Get(ctx context.Context, roomID, raceID, userID string) (Prediction, bool, error)
	Upsert(ctx context.Context, p Prediction) (Prediction, error)
	ListByRoomRace(ctx context.Context, roomID, raceID string) ([]Prediction, error)
	CountByRoomRace(ctx context.Context, roomID, raceID string) (int, error)
	ListByRoomUser(ctx context.Context, roomID, userID string) ([]Prediction, error)
}
