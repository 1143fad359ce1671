package scoring

import "context"

type Repository interface {
	// Upsert stores the score keyed by (room, race, user) and reports
	// whether a new row was created.
	Upsert(ctx context.Context, s Score) (created bool, err error)
	ListByRoomRace(ctx context.Context, roomID, raceID string) ([]Score, error)
	ListByRoom(ctx context.Context, roomID string) ([]Score, error)
	CountByRoomRace(ctx context.Context, roomID, raceID string) (int, error)
	ListByRoomUser(ctx context.Context, roomID, userID string) ([]Score, error)
}
