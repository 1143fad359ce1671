package syncrun

import "context"

type Repository interface {
	// Save inserts or replaces the run by id.
	Save(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, bool, error)
	ListByRace(ctx context.Context, raceID string, limit int) ([]Run, error)
}
