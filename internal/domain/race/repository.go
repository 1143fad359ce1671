package race

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, raceID string) (Race, bool, error)
	GetBySeasonRound(ctx context.Context, seasonID string, round int) (Race, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Race, error)
	// ListStartedWithoutResult returns races whose start is before the given
	// instant and which have no official result yet, oldest first.
	ListStartedWithoutResult(ctx context.Context, before time.Time) ([]Race, error)
	// Upsert inserts or updates a race keyed by (season, round). A stored
	// official result is kept when the incoming race has none.
	Upsert(ctx context.Context, r Race) (Race, error)
	SetOfficialResult(ctx context.Context, raceID string, result OfficialResult) error
}
