package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the built-in seasons and calendar into an empty
// database through the regular upserts. It is a no-op once any season
// exists, and safe to rerun if a previous attempt stopped halfway.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var seasonCount int
	if err := db.GetContext(ctx, &seasonCount, `SELECT COUNT(1) FROM seasons WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count seasons: %w", err)
	}
	if seasonCount > 0 {
		return nil
	}

	seasons := NewSeasonRepository(db)
	for _, s := range memory.SeedSeasons() {
		if _, err := seasons.Upsert(ctx, s); err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}
	races := NewRaceRepository(db)
	for _, rc := range memory.SeedRaces() {
		if _, err := races.Upsert(ctx, rc); err != nil {
			return fmt.Errorf("seed race %s: %w", rc.ID, err)
		}
	}
	return nil
}
