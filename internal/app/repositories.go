package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/race-predictor/internal/config"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
	cacherepo "github.com/riskibarqy/race-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/race-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/race-predictor/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/race-predictor/internal/platform/cache"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

type repositories struct {
	seasons     season.Repository
	races       race.Repository
	rooms       room.Repository
	predictions prediction.Repository
	scores      scoring.Repository
	runs        syncrun.Repository
	users       user.Repository
	close       func() error
}

// buildRepositories picks Postgres when DB_URL is set and the in-memory
// store otherwise. Read-heavy repositories get a cache in front.
func buildRepositories(ctx context.Context, cfg config.Config, store *cache.Store, logger *logging.Logger) (repositories, error) {
	var repos repositories
	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, using in-memory repositories")
		repos = repositories{
			seasons:     memory.NewSeasonRepository(memory.SeedSeasons()),
			races:       memory.NewRaceRepository(memory.SeedRaces()),
			rooms:       memory.NewRoomRepository(),
			predictions: memory.NewPredictionRepository(),
			scores:      memory.NewScoreRepository(),
			runs:        memory.NewSyncRunRepository(),
			users:       memory.NewUserRepository(),
			close:       func() error { return nil },
		}
	} else {
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return repositories{}, err
		}
		if cfg.SeedEnabled {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		repos = repositories{
			seasons:     postgres.NewSeasonRepository(db),
			races:       postgres.NewRaceRepository(db),
			rooms:       postgres.NewRoomRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			scores:      postgres.NewScoreRepository(db),
			runs:        postgres.NewSyncRunRepository(db),
			users:       postgres.NewUserRepository(db),
			close:       db.Close,
		}
	}

	if cfg.CacheEnabled {
		repos.seasons = cacherepo.NewSeasonRepository(repos.seasons, store)
		repos.races = cacherepo.NewRaceRepository(repos.races, store)
		repos.rooms = cacherepo.NewRoomRepository(repos.rooms, store)
	}
	return repos, nil
}
