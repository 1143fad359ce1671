package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/race-predictor/internal/platform/cache"
)

type countingRaceRepository struct {
	race.Repository
	getCalls int
}

func (r *countingRaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	r.getCalls++
	return r.Repository.GetByID(ctx, raceID)
}

func TestRaceRepository_CachesUntilResultIsSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingRaceRepository{Repository: memory.NewRaceRepository(memory.SeedRaces())}
	repo := NewRaceRepository(next, basecache.NewStore(time.Minute))

	first, ok, err := repo.GetByID(ctx, "race-2026-01")
	if err != nil || !ok {
		t.Fatalf("get race: ok=%v err=%v", ok, err)
	}
	if first.HasResult() {
		t.Fatalf("seed race should not have a result")
	}
	if _, _, err := repo.GetByID(ctx, "race-2026-01"); err != nil {
		t.Fatalf("get race again: %v", err)
	}
	if next.getCalls != 1 {
		t.Fatalf("expected one backend read, got %d", next.getCalls)
	}

	winner := 1
	err = repo.SetOfficialResult(ctx, "race-2026-01", race.OfficialResult{
		Positions:        []race.ResultPosition{{Position: 1, DriverNumber: winner}},
		FastestLapDriver: &winner,
		RecordedAt:       time.Date(2026, time.March, 8, 7, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("set result: %v", err)
	}

	got, _, err := repo.GetByID(ctx, "race-2026-01")
	if err != nil {
		t.Fatalf("get race after result: %v", err)
	}
	if !got.HasResult() {
		t.Fatalf("cached race should be invalidated after result is set")
	}
	if next.getCalls != 2 {
		t.Fatalf("expected a reload after invalidation, got %d reads", next.getCalls)
	}
}

func TestRaceRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRaceRepository(memory.NewRaceRepository(memory.SeedRaces()), basecache.NewStore(time.Minute))

	items, err := repo.ListBySeason(ctx, memory.SeasonID2026)
	if err != nil {
		t.Fatalf("list races: %v", err)
	}
	items[0].Name = "mutated"
	items[0].Sessions.Qualifying = nil

	again, err := repo.ListBySeason(ctx, memory.SeasonID2026)
	if err != nil {
		t.Fatalf("list races again: %v", err)
	}
	if again[0].Name == "mutated" || again[0].Sessions.Qualifying == nil {
		t.Fatalf("cached slice was mutated through a returned copy")
	}
}

func TestSeasonRepository_UpsertInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository(memory.NewSeasonRepository(memory.SeedSeasons()), basecache.NewStore(time.Minute))

	before, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list seasons: %v", err)
	}
	if _, err := repo.Upsert(ctx, season.Season{ID: "season-2027", Year: 2027, TotalRaces: 24}); err != nil {
		t.Fatalf("upsert season: %v", err)
	}
	after, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list seasons after upsert: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d seasons, got %d", len(before)+1, len(after))
	}
}
