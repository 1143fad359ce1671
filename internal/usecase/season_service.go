package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/lockout"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
)

// SeasonService serves season and race calendar reads, including the
// lockout state of a race inside a room.
type SeasonService struct {
	seasonRepo season.Repository
	raceRepo   race.Repository
	roomRepo   room.Repository
	now        func() time.Time
}

func NewSeasonService(seasonRepo season.Repository, raceRepo race.Repository, roomRepo room.Repository) *SeasonService {
	return &SeasonService{
		seasonRepo: seasonRepo,
		raceRepo:   raceRepo,
		roomRepo:   roomRepo,
		now:        time.Now,
	}
}

func (s *SeasonService) ListSeasons(ctx context.Context) ([]season.Season, error) {
	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Year > items[j].Year })
	return items, nil
}

// CurrentSeason returns the season of the current calendar year, falling
// back to the most recent one.
func (s *SeasonService) CurrentSeason(ctx context.Context) (season.Season, error) {
	year := s.now().UTC().Year()
	item, exists, err := s.seasonRepo.GetByYear(ctx, year)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season by year: %w", err)
	}
	if exists {
		return item, nil
	}

	items, err := s.ListSeasons(ctx)
	if err != nil {
		return season.Season{}, err
	}
	if len(items) == 0 {
		return season.Season{}, fmt.Errorf("%w: no seasons available", ErrNotFound)
	}
	return items[0], nil
}

func (s *SeasonService) ListRaces(ctx context.Context, seasonID string) ([]race.Race, error) {
	if _, err := s.getSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	races, err := s.raceRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	sort.Slice(races, func(i, j int) bool { return races[i].Round < races[j].Round })
	return races, nil
}

func (s *SeasonService) GetRace(ctx context.Context, raceID string) (race.Race, error) {
	return loadRace(ctx, s.raceRepo, raceID)
}

// RaceLockout evaluates the room's lockout rule for the race now.
func (s *SeasonService) RaceLockout(ctx context.Context, roomID, raceID string) (lockout.Evaluation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.RaceLockout")
	defer span.End()

	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return lockout.Evaluation{}, err
	}
	rc, err := loadRace(ctx, s.raceRepo, raceID)
	if err != nil {
		return lockout.Evaluation{}, err
	}
	if err := checkRaceInRoomSeason(rm, rc); err != nil {
		return lockout.Evaluation{}, err
	}
	return lockout.Calculate(rm, &rc, s.now().UTC()), nil
}

func (s *SeasonService) getSeason(ctx context.Context, seasonID string) (season.Season, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Season{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}
	return item, nil
}

func loadRoom(ctx context.Context, repo room.Repository, roomID string) (room.Room, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return room.Room{}, fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}
	rm, exists, err := repo.GetByID(ctx, roomID)
	if err != nil {
		return room.Room{}, fmt.Errorf("get room: %w", err)
	}
	if !exists {
		return room.Room{}, fmt.Errorf("%w: room=%s", ErrNotFound, roomID)
	}
	return rm, nil
}

func loadRace(ctx context.Context, repo race.Repository, raceID string) (race.Race, error) {
	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return race.Race{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}
	rc, exists, err := repo.GetByID(ctx, raceID)
	if err != nil {
		return race.Race{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return race.Race{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}
	return rc, nil
}

func checkRaceInRoomSeason(rm room.Room, rc race.Race) error {
	if rc.SeasonID != rm.SeasonID {
		return fmt.Errorf("%w: race %s does not belong to season %s of room %s", ErrInvalidInput, rc.ID, rm.SeasonID, rm.ID)
	}
	return nil
}
