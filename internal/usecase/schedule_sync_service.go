package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

const defaultScheduleWorkers = 4

type ScheduleSyncResult struct {
	SeasonID     string   `json:"season_id"`
	Year         int      `json:"year"`
	RacesFetched int      `json:"races_fetched"`
	RacesSaved   int      `json:"races_saved"`
	CurrentRound int      `json:"current_round"`
	WorkerCount  int      `json:"worker_count"`
	Errors       []string `json:"errors"`
}

// ScheduleSyncService imports a season calendar from the race-data provider.
type ScheduleSyncService struct {
	seasonRepo season.Repository
	raceRepo   race.Repository
	provider   RaceDataProvider
	workers    int
	logger     *logging.Logger
	now        func() time.Time
}

func NewScheduleSyncService(
	seasonRepo season.Repository,
	raceRepo race.Repository,
	provider RaceDataProvider,
	workers int,
	logger *logging.Logger,
) *ScheduleSyncService {
	if workers < 1 {
		workers = defaultScheduleWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleSyncService{
		seasonRepo: seasonRepo,
		raceRepo:   raceRepo,
		provider:   provider,
		workers:    workers,
		logger:     logger,
		now:        time.Now,
	}
}

// SeasonID is the canonical id of the season for a championship year.
func SeasonID(year int) string {
	return fmt.Sprintf("season-%d", year)
}

// RaceID is the canonical id of a race by season and round.
func RaceID(year, round int) string {
	return fmt.Sprintf("race-%d-%02d", year, round)
}

// SyncSchedule upserts the season and each of its races. Stored official
// results are never overwritten.
func (s *ScheduleSyncService) SyncSchedule(ctx context.Context, year int) (ScheduleSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleSyncService.SyncSchedule")
	defer span.End()

	if year < 1950 || year > s.now().UTC().Year()+1 {
		return ScheduleSyncResult{}, fmt.Errorf("%w: year %d out of range", ErrInvalidInput, year)
	}
	if s.provider == nil {
		return ScheduleSyncResult{}, fmt.Errorf("%w: race data provider is not configured", ErrDependencyUnavailable)
	}

	entries, err := s.provider.FetchSeasonSchedule(ctx, year)
	if err != nil {
		return ScheduleSyncResult{}, fmt.Errorf("fetch season schedule %d: %w", year, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Round < entries[j].Round })

	now := s.now().UTC()
	seasonItem := season.Season{
		ID:           SeasonID(year),
		Year:         year,
		TotalRaces:   len(entries),
		CurrentRound: len(entries),
	}
	for _, e := range entries {
		if e.StartsAt.After(now) {
			seasonItem.CurrentRound = e.Round
			break
		}
	}
	if err := seasonItem.Validate(); err != nil {
		return ScheduleSyncResult{}, invalid(err)
	}
	if _, err := s.seasonRepo.Upsert(ctx, seasonItem); err != nil {
		return ScheduleSyncResult{}, fmt.Errorf("upsert season: %w", err)
	}

	result := ScheduleSyncResult{
		SeasonID:     seasonItem.ID,
		Year:         year,
		RacesFetched: len(entries),
		CurrentRound: seasonItem.CurrentRound,
		WorkerCount:  min(s.workers, max(1, len(entries))),
		Errors:       []string{},
	}
	if len(entries) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(result.WorkerCount)
	if err != nil {
		return ScheduleSyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		saved   atomic.Int32
		mu      sync.Mutex
		workers sync.WaitGroup
	)
	for _, entry := range entries {
		entry := entry
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := s.upsertRace(ctx, seasonItem, entry); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("round %d: %v", entry.Round, err))
				mu.Unlock()
				return
			}
			saved.Add(1)
		}); err != nil {
			workers.Done()
			return ScheduleSyncResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.Strings(result.Errors)
	result.RacesSaved = int(saved.Load())
	s.logger.InfoContext(ctx, "season schedule synced",
		"season_id", seasonItem.ID,
		"races_fetched", result.RacesFetched,
		"races_saved", result.RacesSaved,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *ScheduleSyncService) upsertRace(ctx context.Context, seasonItem season.Season, entry ExternalRace) error {
	rc := race.Race{
		ID:       RaceID(seasonItem.Year, entry.Round),
		SeasonID: seasonItem.ID,
		Round:    entry.Round,
		Name:     strings.TrimSpace(entry.Name),
		StartsAt: entry.StartsAt.UTC(),
		Circuit:  entry.Circuit,
		Location: entry.Location,
		Country:  entry.Country,
		Sessions: entry.Sessions,
	}
	if err := rc.Validate(); err != nil {
		return invalid(err)
	}
	if _, err := s.raceRepo.Upsert(ctx, rc); err != nil {
		return fmt.Errorf("upsert race: %w", err)
	}
	return nil
}
