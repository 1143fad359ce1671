package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	"github.com/riskibarqy/race-predictor/internal/platform/id"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const SyncRaceJobPath = "/v1/internal/jobs/sync-race"

// SyncResult is the aggregate outcome of one race sync.
type SyncResult struct {
	RunID          string   `json:"run_id"`
	RaceID         string   `json:"race_id"`
	RoomsProcessed int      `json:"rooms_processed"`
	RoomsScored    int      `json:"rooms_scored"`
	ScoresCreated  int      `json:"scores_created"`
	ScoresUpdated  int      `json:"scores_updated"`
	Errors         []string `json:"errors"`
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
}

type SeasonSyncResult struct {
	RoomID string       `json:"room_id"`
	Mode   string       `json:"mode"`
	Queued int          `json:"queued"`
	Races  []SyncResult `json:"races"`
	Errors []string     `json:"errors"`
}

type ResultSyncConfig struct {
	InterRaceDelay time.Duration
	UseJobQueue    bool
}

type SyncRaceJobPayload struct {
	RaceID  string `json:"race_id"`
	Trigger string `json:"trigger"`
}

// ResultSyncService fetches official results and applies scoring to every
// room of the race's season. Rooms are processed one at a time; a failing
// room is recorded and skipped.
type ResultSyncService struct {
	raceRepo       race.Repository
	seasonRepo     season.Repository
	roomRepo       room.Repository
	predictionRepo prediction.Repository
	scoreRepo      scoring.Repository
	runRepo        syncrun.Repository
	scorer         *ScoringService
	provider       RaceDataProvider
	queue          JobQueue
	metrics        SyncMetrics
	idGen          id.Generator
	cfg            ResultSyncConfig
	logger         *logging.Logger
	now            func() time.Time
	sleep          func(context.Context, time.Duration) error
}

func NewResultSyncService(
	raceRepo race.Repository,
	seasonRepo season.Repository,
	roomRepo room.Repository,
	predictionRepo prediction.Repository,
	scoreRepo scoring.Repository,
	runRepo syncrun.Repository,
	scorer *ScoringService,
	provider RaceDataProvider,
	queue JobQueue,
	metrics SyncMetrics,
	idGen id.Generator,
	cfg ResultSyncConfig,
	logger *logging.Logger,
) *ResultSyncService {
	if queue == nil {
		queue = NewNoopJobQueue()
		cfg.UseJobQueue = false
	}
	if metrics == nil {
		metrics = NewNoopSyncMetrics()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.InterRaceDelay < 0 {
		cfg.InterRaceDelay = 0
	}
	return &ResultSyncService{
		raceRepo:       raceRepo,
		seasonRepo:     seasonRepo,
		roomRepo:       roomRepo,
		predictionRepo: predictionRepo,
		scoreRepo:      scoreRepo,
		runRepo:        runRepo,
		scorer:         scorer,
		provider:       provider,
		queue:          queue,
		metrics:        metrics,
		idGen:          idGen,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
		sleep:          sleepCtx,
	}
}

// SyncRace makes sure the race has an official result and that every room
// of its season is scored. It is safe to call repeatedly. A missing race or
// a failed result fetch is returned as an error; per-room failures are only
// reported in the result.
func (s *ResultSyncService) SyncRace(ctx context.Context, raceID string, trigger syncrun.Trigger) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultSyncService.SyncRace")
	defer span.End()

	started := s.now().UTC()
	run := syncrun.Run{
		RaceID:    strings.TrimSpace(raceID),
		Trigger:   trigger,
		Status:    syncrun.StatusRunning,
		StartedAt: started,
		TraceID:   traceIDFromContext(ctx),
	}
	runID, err := s.idGen.NewID()
	if err != nil {
		return SyncResult{}, fmt.Errorf("generate run id: %w", err)
	}
	run.ID = runID

	err = s.syncRace(ctx, &run)
	run.Finish(err, s.now().UTC())
	if saveErr := s.runRepo.Save(ctx, run); saveErr != nil {
		s.logger.WarnContext(ctx, "persist sync run failed", "run_id", run.ID, "race_id", run.RaceID, "error", saveErr)
	}

	result := resultFromRun(run)
	s.metrics.ObserveRaceSync(string(trigger), string(run.Status), s.now().Sub(started))
	span.SetAttributes(
		attribute.String("race.id", run.RaceID),
		attribute.String("sync.status", string(run.Status)),
		attribute.Int("sync.rooms_scored", run.RoomsScored),
	)

	if err != nil {
		s.logger.WarnContext(ctx, "race sync failed", "race_id", run.RaceID, "trigger", trigger, "error", err)
		return result, err
	}
	s.logger.InfoContext(ctx, "race sync finished",
		"race_id", run.RaceID,
		"trigger", trigger,
		"rooms_processed", run.RoomsProcessed,
		"rooms_scored", run.RoomsScored,
		"room_errors", len(run.Errors),
	)
	return result, nil
}

func (s *ResultSyncService) syncRace(ctx context.Context, run *syncrun.Run) error {
	rc, err := loadRace(ctx, s.raceRepo, run.RaceID)
	if err != nil {
		return err
	}

	if !rc.HasResult() {
		result, err := s.fetchResult(ctx, rc)
		if err != nil {
			return err
		}
		if err := s.raceRepo.SetOfficialResult(ctx, rc.ID, result); err != nil {
			return fmt.Errorf("store official result: %w", err)
		}
		rc.Result = &result
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, rc.SeasonID); err != nil {
		return fmt.Errorf("get season: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: season=%s", ErrNotFound, rc.SeasonID)
	}

	rooms, err := s.roomRepo.ListBySeason(ctx, rc.SeasonID)
	if err != nil {
		return fmt.Errorf("list rooms by season: %w", err)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	for _, rm := range rooms {
		if err := ctx.Err(); err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("room %s: %v", rm.ID, err))
			break
		}
		run.RoomsProcessed++

		scored, applied, err := s.syncRoom(ctx, rm.ID, rc.ID)
		if err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("room %s: %v", rm.ID, err))
			s.logger.WarnContext(ctx, "room scoring failed", "room_id", rm.ID, "race_id", rc.ID, "error", err)
			continue
		}
		if scored {
			run.RoomsScored++
			run.ScoresCreated += applied.Created
			run.ScoresUpdated += applied.Updated
		}
	}

	run.Message = fmt.Sprintf("scored %d of %d rooms", run.RoomsScored, run.RoomsProcessed)
	return nil
}

// syncRoom applies scoring unless scores exist and already cover every
// prediction. A room with no scores is always applied, even without
// predictions.
func (s *ResultSyncService) syncRoom(ctx context.Context, roomID, raceID string) (bool, ApplyResult, error) {
	scoreCount, err := s.scoreRepo.CountByRoomRace(ctx, roomID, raceID)
	if err != nil {
		return false, ApplyResult{}, fmt.Errorf("count scores: %w", err)
	}
	predCount, err := s.predictionRepo.CountByRoomRace(ctx, roomID, raceID)
	if err != nil {
		return false, ApplyResult{}, fmt.Errorf("count predictions: %w", err)
	}
	if scoreCount > 0 && scoreCount >= predCount {
		return false, ApplyResult{}, nil
	}

	applied, err := s.scorer.ApplyRoom(ctx, roomID, raceID)
	if err != nil {
		return false, ApplyResult{}, err
	}
	return true, applied, nil
}

func (s *ResultSyncService) fetchResult(ctx context.Context, rc race.Race) (race.OfficialResult, error) {
	if s.provider == nil {
		return race.OfficialResult{}, fmt.Errorf("%w: race data provider is not configured", ErrDependencyUnavailable)
	}
	result, err := s.provider.FetchRaceResult(ctx, rc)
	if err != nil {
		if errors.Is(err, ErrNotReady) || errors.Is(err, ErrDependencyUnavailable) {
			return race.OfficialResult{}, fmt.Errorf("fetch result for race %s: %w", rc.ID, err)
		}
		return race.OfficialResult{}, fmt.Errorf("%w: fetch result for race %s: %v", ErrDependencyUnavailable, rc.ID, err)
	}
	if err := result.Validate(); err != nil {
		return race.OfficialResult{}, fmt.Errorf("%w: provider returned an invalid result for race %s: %v", ErrDependencyUnavailable, rc.ID, err)
	}
	if result.RecordedAt.IsZero() {
		result.RecordedAt = s.now().UTC()
	}
	return result, nil
}

// SyncSeason syncs every started race of the room's season. Host only.
// With the job queue enabled the races are enqueued with staggered delays;
// otherwise they run here one after another.
func (s *ResultSyncService) SyncSeason(ctx context.Context, actorID, roomID string) (SeasonSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultSyncService.SyncSeason")
	defer span.End()

	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return SeasonSyncResult{}, err
	}
	if !rm.IsHost(actorID) {
		return SeasonSyncResult{}, fmt.Errorf("%w: only the room host can sync results", ErrForbidden)
	}

	races, err := s.raceRepo.ListBySeason(ctx, rm.SeasonID)
	if err != nil {
		return SeasonSyncResult{}, fmt.Errorf("list races: %w", err)
	}
	now := s.now().UTC()
	started := make([]race.Race, 0, len(races))
	for _, rc := range races {
		if rc.Started(now) {
			started = append(started, rc)
		}
	}
	sort.Slice(started, func(i, j int) bool { return started[i].Round < started[j].Round })

	out := SeasonSyncResult{RoomID: rm.ID, Races: []SyncResult{}, Errors: []string{}}
	if s.cfg.UseJobQueue {
		out.Mode = "queued"
		for i, rc := range started {
			delay := time.Duration(i) * s.cfg.InterRaceDelay
			payload := SyncRaceJobPayload{RaceID: rc.ID, Trigger: string(syncrun.TriggerJob)}
			if err := s.queue.Enqueue(ctx, SyncRaceJobPath, payload, delay, syncDedupID(rc.ID, now)); err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("race %s: %v", rc.ID, err))
				continue
			}
			out.Queued++
		}
		return out, nil
	}

	out.Mode = "direct"
	for i, rc := range started {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.InterRaceDelay); err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("race %s: %v", rc.ID, err))
				break
			}
		}
		res, err := s.SyncRace(ctx, rc.ID, syncrun.TriggerHost)
		out.Races = append(out.Races, res)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("race %s: %v", rc.ID, err))
		}
	}
	return out, nil
}

// SyncRaceAsHost runs SyncRace for a race of a room the caller hosts.
func (s *ResultSyncService) SyncRaceAsHost(ctx context.Context, actorID, roomID, raceID string) (SyncResult, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return SyncResult{}, err
	}
	if !rm.IsHost(actorID) {
		return SyncResult{}, fmt.Errorf("%w: only the room host can sync results", ErrForbidden)
	}
	rc, err := loadRace(ctx, s.raceRepo, raceID)
	if err != nil {
		return SyncResult{}, err
	}
	if err := checkRaceInRoomSeason(rm, rc); err != nil {
		return SyncResult{}, err
	}
	return s.SyncRace(ctx, rc.ID, syncrun.TriggerHost)
}

func (s *ResultSyncService) GetRun(ctx context.Context, runID string) (syncrun.Run, error) {
	run, exists, err := s.runRepo.GetByID(ctx, strings.TrimSpace(runID))
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !exists {
		return syncrun.Run{}, fmt.Errorf("%w: sync run=%s", ErrNotFound, runID)
	}
	return run, nil
}

func (s *ResultSyncService) ListRuns(ctx context.Context, raceID string, limit int) ([]syncrun.Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.runRepo.ListByRace(ctx, strings.TrimSpace(raceID), limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

func resultFromRun(run syncrun.Run) SyncResult {
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	return SyncResult{
		RunID:          run.ID,
		RaceID:         run.RaceID,
		RoomsProcessed: run.RoomsProcessed,
		RoomsScored:    run.RoomsScored,
		ScoresCreated:  run.ScoresCreated,
		ScoresUpdated:  run.ScoresUpdated,
		Errors:         errs,
		Success:        run.Status != syncrun.StatusFailed,
		Message:        run.Message,
	}
}

// syncDedupID keys queued syncs by race and hour so repeated host clicks
// within the hour collapse into one job.
func syncDedupID(raceID string, now time.Time) string {
	return slug.Make(fmt.Sprintf("sync-race %s %s", raceID, now.UTC().Format("2006-01-02T15")))
}

func traceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
