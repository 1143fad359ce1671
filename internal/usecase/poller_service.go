package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
)

type PollerConfig struct {
	RaceDuration   time.Duration
	GracePeriod    time.Duration
	InterRaceDelay time.Duration
}

type PollResult struct {
	RacesFound   int      `json:"races_found"`
	RacesSynced  int      `json:"races_synced"`
	RacesSkipped int      `json:"races_skipped"`
	RacesFailed  int      `json:"races_failed"`
	Errors       []string `json:"errors"`
}

type raceSyncer interface {
	SyncRace(ctx context.Context, raceID string, trigger syncrun.Trigger) (SyncResult, error)
}

// PollerService finds races that should have finished and syncs them.
type PollerService struct {
	raceRepo race.Repository
	syncer   raceSyncer
	metrics  SyncMetrics
	cfg      PollerConfig
	logger   *logging.Logger
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

func NewPollerService(
	raceRepo race.Repository,
	syncer *ResultSyncService,
	metrics SyncMetrics,
	cfg PollerConfig,
	logger *logging.Logger,
) *PollerService {
	return newPollerService(raceRepo, syncer, metrics, cfg, logger)
}

func newPollerService(
	raceRepo race.Repository,
	syncer raceSyncer,
	metrics SyncMetrics,
	cfg PollerConfig,
	logger *logging.Logger,
) *PollerService {
	if cfg.RaceDuration <= 0 {
		cfg.RaceDuration = 2 * time.Hour
	}
	if cfg.GracePeriod < 0 {
		cfg.GracePeriod = 0
	}
	if cfg.InterRaceDelay < 0 {
		cfg.InterRaceDelay = 0
	}
	if metrics == nil {
		metrics = NewNoopSyncMetrics()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PollerService{
		raceRepo: raceRepo,
		syncer:   syncer,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Run is the scheduler entry point. Races are synced sequentially with a
// pause between them; a failure is logged and the next race is attempted.
// Nothing is retried within a run.
func (s *PollerService) Run(ctx context.Context) (PollResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PollerService.Run")
	defer span.End()

	now := s.now().UTC()
	candidates, err := s.raceRepo.ListStartedWithoutResult(ctx, now)
	if err != nil {
		return PollResult{}, fmt.Errorf("list races awaiting results: %w", err)
	}

	out := PollResult{RacesFound: len(candidates), Errors: []string{}}
	attempted := 0
	for _, rc := range candidates {
		if !s.due(rc, now) {
			out.RacesSkipped++
			continue
		}
		if attempted > 0 {
			if err := s.sleep(ctx, s.cfg.InterRaceDelay); err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("race %s: %v", rc.ID, err))
				break
			}
		}
		attempted++

		if _, err := s.syncer.SyncRace(ctx, rc.ID, syncrun.TriggerPoller); err != nil {
			out.RacesFailed++
			out.Errors = append(out.Errors, fmt.Sprintf("race %s: %v", rc.ID, err))
			s.logger.WarnContext(ctx, "poller race sync failed", "race_id", rc.ID, "round", rc.Round, "error", err)
			continue
		}
		out.RacesSynced++
	}

	s.metrics.ObservePollerRun(out.RacesFound, out.RacesSynced, out.RacesSkipped, out.RacesFailed)
	s.logger.InfoContext(ctx, "poller run finished",
		"found", out.RacesFound,
		"synced", out.RacesSynced,
		"skipped", out.RacesSkipped,
		"failed", out.RacesFailed,
	)
	return out, nil
}

// due reports whether the race's estimated finish plus grace has passed.
func (s *PollerService) due(rc race.Race, now time.Time) bool {
	if rc.StartsAt.IsZero() {
		return false
	}
	return !now.Before(rc.StartsAt.Add(s.cfg.RaceDuration + s.cfg.GracePeriod))
}
