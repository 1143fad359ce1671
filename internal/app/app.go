package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/race-predictor/external/anubis"
	"github.com/riskibarqy/race-predictor/external/f1data"
	"github.com/riskibarqy/race-predictor/external/jobqueue"
	"github.com/riskibarqy/race-predictor/internal/config"
	"github.com/riskibarqy/race-predictor/internal/infrastructure/scheduler"
	"github.com/riskibarqy/race-predictor/internal/interfaces/httpapi"
	"github.com/riskibarqy/race-predictor/internal/observability"
	"github.com/riskibarqy/race-predictor/internal/platform/cache"
	"github.com/riskibarqy/race-predictor/internal/platform/id"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/usecase"
)

const (
	pollJobName      = "race-result-poller"
	scheduleJobName  = "season-schedule-sync"
	scheduleInterval = 24 * time.Hour
	schedulerLockTTL = 10 * time.Minute
)

// App owns the HTTP server and the background jobs.
type App struct {
	Server    *http.Server
	scheduler *scheduler.Scheduler
	redis     *redis.Client
	repos     repositories
	logger    *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store := cache.NewStore(cfg.CacheTTL)
	repos, err := buildRepositories(ctx, cfg, store, logger)
	if err != nil {
		return nil, err
	}
	app := &App{repos: repos, logger: logger}

	var metrics usecase.SyncMetrics = usecase.NewNoopSyncMetrics()
	var promMetrics *observability.SyncMetrics
	if cfg.MetricsEnabled {
		promMetrics = observability.NewSyncMetrics("")
		metrics = promMetrics
	}

	provider := f1data.NewClient(f1data.ClientConfig{
		ResultsBaseURL:  cfg.F1DataResultsBaseURL,
		ScheduleBaseURL: cfg.F1DataScheduleBaseURL,
		Timeout:         cfg.F1DataTimeout,
		MaxRetries:      cfg.F1DataMaxRetries,
		RetryBackoff:    cfg.F1DataRetryBackoff,
		CircuitBreaker:  cfg.F1DataCircuit,
		Logger:          logger.Named("f1data"),
	})
	verifier := anubis.NewClient(anubis.ClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CircuitBreaker: cfg.AnubisCircuit,
		PrincipalTTL:   cfg.AnubisPrincipalTTL,
		Logger:         logger.Named("anubis"),
	})

	queue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		publisher, err := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
			Logger:           logger.Named("qstash"),
		})
		if err != nil {
			_ = app.close()
			return nil, fmt.Errorf("build qstash publisher: %w", err)
		}
		queue = publisher
		if promMetrics != nil {
			promMetrics.ObserveBreaker(publisher.Breaker())
		}
	}
	if promMetrics != nil {
		promMetrics.ObserveBreaker(provider.Breaker())
		promMetrics.ObserveBreaker(verifier.Breaker())
	}

	seasonSvc := usecase.NewSeasonService(repos.seasons, repos.races, repos.rooms)
	statsSvc := usecase.NewStatsService(repos.rooms, repos.scores)
	scoringSvc := usecase.NewScoringService(repos.rooms, repos.races, repos.predictions, repos.scores, metrics)
	resultSyncSvc := usecase.NewResultSyncService(
		repos.races,
		repos.seasons,
		repos.rooms,
		repos.predictions,
		repos.scores,
		repos.runs,
		scoringSvc,
		provider,
		queue,
		metrics,
		id.NewUUIDGenerator(),
		usecase.ResultSyncConfig{
			InterRaceDelay: cfg.PollerInterRaceDelay,
			UseJobQueue:    cfg.QStashEnabled,
		},
		logger.Named("result_sync"),
	)
	pollerSvc := usecase.NewPollerService(repos.races, resultSyncSvc, metrics, usecase.PollerConfig{
		RaceDuration:   cfg.PollerRaceDuration,
		GracePeriod:    cfg.PollerGracePeriod,
		InterRaceDelay: cfg.PollerInterRaceDelay,
	}, logger.Named("poller"))
	scheduleSvc := usecase.NewScheduleSyncService(repos.seasons, repos.races, provider, 0, logger.Named("schedule_sync"))
	userSvc := usecase.NewUserService(repos.users)

	handler := httpapi.NewHandler(httpapi.Services{
		Seasons:      seasonSvc,
		Drivers:      usecase.NewDriverService(provider, store),
		Users:        userSvc,
		Rooms:        usecase.NewRoomService(repos.rooms, repos.seasons, id.NewUUIDGenerator(), nil),
		Predictions:  usecase.NewPredictionService(repos.rooms, repos.races, repos.predictions, logger),
		Scoring:      scoringSvc,
		ResultSync:   resultSyncSvc,
		Poller:       pollerSvc,
		ScheduleSync: scheduleSvc,
		Leaderboards: usecase.NewLeaderboardService(repos.rooms, repos.races, repos.scores, repos.users),
		Stats:        statsSvc,
		Dashboard:    usecase.NewDashboardService(seasonSvc, repos.races, repos.rooms, repos.predictions, statsSvc),
	}, logger)

	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if promMetrics != nil {
		routerCfg.MetricsHandler = promMetrics.Handler()
	}
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, verifier, userSvc, routerCfg, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.PollerEnabled {
		if err := app.buildScheduler(ctx, cfg, pollerSvc, scheduleSvc); err != nil {
			_ = app.close()
			return nil, err
		}
	}
	return app, nil
}

func (a *App) buildScheduler(ctx context.Context, cfg config.Config, poller *usecase.PollerService, schedule *usecase.ScheduleSyncService) error {
	client, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	a.redis = client

	schedCfg := scheduler.Config{Timeout: cfg.PollerInterval, Logger: a.logger.Named("scheduler")}
	if client != nil {
		schedCfg.Locker = scheduler.NewRedisLocker(client, "race-predictor:jobs:", schedulerLockTTL)
	} else {
		a.logger.Warn("REDIS_URL is empty, scheduled jobs are not coordinated across replicas")
	}

	sched, err := scheduler.New(schedCfg)
	if err != nil {
		return err
	}
	if err := sched.Every(pollJobName, cfg.PollerInterval, func(ctx context.Context) error {
		_, err := poller.Run(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := sched.Every(scheduleJobName, scheduleInterval, func(ctx context.Context) error {
		_, err := schedule.SyncSchedule(ctx, time.Now().UTC().Year())
		return err
	}); err != nil {
		return err
	}
	a.scheduler = sched
	return nil
}

// Start launches background jobs. The HTTP server is started by the caller.
func (a *App) Start() {
	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("scheduler started", "jobs", []string{pollJobName, scheduleJobName})
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown scheduler: %w", err))
		}
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.repos.close != nil {
		if err := a.repos.close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
