package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/race-predictor/internal/platform/logging"
	"github.com/riskibarqy/race-predictor/internal/platform/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var jobTracer = tracing.Tracer("infrastructure/scheduler")

// Task is one scheduled unit of work. The context is cancelled when the
// scheduler shuts down.
type Task func(ctx context.Context) error

type Config struct {
	// Locker is optional; without one every replica runs every tick.
	Locker  gocron.Locker
	Timeout time.Duration
	Logger  *logging.Logger
}

// Scheduler runs interval jobs on top of gocron.
type Scheduler struct {
	cron    gocron.Scheduler
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *logging.Logger
}

func New(cfg Config) (*Scheduler, error) {
	opts := []gocron.SchedulerOption{gocron.WithLocation(time.UTC)}
	if cfg.Locker != nil {
		opts = append(opts, gocron.WithDistributedLocker(cfg.Locker))
	}
	cron, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron,
		ctx:     ctx,
		cancel:  cancel,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Every registers task under name. A tick that would overlap a still
// running one is skipped.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be > 0", name)
	}
	_, err := s.cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.run(name, task) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := tracing.Root(ctx, jobTracer, "scheduler.job."+name,
		trace.WithAttributes(attribute.String("job.name", name)))
	defer span.End()

	started := time.Now()
	if err := task(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job failed")
		s.logger.ErrorContext(ctx, "scheduled job failed", "job", name, "duration", time.Since(started).String(), "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled job finished", "job", name, "duration", time.Since(started).String())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Shutdown cancels running tasks and waits for gocron to stop.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.cron.Shutdown()
}
