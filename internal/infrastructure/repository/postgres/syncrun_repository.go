package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type syncRunTableModel struct {
	ID             string         `db:"id"`
	RaceID         string         `db:"race_id"`
	Trigger        string         `db:"trigger"`
	Status         string         `db:"status"`
	RoomsProcessed int            `db:"rooms_processed"`
	RoomsScored    int            `db:"rooms_scored"`
	ScoresCreated  int            `db:"scores_created"`
	ScoresUpdated  int            `db:"scores_updated"`
	Errors         pq.StringArray `db:"errors"`
	Message        string         `db:"message"`
	TraceID        string         `db:"trace_id"`
	StartedAt      time.Time      `db:"started_at"`
	FinishedAt     sql.NullTime   `db:"finished_at"`
}

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Save(ctx context.Context, run syncrun.Run) error {
	errs := pq.StringArray(run.Errors)
	if errs == nil {
		errs = pq.StringArray{}
	}
	model := syncRunTableModel{
		ID:             run.ID,
		RaceID:         run.RaceID,
		Trigger:        string(run.Trigger),
		Status:         string(run.Status),
		RoomsProcessed: run.RoomsProcessed,
		RoomsScored:    run.RoomsScored,
		ScoresCreated:  run.ScoresCreated,
		ScoresUpdated:  run.ScoresUpdated,
		Errors:         errs,
		Message:        run.Message,
		TraceID:        run.TraceID,
		StartedAt:      run.StartedAt.UTC(),
		FinishedAt:     timePtrToNullTime(run.FinishedAt),
	}
	query, args, err := qb.InsertModel("sync_runs", model, `ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	rooms_processed = EXCLUDED.rooms_processed,
	rooms_scored = EXCLUDED.rooms_scored,
	scores_created = EXCLUDED.scores_created,
	scores_updated = EXCLUDED.scores_updated,
	errors = EXCLUDED.errors,
	message = EXCLUDED.message,
	trace_id = EXCLUDED.trace_id,
	finished_at = EXCLUDED.finished_at`)
	if err != nil {
		return fmt.Errorf("build save sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save sync run: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	var row syncRunTableModel
	found, err := getOne(ctx, r.db, &row,
		qb.Select("*").From("sync_runs").Where(qb.Eq("id", runID)).ToSQL,
		qb.Select("*").From("sync_runs").Where(qb.EqLiteral("id", runID)).ToSQL,
	)
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("get sync run: %w", err)
	}
	if !found {
		return syncrun.Run{}, false, nil
	}
	return syncRunFromRow(row), true, nil
}

func (r *SyncRunRepository) ListByRace(ctx context.Context, raceID string, limit int) ([]syncrun.Run, error) {
	builder := qb.Select("*").
		From("sync_runs").
		Where(qb.Eq("race_id", raceID)).
		OrderBy("started_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncRunFromRow(row))
	}
	return out, nil
}

func syncRunFromRow(row syncRunTableModel) syncrun.Run {
	return syncrun.Run{
		ID:             row.ID,
		RaceID:         row.RaceID,
		Trigger:        syncrun.Trigger(row.Trigger),
		Status:         syncrun.Status(row.Status),
		RoomsProcessed: row.RoomsProcessed,
		RoomsScored:    row.RoomsScored,
		ScoresCreated:  row.ScoresCreated,
		ScoresUpdated:  row.ScoresUpdated,
		Errors:         []string(row.Errors),
		Message:        row.Message,
		StartedAt:      row.StartedAt,
		FinishedAt:     nullTimeToTimePtr(row.FinishedAt),
		TraceID:        row.TraceID,
	}
}
