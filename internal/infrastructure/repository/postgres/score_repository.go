package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert reports created=true when no score existed for the key. xmax is
// zero only for freshly inserted tuples.
func (r *ScoreRepository) Upsert(ctx context.Context, s scoring.Score) (bool, error) {
	model, err := scoreInsertFromDomain(s)
	if err != nil {
		return false, err
	}
	query, args, err := qb.InsertModel("scores", model, `ON CONFLICT (room_id, race_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
	points = EXCLUDED.points,
	breakdown = EXCLUDED.breakdown,
	prediction_submitted_at = EXCLUDED.prediction_submitted_at,
	calculated_at = EXCLUDED.calculated_at
RETURNING (xmax = 0)`)
	if err != nil {
		return false, fmt.Errorf("build upsert score query: %w", err)
	}

	var created bool
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		return false, fmt.Errorf("upsert score: %w", err)
	}
	return created, nil
}

func (r *ScoreRepository) ListByRoomRace(ctx context.Context, roomID, raceID string) ([]scoring.Score, error) {
	query, args, err := scoreSelect().
		Where(qb.Eq("room_id", roomID), qb.Eq("race_id", raceID), qb.IsNull("deleted_at")).
		OrderBy("points DESC", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by room race query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *ScoreRepository) ListByRoom(ctx context.Context, roomID string) ([]scoring.Score, error) {
	query, args, err := scoreSelect().
		Where(qb.Eq("room_id", roomID), qb.IsNull("deleted_at")).
		OrderBy("race_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by room query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *ScoreRepository) ListByRoomUser(ctx context.Context, roomID, userID string) ([]scoring.Score, error) {
	query, args, err := scoreSelect().
		Where(qb.Eq("room_id", roomID), qb.Eq("user_id", userID), qb.IsNull("deleted_at")).
		OrderBy("calculated_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by room user query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *ScoreRepository) CountByRoomRace(ctx context.Context, roomID, raceID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("scores").
		Where(qb.Eq("room_id", roomID), qb.Eq("race_id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count scores query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return count, nil
}

func (r *ScoreRepository) list(ctx context.Context, query string, args []any) ([]scoring.Score, error) {
	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	out := make([]scoring.Score, 0, len(rows))
	for _, row := range rows {
		s, err := scoreFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func scoreSelect() *qb.SelectBuilder {
	return qb.Select("*").From("scores")
}
