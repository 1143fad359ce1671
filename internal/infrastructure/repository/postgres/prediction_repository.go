package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Get(ctx context.Context, roomID, raceID, userID string) (prediction.Prediction, bool, error) {
	var row predictionTableModel
	found, err := getOne(ctx, r.db, &row,
		predictionSelect().Where(
			qb.Eq("room_id", roomID), qb.Eq("race_id", raceID), qb.Eq("user_id", userID), qb.IsNull("deleted_at"),
		).ToSQL,
		predictionSelect().Where(
			qb.EqLiteral("room_id", roomID), qb.EqLiteral("race_id", raceID), qb.EqLiteral("user_id", userID), qb.IsNull("deleted_at"),
		).ToSQL,
	)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}
	if !found {
		return prediction.Prediction{}, false, nil
	}
	p, err := predictionFromRow(row)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return p, true, nil
}

// Upsert keeps the stored submitted_at on conflict so the first submission
// time survives edits.
func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	model, err := predictionInsertFromDomain(p)
	if err != nil {
		return prediction.Prediction{}, err
	}
	query, args, err := qb.InsertModel("predictions", model, `ON CONFLICT (room_id, race_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
	picks = EXCLUDED.picks,
	pole_driver = EXCLUDED.pole_driver,
	fastest_lap_driver = EXCLUDED.fastest_lap_driver,
	dnf_drivers = EXCLUDED.dnf_drivers,
	updated_at = EXCLUDED.updated_at
RETURNING *`)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return predictionFromRow(row)
}

func (r *PredictionRepository) ListByRoomRace(ctx context.Context, roomID, raceID string) ([]prediction.Prediction, error) {
	query, args, err := predictionSelect().
		Where(qb.Eq("room_id", roomID), qb.Eq("race_id", raceID), qb.IsNull("deleted_at")).
		OrderBy("submitted_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by room race query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PredictionRepository) ListByRoomUser(ctx context.Context, roomID, userID string) ([]prediction.Prediction, error) {
	query, args, err := predictionSelect().
		Where(qb.Eq("room_id", roomID), qb.Eq("user_id", userID), qb.IsNull("deleted_at")).
		OrderBy("submitted_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by room user query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PredictionRepository) CountByRoomRace(ctx context.Context, roomID, raceID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("predictions").
		Where(qb.Eq("room_id", roomID), qb.Eq("race_id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count predictions query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return count, nil
}

func (r *PredictionRepository) list(ctx context.Context, query string, args []any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		p, err := predictionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func predictionSelect() *qb.SelectBuilder {
	return qb.Select("*").From("predictions")
}
