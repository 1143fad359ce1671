package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

type scoreTableModel struct {
	RoomID                string       `db:"room_id"`
	RaceID                string       `db:"race_id"`
	UserID                string       `db:"user_id"`
	Points                float64      `db:"points"`
	Breakdown             []byte       `db:"breakdown"`
	PredictionSubmittedAt sql.NullTime `db:"prediction_submitted_at"`
	CalculatedAt          time.Time    `db:"calculated_at"`
	DeletedAt             *time.Time   `db:"deleted_at"`
}

type scoreInsertModel struct {
	RoomID                string       `db:"room_id"`
	RaceID                string       `db:"race_id"`
	UserID                string       `db:"user_id"`
	Points                float64      `db:"points"`
	Breakdown             string       `db:"breakdown"`
	PredictionSubmittedAt sql.NullTime `db:"prediction_submitted_at"`
	CalculatedAt          time.Time    `db:"calculated_at"`
}

type breakdownDocument struct {
	PositionPoints     float64 `json:"position_points"`
	FastestLapPoints   float64 `json:"fastest_lap_points"`
	PolePositionPoints float64 `json:"pole_position_points"`
	DNFPenalty         float64 `json:"dnf_penalty"`
	Total              float64 `json:"total"`
}

func scoreInsertFromDomain(s scoring.Score) (scoreInsertModel, error) {
	doc, err := toJSON(breakdownDocument(s.Breakdown))
	if err != nil {
		return scoreInsertModel{}, fmt.Errorf("encode breakdown: %w", err)
	}
	submitted := sql.NullTime{}
	if !s.PredictionSubmittedAt.IsZero() {
		submitted = sql.NullTime{Time: s.PredictionSubmittedAt.UTC(), Valid: true}
	}
	return scoreInsertModel{
		RoomID:                s.RoomID,
		RaceID:                s.RaceID,
		UserID:                s.UserID,
		Points:                s.Points,
		Breakdown:             doc,
		PredictionSubmittedAt: submitted,
		CalculatedAt:          s.CalculatedAt.UTC(),
	}, nil
}

func scoreFromRow(row scoreTableModel) (scoring.Score, error) {
	var doc breakdownDocument
	if err := fromJSON(row.Breakdown, &doc); err != nil {
		return scoring.Score{}, fmt.Errorf("decode breakdown room=%s race=%s user=%s: %w", row.RoomID, row.RaceID, row.UserID, err)
	}
	var submitted time.Time
	if row.PredictionSubmittedAt.Valid {
		submitted = row.PredictionSubmittedAt.Time
	}
	return scoring.Score{
		RoomID:                row.RoomID,
		RaceID:                row.RaceID,
		UserID:                row.UserID,
		Points:                row.Points,
		Breakdown:             scoring.Breakdown(doc),
		PredictionSubmittedAt: submitted,
		CalculatedAt:          row.CalculatedAt,
	}, nil
}
