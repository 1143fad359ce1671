package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
)

type predictionTableModel struct {
	RoomID           string        `db:"room_id"`
	RaceID           string        `db:"race_id"`
	UserID           string        `db:"user_id"`
	Picks            []byte        `db:"picks"`
	PoleDriver       sql.NullInt64 `db:"pole_driver"`
	FastestLapDriver sql.NullInt64 `db:"fastest_lap_driver"`
	DNFDrivers       pq.Int64Array `db:"dnf_drivers"`
	SubmittedAt      time.Time     `db:"submitted_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
	DeletedAt        *time.Time    `db:"deleted_at"`
}

type predictionInsertModel struct {
	RoomID           string        `db:"room_id"`
	RaceID           string        `db:"race_id"`
	UserID           string        `db:"user_id"`
	Picks            string        `db:"picks"`
	PoleDriver       sql.NullInt64 `db:"pole_driver"`
	FastestLapDriver sql.NullInt64 `db:"fastest_lap_driver"`
	DNFDrivers       pq.Int64Array `db:"dnf_drivers"`
	SubmittedAt      time.Time     `db:"submitted_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

type pickDocument struct {
	Position     int `json:"position"`
	DriverNumber int `json:"driver_number"`
}

func predictionInsertFromDomain(p prediction.Prediction) (predictionInsertModel, error) {
	picks := make([]pickDocument, 0, len(p.Picks))
	for _, pick := range p.SortedPicks() {
		picks = append(picks, pickDocument{Position: pick.Position, DriverNumber: pick.DriverNumber})
	}
	doc, err := toJSON(picks)
	if err != nil {
		return predictionInsertModel{}, fmt.Errorf("encode picks: %w", err)
	}
	return predictionInsertModel{
		RoomID:           p.RoomID,
		RaceID:           p.RaceID,
		UserID:           p.UserID,
		Picks:            doc,
		PoleDriver:       intPtrToNull(p.PoleDriver),
		FastestLapDriver: intPtrToNull(p.FastestLapDriver),
		DNFDrivers:       intsToArray(p.DNFDrivers),
		SubmittedAt:      p.SubmittedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}, nil
}

func predictionFromRow(row predictionTableModel) (prediction.Prediction, error) {
	var docs []pickDocument
	if err := fromJSON(row.Picks, &docs); err != nil {
		return prediction.Prediction{}, fmt.Errorf("decode picks room=%s race=%s user=%s: %w", row.RoomID, row.RaceID, row.UserID, err)
	}
	picks := make([]prediction.Pick, 0, len(docs))
	for _, d := range docs {
		picks = append(picks, prediction.Pick{Position: d.Position, DriverNumber: d.DriverNumber})
	}
	return prediction.Prediction{
		RoomID:           row.RoomID,
		RaceID:           row.RaceID,
		UserID:           row.UserID,
		Picks:            picks,
		PoleDriver:       nullToIntPtr(row.PoleDriver),
		FastestLapDriver: nullToIntPtr(row.FastestLapDriver),
		DNFDrivers:       arrayToInts(row.DNFDrivers),
		SubmittedAt:      row.SubmittedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
