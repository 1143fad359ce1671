package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
)

type raceTableModel struct {
	ID        string       `db:"id"`
	SeasonID  string       `db:"season_id"`
	Round     int          `db:"round"`
	Name      string       `db:"name"`
	StartsAt  time.Time    `db:"starts_at"`
	Circuit   string       `db:"circuit"`
	Location  string       `db:"location"`
	Country   string       `db:"country"`
	Sessions  []byte       `db:"sessions"`
	Result    []byte       `db:"result"`
	ResultAt  sql.NullTime `db:"result_at"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt *time.Time   `db:"deleted_at"`
}

type raceInsertModel struct {
	ID       string         `db:"id"`
	SeasonID string         `db:"season_id"`
	Round    int            `db:"round"`
	Name     string         `db:"name"`
	StartsAt time.Time      `db:"starts_at"`
	Circuit  string         `db:"circuit"`
	Location string         `db:"location"`
	Country  string         `db:"country"`
	Sessions sql.NullString `db:"sessions"`
	Result   sql.NullString `db:"result"`
	ResultAt sql.NullTime   `db:"result_at"`
}

type sessionWindowDocument struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type resultPositionDocument struct {
	Position     int     `json:"position"`
	DriverNumber int     `json:"driver_number"`
	Points       float64 `json:"points"`
}

type resultDocument struct {
	Positions        []resultPositionDocument `json:"positions"`
	FastestLapDriver *int                     `json:"fastest_lap_driver,omitempty"`
	PoleDriver       *int                     `json:"pole_driver,omitempty"`
	DNFDrivers       []int                    `json:"dnf_drivers"`
}

func encodeSessions(s *race.SessionTimes) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	doc := make(map[string]sessionWindowDocument, len(race.Sessions))
	for _, name := range race.Sessions {
		if w, ok := s.Lookup(name); ok {
			doc[string(name)] = sessionWindowDocument{Start: w.Start.UTC(), End: w.End.UTC()}
		}
	}
	raw, err := toJSON(doc)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: raw, Valid: true}, nil
}

func decodeSessions(raw []byte) (*race.SessionTimes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc map[string]sessionWindowDocument
	if err := fromJSON(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, nil
	}
	out := &race.SessionTimes{}
	for key, w := range doc {
		name, err := race.ParseSessionName(key)
		if err != nil {
			return nil, err
		}
		if err := out.Set(name, race.SessionWindow{Start: w.Start, End: w.End}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeResult(r *race.OfficialResult) (sql.NullString, sql.NullTime, error) {
	if r == nil {
		return sql.NullString{}, sql.NullTime{}, nil
	}
	doc := resultDocument{
		Positions:        make([]resultPositionDocument, 0, len(r.Positions)),
		FastestLapDriver: r.FastestLapDriver,
		PoleDriver:       r.PoleDriver,
		DNFDrivers:       r.DNFDrivers,
	}
	if doc.DNFDrivers == nil {
		doc.DNFDrivers = []int{}
	}
	for _, p := range r.Positions {
		doc.Positions = append(doc.Positions, resultPositionDocument{
			Position:     p.Position,
			DriverNumber: p.DriverNumber,
			Points:       p.Points,
		})
	}
	raw, err := toJSON(doc)
	if err != nil {
		return sql.NullString{}, sql.NullTime{}, err
	}
	recordedAt := r.RecordedAt
	return sql.NullString{String: raw, Valid: true}, timePtrToNullTime(&recordedAt), nil
}

func decodeResult(raw []byte, recordedAt sql.NullTime) (*race.OfficialResult, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc resultDocument
	if err := fromJSON(raw, &doc); err != nil {
		return nil, err
	}
	out := &race.OfficialResult{
		Positions:        make([]race.ResultPosition, 0, len(doc.Positions)),
		FastestLapDriver: doc.FastestLapDriver,
		PoleDriver:       doc.PoleDriver,
		DNFDrivers:       doc.DNFDrivers,
	}
	if t := nullTimeToTimePtr(recordedAt); t != nil {
		out.RecordedAt = *t
	}
	for _, p := range doc.Positions {
		out.Positions = append(out.Positions, race.ResultPosition{
			Position:     p.Position,
			DriverNumber: p.DriverNumber,
			Points:       p.Points,
		})
	}
	return out, nil
}

func raceFromRow(row raceTableModel) (race.Race, error) {
	sessions, err := decodeSessions(row.Sessions)
	if err != nil {
		return race.Race{}, fmt.Errorf("decode sessions race=%s: %w", row.ID, err)
	}
	result, err := decodeResult(row.Result, row.ResultAt)
	if err != nil {
		return race.Race{}, fmt.Errorf("decode result race=%s: %w", row.ID, err)
	}
	return race.Race{
		ID:       row.ID,
		SeasonID: row.SeasonID,
		Round:    row.Round,
		Name:     row.Name,
		StartsAt: row.StartsAt.UTC(),
		Circuit:  row.Circuit,
		Location: row.Location,
		Country:  row.Country,
		Sessions: sessions,
		Result:   result,
	}, nil
}
