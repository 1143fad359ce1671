package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/domain/race"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	var row raceTableModel
	found, err := getOne(ctx, r.db, &row,
		raceSelect().Where(qb.Eq("id", raceID), qb.IsNull("deleted_at")).ToSQL,
		raceSelect().Where(qb.EqLiteral("id", raceID), qb.IsNull("deleted_at")).ToSQL,
	)
	if err != nil {
		return race.Race{}, false, fmt.Errorf("get race: %w", err)
	}
	if !found {
		return race.Race{}, false, nil
	}
	rc, err := raceFromRow(row)
	if err != nil {
		return race.Race{}, false, err
	}
	return rc, true, nil
}

func (r *RaceRepository) GetBySeasonRound(ctx context.Context, seasonID string, round int) (race.Race, bool, error) {
	var row raceTableModel
	found, err := getOne(ctx, r.db, &row,
		raceSelect().Where(qb.Eq("season_id", seasonID), qb.Eq("round", round), qb.IsNull("deleted_at")).ToSQL,
		raceSelect().Where(qb.EqLiteral("season_id", seasonID), qb.Expr("round = "+strconv.Itoa(round)), qb.IsNull("deleted_at")).ToSQL,
	)
	if err != nil {
		return race.Race{}, false, fmt.Errorf("get race by season round: %w", err)
	}
	if !found {
		return race.Race{}, false, nil
	}
	rc, err := raceFromRow(row)
	if err != nil {
		return race.Race{}, false, err
	}
	return rc, true, nil
}

func (r *RaceRepository) ListBySeason(ctx context.Context, seasonID string) ([]race.Race, error) {
	query, args, err := raceSelect().
		Where(qb.Eq("season_id", seasonID), qb.IsNull("deleted_at")).
		OrderBy("round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list races by season query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *RaceRepository) ListStartedWithoutResult(ctx context.Context, before time.Time) ([]race.Race, error) {
	query, args, err := raceSelect().
		Where(qb.Lt("starts_at", before.UTC()), qb.IsNull("result"), qb.IsNull("deleted_at")).
		OrderBy("starts_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list races awaiting result query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *RaceRepository) list(ctx context.Context, query string, args []any) ([]race.Race, error) {
	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		rc, err := raceFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, nil
}

// Upsert keys on (season_id, round); a stored result survives a schedule
// refresh because the conflict clause only overwrites it with a non-null one.
func (r *RaceRepository) Upsert(ctx context.Context, rc race.Race) (race.Race, error) {
	sessions, err := encodeSessions(rc.Sessions)
	if err != nil {
		return race.Race{}, fmt.Errorf("encode sessions: %w", err)
	}
	result, resultAt, err := encodeResult(rc.Result)
	if err != nil {
		return race.Race{}, fmt.Errorf("encode result: %w", err)
	}

	query, args, err := qb.InsertModel("races", raceInsertModel{
		ID:       rc.ID,
		SeasonID: rc.SeasonID,
		Round:    rc.Round,
		Name:     rc.Name,
		StartsAt: rc.StartsAt.UTC(),
		Circuit:  rc.Circuit,
		Location: rc.Location,
		Country:  rc.Country,
		Sessions: sessions,
		Result:   result,
		ResultAt: resultAt,
	}, `ON CONFLICT (season_id, round) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    starts_at = EXCLUDED.starts_at,
    circuit = EXCLUDED.circuit,
    location = EXCLUDED.location,
    country = EXCLUDED.country,
    sessions = COALESCE(EXCLUDED.sessions, races.sessions),
    result = COALESCE(EXCLUDED.result, races.result),
    result_at = COALESCE(EXCLUDED.result_at, races.result_at),
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return race.Race{}, fmt.Errorf("build upsert race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return race.Race{}, fmt.Errorf("upsert race: %w", err)
	}
	return raceFromRow(row)
}

func (r *RaceRepository) SetOfficialResult(ctx context.Context, raceID string, result race.OfficialResult) error {
	doc, recordedAt, err := encodeResult(&result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	query, args, err := qb.Update("races").
		SetExpr("result", "?::jsonb", doc.String).
		Set("result_at", recordedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set race result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set race result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected set race result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set race result: race %s not found", raceID)
	}
	return nil
}

func raceSelect() *qb.SelectBuilder {
	return qb.Select("*").From("races")
}
