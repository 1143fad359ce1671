package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := seasonSelect().
		Where(qb.IsNull("deleted_at")).
		OrderBy("year DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	var row seasonTableModel
	found, err := getOne(ctx, r.db, &row,
		seasonSelect().Where(qb.Eq("id", seasonID), qb.IsNull("deleted_at")).ToSQL,
		seasonSelect().Where(qb.EqLiteral("id", seasonID), qb.IsNull("deleted_at")).ToSQL,
	)
	if err != nil {
		return season.Season{}, false, fmt.Errorf("get season: %w", err)
	}
	if !found {
		return season.Season{}, false, nil
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	var row seasonTableModel
	found, err := getOne(ctx, r.db, &row,
		seasonSelect().Where(qb.Eq("year", year), qb.IsNull("deleted_at")).ToSQL,
		seasonSelect().Where(qb.Expr("year = "+strconv.Itoa(year)), qb.IsNull("deleted_at")).ToSQL,
	)
	if err != nil {
		return season.Season{}, false, fmt.Errorf("get season by year: %w", err)
	}
	if !found {
		return season.Season{}, false, nil
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) Upsert(ctx context.Context, s season.Season) (season.Season, error) {
	query, args, err := qb.InsertModel("seasons", seasonInsertModel{
		ID:           s.ID,
		Year:         s.Year,
		TotalRaces:   s.TotalRaces,
		CurrentRound: s.CurrentRound,
	}, `ON CONFLICT (id)
DO UPDATE SET
    year = EXCLUDED.year,
    total_races = EXCLUDED.total_races,
    current_round = EXCLUDED.current_round,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING *`)
	if err != nil {
		return season.Season{}, fmt.Errorf("build upsert season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return season.Season{}, fmt.Errorf("upsert season: %w", err)
	}
	return seasonFromRow(row), nil
}

func seasonSelect() *qb.SelectBuilder {
	return qb.Select("*").From("seasons")
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:           row.ID,
		Year:         row.Year,
		TotalRaces:   row.TotalRaces,
		CurrentRound: row.CurrentRound,
	}
}
