package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/domain/user"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	var row userTableModel
	found, err := getOne(ctx, r.db, &row,
		userSelect().Where(qb.Eq("id", userID), qb.IsNull("deleted_at")).ToSQL,
		userSelect().Where(qb.EqLiteral("id", userID), qb.IsNull("deleted_at")).ToSQL,
	)
	if err != nil {
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return user.User{}, false, nil
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return []user.User{}, nil
	}
	query, args, err := userSelect().
		Where(qb.InStrings("id", userIDs), qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := qb.InsertModel("users", userInsertModel{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}, `ON CONFLICT (id)
DO UPDATE SET
    username = EXCLUDED.username,
    email = EXCLUDED.email,
    avatar_url = EXCLUDED.avatar_url,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING *`)
	if err != nil {
		return user.User{}, fmt.Errorf("build upsert user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return userFromRow(row), nil
}

func userSelect() *qb.SelectBuilder {
	return qb.Select("*").From("users")
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		AvatarURL: row.AvatarURL,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
