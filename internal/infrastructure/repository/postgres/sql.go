package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isBindParameterMismatch matches the error transaction-pooling proxies
// return when a cached statement no longer lines up with its arguments.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "prepared statement")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") ||
		(strings.Contains(msg, "prepared statement") && strings.Contains(msg, "26000"))
}

type queryFunc func() (string, []any, error)

// getOne loads a single row into dest. When the pooler drops the prepared
// statement it retries once with the literal variant of the query.
func getOne(ctx context.Context, db *sqlx.DB, dest any, build, literal queryFunc) (bool, error) {
	query, args, err := build()
	if err != nil {
		return false, err
	}
	err = db.GetContext(ctx, dest, query, args...)
	if err != nil && literal != nil && (isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)) {
		query, args, err = literal()
		if err != nil {
			return false, err
		}
		err = db.GetContext(ctx, dest, query, args...)
	}
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func toJSON(v any) (string, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func fromJSON(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return sonic.Unmarshal(raw, v)
}

func nullTimeToTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func timePtrToNullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}

func intPtrToNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intsToArray(values []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(values))
	for _, v := range values {
		out = append(out, int64(v))
	}
	return out
}

func arrayToInts(values pq.Int64Array) []int {
	if len(values) == 0 {
		return nil
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, int(v))
	}
	return out
}
