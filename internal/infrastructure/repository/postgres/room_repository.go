package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/race-predictor/internal/domain/room"
	qb "github.com/riskibarqy/race-predictor/internal/platform/querybuilder"
)

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, roomID string) (room.Room, bool, error) {
	return r.getOne(ctx, "get room",
		roomSelect().Where(qb.Eq("id", roomID), qb.IsNull("deleted_at")).ToSQL,
		roomSelect().Where(qb.EqLiteral("id", roomID), qb.IsNull("deleted_at")).ToSQL,
	)
}

func (r *RoomRepository) GetByJoinCode(ctx context.Context, code string) (room.Room, bool, error) {
	return r.getOne(ctx, "get room by join code",
		roomSelect().Where(qb.Eq("join_code", code), qb.IsNull("deleted_at")).ToSQL,
		roomSelect().Where(qb.EqLiteral("join_code", code), qb.IsNull("deleted_at")).ToSQL,
	)
}

func (r *RoomRepository) getOne(ctx context.Context, op string, build, literal queryFunc) (room.Room, bool, error) {
	var row roomTableModel
	found, err := getOne(ctx, r.db, &row, build, literal)
	if err != nil {
		return room.Room{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return room.Room{}, false, nil
	}
	rm, err := roomFromRow(row)
	if err != nil {
		return room.Room{}, false, err
	}
	return rm, true, nil
}

func (r *RoomRepository) ListBySeason(ctx context.Context, seasonID string) ([]room.Room, error) {
	query, args, err := roomSelect().
		Where(qb.Eq("season_id", seasonID), qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rooms by season query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *RoomRepository) ListByParticipant(ctx context.Context, userID string) ([]room.Room, error) {
	query, args, err := qb.Select("r.*").
		From("rooms r JOIN room_participants p ON p.room_id = r.id AND p.deleted_at IS NULL").
		Where(qb.Eq("p.user_id", userID), qb.IsNull("r.deleted_at")).
		OrderBy("r.created_at DESC", "r.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rooms by participant query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *RoomRepository) list(ctx context.Context, query string, args []any) ([]room.Room, error) {
	var rows []roomTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	out := make([]room.Room, 0, len(rows))
	for _, row := range rows {
		rm, err := roomFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, nil
}

func (r *RoomRepository) Create(ctx context.Context, rm room.Room, host room.Participant) error {
	model, err := roomInsertFromDomain(rm)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create room: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	roomQuery, roomArgs, err := qb.InsertModel("rooms", model, "")
	if err != nil {
		return fmt.Errorf("build insert room query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, roomQuery, roomArgs...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert room: join code %s already in use: %w", rm.JoinCode, err)
		}
		return fmt.Errorf("insert room: %w", err)
	}

	hostQuery, hostArgs, err := qb.InsertModel("room_participants", participantInsertModel{
		RoomID:   host.RoomID,
		UserID:   host.UserID,
		Role:     string(host.Role),
		JoinedAt: host.JoinedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert host participant query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, hostQuery, hostArgs...); err != nil {
		return fmt.Errorf("insert host participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create room: %w", err)
	}
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, rm room.Room) error {
	model, err := roomInsertFromDomain(rm)
	if err != nil {
		return err
	}
	query, args, err := qb.Update("rooms").
		Set("name", model.Name).
		SetExpr("lockout", "?::jsonb", model.Lockout).
		SetExpr("scoring", "?::jsonb", model.Scoring).
		Set("status", model.Status).
		Set("updated_at", model.UpdatedAt).
		Where(qb.Eq("id", rm.ID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update room query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update room: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update room: room %s not found", rm.ID)
	}
	return nil
}

func (r *RoomRepository) AddParticipant(ctx context.Context, p room.Participant) error {
	query, args, err := qb.InsertModel("room_participants", participantInsertModel{
		RoomID:   p.RoomID,
		UserID:   p.UserID,
		Role:     string(p.Role),
		JoinedAt: p.JoinedAt.UTC(),
	}, `ON CONFLICT (room_id, user_id) WHERE deleted_at IS NULL DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build insert participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetParticipant(ctx context.Context, roomID, userID string) (room.Participant, bool, error) {
	var row participantTableModel
	found, err := getOne(ctx, r.db, &row,
		participantSelect().Where(qb.Eq("room_id", roomID), qb.Eq("user_id", userID), qb.IsNull("deleted_at")).ToSQL,
		participantSelect().Where(qb.EqLiteral("room_id", roomID), qb.EqLiteral("user_id", userID), qb.IsNull("deleted_at")).ToSQL,
	)
	if err != nil {
		return room.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}
	if !found {
		return room.Participant{}, false, nil
	}
	return participantFromRow(row), true, nil
}

func (r *RoomRepository) ListParticipants(ctx context.Context, roomID string) ([]room.Participant, error) {
	query, args, err := participantSelect().
		Where(qb.Eq("room_id", roomID), qb.IsNull("deleted_at")).
		OrderBy("joined_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	out := make([]room.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}
	return out, nil
}

func roomSelect() *qb.SelectBuilder {
	return qb.Select("*").From("rooms")
}

func participantSelect() *qb.SelectBuilder {
	return qb.Select("*").From("room_participants")
}
