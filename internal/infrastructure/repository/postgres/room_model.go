package postgres

import (
	"fmt"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

type roomTableModel struct {
	ID        string     `db:"id"`
	HostID    string     `db:"host_id"`
	SeasonID  string     `db:"season_id"`
	Name      string     `db:"name"`
	Lockout   []byte     `db:"lockout"`
	Scoring   []byte     `db:"scoring"`
	Status    string     `db:"status"`
	JoinCode  string     `db:"join_code"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type roomInsertModel struct {
	ID        string    `db:"id"`
	HostID    string    `db:"host_id"`
	SeasonID  string    `db:"season_id"`
	Name      string    `db:"name"`
	Lockout   string    `db:"lockout"`
	Scoring   string    `db:"scoring"`
	Status    string    `db:"status"`
	JoinCode  string    `db:"join_code"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type participantTableModel struct {
	RoomID    string     `db:"room_id"`
	UserID    string     `db:"user_id"`
	Role      string     `db:"role"`
	JoinedAt  time.Time  `db:"joined_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type participantInsertModel struct {
	RoomID   string    `db:"room_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

type scoringConfigDocument struct {
	PositionPoints     []float64 `json:"position_points"`
	FastestLapPoints   float64   `json:"fastest_lap_points"`
	PolePositionPoints float64   `json:"pole_position_points"`
	DNFPenalty         float64   `json:"dnf_penalty"`
}

func roomInsertFromDomain(rm room.Room) (roomInsertModel, error) {
	lockoutDoc, err := toJSON(room.EncodeLockout(rm.Lockout))
	if err != nil {
		return roomInsertModel{}, fmt.Errorf("encode lockout: %w", err)
	}
	scoringDoc, err := toJSON(scoringConfigDocument{
		PositionPoints:     rm.Scoring.PositionPoints,
		FastestLapPoints:   rm.Scoring.FastestLapPoints,
		PolePositionPoints: rm.Scoring.PolePositionPoints,
		DNFPenalty:         rm.Scoring.DNFPenalty,
	})
	if err != nil {
		return roomInsertModel{}, fmt.Errorf("encode scoring: %w", err)
	}
	return roomInsertModel{
		ID:        rm.ID,
		HostID:    rm.HostID,
		SeasonID:  rm.SeasonID,
		Name:      rm.Name,
		Lockout:   lockoutDoc,
		Scoring:   scoringDoc,
		Status:    string(rm.Status),
		JoinCode:  rm.JoinCode,
		CreatedAt: rm.CreatedAt.UTC(),
		UpdatedAt: rm.UpdatedAt.UTC(),
	}, nil
}

func roomFromRow(row roomTableModel) (room.Room, error) {
	var lockoutDoc room.LockoutDocument
	if err := fromJSON(row.Lockout, &lockoutDoc); err != nil {
		return room.Room{}, fmt.Errorf("decode lockout room=%s: %w", row.ID, err)
	}
	lockoutCfg, err := room.DecodeLockout(lockoutDoc)
	if err != nil {
		return room.Room{}, fmt.Errorf("decode lockout room=%s: %w", row.ID, err)
	}

	var scoringDoc scoringConfigDocument
	if err := fromJSON(row.Scoring, &scoringDoc); err != nil {
		return room.Room{}, fmt.Errorf("decode scoring room=%s: %w", row.ID, err)
	}
	status, err := room.ParseStatus(row.Status)
	if err != nil {
		return room.Room{}, fmt.Errorf("decode status room=%s: %w", row.ID, err)
	}

	return room.Room{
		ID:       row.ID,
		HostID:   row.HostID,
		SeasonID: row.SeasonID,
		Name:     row.Name,
		Lockout:  lockoutCfg,
		Scoring: scoring.Config{
			PositionPoints:     scoringDoc.PositionPoints,
			FastestLapPoints:   scoringDoc.FastestLapPoints,
			PolePositionPoints: scoringDoc.PolePositionPoints,
			DNFPenalty:         scoringDoc.DNFPenalty,
		},
		Status:    status,
		JoinCode:  row.JoinCode,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func participantFromRow(row participantTableModel) room.Participant {
	return room.Participant{
		RoomID:   row.RoomID,
		UserID:   row.UserID,
		Role:     room.Role(row.Role),
		JoinedAt: row.JoinedAt,
	}
}
