package room

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
)

type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
)

// Room is a season-long prediction competition.
type Room struct {
	ID        string
	HostID    string
	SeasonID  string
	Name      string
	Lockout   LockoutConfig
	Scoring   scoring.Config
	Status    Status
	JoinCode  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Room) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("room id is required")
	}
	if strings.TrimSpace(r.HostID) == "" {
		return fmt.Errorf("room host id is required")
	}
	if strings.TrimSpace(r.SeasonID) == "" {
		return fmt.Errorf("room season id is required")
	}
	if len(r.Name) > 80 {
		return fmt.Errorf("room name must be at most 80 characters")
	}
	if r.Lockout == nil {
		return fmt.Errorf("%w: lockout config is required", ErrInvalidLockout)
	}
	if err := r.Lockout.Validate(); err != nil {
		return err
	}
	if err := r.Scoring.Validate(); err != nil {
		return err
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	if !ValidJoinCode(r.JoinCode) {
		return fmt.Errorf("invalid join code %q", r.JoinCode)
	}
	return nil
}

func (r Room) IsHost(userID string) bool {
	return r.HostID != "" && r.HostID == userID
}

// Transition moves the room to next when the status table allows it.
func (r *Room) Transition(next Status, now time.Time) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

// Participant is a user's membership of a room.
type Participant struct {
	RoomID   string
	UserID   string
	Role     Role
	JoinedAt time.Time
}
