package room

import "context"

type Repository interface {
	GetByID(ctx context.Context, roomID string) (Room, bool, error)
	GetByJoinCode(ctx context.Context, code string) (Room, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Room, error)
	ListByParticipant(ctx context.Context, userID string) ([]Room, error)
	// Create stores the room and its host participant atomically.
	Create(ctx context.Context, r Room, host Participant) error
	Update(ctx context.Context, r Room) error

	// AddParticipant is a no-op when the user is already a member.
	AddParticipant(ctx context.Context, p Participant) error
	GetParticipant(ctx context.Context, roomID, userID string) (Participant, bool, error)
	ListParticipants(ctx context.Context, roomID string) ([]Participant, error)
}
