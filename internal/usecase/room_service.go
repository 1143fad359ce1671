package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/riskibarqy/race-predictor/internal/platform/id"
)

const maxJoinCodeAttempts = 8

type CreateRoomInput struct {
	HostID   string
	SeasonID string
	Name     string
	Lockout  room.LockoutConfig
	Scoring  *scoring.Config
}

type UpdateRoomSettingsInput struct {
	ActorID string
	RoomID  string
	Name    *string
	Lockout room.LockoutConfig
	Scoring *scoring.Config
}

type RoomService struct {
	roomRepo   room.Repository
	seasonRepo season.Repository
	idGen      id.Generator
	codes      room.JoinCodeGenerator
	now        func() time.Time
}

func NewRoomService(
	roomRepo room.Repository,
	seasonRepo season.Repository,
	idGen id.Generator,
	codes room.JoinCodeGenerator,
) *RoomService {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if codes == nil {
		codes = room.RandomJoinCodes{}
	}
	return &RoomService{
		roomRepo:   roomRepo,
		seasonRepo: seasonRepo,
		idGen:      idGen,
		codes:      codes,
		now:        time.Now,
	}
}

func (s *RoomService) Create(ctx context.Context, input CreateRoomInput) (room.Room, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoomService.Create")
	defer span.End()

	input.HostID = strings.TrimSpace(input.HostID)
	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.HostID == "" {
		return room.Room{}, fmt.Errorf("%w: host id is required", ErrUnauthorized)
	}
	if input.SeasonID == "" {
		return room.Room{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return room.Room{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return room.Room{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	roomID, err := s.idGen.NewID()
	if err != nil {
		return room.Room{}, fmt.Errorf("generate room id: %w", err)
	}
	code, err := s.uniqueJoinCode(ctx)
	if err != nil {
		return room.Room{}, err
	}

	now := s.now().UTC()
	rm := room.Room{
		ID:        roomID,
		HostID:    input.HostID,
		SeasonID:  input.SeasonID,
		Name:      strings.TrimSpace(input.Name),
		Lockout:   input.Lockout,
		Scoring:   scoring.DefaultConfig(),
		Status:    room.StatusOpen,
		JoinCode:  code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if rm.Lockout == nil {
		rm.Lockout = room.DefaultLockout()
	}
	if input.Scoring != nil {
		rm.Scoring = input.Scoring.Clone()
	}
	if err := rm.Validate(); err != nil {
		return room.Room{}, invalid(err)
	}

	host := room.Participant{RoomID: rm.ID, UserID: rm.HostID, Role: room.RoleHost, JoinedAt: now}
	if err := s.roomRepo.Create(ctx, rm, host); err != nil {
		return room.Room{}, fmt.Errorf("create room: %w", err)
	}
	return rm, nil
}

func (s *RoomService) uniqueJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < maxJoinCodeAttempts; i++ {
		code, err := s.codes.NewJoinCode()
		if err != nil {
			return "", err
		}
		_, taken, err := s.roomRepo.GetByJoinCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check join code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique join code", ErrConflict)
}

// Get returns a room the caller participates in.
func (s *RoomService) Get(ctx context.Context, userID, roomID string) (room.Room, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return room.Room{}, err
	}
	if _, err := s.requireParticipant(ctx, rm.ID, userID); err != nil {
		return room.Room{}, err
	}
	return rm, nil
}

func (s *RoomService) ListMine(ctx context.Context, userID string) ([]room.Room, error) {
	rooms, err := s.roomRepo.ListByParticipant(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list rooms by participant: %w", err)
	}
	return rooms, nil
}

// Join adds the user to the room behind joinCode. Joining twice is a no-op.
func (s *RoomService) Join(ctx context.Context, userID, joinCode string) (room.Room, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoomService.Join")
	defer span.End()

	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if !room.ValidJoinCode(code) {
		return room.Room{}, fmt.Errorf("%w: join code must be %d characters", ErrInvalidInput, room.JoinCodeLength)
	}
	rm, exists, err := s.roomRepo.GetByJoinCode(ctx, code)
	if err != nil {
		return room.Room{}, fmt.Errorf("get room by join code: %w", err)
	}
	if !exists {
		return room.Room{}, fmt.Errorf("%w: no room with join code %s", ErrNotFound, code)
	}

	if _, member, err := s.roomRepo.GetParticipant(ctx, rm.ID, userID); err != nil {
		return room.Room{}, fmt.Errorf("get participant: %w", err)
	} else if member {
		return rm, nil
	}
	if !rm.Status.AcceptsMembers() {
		return room.Room{}, fmt.Errorf("%w: room is %s and no longer accepts participants", ErrConflict, rm.Status)
	}

	p := room.Participant{RoomID: rm.ID, UserID: userID, Role: room.RoleParticipant, JoinedAt: s.now().UTC()}
	if err := s.roomRepo.AddParticipant(ctx, p); err != nil {
		return room.Room{}, fmt.Errorf("add participant: %w", err)
	}
	return rm, nil
}

func (s *RoomService) ListParticipants(ctx context.Context, userID, roomID string) ([]room.Participant, error) {
	rm, err := s.Get(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	items, err := s.roomRepo.ListParticipants(ctx, rm.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return items, nil
}

// UpdateSettings changes name, lockout or scoring. Host only.
func (s *RoomService) UpdateSettings(ctx context.Context, input UpdateRoomSettingsInput) (room.Room, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoomService.UpdateSettings")
	defer span.End()

	rm, err := s.loadAsHost(ctx, input.ActorID, input.RoomID)
	if err != nil {
		return room.Room{}, err
	}
	if rm.Status == room.StatusArchived {
		return room.Room{}, fmt.Errorf("%w: archived rooms cannot be changed", ErrConflict)
	}

	if input.Name != nil {
		rm.Name = strings.TrimSpace(*input.Name)
	}
	if input.Lockout != nil {
		rm.Lockout = input.Lockout
	}
	if input.Scoring != nil {
		rm.Scoring = input.Scoring.Clone()
	}
	if err := rm.Validate(); err != nil {
		return room.Room{}, invalid(err)
	}
	rm.UpdatedAt = s.now().UTC()

	if err := s.roomRepo.Update(ctx, rm); err != nil {
		return room.Room{}, fmt.Errorf("update room: %w", err)
	}
	return rm, nil
}

// TransitionStatus moves the room along the status table. Host only.
func (s *RoomService) TransitionStatus(ctx context.Context, actorID, roomID string, next room.Status) (room.Room, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoomService.TransitionStatus")
	defer span.End()

	rm, err := s.loadAsHost(ctx, actorID, roomID)
	if err != nil {
		return room.Room{}, err
	}
	if err := rm.Transition(next, s.now().UTC()); err != nil {
		if errors.Is(err, room.ErrInvalidTransition) {
			return room.Room{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return room.Room{}, err
	}
	if err := s.roomRepo.Update(ctx, rm); err != nil {
		return room.Room{}, fmt.Errorf("update room: %w", err)
	}
	return rm, nil
}

func (s *RoomService) Lock(ctx context.Context, actorID, roomID string) (room.Room, error) {
	return s.TransitionStatus(ctx, actorID, roomID, room.StatusLocked)
}

func (s *RoomService) loadAsHost(ctx context.Context, actorID, roomID string) (room.Room, error) {
	rm, err := loadRoom(ctx, s.roomRepo, roomID)
	if err != nil {
		return room.Room{}, err
	}
	if !rm.IsHost(actorID) {
		return room.Room{}, fmt.Errorf("%w: only the room host can do this", ErrForbidden)
	}
	return rm, nil
}

func (s *RoomService) requireParticipant(ctx context.Context, roomID, userID string) (room.Participant, error) {
	return requireParticipant(ctx, s.roomRepo, roomID, userID)
}

func requireParticipant(ctx context.Context, repo room.Repository, roomID, userID string) (room.Participant, error) {
	p, member, err := repo.GetParticipant(ctx, roomID, userID)
	if err != nil {
		return room.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !member {
		return room.Participant{}, fmt.Errorf("%w: you are not a participant of room %s", ErrForbidden, roomID)
	}
	return p, nil
}
