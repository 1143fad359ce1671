package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
)

type RoomRepository struct {
	mu           sync.RWMutex
	rooms        map[string]room.Room
	participants map[string]room.Participant
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms:        make(map[string]room.Room),
		participants: make(map[string]room.Participant),
	}
}

func (r *RoomRepository) GetByID(_ context.Context, roomID string) (room.Room, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rooms[roomID]
	if !ok {
		return room.Room{}, false, nil
	}
	return cloneRoom(item), true, nil
}

func (r *RoomRepository) GetByJoinCode(_ context.Context, code string) (room.Room, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.rooms {
		if item.JoinCode == code {
			return cloneRoom(item), true, nil
		}
	}
	return room.Room{}, false, nil
}

func (r *RoomRepository) ListBySeason(_ context.Context, seasonID string) ([]room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]room.Room, 0)
	for _, item := range r.rooms {
		if item.SeasonID == seasonID {
			out = append(out, cloneRoom(item))
		}
	}
	sortRooms(out)
	return out, nil
}

func (r *RoomRepository) ListByParticipant(_ context.Context, userID string) ([]room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]room.Room, 0)
	for _, p := range r.participants {
		if p.UserID != userID {
			continue
		}
		if item, ok := r.rooms[p.RoomID]; ok {
			out = append(out, cloneRoom(item))
		}
	}
	sortRooms(out)
	return out, nil
}

func (r *RoomRepository) Create(_ context.Context, rm room.Room, host room.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[rm.ID]; exists {
		return fmt.Errorf("room %s already exists", rm.ID)
	}
	for _, item := range r.rooms {
		if item.JoinCode == rm.JoinCode {
			return fmt.Errorf("join code %s already in use", rm.JoinCode)
		}
	}
	r.rooms[rm.ID] = cloneRoom(rm)
	r.participants[participantKey(host.RoomID, host.UserID)] = host
	return nil
}

func (r *RoomRepository) Update(_ context.Context, rm room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[rm.ID]; !exists {
		return fmt.Errorf("room %s not found", rm.ID)
	}
	r.rooms[rm.ID] = cloneRoom(rm)
	return nil
}

func (r *RoomRepository) AddParticipant(_ context.Context, p room.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := participantKey(p.RoomID, p.UserID)
	if _, exists := r.participants[key]; exists {
		return nil
	}
	r.participants[key] = p
	return nil
}

func (r *RoomRepository) GetParticipant(_ context.Context, roomID, userID string) (room.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[participantKey(roomID, userID)]
	return p, ok, nil
}

func (r *RoomRepository) ListParticipants(_ context.Context, roomID string) ([]room.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]room.Participant, 0)
	for _, p := range r.participants {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func participantKey(roomID, userID string) string {
	return roomID + "::" + userID
}

func sortRooms(items []room.Room) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func cloneRoom(rm room.Room) room.Room {
	copied := rm
	copied.Scoring = rm.Scoring.Clone()
	return copied
}
