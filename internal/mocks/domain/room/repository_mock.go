package roommock

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/domain/room"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of room.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) GetByID(ctx context.Context, roomID string) (room.Room, bool, error) {
	ret := _m.Called(ctx, roomID)
	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (room.Room, bool, error)); ok {
		return rf(ctx, roomID)
	}

	var r0 room.Room
	if rf, ok := ret.Get(0).(func(context.Context, string) room.Room); ok {
		r0 = rf(ctx, roomID)
	} else {
		r0 = ret.Get(0).(room.Room)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, roomID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, roomID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) GetByJoinCode(ctx context.Context, code string) (room.Room, bool, error) {
	ret := _m.Called(ctx, code)
	if len(ret) == 0 {
		panic("no return value specified for GetByJoinCode")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (room.Room, bool, error)); ok {
		return rf(ctx, code)
	}

	var r0 room.Room
	if rf, ok := ret.Get(0).(func(context.Context, string) room.Room); ok {
		r0 = rf(ctx, code)
	} else {
		r0 = ret.Get(0).(room.Room)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, code)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, code)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) ListBySeason(ctx context.Context, seasonID string) ([]room.Room, error) {
	ret := _m.Called(ctx, seasonID)
	if len(ret) == 0 {
		panic("no return value specified for ListBySeason")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]room.Room, error)); ok {
		return rf(ctx, seasonID)
	}

	var r0 []room.Room
	if rf, ok := ret.Get(0).(func(context.Context, string) []room.Room); ok {
		r0 = rf(ctx, seasonID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]room.Room)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, seasonID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) ListByParticipant(ctx context.Context, userID string) ([]room.Room, error) {
	ret := _m.Called(ctx, userID)
	if len(ret) == 0 {
		panic("no return value specified for ListByParticipant")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]room.Room, error)); ok {
		return rf(ctx, userID)
	}

	var r0 []room.Room
	if rf, ok := ret.Get(0).(func(context.Context, string) []room.Room); ok {
		r0 = rf(ctx, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]room.Room)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, userID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) Create(ctx context.Context, r room.Room, host room.Participant) error {
	ret := _m.Called(ctx, r, host)
	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, room.Room, room.Participant) error); ok {
		r0 = rf(ctx, r, host)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *Repository) Update(ctx context.Context, r room.Room) error {
	ret := _m.Called(ctx, r)
	if len(ret) == 0 {
		panic("no return value specified for Update")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, room.Room) error); ok {
		r0 = rf(ctx, r)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *Repository) AddParticipant(ctx context.Context, p room.Participant) error {
	ret := _m.Called(ctx, p)
	if len(ret) == 0 {
		panic("no return value specified for AddParticipant")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, room.Participant) error); ok {
		r0 = rf(ctx, p)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *Repository) GetParticipant(ctx context.Context, roomID string, userID string) (room.Participant, bool, error) {
	ret := _m.Called(ctx, roomID, userID)
	if len(ret) == 0 {
		panic("no return value specified for GetParticipant")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (room.Participant, bool, error)); ok {
		return rf(ctx, roomID, userID)
	}

	var r0 room.Participant
	if rf, ok := ret.Get(0).(func(context.Context, string, string) room.Participant); ok {
		r0 = rf(ctx, roomID, userID)
	} else {
		r0 = ret.Get(0).(room.Participant)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string, string) bool); ok {
		r1 = rf(ctx, roomID, userID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string, string) error); ok {
		r2 = rf(ctx, roomID, userID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) ListParticipants(ctx context.Context, roomID string) ([]room.Participant, error) {
	ret := _m.Called(ctx, roomID)
	if len(ret) == 0 {
		panic("no return value specified for ListParticipants")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]room.Participant, error)); ok {
		return rf(ctx, roomID)
	}

	var r0 []room.Participant
	if rf, ok := ret.Get(0).(func(context.Context, string) []room.Participant); ok {
		r0 = rf(ctx, roomID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]room.Participant)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, roomID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewRepository registers the mock with t and asserts expectations on cleanup.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
