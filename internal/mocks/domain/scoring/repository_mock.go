package scoringmock

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/domain/scoring"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of scoring.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) Upsert(ctx context.Context, s scoring.Score) (bool, error) {
	ret := _m.Called(ctx, s)
	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	if rf, ok := ret.Get(0).(func(context.Context, scoring.Score) (bool, error)); ok {
		return rf(ctx, s)
	}

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, scoring.Score) bool); ok {
		r0 = rf(ctx, s)
	} else {
		r0 = ret.Get(0).(bool)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, scoring.Score) error); ok {
		r1 = rf(ctx, s)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) ListByRoomRace(ctx context.Context, roomID string, raceID string) ([]scoring.Score, error) {
	ret := _m.Called(ctx, roomID, raceID)
	if len(ret) == 0 {
		panic("no return value specified for ListByRoomRace")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]scoring.Score, error)); ok {
		return rf(ctx, roomID, raceID)
	}

	var r0 []scoring.Score
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []scoring.Score); ok {
		r0 = rf(ctx, roomID, raceID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]scoring.Score)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, roomID, raceID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) ListByRoom(ctx context.Context, roomID string) ([]scoring.Score, error) {
	ret := _m.Called(ctx, roomID)
	if len(ret) == 0 {
		panic("no return value specified for ListByRoom")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]scoring.Score, error)); ok {
		return rf(ctx, roomID)
	}

	var r0 []scoring.Score
	if rf, ok := ret.Get(0).(func(context.Context, string) []scoring.Score); ok {
		r0 = rf(ctx, roomID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]scoring.Score)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, roomID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) CountByRoomRace(ctx context.Context, roomID string, raceID string) (int, error) {
	ret := _m.Called(ctx, roomID, raceID)
	if len(ret) == 0 {
		panic("no return value specified for CountByRoomRace")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (int, error)); ok {
		return rf(ctx, roomID, raceID)
	}

	var r0 int
	if rf, ok := ret.Get(0).(func(context.Context, string, string) int); ok {
		r0 = rf(ctx, roomID, raceID)
	} else {
		r0 = ret.Get(0).(int)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, roomID, raceID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) ListByRoomUser(ctx context.Context, roomID string, userID string) ([]scoring.Score, error) {
	ret := _m.Called(ctx, roomID, userID)
	if len(ret) == 0 {
		panic("no return value specified for ListByRoomUser")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]scoring.Score, error)); ok {
		return rf(ctx, roomID, userID)
	}

	var r0 []scoring.Score
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []scoring.Score); ok {
		r0 = rf(ctx, roomID, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]scoring.Score)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, roomID, userID)
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
