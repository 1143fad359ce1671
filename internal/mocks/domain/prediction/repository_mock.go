package predictionmock

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/domain/prediction"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of prediction.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) Get(ctx context.Context, roomID string, raceID string, userID string) (prediction.Prediction, bool, error) {
	ret := _m.Called(ctx, roomID, raceID, userID)
	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) (prediction.Prediction, bool, error)); ok {
		return rf(ctx, roomID, raceID, userID)
	}

	var r0 prediction.Prediction
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) prediction.Prediction); ok {
		r0 = rf(ctx, roomID, raceID, userID)
	} else {
		r0 = ret.Get(0).(prediction.Prediction)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string, string, string) bool); ok {
		r1 = rf(ctx, roomID, raceID, userID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string, string, string) error); ok {
		r2 = rf(ctx, roomID, raceID, userID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	ret := _m.Called(ctx, p)
	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	if rf, ok := ret.Get(0).(func(context.Context, prediction.Prediction) (prediction.Prediction, error)); ok {
		return rf(ctx, p)
	}

	var r0 prediction.Prediction
	if rf, ok := ret.Get(0).(func(context.Context, prediction.Prediction) prediction.Prediction); ok {
		r0 = rf(ctx, p)
	} else {
		r0 = ret.Get(0).(prediction.Prediction)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, prediction.Prediction) error); ok {
		r1 = rf(ctx, p)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) ListByRoomRace(ctx context.Context, roomID string, raceID string) ([]prediction.Prediction, error) {
	ret := _m.Called(ctx, roomID, raceID)
	if len(ret) == 0 {
		panic("no return value specified for ListByRoomRace")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]prediction.Prediction, error)); ok {
		return rf(ctx, roomID, raceID)
	}

	var r0 []prediction.Prediction
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []prediction.Prediction); ok {
		r0 = rf(ctx, roomID, raceID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]prediction.Prediction)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, roomID, raceID)
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

func (_m *Repository) ListByRoomUser(ctx context.Context, roomID string, userID string) ([]prediction.Prediction, error) {
	ret := _m.Called(ctx, roomID, userID)
	if len(ret) == 0 {
		panic("no return value specified for ListByRoomUser")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]prediction.Prediction, error)); ok {
		return rf(ctx, roomID, userID)
	}

	var r0 []prediction.Prediction
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []prediction.Prediction); ok {
		r0 = rf(ctx, roomID, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]prediction.Prediction)
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
