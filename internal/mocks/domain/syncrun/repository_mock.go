package syncrunmock

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/domain/syncrun"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of syncrun.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) Save(ctx context.Context, run syncrun.Run) error {
	ret := _m.Called(ctx, run)
	if len(ret) == 0 {
		panic("no return value specified for Save")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, syncrun.Run) error); ok {
		r0 = rf(ctx, run)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *Repository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	ret := _m.Called(ctx, runID)
	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (syncrun.Run, bool, error)); ok {
		return rf(ctx, runID)
	}

	var r0 syncrun.Run
	if rf, ok := ret.Get(0).(func(context.Context, string) syncrun.Run); ok {
		r0 = rf(ctx, runID)
	} else {
		r0 = ret.Get(0).(syncrun.Run)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, runID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, runID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) ListByRace(ctx context.Context, raceID string, limit int) ([]syncrun.Run, error) {
	ret := _m.Called(ctx, raceID, limit)
	if len(ret) == 0 {
		panic("no return value specified for ListByRace")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]syncrun.Run, error)); ok {
		return rf(ctx, raceID, limit)
	}

	var r0 []syncrun.Run
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []syncrun.Run); ok {
		r0 = rf(ctx, raceID, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]syncrun.Run)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, raceID, limit)
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
