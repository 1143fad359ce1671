package racemock

import (
	"context"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/race"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of race.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	ret := _m.Called(ctx, raceID)
	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (race.Race, bool, error)); ok {
		return rf(ctx, raceID)
	}

	var r0 race.Race
	if rf, ok := ret.Get(0).(func(context.Context, string) race.Race); ok {
		r0 = rf(ctx, raceID)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, raceID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, raceID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) GetBySeasonRound(ctx context.Context, seasonID string, round int) (race.Race, bool, error) {
	ret := _m.Called(ctx, seasonID, round)
	if len(ret) == 0 {
		panic("no return value specified for GetBySeasonRound")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, int) (race.Race, bool, error)); ok {
		return rf(ctx, seasonID, round)
	}

	var r0 race.Race
	if rf, ok := ret.Get(0).(func(context.Context, string, int) race.Race); ok {
		r0 = rf(ctx, seasonID, round)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string, int) bool); ok {
		r1 = rf(ctx, seasonID, round)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string, int) error); ok {
		r2 = rf(ctx, seasonID, round)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) ListBySeason(ctx context.Context, seasonID string) ([]race.Race, error) {
	ret := _m.Called(ctx, seasonID)
	if len(ret) == 0 {
		panic("no return value specified for ListBySeason")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]race.Race, error)); ok {
		return rf(ctx, seasonID)
	}

	var r0 []race.Race
	if rf, ok := ret.Get(0).(func(context.Context, string) []race.Race); ok {
		r0 = rf(ctx, seasonID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]race.Race)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, seasonID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) ListStartedWithoutResult(ctx context.Context, before time.Time) ([]race.Race, error) {
	ret := _m.Called(ctx, before)
	if len(ret) == 0 {
		panic("no return value specified for ListStartedWithoutResult")
	}

	if rf, ok := ret.Get(0).(func(context.Context, time.Time) ([]race.Race, error)); ok {
		return rf(ctx, before)
	}

	var r0 []race.Race
	if rf, ok := ret.Get(0).(func(context.Context, time.Time) []race.Race); ok {
		r0 = rf(ctx, before)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]race.Race)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, time.Time) error); ok {
		r1 = rf(ctx, before)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) Upsert(ctx context.Context, r race.Race) (race.Race, error) {
	ret := _m.Called(ctx, r)
	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	if rf, ok := ret.Get(0).(func(context.Context, race.Race) (race.Race, error)); ok {
		return rf(ctx, r)
	}

	var r0 race.Race
	if rf, ok := ret.Get(0).(func(context.Context, race.Race) race.Race); ok {
		r0 = rf(ctx, r)
	} else {
		r0 = ret.Get(0).(race.Race)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, race.Race) error); ok {
		r1 = rf(ctx, r)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) SetOfficialResult(ctx context.Context, raceID string, result race.OfficialResult) error {
	ret := _m.Called(ctx, raceID, result)
	if len(ret) == 0 {
		panic("no return value specified for SetOfficialResult")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, race.OfficialResult) error); ok {
		r0 = rf(ctx, raceID, result)
	} else {
		r0 = ret.Error(0)
	}

	return r0
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
