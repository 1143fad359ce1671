package seasonmock

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/domain/season"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of season.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) List(ctx context.Context) ([]season.Season, error) {
	ret := _m.Called(ctx)
	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]season.Season, error)); ok {
		return rf(ctx)
	}

	var r0 []season.Season
	if rf, ok := ret.Get(0).(func(context.Context) []season.Season); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]season.Season)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	ret := _m.Called(ctx, seasonID)
	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (season.Season, bool, error)); ok {
		return rf(ctx, seasonID)
	}

	var r0 season.Season
	if rf, ok := ret.Get(0).(func(context.Context, string) season.Season); ok {
		r0 = rf(ctx, seasonID)
	} else {
		r0 = ret.Get(0).(season.Season)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, seasonID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, seasonID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	ret := _m.Called(ctx, year)
	if len(ret) == 0 {
		panic("no return value specified for GetByYear")
	}

	if rf, ok := ret.Get(0).(func(context.Context, int) (season.Season, bool, error)); ok {
		return rf(ctx, year)
	}

	var r0 season.Season
	if rf, ok := ret.Get(0).(func(context.Context, int) season.Season); ok {
		r0 = rf(ctx, year)
	} else {
		r0 = ret.Get(0).(season.Season)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, int) bool); ok {
		r1 = rf(ctx, year)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, int) error); ok {
		r2 = rf(ctx, year)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) Upsert(ctx context.Context, s season.Season) (season.Season, error) {
	ret := _m.Called(ctx, s)
	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	if rf, ok := ret.Get(0).(func(context.Context, season.Season) (season.Season, error)); ok {
		return rf(ctx, s)
	}

	var r0 season.Season
	if rf, ok := ret.Get(0).(func(context.Context, season.Season) season.Season); ok {
		r0 = rf(ctx, s)
	} else {
		r0 = ret.Get(0).(season.Season)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, season.Season) error); ok {
		r1 = rf(ctx, s)
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
