package usermock

import (
	"context"

	"github.com/riskibarqy/race-predictor/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// Repository is a testify mock of user.Repository.
type Repository struct {
	mock.Mock
}

func (_m *Repository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	ret := _m.Called(ctx, userID)
	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (user.User, bool, error)); ok {
		return rf(ctx, userID)
	}

	var r0 user.User
	if rf, ok := ret.Get(0).(func(context.Context, string) user.User); ok {
		r0 = rf(ctx, userID)
	} else {
		r0 = ret.Get(0).(user.User)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, userID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, userID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

func (_m *Repository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	ret := _m.Called(ctx, userIDs)
	if len(ret) == 0 {
		panic("no return value specified for ListByIDs")
	}

	if rf, ok := ret.Get(0).(func(context.Context, []string) ([]user.User, error)); ok {
		return rf(ctx, userIDs)
	}

	var r0 []user.User
	if rf, ok := ret.Get(0).(func(context.Context, []string) []user.User); ok {
		r0 = rf(ctx, userIDs)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]user.User)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, []string) error); ok {
		r1 = rf(ctx, userIDs)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Repository) Upsert(ctx context.Context, u user.User) (user.User, error) {
	ret := _m.Called(ctx, u)
	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	if rf, ok := ret.Get(0).(func(context.Context, user.User) (user.User, error)); ok {
		return rf(ctx, u)
	}

	var r0 user.User
	if rf, ok := ret.Get(0).(func(context.Context, user.User) user.User); ok {
		r0 = rf(ctx, u)
	} else {
		r0 = ret.Get(0).(user.User)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, user.User) error); ok {
		r1 = rf(ctx, u)
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
