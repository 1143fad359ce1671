package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/driver"
	"github.com/riskibarqy/race-predictor/internal/platform/cache"
)

type countingDriverProvider struct {
	stubProvider
	fetches int
}

func (p *countingDriverProvider) FetchDrivers(ctx context.Context) ([]driver.Driver, error) {
	p.fetches++
	return p.stubProvider.FetchDrivers(ctx)
}

func TestDriverService_List_SortsAndCaches(t *testing.T) {
	t.Parallel()

	provider := &countingDriverProvider{stubProvider: stubProvider{drivers: []driver.Driver{
		{Number: 44, Acronym: "HAM"},
		{Number: 1, Acronym: "VER"},
		{Number: 16, Acronym: "LEC"},
	}}}
	svc := NewDriverService(provider, cache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		got, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("list drivers: %v", err)
		}
		if len(got) != 3 || got[0].Number != 1 || got[2].Number != 44 {
			t.Fatalf("unexpected driver order: %+v", got)
		}
	}
	if provider.fetches != 1 {
		t.Fatalf("expected one provider call, got %d", provider.fetches)
	}
}

func TestDriverService_List_WithoutProvider(t *testing.T) {
	t.Parallel()

	svc := NewDriverService(nil, nil)
	_, err := svc.List(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
