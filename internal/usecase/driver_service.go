package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/race-predictor/internal/domain/driver"
	"github.com/riskibarqy/race-predictor/internal/platform/cache"
)

const driversCacheKey = "drivers:latest"

type DriverService struct {
	provider RaceDataProvider
	cache    *cache.Store
}

func NewDriverService(provider RaceDataProvider, store *cache.Store) *DriverService {
	return &DriverService{provider: provider, cache: store}
}

// List returns the current driver line-up ordered by car number.
func (s *DriverService) List(ctx context.Context) ([]driver.Driver, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DriverService.List")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: race data provider is not configured", ErrDependencyUnavailable)
	}
	drivers, err := cache.Load(ctx, s.cache, driversCacheKey, func(ctx context.Context) ([]driver.Driver, error) {
		items, err := s.provider.FetchDrivers(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch drivers: %w", err)
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return drivers, nil
}
