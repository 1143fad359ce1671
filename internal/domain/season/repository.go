package season

import "context"

type Repository interface {
	List(ctx context.Context) ([]Season, error)
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	GetByYear(ctx context.Context, year int) (Season, bool, error)
	Upsert(ctx context.Context, s Season) (Season, error)
}
