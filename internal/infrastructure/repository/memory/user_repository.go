package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/race-predictor/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]user.User)}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	return item, ok, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	for _, id := range userIDs {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *UserRepository) Upsert(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[u.ID]; ok && !existing.CreatedAt.IsZero() {
		u.CreatedAt = existing.CreatedAt
	}
	r.items[u.ID] = u
	return u, nil
}
