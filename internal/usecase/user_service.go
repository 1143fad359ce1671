package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/race-predictor/internal/domain/user"
)

type UserService struct {
	userRepo user.Repository
	now      func() time.Time
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo, now: time.Now}
}

// Ensure creates the caller's profile on first sight and refreshes the
// email and avatar afterwards. A username chosen earlier is kept.
func (s *UserService) Ensure(ctx context.Context, principal user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Ensure")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return user.User{}, fmt.Errorf("%w: principal user id is required", ErrUnauthorized)
	}

	existing, exists, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}

	next := user.FromPrincipal(principal)
	now := s.now().UTC()
	if exists {
		if existing.Email == next.Email && existing.AvatarURL == next.AvatarURL {
			return existing, nil
		}
		next.Username = existing.Username
		next.CreatedAt = existing.CreatedAt
	} else {
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	if err := next.Validate(); err != nil {
		return user.User{}, invalid(err)
	}

	saved, err := s.userRepo.Upsert(ctx, next)
	if err != nil {
		return user.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return saved, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (user.User, error) {
	u, exists, err := s.userRepo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return u, nil
}
