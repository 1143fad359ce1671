package user

import (
	"fmt"
	"strings"
	"time"
)

// Principal is the identity resolved from a bearer token.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
	AvatarURL   string
}

// User is the local profile of an identity-provider account. ID is the
// provider's user id.
type User struct {
	ID        string
	Username  string
	Email     string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FromPrincipal derives a profile from a verified principal. The username
// falls back to the email local part, then to the user id.
func FromPrincipal(p Principal) User {
	username := strings.TrimSpace(p.DisplayName)
	if username == "" {
		if local, _, ok := strings.Cut(strings.TrimSpace(p.Email), "@"); ok && local != "" {
			username = local
		}
	}
	if username == "" {
		username = p.UserID
	}
	return User{
		ID:        strings.TrimSpace(p.UserID),
		Username:  username,
		Email:     strings.TrimSpace(p.Email),
		AvatarURL: strings.TrimSpace(p.AvatarURL),
	}
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}
