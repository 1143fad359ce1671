package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrLocked                = errors.New("predictions locked")
	ErrConflict              = errors.New("conflict")
	ErrNotReady              = errors.New("not ready")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// invalid tags a domain validation error as ErrInvalidInput while keeping the
// original error in the chain.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
