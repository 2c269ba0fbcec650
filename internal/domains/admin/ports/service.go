package ports

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned when the submitted password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a request carries no valid admin token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Service exposes admin authentication use cases to adapters.
type Service interface {
	Login(ctx context.Context, password string) (string, error)
	Authorize(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
}
