package ports

import (
	"context"
	"time"
)

// TokenStore persists issued admin tokens. A zero expiresAt means the token
// never expires.
type TokenStore interface {
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
