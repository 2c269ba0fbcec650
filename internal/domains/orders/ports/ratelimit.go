package ports

import (
	"context"
	"time"
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed     bool
	Count       int
	Limit       int
	WindowStart time.Time
}

// RateLimiter admits or rejects order submissions per client key using a
// fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// NoopRateLimiter admits every request.
var NoopRateLimiter RateLimiter = noopRateLimiter{}

type noopRateLimiter struct{}

func (noopRateLimiter) Allow(_ context.Context, _ string) (Decision, error) {
	return Decision{Allowed: true}, nil
}
