package ratelimit

import (
	"context"

	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

// Recorder receives one call per limiter decision.
type Recorder interface {
	RecordRateLimit(allowed bool)
}

type instrumented struct {
	inner    ports.RateLimiter
	recorder Recorder
}

// Instrument reports every decision of inner to recorder.
func Instrument(inner ports.RateLimiter, recorder Recorder) ports.RateLimiter {
	if recorder == nil {
		return inner
	}
	return &instrumented{inner: inner, recorder: recorder}
}

func (i *instrumented) Allow(ctx context.Context, key string) (ports.Decision, error) {
	decision, err := i.inner.Allow(ctx, key)
	if err != nil {
		return decision, err
	}
	i.recorder.RecordRateLimit(decision.Allowed)
	return decision, nil
}
