package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

var _ ports.RateLimiter = (*Limiter)(nil)

// DefaultSweepInterval is how often Run evicts expired windows.
const DefaultSweepInterval = time.Minute

type entry struct {
	windowStart time.Time
	count       int
}

// Limiter is a fixed-window counter per client key held in process memory.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	limit   int
	now     func() time.Time
}

// NewLimiter admits at most limit requests per key in each window.
func NewLimiter(window time.Duration, limit int) *Limiter {
	return &Limiter{
		entries: map[string]*entry{},
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	if now != nil {
		l.now = now
	}
	return l
}

// Allow opens a new window when none exists or the current one is older than
// the window length; otherwise it counts the request while under the cap.
// Rejections leave the count unchanged.
func (l *Limiter) Allow(_ context.Context, key string) (ports.Decision, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) > l.window {
		e = &entry{windowStart: now, count: 1}
		l.entries[key] = e
		return l.decision(true, e), nil
	}
	if e.count < l.limit {
		e.count++
		return l.decision(true, e), nil
	}
	return l.decision(false, e), nil
}

// Sweep evicts windows that have expired at now and returns how many were removed.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, e := range l.entries {
		if now.Sub(e.windowStart) > l.window {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports how many client keys are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run sweeps expired windows every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Sweep(l.now())
		}
	}
}

func (l *Limiter) decision(allowed bool, e *entry) ports.Decision {
	return ports.Decision{Allowed: allowed, Count: e.count, Limit: l.limit, WindowStart: e.windowStart}
}
