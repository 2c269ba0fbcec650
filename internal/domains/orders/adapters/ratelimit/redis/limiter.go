package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

var _ ports.RateLimiter = (*Limiter)(nil)

// DefaultKeyPrefix namespaces limiter hashes in a shared Redis.
const DefaultKeyPrefix = "orders:ratelimit:"

// allowScript applies the fixed-window algorithm atomically. The hash expires
// one millisecond after the window so an entry aged exactly one window is
// still counted against.
var allowScript = goredis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local start = tonumber(redis.call('HGET', KEYS[1], 'start'))
local count = tonumber(redis.call('HGET', KEYS[1], 'count'))
if (not start) or (now - start > window) then
  redis.call('HSET', KEYS[1], 'start', now, 'count', 1)
  redis.call('PEXPIRE', KEYS[1], window + 1)
  return {1, 1, now}
end
if count < limit then
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
  return {1, count, start}
end
return {0, count, start}
`)

// Limiter keeps fixed-window counters in Redis so several API replicas share
// one budget per client.
type Limiter struct {
	client goredis.Scripter
	window time.Duration
	limit  int
	prefix string
	now    func() time.Time
}

// NewLimiter admits at most limit requests per key in each window.
func NewLimiter(client goredis.Scripter, window time.Duration, limit int) *Limiter {
	return &Limiter{client: client, window: window, limit: limit, prefix: DefaultKeyPrefix, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	if now != nil {
		l.now = now
	}
	return l
}

// WithPrefix changes the key namespace.
func (l *Limiter) WithPrefix(prefix string) *Limiter {
	l.prefix = prefix
	return l
}

func (l *Limiter) Allow(ctx context.Context, key string) (ports.Decision, error) {
	if l == nil || l.client == nil {
		return ports.Decision{}, fmt.Errorf("redis rate limiter not configured")
	}
	now := l.now().UnixMilli()
	values, err := allowScript.Run(ctx, l.client, []string{l.prefix + key}, now, l.window.Milliseconds(), l.limit).Int64Slice()
	if err != nil {
		return ports.Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(values) != 3 {
		return ports.Decision{}, fmt.Errorf("rate limit script returned %d values", len(values))
	}
	return ports.Decision{
		Allowed:     values[0] == 1,
		Count:       int(values[1]),
		Limit:       l.limit,
		WindowStart: time.UnixMilli(values[2]).UTC(),
	}, nil
}
