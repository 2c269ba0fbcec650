package api

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	adminmemory "github.com/Apurer/boutique-orders/internal/domains/admin/adapters/memory"
	adminpostgres "github.com/Apurer/boutique-orders/internal/domains/admin/adapters/persistence/postgres"
	adminports "github.com/Apurer/boutique-orders/internal/domains/admin/ports"
	ordersmemory "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/memory"
	ordersdocument "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/persistence/document"
	orderspostgres "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/persistence/postgres"
	orderssqlite "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/persistence/sqlite"
	"github.com/Apurer/boutique-orders/internal/domains/orders/adapters/ratelimit"
	ratelimitmemory "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/ratelimit/memory"
	ratelimitredis "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/ratelimit/redis"
	ordersports "github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	"github.com/Apurer/boutique-orders/internal/platform/health"
	"github.com/Apurer/boutique-orders/internal/platform/migrations"
	platformpostgres "github.com/Apurer/boutique-orders/internal/platform/postgres"
	platformredis "github.com/Apurer/boutique-orders/internal/platform/redis"
	platformsqlite "github.com/Apurer/boutique-orders/internal/platform/sqlite"
)

// Stores bundles the persistence adapters selected by configuration.
type Stores struct {
	Orders      ordersports.Repository
	Idempotency ordersports.IdempotencyStore
	Tokens      adminports.TokenStore

	closers []func()
}

// Close releases database handles in reverse order of acquisition.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// OpenStores builds the order repository for cfg.StorageDriver. PostgreSQL,
// when configured, also backs idempotency keys and admin tokens; otherwise
// those live in memory. Checks are registered on registry when it is non-nil.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger, registry *health.Registry) (*Stores, error) {
	stores := &Stores{
		Idempotency: ordersmemory.NewIdempotencyStore(),
		Tokens:      adminmemory.NewTokenStore(),
	}

	var db *gorm.DB
	if cfg.StorageDriver == StoragePostgres {
		conn, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db = conn
	} else if cfg.PostgresDSN != "" {
		conn, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
		if conn != nil {
			db = conn
			stores.closers = append(stores.closers, cleanup)
		}
	}
	if db != nil {
		if cfg.StorageDriver == StoragePostgres {
			if sqlDB, err := db.DB(); err == nil {
				stores.closers = append(stores.closers, func() { _ = sqlDB.Close() })
			}
		}
		if err := migrations.Run(db); err != nil {
			stores.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		stores.Idempotency = orderspostgres.NewIdempotencyStore(db)
		stores.Tokens = adminpostgres.NewTokenStore(db)
		registerSQLCheck(registry, "postgres", db)
		logger.Info("idempotency keys and admin tokens stored in postgres")
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		stores.Orders = orderspostgres.NewRepository(db)
	case StorageSQLite:
		sqliteDB, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		stores.closers = append(stores.closers, func() { _ = sqliteDB.Close() })
		stores.Orders = orderssqlite.NewRepository(sqliteDB)
	case StorageMemory:
		stores.Orders = ordersmemory.NewRepository()
	default:
		stores.Orders = ordersdocument.NewRepository(cfg.DataFile)
	}
	if p, ok := stores.Orders.(pinger); ok && registry != nil {
		registry.Register("orders_repository", health.CheckerFunc(p.Ping))
	}
	logger.Info("order repository configured", slog.String("driver", cfg.StorageDriver))
	return stores, nil
}

// RateLimiter picks the Redis limiter when REDIS_URL is set and reachable,
// else the in-memory one. The returned janitor is nil for Redis.
func RateLimiter(ctx context.Context, cfg Config, logger *slog.Logger, registry *health.Registry, recorder ratelimit.Recorder) (ordersports.RateLimiter, *ratelimitmemory.Limiter, func()) {
	if cfg.RedisURL != "" {
		client, err := platformredis.Connect(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("order rate limiter backed by redis")
			registerRedisCheck(registry, client)
			limiter := ratelimitredis.NewLimiter(client, cfg.RateLimitWindow, cfg.RateLimitMax)
			return ratelimit.Instrument(limiter, recorder), nil, func() { _ = client.Close() }
		}
		logger.Warn("redis unavailable, falling back to in-memory rate limiter", slog.String("error", err.Error()))
	}
	limiter := ratelimitmemory.NewLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	return ratelimit.Instrument(limiter, recorder), limiter, func() {}
}

func registerSQLCheck(registry *health.Registry, name string, db *gorm.DB) {
	if registry == nil {
		return
	}
	registry.Register(name, health.CheckerFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}))
}

func registerRedisCheck(registry *health.Registry, client *goredis.Client) {
	if registry == nil {
		return
	}
	registry.Register("redis", health.CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
}
