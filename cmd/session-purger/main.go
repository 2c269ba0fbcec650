package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	adminpostgres "github.com/Apurer/boutique-orders/internal/domains/admin/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/boutique-orders/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOptional(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge admin sessions")
	}

	purged, err := adminpostgres.NewTokenStore(db).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge admin sessions: %v", err)
	}
	logger.Info("admin session purge completed", slog.Int64("purged", purged))
}
