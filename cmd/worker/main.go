package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/boutique-orders/internal/app/api"
	ordersobs "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/boutique-orders/internal/domains/orders/application"
	platformobservability "github.com/Apurer/boutique-orders/internal/platform/observability"
	platformtemporal "github.com/Apurer/boutique-orders/internal/platform/temporal"
	orderactivities "github.com/Apurer/boutique-orders/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/boutique-orders/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "boutique-orders-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithEnvironment(cfg.Environment),
		platformobservability.WithLogLevel(platformobservability.ParseLogLevel(cfg.LogLevel)),
	)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	if !cfg.DurableWorkflows() {
		logger.Error("worker requires STORAGE_DRIVER=postgres or sqlite with Temporal enabled",
			slog.String("storage", cfg.StorageDriver), slog.Bool("temporalDisabled", cfg.TemporalDisabled))
		os.Exit(1)
	}
	stores, err := api.OpenStores(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to open order storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close()

	orderService := ordersobs.New(
		ordersapp.NewService(stores.Orders, ordersapp.WithIdempotencyStore(stores.Idempotency), ordersapp.WithLogger(logger)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderActivities := orderactivities.NewActivities(orderService)

	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}, instruments.Tracer("temporal-worker"), logger)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
