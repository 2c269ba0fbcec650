package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	storefrontserver "github.com/Apurer/boutique-orders/go"
	adminobs "github.com/Apurer/boutique-orders/internal/domains/admin/adapters/observability"
	adminapp "github.com/Apurer/boutique-orders/internal/domains/admin/application"
	adminports "github.com/Apurer/boutique-orders/internal/domains/admin/ports"
	ordersobs "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/boutique-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	"github.com/Apurer/boutique-orders/internal/platform/health"
	"github.com/Apurer/boutique-orders/internal/platform/metrics"
	platformobservability "github.com/Apurer/boutique-orders/internal/platform/observability"
	platformtemporal "github.com/Apurer/boutique-orders/internal/platform/temporal"
)

const (
	serviceName = "boutique-orders-api"
	version     = "1.0.0"
)

// Run boots the orders HTTP API and blocks until ctx is cancelled or the
// server fails. In-flight requests get cfg.ShutdownTimeout to finish.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithEnvironment(cfg.Environment),
		platformobservability.WithLogLevel(platformobservability.ParseLogLevel(cfg.LogLevel)),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	registry := health.NewRegistry(version)
	promMetrics := metrics.New()

	stores, err := OpenStores(ctx, cfg, logger, registry)
	if err != nil {
		return err
	}
	defer stores.Close()

	limiter, janitor, closeLimiter := RateLimiter(ctx, cfg, logger, registry, promMetrics)
	defer closeLimiter()

	policy, err := ordersapp.ParseReadFailurePolicy(cfg.ReadFailurePolicy)
	if err != nil {
		return err
	}
	coreOrderService := ordersapp.NewService(stores.Orders,
		ordersapp.WithRateLimiter(limiter),
		ordersapp.WithIdempotencyStore(stores.Idempotency),
		ordersapp.WithReadFailurePolicy(policy),
		ordersapp.WithLogger(logger),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if !cfg.DurableWorkflows() {
		logger.Info("persisting orders inline", slog.String("storage", cfg.StorageDriver), slog.Bool("temporalDisabled", cfg.TemporalDisabled))
	} else {
		temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
		}, instruments.Tracer("temporal-client"), logger)
		if err != nil {
			logger.Warn("Temporal workflows unavailable, persisting orders inline", slog.String("error", err.Error()))
		} else {
			defer temporalClient.Close()
			orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
			logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		}
	}

	adminService := adminobs.New(
		adminapp.NewService(cfg.AdminPassword, stores.Tokens, adminapp.WithTokenTTL(cfg.AdminTokenTTL)),
		adminobs.WithLogger(logger),
		adminobs.WithTracer(instruments.Tracer("internal.admin.application")),
		adminobs.WithMeter(instruments.Meter("internal.admin.application")),
		adminobs.WithFailureRecorder(promMetrics),
	)
	adminAPI := storefrontserver.NewAdminAPI(adminService)
	adminAPI.SecureCookie = cfg.SecureCookies

	handlers := storefrontserver.ApiHandleFunctions{
		OrderAPI: storefrontserver.NewOrderAPI(orderService, orderWorkflows),
		AdminAPI: adminAPI,
		Ops: storefrontserver.OpsHandlers{
			Health:    registry.HealthHandler(),
			Readiness: registry.ReadinessHandler(),
			Metrics:   promMetrics.Handler(),
		},
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), promMetrics.Middleware())
	storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("orders API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("orders API server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("orders API shutting down")
		return server.Shutdown(shutdownCtx)
	})
	if janitor != nil {
		group.Go(func() error {
			return janitor.Run(groupCtx, 0)
		})
	}
	if cfg.TokenPurgeEvery > 0 && cfg.AdminTokenTTL > 0 {
		group.Go(func() error {
			return purgeTokens(groupCtx, stores.Tokens, cfg.TokenPurgeEvery, logger)
		})
	}
	return group.Wait()
}

// purgeTokens drops expired admin tokens on a ticker until ctx ends.
func purgeTokens(ctx context.Context, tokens adminports.TokenStore, every time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			purged, err := tokens.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("admin token purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				logger.Info("expired admin tokens purged", slog.Int64("count", purged))
			}
		}
	}
}
