package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/boutique-orders/internal/domains/orders/application"
	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) DraftOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.Draft, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DraftOrder",
		trace.WithAttributes(attribute.Bool("order.idempotent", input.IdempotencyKey != "")))
	defer span.End()

	draft, err := s.inner.DraftOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, rejectionReason(err))
		var verr *application.ValidationError
		if errors.As(err, &verr) || errors.Is(err, application.ErrRateLimited) {
			span.SetAttributes(attribute.String("order.rejected", rejectionReason(err)))
			s.logInfo(ctx, "order submission rejected", slog.String("reason", err.Error()))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to draft order")
	}
	span.SetAttributes(attribute.String("order.id", draft.Order.ID), attribute.Bool("order.replayed", draft.Replayed))
	s.logInfo(ctx, "order drafted",
		slog.String("order.id", draft.Order.ID),
		slog.Float64("order.total", draft.Order.Total),
		slog.Bool("order.replayed", draft.Replayed))
	return draft, nil
}

func (s *Service) PersistOrder(ctx context.Context, draft ports.Draft) (*domain.Order, error) {
	var orderID string
	if draft.Order != nil {
		orderID = draft.Order.ID
	}
	ctx, span := s.tracer.Start(ctx, "OrderService.PersistOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "persisting order", slog.String("order.id", orderID))
	result, err := s.inner.PersistOrder(ctx, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to persist order", slog.String("order.id", orderID))
	}
	if !draft.Replayed {
		s.metrics.recordPlaced(ctx, result.Status)
	}
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	s.logInfo(ctx, "orders listed", slog.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.logInfo(ctx, "order not found", slog.String("order.id", id))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", id), slog.String("status", string(status)))
	result, err := s.inner.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id))
	}
	s.metrics.recordStatusUpdated(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.String("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id))
	removed, err := s.inner.DeleteOrder(ctx, id)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", removed))
	return removed, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func rejectionReason(err error) string {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, application.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	default:
		return "error"
	}
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	ordersRejected metric.Int64Counter
	statusUpdated  metric.Int64Counter
	ordersDeleted  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersRejected, _ := m.Int64Counter("orders.service.orders_rejected", metric.WithDescription("Number of order submissions rejected"))
	statusUpdated, _ := m.Int64Counter("orders.service.status_updated", metric.WithDescription("Number of order status changes"))
	ordersDeleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{
		ordersPlaced:   ordersPlaced,
		ordersRejected: ordersRejected,
		statusUpdated:  statusUpdated,
		ordersDeleted:  ordersDeleted,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status domain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, reason string) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m serviceMetrics) recordStatusUpdated(ctx context.Context, status domain.Status) {
	if m.statusUpdated != nil {
		m.statusUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
