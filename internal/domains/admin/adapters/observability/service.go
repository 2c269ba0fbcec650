package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	adminports "github.com/Apurer/boutique-orders/internal/domains/admin/ports"
)

const tracerName = "github.com/Apurer/boutique-orders/internal/domains/admin/adapters/observability/service"

// FailureRecorder counts rejected admin authentications by reason.
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}

// Service decorates the admin service with tracing, logging, and metrics.
type Service struct {
	inner    adminports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	metrics  serviceMetrics
	failures FailureRecorder
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

func WithFailureRecorder(r FailureRecorder) Option {
	return func(s *Service) { s.failures = r }
}

// New wraps the core admin service.
func New(inner adminports.Service, opts ...Option) adminports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, password string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AdminService.Login")
	defer span.End()
	token, err := s.inner.Login(ctx, password)
	if errors.Is(err, adminports.ErrInvalidCredentials) {
		s.recordFailure("invalid_credentials")
		s.logger.LogAttrs(ctx, slog.LevelWarn, "admin login rejected")
		return "", err
	}
	if err != nil {
		return "", s.handleError(ctx, span, err, "admin login failed")
	}
	s.metrics.recordLogin(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "admin logged in")
	return token, nil
}

func (s *Service) Authorize(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AdminService.Authorize")
	defer span.End()
	err := s.inner.Authorize(ctx, token)
	if errors.Is(err, adminports.ErrUnauthorized) {
		reason := "unknown_token"
		if token == "" {
			reason = "missing_token"
		}
		s.recordFailure(reason)
		return err
	}
	if err != nil {
		return s.handleError(ctx, span, err, "admin authorization failed")
	}
	return nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AdminService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "admin logout failed")
	}
	return nil
}

func (s *Service) recordFailure(reason string) {
	if s.failures != nil {
		s.failures.RecordAuthFailure(reason)
	}
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, slog.String("error", err.Error()))
	return err
}

type serviceMetrics struct {
	logins metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("admin.service.logins", metric.WithDescription("Number of successful admin logins"))
	return serviceMetrics{logins: logins}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ adminports.Service = (*Service)(nil)
