package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

// ReadFailurePolicy decides what happens when the order collection cannot be read.
type ReadFailurePolicy string

const (
	// ReadFailureEmpty treats an unreadable collection as empty and lets the
	// next write replace it.
	ReadFailureEmpty ReadFailurePolicy = "empty"
	// ReadFailureFail surfaces the storage error to the caller.
	ReadFailureFail ReadFailurePolicy = "fail"
)

// ParseReadFailurePolicy maps configuration text to a policy.
func ParseReadFailurePolicy(value string) (ReadFailurePolicy, error) {
	switch ReadFailurePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", ReadFailureEmpty:
		return ReadFailureEmpty, nil
	case ReadFailureFail:
		return ReadFailureFail, nil
	default:
		return "", fmt.Errorf("unknown read failure policy %q", value)
	}
}

// Service orchestrates order intake and management use cases.
type Service struct {
	repo        ports.Repository
	limiter     ports.RateLimiter
	ids         domain.IDGenerator
	idempotency ports.IdempotencyStore
	now         func() time.Time
	policy      ReadFailurePolicy
	logger      *slog.Logger
}

type Option func(*Service)

func WithRateLimiter(limiter ports.RateLimiter) Option {
	return func(s *Service) {
		if limiter != nil {
			s.limiter = limiter
		}
	}
}

func WithIDGenerator(ids domain.IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithReadFailurePolicy(policy ReadFailurePolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		limiter: ports.NoopRateLimiter,
		ids:     domain.NewBase36Generator(),
		now:     time.Now,
		policy:  ReadFailureEmpty,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// DraftOrder turns a raw submission into a priced order ready to be persisted.
// Nothing is written; a replayed idempotency key yields the stored order.
func (s *Service) DraftOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.Draft, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintSubmission(input.Payload)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		replay, err := s.replay(ctx, key, hash)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	decision, err := s.limiter.Allow(ctx, input.ClientKey)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, ErrRateLimited
	}

	order, quote, err := buildOrder(domain.ClassifySubmission(input.Payload))
	if err != nil {
		return nil, err
	}
	order.ID = s.ids.NewID()
	order.CreatedAt = s.now().UTC()
	order.Status = domain.StatusPending
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	return &ports.Draft{Order: order, Quote: quote, IdempotencyKey: key, RequestHash: requestHash}, nil
}

// PersistOrder writes a drafted order. Persisting the same draft twice returns
// the stored order, so workflow activities can retry safely.
func (s *Service) PersistOrder(ctx context.Context, draft ports.Draft) (*domain.Order, error) {
	if draft.Order == nil {
		return nil, errors.New("draft order is nil")
	}
	if draft.Replayed {
		return draft.Order.Clone(), nil
	}
	saved, err := s.insert(ctx, draft.Order)
	if errors.Is(err, ports.ErrDuplicateID) {
		saved, err = s.repo.GetByID(ctx, draft.Order.ID)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if draft.IdempotencyKey == "" || s.idempotency == nil {
		return saved, nil
	}
	record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         draft.IdempotencyKey,
		RequestHash: draft.RequestHash,
		OrderID:     saved.ID,
	})
	if errors.Is(err, ports.ErrIdempotencyConflict) && record != nil && record.RequestHash == draft.RequestHash {
		// A concurrent identical submission won the key; keep its order only.
		if _, derr := s.repo.Delete(ctx, saved.ID); derr != nil && !errors.Is(derr, ports.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to discard duplicate order", slog.String("order.id", saved.ID), slog.String("error", derr.Error()))
		}
		return s.repo.GetByID(ctx, record.OrderID)
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ListOrders returns every order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		if s.recoverable(ctx, err, "list") {
			return []*domain.Order{}, nil
		}
		return nil, mapError(err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	slices.SortStableFunc(orders, func(a, b *domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return orders, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if s.recoverable(ctx, err, "get") {
			return nil, ports.ErrNotFound
		}
		return nil, mapError(err)
	}
	return order, nil
}

// UpdateOrderStatus applies an admin status change. Transitions are
// unrestricted and unknown values become pending.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, id, domain.SanitizeStatus(status))
	if err != nil {
		if s.recoverable(ctx, err, "update") {
			return nil, ports.ErrNotFound
		}
		return nil, mapError(err)
	}
	return order, nil
}

// DeleteOrder removes an order and returns its id.
func (s *Service) DeleteOrder(ctx context.Context, id string) (string, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if s.recoverable(ctx, err, "delete") {
			return "", ports.ErrNotFound
		}
		return "", mapError(err)
	}
	return removed.ID, nil
}

func (s *Service) replay(ctx context.Context, key, hash string) (*ports.Draft, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != hash {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %s no longer exists", ports.ErrIdempotencyConflict, record.OrderID)
	}
	if err != nil {
		return nil, err
	}
	return &ports.Draft{Order: order, IdempotencyKey: key, RequestHash: hash, Replayed: true}, nil
}

func (s *Service) insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	saved, err := s.repo.Insert(ctx, order)
	if err == nil || !s.recoverable(ctx, err, "insert") {
		return saved, err
	}
	resetter, ok := s.repo.(ports.Resetter)
	if !ok {
		return nil, err
	}
	if rerr := resetter.ResetCollection(ctx); rerr != nil {
		return nil, rerr
	}
	return s.repo.Insert(ctx, order)
}

// recoverable reports whether err is an unreadable collection that the
// configured policy treats as empty.
func (s *Service) recoverable(ctx context.Context, err error, op string) bool {
	if !errors.Is(err, ports.ErrCollectionUnreadable) || s.policy == ReadFailureFail {
		return false
	}
	s.logger.WarnContext(ctx, "order collection unreadable; treating as empty",
		slog.String("op", op), slog.String("error", err.Error()))
	return true
}

func buildOrder(submission domain.Submission) (*domain.Order, domain.Quote, error) {
	switch sub := submission.(type) {
	case domain.FullSubmission:
		if details := domain.ValidateFull(sub); len(details) > 0 {
			return nil, domain.Quote{}, &ValidationError{Details: details}
		}
		quote := domain.PriceFull(sub)
		return &domain.Order{
			CustomerName: sub.CustomerName,
			Email:        sub.Email,
			Phone:        sub.Phone,
			Address:      sub.Address,
			Items:        quote.Items,
			Total:        quote.Total,
			Notes:        sub.Notes,
		}, quote, nil
	case domain.MinimalSubmission:
		form, details := domain.ValidateMinimal(sub.Raw)
		if len(details) > 0 {
			return nil, domain.Quote{}, &ValidationError{Details: details}
		}
		quote := domain.PriceMinimal(form)
		return &domain.Order{
			CustomerName: form.Name,
			Email:        form.Email,
			Phone:        form.Phone,
			Address:      domain.Address{Street: form.Address, City: domain.CityFromRegion(form.Wilaya)},
			Items:        quote.Items,
			Total:        quote.Total,
			Notes:        form.Notes,
		}, quote, nil
	default:
		return nil, domain.Quote{}, fmt.Errorf("%w: unsupported submission %T", ErrInvalidInput, submission)
	}
}

var _ ports.Service = (*Service)(nil)
