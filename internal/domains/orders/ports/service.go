package ports

import (
	"context"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
)

// PlaceOrderInput is a raw order submission with its request metadata.
type PlaceOrderInput struct {
	ClientKey      string
	IdempotencyKey string
	Payload        map[string]any
}

// Draft is a validated, priced order that has not been written yet. It is
// serialisable so it can cross a workflow boundary.
type Draft struct {
	Order          *domain.Order `json:"order"`
	Quote          domain.Quote  `json:"quote"`
	IdempotencyKey string        `json:"idempotencyKey,omitempty"`
	RequestHash    string        `json:"requestHash,omitempty"`
	// Replayed is set when the idempotency key matched an earlier submission;
	// Order then holds the stored order.
	Replayed bool `json:"replayed,omitempty"`
}

// Service exposes order use cases to adapters.
type Service interface {
	DraftOrder(ctx context.Context, input PlaceOrderInput) (*Draft, error)
	PersistOrder(ctx context.Context, draft Draft) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) (string, error)
}
