package ports

import (
	"context"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
)

// WorkflowOrchestrator exposes durable workflow operations required by the orders bounded context.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, draft Draft) (*domain.Order, error)
}
