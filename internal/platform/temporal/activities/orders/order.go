package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

// PersistOrderActivityName persists a drafted order.
const PersistOrderActivityName = "orders.activities.PersistOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder writes the drafted order. Retries are safe because the order id
// is fixed before the workflow starts and a repeated insert returns the stored order.
func (a *Activities) PersistOrder(ctx context.Context, draft ports.Draft) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	var orderID string
	if draft.Order != nil {
		orderID = draft.Order.ID
	}
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized", "orderId", orderID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "orderId", orderID)
	order, err := a.service.PersistOrder(ctx, draft)
	if err != nil {
		logger.Error("PersistOrder activity failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID)
	return order, nil
}
