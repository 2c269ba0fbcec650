package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/boutique-orders/internal/platform/temporal/activities/orders"
)

// PersistOrderActivityOptions bounds the persistence activity.
var PersistOrderActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    10 * time.Second,
		MaximumAttempts:    5,
	},
}

// RunOrderPersistenceSequence executes the activities needed to store a drafted order.
func RunOrderPersistenceSequence(ctx workflow.Context, draft ports.Draft) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	var orderID string
	if draft.Order != nil {
		orderID = draft.Order.ID
	}
	logger.Info("order persistence sequence started", "orderId", orderID)

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, PersistOrderActivityOptions), orderactivities.PersistOrderActivityName, draft).Get(ctx, &order)
	if err != nil {
		logger.Error("order persistence sequence failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("order persistence sequence persisted", "orderId", order.ID)
	return &order, nil
}
