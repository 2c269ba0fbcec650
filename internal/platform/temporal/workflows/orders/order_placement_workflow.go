package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	"github.com/Apurer/boutique-orders/internal/platform/temporal"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput carries a drafted order into the workflow.
type OrderPlacementWorkflowInput struct {
	Draft   ports.Draft
	TraceID string
}

// OrderPlacementWorkflow persists a drafted order.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	var orderID string
	if input.Draft.Order != nil {
		orderID = input.Draft.Order.ID
	}
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	order, err := temporal.RunOrderPersistenceSequence(ctx, input.Draft)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
