package workflows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/boutique-orders/internal/domains/orders/adapters/memory"
	"github.com/Apurer/boutique-orders/internal/domains/orders/application"
	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

func TestInlineOrderWorkflowsPersistsDraft(t *testing.T) {
	repo := memory.NewRepository()
	svc := application.NewService(repo,
		application.WithIDGenerator(domain.IDGeneratorFunc(func() string { return "abc-0001" })),
		application.WithClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }),
	)
	ctx := context.Background()

	draft, err := svc.DraftOrder(ctx, ports.PlaceOrderInput{ClientKey: "1.2.3.4", Payload: map[string]any{
		"name":    "Amine",
		"phone":   "0555123456",
		"wilaya":  "16 - Alger",
		"address": "12 rue Didouche",
		"size":    "M",
		"color":   "Black",
		"qty":     2,
	}})
	require.NoError(t, err)

	order, err := NewInlineOrderWorkflows(svc).PlaceOrder(ctx, *draft)
	require.NoError(t, err)
	assert.Equal(t, "abc-0001", order.ID)
	assert.Equal(t, float64(2*2990+400), order.Total)

	stored, err := repo.GetByID(ctx, "abc-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestInlineOrderWorkflowsRequiresService(t *testing.T) {
	var orchestrator *InlineOrderWorkflows
	_, err := orchestrator.PlaceOrder(context.Background(), ports.Draft{})
	require.Error(t, err)
}

func TestBuildOrderPlacementWorkflowID(t *testing.T) {
	draft := ports.Draft{Order: &domain.Order{ID: "sq3k2a-x9f0"}}
	assert.Equal(t, "order-placement-sq3k2a-x9f0", buildOrderPlacementWorkflowID(draft))

	draft.IdempotencyKey = "  key-1 "
	first := buildOrderPlacementWorkflowID(draft)
	draft.Order.ID = "other"
	assert.Equal(t, first, buildOrderPlacementWorkflowID(draft))
	assert.Contains(t, first, "order-placement-idem-")
	assert.Len(t, first, len("order-placement-idem-")+16)
}

func TestTemporalOrderWorkflowsRequiresClient(t *testing.T) {
	_, err := NewTemporalOrderWorkflows(nil).PlaceOrder(context.Background(), ports.Draft{Order: &domain.Order{ID: "x"}})
	require.Error(t, err)
}
