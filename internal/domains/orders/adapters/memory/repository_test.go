package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

func sampleOrder(id string) *domain.Order {
	return &domain.Order{
		ID:           id,
		CustomerName: "Amina",
		Items:        []domain.Item{{Name: "Premium Hoodie (Black, M)", Qty: 1, Price: 2990}},
		Total:        3390,
		Status:       domain.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestRepository_InsertAndGet(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Insert(ctx, sampleOrder("a-1"))
	require.NoError(t, err)
	saved.Items[0].Qty = 99

	fetched, err := repo.GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Items[0].Qty)

	_, err = repo.Insert(ctx, sampleOrder("a-1"))
	assert.ErrorIs(t, err, ports.ErrDuplicateID)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Insert(ctx, sampleOrder("a-1"))
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, "a-1", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	_, err = repo.UpdateStatus(ctx, "zzz", domain.StatusDelivered)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	removed, err := repo.Delete(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "a-1", removed.ID)

	_, err = repo.Delete(ctx, "a-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ConcurrentInsertsAreNotLost(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Insert(ctx, sampleOrder(fmt.Sprintf("id-%d", i)))
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

func TestIdempotencyStore_SaveConflict(t *testing.T) {
	store := NewIdempotencyStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return now })
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, now, saved.CreatedAt)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", again.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "other", OrderID: "o-2"})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "o-1", existing.OrderID)

	missing, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
