package document

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/boutique-orders/internal/domains/orders/domain"
	"github.com/Apurer/boutique-orders/internal/domains/orders/ports"
)

func newOrder(id string, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:           id,
		CustomerName: "Amina",
		Phone:        "0551234567",
		Address:      domain.Address{Street: "12 Rue Didouche Mourad", City: "Alger"},
		Items:        []domain.Item{{Name: "Premium Hoodie (Black, M)", Qty: 2, Price: 2990}},
		Total:        6380,
		Status:       domain.StatusPending,
		CreatedAt:    createdAt,
	}
}

func TestRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "data", "orders.json"))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, repo.Ping(context.Background()))
}

func TestRepository_RoundTripThroughDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "orders.json")
	repo := NewRepository(path)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.Insert(ctx, newOrder("a-1", created))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newOrder("a-2", created.Add(time.Minute)))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  {\n    \"id\": \"a-2\"")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "2024-05-01T12:01:00Z", decoded[0]["createdAt"])

	fetched, err := NewRepository(path).GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, newOrder("a-1", created), fetched)
}

func TestRepository_RepeatedReadsAreIdentical(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "orders.json"))
	ctx := context.Background()
	_, err := repo.Insert(ctx, newOrder("a-1", time.Now().UTC()))
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, "a-1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRepository_UpdateStatusAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	repo := NewRepository(path)
	ctx := context.Background()
	_, err := repo.Insert(ctx, newOrder("a-1", time.Now().UTC()))
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, "a-1", domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = repo.Delete(ctx, "unknown")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	removed, err := repo.Delete(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, removed.Status)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_DuplicateInsert(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "orders.json"))
	ctx := context.Background()
	_, err := repo.Insert(ctx, newOrder("a-1", time.Now().UTC()))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, newOrder("a-1", time.Now().UTC()))
	assert.ErrorIs(t, err, ports.ErrDuplicateID)
}

func TestRepository_CorruptDocument(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":   "{not json",
		"not array": `{"id":"a-1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "orders.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			repo := NewRepository(path)
			ctx := context.Background()

			_, err := repo.List(ctx)
			assert.ErrorIs(t, err, ports.ErrCollectionUnreadable)
			_, err = repo.Insert(ctx, newOrder("a-1", time.Now().UTC()))
			assert.ErrorIs(t, err, ports.ErrCollectionUnreadable)
			assert.Error(t, repo.Ping(ctx))

			require.NoError(t, repo.ResetCollection(ctx))
			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestRepository_LegacyEntriesLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	legacy := `[{"id":"lq1-abcd","customerName":"Old","items":[{"name":"Hoodie","qty":1,"price":2990}],"total":3590,"status":"archived"},
{"id":"lq2-abcd","customerName":"Older","createdAt":"2023-01-02T03:04:05.678Z","total":0,"status":"delivered"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	list, err := NewRepository(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.StatusPending, list[0].Status)
	assert.True(t, list[0].CreatedAt.IsZero())
	assert.Equal(t, 678*time.Millisecond, time.Duration(list[1].CreatedAt.Nanosecond()))
}

func TestRepository_LooselyTypedEntriesSurviveWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	history := `[
  {"id":"lq1-abcd","customerName":"Nadia","address":"12 rue A","items":[{"name":"Hoodie","qty":"2","price":"2990"}],"total":"6380","status":"shipped"},
  {"id":"lq2-abcd","customerName":"Yacine","address":{"line1":"Bt 4","zip":"16000"},"items":[{"name":"Cap","qty":1,"price":1500}],"total":1500,"status":"pending"},
  "stray note"
]`
	require.NoError(t, os.WriteFile(path, []byte(history), 0o644))
	repo := NewRepository(path)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.Address{Street: "12 rue A"}, list[0].Address)
	assert.Equal(t, []domain.Item{{Name: "Hoodie", Qty: 2, Price: 2990}}, list[0].Items)
	assert.Equal(t, float64(6380), list[0].Total)
	assert.Equal(t, domain.StatusShipped, list[0].Status)
	assert.Equal(t, map[string]any{"line1": "Bt 4", "zip": "16000"}, list[1].Address.Extra)

	_, err = repo.Insert(ctx, newOrder("new-0001", time.Now().UTC()))
	require.NoError(t, err)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new-0001", "lq1-abcd", "lq2-abcd"}, []string{list[0].ID, list[1].ID, list[2].ID})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, "stray note", decoded[3])
	assert.Equal(t, map[string]any{"line1": "Bt 4", "zip": "16000"}, decoded[2].(map[string]any)["address"])
}

func TestRepository_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "orders.json"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Insert(ctx, newOrder(fmt.Sprintf("id-%02d", i), time.Now().UTC()))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 25)
}
