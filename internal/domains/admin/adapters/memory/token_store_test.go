package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore()
	require.NoError(t, store.Save(ctx, "a-adm", time.Time{}))

	ok, err := store.Exists(ctx, "a-adm")
	require.NoError(t, err)
	assert.True(t, ok)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)

	require.NoError(t, store.Delete(ctx, "a-adm"))
	ok, err = store.Exists(ctx, "a-adm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	store := NewTokenStore().WithClock(func() time.Time { return now })
	require.NoError(t, store.Save(ctx, "short", now.Add(time.Minute)))
	require.NoError(t, store.Save(ctx, "long", now.Add(time.Hour)))

	now = now.Add(time.Minute)
	ok, _ := store.Exists(ctx, "short")
	assert.False(t, ok)
	ok, _ = store.Exists(ctx, "long")
	assert.True(t, ok)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestTokenStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("t-%d", i)
			_ = store.Save(ctx, token, time.Time{})
			_, _ = store.Exists(ctx, token)
		}(i)
	}
	wg.Wait()
	for i := 0; i < 32; i++ {
		ok, err := store.Exists(ctx, fmt.Sprintf("t-%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
