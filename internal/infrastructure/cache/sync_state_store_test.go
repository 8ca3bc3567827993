package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySyncStateStore(t *testing.T) {
	store := NewInMemorySyncStateStore()
	ctx := context.Background()

	last, err := store.LastSync(ctx, "orders")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetLastSync(ctx, "orders", at))

	last, err = store.LastSync(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, at, last)

	// Kinds are independent.
	last, err = store.LastSync(ctx, "shipments")
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestInMemorySyncStateStoreConcurrentAccess(t *testing.T) {
	store := NewInMemorySyncStateStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SetLastSync(ctx, "orders", time.Now())
		}()
		go func() {
			defer wg.Done()
			_, _ = store.LastSync(ctx, "orders")
		}()
	}
	wg.Wait()

	last, err := store.LastSync(ctx, "orders")
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}
