package redisclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"shop-backend/internal/cart"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCartMirror(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	empty, err := client.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count())

	require.NoError(t, client.IncrementCartItem(ctx, "u1", "p1", "M"))
	require.NoError(t, client.IncrementCartItem(ctx, "u1", "p1", "M"))
	require.NoError(t, client.SetCartItem(ctx, "u1", "p2", "XL", 1))

	loaded, err := client.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{"p1": {"M": 2}, "p2": {"XL": 1}}, loaded)

	require.NoError(t, client.SetCartItem(ctx, "u1", "p1", "M", 0))
	again, err := client.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{"p2": {"XL": 1}}, again)

	require.NoError(t, client.ClearCart(ctx, "u1"))
	cleared, err := client.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, cleared.Count())
}

func TestConcurrentCartAdds(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	const adds = 50
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, client.IncrementCartItem(ctx, "u1", "p1", "M"))
		}()
	}
	wg.Wait()

	loaded, err := client.LoadCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, adds, loaded["p1"]["M"])
}

func TestProductCache(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetCachedProducts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, client.CacheProducts(ctx, []byte(`[{"_id":"p1"}]`), time.Minute))
	data, err := client.GetCachedProducts(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"p1"}]`, string(data))

	mr.FastForward(2 * time.Minute)
	_, err = client.GetCachedProducts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, client.CacheProducts(ctx, []byte(`[]`), time.Minute))
	require.NoError(t, client.InvalidateProducts(ctx))
	_, err = client.GetCachedProducts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLock(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	token, ok, err := client.AcquireLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = client.AcquireLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock is held")

	// A stale token must not release someone else's lock.
	require.NoError(t, client.ReleaseLock(ctx, "sweep", "not-the-owner"))
	assert.True(t, mr.Exists("lock:sweep"))

	require.NoError(t, client.ReleaseLock(ctx, "sweep", token))
	assert.False(t, mr.Exists("lock:sweep"))
}
