package service

import (
	"context"
	"sync"
	"testing"

	"shop-backend/internal/cart"
	"shop-backend/internal/redisclient"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartMirrorOperations(t *testing.T) {
	mirror := newFakeCartMirror()
	svc := NewCartService(mirror)
	ctx := context.Background()

	require.NoError(t, svc.AddToCart(ctx, "u-1", "p-1", "M"))
	require.NoError(t, svc.AddToCart(ctx, "u-1", "p-1", "M"))
	require.NoError(t, svc.AddToCart(ctx, "u-1", "p-2", "L"))

	ct, err := svc.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{"p-1": {"M": 2}, "p-2": {"L": 1}}, ct)

	require.NoError(t, svc.UpdateCart(ctx, "u-1", "p-1", "M", 5))
	require.NoError(t, svc.UpdateCart(ctx, "u-1", "p-2", "L", 0))

	ct, err = svc.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{"p-1": {"M": 5}}, ct)

	require.NoError(t, svc.ClearCart(ctx, "u-1"))
	ct, err = svc.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, ct.Count())
}

func TestCartValidationAndErrors(t *testing.T) {
	mirror := newFakeCartMirror()
	svc := NewCartService(mirror)
	ctx := context.Background()

	assert.Equal(t, KindValidation, KindOf(svc.AddToCart(ctx, "u-1", "p-1", "")))
	assert.Equal(t, KindValidation, KindOf(svc.UpdateCart(ctx, "u-1", "p-1", "M", -2)))

	mirror.writeErr = errBoom
	assert.ErrorIs(t, svc.AddToCart(ctx, "u-1", "p-1", "M"), errBoom)
	assert.ErrorIs(t, svc.UpdateCart(ctx, "u-1", "p-1", "M", 2), errBoom)

	mirror.loadErr = errBoom
	_, err := svc.GetCart(ctx, "u-1")
	assert.ErrorIs(t, err, errBoom)
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redisclient.NewClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	svc := NewCartService(client)
	ctx := context.Background()

	const adds = 50
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.AddToCart(ctx, "u-1", "p-1", "M"))
		}()
	}
	wg.Wait()

	ct, err := svc.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, adds, ct["p-1"]["M"])
}
