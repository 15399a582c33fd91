package service

import (
	"context"
	"testing"
	"time"

	"shop-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Items: []models.OrderItem{
			{ProductID: "p-1", Name: "Shirt", Price: 20, Size: "M", Quantity: 2},
		},
		Amount:  50,
		Address: &models.Address{FirstName: "Ada", City: "London"},
	}
}

func TestPlaceOrderCreatesPendingUnpaidOrder(t *testing.T) {
	orders := newFakeOrderStore()
	events := &fakeEvents{}
	svc := NewOrderService(orders, events, newFakeCartMirror())

	order, err := svc.PlaceOrder(context.Background(), "u-1", cashRequest())
	require.NoError(t, err)

	require.Len(t, orders.orders, 1)
	stored := orders.orders[order.ID]
	assert.Equal(t, 50.0, stored.Amount)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Equal(t, models.PaymentMethodCOD, stored.PaymentMethod)
	assert.False(t, stored.Payment)
	assert.Equal(t, "u-1", stored.UserID)

	require.Len(t, events.placed, 1)
	assert.Equal(t, order.ID, events.placed[0].OrderID)
	assert.Equal(t, models.PaymentMethodCOD, events.placed[0].PaymentMethod)
	assert.Equal(t, models.EventTypeOrderPlaced, events.placed[0].EventType)
	require.Len(t, events.placed[0].Items, 1)
	assert.Equal(t, 20.0, events.placed[0].Items[0].UnitPrice)
}

func TestPlaceOrderClearsCartWhenPublishFails(t *testing.T) {
	ctx := context.Background()
	orders := newFakeOrderStore()
	mirror := newFakeCartMirror()
	require.NoError(t, mirror.IncrementCartItem(ctx, "u-1", "p-1", "M"))
	require.NoError(t, mirror.IncrementCartItem(ctx, "u-2", "p-1", "M"))
	svc := NewOrderService(orders, &fakeEvents{err: errBoom}, mirror)

	_, err := svc.PlaceOrder(ctx, "u-1", cashRequest())
	require.NoError(t, err)
	assert.Len(t, orders.orders, 1)
	assert.Equal(t, 0, mirror.count("u-1"))
	assert.Equal(t, 1, mirror.count("u-2"))
}

func TestPlaceOrderSurvivesCartClearFailure(t *testing.T) {
	orders := newFakeOrderStore()
	mirror := newFakeCartMirror()
	mirror.clearErr = errBoom
	events := &fakeEvents{}
	svc := NewOrderService(orders, events, mirror)

	_, err := svc.PlaceOrder(context.Background(), "u-1", cashRequest())
	require.NoError(t, err)
	assert.Len(t, orders.orders, 1)
	assert.Len(t, events.placed, 1)
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
	}{
		{"no items", func(r *PlaceOrderRequest) { r.Items = nil }},
		{"missing product id", func(r *PlaceOrderRequest) { r.Items[0].ProductID = "" }},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }},
		{"no address", func(r *PlaceOrderRequest) { r.Address = nil }},
		{"negative amount", func(r *PlaceOrderRequest) { r.Amount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := newFakeOrderStore()
			svc := NewOrderService(orders, &fakeEvents{}, newFakeCartMirror())

			req := cashRequest()
			tt.mutate(req)

			_, err := svc.PlaceOrder(context.Background(), "u-1", req)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Empty(t, orders.orders)
		})
	}
}

func TestPlaceOrderStoreFailure(t *testing.T) {
	orders := newFakeOrderStore()
	orders.createErr = errBoom
	events := &fakeEvents{}
	svc := NewOrderService(orders, events, newFakeCartMirror())

	_, err := svc.PlaceOrder(context.Background(), "u-1", cashRequest())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Empty(t, events.placed)
}

func TestStatusUpdateVisibleInUserOrders(t *testing.T) {
	orders := newFakeOrderStore()
	events := &fakeEvents{}
	svc := NewOrderService(orders, events, newFakeCartMirror())
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, "u-1", cashRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped))

	mine, err := svc.UserOrders(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.OrderStatusShipped, mine[0].Status)
	assert.Equal(t, 50.0, mine[0].Amount)

	require.Len(t, events.changed, 1)
	assert.Equal(t, models.OrderStatusShipped, events.changed[0].Status)
}

func TestUpdateStatusAcceptsAnyWorkflowStatusFromAnyStatus(t *testing.T) {
	orders := newFakeOrderStore()
	svc := NewOrderService(orders, &fakeEvents{}, newFakeCartMirror())
	ctx := context.Background()

	for _, from := range append([]string{models.OrderStatusPending}, models.WorkflowStatuses...) {
		for _, to := range models.WorkflowStatuses {
			orders.orders["o-1"] = &models.Order{ID: "o-1", UserID: "u-1", Status: from}
			require.NoError(t, svc.UpdateStatus(ctx, "o-1", to), "%s -> %s", from, to)
			assert.Equal(t, to, orders.orders["o-1"].Status)
		}
	}
}

func TestUpdateStatusRejectsUnknownStatusAndOrder(t *testing.T) {
	orders := newFakeOrderStore()
	orders.orders["o-1"] = &models.Order{ID: "o-1", Status: models.OrderStatusPending}
	svc := NewOrderService(orders, &fakeEvents{}, newFakeCartMirror())
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, "o-1", "Lost")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, models.OrderStatusPending, orders.orders["o-1"].Status)

	err = svc.UpdateStatus(ctx, "missing", models.OrderStatusShipped)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListOrdersNewestFirst(t *testing.T) {
	orders := newFakeOrderStore()
	svc := NewOrderService(orders, &fakeEvents{}, newFakeCartMirror())
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	orders.orders["old"] = &models.Order{ID: "old", UserID: "u-1", Date: base}
	orders.orders["new"] = &models.Order{ID: "new", UserID: "u-2", Date: base.Add(time.Hour)}

	all, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)

	mine, err := svc.UserOrders(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "old", mine[0].ID)

	_, err = svc.UserOrders(context.Background(), "")
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestSweepAbandonedRemovesOnlyStaleUnpaidOnlineOrders(t *testing.T) {
	orders := newFakeOrderStore()
	events := &fakeEvents{}
	svc := NewOrderService(orders, events, newFakeCartMirror())
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := now.Add(-48 * time.Hour)
	orders.orders["stale"] = &models.Order{ID: "stale", UserID: "u-1", PaymentMethod: models.PaymentMethodStripe, Date: stale}
	orders.orders["paid"] = &models.Order{ID: "paid", PaymentMethod: models.PaymentMethodStripe, Payment: true, Date: stale}
	orders.orders["cash"] = &models.Order{ID: "cash", PaymentMethod: models.PaymentMethodCOD, Date: stale}
	orders.orders["fresh"] = &models.Order{ID: "fresh", PaymentMethod: models.PaymentMethodStripe, Date: now.Add(-time.Hour)}

	n, err := svc.SweepAbandoned(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NotContains(t, orders.orders, "stale")
	assert.Contains(t, orders.orders, "paid")
	assert.Contains(t, orders.orders, "cash")
	assert.Contains(t, orders.orders, "fresh")

	require.Len(t, events.removed, 1)
	assert.Equal(t, "stale", events.removed[0].OrderID)
	assert.Equal(t, models.RemovalReasonAbandoned, events.removed[0].Reason)
}
