package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"shop-backend/internal/models"
	"shop-backend/internal/redisclient"
	"shop-backend/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = util.InitLogger("test")
	os.Exit(m.Run())
}

type memoryLedger struct {
	seen map[string]string
}

func (l *memoryLedger) IsEventProcessed(_ context.Context, id string) (bool, error) {
	_, ok := l.seen[id]
	return ok, nil
}

func (l *memoryLedger) MarkEventProcessed(_ context.Context, id, eventType string) error {
	l.seen[id] = eventType
	return nil
}

type recordingCarts struct {
	cleared []string
}

func (r *recordingCarts) ClearCart(_ context.Context, userID string) error {
	r.cleared = append(r.cleared, userID)
	return nil
}

func encode(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func newTestCartWorker() (*CartWorker, *memoryLedger, *recordingCarts) {
	ledger := &memoryLedger{seen: map[string]string{}}
	carts := &recordingCarts{}
	return NewCartWorker(nil, ledger, carts), ledger, carts
}

func TestCartClearedForCashOrder(t *testing.T) {
	w, ledger, carts := newTestCartWorker()
	ctx := context.Background()

	msg := encode(t, &models.OrderPlacedEvent{
		BaseEvent:     models.BaseEvent{EventID: "e-1", EventType: models.EventTypeOrderPlaced},
		OrderID:       "o-1",
		UserID:        "u-1",
		PaymentMethod: models.PaymentMethodCOD,
	})

	require.NoError(t, w.eventHandler.HandleMessage(ctx, msg))
	require.NoError(t, w.eventHandler.HandleMessage(ctx, msg))

	assert.Equal(t, []string{"u-1"}, carts.cleared)
	assert.Equal(t, models.EventTypeOrderPlaced, ledger.seen["e-1"])
}

func TestCartKeptUntilOnlinePaymentConfirmed(t *testing.T) {
	w, _, carts := newTestCartWorker()
	ctx := context.Background()

	placed := encode(t, &models.OrderPlacedEvent{
		BaseEvent:     models.BaseEvent{EventID: "e-1", EventType: models.EventTypeOrderPlaced},
		OrderID:       "o-1",
		UserID:        "u-1",
		PaymentMethod: models.PaymentMethodStripe,
	})
	require.NoError(t, w.eventHandler.HandleMessage(ctx, placed))
	assert.Empty(t, carts.cleared)

	paid := encode(t, &models.OrderPaidEvent{
		BaseEvent: models.BaseEvent{EventID: "e-2", EventType: models.EventTypeOrderPaid},
		OrderID:   "o-1",
		UserID:    "u-1",
	})
	require.NoError(t, w.eventHandler.HandleMessage(ctx, paid))
	assert.Equal(t, []string{"u-1"}, carts.cleared)
}

func TestOtherEventsIgnored(t *testing.T) {
	w, _, carts := newTestCartWorker()

	msg := encode(t, &models.OrderRemovedEvent{
		BaseEvent: models.BaseEvent{EventID: "e-3", EventType: models.EventTypeOrderRemoved},
		UserID:    "u-1",
	})
	require.NoError(t, w.eventHandler.HandleMessage(context.Background(), msg))
	assert.Empty(t, carts.cleared)
}

type countingSweeper struct {
	calls int
	ttl   time.Duration
}

func (c *countingSweeper) SweepAbandoned(_ context.Context, ttl time.Duration) (int, error) {
	c.calls++
	c.ttl = ttl
	return 2, nil
}

func TestSweepOnceHonoursLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := redisclient.NewClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rc.Close()

	orders := &countingSweeper{}
	s := NewSweeper(orders, rc, time.Minute, 24*time.Hour)
	ctx := context.Background()

	n, err := s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 24*time.Hour, orders.ttl)

	// lock released after the sweep
	n, err = s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, orders.calls)

	token, ok, err := rc.AcquireLock(ctx, sweepLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	n, err = s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, orders.calls)

	require.NoError(t, rc.ReleaseLock(ctx, sweepLockKey, token))
}

func TestSweeperDisabled(t *testing.T) {
	assert.False(t, NewSweeper(&countingSweeper{}, nil, time.Minute, 0).Enabled())
	assert.False(t, NewSweeper(&countingSweeper{}, nil, 0, time.Hour).Enabled())
	assert.True(t, NewSweeper(&countingSweeper{}, nil, time.Minute, time.Hour).Enabled())
}
