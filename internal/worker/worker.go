package worker

import (
	"context"
	"fmt"

	"shop-backend/internal/broker"
	"shop-backend/internal/models"
	"shop-backend/internal/util"

	"go.uber.org/zap"
)

// EventLedger records which events have been handled
type EventLedger interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// CartClearer empties a user's server-side cart mirror
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

// CartWorker clears a shopper's cart mirror once their order is settled:
// immediately for cash orders, on payment confirmation for online ones. The
// request that settles the order clears it first; this catches the cases
// where that clear failed.
type CartWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	ledger       EventLedger
	carts        CartClearer
	logger       *zap.Logger
}

// NewCartWorker creates a new cart worker
func NewCartWorker(consumer *broker.Consumer, ledger EventLedger, carts CartClearer) *CartWorker {
	w := &CartWorker{
		consumer: consumer,
		ledger:   ledger,
		carts:    carts,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	eventHandler.OnOrderPaid(w.handleOrderPaid)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *CartWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cart worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CartWorker) Stop() error {
	w.logger.Info("Stopping cart worker")
	return w.consumer.Close()
}

func (w *CartWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	// online orders keep the cart until the gateway confirms payment
	if event.PaymentMethod != models.PaymentMethodCOD {
		return nil
	}
	return w.clearOnce(ctx, event.BaseEvent, event.UserID, event.OrderID)
}

func (w *CartWorker) handleOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error {
	return w.clearOnce(ctx, event.BaseEvent, event.UserID, event.OrderID)
}

func (w *CartWorker) clearOnce(ctx context.Context, base models.BaseEvent, userID, orderID string) error {
	ctx, span := util.StartSpan(ctx, "CartWorker.ClearCart")
	defer span.End()

	processed, err := w.ledger.IsEventProcessed(ctx, base.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event %s: %w", base.EventID, err)
	}
	if processed {
		w.logger.Debug("Event already processed", zap.String("event_id", base.EventID))
		return nil
	}

	if err := w.carts.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}

	if err := w.ledger.MarkEventProcessed(ctx, base.EventID, base.EventType); err != nil {
		return fmt.Errorf("failed to mark event %s processed: %w", base.EventID, err)
	}

	w.logger.Info("Cart cleared",
		zap.String("user_id", userID),
		zap.String("order_id", orderID),
		zap.String("event_type", base.EventType))
	return nil
}
