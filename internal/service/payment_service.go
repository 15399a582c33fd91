package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-backend/internal/gateway"
	"shop-backend/internal/models"
	"shop-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryLineName = "Delivery Charges"

// PaymentConfig holds the hosted checkout settings
type PaymentConfig struct {
	Currency       string
	DeliveryCharge float64
	FrontendURL    string
}

// PaymentService places online-payment orders and reconciles the gateway
// redirect back into the ledger.
type PaymentService struct {
	store   OrderStore
	events  OrderEvents
	carts   CartClearer
	gateway gateway.CheckoutGateway
	cfg     PaymentConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(store OrderStore, events OrderEvents, carts CartClearer, gw gateway.CheckoutGateway, cfg PaymentConfig) *PaymentService {
	return &PaymentService{
		store:   store,
		events:  events,
		carts:   carts,
		gateway: gw,
		cfg:     cfg,
		logger:  util.GetLogger(),
		now:     time.Now,
	}
}

// buildLineItems prices every order line in minor units and appends the flat
// delivery charge.
func buildLineItems(items []models.OrderItem, deliveryCharge float64) []gateway.LineItem {
	lines := make([]gateway.LineItem, 0, len(items)+1)
	for _, item := range items {
		lines = append(lines, gateway.LineItem{
			Name:       item.Name,
			UnitAmount: gateway.ToMinorUnits(item.Price),
			Quantity:   int64(item.Quantity),
		})
	}
	lines = append(lines, gateway.LineItem{
		Name:       deliveryLineName,
		UnitAmount: gateway.ToMinorUnits(deliveryCharge),
		Quantity:   1,
	})
	return lines
}

func verifyURL(origin, orderID string, success bool) string {
	return fmt.Sprintf("%s/verify?success=%t&orderId=%s", strings.TrimRight(origin, "/"), success, orderID)
}

// StartCheckout records a pending order and opens a hosted checkout session
// for it. origin is where the gateway redirects back to; the configured
// frontend URL is used when it is empty.
func (ps *PaymentService) StartCheckout(ctx context.Context, userID, origin string, req *PlaceOrderRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.StartCheckout")
	defer span.End()

	order, err := createPending(ctx, ps.store, ps.now(), userID, req, models.PaymentMethodStripe)
	if err != nil {
		return "", err
	}

	if origin == "" {
		origin = ps.cfg.FrontendURL
	}

	start := time.Now()
	session, err := ps.gateway.CreateCheckoutSession(ctx, &gateway.SessionRequest{
		OrderID:    order.ID,
		Currency:   ps.cfg.Currency,
		LineItems:  buildLineItems(order.Items, ps.cfg.DeliveryCharge),
		SuccessURL: verifyURL(origin, order.ID, true),
		CancelURL:  verifyURL(origin, order.ID, false),
	})
	util.CheckoutSessionLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		util.CheckoutSessionsFailed.Inc()
		util.OrdersFailedTotal.WithLabelValues("gateway_error").Inc()
		ps.logger.Error("Checkout session creation failed",
			zap.String("order_id", order.ID),
			zap.Error(err))

		if delErr := ps.store.DeleteOrder(ctx, order.ID); delErr != nil {
			ps.logger.Warn("Failed to remove order after gateway error",
				zap.String("order_id", order.ID),
				zap.Error(delErr))
		} else {
			util.OrdersRemovedTotal.WithLabelValues(models.RemovalReasonGatewayError).Inc()
		}
		return "", newError(KindUpstream, "Payment gateway error: %v", err)
	}

	ps.logger.Info("Checkout session created",
		zap.String("order_id", order.ID),
		zap.String("session_id", session.ID))

	if err := ps.events.PublishOrderPlaced(ctx, placedEvent(order)); err != nil {
		ps.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return session.URL, nil
}

// VerifyPayment applies the gateway's redirect outcome to the caller's
// order. A successful payment marks the order paid; anything else removes
// it. The returned bool reports whether the order is now paid.
func (ps *PaymentService) VerifyPayment(ctx context.Context, userID, orderID string, success bool) (bool, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.VerifyPayment")
	defer span.End()

	if orderID == "" {
		return false, newError(KindValidation, "Order id is required")
	}

	order, err := ps.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return false, notFoundOr(err, "Order", "failed to load order")
	}
	if order.UserID != userID {
		return false, newError(KindNotFound, "Order not found")
	}
	if order.PaymentMethod != models.PaymentMethodStripe {
		return false, newError(KindValidation, "Order is not awaiting online payment")
	}

	if success {
		if order.Payment {
			return true, nil
		}
		if err := ps.store.MarkOrderPaid(ctx, orderID); err != nil {
			return false, notFoundOr(err, "Order", "failed to mark order paid")
		}

		util.OrdersPaidTotal.Inc()
		ps.logger.Info("Order paid", zap.String("order_id", orderID))
		clearCart(ctx, ps.carts, ps.logger, order.UserID)

		event := &models.OrderPaidEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.NewString(),
				EventType: models.EventTypeOrderPaid,
				Timestamp: time.Now(),
			},
			OrderID: order.ID,
			UserID:  order.UserID,
			Amount:  order.Amount,
		}
		if err := ps.events.PublishOrderPaid(ctx, event); err != nil {
			ps.logger.Error("Failed to publish OrderPaid event", zap.Error(err))
		}
		return true, nil
	}

	// a paid order is never rolled back by a stale cancel redirect
	if order.Payment {
		return true, nil
	}

	if err := ps.store.DeleteOrder(ctx, orderID); err != nil {
		return false, notFoundOr(err, "Order", "failed to remove order")
	}

	util.OrdersRemovedTotal.WithLabelValues(models.RemovalReasonPaymentCancelled).Inc()
	ps.logger.Info("Unpaid order removed", zap.String("order_id", orderID))

	if err := ps.events.PublishOrderRemoved(ctx, removedEvent(order, models.RemovalReasonPaymentCancelled)); err != nil {
		ps.logger.Error("Failed to publish OrderRemoved event", zap.Error(err))
	}
	return false, nil
}
