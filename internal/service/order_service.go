package service

import (
	"context"
	"fmt"
	"time"

	"shop-backend/internal/models"
	"shop-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order ledger business logic
type OrderService struct {
	store  OrderStore
	events OrderEvents
	carts  CartClearer
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, events OrderEvents, carts CartClearer) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		carts:  carts,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// PlaceOrderRequest is what the storefront submits at checkout. Items and
// amount are taken as submitted.
type PlaceOrderRequest struct {
	Items   []models.OrderItem `json:"items"`
	Amount  float64            `json:"amount"`
	Address *models.Address    `json:"address"`
}

func (r *PlaceOrderRequest) validate() error {
	if len(r.Items) == 0 {
		return newError(KindValidation, "Order must contain at least one item")
	}
	for _, item := range r.Items {
		if item.ProductID == "" {
			return newError(KindValidation, "Every item needs a product id")
		}
		if item.Quantity < 1 {
			return newError(KindValidation, "Item quantity must be at least 1")
		}
	}
	if r.Address == nil {
		return newError(KindValidation, "Delivery address is required")
	}
	if r.Amount < 0 {
		return newError(KindValidation, "Amount cannot be negative")
	}
	return nil
}

// createPending validates the request and writes a new unpaid order
func createPending(ctx context.Context, orders OrderStore, now time.Time, userID string, req *PlaceOrderRequest, method string) (*models.Order, error) {
	if err := req.validate(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, err
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         models.OrderItems(req.Items),
		Address:       *req.Address,
		Amount:        req.Amount,
		Status:        models.OrderStatusPending,
		PaymentMethod: method,
		Payment:       false,
		Date:          now,
	}

	if err := orders.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersPlacedTotal.WithLabelValues(method).Inc()
	return order, nil
}

func placedEvent(order *models.Order) *models.OrderPlacedEvent {
	items := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemData{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	return &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		UserID:        order.UserID,
		Amount:        order.Amount,
		PaymentMethod: order.PaymentMethod,
		Items:         items,
	}
}

// clearCart empties the caller's cart mirror once an order is settled. The
// worker clears it again on the event, so a failure here is only logged.
func clearCart(ctx context.Context, carts CartClearer, logger *zap.Logger, userID string) {
	if err := carts.ClearCart(ctx, userID); err != nil {
		logger.Warn("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
	}
}

func removedEvent(order *models.Order, reason string) *models.OrderRemovedEvent {
	return &models.OrderRemovedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeOrderRemoved,
			Timestamp: time.Now(),
		},
		OrderID: order.ID,
		UserID:  order.UserID,
		Reason:  reason,
	}
}

// PlaceOrder records a cash-on-delivery order
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	order, err := createPending(ctx, s.store, s.now(), userID, req, models.PaymentMethodCOD)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("payment_method", order.PaymentMethod))

	clearCart(ctx, s.carts, s.logger, userID)

	if err := s.events.PublishOrderPlaced(ctx, placedEvent(order)); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return order, nil
}

// ListOrders returns every order, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UserOrders returns the caller's orders, newest first
func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UserOrders")
	defer span.End()

	if userID == "" {
		return nil, newError(KindUnauthorized, "User ID not found")
	}

	orders, err := s.store.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets an order's fulfillment status. Any workflow status may
// follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if orderID == "" {
		return newError(KindValidation, "Order id is required")
	}
	if !models.IsWorkflowStatus(status) {
		return newError(KindValidation, "Unknown order status %q", status)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return notFoundOr(err, "Order", "failed to update order status")
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Status:  status,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return nil
}

// SweepAbandoned deletes online-payment orders that stayed unpaid for longer
// than ttl and returns how many were removed.
func (s *OrderService) SweepAbandoned(ctx context.Context, ttl time.Duration) (int, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SweepAbandoned")
	defer span.End()

	cutoff := s.now().Add(-ttl)
	removed, err := s.store.DeleteUnpaidOrdersBefore(ctx, models.PaymentMethodStripe, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep abandoned orders: %w", err)
	}

	for i := range removed {
		util.OrdersRemovedTotal.WithLabelValues(models.RemovalReasonAbandoned).Inc()
		if err := s.events.PublishOrderRemoved(ctx, removedEvent(&removed[i], models.RemovalReasonAbandoned)); err != nil {
			s.logger.Error("Failed to publish OrderRemoved event",
				zap.String("order_id", removed[i].ID),
				zap.Error(err))
		}
	}

	if len(removed) > 0 {
		s.logger.Info("Abandoned orders removed",
			zap.Int("count", len(removed)),
			zap.Time("cutoff", cutoff))
	}
	return len(removed), nil
}
