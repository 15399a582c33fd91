package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"shop-backend/internal/models"
)

const orderColumns = "id, user_id, items, address, amount, status, payment_method, payment, date"

// CreateOrder inserts a new order
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, items, address, amount, status, payment_method, payment, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		order.ID, order.UserID, order.Items, order.Address, order.Amount,
		order.Status, order.PaymentMethod, order.Payment, order.Date)
	return err
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves every order, newest first
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders ORDER BY date DESC")
	return orders, err
}

// GetOrdersByUserID retrieves orders for a user, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY date DESC", userID)
	return orders, err
}

// UpdateOrderStatus overwrites the order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, orderID)
	return expectOne(res, err)
}

// MarkOrderPaid sets the payment flag
func (s *Store) MarkOrderPaid(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET payment = TRUE WHERE id = $1", orderID)
	return expectOne(res, err)
}

// DeleteOrder hard-deletes an order
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	return expectOne(res, err)
}

// DeleteUnpaidOrdersBefore removes unpaid orders of the given payment method
// placed before cutoff and returns what was removed.
func (s *Store) DeleteUnpaidOrdersBefore(ctx context.Context, paymentMethod string, cutoff time.Time) ([]models.Order, error) {
	removed := []models.Order{}
	err := s.db.SelectContext(ctx, &removed,
		`DELETE FROM orders
		 WHERE payment = FALSE AND payment_method = $1 AND date < $2
		 RETURNING `+orderColumns,
		paymentMethod, cutoff)
	return removed, err
}

// HasPurchased reports whether any order of the user contains the product.
// The containment test is served by the GIN index on items.
func (s *Store) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	probe, err := json.Marshal([]map[string]string{{"productId": productID}})
	if err != nil {
		return false, err
	}

	var exists bool
	err = s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE user_id = $1 AND items @> $2::jsonb)",
		userID, string(probe))
	return exists, err
}

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
