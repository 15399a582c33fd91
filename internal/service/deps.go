package service

import (
	"context"
	"time"

	"shop-backend/internal/cart"
	"shop-backend/internal/models"
)

// The interfaces below are satisfied by *store.Store, *redisclient.Client and
// *broker.EventPublisher.

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	MarkOrderPaid(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
	DeleteUnpaidOrdersBefore(ctx context.Context, paymentMethod string, cutoff time.Time) ([]models.Order, error)
}

type ReviewStore interface {
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
	UpsertReview(ctx context.Context, review *models.Review) (bool, error)
	GetReviewsByProduct(ctx context.Context, productID string) ([]models.ReviewWithAuthor, error)
	GetUserReview(ctx context.Context, userID, productID string) (*models.ReviewWithAuthor, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, profile models.Address) error
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductCache interface {
	GetCachedProducts(ctx context.Context) ([]byte, error)
	CacheProducts(ctx context.Context, data []byte, ttl time.Duration) error
	InvalidateProducts(ctx context.Context) error
}

type CartMirror interface {
	LoadCart(ctx context.Context, userID string) (cart.Cart, error)
	IncrementCartItem(ctx context.Context, userID, productID, size string) error
	SetCartItem(ctx context.Context, userID, productID, size string, quantity int) error
	CartClearer
}

type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error
	PublishOrderRemoved(ctx context.Context, event *models.OrderRemovedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}
