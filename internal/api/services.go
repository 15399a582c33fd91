package api

import (
	"context"

	"shop-backend/internal/cart"
	"shop-backend/internal/models"
	"shop-backend/internal/service"
)

// The handler depends on these views of the service layer so each area can
// be exercised on its own.

type UserService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	AdminLogin(email, password string) (string, error)
	GetProfile(ctx context.Context, userID string) (*models.Address, error)
	UpdateProfile(ctx context.Context, userID string, fields models.Address) (*models.Address, error)
}

type ProductService interface {
	AddProduct(ctx context.Context, req *service.AddProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	RemoveProduct(ctx context.Context, productID string) error
}

type CartService interface {
	GetCart(ctx context.Context, userID string) (cart.Cart, error)
	AddToCart(ctx context.Context, userID, productID, size string) error
	UpdateCart(ctx context.Context, userID, productID, size string, quantity int) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req *service.PlaceOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UserOrders(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type PaymentService interface {
	StartCheckout(ctx context.Context, userID, origin string, req *service.PlaceOrderRequest) (string, error)
	VerifyPayment(ctx context.Context, userID, orderID string, success bool) (bool, error)
}

type ReviewService interface {
	AddReview(ctx context.Context, userID string, req *service.AddReviewRequest) (*models.Review, bool, error)
	GetReviews(ctx context.Context, productID string) (*service.ReviewSummary, error)
	GetUserReview(ctx context.Context, userID, productID string) (*models.ReviewWithAuthor, error)
	CheckPurchase(ctx context.Context, userID, productID string) (bool, error)
}

// Services bundles everything the routes call into
type Services struct {
	Users    UserService
	Products ProductService
	Carts    CartService
	Orders   OrderService
	Payments PaymentService
	Reviews  ReviewService
}

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}
