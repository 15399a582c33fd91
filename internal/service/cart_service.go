package service

import (
	"context"
	"fmt"

	"shop-backend/internal/cart"
	"shop-backend/internal/util"
)

// CartService maintains the server-side mirror of a shopper's cart
type CartService struct {
	mirror CartMirror
}

// NewCartService creates a new cart service
func NewCartService(mirror CartMirror) *CartService {
	return &CartService{mirror: mirror}
}

// GetCart returns the caller's mirrored cart
func (s *CartService) GetCart(ctx context.Context, userID string) (cart.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	ct, err := s.mirror.LoadCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return ct, nil
}

// AddToCart adds one unit of a product in a size
func (s *CartService) AddToCart(ctx context.Context, userID, productID, size string) error {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	if productID == "" || size == "" {
		return newError(KindValidation, "Select product size")
	}

	if err := s.mirror.IncrementCartItem(ctx, userID, productID, size); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

// UpdateCart sets the quantity of a product in a size; zero removes it
func (s *CartService) UpdateCart(ctx context.Context, userID, productID, size string, quantity int) error {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateCart")
	defer span.End()

	if productID == "" || size == "" {
		return newError(KindValidation, "Product and size are required")
	}
	if quantity < 0 {
		return newError(KindValidation, "Quantity cannot be negative")
	}

	if err := s.mirror.SetCartItem(ctx, userID, productID, size, quantity); err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}

// ClearCart empties the mirror
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.mirror.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
