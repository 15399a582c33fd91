package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop-backend/internal/models"
	"shop-backend/internal/redisclient"
	"shop-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService manages the catalog. Reads of the full list go through the
// cache when one is configured.
type ProductService struct {
	store    ProductStore
	cache    ProductCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewProductService creates a new product service. cache may be nil.
func NewProductService(store ProductStore, cache ProductCache, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// AddProductRequest is the admin's product form. Images are URLs.
type AddProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Sizes       []string `json:"sizes"`
	Images      []string `json:"image"`
	Bestseller  bool     `json:"bestseller"`
}

// AddProduct creates a catalog entry
func (s *ProductService) AddProduct(ctx context.Context, req *AddProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.AddProduct")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, newError(KindValidation, "Product name is required")
	}
	if req.Price < 0 {
		return nil, newError(KindValidation, "Price cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Sizes:       nonNil(req.Sizes),
		Images:      nonNil(req.Images),
		Bestseller:  req.Bestseller,
		Date:        time.Now(),
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info("Product added", zap.String("product_id", product.ID))
	return product, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// ListProducts returns the whole catalog, newest first
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.ListProducts")
	defer span.End()

	if products, ok := s.cached(ctx); ok {
		return products, nil
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := s.cache.CacheProducts(ctx, data, s.cacheTTL); err != nil {
				s.logger.Warn("Failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, nil
}

func (s *ProductService) cached(ctx context.Context) ([]models.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.GetCachedProducts(ctx)
	if err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			s.logger.Warn("Product cache read failed", zap.Error(err))
		}
		util.ProductCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.logger.Warn("Discarding corrupt product cache entry", zap.Error(err))
		util.ProductCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	util.ProductCacheRequests.WithLabelValues("hit").Inc()
	return products, true
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

// GetProduct returns one product
func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetProduct")
	defer span.End()

	if productID == "" {
		return nil, newError(KindValidation, "Product id is required")
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "Product", "failed to load product")
	}
	return product, nil
}

// RemoveProduct deletes a product from the catalog. Orders keep their
// snapshot of it.
func (s *ProductService) RemoveProduct(ctx context.Context, productID string) error {
	ctx, span := util.StartSpan(ctx, "ProductService.RemoveProduct")
	defer span.End()

	if productID == "" {
		return newError(KindValidation, "Product id is required")
	}

	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return notFoundOr(err, "Product", "failed to remove product")
	}

	s.invalidate(ctx)
	s.logger.Info("Product removed", zap.String("product_id", productID))
	return nil
}
