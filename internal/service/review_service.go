package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shop-backend/internal/models"
	"shop-backend/internal/store"
	"shop-backend/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReviewService gates and stores product reviews
type ReviewService struct {
	store  ReviewStore
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(store ReviewStore) *ReviewService {
	return &ReviewService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// AddReviewRequest is a review submission
type AddReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// ReviewSummary is a product's reviews with their aggregate
type ReviewSummary struct {
	Reviews       []models.ReviewWithAuthor `json:"reviews"`
	AverageRating float64                   `json:"averageRating"`
	TotalReviews  int                       `json:"totalReviews"`
}

// AddReview creates the caller's review of a product, or replaces it if one
// exists. created reports which of the two happened.
func (s *ReviewService) AddReview(ctx context.Context, userID string, req *AddReviewRequest) (review *models.Review, created bool, err error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.AddReview")
	defer span.End()

	comment := strings.TrimSpace(req.Comment)
	if req.ProductID == "" || req.Rating == 0 || comment == "" {
		return nil, false, newError(KindValidation, "All fields are required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, false, newError(KindValidation, "Rating must be between 1 and 5")
	}

	purchased, err := s.store.HasPurchased(ctx, userID, req.ProductID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check purchase history: %w", err)
	}
	if !purchased {
		util.ReviewsWrittenTotal.WithLabelValues("not_eligible").Inc()
		return nil, false, newError(KindNotEligible, "You must purchase this product before you can review it")
	}

	review = &models.Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	created, err = s.store.UpsertReview(ctx, review)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save review: %w", err)
	}

	result := "updated"
	if created {
		result = "created"
	}
	util.ReviewsWrittenTotal.WithLabelValues(result).Inc()
	s.logger.Info("Review saved",
		zap.String("review_id", review.ID),
		zap.String("product_id", review.ProductID),
		zap.String("result", result))

	return review, created, nil
}

// GetReviews returns a product's reviews, newest first, with the mean rating
// rounded to one decimal.
func (s *ReviewService) GetReviews(ctx context.Context, productID string) (*ReviewSummary, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.GetReviews")
	defer span.End()

	if productID == "" {
		return nil, newError(KindValidation, "Product id is required")
	}

	reviews, err := s.store.GetReviewsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	return &ReviewSummary{
		Reviews:       reviews,
		AverageRating: averageRating(reviews),
		TotalReviews:  len(reviews),
	}, nil
}

func averageRating(reviews []models.ReviewWithAuthor) float64 {
	if len(reviews) == 0 {
		return 0
	}

	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(1).InexactFloat64()
}

// GetUserReview returns the caller's review of a product, or nil if there is
// none.
func (s *ReviewService) GetUserReview(ctx context.Context, userID, productID string) (*models.ReviewWithAuthor, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.GetUserReview")
	defer span.End()

	review, err := s.store.GetUserReview(ctx, userID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return review, nil
}

// CheckPurchase reports whether the caller may review the product
func (s *ReviewService) CheckPurchase(ctx context.Context, userID, productID string) (bool, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.CheckPurchase")
	defer span.End()

	ok, err := s.store.HasPurchased(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase history: %w", err)
	}
	return ok, nil
}
