package service

import (
	"context"
	"testing"

	"shop-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReviewRequiresPurchase(t *testing.T) {
	reviews := newFakeReviewStore()
	svc := NewReviewService(reviews)

	_, _, err := svc.AddReview(context.Background(), "u-1", &AddReviewRequest{
		ProductID: "p-1", Rating: 5, Comment: "great",
	})
	assert.Equal(t, KindNotEligible, KindOf(err))
	assert.Empty(t, reviews.reviews)
}

func TestAddReviewValidatesBeforeEligibility(t *testing.T) {
	svc := NewReviewService(newFakeReviewStore())
	ctx := context.Background()

	tests := []struct {
		name string
		req  AddReviewRequest
	}{
		{"missing product", AddReviewRequest{Rating: 3, Comment: "ok"}},
		{"missing rating", AddReviewRequest{ProductID: "p-1", Comment: "ok"}},
		{"blank comment", AddReviewRequest{ProductID: "p-1", Rating: 3, Comment: "  "}},
		{"rating too high", AddReviewRequest{ProductID: "p-1", Rating: 6, Comment: "ok"}},
		{"rating too low", AddReviewRequest{ProductID: "p-1", Rating: -1, Comment: "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.AddReview(ctx, "u-1", &tt.req)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestAddReviewUpsertsPerUserAndProduct(t *testing.T) {
	reviews := newFakeReviewStore()
	reviews.purchases[reviewKey{"p-1", "u-1"}] = true
	svc := NewReviewService(reviews)
	ctx := context.Background()

	first, created, err := svc.AddReview(ctx, "u-1", &AddReviewRequest{ProductID: "p-1", Rating: 3, Comment: "fine"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.AddReview(ctx, "u-1", &AddReviewRequest{ProductID: "p-1", Rating: 5, Comment: "grew on me"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Date.After(first.Date))

	summary, err := svc.GetReviews(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalReviews)
	assert.Equal(t, 5.0, summary.AverageRating)
	assert.Equal(t, "grew on me", summary.Reviews[0].Comment)
}

func TestGetReviewsAverage(t *testing.T) {
	reviews := newFakeReviewStore()
	svc := NewReviewService(reviews)
	ctx := context.Background()

	summary, err := svc.GetReviews(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0, summary.TotalReviews)
	assert.NotNil(t, summary.Reviews)

	for i, rating := range []int{4, 5} {
		user := []string{"u-1", "u-2"}[i]
		reviews.purchases[reviewKey{"p-1", user}] = true
		_, _, err := svc.AddReview(ctx, user, &AddReviewRequest{ProductID: "p-1", Rating: rating, Comment: "ok"})
		require.NoError(t, err)
	}

	summary, err = svc.GetReviews(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, "u-2", summary.Reviews[0].UserID)
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	reviews := []models.ReviewWithAuthor{
		{Review: models.Review{Rating: 5}},
		{Review: models.Review{Rating: 4}},
		{Review: models.Review{Rating: 4}},
	}
	assert.Equal(t, 4.3, averageRating(reviews))
}

func TestGetUserReviewAndCheckPurchase(t *testing.T) {
	reviews := newFakeReviewStore()
	svc := NewReviewService(reviews)
	ctx := context.Background()

	review, err := svc.GetUserReview(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.Nil(t, review)

	ok, err := svc.CheckPurchase(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.False(t, ok)

	reviews.purchases[reviewKey{"p-1", "u-1"}] = true
	ok, err = svc.CheckPurchase(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, err = svc.AddReview(ctx, "u-1", &AddReviewRequest{ProductID: "p-1", Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	review, err = svc.GetUserReview(ctx, "u-1", "p-1")
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, 2, review.Rating)
}
