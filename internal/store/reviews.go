package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shop-backend/internal/models"
)

// UpsertReview inserts the review or, when the (product, user) pair already
// has one, overwrites its rating, comment and date. created reports which
// of the two happened.
func (s *Store) UpsertReview(ctx context.Context, review *models.Review) (created bool, err error) {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, date)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, date = NOW()
		RETURNING id, date, (xmax = 0) AS inserted`

	var row struct {
		ID       string    `db:"id"`
		Date     time.Time `db:"date"`
		Inserted bool      `db:"inserted"`
	}
	if err := s.db.GetContext(ctx, &row, query,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment); err != nil {
		return false, err
	}

	review.ID = row.ID
	review.Date = row.Date
	return row.Inserted, nil
}

// GetReviewsByProduct retrieves a product's reviews with author details,
// newest first
func (s *Store) GetReviewsByProduct(ctx context.Context, productID string) ([]models.ReviewWithAuthor, error) {
	reviews := []models.ReviewWithAuthor{}
	err := s.db.SelectContext(ctx, &reviews, `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.date,
		       COALESCE(u.name, '') AS user_name, COALESCE(u.email, '') AS user_email
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.date DESC`, productID)
	return reviews, err
}

// GetUserReview retrieves the user's review of a product
func (s *Store) GetUserReview(ctx context.Context, userID, productID string) (*models.ReviewWithAuthor, error) {
	var review models.ReviewWithAuthor
	err := s.db.GetContext(ctx, &review, `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.date,
		       COALESCE(u.name, '') AS user_name, COALESCE(u.email, '') AS user_email
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1 AND r.user_id = $2`, productID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}
