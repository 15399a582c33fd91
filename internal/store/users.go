package store

import (
	"context"
	"database/sql"
	"errors"

	"shop-backend/internal/models"
)

const userColumns = "id, name, email, password_hash, profile, created_at"

// CreateUser inserts a new user; a taken email yields ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, profile)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := s.db.GetContext(ctx, &user.CreatedAt, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Profile)
	return translate(err)
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// UpdateUserProfile replaces the stored profile
func (s *Store) UpdateUserProfile(ctx context.Context, userID string, profile models.Address) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET profile = $1 WHERE id = $2", profile, userID)
	return expectOne(res, err)
}

func (s *Store) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
