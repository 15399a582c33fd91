package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"shop-backend/internal/auth"
	"shop-backend/internal/models"
	"shop-backend/internal/store"
	"shop-backend/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
	maxPasswordLength = 20
)

// AdminCredentials are the single console login configured for the deployment
type AdminCredentials struct {
	Email    string
	Password string
}

// UserService is the credential service: accounts, logins and profiles
type UserService struct {
	store    UserStore
	tokens   *auth.Manager
	admin    AdminCredentials
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store UserStore, tokens *auth.Manager, admin AdminCredentials) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		admin:    admin,
		validate: validator.New(),
		logger:   util.GetLogger(),
	}
}

func invalidCredentials() *Error {
	return newError(KindUnauthorized, "Invalid credentials")
}

// Login checks an email and password and returns a user token. Unknown
// emails and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Login")
	defer span.End()

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		util.LoginAttemptsTotal.WithLabelValues("user", "failure").Inc()
		return "", invalidCredentials()
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.LoginAttemptsTotal.WithLabelValues("user", "failure").Inc()
		return "", invalidCredentials()
	}

	util.LoginAttemptsTotal.WithLabelValues("user", "success").Inc()
	return s.tokens.IssueUser(user.ID)
}

// Register creates an account and returns a user token
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Register")
	defer span.End()

	email = strings.TrimSpace(email)

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return "", newError(KindConflict, "Email already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", newError(KindValidation, "Invalid Email")
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return "", newError(KindValidation, "Password should be between %d to %d characters", minPasswordLength, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", newError(KindConflict, "Email already exists")
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return s.tokens.IssueUser(user.ID)
}

// AdminLogin checks the console credentials and returns an admin token
func (s *UserService) AdminLogin(email, password string) (string, error) {
	if s.admin.Email == "" || s.admin.Password == "" {
		util.LoginAttemptsTotal.WithLabelValues("admin", "failure").Inc()
		return "", invalidCredentials()
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !emailOK || !passwordOK {
		util.LoginAttemptsTotal.WithLabelValues("admin", "failure").Inc()
		return "", invalidCredentials()
	}

	util.LoginAttemptsTotal.WithLabelValues("admin", "success").Inc()
	return s.tokens.IssueAdmin()
}

// GetProfile returns the caller's saved delivery details. A user who never
// saved any gets an empty profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "UserService.GetProfile")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User", "failed to load user")
	}
	if user.Profile == nil {
		return &models.Address{}, nil
	}
	return user.Profile, nil
}

// UpdateProfile merges the submitted fields into the saved profile. Empty
// fields keep their saved value; the email falls back to the account email.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, fields models.Address) (*models.Address, error) {
	ctx, span := util.StartSpan(ctx, "UserService.UpdateProfile")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User", "failed to load user")
	}

	var current models.Address
	if user.Profile != nil {
		current = *user.Profile
	}

	merged := mergeProfile(current, fields)
	if merged.Email == "" {
		merged.Email = user.Email
	}

	if err := s.store.UpdateUserProfile(ctx, userID, merged); err != nil {
		return nil, notFoundOr(err, "User", "failed to update profile")
	}
	return &merged, nil
}

func mergeProfile(current, fields models.Address) models.Address {
	pick := func(submitted, saved string) string {
		if strings.TrimSpace(submitted) != "" {
			return submitted
		}
		return saved
	}

	return models.Address{
		FirstName: pick(fields.FirstName, current.FirstName),
		LastName:  pick(fields.LastName, current.LastName),
		Email:     pick(fields.Email, current.Email),
		Street:    pick(fields.Street, current.Street),
		City:      pick(fields.City, current.City),
		State:     pick(fields.State, current.State),
		Zipcode:   pick(fields.Zipcode, current.Zipcode),
		Country:   pick(fields.Country, current.Country),
		Phone:     pick(fields.Phone, current.Phone),
	}
}
