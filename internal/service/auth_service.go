package service

import (
	"context"
	"errors"
	"strings"

	"sweetiegarden/internal/models"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when a disabled account tries to log in
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrWeakPassword is returned when the password fails the length check
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// AuthService handles registration and credential checks
type AuthService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store) *AuthService {
	return &AuthService{store: st, logger: util.GetLogger()}
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	FullName string  `json:"full_name" binding:"required"`
	Phone    *string `json:"phone"`
}

// Register creates a new customer account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        req.Phone,
		Role:         models.RoleUser,
		Status:       models.AccountStatusActive,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Authenticate verifies an email and password pair and returns the account
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status != models.AccountStatusActive {
		return nil, ErrAccountDisabled
	}

	return user, nil
}

// AdoptGuestCart moves a guest cart onto the account after a successful
// login. Quantities of lines already in the account cart are folded
// together.
func (s *AuthService) AdoptGuestCart(ctx context.Context, guestToken string, userID int64) error {
	if guestToken == "" {
		return nil
	}
	if err := s.store.MergeGuestCart(ctx, guestToken, userID); err != nil {
		s.logger.Error("Failed to merge guest cart",
			zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}
