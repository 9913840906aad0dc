package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

// AuthService handles login and token-based identity resolution
type AuthService struct {
	userRepo  domain.UserRepository
	tokens    *TokenService
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokens *TokenService) *AuthService {
	// Compared against when the email is unknown so both paths cost one bcrypt check
	dummyHash, _ := HashPassword("ttdashboard-dummy-password")
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		dummyHash: dummyHash,
	}
}

// LoginResult represents the result of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies credentials and issues a session token.
// Unknown email, deactivated account and wrong password all return ErrInvalidCredential.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredential
	}

	user, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			CheckPassword(s.dummyHash, password)
			log.Info().Str("email", email).Msg("Login rejected: unknown or inactive account")
			return nil, domain.ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		log.Info().Str("user_id", user.ID).Msg("Login rejected: wrong password")
		return nil, domain.ErrInvalidCredential
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("User logged in")

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Authenticate resolves a bearer token to an active user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	userID, err := s.tokens.Verify(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return nil, domain.ErrInvalidCredential
	}

	user, err := s.userRepo.GetActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the password of the given user after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetActiveByID(ctx, userID)
	if err != nil {
		return err
	}

	if !CheckPassword(user.PasswordHash, currentPassword) {
		return domain.NewFieldError("currentPassword", "Current password is incorrect")
	}
	if len(newPassword) < domain.MinPasswordLength {
		return domain.NewFieldError("newPassword", fmt.Sprintf("Password must be at least %d characters", domain.MinPasswordLength))
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if _, err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Msg("Password changed")
	return nil
}
