package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "user"
)

// Authenticator resolves a bearer token to an active user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware provides bearer token validation middleware
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate returns an Echo middleware that resolves the Authorization header to a user
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Authentication required")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			user, err := m.authenticator.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUnauthenticated):
					return unauthorizedError(c, "Authentication required")
				case errors.Is(err, domain.ErrInvalidCredential):
					return unauthorizedError(c, "Invalid or expired token")
				}
				log.Error().Err(err).Msg("Failed to authenticate request")
				return internalError(c, err.Error())
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// SetUser attaches an authenticated user to the request context
func SetUser(c echo.Context, user *domain.User) {
	ctx := context.WithValue(c.Request().Context(), UserKey, user)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetUser extracts the authenticated user from the context
func GetUser(c echo.Context) *domain.User {
	if user, ok := c.Request().Context().Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(c echo.Context) string {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return ""
}

// GetRole extracts the authenticated user's role, 0 when unauthenticated
func GetRole(c echo.Context) domain.Role {
	if user := GetUser(c); user != nil {
		return user.Role
	}
	return 0
}
