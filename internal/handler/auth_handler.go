package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// PermissionsResponse represents the caller's role and capabilities
type PermissionsResponse struct {
	Role        string             `json:"role"`
	Permissions domain.Permissions `json:"permissions"`
}

// Login handles POST /auth/login
// @Summary Log in
// @Description Exchange email and password for a 30-day bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "user")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "user")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toUserResponse(result.User),
	})
}

// Me handles GET /auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout handles POST /auth/logout. Tokens are stateless; the client discards its copy.
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// ChangePassword handles PUT /auth/password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ProblemDetails
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "user")
	}

	if err := h.authService.ChangePassword(c.Request().Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}

// Permissions handles GET /auth/permissions
// @Summary Caller permissions
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PermissionsResponse
// @Router /auth/permissions [get]
func (h *AuthHandler) Permissions(c echo.Context) error {
	role := middleware.GetRole(c)
	return c.JSON(http.StatusOK, PermissionsResponse{
		Role:        role.String(),
		Permissions: domain.PermissionsOf(role),
	})
}
