package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserResponse represents a user in API responses; the password hash is never included
type UserResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Role           string             `json:"role"`
	ProfilePicture *string            `json:"profilePicture"`
	IsActive       bool               `json:"isActive"`
	Permissions    domain.Permissions `json:"permissions"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
}

// CreateUserRequest documents the create user fields, sent as JSON or multipart form
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=staff accountant admin"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role.String(),
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		Permissions:    domain.PermissionsOf(u.Role),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUser handles POST /users
// @Summary Create a user
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User fields; profilePicture may be sent as a multipart file"
// @Success 201 {object} UserResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "user")
	}

	req := CreateUserRequest{
		Name:     fields.str("name"),
		Email:    fields.str("email"),
		Password: fields.str("password"),
		Role:     fields.str("role"),
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "user")
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "role", Message: "Must be one of: staff, accountant, admin"}})
	}

	picture, err := readUpload(c, "profilePicture")
	if err != nil {
		return respondError(c, err, "user")
	}

	user, err := h.userService.CreateUser(c.Request().Context(), service.CreateUserInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           role,
		ProfilePicture: picture,
	})
	if err != nil {
		return respondError(c, err, "user")
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// ListUsers handles GET /users
// @Summary List active users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "user")
	}

	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, response)
}

// GetUser handles GET /users/:id
// @Summary Get an active user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} ProblemDetails
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateUser handles PUT /users/:id; omitted fields keep their value
// @Summary Update a user
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "user")
	}

	input := service.UpdateUserInput{
		Name:  fields.optString("name"),
		Email: fields.optString("email"),
	}
	if pw := fields.str("password"); pw != "" {
		input.Password = &pw
	}
	if fields.str("role") != "" {
		role, err := domain.ParseRole(fields.str("role"))
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "role", Message: "Must be one of: staff, accountant, admin"}})
		}
		input.Role = &role
	}

	if input.ProfilePicture, err = readUpload(c, "profilePicture"); err != nil {
		return respondError(c, err, "user")
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeactivateUser handles PATCH /users/:id/deactivate
// @Summary Deactivate a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ProblemDetails
// @Router /users/{id}/deactivate [patch]
func (h *UserHandler) DeactivateUser(c echo.Context) error {
	if err := h.userService.DeactivateUser(c.Request().Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deactivated"})
}

// ReactivateUser handles PATCH /users/:id/reactivate
// @Summary Reactivate a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} ProblemDetails
// @Router /users/{id}/reactivate [patch]
func (h *UserHandler) ReactivateUser(c echo.Context) error {
	user, err := h.userService.ReactivateUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteUser handles DELETE /users/:id
// @Summary Permanently delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ProblemDetails
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.userService.DeleteUser(c.Request().Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		return respondError(c, err, "user")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted"})
}
