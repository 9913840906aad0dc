package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// CategoryHandler handles expense category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name          string   `json:"name" validate:"required"`
	SubCategories []string `json:"subCategories"`
}

// UpdateCategoryRequest represents the update category request body; omitted fields keep their value
type UpdateCategoryRequest struct {
	Name          *string   `json:"name"`
	SubCategories *[]string `json:"subCategories"`
}

// SubCategoryRequest names a subcategory to add or the new name of one being renamed
type SubCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateCategory handles POST /categories
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "category")
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, req.SubCategories)
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusCreated, category)
}

// ListCategories handles GET /categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles GET /categories/:id
// @Summary Get a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, err := h.categoryService.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/:id
// @Summary Rename a category or replace its subcategories
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body UpdateCategoryRequest true "Changes"
// @Success 200 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), c.Param("id"), service.UpdateCategoryInput{
		Name:          req.Name,
		SubCategories: req.SubCategories,
	})
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id. Expenses keep the stored category name.
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.categoryService.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted"})
}

// AddSubCategory handles POST /categories/:id/subcategories
// @Summary Add a subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body SubCategoryRequest true "Subcategory"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Router /categories/{id}/subcategories [post]
func (h *CategoryHandler) AddSubCategory(c echo.Context) error {
	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "category")
	}

	category, err := h.categoryService.AddSubCategory(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusCreated, category)
}

// RenameSubCategory handles PUT /categories/:id/subcategories/:name
// @Summary Rename a subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param name path string true "Current subcategory name"
// @Param request body SubCategoryRequest true "New name"
// @Success 200 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Router /categories/{id}/subcategories/{name} [put]
func (h *CategoryHandler) RenameSubCategory(c echo.Context) error {
	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "category")
	}

	category, err := h.categoryService.RenameSubCategory(c.Request().Context(), c.Param("id"), pathParam(c, "name"), req.Name)
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusOK, category)
}

// RemoveSubCategory handles DELETE /categories/:id/subcategories/:name
// @Summary Remove a subcategory
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param name path string true "Subcategory name"
// @Success 200 {object} domain.Category
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id}/subcategories/{name} [delete]
func (h *CategoryHandler) RemoveSubCategory(c echo.Context) error {
	category, err := h.categoryService.RemoveSubCategory(c.Request().Context(), c.Param("id"), pathParam(c, "name"))
	if err != nil {
		return respondError(c, err, "category")
	}
	return c.JSON(http.StatusOK, category)
}
