package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// CustomCardHandler handles the caller's custom dashboard cards and in-hand formula
type CustomCardHandler struct {
	cardService   *service.CustomCardService
	reportService *service.ReportService
}

// NewCustomCardHandler creates a new CustomCardHandler
func NewCustomCardHandler(cardService *service.CustomCardService, reportService *service.ReportService) *CustomCardHandler {
	return &CustomCardHandler{
		cardService:   cardService,
		reportService: reportService,
	}
}

// CustomCardRequest represents a card body
type CustomCardRequest struct {
	Name    string             `json:"name" validate:"required"`
	Entries []domain.CardEntry `json:"entries" validate:"required"`
}

// CustomInHandRequest represents the in-hand formula body
type CustomInHandRequest struct {
	Entries []domain.InHandEntry `json:"entries"`
}

func (h *CustomCardHandler) bindCard(c echo.Context) (service.CardInput, error) {
	var req CustomCardRequest
	if err := c.Bind(&req); err != nil {
		return service.CardInput{}, domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return service.CardInput{}, err
	}
	return service.CardInput{Name: req.Name, Entries: req.Entries}, nil
}

// ListCards handles GET /custom-cards
// @Summary List my custom cards
// @Tags custom-cards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.CustomCard
// @Failure 403 {object} ProblemDetails
// @Router /custom-cards [get]
func (h *CustomCardHandler) ListCards(c echo.Context) error {
	cards, err := h.cardService.ListCards(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "card")
	}
	return c.JSON(http.StatusOK, cards)
}

// CreateCard handles POST /custom-cards
// @Summary Create a custom card
// @Tags custom-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CustomCardRequest true "Card"
// @Success 201 {object} domain.CustomCard
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /custom-cards [post]
func (h *CustomCardHandler) CreateCard(c echo.Context) error {
	input, err := h.bindCard(c)
	if err != nil {
		return respondError(c, err, "card")
	}
	card, err := h.cardService.CreateCard(c.Request().Context(), middleware.GetUserID(c), input)
	if err != nil {
		return respondError(c, err, "card")
	}
	return c.JSON(http.StatusCreated, card)
}

// UpdateCard handles PUT /custom-cards/:id
// @Summary Replace a custom card
// @Tags custom-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param request body CustomCardRequest true "Card"
// @Success 200 {object} domain.CustomCard
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /custom-cards/{id} [put]
func (h *CustomCardHandler) UpdateCard(c echo.Context) error {
	input, err := h.bindCard(c)
	if err != nil {
		return respondError(c, err, "card")
	}
	card, err := h.cardService.UpdateCard(c.Request().Context(), middleware.GetUserID(c), c.Param("id"), input)
	if err != nil {
		return respondError(c, err, "card")
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteCard handles DELETE /custom-cards/:id
// @Summary Delete a custom card
// @Tags custom-cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /custom-cards/{id} [delete]
func (h *CustomCardHandler) DeleteCard(c echo.Context) error {
	if err := h.cardService.DeleteCard(c.Request().Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		return respondError(c, err, "card")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Card deleted"})
}

// Evaluate handles GET /custom-cards/evaluate
// @Summary Evaluate my cards and in-hand total
// @Tags custom-cards
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12), requires year"
// @Param year query int false "Year"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.CardEvaluation
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /custom-cards/evaluate [get]
func (h *CustomCardHandler) Evaluate(c echo.Context) error {
	window, err := detectWindow(c, h.reportService.Location())
	if err != nil {
		return respondError(c, err, "card")
	}
	result, err := h.cardService.Evaluate(c.Request().Context(), middleware.GetUserID(c), window)
	if err != nil {
		return respondError(c, err, "card")
	}
	return c.JSON(http.StatusOK, result)
}

// GetInHand handles GET /custom-in-hand
// @Summary Get my in-hand formula
// @Tags custom-cards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.CustomInHand
// @Failure 403 {object} ProblemDetails
// @Router /custom-in-hand [get]
func (h *CustomCardHandler) GetInHand(c echo.Context) error {
	inHand, err := h.cardService.GetInHand(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "in-hand formula")
	}
	return c.JSON(http.StatusOK, inHand)
}

// SaveInHand handles PUT /custom-in-hand
// @Summary Replace my in-hand formula
// @Tags custom-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CustomInHandRequest true "Entries"
// @Success 200 {object} domain.CustomInHand
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /custom-in-hand [put]
func (h *CustomCardHandler) SaveInHand(c echo.Context) error {
	var req CustomInHandRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	inHand, err := h.cardService.SaveInHand(c.Request().Context(), middleware.GetUserID(c), req.Entries)
	if err != nil {
		return respondError(c, err, "in-hand formula")
	}
	return c.JSON(http.StatusOK, inHand)
}
