package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	reportService *service.ReportService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reportService *service.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// GetSummary handles GET /dashboard/summary
// @Summary Dashboard headline figures
// @Description Sales, orders, expenses, loans & interests and net for a month, year or date range
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12), requires year"
// @Param year query int false "Year"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.DashboardSummary
// @Failure 400 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	window, err := detectWindow(c, h.reportService.Location())
	if err != nil {
		return respondError(c, err, "dashboard")
	}

	summary, err := h.reportService.DashboardSummary(c.Request().Context(), window)
	if err != nil {
		return respondError(c, err, "dashboard")
	}
	return c.JSON(http.StatusOK, summary)
}
