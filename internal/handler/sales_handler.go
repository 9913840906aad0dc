package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/export"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// SalesHandler handles daily sales sheets and sales reports
type SalesHandler struct {
	salesService  *service.SalesService
	reportService *service.ReportService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(salesService *service.SalesService, reportService *service.ReportService) *SalesHandler {
	return &SalesHandler{
		salesService:  salesService,
		reportService: reportService,
	}
}

// SalesRequest documents the sales sheet fields; totalSales is derived and ignored on input
type SalesRequest struct {
	Date            string `json:"date" validate:"required"`
	OpeningCash     string `json:"openingCash"`
	PurchaseCash    string `json:"purchaseCash"`
	OnlineCash      string `json:"onlineCash"`
	PhysicalCash    string `json:"physicalCash"`
	CashTransferred string `json:"cashTransferred"`
	ClosingCash     string `json:"closingCash"`
	Remarks         string `json:"remarks"`
}

// salesAmountFields lists the cash columns in wire form
var salesAmountFields = []string{"openingCash", "purchaseCash", "onlineCash", "physicalCash", "cashTransferred", "closingCash"}

// AddSales handles POST /sales/add-sales
// @Summary Add a sales sheet
// @Tags sales
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body SalesRequest true "Sales sheet; attach a file in the multipart field 'file'"
// @Success 201 {object} domain.Sales
// @Failure 400 {object} ProblemDetails
// @Router /sales/add-sales [post]
func (h *SalesHandler) AddSales(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "sales")
	}

	req := SalesRequest{Date: fields.str("date"), Remarks: fields.str("remarks")}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "sales")
	}

	date, err := fields.optDate("date", h.reportService.Location())
	if err != nil {
		return respondError(c, err, "sales")
	}

	amounts := make(map[string]decimal.Decimal, len(salesAmountFields))
	for _, name := range salesAmountFields {
		if amounts[name], err = fields.decimalOrZero(name); err != nil {
			return respondError(c, err, "sales")
		}
	}

	file, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, err, "sales")
	}

	sales, err := h.salesService.CreateSales(c.Request().Context(), service.CreateSalesInput{
		Date:            *date,
		OpeningCash:     amounts["openingCash"],
		PurchaseCash:    amounts["purchaseCash"],
		OnlineCash:      amounts["onlineCash"],
		PhysicalCash:    amounts["physicalCash"],
		CashTransferred: amounts["cashTransferred"],
		ClosingCash:     amounts["closingCash"],
		Remarks:         req.Remarks,
		File:            file,
		CreatedBy:       middleware.GetUserID(c),
	})
	if err != nil {
		return respondError(c, err, "sales")
	}
	return c.JSON(http.StatusCreated, sales)
}

// GetSales handles GET /sales/:id
// @Summary Get a sales sheet
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sales ID"
// @Success 200 {object} domain.Sales
// @Failure 404 {object} ProblemDetails
// @Router /sales/{id} [get]
func (h *SalesHandler) GetSales(c echo.Context) error {
	sales, err := h.salesService.GetSales(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "sales")
	}
	return c.JSON(http.StatusOK, sales)
}

// UpdateSales handles PUT /sales/update-sales/:id; omitted fields keep their value
// @Summary Update a sales sheet
// @Tags sales
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sales ID"
// @Success 200 {object} domain.Sales
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /sales/update-sales/{id} [put]
func (h *SalesHandler) UpdateSales(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "sales")
	}

	input := service.UpdateSalesInput{Remarks: fields.optString("remarks")}
	if input.Date, err = fields.optDate("date", h.reportService.Location()); err != nil {
		return respondError(c, err, "sales")
	}

	targets := map[string]**decimal.Decimal{
		"openingCash":     &input.OpeningCash,
		"purchaseCash":    &input.PurchaseCash,
		"onlineCash":      &input.OnlineCash,
		"physicalCash":    &input.PhysicalCash,
		"cashTransferred": &input.CashTransferred,
		"closingCash":     &input.ClosingCash,
	}
	for _, name := range salesAmountFields {
		if *targets[name], err = fields.optDecimal(name); err != nil {
			return respondError(c, err, "sales")
		}
	}

	if input.File, err = readUpload(c, "file"); err != nil {
		return respondError(c, err, "sales")
	}

	sales, err := h.salesService.UpdateSales(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return respondError(c, err, "sales")
	}
	return c.JSON(http.StatusOK, sales)
}

// DeleteSales handles DELETE /sales/delete-sales/:id
// @Summary Delete a sales sheet
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sales ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ProblemDetails
// @Router /sales/delete-sales/{id} [delete]
func (h *SalesHandler) DeleteSales(c echo.Context) error {
	if err := h.salesService.DeleteSales(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "sales")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Sales deleted"})
}

// Summary returns the channel summary handler for a window mode:
// GET /sales/monthly-sales, /sales/yearly-sales and /sales/date-range-sales
// @Summary Sales summary
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SalesSummary
// @Failure 400 {object} ProblemDetails
// @Router /sales/monthly-sales [get]
func (h *SalesHandler) Summary(mode domain.WindowMode) echo.HandlerFunc {
	return func(c echo.Context) error {
		window, err := windowFromQuery(c, mode, h.reportService.Location())
		if err != nil {
			return respondError(c, err, "sales")
		}
		summary, err := h.reportService.SalesSummary(c.Request().Context(), window)
		if err != nil {
			return respondError(c, err, "sales")
		}
		return c.JSON(http.StatusOK, summary)
	}
}

// List returns the raw listing handler for a window mode:
// GET /sales/monthly-sales-list, /sales/yearly-sales-list and /sales/date-range-sales-list
// @Summary Sales listing
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SalesListing
// @Router /sales/monthly-sales-list [get]
func (h *SalesHandler) List(mode domain.WindowMode) echo.HandlerFunc {
	return func(c echo.Context) error {
		window, err := windowFromQuery(c, mode, h.reportService.Location())
		if err != nil {
			return respondError(c, err, "sales")
		}
		listing, err := h.reportService.SalesListing(c.Request().Context(), window)
		if err != nil {
			return respondError(c, err, "sales")
		}
		return c.JSON(http.StatusOK, listing)
	}
}

// DailySales handles GET /sales/daily-sales
// @Summary Daily sales and order takings of a month
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} domain.DailySales
// @Failure 400 {object} ProblemDetails
// @Router /sales/daily-sales [get]
func (h *SalesHandler) DailySales(c echo.Context) error {
	window, err := windowFromQuery(c, domain.WindowMonth, h.reportService.Location())
	if err != nil {
		return respondError(c, err, "sales")
	}
	daily, err := h.reportService.DailySales(c.Request().Context(), window)
	if err != nil {
		return respondError(c, err, "sales")
	}
	return c.JSON(http.StatusOK, daily)
}

// Export handles GET /sales/export
// @Summary Export sales as XLSX
// @Tags sales
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Router /sales/export [get]
func (h *SalesHandler) Export(c echo.Context) error {
	loc := h.reportService.Location()
	window, err := detectWindow(c, loc)
	if err != nil {
		return respondError(c, err, "sales")
	}

	ctx := c.Request().Context()
	summary, err := h.reportService.SalesSummary(ctx, window)
	if err != nil {
		return respondError(c, err, "sales")
	}
	listing, err := h.reportService.SalesListing(ctx, window)
	if err != nil {
		return respondError(c, err, "sales")
	}

	f, err := export.Sales(summary, listing, loc)
	if err != nil {
		return respondError(c, err, "sales")
	}
	return writeWorkbook(c, f, export.Filename("sales", window, loc))
}
