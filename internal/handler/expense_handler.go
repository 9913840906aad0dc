package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/export"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// ExpenseHandler handles expense records and expense reports
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	reportService  *service.ReportService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, reportService *service.ReportService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		reportService:  reportService,
	}
}

// ExpenseRequest documents the expense fields, sent as JSON or multipart form with an optional file
type ExpenseRequest struct {
	Category      string `json:"category" validate:"required"`
	SubCategory   string `json:"subCategory"`
	Date          string `json:"date" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=Paid Pending"`
	PaymentMode   string `json:"paymentMode"`
	Remarks       string `json:"remarks"`
}

func paymentModePtr(value string) *domain.PaymentMode {
	if value == "" {
		return nil
	}
	mode := domain.PaymentMode(value)
	return &mode
}

// AddExpense handles POST /expense/add-expense
// @Summary Add an expense
// @Tags expense
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense; attach a file in the multipart field 'file'"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /expense/add-expense [post]
func (h *ExpenseHandler) AddExpense(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "expense")
	}

	req := ExpenseRequest{
		Category:      fields.str("category"),
		SubCategory:   fields.str("subCategory"),
		Date:          fields.str("date"),
		Amount:        fields.str("amount"),
		PaymentStatus: fields.str("paymentStatus"),
		PaymentMode:   fields.str("paymentMode"),
		Remarks:       fields.str("remarks"),
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "expense")
	}

	loc := h.reportService.Location()
	date, err := fields.optDate("date", loc)
	if err != nil {
		return respondError(c, err, "expense")
	}
	amount, err := fields.decimalOrZero("amount")
	if err != nil {
		return respondError(c, err, "expense")
	}
	file, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, err, "expense")
	}

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), service.CreateExpenseInput{
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		Date:          *date,
		Amount:        amount,
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
		PaymentMode:   paymentModePtr(req.PaymentMode),
		Remarks:       req.Remarks,
		File:          file,
		CreatedBy:     middleware.GetUserID(c),
	})
	if err != nil {
		return respondError(c, err, "expense")
	}
	return c.JSON(http.StatusCreated, expense)
}

// GetExpense handles GET /expense/:id
// @Summary Get an expense
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} ProblemDetails
// @Router /expense/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	expense, err := h.expenseService.GetExpense(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "expense")
	}
	return c.JSON(http.StatusOK, expense)
}

// UpdateExpense handles PUT /expense/update-expense/:id; omitted fields keep their value
// @Summary Update an expense
// @Tags expense
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expense/update-expense/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "expense")
	}

	input := service.UpdateExpenseInput{
		Category:    fields.optString("category"),
		SubCategory: fields.optString("subCategory"),
		Remarks:     fields.optString("remarks"),
		PaymentMode: paymentModePtr(fields.str("paymentMode")),
	}
	if status := fields.str("paymentStatus"); status != "" {
		ps := domain.PaymentStatus(status)
		input.PaymentStatus = &ps
	}
	if input.Date, err = fields.optDate("date", h.reportService.Location()); err != nil {
		return respondError(c, err, "expense")
	}
	if input.Amount, err = fields.optDecimal("amount"); err != nil {
		return respondError(c, err, "expense")
	}
	if input.File, err = readUpload(c, "file"); err != nil {
		return respondError(c, err, "expense")
	}

	expense, err := h.expenseService.UpdateExpense(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return respondError(c, err, "expense")
	}
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense handles DELETE /expense/delete-expense/:id
// @Summary Delete an expense
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expense/delete-expense/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	if err := h.expenseService.DeleteExpense(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "expense")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted"})
}

// Summary returns the category summary handler for a window mode:
// GET /expense/monthly-expense, /expense/yearly-expense and /expense/date-range-expense
// @Summary Expense summary
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.ExpenseSummary
// @Failure 400 {object} ProblemDetails
// @Router /expense/monthly-expense [get]
func (h *ExpenseHandler) Summary(mode domain.WindowMode) echo.HandlerFunc {
	return func(c echo.Context) error {
		window, err := windowFromQuery(c, mode, h.reportService.Location())
		if err != nil {
			return respondError(c, err, "expense")
		}
		summary, err := h.reportService.ExpenseSummary(c.Request().Context(), window)
		if err != nil {
			return respondError(c, err, "expense")
		}
		return c.JSON(http.StatusOK, summary)
	}
}

// List returns the raw listing handler for a window mode:
// GET /expense/monthly-expense-list, /expense/yearly-expense-list and /expense/date-range-expense-list
// @Summary Expense listing
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ExpenseListing
// @Failure 400 {object} ProblemDetails
// @Router /expense/monthly-expense-list [get]
func (h *ExpenseHandler) List(mode domain.WindowMode) echo.HandlerFunc {
	return func(c echo.Context) error {
		window, err := windowFromQuery(c, mode, h.reportService.Location())
		if err != nil {
			return respondError(c, err, "expense")
		}
		listing, err := h.reportService.ExpenseListing(c.Request().Context(), window)
		if err != nil {
			return respondError(c, err, "expense")
		}
		return c.JSON(http.StatusOK, listing)
	}
}

// DailyExpenses handles GET /expense/daily-expense
// @Summary Daily paid expenses of a month
// @Tags expense
// @Produce json
// @Security BearerAuth
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} domain.DailyExpenses
// @Failure 400 {object} ProblemDetails
// @Router /expense/daily-expense [get]
func (h *ExpenseHandler) DailyExpenses(c echo.Context) error {
	window, err := windowFromQuery(c, domain.WindowMonth, h.reportService.Location())
	if err != nil {
		return respondError(c, err, "expense")
	}
	daily, err := h.reportService.DailyExpenses(c.Request().Context(), window)
	if err != nil {
		return respondError(c, err, "expense")
	}
	return c.JSON(http.StatusOK, daily)
}

// Export handles GET /expense/export
// @Summary Export expenses as XLSX
// @Tags expense
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Router /expense/export [get]
func (h *ExpenseHandler) Export(c echo.Context) error {
	loc := h.reportService.Location()
	window, err := detectWindow(c, loc)
	if err != nil {
		return respondError(c, err, "expense")
	}

	ctx := c.Request().Context()
	summary, err := h.reportService.ExpenseSummary(ctx, window)
	if err != nil {
		return respondError(c, err, "expense")
	}
	listing, err := h.reportService.ExpenseListing(ctx, window)
	if err != nil {
		return respondError(c, err, "expense")
	}

	f, err := export.Expenses(summary, listing, loc)
	if err != nil {
		return respondError(c, err, "expense")
	}
	return writeWorkbook(c, f, export.Filename("expense", window, loc))
}
