package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/export"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/middleware"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
)

// OrderHandler handles customer orders and order reports
type OrderHandler struct {
	orderService  *service.OrderService
	reportService *service.ReportService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService, reportService *service.ReportService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		reportService: reportService,
	}
}

// OrderRequest documents the order fields, sent as JSON or multipart form with an optional file
type OrderRequest struct {
	OrderID      string `json:"orderId" validate:"required"`
	OrderDate    string `json:"orderDate" validate:"required"`
	DeliveryDate string `json:"deliveryDate"`
	Amount       string `json:"amount" validate:"required"`
	PaymentMode  string `json:"paymentMode" validate:"required,oneof=Cash Online"`
	Remarks      string `json:"remarks"`
}

// AddOrder handles POST /order/add-order
// @Summary Add an order
// @Tags order
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body OrderRequest true "Order; attach a file in the multipart field 'file'"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ProblemDetails
// @Router /order/add-order [post]
func (h *OrderHandler) AddOrder(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "order")
	}

	req := OrderRequest{
		OrderID:      fields.str("orderId"),
		OrderDate:    fields.str("orderDate"),
		DeliveryDate: fields.str("deliveryDate"),
		Amount:       fields.str("amount"),
		PaymentMode:  fields.str("paymentMode"),
		Remarks:      fields.str("remarks"),
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err, "order")
	}

	loc := h.reportService.Location()
	orderDate, err := fields.optDate("orderDate", loc)
	if err != nil {
		return respondError(c, err, "order")
	}
	deliveryDate, err := fields.optDate("deliveryDate", loc)
	if err != nil {
		return respondError(c, err, "order")
	}
	amount, err := fields.decimalOrZero("amount")
	if err != nil {
		return respondError(c, err, "order")
	}
	file, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, err, "order")
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), service.CreateOrderInput{
		OrderID:      req.OrderID,
		OrderDate:    *orderDate,
		DeliveryDate: deliveryDate,
		Amount:       amount,
		PaymentMode:  domain.PaymentMode(req.PaymentMode),
		Remarks:      req.Remarks,
		File:         file,
		CreatedBy:    middleware.GetUserID(c),
	})
	if err != nil {
		return respondError(c, err, "order")
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /order/:id
// @Summary Get an order
// @Tags order
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order record ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ProblemDetails
// @Router /order/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.orderService.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PUT /order/update-order/:id; omitted fields keep their value
// and an empty or null deliveryDate clears it
// @Summary Update an order
// @Tags order
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order record ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /order/update-order/{id} [put]
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	fields, err := readFieldSet(c)
	if err != nil {
		return respondError(c, err, "order")
	}

	loc := h.reportService.Location()
	input := service.UpdateOrderInput{
		Remarks: fields.optString("remarks"),
	}
	if id := fields.str("orderId"); id != "" {
		input.OrderID = &id
	}
	if mode := fields.str("paymentMode"); mode != "" {
		pm := domain.PaymentMode(mode)
		input.PaymentMode = &pm
	}
	if input.OrderDate, err = fields.optDate("orderDate", loc); err != nil {
		return respondError(c, err, "order")
	}
	if fields.has("deliveryDate") && fields.str("deliveryDate") == "" {
		input.ClearDeliveryDate = true
	} else if input.DeliveryDate, err = fields.optDate("deliveryDate", loc); err != nil {
		return respondError(c, err, "order")
	}
	if input.Amount, err = fields.optDecimal("amount"); err != nil {
		return respondError(c, err, "order")
	}
	if input.File, err = readUpload(c, "file"); err != nil {
		return respondError(c, err, "order")
	}

	order, err := h.orderService.UpdateOrder(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return respondError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /order/delete-order/:id
// @Summary Delete an order
// @Tags order
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order record ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ProblemDetails
// @Router /order/delete-order/{id} [delete]
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	if err := h.orderService.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "order")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Order deleted"})
}

// Summary returns the payment-mode summary handler for a window mode:
// GET /order/monthly-order, /order/yearly-order and /order/date-range-order
// @Summary Order summary
// @Tags order
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.OrderSummary
// @Failure 400 {object} ProblemDetails
// @Router /order/monthly-order [get]
func (h *OrderHandler) Summary(mode domain.WindowMode) echo.HandlerFunc {
	return func(c echo.Context) error {
		window, err := windowFromQuery(c, mode, h.reportService.Location())
		if err != nil {
			return respondError(c, err, "order")
		}
		summary, err := h.reportService.OrderSummary(c.Request().Context(), window)
		if err != nil {
			return respondError(c, err, "order")
		}
		return c.JSON(http.StatusOK, summary)
	}
}

// List returns the raw listing handler for a window mode:
// GET /order/monthly-order-list, /order/yearly-order-list and /order/date-range-order-list
// @Summary Order listing
// @Tags order
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.OrderListing
// @Router /order/monthly-order-list [get]
func (h *OrderHandler) List(mode domain.WindowMode) echo.HandlerFunc {
	return func(c echo.Context) error {
		window, err := windowFromQuery(c, mode, h.reportService.Location())
		if err != nil {
			return respondError(c, err, "order")
		}
		listing, err := h.reportService.OrderListing(c.Request().Context(), window)
		if err != nil {
			return respondError(c, err, "order")
		}
		return c.JSON(http.StatusOK, listing)
	}
}

// Export handles GET /order/export
// @Summary Export orders as XLSX
// @Tags order
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Router /order/export [get]
func (h *OrderHandler) Export(c echo.Context) error {
	loc := h.reportService.Location()
	window, err := detectWindow(c, loc)
	if err != nil {
		return respondError(c, err, "order")
	}

	ctx := c.Request().Context()
	summary, err := h.reportService.OrderSummary(ctx, window)
	if err != nil {
		return respondError(c, err, "order")
	}
	listing, err := h.reportService.OrderListing(ctx, window)
	if err != nil {
		return respondError(c, err, "order")
	}

	f, err := export.Orders(summary, listing, loc)
	if err != nil {
		return respondError(c, err, "order")
	}
	return writeWorkbook(c, f, export.Filename("order", window, loc))
}
