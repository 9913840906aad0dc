package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// OrderService handles customer orders and their attachments
type OrderService struct {
	eventSource
	orderRepo   domain.OrderRepository
	attachments *AttachmentService
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo domain.OrderRepository, attachments *AttachmentService) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		attachments: attachments,
	}
}

// CreateOrderInput holds the input for creating an order
type CreateOrderInput struct {
	OrderID      string
	OrderDate    time.Time
	DeliveryDate *time.Time
	Amount       decimal.Decimal
	PaymentMode  domain.PaymentMode
	Remarks      string
	File         *FileUpload
	CreatedBy    string
}

// UpdateOrderInput holds a partial order update; nil fields are left unchanged.
// ClearDeliveryDate removes a previously set delivery date.
type UpdateOrderInput struct {
	OrderID           *string
	OrderDate         *time.Time
	DeliveryDate      *time.Time
	ClearDeliveryDate bool
	Amount            *decimal.Decimal
	PaymentMode       *domain.PaymentMode
	Remarks           *string
	File              *FileUpload
}

func validateOrder(order *domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	return validateRemarks(order.Remarks)
}

func duplicateOrderID(err error) error {
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.NewFieldError("orderId", "Order ID already exists")
	}
	return err
}

// CreateOrder stores a new order
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	fileURL, err := s.attachments.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderID:      strings.TrimSpace(input.OrderID),
		OrderDate:    input.OrderDate,
		DeliveryDate: input.DeliveryDate,
		Amount:       input.Amount,
		PaymentMode:  input.PaymentMode,
		Remarks:      input.Remarks,
		FileURL:      fileURL,
		CreatedBy:    input.CreatedBy,
	}

	var created *domain.Order
	if err = validateOrder(order); err == nil {
		created, err = s.orderRepo.Create(ctx, order)
	}
	if err != nil {
		s.attachments.Discard(ctx, fileURL)
		return nil, duplicateOrderID(err)
	}

	log.Info().Str("order_id", created.OrderID).Str("amount", created.Amount.String()).Msg("Order created")
	s.publishEvent(domain.RoleAccountant, websocket.Created(websocket.EntityTypeOrder, created))
	return created, nil
}

// GetOrder returns an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateOrder applies a partial update to an order
func (s *OrderService) UpdateOrder(ctx context.Context, id string, input UpdateOrderInput) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.OrderID != nil {
		order.OrderID = strings.TrimSpace(*input.OrderID)
	}
	if input.OrderDate != nil {
		order.OrderDate = *input.OrderDate
	}
	if input.ClearDeliveryDate {
		order.DeliveryDate = nil
	} else if input.DeliveryDate != nil {
		order.DeliveryDate = input.DeliveryDate
	}
	if input.Amount != nil {
		order.Amount = *input.Amount
	}
	if input.PaymentMode != nil {
		order.PaymentMode = *input.PaymentMode
	}
	if input.Remarks != nil {
		order.Remarks = *input.Remarks
	}

	if err := validateOrder(order); err != nil {
		return nil, err
	}

	oldFile := order.FileURL
	newFile, err := s.attachments.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}
	if newFile != "" {
		order.FileURL = newFile
	}

	updated, err := s.orderRepo.Update(ctx, order)
	if err != nil {
		s.attachments.Discard(ctx, newFile)
		return nil, duplicateOrderID(err)
	}
	if newFile != "" {
		s.attachments.Discard(ctx, oldFile)
	}

	log.Info().Str("order_id", updated.OrderID).Msg("Order updated")
	s.publishEvent(domain.RoleAccountant, websocket.Updated(websocket.EntityTypeOrder, updated))
	return updated, nil
}

// DeleteOrder removes an order and then its attachment
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.attachments.Discard(ctx, order.FileURL)

	log.Info().Str("order_id", order.OrderID).Msg("Order deleted")
	s.publishEvent(domain.RoleAccountant, websocket.Deleted(websocket.EntityTypeOrder, id))
	return nil
}
