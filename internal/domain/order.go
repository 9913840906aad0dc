package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPaymentModes are the modes an order may be paid with
var OrderPaymentModes = map[PaymentMode]bool{
	PaymentModeCash:   true,
	PaymentModeOnline: true,
}

// Order is a customer order identified by an external order number
type Order struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"orderId"`
	OrderDate    time.Time       `json:"orderDate"`
	DeliveryDate *time.Time      `json:"deliveryDate,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentMode  PaymentMode     `json:"paymentMode"`
	Remarks      string          `json:"remarks,omitempty"`
	FileURL      string          `json:"fileUrl,omitempty"`
	CreatedBy    string          `json:"createdBy,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Validate checks the order's field-level rules
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return NewFieldError("orderId", "Order ID is required")
	}
	if o.OrderDate.IsZero() {
		return NewFieldError("orderDate", "Order date is required")
	}
	if err := ValidateAmount("amount", o.Amount); err != nil {
		return err
	}
	if !OrderPaymentModes[o.PaymentMode] {
		return NewFieldError("paymentMode", "Payment mode must be one of: Cash, Online")
	}
	if o.DeliveryDate != nil && o.DeliveryDate.Before(o.OrderDate) {
		return NewFieldError("deliveryDate", "Delivery date cannot be before the order date")
	}
	return nil
}

// OrderRepository defines the interface for order persistence operations.
// OrderID uniqueness is enforced by the store and reported as ErrAlreadyExists.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, order *Order) (*Order, error)
	Delete(ctx context.Context, id string) error
	// ListByDateRange returns orders with start <= orderDate < end ordered by orderDate
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Order, error)
}
