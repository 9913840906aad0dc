package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string
type PaymentMode string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
)

const (
	PaymentModeCash     PaymentMode = "Cash"
	PaymentModeOnline   PaymentMode = "Online"
	PaymentModeBlackBox PaymentMode = "BlackBox"
)

// ExpensePaymentModes are the modes an expense may be settled with
var ExpensePaymentModes = map[PaymentMode]bool{
	PaymentModeCash:     true,
	PaymentModeOnline:   true,
	PaymentModeBlackBox: true,
}

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusPending
}

// Expense is a single outgoing payment, paid or still pending
type Expense struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	SubCategory   string          `json:"subCategory,omitempty"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	PaymentMode   *PaymentMode    `json:"paymentMode,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
	FileURL       string          `json:"fileUrl,omitempty"`
	CreatedBy     string          `json:"createdBy,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsPaid reports whether the expense counts toward totals
func (e *Expense) IsPaid() bool {
	return e.PaymentStatus == PaymentStatusPaid
}

// ApplyPaymentRules enforces the payment state machine: a Paid expense must
// carry a valid mode and a Pending expense carries none.
func (e *Expense) ApplyPaymentRules() error {
	if !e.PaymentStatus.Valid() {
		return NewFieldError("paymentStatus", "Payment status must be one of: Paid, Pending")
	}
	if e.PaymentStatus == PaymentStatusPending {
		e.PaymentMode = nil
		return nil
	}
	if e.PaymentMode == nil || *e.PaymentMode == "" {
		return NewFieldError("paymentMode", "Payment mode is required when the expense is paid")
	}
	if !ExpensePaymentModes[*e.PaymentMode] {
		return NewFieldError("paymentMode", "Payment mode must be one of: Cash, Online, BlackBox")
	}
	return nil
}

// ExpenseRepository defines the interface for expense persistence operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetByID(ctx context.Context, id string) (*Expense, error)
	Update(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, id string) error
	// ListByDateRange returns expenses with start <= date < end ordered by date
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Expense, error)
}
