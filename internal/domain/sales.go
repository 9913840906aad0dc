package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Sales is the cash sheet for one trading day
type Sales struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	OpeningCash     decimal.Decimal `json:"openingCash"`
	PurchaseCash    decimal.Decimal `json:"purchaseCash"`
	OnlineCash      decimal.Decimal `json:"onlineCash"`
	PhysicalCash    decimal.Decimal `json:"physicalCash"`
	CashTransferred decimal.Decimal `json:"cashTransferred"`
	ClosingCash     decimal.Decimal `json:"closingCash"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	Remarks         string          `json:"remarks,omitempty"`
	FileURL         string          `json:"fileUrl,omitempty"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ComputeTotal derives TotalSales from the takings of the day
func (s *Sales) ComputeTotal() {
	s.TotalSales = s.OnlineCash.Add(s.PhysicalCash)
}

// ValidateAmounts checks every cash column and the derived total against ValidateAmount
func (s *Sales) ValidateAmounts() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"openingCash", s.OpeningCash},
		{"purchaseCash", s.PurchaseCash},
		{"onlineCash", s.OnlineCash},
		{"physicalCash", s.PhysicalCash},
		{"cashTransferred", s.CashTransferred},
		{"closingCash", s.ClosingCash},
		{"totalSales", s.TotalSales},
	}
	for _, f := range fields {
		if err := ValidateAmount(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// SalesRepository defines the interface for sales persistence operations
type SalesRepository interface {
	Create(ctx context.Context, sales *Sales) (*Sales, error)
	GetByID(ctx context.Context, id string) (*Sales, error)
	Update(ctx context.Context, sales *Sales) (*Sales, error)
	Delete(ctx context.Context, id string) error
	// ListByDateRange returns records with start <= date < end ordered by date
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Sales, error)
}
