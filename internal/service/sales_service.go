package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// SalesService handles daily sales sheets and their attachments
type SalesService struct {
	eventSource
	salesRepo   domain.SalesRepository
	attachments *AttachmentService
}

// NewSalesService creates a new SalesService
func NewSalesService(salesRepo domain.SalesRepository, attachments *AttachmentService) *SalesService {
	return &SalesService{
		salesRepo:   salesRepo,
		attachments: attachments,
	}
}

// CreateSalesInput holds the input for creating a sales record
type CreateSalesInput struct {
	Date            time.Time
	OpeningCash     decimal.Decimal
	PurchaseCash    decimal.Decimal
	OnlineCash      decimal.Decimal
	PhysicalCash    decimal.Decimal
	CashTransferred decimal.Decimal
	ClosingCash     decimal.Decimal
	Remarks         string
	File            *FileUpload
	CreatedBy       string
}

// UpdateSalesInput holds a partial sales update; nil fields are left unchanged
type UpdateSalesInput struct {
	Date            *time.Time
	OpeningCash     *decimal.Decimal
	PurchaseCash    *decimal.Decimal
	OnlineCash      *decimal.Decimal
	PhysicalCash    *decimal.Decimal
	CashTransferred *decimal.Decimal
	ClosingCash     *decimal.Decimal
	Remarks         *string
	File            *FileUpload
}

func validateSales(sales *domain.Sales) error {
	if sales.Date.IsZero() {
		return domain.NewFieldError("date", "Date is required")
	}
	if err := sales.ValidateAmounts(); err != nil {
		return err
	}
	return validateRemarks(sales.Remarks)
}

// CreateSales stores a sales record, deriving its total from the takings
func (s *SalesService) CreateSales(ctx context.Context, input CreateSalesInput) (*domain.Sales, error) {
	fileURL, err := s.attachments.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}

	sales := &domain.Sales{
		Date:            input.Date,
		OpeningCash:     input.OpeningCash,
		PurchaseCash:    input.PurchaseCash,
		OnlineCash:      input.OnlineCash,
		PhysicalCash:    input.PhysicalCash,
		CashTransferred: input.CashTransferred,
		ClosingCash:     input.ClosingCash,
		Remarks:         input.Remarks,
		FileURL:         fileURL,
		CreatedBy:       input.CreatedBy,
	}
	sales.ComputeTotal()

	var created *domain.Sales
	if err = validateSales(sales); err == nil {
		created, err = s.salesRepo.Create(ctx, sales)
	}
	if err != nil {
		s.attachments.Discard(ctx, fileURL)
		return nil, err
	}

	log.Info().Str("sales_id", created.ID).Str("total", created.TotalSales.String()).Msg("Sales created")
	s.publishEvent(domain.RoleAccountant, websocket.Created(websocket.EntityTypeSales, created))
	return created, nil
}

// GetSales returns a sales record by ID
func (s *SalesService) GetSales(ctx context.Context, id string) (*domain.Sales, error) {
	return s.salesRepo.GetByID(ctx, id)
}

// UpdateSales applies a partial update and recomputes the total
func (s *SalesService) UpdateSales(ctx context.Context, id string, input UpdateSalesInput) (*domain.Sales, error) {
	sales, err := s.salesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		sales.Date = *input.Date
	}
	setDecimal(&sales.OpeningCash, input.OpeningCash)
	setDecimal(&sales.PurchaseCash, input.PurchaseCash)
	setDecimal(&sales.OnlineCash, input.OnlineCash)
	setDecimal(&sales.PhysicalCash, input.PhysicalCash)
	setDecimal(&sales.CashTransferred, input.CashTransferred)
	setDecimal(&sales.ClosingCash, input.ClosingCash)
	if input.Remarks != nil {
		sales.Remarks = *input.Remarks
	}
	sales.ComputeTotal()

	if err := validateSales(sales); err != nil {
		return nil, err
	}

	oldFile := sales.FileURL
	newFile, err := s.attachments.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}
	if newFile != "" {
		sales.FileURL = newFile
	}

	updated, err := s.salesRepo.Update(ctx, sales)
	if err != nil {
		s.attachments.Discard(ctx, newFile)
		return nil, err
	}
	if newFile != "" {
		s.attachments.Discard(ctx, oldFile)
	}

	log.Info().Str("sales_id", updated.ID).Msg("Sales updated")
	s.publishEvent(domain.RoleAccountant, websocket.Updated(websocket.EntityTypeSales, updated))
	return updated, nil
}

// DeleteSales removes a sales record and then its attachment
func (s *SalesService) DeleteSales(ctx context.Context, id string) error {
	sales, err := s.salesRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.salesRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.attachments.Discard(ctx, sales.FileURL)

	log.Info().Str("sales_id", id).Msg("Sales deleted")
	s.publishEvent(domain.RoleAccountant, websocket.Deleted(websocket.EntityTypeSales, id))
	return nil
}

func setDecimal(dst *decimal.Decimal, value *decimal.Decimal) {
	if value != nil {
		*dst = *value
	}
}
