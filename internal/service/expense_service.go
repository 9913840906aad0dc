package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/websocket"
)

// ExpenseService handles expense records and their attachments
type ExpenseService struct {
	eventSource
	expenseRepo domain.ExpenseRepository
	categories  *CategoryService
	attachments *AttachmentService
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categories *CategoryService, attachments *AttachmentService) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		categories:  categories,
		attachments: attachments,
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Category      string
	SubCategory   string
	Date          time.Time
	Amount        decimal.Decimal
	PaymentStatus domain.PaymentStatus
	PaymentMode   *domain.PaymentMode
	Remarks       string
	File          *FileUpload
	CreatedBy     string
}

// UpdateExpenseInput holds a partial expense update; nil fields are left unchanged
type UpdateExpenseInput struct {
	Category      *string
	SubCategory   *string
	Date          *time.Time
	Amount        *decimal.Decimal
	PaymentStatus *domain.PaymentStatus
	PaymentMode   *domain.PaymentMode
	Remarks       *string
	File          *FileUpload
}

func validateRemarks(remarks string) error {
	if len(remarks) > domain.MaxRemarksLength {
		return domain.NewFieldError("remarks", fmt.Sprintf("Remarks must be at most %d characters", domain.MaxRemarksLength))
	}
	return nil
}

func validateExpenseFields(expense *domain.Expense) error {
	if expense.Date.IsZero() {
		return domain.NewFieldError("date", "Date is required")
	}
	if err := domain.ValidateAmount("amount", expense.Amount); err != nil {
		return err
	}
	if err := validateRemarks(expense.Remarks); err != nil {
		return err
	}
	return expense.ApplyPaymentRules()
}

// CreateExpense stages the attachment, validates the expense and stores it.
// The staged file is removed when anything after staging fails.
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	fileURL, err := s.attachments.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		Category:      input.Category,
		SubCategory:   input.SubCategory,
		Date:          input.Date,
		Amount:        input.Amount,
		PaymentStatus: input.PaymentStatus,
		PaymentMode:   input.PaymentMode,
		Remarks:       input.Remarks,
		FileURL:       fileURL,
		CreatedBy:     input.CreatedBy,
	}

	created, err := s.create(ctx, expense)
	if err != nil {
		s.attachments.Discard(ctx, fileURL)
		return nil, err
	}

	log.Info().Str("expense_id", created.ID).Str("category", created.Category).Str("amount", created.Amount.String()).Msg("Expense created")
	s.publishEvent(domain.RoleAccountant, websocket.Created(websocket.EntityTypeExpense, created))
	return created, nil
}

func (s *ExpenseService) create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if err := validateExpenseFields(expense); err != nil {
		return nil, err
	}
	if err := s.categories.ValidateExpenseCategory(ctx, expense.Category, expense.SubCategory); err != nil {
		return nil, err
	}
	return s.expenseRepo.Create(ctx, expense)
}

// GetExpense returns an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// UpdateExpense applies a partial update. Category membership is re-checked only
// when the update touches category or subCategory, so expenses whose category was
// deleted stay editable. A new attachment replaces the old one after the update succeeds.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, input UpdateExpenseInput) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		expense.Category = *input.Category
		// Moving to another category drops a subcategory that is not restated
		if input.SubCategory == nil {
			expense.SubCategory = ""
		}
	}
	if input.SubCategory != nil {
		expense.SubCategory = *input.SubCategory
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.PaymentStatus != nil {
		expense.PaymentStatus = *input.PaymentStatus
	}
	if input.PaymentMode != nil {
		expense.PaymentMode = input.PaymentMode
	}
	if input.Remarks != nil {
		expense.Remarks = *input.Remarks
	}

	if err := validateExpenseFields(expense); err != nil {
		return nil, err
	}
	if input.Category != nil || input.SubCategory != nil {
		if err := s.categories.ValidateExpenseCategory(ctx, expense.Category, expense.SubCategory); err != nil {
			return nil, err
		}
	}

	oldFile := expense.FileURL
	newFile, err := s.attachments.Stage(ctx, input.File)
	if err != nil {
		return nil, err
	}
	if newFile != "" {
		expense.FileURL = newFile
	}

	updated, err := s.expenseRepo.Update(ctx, expense)
	if err != nil {
		s.attachments.Discard(ctx, newFile)
		return nil, err
	}
	if newFile != "" {
		s.attachments.Discard(ctx, oldFile)
	}

	log.Info().Str("expense_id", updated.ID).Msg("Expense updated")
	s.publishEvent(domain.RoleAccountant, websocket.Updated(websocket.EntityTypeExpense, updated))
	return updated, nil
}

// DeleteExpense removes an expense and then its attachment
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.attachments.Discard(ctx, expense.FileURL)

	log.Info().Str("expense_id", id).Msg("Expense deleted")
	s.publishEvent(domain.RoleAccountant, websocket.Deleted(websocket.EntityTypeExpense, id))
	return nil
}
