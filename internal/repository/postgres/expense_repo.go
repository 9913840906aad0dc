package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const expenseColumns = `id::text, category, sub_category, date, amount::text, payment_status, payment_mode,
	remarks, file_url, created_by, created_at, updated_at`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		e      domain.Expense
		amount string
		status string
		mode   *string
	)
	if err := row.Scan(&e.ID, &e.Category, &e.SubCategory, &e.Date, &amount, &status, &mode,
		&e.Remarks, &e.FileURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	d, err := parseNumeric(amount)
	if err != nil {
		return nil, err
	}
	e.Amount = d
	e.PaymentStatus = domain.PaymentStatus(status)
	if mode != nil {
		m := domain.PaymentMode(*mode)
		e.PaymentMode = &m
	}
	return &e, nil
}

func paymentModeParam(mode *domain.PaymentMode) *string {
	if mode == nil {
		return nil
	}
	s := string(*mode)
	return &s
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx, `
		INSERT INTO expenses (category, sub_category, date, amount, payment_status, payment_mode, remarks, file_url, created_by)
		VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8, $9)
		RETURNING `+expenseColumns,
		expense.Category, expense.SubCategory, expense.Date, expense.Amount.String(),
		string(expense.PaymentStatus), paymentModeParam(expense.PaymentMode),
		expense.Remarks, expense.FileURL, expense.CreatedBy,
	))
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, uid))
}

// Update stores every editable column of an expense
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	uid, err := parseID(expense.ID)
	if err != nil {
		return nil, err
	}
	return scanExpense(r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET category = $2, sub_category = $3, date = $4, amount = $5::text::numeric,
			payment_status = $6, payment_mode = $7, remarks = $8, file_url = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING `+expenseColumns,
		uid, expense.Category, expense.SubCategory, expense.Date, expense.Amount.String(),
		string(expense.PaymentStatus), paymentModeParam(expense.PaymentMode),
		expense.Remarks, expense.FileURL,
	))
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `DELETE FROM expenses WHERE id = $1`, uid)
}

// ListByDateRange returns expenses with start <= date < end ordered by date
func (r *ExpenseRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE date >= $1 AND date < $2 ORDER BY date, created_at`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
