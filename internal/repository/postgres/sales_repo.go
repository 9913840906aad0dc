package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const salesColumns = `id::text, date, opening_cash::text, purchase_cash::text, online_cash::text, physical_cash::text,
	cash_transferred::text, closing_cash::text, total_sales::text, remarks, file_url, created_by, created_at, updated_at`

// SalesRepository implements domain.SalesRepository using PostgreSQL
type SalesRepository struct {
	pool *pgxpool.Pool
}

// NewSalesRepository creates a new SalesRepository
func NewSalesRepository(pool *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{pool: pool}
}

func scanSales(row rowScanner) (*domain.Sales, error) {
	var (
		s       domain.Sales
		amounts = make([]string, 7)
	)
	if err := row.Scan(&s.ID, &s.Date, &amounts[0], &amounts[1], &amounts[2], &amounts[3],
		&amounts[4], &amounts[5], &amounts[6], &s.Remarks, &s.FileURL, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if err := parseNumerics(amounts, &s.OpeningCash, &s.PurchaseCash, &s.OnlineCash, &s.PhysicalCash,
		&s.CashTransferred, &s.ClosingCash, &s.TotalSales); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new sales sheet
func (r *SalesRepository) Create(ctx context.Context, sales *domain.Sales) (*domain.Sales, error) {
	return scanSales(r.pool.QueryRow(ctx, `
		INSERT INTO sales (date, opening_cash, purchase_cash, online_cash, physical_cash,
			cash_transferred, closing_cash, total_sales, remarks, file_url, created_by)
		VALUES ($1, $2::text::numeric, $3::text::numeric, $4::text::numeric, $5::text::numeric,
			$6::text::numeric, $7::text::numeric, $8::text::numeric, $9, $10, $11)
		RETURNING `+salesColumns,
		sales.Date, sales.OpeningCash.String(), sales.PurchaseCash.String(), sales.OnlineCash.String(),
		sales.PhysicalCash.String(), sales.CashTransferred.String(), sales.ClosingCash.String(),
		sales.TotalSales.String(), sales.Remarks, sales.FileURL, sales.CreatedBy,
	))
}

// GetByID retrieves a sales sheet by ID
func (r *SalesRepository) GetByID(ctx context.Context, id string) (*domain.Sales, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanSales(r.pool.QueryRow(ctx, `SELECT `+salesColumns+` FROM sales WHERE id = $1`, uid))
}

// Update stores every editable column of a sales sheet
func (r *SalesRepository) Update(ctx context.Context, sales *domain.Sales) (*domain.Sales, error) {
	uid, err := parseID(sales.ID)
	if err != nil {
		return nil, err
	}
	return scanSales(r.pool.QueryRow(ctx, `
		UPDATE sales
		SET date = $2, opening_cash = $3::text::numeric, purchase_cash = $4::text::numeric,
			online_cash = $5::text::numeric, physical_cash = $6::text::numeric,
			cash_transferred = $7::text::numeric, closing_cash = $8::text::numeric,
			total_sales = $9::text::numeric, remarks = $10, file_url = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING `+salesColumns,
		uid, sales.Date, sales.OpeningCash.String(), sales.PurchaseCash.String(), sales.OnlineCash.String(),
		sales.PhysicalCash.String(), sales.CashTransferred.String(), sales.ClosingCash.String(),
		sales.TotalSales.String(), sales.Remarks, sales.FileURL,
	))
}

// Delete removes a sales sheet
func (r *SalesRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `DELETE FROM sales WHERE id = $1`, uid)
}

// ListByDateRange returns records with start <= date < end ordered by date
func (r *SalesRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Sales, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+salesColumns+` FROM sales WHERE date >= $1 AND date < $2 ORDER BY date, created_at`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.Sales, 0)
	for rows.Next() {
		s, err := scanSales(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, s)
	}
	return records, rows.Err()
}
