package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const orderColumns = `id::text, order_id, order_date, delivery_date, amount::text, payment_mode,
	remarks, file_url, created_by, created_at, updated_at`

// OrderRepository implements domain.OrderRepository using PostgreSQL
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o      domain.Order
		amount string
		mode   string
	)
	if err := row.Scan(&o.ID, &o.OrderID, &o.OrderDate, &o.DeliveryDate, &amount, &mode,
		&o.Remarks, &o.FileURL, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	d, err := parseNumeric(amount)
	if err != nil {
		return nil, err
	}
	o.Amount = d
	o.PaymentMode = domain.PaymentMode(mode)
	return &o, nil
}

// Create inserts a new order; a taken order ID yields ErrAlreadyExists
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
		INSERT INTO orders (order_id, order_date, delivery_date, amount, payment_mode, remarks, file_url, created_by)
		VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8)
		RETURNING `+orderColumns,
		order.OrderID, order.OrderDate, order.DeliveryDate, order.Amount.String(),
		string(order.PaymentMode), order.Remarks, order.FileURL, order.CreatedBy,
	))
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, uid))
}

// Update stores every editable column of an order
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	uid, err := parseID(order.ID)
	if err != nil {
		return nil, err
	}
	return scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders
		SET order_id = $2, order_date = $3, delivery_date = $4, amount = $5::text::numeric,
			payment_mode = $6, remarks = $7, file_url = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		uid, order.OrderID, order.OrderDate, order.DeliveryDate, order.Amount.String(),
		string(order.PaymentMode), order.Remarks, order.FileURL,
	))
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `DELETE FROM orders WHERE id = $1`, uid)
}

// ListByDateRange returns orders with start <= order_date < end ordered by order_date
func (r *OrderRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_date >= $1 AND order_date < $2 ORDER BY order_date, created_at`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
