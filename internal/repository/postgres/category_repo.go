package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const categoryColumns = `id::text, name, sub_categories, created_at, updated_at`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.SubCategories, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if c.SubCategories == nil {
		c.SubCategories = []string{}
	}
	return &c, nil
}

func subCategoriesParam(subs []string) []string {
	if subs == nil {
		return []string{}
	}
	return subs
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, sub_categories)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		category.Name, subCategoriesParam(category.SubCategories),
	))
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, uid))
}

// GetByName retrieves a category by exact name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update stores the name and subcategories of a category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	uid, err := parseID(category.ID)
	if err != nil {
		return nil, err
	}
	return scanCategory(r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, sub_categories = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+categoryColumns,
		uid, category.Name, subCategoriesParam(category.SubCategories),
	))
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `DELETE FROM categories WHERE id = $1`, uid)
}
