package domain

import (
	"context"
	"time"
)

// LoansAndInterests is the category excluded from expense totals and reported on its own
const LoansAndInterests = "Loans & Interests"

// Category is an expense category with an ordered list of subcategories
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SubCategories []string  `json:"subCategories"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasSubCategory reports whether name is one of the category's subcategories
func (c *Category) HasSubCategory(name string) bool {
	for _, sub := range c.SubCategories {
		if sub == name {
			return true
		}
	}
	return false
}

// SubCategoryIndex returns the position of name, or -1
func (c *Category) SubCategoryIndex(name string) int {
	for i, sub := range c.SubCategories {
		if sub == name {
			return i
		}
	}
	return -1
}

// CategoryRepository defines the interface for category persistence operations.
// Name uniqueness is enforced by the store and reported as ErrAlreadyExists.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, id string) error
}
