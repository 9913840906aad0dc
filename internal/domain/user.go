package domain

import (
	"context"
	"strings"
	"time"
)

// User represents a back-office account
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository defines the interface for user persistence operations.
// Email uniqueness is enforced by the store and reported as ErrAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	// GetByID returns the user regardless of its active flag
	GetByID(ctx context.Context, id string) (*User, error)
	GetActiveByID(ctx context.Context, id string) (*User, error)
	GetActiveByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
