package domain

import (
	"context"
	"time"
)

// Reserved card sources that are not expense categories
const (
	CardSourceSales  = "Sales"
	CardSourceOrders = "Orders"
)

type Operator string

const (
	OperatorAdd      Operator = "+"
	OperatorSubtract Operator = "-"
)

// Valid reports whether o is + or -
func (o Operator) Valid() bool {
	return o == OperatorAdd || o == OperatorSubtract
}

// CardEntry adds or subtracts one category's total
type CardEntry struct {
	Category string   `json:"category" bson:"category"`
	Operator Operator `json:"operator" bson:"operator"`
}

// CustomCard is a user-defined dashboard tile combining category totals
type CustomCard struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Entries   []CardEntry `json:"entries"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// InHandEntry adds or subtracts one custom card's total
type InHandEntry struct {
	CardID   string   `json:"cardId" bson:"cardId"`
	CardName string   `json:"cardName" bson:"cardName"`
	Operator Operator `json:"operator" bson:"operator"`
}

// CustomInHand is the single per-user "cash in hand" formula over custom cards
type CustomInHand struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Entries   []InHandEntry `json:"entries"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CustomCardRepository defines the interface for custom card persistence.
// All lookups are scoped to the owning user.
type CustomCardRepository interface {
	Create(ctx context.Context, card *CustomCard) (*CustomCard, error)
	GetByID(ctx context.Context, userID, id string) (*CustomCard, error)
	ListByUser(ctx context.Context, userID string) ([]*CustomCard, error)
	Update(ctx context.Context, card *CustomCard) (*CustomCard, error)
	Delete(ctx context.Context, userID, id string) error
}

// CustomInHandRepository stores at most one CustomInHand per user
type CustomInHandRepository interface {
	GetByUser(ctx context.Context, userID string) (*CustomInHand, error)
	Upsert(ctx context.Context, inHand *CustomInHand) (*CustomInHand, error)
}
