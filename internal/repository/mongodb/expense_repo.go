package mongodb

import (
	"context"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type expenseDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Category      string               `bson:"category"`
	SubCategory   string               `bson:"subCategory,omitempty"`
	Date          time.Time            `bson:"date"`
	Amount        primitive.Decimal128 `bson:"amount"`
	PaymentStatus string               `bson:"paymentStatus"`
	PaymentMode   *string              `bson:"paymentMode"`
	Remarks       string               `bson:"remarks,omitempty"`
	FileURL       string               `bson:"fileUrl,omitempty"`
	CreatedBy     string               `bson:"createdBy,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d *expenseDocument) toDomain() *domain.Expense {
	e := &domain.Expense{
		ID:            d.ID.Hex(),
		Category:      d.Category,
		SubCategory:   d.SubCategory,
		Date:          d.Date,
		Amount:        fromDecimal128(d.Amount),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		Remarks:       d.Remarks,
		FileURL:       d.FileURL,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.PaymentMode != nil {
		mode := domain.PaymentMode(*d.PaymentMode)
		e.PaymentMode = &mode
	}
	return e
}

func expenseToDocument(e *domain.Expense) *expenseDocument {
	doc := &expenseDocument{
		Category:      e.Category,
		SubCategory:   e.SubCategory,
		Date:          e.Date,
		Amount:        toDecimal128(e.Amount),
		PaymentStatus: string(e.PaymentStatus),
		Remarks:       e.Remarks,
		FileURL:       e.FileURL,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.PaymentMode != nil {
		mode := string(*e.PaymentMode)
		doc.PaymentMode = &mode
	}
	return doc
}

// ExpenseRepository implements domain.ExpenseRepository using MongoDB
type ExpenseRepository struct {
	coll *mongo.Collection
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{coll: db.Collection(ExpensesCollection)}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	doc := expenseToDocument(expense)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc expenseDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// Update replaces an expense
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	oid, err := objectID(expense.ID)
	if err != nil {
		return nil, err
	}
	doc := expenseToDocument(expense)
	doc.ID = oid
	doc.UpdatedAt = now()

	var stored expenseDocument
	if err := replaceReturningAfter(ctx, r.coll, bson.M{"_id": oid}, doc, &stored); err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, bson.M{"_id": oid})
}

// ListByDateRange returns expenses with start <= date < end ordered by date
func (r *ExpenseRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Expense, error) {
	var docs []expenseDocument
	if err := findSorted(ctx, r.coll, dateRange("date", start, end), "date", &docs); err != nil {
		return nil, err
	}
	expenses := make([]*domain.Expense, 0, len(docs))
	for i := range docs {
		expenses = append(expenses, docs[i].toDomain())
	}
	return expenses, nil
}
