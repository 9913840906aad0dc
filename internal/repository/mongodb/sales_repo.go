package mongodb

import (
	"context"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type salesDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Date            time.Time            `bson:"date"`
	OpeningCash     primitive.Decimal128 `bson:"openingCash"`
	PurchaseCash    primitive.Decimal128 `bson:"purchaseCash"`
	OnlineCash      primitive.Decimal128 `bson:"onlineCash"`
	PhysicalCash    primitive.Decimal128 `bson:"physicalCash"`
	CashTransferred primitive.Decimal128 `bson:"cashTransferred"`
	ClosingCash     primitive.Decimal128 `bson:"closingCash"`
	TotalSales      primitive.Decimal128 `bson:"totalSales"`
	Remarks         string               `bson:"remarks,omitempty"`
	FileURL         string               `bson:"fileUrl,omitempty"`
	CreatedBy       string               `bson:"createdBy,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

func (d *salesDocument) toDomain() *domain.Sales {
	return &domain.Sales{
		ID:              d.ID.Hex(),
		Date:            d.Date,
		OpeningCash:     fromDecimal128(d.OpeningCash),
		PurchaseCash:    fromDecimal128(d.PurchaseCash),
		OnlineCash:      fromDecimal128(d.OnlineCash),
		PhysicalCash:    fromDecimal128(d.PhysicalCash),
		CashTransferred: fromDecimal128(d.CashTransferred),
		ClosingCash:     fromDecimal128(d.ClosingCash),
		TotalSales:      fromDecimal128(d.TotalSales),
		Remarks:         d.Remarks,
		FileURL:         d.FileURL,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func salesToDocument(s *domain.Sales) *salesDocument {
	return &salesDocument{
		Date:            s.Date,
		OpeningCash:     toDecimal128(s.OpeningCash),
		PurchaseCash:    toDecimal128(s.PurchaseCash),
		OnlineCash:      toDecimal128(s.OnlineCash),
		PhysicalCash:    toDecimal128(s.PhysicalCash),
		CashTransferred: toDecimal128(s.CashTransferred),
		ClosingCash:     toDecimal128(s.ClosingCash),
		TotalSales:      toDecimal128(s.TotalSales),
		Remarks:         s.Remarks,
		FileURL:         s.FileURL,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SalesRepository implements domain.SalesRepository using MongoDB
type SalesRepository struct {
	coll *mongo.Collection
}

// NewSalesRepository creates a new SalesRepository
func NewSalesRepository(db *mongo.Database) *SalesRepository {
	return &SalesRepository{coll: db.Collection(SalesCollection)}
}

// Create inserts a new sales record
func (r *SalesRepository) Create(ctx context.Context, sales *domain.Sales) (*domain.Sales, error) {
	doc := salesToDocument(sales)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// GetByID retrieves a sales record by ID
func (r *SalesRepository) GetByID(ctx context.Context, id string) (*domain.Sales, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc salesDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// Update replaces a sales record
func (r *SalesRepository) Update(ctx context.Context, sales *domain.Sales) (*domain.Sales, error) {
	oid, err := objectID(sales.ID)
	if err != nil {
		return nil, err
	}
	doc := salesToDocument(sales)
	doc.ID = oid
	doc.UpdatedAt = now()

	var stored salesDocument
	if err := replaceReturningAfter(ctx, r.coll, bson.M{"_id": oid}, doc, &stored); err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// Delete removes a sales record
func (r *SalesRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, bson.M{"_id": oid})
}

// ListByDateRange returns records with start <= date < end ordered by date
func (r *SalesRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Sales, error) {
	var docs []salesDocument
	if err := findSorted(ctx, r.coll, dateRange("date", start, end), "date", &docs); err != nil {
		return nil, err
	}
	records := make([]*domain.Sales, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toDomain())
	}
	return records, nil
}
