package mongodb

import (
	"context"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type orderDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	OrderID      string               `bson:"orderId"`
	OrderDate    time.Time            `bson:"orderDate"`
	DeliveryDate *time.Time           `bson:"deliveryDate,omitempty"`
	Amount       primitive.Decimal128 `bson:"amount"`
	PaymentMode  string               `bson:"paymentMode"`
	Remarks      string               `bson:"remarks,omitempty"`
	FileURL      string               `bson:"fileUrl,omitempty"`
	CreatedBy    string               `bson:"createdBy,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (d *orderDocument) toDomain() *domain.Order {
	return &domain.Order{
		ID:           d.ID.Hex(),
		OrderID:      d.OrderID,
		OrderDate:    d.OrderDate,
		DeliveryDate: d.DeliveryDate,
		Amount:       fromDecimal128(d.Amount),
		PaymentMode:  domain.PaymentMode(d.PaymentMode),
		Remarks:      d.Remarks,
		FileURL:      d.FileURL,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func orderToDocument(o *domain.Order) *orderDocument {
	return &orderDocument{
		OrderID:      o.OrderID,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		Amount:       toDecimal128(o.Amount),
		PaymentMode:  string(o.PaymentMode),
		Remarks:      o.Remarks,
		FileURL:      o.FileURL,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// OrderRepository implements domain.OrderRepository using MongoDB
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection)}
}

// Create inserts an order; duplicate order IDs are rejected by the unique index
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	doc := orderToDocument(order)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// Update replaces an order
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	oid, err := objectID(order.ID)
	if err != nil {
		return nil, err
	}
	doc := orderToDocument(order)
	doc.ID = oid
	doc.UpdatedAt = now()

	var stored orderDocument
	if err := replaceReturningAfter(ctx, r.coll, bson.M{"_id": oid}, doc, &stored); err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, bson.M{"_id": oid})
}

// ListByDateRange returns orders with start <= orderDate < end ordered by orderDate
func (r *OrderRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	var docs []orderDocument
	if err := findSorted(ctx, r.coll, dateRange("orderDate", start, end), "orderDate", &docs); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}
