package mongodb

import (
	"context"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type customCardDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Name      string             `bson:"name"`
	Entries   []domain.CardEntry `bson:"entries"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *customCardDocument) toDomain() *domain.CustomCard {
	entries := d.Entries
	if entries == nil {
		entries = []domain.CardEntry{}
	}
	return &domain.CustomCard{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		Entries:   entries,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CustomCardRepository implements domain.CustomCardRepository using MongoDB
type CustomCardRepository struct {
	coll *mongo.Collection
}

// NewCustomCardRepository creates a new CustomCardRepository
func NewCustomCardRepository(db *mongo.Database) *CustomCardRepository {
	return &CustomCardRepository{coll: db.Collection(CustomCardsCollection)}
}

// Create inserts a card
func (r *CustomCardRepository) Create(ctx context.Context, card *domain.CustomCard) (*domain.CustomCard, error) {
	doc := &customCardDocument{
		ID:        primitive.NewObjectID(),
		UserID:    card.UserID,
		Name:      card.Name,
		Entries:   card.Entries,
		CreatedAt: now(),
	}
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// GetByID retrieves a card owned by userID
func (r *CustomCardRepository) GetByID(ctx context.Context, userID, id string) (*domain.CustomCard, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc customCardDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// ListByUser returns the cards of userID in creation order
func (r *CustomCardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CustomCard, error) {
	var docs []customCardDocument
	if err := findSorted(ctx, r.coll, bson.M{"userId": userID}, "createdAt", &docs); err != nil {
		return nil, err
	}
	cards := make([]*domain.CustomCard, 0, len(docs))
	for i := range docs {
		cards = append(cards, docs[i].toDomain())
	}
	return cards, nil
}

// Update replaces the name and entries of a card owned by card.UserID
func (r *CustomCardRepository) Update(ctx context.Context, card *domain.CustomCard) (*domain.CustomCard, error) {
	oid, err := objectID(card.ID)
	if err != nil {
		return nil, err
	}
	doc := &customCardDocument{
		ID:        oid,
		UserID:    card.UserID,
		Name:      card.Name,
		Entries:   card.Entries,
		CreatedAt: card.CreatedAt,
		UpdatedAt: now(),
	}

	var stored customCardDocument
	if err := replaceReturningAfter(ctx, r.coll, bson.M{"_id": oid, "userId": card.UserID}, doc, &stored); err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// Delete removes a card owned by userID
func (r *CustomCardRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, bson.M{"_id": oid, "userId": userID})
}

type customInHandDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	UserID    string               `bson:"userId"`
	Entries   []domain.InHandEntry `bson:"entries"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// CustomInHandRepository implements domain.CustomInHandRepository using MongoDB
type CustomInHandRepository struct {
	coll *mongo.Collection
}

// NewCustomInHandRepository creates a new CustomInHandRepository
func NewCustomInHandRepository(db *mongo.Database) *CustomInHandRepository {
	return &CustomInHandRepository{coll: db.Collection(CustomInHandCollection)}
}

func (d *customInHandDocument) toDomain() *domain.CustomInHand {
	entries := d.Entries
	if entries == nil {
		entries = []domain.InHandEntry{}
	}
	return &domain.CustomInHand{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Entries:   entries,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// GetByUser returns the in-hand formula of userID
func (r *CustomInHandRepository) GetByUser(ctx context.Context, userID string) (*domain.CustomInHand, error) {
	var doc customInHandDocument
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// Upsert creates or replaces the in-hand formula of inHand.UserID
func (r *CustomInHandRepository) Upsert(ctx context.Context, inHand *domain.CustomInHand) (*domain.CustomInHand, error) {
	entries := inHand.Entries
	if entries == nil {
		entries = []domain.InHandEntry{}
	}
	ts := now()
	update := bson.M{
		"$set":         bson.M{"entries": entries, "updatedAt": ts},
		"$setOnInsert": bson.M{"createdAt": ts},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc customInHandDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": inHand.UserID}, update, opts).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}
