// Package mongodb implements the domain repositories on MongoDB
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection        = "users"
	CategoriesCollection   = "categories"
	ExpensesCollection     = "expenses"
	SalesCollection        = "sales"
	OrdersCollection       = "orders"
	CustomCardsCollection  = "customCards"
	CustomInHandCollection = "customInHand"
)

// Connect opens a client, verifies it with a ping and ensures indexes
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")
	return client, db, nil
}

// EnsureIndexes creates the unique and range indexes the repositories rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ExpensesCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		SalesCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "orderDate", Value: 1}}},
		},
		CustomCardsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		CustomInHandCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// objectID parses a hex id; malformed ids cannot match a document
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// mapError translates driver errors into domain errors
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrAlreadyExists
	}
	return err
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// Out of Decimal128 range; amounts are validated well below this
		value, _ = primitive.ParseDecimal128(d.Round(6).String())
	}
	return value
}

func fromDecimal128(value primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(value.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dateRange selects documents with start <= field < end
func dateRange(field string, start, end time.Time) bson.M {
	return bson.M{field: bson.M{"$gte": start, "$lt": end}}
}

// replaceReturningAfter replaces the document with the given id and decodes the stored result
func replaceReturningAfter(ctx context.Context, coll *mongo.Collection, filter bson.M, doc interface{}, out interface{}) error {
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	return mapError(coll.FindOneAndReplace(ctx, filter, doc, opts).Decode(out))
}

// deleteOne removes one document and reports ErrNotFound when nothing matched
func deleteOne(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	result, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// findSorted decodes every document matching filter sorted ascending by sortField
func findSorted(ctx context.Context, coll *mongo.Collection, filter bson.M, sortField string, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
