package mongodb

import (
	"context"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type categoryDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	SubCategories []string           `bson:"subCategories"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *categoryDocument) toDomain() *domain.Category {
	subs := d.SubCategories
	if subs == nil {
		subs = []string{}
	}
	return &domain.Category{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		SubCategories: subs,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// CategoryRepository implements domain.CategoryRepository using MongoDB
type CategoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(CategoriesCollection)}
}

// Create inserts a category; duplicate names are rejected by the unique index
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	doc := &categoryDocument{
		ID:            primitive.NewObjectID(),
		Name:          category.Name,
		SubCategories: category.SubCategories,
		CreatedAt:     now(),
	}
	if doc.SubCategories == nil {
		doc.SubCategories = []string{}
	}
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (*domain.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc.toDomain(), nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByName retrieves a category by exact name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

// List returns categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var docs []categoryDocument
	if err := findSorted(ctx, r.coll, bson.M{}, "name", &docs); err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].toDomain())
	}
	return categories, nil
}

// Update replaces a category's name and subcategories
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	oid, err := objectID(category.ID)
	if err != nil {
		return nil, err
	}
	doc := &categoryDocument{
		ID:            oid,
		Name:          category.Name,
		SubCategories: category.SubCategories,
		CreatedAt:     category.CreatedAt,
		UpdatedAt:     now(),
	}
	if doc.SubCategories == nil {
		doc.SubCategories = []string{}
	}

	var stored categoryDocument
	if err := replaceReturningAfter(ctx, r.coll, bson.M{"_id": oid}, doc, &stored); err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return deleteOne(ctx, r.coll, bson.M{"_id": oid})
}
