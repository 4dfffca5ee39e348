package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

// Create inserts a new product document and backfills the generated id.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.col.InsertOne(ctx, p)
	return err
}

// FindByIDOrSlug retrieves a product by id or slug.
func (r *ProductRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"_id": idOrSlug},
		bson.M{"slug": idOrSlug},
	}}

	var p domain.Product
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateModeration applies a moderation update with a status precondition:
// the filter matches on the expected current status, so a document already
// moved by a concurrent transition is simply not matched and the caller gets
// ErrInvalidTransition instead of silently overwriting the fresher state.
func (r *ProductRepository) UpdateModeration(ctx context.Context, id string, from domain.ProductStatus, u ports.ModerationUpdate) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     string(u.Status),
		"updated_at": u.UpdatedAt.UTC(),
	}
	unset := bson.M{}
	if u.RejectionReason != "" {
		set["rejection_reason"] = u.RejectionReason
	} else {
		unset["rejection_reason"] = ""
	}
	if !u.SubmittedAt.IsZero() {
		set["submitted_at"] = u.SubmittedAt.UTC()
	}
	if !u.PublishedAt.IsZero() {
		set["published_at"] = u.PublishedAt.UTC()
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	filter := bson.M{"_id": id, "status": string(from)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p domain.Product
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the product is gone or its status moved underneath us.
			if _, findErr := r.FindByIDOrSlug(ctx, id); errors.Is(findErr, domain.ErrProductNotFound) {
				return nil, domain.ErrProductNotFound
			}
			return nil, fmt.Errorf("%w: product status changed concurrently", domain.ErrInvalidTransition)
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes a product, refusing while it has recorded sales so existing
// buyers keep their downloads.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "sales_count": bson.M{"$lte": 0}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		if _, findErr := r.FindByIDOrSlug(ctx, id); findErr == nil {
			return domain.ErrProductHasSales
		}
		return domain.ErrProductNotFound
	}
	return nil
}

// List returns a page of products matching the filter and the total count.
func (r *ProductRepository) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.VendorID != "" {
		query["vendor_id"] = filter.VendorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.Search != "" {
		regex := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"slug": regex},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	limit := int64(filter.Limit)
	skip := int64(filter.Page-1) * limit
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// EnsureIndexes creates the required indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
