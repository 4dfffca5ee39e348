package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

const collectionModerationLog = "moderation_log"

// ModerationLogRepository implements ports.ModerationLogRepository using MongoDB.
type ModerationLogRepository struct {
	col *mongo.Collection
}

// NewModerationLogRepository creates a new ModerationLogRepository.
func NewModerationLogRepository(db *mongo.Database) ports.ModerationLogRepository {
	return &ModerationLogRepository{col: db.Collection(collectionModerationLog)}
}

// Insert persists one audit-trail entry.
func (r *ModerationLogRepository) Insert(ctx context.Context, entry *domain.ModerationEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"product_id":  entry.ProductID,
		"event":       string(entry.Event),
		"from_status": string(entry.FromStatus),
		"to_status":   string(entry.ToStatus),
		"actor_id":    entry.ActorID,
		"actor_role":  entry.ActorRole,
		"timestamp":   entry.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if entry.Reason != "" {
		doc["reason"] = entry.Reason
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// ListByProduct returns the audit trail for one product, oldest first.
func (r *ModerationLogRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.ModerationEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ProductID  string    `bson:"product_id"`
		Event      string    `bson:"event"`
		FromStatus string    `bson:"from_status"`
		ToStatus   string    `bson:"to_status"`
		ActorID    string    `bson:"actor_id"`
		ActorRole  string    `bson:"actor_role"`
		Reason     string    `bson:"reason"`
		Timestamp  time.Time `bson:"timestamp"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]*domain.ModerationEntry, len(docs))
	for i, d := range docs {
		entries[i] = &domain.ModerationEntry{
			ProductID:  d.ProductID,
			Event:      domain.ModerationEvent(d.Event),
			FromStatus: domain.ProductStatus(d.FromStatus),
			ToStatus:   domain.ProductStatus(d.ToStatus),
			ActorID:    d.ActorID,
			ActorRole:  d.ActorRole,
			Reason:     d.Reason,
			Timestamp:  d.Timestamp,
		}
	}
	return entries, nil
}
