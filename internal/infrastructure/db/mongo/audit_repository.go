package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dars410/catalog-api/internal/core/domain"
	"github.com/dars410/catalog-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup indexes of the audit collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Insert persists entry to the audit_events collection.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.coll.InsertOne(ctx, auditDocument(entry))
	return err
}

func auditDocument(entry *domain.AuditEntry) bson.M {
	doc := bson.M{
		"_id":         entry.ID,
		"method":      entry.Method,
		"path":        entry.Path,
		"resource":    entry.Resource,
		"status":      entry.Status,
		"occurred_at": entry.OccurredAt.UTC(),
	}
	if entry.ActorID > 0 {
		doc["actor_id"] = entry.ActorID
		doc["actor_role"] = string(entry.ActorRole)
	}
	if entry.RequestID != "" {
		doc["request_id"] = entry.RequestID
	}
	return doc
}
