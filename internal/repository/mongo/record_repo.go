package mongo

import (
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recordCollectionName = "records"

// recordDocument stores one namespaced key. Value is the raw JSON text of the
// collection, so documents stay readable from the mongo shell.
type recordDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Revision  int64     `bson:"revision"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoRecordRepository implements repository.KeyValueStore with one document
// per key and a revision counter used for compare-and-swap.
type mongoRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoRecordRepository creates a new key-value store backed by MongoDB.
func NewMongoRecordRepository(db *mongo.Database) repository.KeyValueStore {
	return &mongoRecordRepository{
		collection: db.Collection(recordCollectionName),
	}
}

// --- Repository Methods ---

// Get returns the stored value and its revision.
func (r *mongoRecordRepository) Get(ctx context.Context, key string) (repository.Entry, error) {
	var doc recordDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Return the custom repository error for not found
			return repository.Entry{}, repository.ErrNotFound
		}
		return repository.Entry{}, err
	}
	return repository.Entry{Value: []byte(doc.Value), Revision: doc.Revision}, nil
}

// CompareAndSwap writes value only while the stored revision equals expected;
// expected 0 means the key must not exist yet.
func (r *mongoRecordRepository) CompareAndSwap(ctx context.Context, key string, expected int64, value []byte) (int64, error) {
	now := time.Now().UTC()

	if expected == 0 {
		// First write: the _id uniqueness makes a concurrent creator lose.
		_, err := r.collection.InsertOne(ctx, recordDocument{
			Key:       key,
			Value:     string(value),
			Revision:  1,
			UpdatedAt: now,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return 0, repository.ErrRevisionConflict
			}
			return 0, err
		}
		return 1, nil
	}

	// Later writes: match on the revision and bump it atomically
	filter := bson.M{"_id": key, "revision": expected}
	update := bson.M{
		"$set": bson.M{
			"value":     string(value),
			"updatedAt": now,
		},
		"$inc": bson.M{"revision": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	if result.MatchedCount == 0 {
		// Either deleted or bumped by another writer.
		return 0, repository.ErrRevisionConflict
	}
	return expected + 1, nil
}

// Delete removes key, returning repository.ErrNotFound when it is missing.
func (r *mongoRecordRepository) Delete(ctx context.Context, key string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return err
	}
	// Check if a document was actually deleted
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRecordIndexes creates necessary indexes for the records collection.
func EnsureRecordIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// stale keys, e.g. abandoned sync backups
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logrus.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
