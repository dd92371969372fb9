package repository

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound         = RepositoryError("not found")
	ErrAlreadyExists    = RepositoryError("already exists")
	ErrUpdateFailed     = RepositoryError("update failed")
	ErrRevisionConflict = RepositoryError("revision conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Entry is a stored value together with its revision.
// Revision 0 means the key does not exist yet.
type Entry struct {
	Value    []byte
	Revision int64
}

// KeyValueStore is the namespaced key-value persistence every per-user
// collection is built on. Writes are compare-and-swap on the revision.
type KeyValueStore interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (Entry, error)
	// CompareAndSwap writes value only if the stored revision equals expected
	// (0 = key must be absent) and returns the new revision. A mismatch
	// yields ErrRevisionConflict.
	CompareAndSwap(ctx context.Context, key string, expected int64, value []byte) (int64, error)
	// Delete returns ErrNotFound when the key is absent.
	Delete(ctx context.Context, key string) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.Profile) error
}
