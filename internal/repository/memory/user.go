package memory

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is an in-process repository.UserRepository.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[primitive.ObjectID]domain.User
	byUsername map[string]primitive.ObjectID
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[primitive.ObjectID]domain.User),
		byUsername: make(map[string]primitive.ObjectID),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Username == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("username and password hash are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return primitive.NilObjectID, repository.ErrAlreadyExists
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return user.ID, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, profile domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Profile = profile
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return nil
}
