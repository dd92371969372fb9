// Package service holds the business operations behind the HTTP API: the
// achievement engine, per-collection record services, the dashboard,
// export/import and authentication. Every operation takes an explicit
// domain.Session; mutations on an unauthenticated session fail with
// ErrNotAuthenticated while reads return empty results.
package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// newID returns a UUIDv7; ids sort lexically in creation order.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func requireSession(sess domain.Session) error {
	if !sess.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// profiles resolves the stored profile of a session's user, falling back to
// the profile carried by the session when no user record is reachable.
type profiles struct {
	users repository.UserRepository
}

func (p profiles) userID(sess domain.Session) (primitive.ObjectID, bool) {
	if p.users == nil || sess.UserID == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(sess.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (p profiles) get(ctx context.Context, sess domain.Session) (domain.Profile, error) {
	id, ok := p.userID(sess)
	if !ok {
		return sess.Profile, nil
	}
	user, err := p.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return sess.Profile, nil
		}
		return domain.Profile{}, err
	}
	return user.Profile, nil
}

func (p profiles) update(ctx context.Context, sess domain.Session, mutate func(*domain.Profile)) (domain.Profile, error) {
	profile, err := p.get(ctx, sess)
	if err != nil {
		return domain.Profile{}, err
	}
	mutate(&profile)

	id, ok := p.userID(sess)
	if !ok {
		return profile, nil
	}
	if err := p.users.UpdateProfile(ctx, id, profile); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.Profile{}, err
	}
	return profile, nil
}
