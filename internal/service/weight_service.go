package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/stats"
	"alcyxob/fitness-tracker/internal/store"
	"context"

	"github.com/sirupsen/logrus"
)

const MaxWeightKg = 500

type WeightService interface {
	// Add appends a weight entry and copies the weight into the user profile.
	Add(ctx context.Context, sess domain.Session, weight float64, notes string) (*domain.WeightEntry, error)
	List(ctx context.Context, sess domain.Session) ([]domain.WeightEntry, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
	// Stats returns nil when no weight has been logged.
	Stats(ctx context.Context, sess domain.Session) (*stats.WeightStats, error)
}

// --- Service Implementation ---

type weightService struct {
	weights  *store.Collection[domain.WeightEntry]
	profiles profiles
	clock    Clock
}

func NewWeightService(s *store.Store, users repository.UserRepository, clock Clock) WeightService {
	return &weightService{
		weights:  weightCollection(s),
		profiles: profiles{users: users},
		clock:    clock,
	}
}

func (s *weightService) Add(ctx context.Context, sess domain.Session, weight float64, notes string) (*domain.WeightEntry, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	// Written as a positive range so NaN fails it too
	if !(weight > 0 && weight <= MaxWeightKg) {
		return nil, validationError("weight must be between 0 and %d kg", MaxWeightKg)
	}

	// 1. Build the entry
	id, err := newID()
	if err != nil {
		return nil, err
	}
	entry := domain.WeightEntry{
		ID:     id,
		Weight: weight,
		Date:   s.clock.now(),
		Notes:  notes,
	}
	// 2. Persist the entry, then mirror it into the profile
	if _, err := s.weights.Append(ctx, sess, entry); err != nil {
		return nil, err
	}

	// the entry is already stored; a profile failure only loses the copy
	if _, err := s.profiles.update(ctx, sess, func(p *domain.Profile) { p.Weight = weight }); err != nil {
		logrus.WithField("user", sess.Username).Errorf("update profile weight: %v", err)
	}
	return &entry, nil
}

func (s *weightService) List(ctx context.Context, sess domain.Session) ([]domain.WeightEntry, error) {
	return s.weights.List(ctx, sess)
}

func (s *weightService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	removed, err := s.weights.Remove(ctx, sess, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrWeightNotFound
	}
	return nil
}

func (s *weightService) Stats(ctx context.Context, sess domain.Session) (*stats.WeightStats, error) {
	entries, err := s.weights.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	ws, ok := stats.Weight(entries)
	if !ok {
		return nil, nil
	}
	return &ws, nil
}
