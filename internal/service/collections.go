package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/store"
)

func workoutCollection(s *store.Store) *store.Collection[domain.Workout] {
	return store.NewCollection[domain.Workout](s, store.CollectionWorkouts, false)
}

func weightCollection(s *store.Store) *store.Collection[domain.WeightEntry] {
	return store.NewCollection[domain.WeightEntry](s, store.CollectionWeights, false)
}

// Notes are kept newest first.
func noteCollection(s *store.Store) *store.Collection[domain.Note] {
	return store.NewCollection[domain.Note](s, store.CollectionNotes, true)
}

func reminderCollection(s *store.Store) *store.Collection[domain.Reminder] {
	return store.NewCollection[domain.Reminder](s, store.CollectionReminders, false)
}
