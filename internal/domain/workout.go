package domain

import "time"

// ExerciseEntry is one line of a saved workout routine.
type ExerciseEntry struct {
	ExerciseName string  `json:"exerciseName" validate:"required"`
	Sets         int     `json:"sets" validate:"gte=0"`
	Reps         int     `json:"reps" validate:"gte=0"`
	Weight       float64 `json:"weight" validate:"gte=0"`
}

// Workout is a saved routine. It is created incomplete and flipped to
// completed exactly once.
type Workout struct {
	ID            string          `json:"id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Exercises     []ExerciseEntry `json:"exercises" validate:"dive"`
	Notes         string          `json:"notes"`
	Date          time.Time       `json:"date"`
	Completed     bool            `json:"completed"`
	CompletedDate *time.Time      `json:"completedDate,omitempty"`
}

func (w Workout) RecordID() string { return w.ID }
