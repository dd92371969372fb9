// Package stats derives aggregate figures from stored records. Every function
// is pure: callers pass the records and, where windows matter, the clock.
package stats

import (
	"alcyxob/fitness-tracker/internal/domain"
	"errors"
	"sort"
	"time"
)

const (
	DefaultTopExercises = 5
	Week                = 7 * 24 * time.Hour
	Month               = 30 * 24 * time.Hour
)

var ErrBMIUnavailable = errors.New("bmi unavailable: height and weight must be positive")

type WeightStats struct {
	Current float64 `json:"current"`
	Initial float64 `json:"initial"`
	Change  float64 `json:"change"`
	Lowest  float64 `json:"lowest"`
	Highest float64 `json:"highest"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Weight summarises entries in stored (append) order. The second return is
// false when there are no entries.
func Weight(entries []domain.WeightEntry) (WeightStats, bool) {
	if len(entries) == 0 {
		return WeightStats{}, false
	}

	first, last := entries[0].Weight, entries[len(entries)-1].Weight
	lowest, highest, sum := first, first, 0.0
	for _, e := range entries {
		if e.Weight < lowest {
			lowest = e.Weight
		}
		if e.Weight > highest {
			highest = e.Weight
		}
		sum += e.Weight
	}

	return WeightStats{
		Current: last,
		Initial: first,
		Change:  round2(last - first),
		Lowest:  lowest,
		Highest: highest,
		Average: round2(sum / float64(len(entries))),
		Count:   len(entries),
	}, true
}

type WorkoutStats struct {
	Total                      int     `json:"totalWorkouts"`
	Completed                  int     `json:"completedWorkouts"`
	CompletionRate             float64 `json:"completionRate"`
	TotalExercises             int     `json:"totalExercises"`
	AverageExercisesPerWorkout float64 `json:"avgExercisesPerWorkout"`
	ThisWeek                   int     `json:"workoutsThisWeek"`
}

// Workouts counts totals and ratios. Rates are 0 when there are no workouts.
// ThisWeek counts workouts created strictly after now minus seven days.
func Workouts(workouts []domain.Workout, now time.Time) WorkoutStats {
	st := WorkoutStats{Total: len(workouts)}
	weekAgo := now.Add(-Week)

	for _, w := range workouts {
		if w.Completed {
			st.Completed++
		}
		st.TotalExercises += len(w.Exercises)
		if w.Date.After(weekAgo) {
			st.ThisWeek++
		}
	}

	if st.Total > 0 {
		st.CompletionRate = Percent(st.Completed, st.Total)
		st.AverageExercisesPerWorkout = round1(float64(st.TotalExercises) / float64(st.Total))
	}
	return st
}

type ExerciseCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopExercises tallies exercise names across workouts and returns the n most
// frequent. Ties keep first-seen order. n <= 0 returns every name.
func TopExercises(workouts []domain.Workout, n int) []ExerciseCount {
	index := make(map[string]int)
	tally := make([]ExerciseCount, 0)

	for _, w := range workouts {
		for _, ex := range w.Exercises {
			i, ok := index[ex.ExerciseName]
			if !ok {
				i = len(tally)
				index[ex.ExerciseName] = i
				tally = append(tally, ExerciseCount{Name: ex.ExerciseName})
			}
			tally[i].Count++
		}
	}

	sort.SliceStable(tally, func(i, j int) bool {
		return tally[i].Count > tally[j].Count
	})

	if n > 0 && len(tally) > n {
		tally = tally[:n]
	}
	return tally
}

// CompletedSince counts completed workouts whose completion time is strictly
// after since.
func CompletedSince(workouts []domain.Workout, since time.Time) int {
	n := 0
	for _, w := range workouts {
		if w.Completed && w.CompletedDate != nil && w.CompletedDate.After(since) {
			n++
		}
	}
	return n
}

// CompletedCount counts completed workouts regardless of date.
func CompletedCount(workouts []domain.Workout) int {
	n := 0
	for _, w := range workouts {
		if w.Completed {
			n++
		}
	}
	return n
}
