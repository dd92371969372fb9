package stats

import (
	"alcyxob/fitness-tracker/internal/domain"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workout(completed bool, date time.Time, exercises ...string) domain.Workout {
	w := domain.Workout{ID: gofakeit.UUID(), Name: gofakeit.Noun(), Date: date, Completed: completed}
	for _, name := range exercises {
		w.Exercises = append(w.Exercises, domain.ExerciseEntry{ExerciseName: name, Sets: 3, Reps: 8})
	}
	if completed {
		d := date
		w.CompletedDate = &d
	}
	return w
}

func TestWeight(t *testing.T) {
	_, ok := Weight(nil)
	assert.False(t, ok)

	entries := []domain.WeightEntry{
		{ID: "1", Weight: 82.4},
		{ID: "2", Weight: 80.1},
		{ID: "3", Weight: 81.35},
	}
	st, ok := Weight(entries)
	require.True(t, ok)
	assert.Equal(t, 81.35, st.Current)
	assert.Equal(t, 82.4, st.Initial)
	assert.Equal(t, -1.05, st.Change)
	assert.Equal(t, 80.1, st.Lowest)
	assert.Equal(t, 82.4, st.Highest)
	assert.Equal(t, 81.28, st.Average)
	assert.Equal(t, 3, st.Count)
}

func TestWeight_CurrentAndInitialFollowAppendOrder(t *testing.T) {
	for n := 1; n <= 20; n++ {
		entries := make([]domain.WeightEntry, 0, n)
		for i := 0; i < n; i++ {
			w := gofakeit.Float64Range(40, 150)
			entries = append(entries, domain.WeightEntry{ID: fmt.Sprint(i), Weight: w})
		}

		st, ok := Weight(entries)
		require.True(t, ok)
		assert.Equal(t, entries[n-1].Weight, st.Current)
		assert.Equal(t, entries[0].Weight, st.Initial)
		assert.InDelta(t, st.Current-st.Initial, st.Change, 0.0051)
	}
}

func TestWorkouts(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	empty := Workouts(nil, now)
	assert.Equal(t, WorkoutStats{}, empty)

	list := []domain.Workout{
		workout(true, now.Add(-time.Hour), "squat", "bench"),
		workout(false, now.Add(-48*time.Hour), "row"),
		workout(true, now.Add(-Week), "deadlift"),
	}
	st := Workouts(list, now)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Completed)
	assert.Equal(t, 66.7, st.CompletionRate)
	assert.Equal(t, 4, st.TotalExercises)
	assert.Equal(t, 1.3, st.AverageExercisesPerWorkout)
	// exactly seven days old is outside the window
	assert.Equal(t, 2, st.ThisWeek)
}

func TestTopExercises(t *testing.T) {
	now := time.Now()
	list := []domain.Workout{workout(false, now, "squat", "squat", "bench")}

	top := TopExercises(list, DefaultTopExercises)
	assert.Equal(t, []ExerciseCount{{"squat", 2}, {"bench", 1}}, top)

	list = append(list, workout(false, now, "row", "press", "curl", "dip", "bench"))
	top = TopExercises(list, 3)
	require.Len(t, top, 3)
	assert.Equal(t, ExerciseCount{"squat", 2}, top[0])
	assert.Equal(t, ExerciseCount{"bench", 2}, top[1])
	assert.Equal(t, ExerciseCount{"row", 1}, top[2])

	assert.Empty(t, TopExercises(nil, 5))
}

func TestCompletedSince(t *testing.T) {
	now := time.Now()
	list := []domain.Workout{
		workout(true, now.Add(-time.Hour)),
		workout(true, now.Add(-8*24*time.Hour)),
		workout(false, now),
	}
	assert.Equal(t, 1, CompletedSince(list, now.Add(-Week)))
	assert.Equal(t, 2, CompletedSince(list, now.Add(-Month)))
	assert.Equal(t, 2, CompletedCount(list))
}

func TestBMI(t *testing.T) {
	res, err := BMI(70, 175)
	require.NoError(t, err)
	assert.Equal(t, 22.9, res.Value)
	assert.Equal(t, CategoryNormal, res.Category)

	tests := []struct {
		weight, height float64
		category       string
	}{
		{50, 180, CategoryUnderweight},
		{85, 175, CategoryOverweight},
		{110, 170, CategoryObese},
	}
	for _, tt := range tests {
		res, err := BMI(tt.weight, tt.height)
		require.NoError(t, err)
		assert.Equal(t, tt.category, res.Category, "weight %v height %v", tt.weight, tt.height)
	}

	_, err = BMI(0, 175)
	assert.ErrorIs(t, err, ErrBMIUnavailable)
	_, err = BMI(70, -1)
	assert.ErrorIs(t, err, ErrBMIUnavailable)

	for _, in := range [][2]float64{
		{math.NaN(), 175},
		{70, math.NaN()},
		{math.Inf(1), 175},
		{70, math.Inf(1)},
		{math.Inf(-1), 175},
		{math.MaxFloat64, 1e-300},
	} {
		_, err = BMI(in[0], in[1])
		assert.ErrorIs(t, err, ErrBMIUnavailable, "weight %v height %v", in[0], in[1])
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3, round1(0.25))
	assert.Equal(t, -0.3, round1(-0.25))
	assert.Equal(t, 1.01, round2(1.005000001))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 8.3, Percent(1, 12))
	assert.Equal(t, 100.0, Percent(12, 12))
}
