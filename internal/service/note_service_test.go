package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_AddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.notes.Add(ctx, f.sess, "ab", "long enough", "")
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.notes.Add(ctx, f.sess, "Title", "shrt", "")
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.notes.Add(ctx, f.sess, "Title", "long enough", "recipes")
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.notes.Add(ctx, domain.Session{}, "Title", "long enough", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	n, err := f.notes.Add(ctx, f.sess, "Título", "contenido", "")
	require.NoError(t, err)
	assert.Equal(t, domain.NoteGeneral, n.Type)
	assert.False(t, n.IsPinned)
	assert.Equal(t, n.Created, n.Modified)
}

func TestNoteService_NewestFirstAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.notes.Add(ctx, f.sess, "Breakfast", "oats and eggs", domain.NoteNutrition)
	require.NoError(t, err)
	second, err := f.notes.Add(ctx, f.sess, "Squats", "felt strong today", domain.NoteWorkout)
	require.NoError(t, err)

	all, err := f.notes.List(ctx, f.sess, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	nutrition, err := f.notes.List(ctx, f.sess, domain.NoteNutrition)
	require.NoError(t, err)
	require.Len(t, nutrition, 1)
	assert.Equal(t, first.ID, nutrition[0].ID)
}

func TestNoteService_UpdatePinDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.notes.Add(ctx, f.sess, "Plan", "deload next week", domain.NoteProgress)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	updated, err := f.notes.Update(ctx, f.sess, n.ID, "Plan B", "deload in two weeks", domain.NoteWorkout)
	require.NoError(t, err)
	assert.Equal(t, "Plan B", updated.Title)
	assert.Equal(t, domain.NoteWorkout, updated.Type)
	assert.Equal(t, n.Created, updated.Created)
	assert.Equal(t, fixtureStart.Add(time.Minute), updated.Modified)

	_, err = f.notes.Update(ctx, f.sess, "missing", "Plan C", "does not matter", "")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	pinned, err := f.notes.TogglePin(ctx, f.sess, n.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)
	unpinned, err := f.notes.TogglePin(ctx, f.sess, n.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
	_, err = f.notes.TogglePin(ctx, f.sess, "missing")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	require.NoError(t, f.notes.Delete(ctx, f.sess, n.ID))
	assert.ErrorIs(t, f.notes.Delete(ctx, f.sess, n.ID), ErrNoteNotFound)
}
