package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/store"
	"context"
	"strings"
	"unicode/utf8"
)

const (
	minNoteTitle   = 3
	minNoteContent = 5
)

type NoteService interface {
	// Add stores a note at the front of the list. An empty type means general.
	Add(ctx context.Context, sess domain.Session, title, content string, noteType domain.NoteType) (*domain.Note, error)
	// List returns notes newest first, filtered by type when it is not empty.
	List(ctx context.Context, sess domain.Session, noteType domain.NoteType) ([]domain.Note, error)
	Update(ctx context.Context, sess domain.Session, id, title, content string, noteType domain.NoteType) (*domain.Note, error)
	Delete(ctx context.Context, sess domain.Session, id string) error
	TogglePin(ctx context.Context, sess domain.Session, id string) (*domain.Note, error)
}

// --- Service Implementation ---

type noteService struct {
	notes *store.Collection[domain.Note]
	clock Clock
}

func NewNoteService(s *store.Store, clock Clock) NoteService {
	return &noteService{notes: noteCollection(s), clock: clock}
}

// checkNote trims the inputs and applies the length and type rules shared
// by Add and Update.
func checkNote(title, content string, noteType domain.NoteType) (string, string, domain.NoteType, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if noteType == "" {
		noteType = domain.NoteGeneral
	}

	if utf8.RuneCountInString(title) < minNoteTitle {
		return "", "", "", validationError("title must be at least %d characters", minNoteTitle)
	}
	if utf8.RuneCountInString(content) < minNoteContent {
		return "", "", "", validationError("content must be at least %d characters", minNoteContent)
	}
	if !noteType.Valid() {
		return "", "", "", validationError("unknown note type %q", noteType)
	}
	return title, content, noteType, nil
}

func (s *noteService) Add(ctx context.Context, sess domain.Session, title, content string, noteType domain.NoteType) (*domain.Note, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	title, content, noteType, err := checkNote(title, content, noteType)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	note := domain.Note{
		ID:       id,
		Title:    title,
		Content:  content,
		Type:     noteType,
		Created:  now,
		Modified: now,
	}
	if _, err := s.notes.Append(ctx, sess, note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *noteService) List(ctx context.Context, sess domain.Session, noteType domain.NoteType) ([]domain.Note, error) {
	notes, err := s.notes.List(ctx, sess)
	if err != nil || noteType == "" { // No filter requested
		return notes, err
	}

	filtered := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		if n.Type == noteType {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

func (s *noteService) Update(ctx context.Context, sess domain.Session, id, title, content string, noteType domain.NoteType) (*domain.Note, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	title, content, noteType, err := checkNote(title, content, noteType)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	// Created and IsPinned survive an edit
	note, found, err := s.notes.Update(ctx, sess, id, func(n *domain.Note) error {
		n.Title = title
		n.Content = content
		n.Type = noteType
		n.Modified = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoteNotFound
	}
	return &note, nil
}

func (s *noteService) Delete(ctx context.Context, sess domain.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	removed, err := s.notes.Remove(ctx, sess, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNoteNotFound
	}
	return nil
}

func (s *noteService) TogglePin(ctx context.Context, sess domain.Session, id string) (*domain.Note, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	note, found, err := s.notes.Update(ctx, sess, id, func(n *domain.Note) error {
		n.IsPinned = !n.IsPinned
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoteNotFound
	}
	return &note, nil
}
