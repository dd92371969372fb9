package domain

import "time"

type NoteType string

const (
	NoteGeneral   NoteType = "general"
	NoteWorkout   NoteType = "workout"
	NoteNutrition NoteType = "nutrition"
	NoteProgress  NoteType = "progress"
)

func (t NoteType) Valid() bool {
	switch t {
	case NoteGeneral, NoteWorkout, NoteNutrition, NoteProgress:
		return true
	}
	return false
}

// Note is a free-text journal entry. Notes are stored newest first.
type Note struct {
	ID       string    `json:"id" validate:"required"`
	Title    string    `json:"title" validate:"required"`
	Content  string    `json:"content" validate:"required"`
	Type     NoteType  `json:"type"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	IsPinned bool      `json:"isPinned"`
}

func (n Note) RecordID() string { return n.ID }
