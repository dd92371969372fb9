package domain

import "time"

const DefaultReminderType = "workout"

// Reminder is a daily time-of-day prompt. Time is an "HH:MM" string.
type Reminder struct {
	ID      string    `json:"id" validate:"required"`
	Title   string    `json:"title" validate:"required"`
	Time    string    `json:"time" validate:"required"`
	Type    string    `json:"type"`
	Created time.Time `json:"created"`
	Active  bool      `json:"active"`
}

func (r Reminder) RecordID() string { return r.ID }
