package domain

import (
	"encoding/json"
	"time"
)

// ExportUser is the profile part of a full export.
type ExportUser struct {
	Username string  `json:"username"`
	Profile  Profile `json:"profile"`
}

// ExportDocument is the full-export JSON document. Importing it back
// reproduces every collection.
type ExportDocument struct {
	User         ExportUser      `json:"user"`
	Workouts     []Workout       `json:"workouts"`
	Weights      []WeightEntry   `json:"weights"`
	Achievements []string        `json:"achievements"`
	Reminders    []Reminder      `json:"reminders"`
	Notes        []Note          `json:"notes"`
	Calendar     json.RawMessage `json:"calendar"`
	Progress     json.RawMessage `json:"progress"`
	Mentality    json.RawMessage `json:"mentality"`
	Theme        Theme           `json:"theme"`
	Streak       StreakState     `json:"streak"`
	ExportDate   time.Time       `json:"exportDate"`
}

// SyncData is the payload copied by the periodic sync job.
type SyncData struct {
	Calendar     json.RawMessage `json:"calendar"`
	Progress     json.RawMessage `json:"progress"`
	Mentality    json.RawMessage `json:"mentality"`
	Achievements []string        `json:"achievements"`
	Notes        []Note          `json:"notes"`
	Reminders    []Reminder      `json:"reminders"`
}

// SyncBackup is the snapshot stored in the backup slot.
type SyncBackup struct {
	Username string    `json:"username"`
	LastSync time.Time `json:"lastSync"`
	Data     SyncData  `json:"data"`
}
