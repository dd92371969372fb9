package domain

import "time"

// WeightEntry is a single body-weight measurement in kilograms.
type WeightEntry struct {
	ID     string    `json:"id" validate:"required"`
	Weight float64   `json:"weight" validate:"gt=0"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes"`
}

func (w WeightEntry) RecordID() string { return w.ID }
