package domain

// DateLayout is the calendar-day format used for the last training date.
const DateLayout = "2006-01-02"

// StreakState tracks consecutive training days.
type StreakState struct {
	LastTrainingDate string `json:"lastTrainingDate,omitempty"` // DateLayout, empty if never trained
	Count            int    `json:"streak"`
}
