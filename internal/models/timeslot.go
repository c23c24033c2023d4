package models

import "time"

// TimeslotDate is a candidate game date for an agegroup, optionally scoped to
// one division and one round.
type TimeslotDate struct {
	ID         string    `db:"id" json:"id"`
	JobID      string    `db:"job_id" json:"jobId"`
	AgegroupID string    `db:"agegroup_id" json:"agegroupId"`
	DivisionID *string   `db:"division_id" json:"divisionId,omitempty"`
	GameDate   time.Time `db:"game_date" json:"gameDate"`
	Round      *int      `db:"round" json:"round,omitempty"`
}

// TimeslotField describes the back-to-back slots a field offers on a weekday.
type TimeslotField struct {
	ID               string  `db:"id" json:"id"`
	JobID            string  `db:"job_id" json:"jobId"`
	AgegroupID       string  `db:"agegroup_id" json:"agegroupId"`
	DivisionID       *string `db:"division_id" json:"divisionId,omitempty"`
	FieldID          string  `db:"field_id" json:"fieldId"`
	FieldName        string  `db:"field_name" json:"fieldName"`
	DayOfWeek        string  `db:"day_of_week" json:"dayOfWeek"`
	StartTime        string  `db:"start_time" json:"startTime"`
	IntervalMinutes  int     `db:"interval_minutes" json:"intervalMinutes"`
	MaxGamesPerField int     `db:"max_games_per_field" json:"maxGamesPerField"`
}
