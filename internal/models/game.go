package models

import "time"

// Game status codes.
const (
	GameStatusScheduled = 1
	GameStatusCompleted = 2
	GameStatusCancelled = 3
	GameStatusForfeit   = 4
)

// Game is a pairing placed on a field at a concrete date and time.
type Game struct {
	ID              string    `db:"id" json:"id"`
	JobID           string    `db:"job_id" json:"jobId"`
	AgegroupID      string    `db:"agegroup_id" json:"agegroupId"`
	DivisionID      string    `db:"division_id" json:"divisionId"`
	FieldID         string    `db:"field_id" json:"fieldId"`
	GameDate        time.Time `db:"game_date" json:"gameDate"`
	Round           int       `db:"round" json:"round"`
	GameNumber      int       `db:"game_number" json:"gameNumber"`
	T1Rank          int       `db:"t1_rank" json:"team1Rank"`
	T2Rank          int       `db:"t2_rank" json:"team2Rank"`
	T1Type          TierCode  `db:"t1_type" json:"team1Type"`
	T2Type          TierCode  `db:"t2_type" json:"team2Type"`
	T1ID            *string   `db:"t1_id" json:"team1Id,omitempty"`
	T2ID            *string   `db:"t2_id" json:"team2Id,omitempty"`
	T1Score         *int      `db:"t1_score" json:"team1Score,omitempty"`
	T2Score         *int      `db:"t2_score" json:"team2Score,omitempty"`
	StatusCode      int       `db:"status_code" json:"statusCode"`
	RescheduleCount int       `db:"reschedule_count" json:"rescheduleCount"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// IsRoundRobin reports whether both sides are round-robin team slots.
func (g Game) IsRoundRobin() bool {
	return g.T1Type == TierTeam && g.T2Type == TierTeam
}

// IsBracket reports whether the game belongs to an elimination bracket.
func (g Game) IsBracket() bool {
	return g.Round > 0 && g.T1Type.IsBracket()
}

// Scored reports whether both scores have been recorded.
func (g Game) Scored() bool {
	return g.T1Score != nil && g.T2Score != nil
}

// GameSlot is the (field, date-time) pair a game occupies.
type GameSlot struct {
	FieldID  string    `db:"field_id"`
	GameDate time.Time `db:"game_date"`
}
