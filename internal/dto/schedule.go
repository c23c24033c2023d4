package dto

import (
	"time"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// AutoScheduleResult summarises a greedy division schedule.
type AutoScheduleResult struct {
	DivisionID     string `json:"divisionId"`
	ScheduledCount int    `json:"scheduledCount"`
	FailedCount    int    `json:"failedCount"`
}

// MoveGameRequest targets a field and start time for a game.
type MoveGameRequest struct {
	FieldID  string    `json:"fieldId" validate:"required"`
	GameDate time.Time `json:"gameDate" validate:"required"`
}

// MoveGameResult returns the moved game and, for a swap, the displaced one.
type MoveGameResult struct {
	Game    models.Game  `json:"game"`
	Swapped *models.Game `json:"swapped,omitempty"`
}

// UpdateScoreRequest records a game result.
type UpdateScoreRequest struct {
	Team1Score *int `json:"team1Score" validate:"required,min=0"`
	Team2Score *int `json:"team2Score" validate:"required,min=0"`
	StatusCode int  `json:"statusCode" validate:"omitempty,oneof=1 2 3 4"`
}

// GridGame is the compact game shown inside a grid cell.
type GridGame struct {
	GameID       string `json:"gameId"`
	DivisionID   string `json:"divisionId"`
	AgegroupName string `json:"agegroupName,omitempty"`
	Color        string `json:"color,omitempty"`
	Round        int    `json:"round"`
	GameNumber   int    `json:"gameNumber"`
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
}

// GridCell is one field at one time.
type GridCell struct {
	FieldID   string     `json:"fieldId"`
	Available bool       `json:"available"`
	Collision bool       `json:"collision"`
	Games     []GridGame `json:"games"`
}

// GridRow is one timeslot across all fields.
type GridRow struct {
	DateTime time.Time  `json:"dateTime"`
	Cells    []GridCell `json:"cells"`
}

// GridColumn is a field heading.
type GridColumn struct {
	FieldID   string `json:"fieldId"`
	FieldName string `json:"fieldName"`
}

// ScheduleGrid is the dates x fields view of a division.
type ScheduleGrid struct {
	DivisionID   string       `json:"divisionId"`
	FieldColumns []GridColumn `json:"fieldColumns"`
	Rows         []GridRow    `json:"rows"`
	Collisions   int          `json:"collisions"`
}
