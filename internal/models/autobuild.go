package models

import "time"

// MatchType classifies how a division lines up across two seasons.
type MatchType string

const (
	MatchExact           MatchType = "ExactMatch"
	MatchSizeMismatch    MatchType = "SizeMismatch"
	MatchNewDivision     MatchType = "NewDivision"
	MatchRemovedDivision MatchType = "RemovedDivision"
)

// BuildStrategy decides how a division is scheduled during Auto-Build.
type BuildStrategy string

const (
	StrategyPattern BuildStrategy = "pattern"
	StrategyAuto    BuildStrategy = "auto"
	StrategySkip    BuildStrategy = "skip"
)

// Confidence levels for Auto-Build feasibility.
const (
	ConfidenceGreen  = "green"
	ConfidenceYellow = "yellow"
	ConfidenceRed    = "red"
)

// DivisionMatch pairs a source-season division with its current counterpart.
type DivisionMatch struct {
	AgegroupName       string    `json:"agegroupName"`
	DivisionName       string    `json:"divisionName"`
	SourceAgegroupName string    `json:"sourceAgegroupName,omitempty"`
	SourceDivisionName string    `json:"sourceDivisionName,omitempty"`
	SourceDivisionID   *string   `json:"sourceDivisionId,omitempty"`
	CurrentDivisionID  *string   `json:"currentDivisionId,omitempty"`
	SourceTeamCount    int       `json:"sourceTeamCount"`
	CurrentTeamCount   int       `json:"currentTeamCount"`
	MatchType          MatchType `json:"matchType"`
}

// Feasibility summarises how well a source season transfers.
type Feasibility struct {
	ConfidencePercent int      `json:"confidencePercent"`
	ConfidenceLevel   string   `json:"confidenceLevel"`
	Warnings          []string `json:"warnings"`
}

// PatternSourceGame is a historical game joined with the names that make it
// portable across seasons.
type PatternSourceGame struct {
	GameID       string    `db:"id"`
	DivisionID   string    `db:"division_id"`
	AgegroupName string    `db:"agegroup_name"`
	DivisionName string    `db:"division_name"`
	FieldName    string    `db:"field_name"`
	GameDate     time.Time `db:"game_date"`
	Round        int       `db:"round"`
	GameNumber   int       `db:"game_number"`
	T1Rank       int       `db:"t1_rank"`
	T2Rank       int       `db:"t2_rank"`
	T1Type       TierCode  `db:"t1_type"`
	T2Type       TierCode  `db:"t2_type"`
}

// PlacementPattern is one season-independent placement rule.
type PlacementPattern struct {
	AgegroupName string        `json:"agegroupName"`
	DivisionName string        `json:"divisionName"`
	DayOrdinal   int           `json:"dayOrdinal"`
	FieldName    string        `json:"fieldName"`
	TimeOfDay    time.Duration `json:"timeOfDay"`
	Round        int           `json:"round"`
	GameNumber   int           `json:"gameNumber"`
	T1Type       TierCode      `json:"team1Type"`
	T2Type       TierCode      `json:"team2Type"`
	T1Rank       int           `json:"team1Rank"`
	T2Rank       int           `json:"team2Rank"`
}
