package dto

import "github.com/noah-isme/league-scheduler-api/internal/models"

// StandingsByDivision is one division's ranked table.
type StandingsByDivision struct {
	DivisionID   string               `json:"divisionId"`
	DivisionName string               `json:"divisionName"`
	AgegroupName string               `json:"agegroupName"`
	Teams        []models.StandingRow `json:"teams"`
}

// JobStandings wraps every division of a job.
type JobStandings struct {
	JobID      string                `json:"jobId"`
	SortFamily string                `json:"sortFamily"`
	Divisions  []StandingsByDivision `json:"divisions"`
}

// BracketMatch is one game of a bracket tree.
type BracketMatch struct {
	GameID       string  `json:"gameId"`
	ParentGameID *string `json:"parentGameId,omitempty"`
	Tier         string  `json:"tier"`
	Round        int     `json:"round"`
	GameNumber   int     `json:"gameNumber"`
	Team1        string  `json:"team1"`
	Team2        string  `json:"team2"`
	Team1Score   *int    `json:"team1Score,omitempty"`
	Team2Score   *int    `json:"team2Score,omitempty"`
}

// BracketView is one division's elimination bracket.
type BracketView struct {
	DivisionKey  string         `json:"divisionOrAgegroupKey"`
	DivisionName string         `json:"divisionName"`
	AgegroupName string         `json:"agegroupName"`
	Champion     *string        `json:"champion,omitempty"`
	Matches      []BracketMatch `json:"matches"`
}
