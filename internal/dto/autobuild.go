package dto

import "github.com/noah-isme/league-scheduler-api/internal/models"

// AnalyzeRequest compares a source season against the target season.
type AnalyzeRequest struct {
	SourceJobID string `json:"sourceJobId" validate:"required"`
	TargetJobID string `json:"targetJobId" validate:"required,nefield=SourceJobID"`
}

// AutoBuildAnalysis is the dry-run view of an Auto-Build.
type AutoBuildAnalysis struct {
	SourceJobID      string                 `json:"sourceJobId"`
	TargetJobID      string                 `json:"targetJobId"`
	SourceTotalGames int                    `json:"sourceTotalGames"`
	DivisionMatches  []models.DivisionMatch `json:"divisionMatches"`
	Feasibility      models.Feasibility     `json:"feasibility"`
}

// ExecuteRequest runs an Auto-Build. Strategies are keyed by current division
// id and override the default chosen from the match type.
type ExecuteRequest struct {
	SourceJobID         string                          `json:"sourceJobId" validate:"required"`
	TargetJobID         string                          `json:"targetJobId" validate:"required,nefield=SourceJobID"`
	IncludeBracketGames *bool                           `json:"includeBracketGames"`
	Strategies          map[string]models.BuildStrategy `json:"strategies" validate:"omitempty,dive,oneof=pattern auto skip"`
}

// DivisionBuildResult is the outcome for one division of an Auto-Build.
type DivisionBuildResult struct {
	DivisionID    string               `json:"divisionId"`
	AgegroupName  string               `json:"agegroupName"`
	DivisionName  string               `json:"divisionName"`
	MatchType     models.MatchType     `json:"matchType"`
	Strategy      models.BuildStrategy `json:"strategy"`
	GamesPlaced   int                  `json:"gamesPlaced"`
	GamesFailed   int                  `json:"gamesFailed"`
	GamesUnplaced int                  `json:"gamesUnplaced"`
	Fallbacks     map[string]int       `json:"fallbacks,omitempty"`
	Error         string               `json:"error,omitempty"`
}

// AutoBuildResult aggregates every division of an Auto-Build.
type AutoBuildResult struct {
	TotalDivisions     int                   `json:"totalDivisions"`
	DivisionsScheduled int                   `json:"divisionsScheduled"`
	DivisionsSkipped   int                   `json:"divisionsSkipped"`
	TotalGamesPlaced   int                   `json:"totalGamesPlaced"`
	GamesFailedToPlace int                   `json:"gamesFailedToPlace"`
	GamesUnplaced      int                   `json:"gamesUnplaced"`
	Cancelled          bool                  `json:"cancelled"`
	PerDivisionResults []DivisionBuildResult `json:"perDivisionResults"`
}

// UndoResult reports a bulk delete of a job's games.
type UndoResult struct {
	JobID        string `json:"jobId"`
	DeletedGames int64  `json:"deletedGames"`
}
