package models

// StandingRow is one team's aggregated round-robin record inside a division.
type StandingRow struct {
	TeamID        string  `json:"teamId"`
	TeamName      string  `json:"teamName"`
	DivisionID    string  `json:"divisionId"`
	Rank          int     `json:"rank"`
	Games         int     `json:"games"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	GoalsFor      int     `json:"goalsFor"`
	GoalsAgainst  int     `json:"goalsAgainst"`
	GoalDiff      int     `json:"goalDiff"`
	Points        int     `json:"points"`
	PointsPerGame float64 `json:"pointsPerGame"`
}

// BracketNode links a bracket game to the game its winner advances into.
type BracketNode struct {
	Game         Game    `json:"game"`
	ParentGameID *string `json:"parentGameId,omitempty"`
}
