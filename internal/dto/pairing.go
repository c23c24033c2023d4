package dto

// AddRoundRobinRequest appends roundCount full round-robin cycles for a pool.
type AddRoundRobinRequest struct {
	JobID      string `json:"jobId" validate:"required"`
	PoolSize   int    `json:"poolSize"`
	RoundCount int    `json:"roundCount"`
}

// AddEliminationRequest appends a single-elimination cascade starting at startTier.
type AddEliminationRequest struct {
	JobID     string `json:"jobId" validate:"required"`
	PoolSize  int    `json:"poolSize"`
	StartTier string `json:"startTier" validate:"required,len=1"`
}

// CreatePairingRequest adds one pairing. Omitted round and game number are
// placed after the current maximum for the pool.
type CreatePairingRequest struct {
	JobID      string  `json:"jobId" validate:"required"`
	PoolSize   int     `json:"poolSize" validate:"min=2"`
	Round      *int    `json:"round" validate:"omitempty,min=1"`
	GameNumber *int    `json:"gameNumber" validate:"omitempty,min=1"`
	Team1Rank  int     `json:"team1Rank" validate:"min=1"`
	Team2Rank  int     `json:"team2Rank" validate:"min=1"`
	Team1Type  string  `json:"team1Type" validate:"required,len=1"`
	Team2Type  string  `json:"team2Type" validate:"required,len=1"`
	Team1Ref   *string `json:"team1Ref"`
	Team2Ref   *string `json:"team2Ref"`
}

// UpdatePairingRequest edits the provided fields of a pairing.
type UpdatePairingRequest struct {
	Round      *int    `json:"round" validate:"omitempty,min=1"`
	GameNumber *int    `json:"gameNumber" validate:"omitempty,min=1"`
	Team1Rank  *int    `json:"team1Rank" validate:"omitempty,min=1"`
	Team2Rank  *int    `json:"team2Rank" validate:"omitempty,min=1"`
	Team1Type  *string `json:"team1Type" validate:"omitempty,len=1"`
	Team2Type  *string `json:"team2Type" validate:"omitempty,len=1"`
}

// PairingView is a row of the pairing table shown for a division.
type PairingView struct {
	ID          string `json:"id"`
	GameNumber  int    `json:"gameNumber"`
	Round       int    `json:"round"`
	Team1       string `json:"team1"`
	Team2       string `json:"team2"`
	Team1Type   string `json:"team1Type"`
	Team2Type   string `json:"team2Type"`
	IsAvailable bool   `json:"isAvailable"`
}

// DeletePairingBlockResult reports how many pairings were removed for a pool.
type DeletePairingBlockResult struct {
	JobID    string `json:"jobId"`
	PoolSize int    `json:"poolSize"`
	Deleted  int64  `json:"deleted"`
}
