package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DerivedOutcome selects which side of an earlier game feeds a bracket slot.
type DerivedOutcome string

const (
	OutcomeWinner DerivedOutcome = "W"
	OutcomeLoser  DerivedOutcome = "L"
)

// DerivedRef points a bracket slot at the winner or loser of an earlier game.
type DerivedRef struct {
	GameNumber int            `json:"gameNumber"`
	Outcome    DerivedOutcome `json:"outcome"`
}

// Label renders the reference the way schedules print it, e.g. "W12".
func (r DerivedRef) Label() string {
	return fmt.Sprintf("%s%d", r.Outcome, r.GameNumber)
}

// Pairing is an abstract matchup between two rank slots within a pool.
type Pairing struct {
	ID           string          `db:"id" json:"id"`
	JobID        string          `db:"job_id" json:"jobId"`
	PoolSize     int             `db:"pool_size" json:"poolSize"`
	GameNumber   int             `db:"game_number" json:"gameNumber"`
	Round        int             `db:"round" json:"round"`
	T1Rank       int             `db:"t1_rank" json:"team1Rank"`
	T2Rank       int             `db:"t2_rank" json:"team2Rank"`
	T1Type       TierCode        `db:"t1_type" json:"team1Type"`
	T2Type       TierCode        `db:"t2_type" json:"team2Type"`
	T1RefGame    *int            `db:"t1_ref_game" json:"-"`
	T1RefOutcome *DerivedOutcome `db:"t1_ref_outcome" json:"-"`
	T2RefGame    *int            `db:"t2_ref_game" json:"-"`
	T2RefOutcome *DerivedOutcome `db:"t2_ref_outcome" json:"-"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

// Team1Ref returns the derived reference for the first slot, if any.
func (p Pairing) Team1Ref() *DerivedRef {
	return derivedRef(p.T1RefGame, p.T1RefOutcome)
}

// Team2Ref returns the derived reference for the second slot, if any.
func (p Pairing) Team2Ref() *DerivedRef {
	return derivedRef(p.T2RefGame, p.T2RefOutcome)
}

// SetTeam1Ref stores ref in the nullable columns.
func (p *Pairing) SetTeam1Ref(ref *DerivedRef) {
	p.T1RefGame, p.T1RefOutcome = splitRef(ref)
}

// SetTeam2Ref stores ref in the nullable columns.
func (p *Pairing) SetTeam2Ref(ref *DerivedRef) {
	p.T2RefGame, p.T2RefOutcome = splitRef(ref)
}

// IsRoundRobin reports whether both slots are round-robin team slots.
func (p Pairing) IsRoundRobin() bool {
	return p.T1Type == TierTeam && p.T2Type == TierTeam
}

func derivedRef(game *int, outcome *DerivedOutcome) *DerivedRef {
	if game == nil || outcome == nil {
		return nil
	}
	return &DerivedRef{GameNumber: *game, Outcome: *outcome}
}

func splitRef(ref *DerivedRef) (*int, *DerivedOutcome) {
	if ref == nil {
		return nil, nil
	}
	game := ref.GameNumber
	outcome := ref.Outcome
	return &game, &outcome
}

// ParseDerivedRef reads labels such as "W12" or "l3".
func ParseDerivedRef(raw string) (*DerivedRef, error) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if len(label) < 2 {
		return nil, fmt.Errorf("invalid derived reference %q", raw)
	}
	outcome := DerivedOutcome(label[:1])
	if outcome != OutcomeWinner && outcome != OutcomeLoser {
		return nil, fmt.Errorf("invalid derived reference outcome %q", raw)
	}
	game, err := strconv.Atoi(label[1:])
	if err != nil || game < 1 {
		return nil, fmt.Errorf("invalid derived reference game %q", raw)
	}
	return &DerivedRef{GameNumber: game, Outcome: outcome}, nil
}
