package scheduling

import (
	"sort"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// BracketSide identifies which side of a game won.
type BracketSide int

const (
	SideNone BracketSide = iota
	SideTeam1
	SideTeam2
)

// ResolveBracket links each bracket game of one division to its parent: the
// game one round later whose team1 or team2 rank equals this game's team1
// rank. Games without a parent are roots. Non-bracket games are ignored and
// output is ordered by round then game number.
func ResolveBracket(games []models.Game) []models.BracketNode {
	var bracket []models.Game
	for _, g := range games {
		if g.IsBracket() {
			bracket = append(bracket, g)
		}
	}
	sort.SliceStable(bracket, func(i, j int) bool {
		if bracket[i].Round != bracket[j].Round {
			return bracket[i].Round < bracket[j].Round
		}
		return bracket[i].GameNumber < bracket[j].GameNumber
	})

	byRound := map[int][]models.Game{}
	for _, g := range bracket {
		byRound[g.Round] = append(byRound[g.Round], g)
	}

	nodes := make([]models.BracketNode, 0, len(bracket))
	for _, g := range bracket {
		node := models.BracketNode{Game: g}
		for _, candidate := range byRound[g.Round+1] {
			if candidate.DivisionID != g.DivisionID {
				continue
			}
			if candidate.T1Rank == g.T1Rank || candidate.T2Rank == g.T1Rank {
				id := candidate.ID
				node.ParentGameID = &id
				break
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Winner compares scores; SideNone means unscored or tied.
func Winner(g models.Game) BracketSide {
	if !g.Scored() {
		return SideNone
	}
	switch {
	case *g.T1Score > *g.T2Score:
		return SideTeam1
	case *g.T2Score > *g.T1Score:
		return SideTeam2
	default:
		return SideNone
	}
}

// Champion returns the finals game and its winning side. ok is false when
// there is not exactly one final, or the final is unscored or tied.
func Champion(games []models.Game) (models.Game, BracketSide, bool) {
	var finals []models.Game
	for _, g := range games {
		if g.T1Type == models.TierFinal {
			finals = append(finals, g)
		}
	}
	if len(finals) != 1 {
		return models.Game{}, SideNone, false
	}
	side := Winner(finals[0])
	if side == SideNone {
		return finals[0], SideNone, false
	}
	return finals[0], side, true
}
