package scheduling

import "github.com/noah-isme/league-scheduler-api/internal/models"

// SeedOrder returns bracket positions in standard order for size seeds, so
// that consecutive pairs are first-round matchups and the top seeds can only
// meet late: size 8 yields 1,8,4,5,2,7,3,6.
func SeedOrder(size int) []int {
	if size < 2 {
		return nil
	}
	order := []int{1, 2}
	for len(order) < size {
		n := len(order)*2 + 1
		next := make([]int, 0, len(order)*2)
		for _, seed := range order {
			next = append(next, seed, n-seed)
		}
		order = next
	}
	return order
}

// SeedMatchups is the canonical matchup table for a tier. The better seed is
// always team 1, which is the position that carries forward into the parent game.
func SeedMatchups(tier models.TierCode) [][2]int {
	order := SeedOrder(tier.SeedCount())
	matchups := make([][2]int, 0, len(order)/2)
	for i := 0; i+1 < len(order); i += 2 {
		a, b := order[i], order[i+1]
		if b < a {
			a, b = b, a
		}
		matchups = append(matchups, [2]int{a, b})
	}
	return matchups
}

// Elimination cascades from start through to the final. Each tier takes the
// next round number and continues the game numbering; slots after the first
// tier reference the winner of the feeding game. Rounds and game numbers start
// at 1, callers offset them like round-robin blocks.
func Elimination(poolSize int, start models.TierCode) ([]models.Pairing, error) {
	if !start.IsBracket() {
		return nil, ErrInvalidTier
	}
	if poolSize < 0 {
		return nil, ErrInvalidPoolSize
	}
	if poolSize <= 1 {
		return nil, nil
	}

	var pairings []models.Pairing
	// position -> game number of the previous tier's game that position came from
	feeders := map[int]int{}
	round, game := 0, 0
	for _, tier := range models.EliminationTiers {
		if tier < start {
			continue
		}
		round++
		current := map[int]int{}
		for _, mu := range SeedMatchups(tier) {
			game++
			p := models.Pairing{
				PoolSize:   poolSize,
				GameNumber: game,
				Round:      round,
				T1Rank:     mu[0],
				T2Rank:     mu[1],
				T1Type:     tier,
				T2Type:     tier,
			}
			if src, ok := feeders[mu[0]]; ok {
				p.SetTeam1Ref(&models.DerivedRef{GameNumber: src, Outcome: models.OutcomeWinner})
			}
			if src, ok := feeders[mu[1]]; ok {
				p.SetTeam2Ref(&models.DerivedRef{GameNumber: src, Outcome: models.OutcomeWinner})
			}
			current[mu[0]] = game
			pairings = append(pairings, p)
		}
		feeders = current
	}
	return pairings, nil
}
