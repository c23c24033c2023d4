package scheduling

import "github.com/noah-isme/league-scheduler-api/internal/models"

// RoundRobin builds the pairing table for poolSize teams playing cycles full
// round-robins. It uses the circle method: position m-1 stays fixed while the
// others rotate, and odd pools get a phantom bye position that is dropped.
// Rounds and game numbers start at 1; callers offset them against what is
// already stored. Every other cycle swaps home and away.
func RoundRobin(poolSize, cycles int) ([]models.Pairing, error) {
	if poolSize < 0 {
		return nil, ErrInvalidPoolSize
	}
	if cycles < 1 {
		return nil, ErrInvalidRoundCount
	}
	if poolSize <= 1 {
		return nil, nil
	}

	m := poolSize + poolSize%2
	fixed := m - 1
	bye := -1
	if poolSize%2 == 1 {
		bye = fixed
	}

	perCycle := poolSize * (poolSize - 1) / 2
	pairings := make([]models.Pairing, 0, perCycle*cycles)
	round, game := 0, 0
	for cycle := 0; cycle < cycles; cycle++ {
		for r := 0; r < m-1; r++ {
			round++
			matchups := make([][2]int, 0, m/2)
			if r%2 == 0 {
				matchups = append(matchups, [2]int{r, fixed})
			} else {
				matchups = append(matchups, [2]int{fixed, r})
			}
			for i := 1; i < m/2; i++ {
				a := (r + i) % (m - 1)
				b := (r - i + m - 1) % (m - 1)
				matchups = append(matchups, [2]int{a, b})
			}

			for _, mu := range matchups {
				home, away := mu[0], mu[1]
				if home == bye || away == bye {
					continue
				}
				if cycle%2 == 1 {
					home, away = away, home
				}
				game++
				pairings = append(pairings, models.Pairing{
					PoolSize:   poolSize,
					GameNumber: game,
					Round:      round,
					T1Rank:     home + 1,
					T2Rank:     away + 1,
					T1Type:     models.TierTeam,
					T2Type:     models.TierTeam,
				})
			}
		}
	}
	return pairings, nil
}

// OffsetPairings shifts round and game numbers so a new block appends after
// the existing maximums. Derived references move with the game numbers.
func OffsetPairings(pairings []models.Pairing, maxRound, maxGame int) {
	for i := range pairings {
		p := &pairings[i]
		p.Round += maxRound
		p.GameNumber += maxGame
		if p.T1RefGame != nil {
			shifted := *p.T1RefGame + maxGame
			p.T1RefGame = &shifted
		}
		if p.T2RefGame != nil {
			shifted := *p.T2RefGame + maxGame
			p.T2RefGame = &shifted
		}
	}
}
