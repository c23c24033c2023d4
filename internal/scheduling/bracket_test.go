package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

func bracketGames(t *testing.T) []models.Game {
	t.Helper()
	pairings, err := Elimination(4, models.TierQuarterfinal)
	require.NoError(t, err)
	games := make([]models.Game, 0, len(pairings))
	for _, p := range pairings {
		games = append(games, models.Game{
			ID:         "g" + string(rune('0'+p.GameNumber)),
			DivisionID: "d1",
			Round:      p.Round,
			GameNumber: p.GameNumber,
			T1Rank:     p.T1Rank,
			T2Rank:     p.T2Rank,
			T1Type:     p.T1Type,
			T2Type:     p.T2Type,
		})
	}
	return games
}

func TestResolveBracketQuarterfinalToFinal(t *testing.T) {
	games := bracketGames(t)
	games = append(games, models.Game{ID: "rr", DivisionID: "d1", T1Type: models.TierTeam, T2Type: models.TierTeam})

	nodes := ResolveBracket(games)
	require.Len(t, nodes, 7)

	parents := map[string]string{}
	var roots []string
	for _, n := range nodes {
		if n.ParentGameID == nil {
			roots = append(roots, n.Game.ID)
			continue
		}
		parents[n.Game.ID] = *n.ParentGameID
	}

	require.Equal(t, []string{"g7"}, roots)
	assert.Equal(t, "g5", parents["g1"])
	assert.Equal(t, "g5", parents["g2"])
	assert.Equal(t, "g6", parents["g3"])
	assert.Equal(t, "g6", parents["g4"])
	assert.Equal(t, "g7", parents["g5"])
	assert.Equal(t, "g7", parents["g6"])
}

func TestResolveBracketKeepsDivisionsApart(t *testing.T) {
	games := []models.Game{
		{ID: "semi", DivisionID: "d1", Round: 1, T1Rank: 1, T2Rank: 4, T1Type: models.TierSemifinal},
		{ID: "other-final", DivisionID: "d2", Round: 2, T1Rank: 1, T2Rank: 2, T1Type: models.TierFinal},
	}

	nodes := ResolveBracket(games)
	for _, n := range nodes {
		assert.Nil(t, n.ParentGameID)
	}
}

func TestChampion(t *testing.T) {
	games := bracketGames(t)

	_, _, ok := Champion(games)
	assert.False(t, ok, "unscored final")

	final := &games[len(games)-1]
	final.T1Score, final.T2Score = intPtr(2), intPtr(2)
	_, _, ok = Champion(games)
	assert.False(t, ok, "tied final")

	final.T2Score = intPtr(3)
	game, side, ok := Champion(games)
	require.True(t, ok)
	assert.Equal(t, SideTeam2, side)
	assert.Equal(t, "g7", game.ID)

	twoFinals := append(games, models.Game{ID: "dup", T1Type: models.TierFinal, T1Score: intPtr(1), T2Score: intPtr(0)})
	_, _, ok = Champion(twoFinals)
	assert.False(t, ok)
}
