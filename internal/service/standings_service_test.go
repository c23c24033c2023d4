package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

type memoryCacheRepo struct {
	items   map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	m.items = map[string][]byte{}
	return nil
}

func scoredGame(id, division string, t1, t2, s1, s2 int) models.Game {
	return models.Game{
		ID: id, JobID: "job-1", DivisionID: division, Round: 1,
		T1Rank: t1, T2Rank: t2, T1Type: models.TierTeam, T2Type: models.TierTeam,
		T1Score: intPtr(s1), T2Score: intPtr(s2), StatusCode: models.GameStatusCompleted,
	}
}

func standingsFixture(t *testing.T) (*leagueStub, *gameStoreStub) {
	fx := newScheduleFixture(t)
	fx.league.jobs = map[string]*models.Job{"job-1": {ID: "job-1", Year: "2025", SportName: "Soccer"}}
	fx.games.items = []models.Game{
		scoredGame("g1", "d1", 1, 2, 2, 1),
		scoredGame("g2", "d1", 3, 4, 0, 0),
	}
	return fx.league, fx.games
}

func TestStandingsServiceComputesAndCaches(t *testing.T) {
	league, games := standingsFixture(t)
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewStandingsService(league, games, cache, []string{"lacrosse"}, nil)

	standings, hit, err := svc.Standings(context.Background(), "job-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "points", standings.SortFamily)
	require.Len(t, standings.Divisions, 2)

	gold := standings.Divisions[0]
	require.Len(t, gold.Teams, 4)
	assert.Equal(t, "Arrows", gold.Teams[0].TeamName)
	assert.Equal(t, 1, gold.Teams[0].Rank)
	assert.Equal(t, 3, gold.Teams[0].Points)
	assert.Equal(t, "Bolts", gold.Teams[3].TeamName)

	silver := standings.Divisions[1]
	require.Len(t, silver.Teams, 2)
	assert.Zero(t, silver.Teams[0].Games)

	_, hit, err = svc.Standings(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Contains(t, repo.items, standingsCacheKey("job-1"))
}

func TestStandingsServiceUsesWinLossFamily(t *testing.T) {
	league, games := standingsFixture(t)
	league.jobs["job-1"].SportName = "Boys Lacrosse"
	svc := NewStandingsService(league, games, nil, []string{"lacrosse"}, nil)

	standings, _, err := svc.Standings(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "winLoss", standings.SortFamily)
}

func TestStandingsServiceUnknownJob(t *testing.T) {
	league, games := standingsFixture(t)
	svc := NewStandingsService(league, games, nil, nil, nil)

	_, _, err := svc.Standings(context.Background(), "job-404")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestScoreUpdateInvalidatesCachedViews(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.league.jobs = map[string]*models.Job{"job-1": {ID: "job-1", SportName: "Soccer"}}
	fx.games.items = []models.Game{{ID: "a", JobID: "job-1", DivisionID: "d1", T1Rank: 1, T2Rank: 2, T1Type: models.TierTeam, T2Type: models.TierTeam}}
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	standings := NewStandingsService(fx.league, fx.games, cache, nil, nil)
	schedule := NewScheduleService(fx.games, fx.pairings, fx.league, fx.timeslots, noopTxProvider{}, cache, nil, nil, nil)

	_, _, err := standings.Standings(context.Background(), "job-1")
	require.NoError(t, err)

	_, err = schedule.UpdateScore(context.Background(), "a", dtoScore(4, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"*:job:job-1"}, repo.deleted)

	fresh, hit, err := standings.Standings(context.Background(), "job-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, fresh.Divisions[0].Teams[0].Wins)
}
