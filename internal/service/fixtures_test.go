package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

// 2025-05-03 is a Saturday.
var saturday = time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)

type noopTxProvider struct{}

func (noopTxProvider) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider unavailable")
}

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type leagueStub struct {
	jobs       map[string]*models.Job
	divisions  []models.Division
	teams      []models.Team
	fieldNames map[string][]string
	usedFields map[string][]string
}

func (s *leagueStub) FindJob(ctx context.Context, id string) (*models.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *job
	return &clone, nil
}

func (s *leagueStub) FindDivision(ctx context.Context, id string) (*models.Division, error) {
	for _, d := range s.divisions {
		if d.ID == id {
			clone := d
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *leagueStub) ListDivisionsByJob(ctx context.Context, jobID string) ([]models.Division, error) {
	var out []models.Division
	for _, d := range s.divisions {
		if d.JobID == jobID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *leagueStub) ListTeamsByJob(ctx context.Context, jobID string) ([]models.Team, error) {
	inJob := map[string]struct{}{}
	for _, d := range s.divisions {
		if d.JobID == jobID {
			inJob[d.ID] = struct{}{}
		}
	}
	var out []models.Team
	for _, t := range s.teams {
		if _, ok := inJob[t.DivisionID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *leagueStub) ListFieldNamesByJob(ctx context.Context, jobID string) ([]string, error) {
	return s.fieldNames[jobID], nil
}

func (s *leagueStub) ListFieldNamesUsedByJob(ctx context.Context, jobID string) ([]string, error) {
	return s.usedFields[jobID], nil
}

type timeslotStub struct {
	divisionDates  map[string][]models.TimeslotDate
	agegroupDates  map[string][]models.TimeslotDate
	divisionFields map[string][]models.TimeslotField
	agegroupFields map[string][]models.TimeslotField
}

func (s *timeslotStub) ListDatesByDivision(ctx context.Context, divisionID string) ([]models.TimeslotDate, error) {
	return s.divisionDates[divisionID], nil
}

func (s *timeslotStub) ListDatesByAgegroup(ctx context.Context, agegroupID string) ([]models.TimeslotDate, error) {
	return s.agegroupDates[agegroupID], nil
}

func (s *timeslotStub) ListFieldsByDivision(ctx context.Context, divisionID string) ([]models.TimeslotField, error) {
	return s.divisionFields[divisionID], nil
}

func (s *timeslotStub) ListFieldsByAgegroup(ctx context.Context, agegroupID string) ([]models.TimeslotField, error) {
	return s.agegroupFields[agegroupID], nil
}

// saturdayFields offers maxGames back-to-back games from 08:00 on each field.
func saturdayFields(agegroupID string, maxGames int, names ...string) []models.TimeslotField {
	out := make([]models.TimeslotField, 0, len(names))
	for i, name := range names {
		out = append(out, models.TimeslotField{
			AgegroupID:       agegroupID,
			FieldID:          fmt.Sprintf("f%d", i+1),
			FieldName:        name,
			DayOfWeek:        "Saturday",
			StartTime:        "08:00",
			IntervalMinutes:  60,
			MaxGamesPerField: maxGames,
		})
	}
	return out
}

func saturdays(agegroupID string, n int) []models.TimeslotDate {
	out := make([]models.TimeslotDate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.TimeslotDate{AgegroupID: agegroupID, GameDate: saturday.AddDate(0, 0, 7*i)})
	}
	return out
}

type pairingStoreStub struct {
	items     []models.Pairing
	seq       int
	createErr error
}

func (s *pairingStoreStub) CreateBatch(ctx context.Context, exec sqlx.ExtContext, pairings []*models.Pairing) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, p := range pairings {
		s.seq++
		p.ID = fmt.Sprintf("p-%d", s.seq)
		s.items = append(s.items, *p)
	}
	return nil
}

func (s *pairingStoreStub) FindByID(ctx context.Context, id string) (*models.Pairing, error) {
	for _, p := range s.items {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *pairingStoreStub) Update(ctx context.Context, exec sqlx.ExtContext, pairing *models.Pairing) error {
	for i := range s.items {
		if s.items[i].ID == pairing.ID {
			s.items[i] = *pairing
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *pairingStoreStub) Delete(ctx context.Context, id string) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *pairingStoreStub) MaxRoundAndGame(ctx context.Context, exec sqlx.ExtContext, jobID string, poolSize int) (int, int, error) {
	var maxRound, maxGame int
	for _, p := range s.items {
		if p.JobID != jobID || p.PoolSize != poolSize {
			continue
		}
		if p.Round > maxRound {
			maxRound = p.Round
		}
		if p.GameNumber > maxGame {
			maxGame = p.GameNumber
		}
	}
	return maxRound, maxGame, nil
}

func (s *pairingStoreStub) ListByPool(ctx context.Context, jobID string, poolSize int) ([]models.Pairing, error) {
	var out []models.Pairing
	for _, p := range s.items {
		if p.JobID == jobID && p.PoolSize == poolSize {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].GameNumber < out[j].GameNumber
	})
	return out, nil
}

func (s *pairingStoreStub) DeleteByPool(ctx context.Context, jobID string, poolSize int) (int64, error) {
	kept := s.items[:0]
	var deleted int64
	for _, p := range s.items {
		if p.JobID == jobID && p.PoolSize == poolSize {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	s.items = kept
	return deleted, nil
}

type gameStoreStub struct {
	items     []models.Game
	source    map[string][]models.PatternSourceGame
	seq       int
	createErr error
}

func (s *gameStoreStub) CreateBatch(ctx context.Context, exec sqlx.ExtContext, games []*models.Game) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, g := range games {
		s.seq++
		g.ID = fmt.Sprintf("g-%d", s.seq)
		s.items = append(s.items, *g)
	}
	return nil
}

func (s *gameStoreStub) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Game, error) {
	for _, g := range s.items {
		if g.ID == id {
			clone := g
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *gameStoreStub) FindAtSlot(ctx context.Context, exec sqlx.ExtContext, jobID, fieldID string, at time.Time) (*models.Game, error) {
	for _, g := range s.items {
		if g.JobID == jobID && g.FieldID == fieldID && g.GameDate.Equal(at) {
			clone := g
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *gameStoreStub) UpdateSlot(ctx context.Context, exec sqlx.ExtContext, id, fieldID string, at time.Time) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].FieldID = fieldID
			s.items[i].GameDate = at
			s.items[i].RescheduleCount++
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *gameStoreStub) UpdateScore(ctx context.Context, id string, team1, team2, status int) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].T1Score = &team1
			s.items[i].T2Score = &team2
			s.items[i].StatusCode = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *gameStoreStub) deleteWhere(match func(models.Game) bool) int64 {
	kept := s.items[:0]
	var deleted int64
	for _, g := range s.items {
		if match(g) {
			deleted++
			continue
		}
		kept = append(kept, g)
	}
	s.items = kept
	return deleted
}

func (s *gameStoreStub) DeleteByDivision(ctx context.Context, exec sqlx.ExtContext, divisionID string) (int64, error) {
	return s.deleteWhere(func(g models.Game) bool { return g.DivisionID == divisionID }), nil
}

func (s *gameStoreStub) DeleteByJob(ctx context.Context, exec sqlx.ExtContext, jobID string) (int64, error) {
	return s.deleteWhere(func(g models.Game) bool { return g.JobID == jobID }), nil
}

func (s *gameStoreStub) ListByJob(ctx context.Context, jobID string) ([]models.Game, error) {
	var out []models.Game
	for _, g := range s.items {
		if g.JobID == jobID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *gameStoreStub) ListByDivision(ctx context.Context, divisionID string) ([]models.Game, error) {
	var out []models.Game
	for _, g := range s.items {
		if g.DivisionID == divisionID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *gameStoreStub) ListOccupiedSlots(ctx context.Context, exec sqlx.ExtContext, jobID string) ([]models.GameSlot, error) {
	var out []models.GameSlot
	for _, g := range s.items {
		if g.JobID == jobID {
			out = append(out, models.GameSlot{FieldID: g.FieldID, GameDate: g.GameDate})
		}
	}
	return out, nil
}

func (s *gameStoreStub) ListPatternSource(ctx context.Context, jobID string) ([]models.PatternSourceGame, error) {
	return s.source[jobID], nil
}

func (s *gameStoreStub) CountByJob(ctx context.Context, jobID string) (int, error) {
	return len(s.source[jobID]), nil
}
