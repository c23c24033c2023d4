package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

type scheduleFixture struct {
	league    *leagueStub
	timeslots *timeslotStub
	pairings  *pairingStoreStub
	games     *gameStoreStub
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	rr, err := scheduling.RoundRobin(4, 1)
	require.NoError(t, err)
	for i := range rr {
		rr[i].ID = "rr-" + string(rune('a'+i))
		rr[i].JobID = "job-1"
	}
	return &scheduleFixture{
		league: &leagueStub{
			divisions: []models.Division{
				{ID: "d1", JobID: "job-1", AgegroupID: "ag1", AgegroupName: "U10", AgegroupColor: "#f00", Name: "Gold", TeamCount: 4},
				{ID: "d2", JobID: "job-1", AgegroupID: "ag2", AgegroupName: "U12", AgegroupColor: "#00f", Name: "Silver", TeamCount: 2},
			},
			teams: []models.Team{
				{ID: "t1", DivisionID: "d1", Name: "Arrows", DivRank: 1},
				{ID: "t2", DivisionID: "d1", Name: "Bolts", DivRank: 2},
				{ID: "t3", DivisionID: "d1", Name: "Comets", DivRank: 3},
				{ID: "t4", DivisionID: "d1", Name: "Dragons", DivRank: 4},
				{ID: "t5", DivisionID: "d2", Name: "Eagles", DivRank: 1},
				{ID: "t6", DivisionID: "d2", Name: "Foxes", DivRank: 2},
			},
		},
		timeslots: &timeslotStub{
			agegroupDates:  map[string][]models.TimeslotDate{"ag1": saturdays("ag1", 2)},
			agegroupFields: map[string][]models.TimeslotField{"ag1": saturdayFields("ag1", 3, "North")},
		},
		pairings: &pairingStoreStub{items: rr},
		games:    &gameStoreStub{},
	}
}

func (f *scheduleFixture) service(tx txProvider) *ScheduleService {
	return NewScheduleService(f.games, f.pairings, f.league, f.timeslots, tx, nil, nil, nil, nil)
}

func TestScheduleServiceAutoScheduleFourTeams(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.games.items = []models.Game{{ID: "stale", JobID: "job-1", DivisionID: "d1", FieldID: "f1", GameDate: saturday.Add(8 * time.Hour)}}
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := fx.service(tx).AutoScheduleDivision(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 6, result.ScheduledCount)
	assert.Equal(t, 0, result.FailedCount)
	require.Len(t, fx.games.items, 6)

	seen := map[time.Time]struct{}{}
	for _, g := range fx.games.items {
		assert.NotEqual(t, "stale", g.ID)
		_, dup := seen[g.GameDate]
		assert.False(t, dup, "slot %s used twice", g.GameDate)
		seen[g.GameDate] = struct{}{}
	}
	assert.Equal(t, saturday.Add(8*time.Hour), fx.games.items[0].GameDate)
	assert.Equal(t, 1, fx.games.items[0].GameNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceAutoScheduleCountsFailures(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.games.items = []models.Game{{ID: "other", JobID: "job-1", DivisionID: "d2", FieldID: "f1", GameDate: saturday.Add(8 * time.Hour)}}
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := fx.service(tx).AutoScheduleDivision(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 5, result.ScheduledCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, fx.games.items, 6)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceAutoScheduleRejectsBadTimeslots(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.timeslots.agegroupFields["ag1"][0].DayOfWeek = "Caturday"

	_, err := fx.service(noopTxProvider{}).AutoScheduleDivision(context.Background(), "d1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfiguration))

	_, err = fx.service(noopTxProvider{}).AutoScheduleDivision(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestScheduleServiceMoveGameSwapsOccupiedSlot(t *testing.T) {
	fx := newScheduleFixture(t)
	eight, nine := saturday.Add(8*time.Hour), saturday.Add(9*time.Hour)
	fx.games.items = []models.Game{
		{ID: "a", JobID: "job-1", DivisionID: "d1", FieldID: "f1", GameDate: eight},
		{ID: "b", JobID: "job-1", DivisionID: "d1", FieldID: "f2", GameDate: nine},
	}
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := fx.service(tx).MoveGame(context.Background(), "a", dto.MoveGameRequest{FieldID: "f2", GameDate: nine})
	require.NoError(t, err)
	require.NotNil(t, result.Swapped)

	assert.Equal(t, "f2", result.Game.FieldID)
	assert.Equal(t, nine, result.Game.GameDate)
	assert.Equal(t, "f1", result.Swapped.FieldID)
	assert.Equal(t, eight, result.Swapped.GameDate)

	assert.Equal(t, "f2", fx.games.items[0].FieldID)
	assert.Equal(t, "f1", fx.games.items[1].FieldID)
	assert.Equal(t, 1, fx.games.items[0].RescheduleCount)
	assert.Equal(t, 1, fx.games.items[1].RescheduleCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceMoveGameToEmptySlot(t *testing.T) {
	fx := newScheduleFixture(t)
	eight, ten := saturday.Add(8*time.Hour), saturday.Add(10*time.Hour)
	fx.games.items = []models.Game{{ID: "a", JobID: "job-1", DivisionID: "d1", FieldID: "f1", GameDate: eight}}
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	svc := fx.service(tx)

	result, err := svc.MoveGame(context.Background(), "a", dto.MoveGameRequest{FieldID: "f1", GameDate: ten})
	require.NoError(t, err)
	assert.Nil(t, result.Swapped)
	assert.Equal(t, ten, fx.games.items[0].GameDate)
	assert.Equal(t, 1, result.Game.RescheduleCount)

	result, err = svc.MoveGame(context.Background(), "a", dto.MoveGameRequest{FieldID: "f1", GameDate: ten})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Game.RescheduleCount)
	assert.Equal(t, 1, fx.games.items[0].RescheduleCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceMoveGameNotFound(t *testing.T) {
	fx := newScheduleFixture(t)
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := fx.service(tx).MoveGame(context.Background(), "missing", dto.MoveGameRequest{FieldID: "f1", GameDate: saturday})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleServiceUpdateScore(t *testing.T) {
	fx := newScheduleFixture(t)
	fx.games.items = []models.Game{{ID: "a", JobID: "job-1", DivisionID: "d1", StatusCode: models.GameStatusScheduled}}
	svc := fx.service(noopTxProvider{})

	game, err := svc.UpdateScore(context.Background(), "a", dto.UpdateScoreRequest{Team1Score: intPtr(3), Team2Score: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, game.StatusCode)
	assert.Equal(t, 3, *fx.games.items[0].T1Score)

	game, err = svc.UpdateScore(context.Background(), "a", dto.UpdateScoreRequest{Team1Score: intPtr(0), Team2Score: intPtr(1), StatusCode: models.GameStatusForfeit})
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusForfeit, game.StatusCode)

	_, err = svc.UpdateScore(context.Background(), "a", dto.UpdateScoreRequest{Team1Score: intPtr(1)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.UpdateScore(context.Background(), "missing", dto.UpdateScoreRequest{Team1Score: intPtr(1), Team2Score: intPtr(1)})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func gridFixture(t *testing.T) *scheduleFixture {
	fx := newScheduleFixture(t)
	fields := saturdayFields("ag1", 2, "North", "South")
	fields[1].MaxGamesPerField = 1
	fx.timeslots.agegroupDates["ag1"] = saturdays("ag1", 1)
	fx.timeslots.agegroupFields["ag1"] = fields
	eight := saturday.Add(8 * time.Hour)
	fx.games.items = []models.Game{
		{ID: "gA", JobID: "job-1", DivisionID: "d1", FieldID: "f1", GameDate: eight, Round: 1, GameNumber: 1, T1Rank: 1, T2Rank: 2, T1Type: models.TierTeam, T2Type: models.TierTeam},
		{ID: "gB", JobID: "job-1", DivisionID: "d1", FieldID: "f2", GameDate: eight, Round: 1, GameNumber: 2, T1Rank: 3, T2Rank: 4, T1Type: models.TierTeam, T2Type: models.TierTeam},
		{ID: "gC", JobID: "job-1", DivisionID: "d2", FieldID: "f2", GameDate: eight, Round: 1, GameNumber: 1, T1Rank: 1, T2Rank: 2, T1Type: models.TierTeam, T2Type: models.TierTeam},
		{ID: "elsewhere", JobID: "job-1", DivisionID: "d2", FieldID: "f9", GameDate: eight, T1Type: models.TierTeam, T2Type: models.TierTeam},
	}
	return fx
}

func TestScheduleServiceBuildGrid(t *testing.T) {
	fx := gridFixture(t)

	grid, err := fx.service(noopTxProvider{}).BuildGrid(context.Background(), "d1")
	require.NoError(t, err)

	require.Len(t, grid.FieldColumns, 2)
	assert.Equal(t, "North", grid.FieldColumns[0].FieldName)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, 1, grid.Collisions)

	first := grid.Rows[0]
	assert.Equal(t, saturday.Add(8*time.Hour), first.DateTime)
	require.Len(t, first.Cells[0].Games, 1)
	assert.Equal(t, "Arrows", first.Cells[0].Games[0].Team1)
	assert.Equal(t, "Bolts", first.Cells[0].Games[0].Team2)
	assert.Equal(t, "#f00", first.Cells[0].Games[0].Color)

	assert.True(t, first.Cells[1].Collision)
	require.Len(t, first.Cells[1].Games, 2)
	assert.Equal(t, "Eagles", first.Cells[1].Games[1].Team1)
	assert.Equal(t, "U12", first.Cells[1].Games[1].AgegroupName)

	second := grid.Rows[1]
	assert.True(t, second.Cells[0].Available)
	assert.Empty(t, second.Cells[0].Games)
	assert.False(t, second.Cells[1].Available)
}

func TestScheduleServiceExportGridCSV(t *testing.T) {
	fx := gridFixture(t)

	file, err := fx.service(noopTxProvider{}).ExportGrid(context.Background(), "d1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "schedule-d1.csv", file.Filename)

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date / Time", "North", "South"}, records[0])
	assert.Equal(t, []string{"Sat 2025-05-03 08:00", "Arrows vs Bolts", "Comets vs Dragons / Eagles vs Foxes"}, records[1])
	assert.Equal(t, []string{"Sat 2025-05-03 09:00", "", "-"}, records[2])
}

func TestScheduleServiceExportGridRejectsUnknownFormat(t *testing.T) {
	fx := gridFixture(t)

	_, err := fx.service(noopTxProvider{}).ExportGrid(context.Background(), "d1", "docx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFormat))
}
