package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

type scheduleServiceMock struct {
	lastMove   dto.MoveGameRequest
	lastFormat string
	err        error
}

func (m *scheduleServiceMock) AutoScheduleDivision(ctx context.Context, divisionID string) (*dto.AutoScheduleResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AutoScheduleResult{DivisionID: divisionID, ScheduledCount: 6}, nil
}

func (m *scheduleServiceMock) MoveGame(ctx context.Context, gameID string, req dto.MoveGameRequest) (*dto.MoveGameResult, error) {
	m.lastMove = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.MoveGameResult{Game: models.Game{ID: gameID, FieldID: req.FieldID, GameDate: req.GameDate, RescheduleCount: 1}}, nil
}

func (m *scheduleServiceMock) UpdateScore(ctx context.Context, gameID string, req dto.UpdateScoreRequest) (*models.Game, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Game{ID: gameID, T1Score: req.Team1Score, T2Score: req.Team2Score, StatusCode: models.GameStatusCompleted}, nil
}

func (m *scheduleServiceMock) BuildGrid(ctx context.Context, divisionID string) (*dto.ScheduleGrid, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ScheduleGrid{DivisionID: divisionID, FieldColumns: []dto.GridColumn{{FieldID: "f1", FieldName: "North"}}, Rows: []dto.GridRow{}}, nil
}

func (m *scheduleServiceMock) ExportGrid(ctx context.Context, divisionID, format string) (*service.ExportedFile, error) {
	m.lastFormat = format
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportedFile{Filename: "schedule-" + divisionID + ".csv", ContentType: "text/csv", Body: []byte("Date / Time,North\n")}, nil
}

func TestScheduleHandlerAutoSchedule(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{}}
	c, w := newTestContext(http.MethodPost, "/divisions/d1/auto-schedule", nil, gin.Param{Key: "id", Value: "d1"})

	h.AutoSchedule(c)

	require.Equal(t, http.StatusOK, w.Code)
	var result dto.AutoScheduleResult
	decodeEnvelope(t, w, &result)
	assert.Equal(t, "d1", result.DivisionID)
	assert.Equal(t, 6, result.ScheduledCount)
}

func TestScheduleHandlerMoveGame(t *testing.T) {
	mock := &scheduleServiceMock{}
	h := &ScheduleHandler{service: mock}
	at := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)
	c, w := newTestContext(http.MethodPost, "/games/g-1/move", dto.MoveGameRequest{FieldID: "f2", GameDate: at}, gin.Param{Key: "id", Value: "g-1"})

	h.MoveGame(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "f2", mock.lastMove.FieldID)
	assert.True(t, at.Equal(mock.lastMove.GameDate))
	var result dto.MoveGameResult
	decodeEnvelope(t, w, &result)
	assert.Equal(t, 1, result.Game.RescheduleCount)
	assert.Nil(t, result.Swapped)
}

func TestScheduleHandlerMoveGameNotFound(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "game not found")}}
	c, w := newTestContext(http.MethodPost, "/games/missing/move", dto.MoveGameRequest{FieldID: "f1", GameDate: time.Now()}, gin.Param{Key: "id", Value: "missing"})

	h.MoveGame(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerUpdateScoreBadBody(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{}}
	c, w := newTestContext(http.MethodPut, "/games/g-1/score", `{"team1Score":"three"}`, gin.Param{Key: "id", Value: "g-1"})

	h.UpdateScore(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGrid(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{}}
	c, w := newTestContext(http.MethodGet, "/divisions/d1/grid", nil, gin.Param{Key: "id", Value: "d1"})

	h.Grid(c)

	require.Equal(t, http.StatusOK, w.Code)
	var grid dto.ScheduleGrid
	decodeEnvelope(t, w, &grid)
	require.Len(t, grid.FieldColumns, 1)
	assert.Equal(t, "North", grid.FieldColumns[0].FieldName)
}

func TestScheduleHandlerExportGridDefaultsToCSV(t *testing.T) {
	mock := &scheduleServiceMock{}
	h := &ScheduleHandler{service: mock}
	c, w := newTestContext(http.MethodGet, "/divisions/d1/grid/export", nil, gin.Param{Key: "id", Value: "d1"})

	h.ExportGrid(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mock.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule-d1.csv")
	assert.Equal(t, "Date / Time,North\n", w.Body.String())
}

func TestScheduleHandlerExportGridUnsupportedFormat(t *testing.T) {
	mock := &scheduleServiceMock{err: appErrors.ErrUnsupportedFormat}
	h := &ScheduleHandler{service: mock}
	c, w := newTestContext(http.MethodGet, "/divisions/d1/grid/export?format=docx", nil, gin.Param{Key: "id", Value: "d1"})

	h.ExportGrid(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "docx", mock.lastFormat)
}

func TestScheduleHandlerUnexpectedErrorIsInternal(t *testing.T) {
	h := &ScheduleHandler{service: &scheduleServiceMock{err: errors.New("boom")}}
	c, w := newTestContext(http.MethodPost, "/divisions/d1/auto-schedule", nil, gin.Param{Key: "id", Value: "d1"})

	h.AutoSchedule(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
