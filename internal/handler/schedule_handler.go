package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/service"
	"github.com/noah-isme/league-scheduler-api/pkg/response"
)

type scheduleManager interface {
	AutoScheduleDivision(ctx context.Context, divisionID string) (*dto.AutoScheduleResult, error)
	MoveGame(ctx context.Context, gameID string, req dto.MoveGameRequest) (*dto.MoveGameResult, error)
	UpdateScore(ctx context.Context, gameID string, req dto.UpdateScoreRequest) (*models.Game, error)
	BuildGrid(ctx context.Context, divisionID string) (*dto.ScheduleGrid, error)
	ExportGrid(ctx context.Context, divisionID, format string) (*service.ExportedFile, error)
}

// ScheduleHandler exposes game placement and grid endpoints.
type ScheduleHandler struct {
	service scheduleManager
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// AutoSchedule godoc
// @Summary Replace a division's games with a greedy round-robin placement
// @Tags Schedule
// @Produce json
// @Param id path string true "Division ID"
// @Success 200 {object} response.Envelope
// @Router /divisions/{id}/auto-schedule [post]
func (h *ScheduleHandler) AutoSchedule(c *gin.Context) {
	result, err := h.service.AutoScheduleDivision(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Grid godoc
// @Summary Dates by fields grid for a division
// @Tags Schedule
// @Produce json
// @Param id path string true "Division ID"
// @Success 200 {object} response.Envelope
// @Router /divisions/{id}/grid [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	grid, err := h.service.BuildGrid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid)
}

// ExportGrid godoc
// @Summary Download a division grid
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Division ID"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /divisions/{id}/grid/export [get]
func (h *ScheduleHandler) ExportGrid(c *gin.Context) {
	file, err := h.service.ExportGrid(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Body)
}

// MoveGame godoc
// @Summary Move a game, swapping with the game already in the target slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param payload body dto.MoveGameRequest true "Target slot"
// @Success 200 {object} response.Envelope
// @Router /games/{id}/move [post]
func (h *ScheduleHandler) MoveGame(c *gin.Context) {
	var req dto.MoveGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "move"))
		return
	}
	result, err := h.service.MoveGame(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// UpdateScore godoc
// @Summary Record a game result
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param payload body dto.UpdateScoreRequest true "Scores"
// @Success 200 {object} response.Envelope
// @Router /games/{id}/score [put]
func (h *ScheduleHandler) UpdateScore(c *gin.Context) {
	var req dto.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "score"))
		return
	}
	game, err := h.service.UpdateScore(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, game)
}
