package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/service"
	"github.com/noah-isme/league-scheduler-api/pkg/response"
)

type standingsReader interface {
	Standings(ctx context.Context, jobID string) (*dto.JobStandings, bool, error)
}

type bracketReader interface {
	Brackets(ctx context.Context, jobID string) ([]dto.BracketView, bool, error)
}

// StandingsHandler exposes the derived standings and bracket views of a job.
type StandingsHandler struct {
	standings standingsReader
	brackets  bracketReader
}

// NewStandingsHandler constructs the handler.
func NewStandingsHandler(standings *service.StandingsService, brackets *service.BracketService) *StandingsHandler {
	return &StandingsHandler{standings: standings, brackets: brackets}
}

// Standings godoc
// @Summary Division standings for a job
// @Tags Results
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /jobs/{id}/standings [get]
func (h *StandingsHandler) Standings(c *gin.Context) {
	standings, hit, err := h.standings.Standings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, standings, hit)
}

// Brackets godoc
// @Summary Elimination brackets for a job
// @Tags Results
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /jobs/{id}/brackets [get]
func (h *StandingsHandler) Brackets(c *gin.Context) {
	brackets, hit, err := h.brackets.Brackets(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, brackets, hit)
}
