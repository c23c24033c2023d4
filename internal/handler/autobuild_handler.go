package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/service"
	"github.com/noah-isme/league-scheduler-api/pkg/response"
)

type autoBuilder interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AutoBuildAnalysis, error)
	Execute(ctx context.Context, req dto.ExecuteRequest) (*dto.AutoBuildResult, error)
	Undo(ctx context.Context, jobID string) (*dto.UndoResult, error)
}

// AutoBuildHandler exposes season-to-season schedule copying.
type AutoBuildHandler struct {
	service autoBuilder
}

// NewAutoBuildHandler constructs the handler.
func NewAutoBuildHandler(svc *service.AutoBuildService) *AutoBuildHandler {
	return &AutoBuildHandler{service: svc}
}

// Analyze godoc
// @Summary Compare a source season with the target season
// @Description Dry run: matches divisions and scores how well the source pattern transfers.
// @Tags Auto-Build
// @Accept json
// @Produce json
// @Param payload body dto.AnalyzeRequest true "Seasons"
// @Success 200 {object} response.Envelope
// @Router /auto-build/analyze [post]
func (h *AutoBuildHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "auto-build"))
		return
	}
	analysis, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis)
}

// Execute godoc
// @Summary Build the target season from the source season's pattern
// @Tags Auto-Build
// @Accept json
// @Produce json
// @Param payload body dto.ExecuteRequest true "Seasons and per-division strategies"
// @Success 200 {object} response.Envelope
// @Router /auto-build/execute [post]
func (h *AutoBuildHandler) Execute(c *gin.Context) {
	var req dto.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "auto-build"))
		return
	}
	result, err := h.service.Execute(c.Request.Context(), req)
	if err != nil {
		if result != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			response.JSON(c, http.StatusOK, result, map[string]interface{}{"cancelled": true})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Undo godoc
// @Summary Delete every game of a season
// @Tags Auto-Build
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /jobs/{id}/games [delete]
func (h *AutoBuildHandler) Undo(c *gin.Context) {
	result, err := h.service.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
