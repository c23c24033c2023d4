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

type pairingManager interface {
	AddRoundRobinBlock(ctx context.Context, req dto.AddRoundRobinRequest) ([]models.Pairing, error)
	AddSingleElimination(ctx context.Context, req dto.AddEliminationRequest) ([]models.Pairing, error)
	CreatePairing(ctx context.Context, req dto.CreatePairingRequest) (*models.Pairing, error)
	UpdatePairing(ctx context.Context, id string, req dto.UpdatePairingRequest) (*models.Pairing, error)
	DeletePairing(ctx context.Context, id string) error
	DeletePairingBlock(ctx context.Context, jobID string, poolSize int) (*dto.DeletePairingBlockResult, error)
	ListPairings(ctx context.Context, divisionID string) ([]dto.PairingView, error)
}

// PairingHandler exposes pairing table endpoints.
type PairingHandler struct {
	service pairingManager
}

// NewPairingHandler constructs the handler.
func NewPairingHandler(svc *service.PairingService) *PairingHandler {
	return &PairingHandler{service: svc}
}

// AddRoundRobin godoc
// @Summary Append round-robin cycles to a pool's pairing table
// @Tags Pairings
// @Accept json
// @Produce json
// @Param payload body dto.AddRoundRobinRequest true "Round-robin block"
// @Success 201 {object} response.Envelope
// @Router /pairings/round-robin [post]
func (h *PairingHandler) AddRoundRobin(c *gin.Context) {
	var req dto.AddRoundRobinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "round-robin"))
		return
	}
	pairings, err := h.service.AddRoundRobinBlock(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pairings)
}

// AddElimination godoc
// @Summary Append a single-elimination bracket to a pool's pairing table
// @Tags Pairings
// @Accept json
// @Produce json
// @Param payload body dto.AddEliminationRequest true "Elimination block"
// @Success 201 {object} response.Envelope
// @Router /pairings/elimination [post]
func (h *PairingHandler) AddElimination(c *gin.Context) {
	var req dto.AddEliminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "elimination"))
		return
	}
	pairings, err := h.service.AddSingleElimination(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pairings)
}

// Create godoc
// @Summary Add a single pairing
// @Tags Pairings
// @Accept json
// @Produce json
// @Param payload body dto.CreatePairingRequest true "Pairing"
// @Success 201 {object} response.Envelope
// @Router /pairings [post]
func (h *PairingHandler) Create(c *gin.Context) {
	var req dto.CreatePairingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "pairing"))
		return
	}
	pairing, err := h.service.CreatePairing(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pairing)
}

// Update godoc
// @Summary Edit a pairing
// @Tags Pairings
// @Accept json
// @Produce json
// @Param id path string true "Pairing ID"
// @Param payload body dto.UpdatePairingRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /pairings/{id} [put]
func (h *PairingHandler) Update(c *gin.Context) {
	var req dto.UpdatePairingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "pairing"))
		return
	}
	pairing, err := h.service.UpdatePairing(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pairing)
}

// Delete godoc
// @Summary Delete a pairing
// @Tags Pairings
// @Param id path string true "Pairing ID"
// @Success 204
// @Router /pairings/{id} [delete]
func (h *PairingHandler) Delete(c *gin.Context) {
	if err := h.service.DeletePairing(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteBlock godoc
// @Summary Delete every pairing of a pool
// @Tags Pairings
// @Produce json
// @Param id path string true "Job ID"
// @Param poolSize path int true "Pool size"
// @Success 200 {object} response.Envelope
// @Router /jobs/{id}/pairings/{poolSize} [delete]
func (h *PairingHandler) DeleteBlock(c *gin.Context) {
	poolSize, err := intParam(c, "poolSize")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.DeletePairingBlock(c.Request.Context(), c.Param("id"), poolSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ListByDivision godoc
// @Summary List the pairing table for a division's team count
// @Tags Pairings
// @Produce json
// @Param id path string true "Division ID"
// @Success 200 {object} response.Envelope
// @Router /divisions/{id}/pairings [get]
func (h *PairingHandler) ListByDivision(c *gin.Context) {
	views, err := h.service.ListPairings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, map[string]interface{}{"total": len(views)})
}
