package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

type pairingStore interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, pairings []*models.Pairing) error
	FindByID(ctx context.Context, id string) (*models.Pairing, error)
	Update(ctx context.Context, exec sqlx.ExtContext, pairing *models.Pairing) error
	Delete(ctx context.Context, id string) error
	MaxRoundAndGame(ctx context.Context, exec sqlx.ExtContext, jobID string, poolSize int) (int, int, error)
	ListByPool(ctx context.Context, jobID string, poolSize int) ([]models.Pairing, error)
	DeleteByPool(ctx context.Context, jobID string, poolSize int) (int64, error)
}

type divisionGameLister interface {
	ListByDivision(ctx context.Context, divisionID string) ([]models.Game, error)
}

// PairingService generates and maintains pairing tables.
type PairingService struct {
	pairings  pairingStore
	games     divisionGameLister
	divisions divisionReader
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPairingService wires pairing dependencies.
func NewPairingService(pairings pairingStore, games divisionGameLister, divisions divisionReader, tx txProvider, validate *validator.Validate, logger *zap.Logger) *PairingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PairingService{pairings: pairings, games: games, divisions: divisions, tx: tx, validator: validate, logger: logger}
}

// AddRoundRobinBlock appends roundCount round-robin cycles after the pool's
// current maximum round and game number.
func (s *PairingService) AddRoundRobinBlock(ctx context.Context, req dto.AddRoundRobinRequest) ([]models.Pairing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid round-robin payload")
	}
	generated, err := scheduling.RoundRobin(req.PoolSize, req.RoundCount)
	if err != nil {
		return nil, configError(err)
	}
	return s.appendBlock(ctx, req.JobID, req.PoolSize, generated)
}

// AddSingleElimination appends a bracket cascade from startTier through the final.
func (s *PairingService) AddSingleElimination(ctx context.Context, req dto.AddEliminationRequest) ([]models.Pairing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid elimination payload")
	}
	tier, err := models.ParseTierCode(req.StartTier)
	if err != nil {
		return nil, configError(err)
	}
	generated, err := scheduling.Elimination(req.PoolSize, tier)
	if err != nil {
		return nil, configError(fmt.Errorf("start tier %s: %w", req.StartTier, err))
	}
	return s.appendBlock(ctx, req.JobID, req.PoolSize, generated)
}

func (s *PairingService) appendBlock(ctx context.Context, jobID string, poolSize int, generated []models.Pairing) (pairings []models.Pairing, err error) {
	if len(generated) == 0 {
		return []models.Pairing{}, nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internalError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			rollback(tx, s.logger)
		}
	}()

	maxRound, maxGame, err := s.pairings.MaxRoundAndGame(ctx, tx, jobID, poolSize)
	if err != nil {
		return nil, internalError(err, "failed to read pairing offsets")
	}
	scheduling.OffsetPairings(generated, maxRound, maxGame)

	batch := make([]*models.Pairing, len(generated))
	for i := range generated {
		generated[i].JobID = jobID
		batch[i] = &generated[i]
	}
	if err = s.pairings.CreateBatch(ctx, tx, batch); err != nil {
		return nil, internalError(err, "failed to store pairings")
	}
	if err = tx.Commit(); err != nil {
		return nil, internalError(err, "failed to commit pairings")
	}

	s.logger.Info("pairings added",
		zap.String("job_id", jobID),
		zap.Int("pool_size", poolSize),
		zap.Int("count", len(generated)),
		zap.Int("round_offset", maxRound),
		zap.Int("game_offset", maxGame),
	)
	return generated, nil
}

// CreatePairing stores one hand-authored pairing. Missing round or game
// number continue from the pool's maximum.
func (s *PairingService) CreatePairing(ctx context.Context, req dto.CreatePairingRequest) (pairing *models.Pairing, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid pairing payload")
	}
	p, err := pairingFromRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internalError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			rollback(tx, s.logger)
		}
	}()

	if req.Round == nil || req.GameNumber == nil {
		maxRound, maxGame, maxErr := s.pairings.MaxRoundAndGame(ctx, tx, req.JobID, req.PoolSize)
		if maxErr != nil {
			err = internalError(maxErr, "failed to read pairing offsets")
			return nil, err
		}
		if req.Round == nil {
			p.Round = maxRound + 1
		}
		if req.GameNumber == nil {
			p.GameNumber = maxGame + 1
		}
	}

	if err = s.pairings.CreateBatch(ctx, tx, []*models.Pairing{p}); err != nil {
		return nil, internalError(err, "failed to store pairing")
	}
	if err = tx.Commit(); err != nil {
		return nil, internalError(err, "failed to commit pairing")
	}
	return p, nil
}

func pairingFromRequest(req dto.CreatePairingRequest) (*models.Pairing, error) {
	t1, err := models.ParseTierCode(req.Team1Type)
	if err != nil {
		return nil, configError(err)
	}
	t2, err := models.ParseTierCode(req.Team2Type)
	if err != nil {
		return nil, configError(err)
	}
	p := &models.Pairing{
		JobID:    req.JobID,
		PoolSize: req.PoolSize,
		T1Rank:   req.Team1Rank,
		T2Rank:   req.Team2Rank,
		T1Type:   t1,
		T2Type:   t2,
	}
	if req.Round != nil {
		p.Round = *req.Round
	}
	if req.GameNumber != nil {
		p.GameNumber = *req.GameNumber
	}
	for _, side := range []struct {
		raw *string
		set func(*models.DerivedRef)
	}{{req.Team1Ref, p.SetTeam1Ref}, {req.Team2Ref, p.SetTeam2Ref}} {
		if side.raw == nil || *side.raw == "" {
			continue
		}
		ref, refErr := models.ParseDerivedRef(*side.raw)
		if refErr != nil {
			return nil, configError(refErr)
		}
		side.set(ref)
	}
	if err := checkPairing(*p); err != nil {
		return nil, err
	}
	return p, nil
}

func checkPairing(p models.Pairing) error {
	if p.IsRoundRobin() {
		if p.T1Rank == p.T2Rank {
			return appErrors.Clone(appErrors.ErrValidation, "a team cannot play itself")
		}
		if p.T1Rank > p.PoolSize || p.T2Rank > p.PoolSize {
			return appErrors.Clone(appErrors.ErrValidation, "ranks must be within the pool size")
		}
	}
	return nil
}

// UpdatePairing edits the supplied fields of a pairing.
func (s *PairingService) UpdatePairing(ctx context.Context, id string, req dto.UpdatePairingRequest) (*models.Pairing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid pairing payload")
	}
	p, err := s.pairings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "pairing")
	}
	if req.Round != nil {
		p.Round = *req.Round
	}
	if req.GameNumber != nil {
		p.GameNumber = *req.GameNumber
	}
	if req.Team1Rank != nil {
		p.T1Rank = *req.Team1Rank
	}
	if req.Team2Rank != nil {
		p.T2Rank = *req.Team2Rank
	}
	if req.Team1Type != nil {
		if p.T1Type, err = models.ParseTierCode(*req.Team1Type); err != nil {
			return nil, configError(err)
		}
	}
	if req.Team2Type != nil {
		if p.T2Type, err = models.ParseTierCode(*req.Team2Type); err != nil {
			return nil, configError(err)
		}
	}
	if err := checkPairing(*p); err != nil {
		return nil, err
	}
	if err := s.pairings.Update(ctx, nil, p); err != nil {
		return nil, notFoundOr(err, "pairing")
	}
	return p, nil
}

// DeletePairing removes one pairing.
func (s *PairingService) DeletePairing(ctx context.Context, id string) error {
	if err := s.pairings.Delete(ctx, id); err != nil {
		return notFoundOr(err, "pairing")
	}
	return nil
}

// DeletePairingBlock removes a pool's whole pairing table.
func (s *PairingService) DeletePairingBlock(ctx context.Context, jobID string, poolSize int) (*dto.DeletePairingBlockResult, error) {
	if jobID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "jobId is required")
	}
	deleted, err := s.pairings.DeleteByPool(ctx, jobID, poolSize)
	if err != nil {
		return nil, internalError(err, "failed to delete pairings")
	}
	s.logger.Info("pairing pool deleted", zap.String("job_id", jobID), zap.Int("pool_size", poolSize), zap.Int64("deleted", deleted))
	return &dto.DeletePairingBlockResult{JobID: jobID, PoolSize: poolSize, Deleted: deleted}, nil
}

// ListPairings returns the table for the division's team count, marking
// pairings that already have a game in the division as unavailable.
func (s *PairingService) ListPairings(ctx context.Context, divisionID string) ([]dto.PairingView, error) {
	division, err := s.divisions.FindDivision(ctx, divisionID)
	if err != nil {
		return nil, notFoundOr(err, "division")
	}
	pairings, err := s.pairings.ListByPool(ctx, division.JobID, division.TeamCount)
	if err != nil {
		return nil, internalError(err, "failed to load pairings")
	}
	games, err := s.games.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, internalError(err, "failed to load division games")
	}

	type roundGame struct{ round, game int }
	used := make(map[roundGame]struct{}, len(games))
	for _, g := range games {
		used[roundGame{g.Round, g.GameNumber}] = struct{}{}
	}

	views := make([]dto.PairingView, 0, len(pairings))
	for _, p := range pairings {
		_, taken := used[roundGame{p.Round, p.GameNumber}]
		views = append(views, dto.PairingView{
			ID:          p.ID,
			GameNumber:  p.GameNumber,
			Round:       p.Round,
			Team1:       slotLabel(p.T1Type, p.T1Rank, p.Team1Ref()),
			Team2:       slotLabel(p.T2Type, p.T2Rank, p.Team2Ref()),
			Team1Type:   p.T1Type.String(),
			Team2Type:   p.T2Type.String(),
			IsAvailable: !taken,
		})
	}
	return views, nil
}
