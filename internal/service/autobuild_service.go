package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
)

type autoBuildGameStore interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, games []*models.Game) error
	DeleteByDivision(ctx context.Context, exec sqlx.ExtContext, divisionID string) (int64, error)
	DeleteByJob(ctx context.Context, exec sqlx.ExtContext, jobID string) (int64, error)
	ListOccupiedSlots(ctx context.Context, exec sqlx.ExtContext, jobID string) ([]models.GameSlot, error)
	ListPatternSource(ctx context.Context, jobID string) ([]models.PatternSourceGame, error)
	CountByJob(ctx context.Context, jobID string) (int, error)
}

type autoBuildLeagueReader interface {
	FindJob(ctx context.Context, id string) (*models.Job, error)
	ListDivisionsByJob(ctx context.Context, jobID string) ([]models.Division, error)
	ListFieldNamesByJob(ctx context.Context, jobID string) ([]string, error)
	ListFieldNamesUsedByJob(ctx context.Context, jobID string) ([]string, error)
}

// AutoBuildConfig tunes division matching and replay.
type AutoBuildConfig struct {
	Shifter             scheduling.YearShifter
	IncludeBracketGames bool
}

// AutoBuildService copies a prior season's placement pattern onto a new season.
type AutoBuildService struct {
	games     autoBuildGameStore
	pairings  pairingLister
	league    autoBuildLeagueReader
	timeslots timeslotReader
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	cfg       AutoBuildConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAutoBuildService wires Auto-Build dependencies. A zero shifter range uses
// the default year window.
func NewAutoBuildService(games autoBuildGameStore, pairings pairingLister, league autoBuildLeagueReader, timeslots timeslotReader, tx txProvider, cache *CacheService, metrics *MetricsService, cfg AutoBuildConfig, validate *validator.Validate, logger *zap.Logger) *AutoBuildService {
	if cfg.Shifter.Min == 0 && cfg.Shifter.Max == 0 {
		cfg.Shifter = scheduling.DefaultYearShifter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoBuildService{
		games:     games,
		pairings:  pairings,
		league:    league,
		timeslots: timeslots,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

type seasonPair struct {
	current []models.Division
	match   scheduling.MatchResult
}

func (s *AutoBuildService) loadSeasons(ctx context.Context, sourceJobID, targetJobID string) (*seasonPair, error) {
	source, err := s.league.FindJob(ctx, sourceJobID)
	if err != nil {
		return nil, notFoundOr(err, "source season")
	}
	target, err := s.league.FindJob(ctx, targetJobID)
	if err != nil {
		return nil, notFoundOr(err, "target season")
	}
	if strings.TrimSpace(source.Year) == "" || strings.TrimSpace(target.Year) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfiguration, "source and target seasons must both have a year")
	}

	sourceDivisions, err := s.league.ListDivisionsByJob(ctx, source.ID)
	if err != nil {
		return nil, internalError(err, "failed to load source divisions")
	}
	currentDivisions, err := s.league.ListDivisionsByJob(ctx, target.ID)
	if err != nil {
		return nil, internalError(err, "failed to load target divisions")
	}
	return &seasonPair{
		current: currentDivisions,
		match:   scheduling.MatchDivisions(sourceDivisions, currentDivisions, s.cfg.Shifter),
	}, nil
}

// Analyze compares two seasons without writing anything.
func (s *AutoBuildService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AutoBuildAnalysis, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid auto-build payload")
	}
	seasons, err := s.loadSeasons(ctx, req.SourceJobID, req.TargetJobID)
	if err != nil {
		return nil, err
	}

	total, err := s.games.CountByJob(ctx, req.SourceJobID)
	if err != nil {
		return nil, internalError(err, "failed to count source games")
	}
	sourceFields, err := s.league.ListFieldNamesUsedByJob(ctx, req.SourceJobID)
	if err != nil {
		return nil, internalError(err, "failed to load source fields")
	}
	currentFields, err := s.league.ListFieldNamesByJob(ctx, req.TargetJobID)
	if err != nil {
		return nil, internalError(err, "failed to load target fields")
	}

	return &dto.AutoBuildAnalysis{
		SourceJobID:      req.SourceJobID,
		TargetJobID:      req.TargetJobID,
		SourceTotalGames: total,
		DivisionMatches:  seasons.match.Matches,
		Feasibility:      scheduling.AssessFeasibility(seasons.match.Matches, sourceFields, currentFields, seasons.match.Warnings),
	}, nil
}

// Execute schedules every current division, one transaction per division.
// Divisions are processed in order and ctx is checked between them; on
// cancellation the partial result is returned with the context error.
func (s *AutoBuildService) Execute(ctx context.Context, req dto.ExecuteRequest) (*dto.AutoBuildResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid auto-build payload")
	}
	started := time.Now()
	seasons, err := s.loadSeasons(ctx, req.SourceJobID, req.TargetJobID)
	if err != nil {
		return nil, err
	}
	sourceGames, err := s.games.ListPatternSource(ctx, req.SourceJobID)
	if err != nil {
		return nil, internalError(err, "failed to load source games")
	}
	patterns := scheduling.ExtractPattern(sourceGames)

	includeBracket := s.cfg.IncludeBracketGames
	if req.IncludeBracketGames != nil {
		includeBracket = *req.IncludeBracketGames
	}
	byID := make(map[string]models.Division, len(seasons.current))
	for _, d := range seasons.current {
		byID[d.ID] = d
	}

	result := &dto.AutoBuildResult{PerDivisionResults: []dto.DivisionBuildResult{}}
	for _, match := range seasons.match.Matches {
		if match.CurrentDivisionID != nil {
			result.TotalDivisions++
		}
	}
	defer func() {
		s.metrics.ObserveAutoBuild(time.Since(started))
		if result.DivisionsScheduled > 0 {
			_ = s.cache.InvalidateJob(context.WithoutCancel(ctx), req.TargetJobID)
		}
	}()

	for _, match := range seasons.match.Matches {
		if match.CurrentDivisionID == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Cancelled = true
			s.logger.Warn("auto-build cancelled",
				zap.String("target_job_id", req.TargetJobID),
				zap.Int("divisions_done", len(result.PerDivisionResults)),
			)
			return result, err
		}

		division := byID[*match.CurrentDivisionID]
		strategy := defaultStrategy(match.MatchType)
		if override, ok := req.Strategies[division.ID]; ok {
			strategy = override
		}
		outcome := dto.DivisionBuildResult{
			DivisionID:   division.ID,
			AgegroupName: division.AgegroupName,
			DivisionName: division.Name,
			MatchType:    match.MatchType,
			Strategy:     strategy,
		}
		if strategy == models.StrategySkip {
			result.DivisionsSkipped++
			result.PerDivisionResults = append(result.PerDivisionResults, outcome)
			continue
		}

		var rules []models.PlacementPattern
		if match.SourceDivisionID != nil {
			rules = patterns[scheduling.KeyFor(match.SourceAgegroupName, match.SourceDivisionName)]
		}
		if err := s.buildDivision(ctx, division, rules, includeBracket, &outcome); err != nil {
			outcome.Error = appErrors.FromError(err).Message
			result.DivisionsSkipped++
			result.PerDivisionResults = append(result.PerDivisionResults, outcome)
			s.logger.Warn("auto-build division failed", zap.String("division_id", division.ID), zap.Error(err))
			continue
		}

		result.DivisionsScheduled++
		result.TotalGamesPlaced += outcome.GamesPlaced
		result.GamesFailedToPlace += outcome.GamesFailed
		result.GamesUnplaced += outcome.GamesUnplaced
		result.PerDivisionResults = append(result.PerDivisionResults, outcome)
	}

	s.logger.Info("auto-build finished",
		zap.String("source_job_id", req.SourceJobID),
		zap.String("target_job_id", req.TargetJobID),
		zap.Int("divisions_scheduled", result.DivisionsScheduled),
		zap.Int("divisions_skipped", result.DivisionsSkipped),
		zap.Int("games_placed", result.TotalGamesPlaced),
		zap.Int("games_failed", result.GamesFailedToPlace),
		zap.Int("games_unplaced", result.GamesUnplaced),
	)
	return result, nil
}

func defaultStrategy(match models.MatchType) models.BuildStrategy {
	if match == models.MatchExact {
		return models.StrategyPattern
	}
	return models.StrategyAuto
}

// buildDivision replaces one division's games. The pattern strategy without
// rules degrades to auto.
func (s *AutoBuildService) buildDivision(ctx context.Context, division models.Division, rules []models.PlacementPattern, includeBracket bool, outcome *dto.DivisionBuildResult) (err error) {
	slots, err := loadTimeslots(ctx, s.timeslots, division)
	if err != nil {
		return err
	}
	pairings, err := s.pairings.ListByPool(ctx, division.JobID, division.TeamCount)
	if err != nil {
		return internalError(err, "failed to load pairings")
	}
	if outcome.Strategy == models.StrategyPattern && len(rules) == 0 {
		outcome.Strategy = models.StrategyAuto
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return internalError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			rollback(tx, s.logger)
		}
	}()

	if _, err = s.games.DeleteByDivision(ctx, tx, division.ID); err != nil {
		return internalError(err, "failed to clear division games")
	}
	existing, err := s.games.ListOccupiedSlots(ctx, tx, division.JobID)
	if err != nil {
		return internalError(err, "failed to load occupied slots")
	}
	occupied := scheduling.NewOccupiedSlots(existing)

	var (
		games  []*models.Game
		failed int
	)
	if outcome.Strategy == models.StrategyPattern {
		replayed := scheduling.Replay(scheduling.ReplayInput{
			Patterns:       rules,
			Pairings:       pairings,
			Dates:          scheduling.DistinctDays(slots.dates),
			Fields:         slots.windows,
			IncludeBracket: includeBracket,
		}, occupied)
		for _, p := range replayed.Placements {
			games = append(games, newGame(division, p.Pairing, p.Slot))
		}
		failed = replayed.Failed
		outcome.GamesUnplaced = replayed.Unplaced
		if len(replayed.Fallbacks) > 0 {
			outcome.Fallbacks = make(map[string]int, len(replayed.Fallbacks))
			for reason, n := range replayed.Fallbacks {
				outcome.Fallbacks[string(reason)] = n
			}
		}
	} else {
		games, failed = placeGreedy(division, pairings, slots, occupied)
	}

	if len(games) > 0 {
		if err = s.games.CreateBatch(ctx, tx, games); err != nil {
			return internalError(err, "failed to store games")
		}
	}
	if err = tx.Commit(); err != nil {
		return internalError(err, "failed to commit division")
	}

	outcome.GamesPlaced = len(games)
	outcome.GamesFailed = failed
	s.metrics.RecordPlacements(string(outcome.Strategy), len(games), failed)
	s.metrics.RecordFallbacks(outcome.Fallbacks)
	return nil
}

// Undo deletes every game of a job.
func (s *AutoBuildService) Undo(ctx context.Context, jobID string) (*dto.UndoResult, error) {
	if _, err := s.league.FindJob(ctx, jobID); err != nil {
		return nil, notFoundOr(err, "season")
	}
	deleted, err := s.games.DeleteByJob(ctx, nil, jobID)
	if err != nil {
		return nil, internalError(err, "failed to delete games")
	}
	_ = s.cache.InvalidateJob(ctx, jobID)
	s.logger.Info("auto-build undone", zap.String("job_id", jobID), zap.Int64("deleted", deleted))
	return &dto.UndoResult{JobID: jobID, DeletedGames: deleted}, nil
}
