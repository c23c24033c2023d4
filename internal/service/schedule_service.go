package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
	appErrors "github.com/noah-isme/league-scheduler-api/pkg/errors"
	"github.com/noah-isme/league-scheduler-api/pkg/export"
)

type gameStore interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, games []*models.Game) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Game, error)
	FindAtSlot(ctx context.Context, exec sqlx.ExtContext, jobID, fieldID string, at time.Time) (*models.Game, error)
	UpdateSlot(ctx context.Context, exec sqlx.ExtContext, id, fieldID string, at time.Time) error
	UpdateScore(ctx context.Context, id string, team1, team2, status int) error
	DeleteByDivision(ctx context.Context, exec sqlx.ExtContext, divisionID string) (int64, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Game, error)
	ListOccupiedSlots(ctx context.Context, exec sqlx.ExtContext, jobID string) ([]models.GameSlot, error)
}

type scheduleLeagueReader interface {
	FindDivision(ctx context.Context, id string) (*models.Division, error)
	ListDivisionsByJob(ctx context.Context, jobID string) ([]models.Division, error)
	ListTeamsByJob(ctx context.Context, jobID string) ([]models.Team, error)
}

// ExportedFile is a rendered download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ScheduleService places, moves and scores games and assembles schedule grids.
type ScheduleService struct {
	games     gameStore
	pairings  pairingLister
	league    scheduleLeagueReader
	timeslots timeslotReader
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(games gameStore, pairings pairingLister, league scheduleLeagueReader, timeslots timeslotReader, tx txProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		games:     games,
		pairings:  pairings,
		league:    league,
		timeslots: timeslots,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// AutoScheduleDivision replaces the division's games with a greedy placement
// of its round-robin pairings. Pairings that find no free slot are counted.
func (s *ScheduleService) AutoScheduleDivision(ctx context.Context, divisionID string) (result *dto.AutoScheduleResult, err error) {
	division, err := s.league.FindDivision(ctx, divisionID)
	if err != nil {
		return nil, notFoundOr(err, "division")
	}
	slots, err := loadTimeslots(ctx, s.timeslots, *division)
	if err != nil {
		return nil, err
	}
	pairings, err := s.pairings.ListByPool(ctx, division.JobID, division.TeamCount)
	if err != nil {
		return nil, internalError(err, "failed to load pairings")
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

	if _, err = s.games.DeleteByDivision(ctx, tx, division.ID); err != nil {
		return nil, internalError(err, "failed to clear division games")
	}
	existing, err := s.games.ListOccupiedSlots(ctx, tx, division.JobID)
	if err != nil {
		return nil, internalError(err, "failed to load occupied slots")
	}

	games, failed := placeGreedy(*division, pairings, slots, scheduling.NewOccupiedSlots(existing))
	if len(games) > 0 {
		if err = s.games.CreateBatch(ctx, tx, games); err != nil {
			return nil, internalError(err, "failed to store games")
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, internalError(err, "failed to commit schedule")
	}

	s.metrics.RecordPlacements("auto", len(games), failed)
	s.invalidate(ctx, division.JobID)
	s.logger.Info("division auto-scheduled",
		zap.String("division_id", division.ID),
		zap.Int("scheduled", len(games)),
		zap.Int("failed", failed),
	)
	return &dto.AutoScheduleResult{DivisionID: division.ID, ScheduledCount: len(games), FailedCount: failed}, nil
}

// MoveGame relocates a game. When the target slot holds another game of the
// same job the two games trade places.
func (s *ScheduleService) MoveGame(ctx context.Context, gameID string, req dto.MoveGameRequest) (result *dto.MoveGameResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid move payload")
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

	game, err := s.games.FindByID(ctx, tx, gameID)
	if err != nil {
		return nil, notFoundOr(err, "game")
	}
	if game.FieldID == req.FieldID && game.GameDate.Equal(req.GameDate) {
		if err = tx.Commit(); err != nil {
			return nil, internalError(err, "failed to commit move")
		}
		return &dto.MoveGameResult{Game: *game}, nil
	}

	occupant, err := s.games.FindAtSlot(ctx, tx, game.JobID, req.FieldID, req.GameDate)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to inspect target slot")
	}

	if err = s.games.UpdateSlot(ctx, tx, game.ID, req.FieldID, req.GameDate); err != nil {
		return nil, notFoundOr(err, "game")
	}
	var swapped *models.Game
	if occupant != nil {
		if err = s.games.UpdateSlot(ctx, tx, occupant.ID, game.FieldID, game.GameDate); err != nil {
			return nil, notFoundOr(err, "game")
		}
		moved := *occupant
		moved.FieldID, moved.GameDate = game.FieldID, game.GameDate
		moved.RescheduleCount++
		swapped = &moved
	}
	if err = tx.Commit(); err != nil {
		return nil, internalError(err, "failed to commit move")
	}

	moved := *game
	moved.FieldID, moved.GameDate = req.FieldID, req.GameDate
	moved.RescheduleCount++

	s.invalidate(ctx, game.JobID)
	s.logger.Info("game moved",
		zap.String("game_id", game.ID),
		zap.String("field_id", req.FieldID),
		zap.Time("game_date", req.GameDate),
		zap.Bool("swapped", swapped != nil),
	)
	return &dto.MoveGameResult{Game: moved, Swapped: swapped}, nil
}

// UpdateScore records a result. The status defaults to completed.
func (s *ScheduleService) UpdateScore(ctx context.Context, gameID string, req dto.UpdateScoreRequest) (*models.Game, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid score payload")
	}
	game, err := s.games.FindByID(ctx, nil, gameID)
	if err != nil {
		return nil, notFoundOr(err, "game")
	}
	status := req.StatusCode
	if status == 0 {
		status = models.GameStatusCompleted
	}
	if err := s.games.UpdateScore(ctx, game.ID, *req.Team1Score, *req.Team2Score, status); err != nil {
		return nil, notFoundOr(err, "game")
	}

	game.T1Score = req.Team1Score
	game.T2Score = req.Team2Score
	game.StatusCode = status
	s.invalidate(ctx, game.JobID)
	return game, nil
}

// BuildGrid lays the division's candidate timeslots out against its fields
// and fills in every job game sitting on one of them.
func (s *ScheduleService) BuildGrid(ctx context.Context, divisionID string) (*dto.ScheduleGrid, error) {
	division, err := s.league.FindDivision(ctx, divisionID)
	if err != nil {
		return nil, notFoundOr(err, "division")
	}
	slots, err := loadTimeslots(ctx, s.timeslots, *division)
	if err != nil {
		return nil, err
	}
	games, err := s.games.ListByJob(ctx, division.JobID)
	if err != nil {
		return nil, internalError(err, "failed to load games")
	}
	teams, err := s.league.ListTeamsByJob(ctx, division.JobID)
	if err != nil {
		return nil, internalError(err, "failed to load teams")
	}
	divisions, err := s.league.ListDivisionsByJob(ctx, division.JobID)
	if err != nil {
		return nil, internalError(err, "failed to load divisions")
	}

	byDivision := make(map[string]models.Division, len(divisions))
	for _, d := range divisions {
		byDivision[d.ID] = d
	}
	resolver := scheduling.NewTeamResolver(teams)

	grid := scheduling.BuildGrid(scheduling.DistinctDays(slots.dates), slots.windows, games)
	out := &dto.ScheduleGrid{
		DivisionID:   division.ID,
		FieldColumns: make([]dto.GridColumn, 0, len(grid.Columns)),
		Rows:         make([]dto.GridRow, 0, len(grid.Rows)),
		Collisions:   grid.Collisions,
	}
	for _, col := range grid.Columns {
		out.FieldColumns = append(out.FieldColumns, dto.GridColumn{FieldID: col.FieldID, FieldName: col.FieldName})
	}
	for _, row := range grid.Rows {
		r := dto.GridRow{DateTime: row.At, Cells: make([]dto.GridCell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			c := dto.GridCell{FieldID: cell.FieldID, Available: cell.Available, Collision: cell.Collision(), Games: []dto.GridGame{}}
			for _, g := range cell.Games {
				owner := byDivision[g.DivisionID]
				c.Games = append(c.Games, dto.GridGame{
					GameID:       g.ID,
					DivisionID:   g.DivisionID,
					AgegroupName: owner.AgegroupName,
					Color:        owner.AgegroupColor,
					Round:        g.Round,
					GameNumber:   g.GameNumber,
					Team1:        teamLabel(resolver, g.DivisionID, g.T1ID, g.T1Type, g.T1Rank),
					Team2:        teamLabel(resolver, g.DivisionID, g.T2ID, g.T2Type, g.T2Rank),
				})
			}
			r.Cells = append(r.Cells, c)
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// ExportGrid renders the division grid as csv, pdf or xlsx.
func (s *ScheduleService) ExportGrid(ctx context.Context, divisionID, format string) (*ExportedFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, err.Error())
	}
	grid, err := s.BuildGrid(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(gridDataset(grid))
	if err != nil {
		return nil, internalError(err, "failed to render grid")
	}
	return &ExportedFile{
		Filename:    fmt.Sprintf("schedule-%s.%s", divisionID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func gridDataset(grid *dto.ScheduleGrid) export.Dataset {
	headers := make([]string, 0, len(grid.FieldColumns)+1)
	headers = append(headers, "Date / Time")
	for _, col := range grid.FieldColumns {
		headers = append(headers, col.FieldName)
	}
	rows := make([][]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, row.DateTime.Format("Mon 2006-01-02 15:04"))
		for _, cell := range row.Cells {
			line = append(line, gridCellText(cell))
		}
		rows = append(rows, line)
	}
	return export.Dataset{Title: "Schedule " + grid.DivisionID, Headers: headers, Rows: rows}
}

func gridCellText(cell dto.GridCell) string {
	if !cell.Available && len(cell.Games) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cell.Games))
	for _, g := range cell.Games {
		parts = append(parts, g.Team1+" vs "+g.Team2)
	}
	return strings.Join(parts, " / ")
}

func (s *ScheduleService) invalidate(ctx context.Context, jobID string) {
	_ = s.cache.InvalidateJob(ctx, jobID)
}
