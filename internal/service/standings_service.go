package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
)

type jobLeagueReader interface {
	FindJob(ctx context.Context, id string) (*models.Job, error)
	ListDivisionsByJob(ctx context.Context, jobID string) ([]models.Division, error)
	ListTeamsByJob(ctx context.Context, jobID string) ([]models.Team, error)
}

type jobGameLister interface {
	ListByJob(ctx context.Context, jobID string) ([]models.Game, error)
}

// jobSnapshot is everything the derived views of a job are computed from.
type jobSnapshot struct {
	job       *models.Job
	divisions []models.Division
	teams     []models.Team
	games     []models.Game
}

func loadJobSnapshot(ctx context.Context, league jobLeagueReader, games jobGameLister, jobID string) (*jobSnapshot, error) {
	job, err := league.FindJob(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "season")
	}
	divisions, err := league.ListDivisionsByJob(ctx, jobID)
	if err != nil {
		return nil, internalError(err, "failed to load divisions")
	}
	teams, err := league.ListTeamsByJob(ctx, jobID)
	if err != nil {
		return nil, internalError(err, "failed to load teams")
	}
	list, err := games.ListByJob(ctx, jobID)
	if err != nil {
		return nil, internalError(err, "failed to load games")
	}
	return &jobSnapshot{job: job, divisions: divisions, teams: teams, games: list}, nil
}

// StandingsService ranks teams from recorded round-robin results.
type StandingsService struct {
	league        jobLeagueReader
	games         jobGameLister
	cache         *CacheService
	winLossSports []string
	logger        *zap.Logger
}

// NewStandingsService constructs the service. Sports whose name contains one
// of winLossSports are ranked by wins and losses instead of points.
func NewStandingsService(league jobLeagueReader, games jobGameLister, cache *CacheService, winLossSports []string, logger *zap.Logger) *StandingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandingsService{league: league, games: games, cache: cache, winLossSports: winLossSports, logger: logger}
}

// Standings returns every division table of a job and whether it came from cache.
func (s *StandingsService) Standings(ctx context.Context, jobID string) (*dto.JobStandings, bool, error) {
	key := standingsCacheKey(jobID)
	var cached dto.JobStandings
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	snap, err := loadJobSnapshot(ctx, s.league, s.games, jobID)
	if err != nil {
		return nil, false, err
	}
	family := scheduling.FamilyForSport(snap.job.SportName, s.winLossSports)
	tables := scheduling.ComputeStandings(snap.teams, snap.games, family)

	out := &dto.JobStandings{
		JobID:      jobID,
		SortFamily: sortFamilyName(family),
		Divisions:  make([]dto.StandingsByDivision, 0, len(snap.divisions)),
	}
	for _, d := range snap.divisions {
		rows := tables[d.ID]
		if rows == nil {
			rows = []models.StandingRow{}
		}
		out.Divisions = append(out.Divisions, dto.StandingsByDivision{
			DivisionID:   d.ID,
			DivisionName: d.Name,
			AgegroupName: d.AgegroupName,
			Teams:        rows,
		})
	}

	_ = s.cache.Set(ctx, key, out, 0)
	return out, false, nil
}

func sortFamilyName(f scheduling.SortFamily) string {
	if f == scheduling.SortByWinLoss {
		return "winLoss"
	}
	return "points"
}
