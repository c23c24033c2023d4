package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
	"github.com/noah-isme/league-scheduler-api/internal/scheduling"
)

// BracketService assembles elimination trees per division.
type BracketService struct {
	league jobLeagueReader
	games  jobGameLister
	cache  *CacheService
	logger *zap.Logger
}

// NewBracketService constructs the service.
func NewBracketService(league jobLeagueReader, games jobGameLister, cache *CacheService, logger *zap.Logger) *BracketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BracketService{league: league, games: games, cache: cache, logger: logger}
}

// Brackets returns one view per division that has bracket games.
func (s *BracketService) Brackets(ctx context.Context, jobID string) ([]dto.BracketView, bool, error) {
	key := bracketsCacheKey(jobID)
	var cached []dto.BracketView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	snap, err := loadJobSnapshot(ctx, s.league, s.games, jobID)
	if err != nil {
		return nil, false, err
	}
	resolver := scheduling.NewTeamResolver(snap.teams)

	byDivision := map[string][]models.Game{}
	for _, g := range snap.games {
		if g.IsBracket() {
			byDivision[g.DivisionID] = append(byDivision[g.DivisionID], g)
		}
	}

	views := make([]dto.BracketView, 0, len(byDivision))
	for _, d := range snap.divisions {
		games, ok := byDivision[d.ID]
		if !ok {
			continue
		}
		view := dto.BracketView{
			DivisionKey:  d.ID,
			DivisionName: d.Name,
			AgegroupName: d.AgegroupName,
			Matches:      []dto.BracketMatch{},
		}
		for _, node := range scheduling.ResolveBracket(games) {
			g := node.Game
			view.Matches = append(view.Matches, dto.BracketMatch{
				GameID:       g.ID,
				ParentGameID: node.ParentGameID,
				Tier:         g.T1Type.String(),
				Round:        g.Round,
				GameNumber:   g.GameNumber,
				Team1:        teamLabel(resolver, g.DivisionID, g.T1ID, g.T1Type, g.T1Rank),
				Team2:        teamLabel(resolver, g.DivisionID, g.T2ID, g.T2Type, g.T2Rank),
				Team1Score:   g.T1Score,
				Team2Score:   g.T2Score,
			})
		}
		if final, side, ok := scheduling.Champion(games); ok {
			var name string
			if side == scheduling.SideTeam1 {
				name = teamLabel(resolver, final.DivisionID, final.T1ID, final.T1Type, final.T1Rank)
			} else {
				name = teamLabel(resolver, final.DivisionID, final.T2ID, final.T2Type, final.T2Rank)
			}
			view.Champion = &name
		}
		views = append(views, view)
	}

	_ = s.cache.Set(ctx, key, views, 0)
	return views, false, nil
}
