package scheduling

import (
	"sort"
	"strings"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

const goalDiffCap = 9

// SortFamily selects the standings ordering for a sport.
type SortFamily int

const (
	// SortByPoints orders by points, wins, goal difference, goals for, name.
	SortByPoints SortFamily = iota
	// SortByWinLoss orders by wins, fewest losses, goal difference, goals for, name.
	SortByWinLoss
)

// FamilyForSport picks SortByWinLoss when the sport name contains any of
// winLossSports, case-insensitively.
func FamilyForSport(sport string, winLossSports []string) SortFamily {
	name := strings.ToLower(sport)
	for _, s := range winLossSports {
		if s != "" && strings.Contains(name, strings.ToLower(s)) {
			return SortByWinLoss
		}
	}
	return SortByPoints
}

// TeamResolver maps a game side to a team.
type TeamResolver struct {
	byID   map[string]models.Team
	byRank map[string]map[int]models.Team
}

// NewTeamResolver indexes teams by id and by (division, rank).
func NewTeamResolver(teams []models.Team) TeamResolver {
	r := TeamResolver{byID: map[string]models.Team{}, byRank: map[string]map[int]models.Team{}}
	for _, t := range teams {
		r.byID[t.ID] = t
		if r.byRank[t.DivisionID] == nil {
			r.byRank[t.DivisionID] = map[int]models.Team{}
		}
		r.byRank[t.DivisionID][t.DivRank] = t
	}
	return r
}

// Resolve returns the team playing one side of a game, preferring an explicit
// team id over the division rank.
func (r TeamResolver) Resolve(divisionID string, teamID *string, rank int) (models.Team, bool) {
	if teamID != nil {
		if t, ok := r.byID[*teamID]; ok {
			return t, true
		}
	}
	t, ok := r.byRank[divisionID][rank]
	return t, ok
}

// ComputeStandings aggregates scored round-robin games into per-division
// tables. Every team appears, including teams without games. Goal difference
// is capped at +/-9.
func ComputeStandings(teams []models.Team, games []models.Game, family SortFamily) map[string][]models.StandingRow {
	resolver := NewTeamResolver(teams)
	rows := make(map[string]*models.StandingRow, len(teams))
	for _, t := range teams {
		rows[t.ID] = &models.StandingRow{TeamID: t.ID, TeamName: t.Name, DivisionID: t.DivisionID}
	}

	for _, g := range games {
		if !g.IsRoundRobin() || !g.Scored() {
			continue
		}
		home, okHome := resolver.Resolve(g.DivisionID, g.T1ID, g.T1Rank)
		away, okAway := resolver.Resolve(g.DivisionID, g.T2ID, g.T2Rank)
		if !okHome || !okAway || home.ID == away.ID {
			continue
		}
		record(rows[home.ID], *g.T1Score, *g.T2Score)
		record(rows[away.ID], *g.T2Score, *g.T1Score)
	}

	out := map[string][]models.StandingRow{}
	for _, row := range rows {
		row.GoalDiff = clamp(row.GoalsFor-row.GoalsAgainst, -goalDiffCap, goalDiffCap)
		row.Points = 3*row.Wins + row.Ties
		if row.Games > 0 {
			row.PointsPerGame = float64(row.Points) / float64(row.Games)
		}
		out[row.DivisionID] = append(out[row.DivisionID], *row)
	}
	for div, table := range out {
		sortStandings(table, family)
		for i := range table {
			table[i].Rank = i + 1
		}
		out[div] = table
	}
	return out
}

func record(row *models.StandingRow, scored, conceded int) {
	row.Games++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		row.Wins++
	case scored < conceded:
		row.Losses++
	default:
		row.Ties++
	}
}

func sortStandings(table []models.StandingRow, family SortFamily) {
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if family == SortByWinLoss {
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.Losses != b.Losses {
				return a.Losses < b.Losses
			}
		} else {
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamID < b.TeamID
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
