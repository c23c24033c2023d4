package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// LeagueRepository provides read-only lookups for jobs, divisions, teams and fields.
type LeagueRepository struct {
	db *sqlx.DB
}

// NewLeagueRepository constructs the repository.
func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

const divisionSelect = `SELECT d.id, a.job_id, d.agegroup_id, a.name AS agegroup_name, a.color AS agegroup_color, d.name, COUNT(t.id) AS team_count
FROM divisions d
JOIN agegroups a ON a.id = d.agegroup_id
LEFT JOIN teams t ON t.division_id = d.id`

const divisionGroupBy = ` GROUP BY d.id, a.job_id, d.agegroup_id, a.name, a.color, d.name`

// FindJob loads a job.
func (r *LeagueRepository) FindJob(ctx context.Context, id string) (*models.Job, error) {
	const query = `SELECT id, name, season, year, sport_name FROM jobs WHERE id = $1`
	var job models.Job
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// FindDivision loads a division with its agegroup and team count.
func (r *LeagueRepository) FindDivision(ctx context.Context, id string) (*models.Division, error) {
	query := divisionSelect + ` WHERE d.id = $1` + divisionGroupBy
	var division models.Division
	if err := r.db.GetContext(ctx, &division, query, id); err != nil {
		return nil, err
	}
	return &division, nil
}

// ListDivisionsByJob returns a job's divisions ordered by agegroup and name.
func (r *LeagueRepository) ListDivisionsByJob(ctx context.Context, jobID string) ([]models.Division, error) {
	query := divisionSelect + ` WHERE a.job_id = $1` + divisionGroupBy + ` ORDER BY a.name, d.name, d.id`
	var divisions []models.Division
	if err := r.db.SelectContext(ctx, &divisions, query, jobID); err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return divisions, nil
}

// ListTeamsByJob returns every team of a job.
func (r *LeagueRepository) ListTeamsByJob(ctx context.Context, jobID string) ([]models.Team, error) {
	const query = `SELECT t.id, t.division_id, t.name, t.div_rank FROM teams t
JOIN divisions d ON d.id = t.division_id
JOIN agegroups a ON a.id = d.agegroup_id
WHERE a.job_id = $1 ORDER BY t.division_id, t.div_rank`
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, jobID); err != nil {
		return nil, fmt.Errorf("list job teams: %w", err)
	}
	return teams, nil
}

// ListTeamsByDivision returns a division's teams by rank.
func (r *LeagueRepository) ListTeamsByDivision(ctx context.Context, divisionID string) ([]models.Team, error) {
	const query = `SELECT id, division_id, name, div_rank FROM teams WHERE division_id = $1 ORDER BY div_rank`
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, divisionID); err != nil {
		return nil, fmt.Errorf("list division teams: %w", err)
	}
	return teams, nil
}

// ListFieldNamesByJob returns the distinct names of fields configured for a job.
func (r *LeagueRepository) ListFieldNamesByJob(ctx context.Context, jobID string) ([]string, error) {
	const query = `SELECT DISTINCT f.name FROM timeslot_fields tf JOIN fields f ON f.id = tf.field_id WHERE tf.job_id = $1 ORDER BY f.name`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, jobID); err != nil {
		return nil, fmt.Errorf("list field names: %w", err)
	}
	return names, nil
}

// ListFieldNamesUsedByJob returns the distinct names of fields a job's games were played on.
func (r *LeagueRepository) ListFieldNamesUsedByJob(ctx context.Context, jobID string) ([]string, error) {
	const query = `SELECT DISTINCT f.name FROM games g JOIN fields f ON f.id = g.field_id WHERE g.job_id = $1 ORDER BY f.name`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, jobID); err != nil {
		return nil, fmt.Errorf("list used field names: %w", err)
	}
	return names, nil
}
