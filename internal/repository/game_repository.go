package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

const gameColumns = `id, job_id, agegroup_id, division_id, field_id, game_date, round, game_number, t1_rank, t2_rank, t1_type, t2_type, t1_id, t2_id, t1_score, t2_score, status_code, reschedule_count, created_at, updated_at`

// GameRepository persists placed games.
type GameRepository struct {
	db *sqlx.DB
}

// NewGameRepository constructs the repository.
func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts games, assigning ids and timestamps in place.
func (r *GameRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, games []*models.Game) error {
	const query = `INSERT INTO games (` + gameColumns + `)
VALUES (:id, :job_id, :agegroup_id, :division_id, :field_id, :game_date, :round, :game_number, :t1_rank, :t2_rank, :t1_type, :t2_type, :t1_id, :t2_id, :t1_score, :t2_score, :status_code, :reschedule_count, :created_at, :updated_at)`
	target := r.exec(exec)
	now := time.Now().UTC()
	for _, g := range games {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		if g.StatusCode == 0 {
			g.StatusCode = models.GameStatusScheduled
		}
		g.CreatedAt = now
		g.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, g); err != nil {
			return fmt.Errorf("insert game %d: %w", g.GameNumber, err)
		}
	}
	return nil
}

// FindByID loads a game.
func (r *GameRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	var game models.Game
	if err := sqlx.GetContext(ctx, r.exec(exec), &game, query, id); err != nil {
		return nil, err
	}
	return &game, nil
}

// FindAtSlot loads the game occupying a field at a time within a job.
func (r *GameRepository) FindAtSlot(ctx context.Context, exec sqlx.ExtContext, jobID, fieldID string, at time.Time) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE job_id = $1 AND field_id = $2 AND game_date = $3 LIMIT 1`
	var game models.Game
	if err := sqlx.GetContext(ctx, r.exec(exec), &game, query, jobID, fieldID, at); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateSlot moves a game and bumps its reschedule count.
func (r *GameRepository) UpdateSlot(ctx context.Context, exec sqlx.ExtContext, id, fieldID string, at time.Time) error {
	const query = `UPDATE games SET field_id = $1, game_date = $2, reschedule_count = reschedule_count + 1, updated_at = $3 WHERE id = $4`
	result, err := r.exec(exec).ExecContext(ctx, query, fieldID, at, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update game slot: %w", err)
	}
	return expectAffected(result, "update game slot")
}

// UpdateScore records a result.
func (r *GameRepository) UpdateScore(ctx context.Context, id string, team1, team2, status int) error {
	const query = `UPDATE games SET t1_score = $1, t2_score = $2, status_code = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, team1, team2, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update game score: %w", err)
	}
	return expectAffected(result, "update game score")
}

// DeleteByDivision removes every game of a division.
func (r *GameRepository) DeleteByDivision(ctx context.Context, exec sqlx.ExtContext, divisionID string) (int64, error) {
	const query = `DELETE FROM games WHERE division_id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, divisionID)
	if err != nil {
		return 0, fmt.Errorf("delete division games: %w", err)
	}
	return result.RowsAffected()
}

// DeleteByJob removes every game of a job.
func (r *GameRepository) DeleteByJob(ctx context.Context, exec sqlx.ExtContext, jobID string) (int64, error) {
	const query = `DELETE FROM games WHERE job_id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, jobID)
	if err != nil {
		return 0, fmt.Errorf("delete job games: %w", err)
	}
	return result.RowsAffected()
}

// ListByJob returns a job's games ordered by date, field and game number.
func (r *GameRepository) ListByJob(ctx context.Context, jobID string) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE job_id = $1 ORDER BY game_date, field_id, game_number`
	var games []models.Game
	if err := r.db.SelectContext(ctx, &games, query, jobID); err != nil {
		return nil, fmt.Errorf("list job games: %w", err)
	}
	return games, nil
}

// ListByDivision returns a division's games ordered by round and game number.
func (r *GameRepository) ListByDivision(ctx context.Context, divisionID string) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE division_id = $1 ORDER BY round, game_number`
	var games []models.Game
	if err := r.db.SelectContext(ctx, &games, query, divisionID); err != nil {
		return nil, fmt.Errorf("list division games: %w", err)
	}
	return games, nil
}

// ListOccupiedSlots returns every (field, time) already used in a job.
func (r *GameRepository) ListOccupiedSlots(ctx context.Context, exec sqlx.ExtContext, jobID string) ([]models.GameSlot, error) {
	const query = `SELECT field_id, game_date FROM games WHERE job_id = $1`
	var slots []models.GameSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query, jobID); err != nil {
		return nil, fmt.Errorf("list occupied slots: %w", err)
	}
	return slots, nil
}

// ListPatternSource returns a job's games with the agegroup, division and
// field names used to replay them in another season.
func (r *GameRepository) ListPatternSource(ctx context.Context, jobID string) ([]models.PatternSourceGame, error) {
	const query = `SELECT g.id, g.division_id, a.name AS agegroup_name, d.name AS division_name, f.name AS field_name,
g.game_date, g.round, g.game_number, g.t1_rank, g.t2_rank, g.t1_type, g.t2_type
FROM games g
JOIN divisions d ON d.id = g.division_id
JOIN agegroups a ON a.id = d.agegroup_id
JOIN fields f ON f.id = g.field_id
WHERE g.job_id = $1
ORDER BY g.division_id, g.game_date, g.game_number`
	var games []models.PatternSourceGame
	if err := r.db.SelectContext(ctx, &games, query, jobID); err != nil {
		return nil, fmt.Errorf("list pattern source games: %w", err)
	}
	return games, nil
}

// CountByJob counts a job's games.
func (r *GameRepository) CountByJob(ctx context.Context, jobID string) (int, error) {
	const query = `SELECT COUNT(*) FROM games WHERE job_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, jobID); err != nil {
		return 0, fmt.Errorf("count job games: %w", err)
	}
	return count, nil
}
