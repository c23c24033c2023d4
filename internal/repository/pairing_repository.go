package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

const pairingColumns = `id, job_id, pool_size, game_number, round, t1_rank, t2_rank, t1_type, t2_type, t1_ref_game, t1_ref_outcome, t2_ref_game, t2_ref_outcome, created_at, updated_at`

// PairingRepository persists pairing tables per job and pool size.
type PairingRepository struct {
	db *sqlx.DB
}

// NewPairingRepository constructs the repository.
func NewPairingRepository(db *sqlx.DB) *PairingRepository {
	return &PairingRepository{db: db}
}

func (r *PairingRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a single pairing.
func (r *PairingRepository) Create(ctx context.Context, exec sqlx.ExtContext, pairing *models.Pairing) error {
	if pairing == nil {
		return fmt.Errorf("pairing payload is nil")
	}
	return r.CreateBatch(ctx, exec, []*models.Pairing{pairing})
}

// CreateBatch inserts pairings, assigning ids and timestamps in place.
func (r *PairingRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, pairings []*models.Pairing) error {
	const query = `INSERT INTO pairings (` + pairingColumns + `)
VALUES (:id, :job_id, :pool_size, :game_number, :round, :t1_rank, :t2_rank, :t1_type, :t2_type, :t1_ref_game, :t1_ref_outcome, :t2_ref_game, :t2_ref_outcome, :created_at, :updated_at)`
	target := r.exec(exec)
	now := time.Now().UTC()
	for _, p := range pairings {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, p); err != nil {
			return fmt.Errorf("insert pairing %d: %w", p.GameNumber, err)
		}
	}
	return nil
}

// FindByID loads a pairing.
func (r *PairingRepository) FindByID(ctx context.Context, id string) (*models.Pairing, error) {
	query := `SELECT ` + pairingColumns + ` FROM pairings WHERE id = $1`
	var pairing models.Pairing
	if err := r.db.GetContext(ctx, &pairing, query, id); err != nil {
		return nil, err
	}
	return &pairing, nil
}

// Update rewrites the editable columns of a pairing.
func (r *PairingRepository) Update(ctx context.Context, exec sqlx.ExtContext, pairing *models.Pairing) error {
	const query = `UPDATE pairings SET game_number = :game_number, round = :round, t1_rank = :t1_rank, t2_rank = :t2_rank,
t1_type = :t1_type, t2_type = :t2_type, t1_ref_game = :t1_ref_game, t1_ref_outcome = :t1_ref_outcome,
t2_ref_game = :t2_ref_game, t2_ref_outcome = :t2_ref_outcome, updated_at = :updated_at WHERE id = :id`
	pairing.UpdatedAt = time.Now().UTC()
	result, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, pairing)
	if err != nil {
		return fmt.Errorf("update pairing: %w", err)
	}
	return expectAffected(result, "update pairing")
}

// Delete removes one pairing.
func (r *PairingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM pairings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete pairing: %w", err)
	}
	return expectAffected(result, "delete pairing")
}

// MaxRoundAndGame returns the highest stored round and game number for a pool.
func (r *PairingRepository) MaxRoundAndGame(ctx context.Context, exec sqlx.ExtContext, jobID string, poolSize int) (int, int, error) {
	const query = `SELECT COALESCE(MAX(round), 0) AS max_round, COALESCE(MAX(game_number), 0) AS max_game FROM pairings WHERE job_id = $1 AND pool_size = $2`
	var row struct {
		Round int `db:"max_round"`
		Game  int `db:"max_game"`
	}
	if err := sqlx.GetContext(ctx, r.exec(exec), &row, query, jobID, poolSize); err != nil {
		return 0, 0, fmt.Errorf("max pairing round: %w", err)
	}
	return row.Round, row.Game, nil
}

// ListByPool returns the pairing table for a pool ordered by round and game number.
func (r *PairingRepository) ListByPool(ctx context.Context, jobID string, poolSize int) ([]models.Pairing, error) {
	query := `SELECT ` + pairingColumns + ` FROM pairings WHERE job_id = $1 AND pool_size = $2 ORDER BY round, game_number`
	var pairings []models.Pairing
	if err := r.db.SelectContext(ctx, &pairings, query, jobID, poolSize); err != nil {
		return nil, fmt.Errorf("list pairings: %w", err)
	}
	return pairings, nil
}

// DeleteByPool removes a whole pool's pairing table.
func (r *PairingRepository) DeleteByPool(ctx context.Context, jobID string, poolSize int) (int64, error) {
	const query = `DELETE FROM pairings WHERE job_id = $1 AND pool_size = $2`
	result, err := r.db.ExecContext(ctx, query, jobID, poolSize)
	if err != nil {
		return 0, fmt.Errorf("delete pairing pool: %w", err)
	}
	return result.RowsAffected()
}

func expectAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
