package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// TimeslotRepository reads the date and field availability configured for
// agegroups and divisions.
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository constructs the repository.
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

const (
	timeslotDateColumns = `id, job_id, agegroup_id, division_id, game_date, round`
	timeslotFieldSelect = `SELECT tf.id, tf.job_id, tf.agegroup_id, tf.division_id, tf.field_id, f.name AS field_name,
tf.day_of_week, tf.start_time, tf.interval_minutes, tf.max_games_per_field
FROM timeslot_fields tf JOIN fields f ON f.id = tf.field_id`
)

// ListDatesByDivision returns dates scoped to one division.
func (r *TimeslotRepository) ListDatesByDivision(ctx context.Context, divisionID string) ([]models.TimeslotDate, error) {
	query := `SELECT ` + timeslotDateColumns + ` FROM timeslot_dates WHERE division_id = $1 ORDER BY game_date`
	var dates []models.TimeslotDate
	if err := r.db.SelectContext(ctx, &dates, query, divisionID); err != nil {
		return nil, fmt.Errorf("list division dates: %w", err)
	}
	return dates, nil
}

// ListDatesByAgegroup returns the agegroup-wide dates (no division scope).
func (r *TimeslotRepository) ListDatesByAgegroup(ctx context.Context, agegroupID string) ([]models.TimeslotDate, error) {
	query := `SELECT ` + timeslotDateColumns + ` FROM timeslot_dates WHERE agegroup_id = $1 AND division_id IS NULL ORDER BY game_date`
	var dates []models.TimeslotDate
	if err := r.db.SelectContext(ctx, &dates, query, agegroupID); err != nil {
		return nil, fmt.Errorf("list agegroup dates: %w", err)
	}
	return dates, nil
}

// ListFieldsByDivision returns field windows scoped to one division.
func (r *TimeslotRepository) ListFieldsByDivision(ctx context.Context, divisionID string) ([]models.TimeslotField, error) {
	query := timeslotFieldSelect + ` WHERE tf.division_id = $1 ORDER BY tf.field_id, tf.start_time`
	var fields []models.TimeslotField
	if err := r.db.SelectContext(ctx, &fields, query, divisionID); err != nil {
		return nil, fmt.Errorf("list division fields: %w", err)
	}
	return fields, nil
}

// ListFieldsByAgegroup returns the agegroup-wide field windows.
func (r *TimeslotRepository) ListFieldsByAgegroup(ctx context.Context, agegroupID string) ([]models.TimeslotField, error) {
	query := timeslotFieldSelect + ` WHERE tf.agegroup_id = $1 AND tf.division_id IS NULL ORDER BY tf.field_id, tf.start_time`
	var fields []models.TimeslotField
	if err := r.db.SelectContext(ctx, &fields, query, agegroupID); err != nil {
		return nil, fmt.Errorf("list agegroup fields: %w", err)
	}
	return fields, nil
}
