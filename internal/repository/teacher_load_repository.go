package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
)

// TeacherLoadRepository persists the per-teacher weekly period ledger.
type TeacherLoadRepository struct {
	db *sqlx.DB
}

// NewTeacherLoadRepository creates a new teacher load repository.
func NewTeacherLoadRepository(db *sqlx.DB) *TeacherLoadRepository {
	return &TeacherLoadRepository{db: db}
}

// Find loads the ledger row for a teacher. Returns sql.ErrNoRows when the
// teacher has never been scheduled.
func (r *TeacherLoadRepository) Find(ctx context.Context, schoolID, teacherID string) (*models.TeacherLoad, error) {
	const query = `SELECT school_id, teacher_id, current_weekly_periods, max_weekly_periods, created_at, updated_at FROM teacher_loads WHERE school_id = $1 AND teacher_id = $2`
	var load models.TeacherLoad
	if err := r.db.GetContext(ctx, &load, query, schoolID, teacherID); err != nil {
		return nil, err
	}
	return &load, nil
}

// PerDayBreakdown aggregates a teacher's committed periods per weekday from
// the period records themselves, keeping the read side on the source of truth.
func (r *TeacherLoadRepository) PerDayBreakdown(ctx context.Context, schoolID, teacherID string) ([]models.DayPeriodCount, error) {
	const query = `SELECT day, COUNT(*) AS periods FROM periods WHERE school_id = $1 AND teacher_id = $2 GROUP BY day ORDER BY CASE day WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 ELSE 7 END`
	var breakdown []models.DayPeriodCount
	if err := r.db.SelectContext(ctx, &breakdown, query, schoolID, teacherID); err != nil {
		return nil, fmt.Errorf("teacher load per-day breakdown: %w", err)
	}
	return breakdown, nil
}

// IncrementTx bumps the teacher's weekly counter inside an existing
// transaction, creating the ledger row when absent.
func (r *TeacherLoadRepository) IncrementTx(ctx context.Context, exec sqlx.ExtContext, schoolID, teacherID string) error {
	now := time.Now().UTC()
	const query = `INSERT INTO teacher_loads (school_id, teacher_id, current_weekly_periods, created_at, updated_at) VALUES ($1, $2, 1, $3, $3) ON CONFLICT (school_id, teacher_id) DO UPDATE SET current_weekly_periods = teacher_loads.current_weekly_periods + 1, updated_at = $3`
	if _, err := exec.ExecContext(ctx, query, schoolID, teacherID, now); err != nil {
		return fmt.Errorf("increment teacher load: %w", err)
	}
	return nil
}

// DecrementTx lowers the teacher's weekly counter inside an existing
// transaction. The counter is clamped at zero.
func (r *TeacherLoadRepository) DecrementTx(ctx context.Context, exec sqlx.ExtContext, schoolID, teacherID string) error {
	now := time.Now().UTC()
	const query = `UPDATE teacher_loads SET current_weekly_periods = GREATEST(current_weekly_periods - 1, 0), updated_at = $3 WHERE school_id = $1 AND teacher_id = $2`
	if _, err := exec.ExecContext(ctx, query, schoolID, teacherID, now); err != nil {
		return fmt.Errorf("decrement teacher load: %w", err)
	}
	return nil
}
