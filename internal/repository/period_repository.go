package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
)

// ErrTeacherBusy is returned when the in-transaction re-check finds an
// overlapping period for the same teacher and day.
var ErrTeacherBusy = errors.New("teacher already booked for an overlapping period")

const periodColumns = `id, school_id, class_id, subject_id, teacher_id, room_number, day, start_time, end_time, period_number, is_break, academic_year_id, academic_term_id, created_at, updated_at`

type dbMetrics interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// PeriodRepository provides persistence for timetable periods. Every write
// adjusts the teacher load ledger inside the same transaction.
type PeriodRepository struct {
	db      *sqlx.DB
	loads   *TeacherLoadRepository
	metrics dbMetrics
}

// NewPeriodRepository creates a new period repository. metrics may be nil.
func NewPeriodRepository(db *sqlx.DB, loads *TeacherLoadRepository, metrics dbMetrics) *PeriodRepository {
	return &PeriodRepository{db: db, loads: loads, metrics: metrics}
}

func (r *PeriodRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

// List returns periods joined with class/subject/teacher directory attributes
// for display, ordered by grade, section, weekday and start time.
func (r *PeriodRepository) List(ctx context.Context, schoolID string, filter models.PeriodFilter) ([]models.PeriodView, error) {
	defer r.observe("periods_list", time.Now())

	base := `FROM periods p JOIN classes c ON c.id = p.class_id JOIN subjects s ON s.id = p.subject_id JOIN teachers t ON t.id = p.teacher_id WHERE p.school_id = $1`
	args := []interface{}{schoolID}
	var conditions []string

	if filter.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("c.grade = $%d", len(args)+1))
		args = append(args, filter.Grade)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("c.section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("p.day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT p.id, p.school_id, p.class_id, p.subject_id, p.teacher_id, p.room_number, p.day, p.start_time, p.end_time, p.period_number, p.is_break, p.academic_year_id, p.academic_term_id, p.created_at, p.updated_at, c.grade, c.section, c.name AS class_name, s.name AS subject_name, t.full_name AS teacher_name %s ORDER BY c.grade ASC, c.section ASC, CASE p.day WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 ELSE 7 END, p.start_time ASC", base)

	var periods []models.PeriodView
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// FindByID loads a period by id within a school.
func (r *PeriodRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Period, error) {
	defer r.observe("periods_find", time.Now())

	query := fmt.Sprintf("SELECT %s FROM periods WHERE school_id = $1 AND id = $2", periodColumns)
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, schoolID, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// ListForTeacherDay returns a teacher's periods on one weekday, the working
// set for conflict evaluation.
func (r *PeriodRepository) ListForTeacherDay(ctx context.Context, schoolID, teacherID, day string) ([]models.Period, error) {
	defer r.observe("periods_teacher_day", time.Now())

	query := fmt.Sprintf("SELECT %s FROM periods WHERE school_id = $1 AND teacher_id = $2 AND day = $3 ORDER BY start_time ASC", periodColumns)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, schoolID, teacherID, day); err != nil {
		return nil, fmt.Errorf("list periods for teacher day: %w", err)
	}
	return periods, nil
}

// ListByClass returns a class's periods ordered by weekday and start time.
func (r *PeriodRepository) ListByClass(ctx context.Context, schoolID, classID string) ([]models.Period, error) {
	defer r.observe("periods_by_class", time.Now())

	query := fmt.Sprintf("SELECT %s FROM periods WHERE school_id = $1 AND class_id = $2 ORDER BY CASE day WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 ELSE 7 END, start_time ASC", periodColumns)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, schoolID, classID); err != nil {
		return nil, fmt.Errorf("list periods by class: %w", err)
	}
	return periods, nil
}

// Create stores a new period and increments the teacher's ledger atomically.
// The teacher/day scope is serialised with an advisory lock and the overlap
// check re-run inside the transaction, so two concurrent writes cannot both
// pass the evaluator. ignoreClassID exempts one class's periods from the
// re-check; the schedule copier passes the source class there, since a copied
// period legitimately mirrors the source teacher's slot.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period, ignoreClassID string) error {
	defer r.observe("periods_create", time.Now())

	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create period: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.recheckTeacherFree(ctx, tx, period.SchoolID, period.TeacherID, period.Day, period.StartTime, period.EndTime, "", ignoreClassID); err != nil {
		return err
	}

	const query = `INSERT INTO periods (id, school_id, class_id, subject_id, teacher_id, room_number, day, start_time, end_time, period_number, is_break, academic_year_id, academic_term_id, created_at, updated_at) VALUES (:id, :school_id, :class_id, :subject_id, :teacher_id, :room_number, :day, :start_time, :end_time, :period_number, :is_break, :academic_year_id, :academic_term_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}

	if err = r.loads.IncrementTx(ctx, tx, period.SchoolID, period.TeacherID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create period: %w", err)
	}
	return nil
}

// Update modifies a period record. When the teacher changed, the ledger is
// rebalanced (old teacher down, new teacher up) in the same transaction.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period, previousTeacherID string) error {
	defer r.observe("periods_update", time.Now())

	period.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update period: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.recheckTeacherFree(ctx, tx, period.SchoolID, period.TeacherID, period.Day, period.StartTime, period.EndTime, period.ID, ""); err != nil {
		return err
	}

	const query = `UPDATE periods SET class_id = :class_id, subject_id = :subject_id, teacher_id = :teacher_id, room_number = :room_number, day = :day, start_time = :start_time, end_time = :end_time, period_number = :period_number, is_break = :is_break, updated_at = :updated_at WHERE school_id = :school_id AND id = :id`
	if _, err = tx.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("update period: %w", err)
	}

	if previousTeacherID != "" && previousTeacherID != period.TeacherID {
		if err = r.loads.DecrementTx(ctx, tx, period.SchoolID, previousTeacherID); err != nil {
			return err
		}
		if err = r.loads.IncrementTx(ctx, tx, period.SchoolID, period.TeacherID); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update period: %w", err)
	}
	return nil
}

// Delete removes a period and decrements its teacher's ledger. Deleting an
// unknown id reports deleted=false without error.
func (r *PeriodRepository) Delete(ctx context.Context, schoolID, id string) (bool, error) {
	defer r.observe("periods_delete", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete period: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var teacherID string
	err = tx.GetContext(ctx, &teacherID, `SELECT teacher_id FROM periods WHERE school_id = $1 AND id = $2`, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			_ = tx.Rollback()
			return false, nil
		}
		return false, fmt.Errorf("load period teacher: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM periods WHERE school_id = $1 AND id = $2`, schoolID, id); err != nil {
		return false, fmt.Errorf("delete period: %w", err)
	}

	if err = r.loads.DecrementTx(ctx, tx, schoolID, teacherID); err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete period: %w", err)
	}
	return true, nil
}

func (r *PeriodRepository) recheckTeacherFree(ctx context.Context, tx *sqlx.Tx, schoolID, teacherID, day, start, end, excludeID, ignoreClassID string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, schoolID+":"+teacherID+":"+day); err != nil {
		return fmt.Errorf("lock teacher day: %w", err)
	}

	var blocking int
	const query = `SELECT COUNT(*) FROM periods WHERE school_id = $1 AND teacher_id = $2 AND day = $3 AND start_time < $4 AND end_time > $5 AND ($6 = '' OR id <> $6) AND ($7 = '' OR class_id <> $7)`
	if err := tx.GetContext(ctx, &blocking, query, schoolID, teacherID, day, end, start, excludeID, ignoreClassID); err != nil {
		return fmt.Errorf("recheck teacher availability: %w", err)
	}
	if blocking > 0 {
		return ErrTeacherBusy
	}
	return nil
}
