package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AcademicRepository resolves the tenant's default academic year and term.
// Year and term records are owned by the admin panel; this service only reads
// them when stamping new periods.
type AcademicRepository struct {
	db *sqlx.DB
}

// NewAcademicRepository creates a new academic repository.
func NewAcademicRepository(db *sqlx.DB) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// DefaultYearID returns the school's default academic year id. Schools
// migrated from the legacy panel may have no row flagged default; those fall
// back to id "1".
func (r *AcademicRepository) DefaultYearID(ctx context.Context, schoolID string) (string, error) {
	const query = `SELECT id FROM academic_years WHERE school_id = $1 AND is_default = TRUE LIMIT 1`
	var id string
	if err := r.db.GetContext(ctx, &id, query, schoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "1", nil
		}
		return "", fmt.Errorf("resolve default academic year: %w", err)
	}
	return id, nil
}

// DefaultTermID returns the school's default academic term id, with the same
// id "1" fallback as DefaultYearID.
func (r *AcademicRepository) DefaultTermID(ctx context.Context, schoolID string) (string, error) {
	const query = `SELECT id FROM academic_terms WHERE school_id = $1 AND is_default = TRUE LIMIT 1`
	var id string
	if err := r.db.GetContext(ctx, &id, query, schoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "1", nil
		}
		return "", fmt.Errorf("resolve default academic term: %w", err)
	}
	return id, nil
}
