package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TeacherDirectoryRepository reads the teacher directory owned by the admin
// panel. Scheduling only ever needs existence checks against it.
type TeacherDirectoryRepository struct {
	db *sqlx.DB
}

// NewTeacherDirectoryRepository creates a new teacher directory repository.
func NewTeacherDirectoryRepository(db *sqlx.DB) *TeacherDirectoryRepository {
	return &TeacherDirectoryRepository{db: db}
}

// TeacherExists reports whether the directory knows the teacher id within the
// school.
func (r *TeacherDirectoryRepository) TeacherExists(ctx context.Context, schoolID, teacherID string) (bool, error) {
	const query = `SELECT 1 FROM teachers WHERE school_id = $1 AND id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, schoolID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup teacher: %w", err)
	}
	return true, nil
}
