package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
)

func newPeriodRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

type queryRecorder struct {
	labels []string
}

func (m *queryRecorder) ObserveDBQuery(label string, duration time.Duration) {
	m.labels = append(m.labels, label)
}

func samplePeriod() *models.Period {
	return &models.Period{
		SchoolID:       "school-1",
		ClassID:        "class-1",
		SubjectID:      "subject-1",
		TeacherID:      "teacher-1",
		RoomNumber:     "R12",
		Day:            "monday",
		StartTime:      "08:00:00",
		EndTime:        "08:45:00",
		PeriodNumber:   1,
		AcademicYearID: "year-1",
		AcademicTermID: "term-1",
	}
}

func TestPeriodRepositoryList(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "class_id", "subject_id", "teacher_id", "room_number", "day", "start_time", "end_time", "period_number", "is_break", "academic_year_id", "academic_term_id", "created_at", "updated_at", "grade", "section", "class_name", "subject_name", "teacher_name"}).
		AddRow("p-1", "school-1", "class-1", "subject-1", "teacher-1", "R12", "monday", "08:00:00", "08:45:00", 1, false, "year-1", "term-1", now, now, "7", "A", "7A", "Mathematics", "Jane Okafor")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.school_id")).
		WithArgs("school-1", "7", "monday").
		WillReturnRows(rows)

	periods, err := repo.List(context.Background(), "school-1", models.PeriodFilter{Grade: "7", Day: "monday"})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	require.Equal(t, "Mathematics", periods[0].SubjectName)
	require.Equal(t, 1, periods[0].PeriodNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "class_id", "subject_id", "teacher_id", "room_number", "day", "start_time", "end_time", "period_number", "is_break", "academic_year_id", "academic_term_id", "created_at", "updated_at"}).
		AddRow("p-1", "school-1", "class-1", "subject-1", "teacher-1", "R12", "monday", "08:00:00", "08:45:00", 1, false, "year-1", "term-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id")).
		WithArgs("school-1", "p-1").
		WillReturnRows(rows)

	period, err := repo.FindByID(context.Background(), "school-1", "p-1")
	require.NoError(t, err)
	require.Equal(t, "teacher-1", period.TeacherID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	recorder := &queryRecorder{}
	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), recorder)
	period := samplePeriod()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WithArgs("school-1:teacher-1:monday").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO periods")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_loads")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), period, ""))
	require.NotEmpty(t, period.ID)
	require.False(t, period.CreatedAt.IsZero())
	require.Equal(t, []string{"periods_create"}, recorder.labels)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryCreateTeacherBusy(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), samplePeriod(), "")
	require.ErrorIs(t, err, ErrTeacherBusy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryCreateIgnoresSourceClass(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)
	period := samplePeriod()
	period.ClassID = "class-2"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods")).
		WithArgs("school-1", "teacher-1", "monday", "08:45:00", "08:00:00", "", "class-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO periods")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_loads")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), period, "class-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryUpdateRebalancesLedger(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)
	period := samplePeriod()
	period.ID = "p-1"
	period.TeacherID = "teacher-2"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_loads SET current_weekly_periods = GREATEST")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_loads")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), period, "teacher-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryUpdateSameTeacherSkipsLedger(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)
	period := samplePeriod()
	period.ID = "p-1"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), period, "teacher-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM periods")).
		WithArgs("school-1", "p-1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("teacher-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM periods")).
		WithArgs("school-1", "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_loads SET current_weekly_periods = GREATEST")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "school-1", "p-1")
	require.NoError(t, err)
	require.True(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryDeleteUnknownID(t *testing.T) {
	db, mock, cleanup := newPeriodRepoMock(t)
	defer cleanup()

	repo := NewPeriodRepository(db, NewTeacherLoadRepository(db), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM periods")).
		WithArgs("school-1", "ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	deleted, err := repo.Delete(context.Background(), "school-1", "ghost")
	require.NoError(t, err)
	require.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
