package models

import "time"

// Weekdays that may carry scheduled periods, in display order. Sunday is
// never schedulable.
var SchoolDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// DayIndex returns the 1-based position of a lowercase weekday within the
// school week, or 0 when the day is not schedulable.
func DayIndex(day string) int {
	for i, d := range SchoolDays {
		if d == day {
			return i + 1
		}
	}
	return 0
}

// Period represents one scheduled teaching or break slot for a class on a
// given weekday, scoped to a school.
type Period struct {
	ID             string    `db:"id" json:"id"`
	SchoolID       string    `db:"school_id" json:"school_id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	RoomNumber     string    `db:"room_number" json:"room_number,omitempty"`
	Day            string    `db:"day" json:"day"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	PeriodNumber   int       `db:"period_number" json:"period_number"`
	IsBreak        bool      `db:"is_break" json:"is_break"`
	AcademicYearID string    `db:"academic_year_id" json:"academic_year_id"`
	AcademicTermID string    `db:"academic_term_id" json:"academic_term_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PeriodView is a Period joined with directory attributes for display.
type PeriodView struct {
	Period
	Grade       string `db:"grade" json:"grade"`
	Section     string `db:"section" json:"section"`
	ClassName   string `db:"class_name" json:"class_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// PeriodFilter describes query params for listing periods.
type PeriodFilter struct {
	Grade   string
	Section string
	Day     string
}

// PeriodConflict describes an existing period that blocks a proposed one.
type PeriodConflict struct {
	PeriodID  string `json:"period_id"`
	ClassID   string `json:"class_id"`
	SubjectID string `json:"subject_id"`
	TeacherID string `json:"teacher_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// PeriodConflictError is returned when a proposed period would double-book a
// teacher.
type PeriodConflictError struct {
	Message  string         `json:"message"`
	Conflict PeriodConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *PeriodConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Pagination carries list metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
