package models

import (
	"database/sql"
	"time"
)

// TeacherLoad is the persisted ledger row counting a teacher's committed
// weekly periods within a school.
type TeacherLoad struct {
	SchoolID             string        `db:"school_id" json:"school_id"`
	TeacherID            string        `db:"teacher_id" json:"teacher_id"`
	CurrentWeeklyPeriods int           `db:"current_weekly_periods" json:"current_weekly_periods"`
	MaxWeeklyPeriods     sql.NullInt64 `db:"max_weekly_periods" json:"-"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updated_at"`
}

// DayPeriodCount is one weekday's share of a teacher's load.
type DayPeriodCount struct {
	Day     string `db:"day" json:"day"`
	Periods int    `db:"periods" json:"periods"`
}

// TeacherLoadSummary is the read-side view of a teacher's workload.
type TeacherLoadSummary struct {
	TeacherID            string           `json:"teacher_id"`
	CurrentWeeklyPeriods int              `json:"current_weekly_periods"`
	MaxWeeklyPeriods     int              `json:"max_weekly_periods"`
	Remaining            int              `json:"remaining"`
	UtilizationPct       float64          `json:"utilization_pct"`
	PerDayBreakdown      []DayPeriodCount `json:"per_day_breakdown"`
}
