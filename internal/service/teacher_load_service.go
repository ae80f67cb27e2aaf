package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
)

type teacherLoadRepository interface {
	Find(ctx context.Context, schoolID, teacherID string) (*models.TeacherLoad, error)
	PerDayBreakdown(ctx context.Context, schoolID, teacherID string) ([]models.DayPeriodCount, error)
}

type teacherDirectory interface {
	TeacherExists(ctx context.Context, schoolID, teacherID string) (bool, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type loadMetrics interface {
	RecordCacheOperation(hit bool)
}

// DefaultMaxWeeklyPeriods applies when a teacher has no explicit cap.
const DefaultMaxWeeklyPeriods = 30

// TeacherLoadService derives workload summaries from the ledger and the
// period records, with a short-lived cache in front.
type TeacherLoadService struct {
	loads     teacherLoadRepository
	directory teacherDirectory
	cache     summaryCache
	metrics   loadMetrics
	maxWeekly int
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewTeacherLoadService instantiates TeacherLoadService. metrics may be nil.
func NewTeacherLoadService(loads teacherLoadRepository, directory teacherDirectory, cache summaryCache, metrics loadMetrics, maxWeekly int, cacheTTL time.Duration, logger *zap.Logger) *TeacherLoadService {
	if maxWeekly <= 0 {
		maxWeekly = DefaultMaxWeeklyPeriods
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherLoadService{loads: loads, directory: directory, cache: cache, metrics: metrics, maxWeekly: maxWeekly, cacheTTL: cacheTTL, logger: logger}
}

// GetLoad returns the teacher's workload summary. Utilization is computed at
// read time, never stored.
func (s *TeacherLoadService) GetLoad(ctx context.Context, schoolID, teacherID string) (*models.TeacherLoadSummary, error) {
	key := loadCacheKey(schoolID, teacherID)
	if s.cache != nil {
		var cached models.TeacherLoadSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCache(true)
			return &cached, nil
		}
		s.recordCache(false)
	}

	exists, err := s.directory.TeacherExists(ctx, schoolID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up teacher")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	current := 0
	max := s.maxWeekly
	load, err := s.loads.Find(ctx, schoolID, teacherID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher ledger")
		}
		// no ledger row yet: the teacher has never been scheduled
	} else {
		current = load.CurrentWeeklyPeriods
		if load.MaxWeeklyPeriods.Valid && load.MaxWeeklyPeriods.Int64 > 0 {
			max = int(load.MaxWeeklyPeriods.Int64)
		}
	}

	breakdown, err := s.loads.PerDayBreakdown(ctx, schoolID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate teacher periods")
	}

	summary := &models.TeacherLoadSummary{
		TeacherID:            teacherID,
		CurrentWeeklyPeriods: current,
		MaxWeeklyPeriods:     max,
		Remaining:            max - current,
		UtilizationPct:       float64(current) / float64(max) * 100,
		PerDayBreakdown:      breakdown,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("teacher load cache write failed",
				zap.String("school_id", schoolID),
				zap.String("teacher_id", teacherID),
				zap.Error(err))
		}
	}
	return summary, nil
}

func (s *TeacherLoadService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}
