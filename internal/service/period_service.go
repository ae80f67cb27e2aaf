package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
	"github.com/favouruzodinma/academixsuite-sub000/internal/repository"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context, schoolID string, filter models.PeriodFilter) ([]models.PeriodView, error)
	FindByID(ctx context.Context, schoolID, id string) (*models.Period, error)
	ListForTeacherDay(ctx context.Context, schoolID, teacherID, day string) ([]models.Period, error)
	ListByClass(ctx context.Context, schoolID, classID string) ([]models.Period, error)
	Create(ctx context.Context, period *models.Period, ignoreClassID string) error
	Update(ctx context.Context, period *models.Period, previousTeacherID string) error
	Delete(ctx context.Context, schoolID, id string) (bool, error)
}

type academicRepository interface {
	DefaultYearID(ctx context.Context, schoolID string) (string, error)
	DefaultTermID(ctx context.Context, schoolID string) (string, error)
}

type loadCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SavePeriodRequest is the payload for creating or updating a period.
type SavePeriodRequest struct {
	ClassID    string `json:"class_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	RoomNumber string `json:"room_number"`
	Day        string `json:"day" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	IsBreak    bool   `json:"is_break"`
}

// CopyScheduleRequest duplicates one class's weekly periods onto others.
type CopyScheduleRequest struct {
	SourceClassID  string   `json:"source_class_id" validate:"required"`
	TargetClassIDs []string `json:"target_class_ids" validate:"required,min=1,dive,required"`
	Overwrite      bool     `json:"overwrite"`
}

// CopyScheduleResult summarises a copy run. Conflicting periods are reported,
// never silently skipped; non-conflicting ones stay committed.
type CopyScheduleResult struct {
	CopiedCount int                     `json:"copied_count"`
	Conflicts   []models.PeriodConflict `json:"conflicts,omitempty"`
}

// PeriodService owns period writes: validation, teacher conflict evaluation,
// slot numbering, academic defaults and ledger-consistent persistence.
type PeriodService struct {
	repo      periodRepository
	academic  academicRepository
	cache     loadCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService instantiates PeriodService.
func NewPeriodService(repo periodRepository, academic academicRepository, cache loadCache, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	// report offending fields by their wire names (subject_id, not SubjectID)
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, academic: academic, cache: cache, validator: validate, logger: logger}
}

// List returns periods with display attributes, filtered by grade, section
// and day.
func (s *PeriodService) List(ctx context.Context, schoolID string, filter models.PeriodFilter) ([]models.PeriodView, error) {
	filter.Day = strings.ToLower(filter.Day)
	periods, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// Get loads one period by id.
func (s *PeriodService) Get(ctx context.Context, schoolID, id string) (*models.Period, error) {
	period, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

// Create inserts a new period after validation and conflict evaluation.
func (s *PeriodService) Create(ctx context.Context, schoolID string, req SavePeriodRequest) (*models.Period, error) {
	return s.create(ctx, schoolID, req, "")
}

// create is the single insert path shared by Create and CopySchedule.
// ignoreClassID exempts one class from conflict evaluation: the copier passes
// the source class, whose periods legitimately mirror the copied slots.
func (s *PeriodService) create(ctx context.Context, schoolID string, req SavePeriodRequest, ignoreClassID string) (*models.Period, error) {
	period, err := s.buildPeriod(ctx, schoolID, req)
	if err != nil {
		return nil, err
	}

	if err := s.ensureTeacherFree(ctx, *period, "", ignoreClassID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, period, ignoreClassID); err != nil {
		if errors.Is(err, repository.ErrTeacherBusy) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already scheduled in this time range")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}

	s.invalidateLoad(ctx, schoolID, period.TeacherID)
	return period, nil
}

// Update modifies an existing period. The conflict check excludes the period
// itself; when the teacher changes, both teachers' ledgers are rebalanced.
func (s *PeriodService) Update(ctx context.Context, schoolID, id string, req SavePeriodRequest) (*models.Period, error) {
	existing, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	period, err := s.buildPeriod(ctx, schoolID, req)
	if err != nil {
		return nil, err
	}
	period.ID = existing.ID
	period.AcademicYearID = existing.AcademicYearID
	period.AcademicTermID = existing.AcademicTermID
	period.CreatedAt = existing.CreatedAt

	if err := s.ensureTeacherFree(ctx, *period, existing.ID, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, period, existing.TeacherID); err != nil {
		if errors.Is(err, repository.ErrTeacherBusy) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already scheduled in this time range")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update period")
	}

	s.invalidateLoad(ctx, schoolID, existing.TeacherID)
	if period.TeacherID != existing.TeacherID {
		s.invalidateLoad(ctx, schoolID, period.TeacherID)
	}
	return period, nil
}

// Delete removes a period and settles the teacher's ledger. Deleting an
// already-deleted id is a no-op success.
func (s *PeriodService) Delete(ctx context.Context, schoolID, id string) error {
	existing, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	if _, err := s.repo.Delete(ctx, schoolID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete period")
	}

	s.invalidateLoad(ctx, schoolID, existing.TeacherID)
	return nil
}

// CopySchedule duplicates the source class's periods onto every target class,
// routing each copied period through the same conflict-check-then-ledger path
// as Create. Overwrite clears targets first via the per-period delete
// primitive so the ledger never drifts.
func (s *PeriodService) CopySchedule(ctx context.Context, schoolID string, req CopyScheduleRequest) (*CopyScheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	source, err := s.repo.ListByClass(ctx, schoolID, req.SourceClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source periods")
	}
	if len(source) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "source class has no periods to copy")
	}

	result := &CopyScheduleResult{}

	for _, targetID := range req.TargetClassIDs {
		if targetID == req.SourceClassID {
			continue
		}

		if req.Overwrite {
			targetPeriods, err := s.repo.ListByClass(ctx, schoolID, targetID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target periods")
			}
			for _, p := range targetPeriods {
				if err := s.Delete(ctx, schoolID, p.ID); err != nil {
					return nil, err
				}
			}
		}

		for _, src := range source {
			payload := SavePeriodRequest{
				ClassID:    targetID,
				SubjectID:  src.SubjectID,
				TeacherID:  src.TeacherID,
				RoomNumber: src.RoomNumber,
				Day:        src.Day,
				StartTime:  src.StartTime,
				EndTime:    src.EndTime,
				IsBreak:    src.IsBreak,
			}
			if _, err := s.create(ctx, schoolID, payload, req.SourceClassID); err != nil {
				var conflictErr *models.PeriodConflictError
				if errors.As(err, &conflictErr) {
					result.Conflicts = append(result.Conflicts, conflictErr.Conflict)
					continue
				}
				if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
					result.Conflicts = append(result.Conflicts, models.PeriodConflict{
						TeacherID: src.TeacherID,
						Day:       src.Day,
						StartTime: src.StartTime,
						EndTime:   src.EndTime,
					})
					continue
				}
				return nil, err
			}
			result.CopiedCount++
		}
	}

	return result, nil
}

// buildPeriod validates the payload and resolves derived fields: lowercase
// day, slot ordinal and the tenant's default academic year/term.
func (s *PeriodService) buildPeriod(ctx context.Context, schoolID string, req SavePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	day := strings.ToLower(strings.TrimSpace(req.Day))
	if models.DayIndex(day) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be monday through saturday")
	}

	start, err := MinuteOfDay(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time is not a valid time of day")
	}
	end, err := MinuteOfDay(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time is not a valid time of day")
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must precede end_time")
	}

	yearID, err := s.academic.DefaultYearID(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve academic year")
	}
	termID, err := s.academic.DefaultTermID(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve academic term")
	}

	return &models.Period{
		SchoolID:       schoolID,
		ClassID:        req.ClassID,
		SubjectID:      req.SubjectID,
		TeacherID:      req.TeacherID,
		RoomNumber:     strings.TrimSpace(req.RoomNumber),
		Day:            day,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		PeriodNumber:   PeriodNumberFor(req.StartTime),
		IsBreak:        req.IsBreak,
		AcademicYearID: yearID,
		AcademicTermID: termID,
	}, nil
}

// ensureTeacherFree rejects the proposed period when the teacher already has
// an overlapping period that day. Conflict scope is the teacher only; room
// clashes are not checked.
func (s *PeriodService) ensureTeacherFree(ctx context.Context, period models.Period, excludeID, ignoreClassID string) error {
	existing, err := s.repo.ListForTeacherDay(ctx, period.SchoolID, period.TeacherID, period.Day)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher availability")
	}

	start, err := MinuteOfDay(period.StartTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time is not a valid time of day")
	}
	end, err := MinuteOfDay(period.EndTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_time is not a valid time of day")
	}

	for _, item := range existing {
		if item.ID == excludeID {
			continue
		}
		if ignoreClassID != "" && item.ClassID == ignoreClassID {
			continue
		}
		itemStart, err := MinuteOfDay(item.StartTime)
		if err != nil {
			continue
		}
		itemEnd, err := MinuteOfDay(item.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(start, end, itemStart, itemEnd) {
			conflict := models.PeriodConflict{
				PeriodID:  item.ID,
				ClassID:   item.ClassID,
				SubjectID: item.SubjectID,
				TeacherID: item.TeacherID,
				Day:       item.Day,
				StartTime: item.StartTime,
				EndTime:   item.EndTime,
			}
			domainErr := &models.PeriodConflictError{
				Message:  "teacher already scheduled in this time range",
				Conflict: conflict,
			}
			return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("schedule conflict: %s", domainErr.Message))
		}
	}
	return nil
}

func (s *PeriodService) invalidateLoad(ctx context.Context, schoolID, teacherID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, loadCacheKey(schoolID, teacherID)); err != nil {
		s.logger.Warn("teacher load cache invalidation failed",
			zap.String("school_id", schoolID),
			zap.String("teacher_id", teacherID),
			zap.Error(err))
	}
}

func loadCacheKey(schoolID, teacherID string) string {
	return fmt.Sprintf("teacher_load:%s:%s", schoolID, teacherID)
}

// validationError converts validator failures into a VALIDATION_ERROR naming
// the first offending field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("%s is required", fieldErrs[0].Field()))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
