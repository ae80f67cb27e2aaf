package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
)

// GeneratorService is the automatic timetable generation capability. The
// panel exposed the operation but never implemented the solver; this service
// keeps the surface and answers 501 until one exists.
type GeneratorService struct {
	enabled bool
	logger  *zap.Logger
}

// NewGeneratorService instantiates GeneratorService.
func NewGeneratorService(enabled bool, logger *zap.Logger) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{enabled: enabled, logger: logger}
}

// Generate is not implemented. Constraint-based assignment search is out of
// scope; manual period placement plus copy is the supported path.
func (s *GeneratorService) Generate(ctx context.Context, schoolID string) error {
	s.logger.Info("timetable generation requested", zap.String("school_id", schoolID), zap.Bool("enabled", s.enabled))
	return appErrors.Clone(appErrors.ErrNotImplemented, "automatic timetable generation is not implemented")
}
