package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/favouruzodinma/academixsuite-sub000/internal/service"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/response"
)

type scheduleCopier interface {
	CopySchedule(ctx context.Context, schoolID string, req service.CopyScheduleRequest) (*service.CopyScheduleResult, error)
}

type scheduleGenerator interface {
	Generate(ctx context.Context, schoolID string) error
}

// TimetableHandler exposes bulk timetable operations.
type TimetableHandler struct {
	copier    scheduleCopier
	generator scheduleGenerator
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(copier scheduleCopier, generator scheduleGenerator) *TimetableHandler {
	return &TimetableHandler{copier: copier, generator: generator}
}

// Copy godoc
// @Summary Copy a class's schedule onto other classes
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.CopyScheduleRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/copy [post]
func (h *TimetableHandler) Copy(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CopyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.copier.CopySchedule(c.Request.Context(), tenant.SchoolID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Generate godoc
// @Summary Generate a timetable automatically
// @Tags Timetable
// @Produce json
// @Success 501 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.generator.Generate(c.Request.Context(), tenant.SchoolID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "scheduled"}, nil)
}
