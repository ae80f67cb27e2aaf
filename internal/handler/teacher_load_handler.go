package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/response"
)

type teacherLoadService interface {
	GetLoad(ctx context.Context, schoolID, teacherID string) (*models.TeacherLoadSummary, error)
}

// TeacherLoadHandler serves teacher workload summaries.
type TeacherLoadHandler struct {
	service teacherLoadService
}

// NewTeacherLoadHandler constructs handler.
func NewTeacherLoadHandler(svc teacherLoadService) *TeacherLoadHandler {
	return &TeacherLoadHandler{service: svc}
}

// Get godoc
// @Summary Get a teacher's weekly load
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/load [get]
func (h *TeacherLoadHandler) Get(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, err := h.service.GetLoad(c.Request.Context(), tenant.SchoolID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
