package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
	"github.com/favouruzodinma/academixsuite-sub000/internal/service"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
	"github.com/favouruzodinma/academixsuite-sub000/pkg/response"
)

type periodService interface {
	List(ctx context.Context, schoolID string, filter models.PeriodFilter) ([]models.PeriodView, error)
	Get(ctx context.Context, schoolID, id string) (*models.Period, error)
	Create(ctx context.Context, schoolID string, req service.SavePeriodRequest) (*models.Period, error)
	Update(ctx context.Context, schoolID, id string, req service.SavePeriodRequest) (*models.Period, error)
	Delete(ctx context.Context, schoolID, id string) error
}

// PeriodHandler manages period endpoints.
type PeriodHandler struct {
	service periodService
}

// NewPeriodHandler constructs handler.
func NewPeriodHandler(svc periodService) *PeriodHandler {
	return &PeriodHandler{service: svc}
}

// List godoc
// @Summary List periods
// @Tags Periods
// @Produce json
// @Param grade query string false "Filter by class grade"
// @Param section query string false "Filter by class section"
// @Param day query string false "Filter by weekday"
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.PeriodFilter{
		Grade:   c.Query("grade"),
		Section: c.Query("section"),
		Day:     c.Query("day"),
	}

	periods, err := h.service.List(c.Request.Context(), tenant.SchoolID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Get godoc
// @Summary Get a period
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [get]
func (h *PeriodHandler) Get(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	period, err := h.service.Get(c.Request.Context(), tenant.SchoolID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// Create godoc
// @Summary Create period
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body service.SavePeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Router /periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SavePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	period, err := h.service.Create(c.Request.Context(), tenant.SchoolID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Update godoc
// @Summary Update period
// @Tags Periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param payload body service.SavePeriodRequest true "Period payload"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [put]
func (h *PeriodHandler) Update(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SavePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	period, err := h.service.Update(c.Request.Context(), tenant.SchoolID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, period, nil)
}

// Delete godoc
// @Summary Delete period
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 204
// @Router /periods/{id} [delete]
func (h *PeriodHandler) Delete(c *gin.Context) {
	tenant := tenantFromContext(c)
	if tenant == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenant.SchoolID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
