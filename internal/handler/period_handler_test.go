package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/favouruzodinma/academixsuite-sub000/internal/middleware"
	"github.com/favouruzodinma/academixsuite-sub000/internal/models"
	"github.com/favouruzodinma/academixsuite-sub000/internal/service"
	appErrors "github.com/favouruzodinma/academixsuite-sub000/pkg/errors"
)

type periodServiceMock struct {
	listResp     []models.PeriodView
	listErr      error
	getResp      *models.Period
	getErr       error
	createResp   *models.Period
	createErr    error
	updateResp   *models.Period
	updateErr    error
	deleteErr    error
	lastSchoolID string
	lastFilter   models.PeriodFilter
	lastReq      service.SavePeriodRequest
	deleteCalled bool
}

func (m *periodServiceMock) List(ctx context.Context, schoolID string, filter models.PeriodFilter) ([]models.PeriodView, error) {
	m.lastSchoolID = schoolID
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *periodServiceMock) Get(ctx context.Context, schoolID, id string) (*models.Period, error) {
	m.lastSchoolID = schoolID
	return m.getResp, m.getErr
}

func (m *periodServiceMock) Create(ctx context.Context, schoolID string, req service.SavePeriodRequest) (*models.Period, error) {
	m.lastSchoolID = schoolID
	m.lastReq = req
	return m.createResp, m.createErr
}

func (m *periodServiceMock) Update(ctx context.Context, schoolID, id string, req service.SavePeriodRequest) (*models.Period, error) {
	m.lastSchoolID = schoolID
	m.lastReq = req
	return m.updateResp, m.updateErr
}

func (m *periodServiceMock) Delete(ctx context.Context, schoolID, id string) error {
	m.deleteCalled = true
	m.lastSchoolID = schoolID
	return m.deleteErr
}

func setTenant(c *gin.Context) {
	c.Set(middleware.ContextTenantKey, &models.TenantClaims{UserID: "admin-1", SchoolID: "school-1", Role: "admin"})
}

func TestPeriodHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &periodServiceMock{
		listResp: []models.PeriodView{{Period: models.Period{ID: "p-1", Day: "monday"}, SubjectName: "Mathematics"}},
	}
	handler := NewPeriodHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/periods?grade=7&day=monday", nil)
	c.Request = req
	setTenant(c)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "school-1", mockSvc.lastSchoolID)
	assert.Equal(t, "7", mockSvc.lastFilter.Grade)
	assert.Equal(t, "monday", mockSvc.lastFilter.Day)
}

func TestPeriodHandlerListWithoutTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPeriodHandler(&periodServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/periods", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPeriodHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &periodServiceMock{
		createResp: &models.Period{ID: "p-1", Day: "monday", PeriodNumber: 1},
	}
	handler := NewPeriodHandler(mockSvc)

	payload, _ := json.Marshal(service.SavePeriodRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		Day:       "monday",
		StartTime: "08:00",
		EndTime:   "08:45",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/periods", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	setTenant(c)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "teacher-1", mockSvc.lastReq.TeacherID)
}

func TestPeriodHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPeriodHandler(&periodServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/periods", bytes.NewBufferString(`{"class_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	setTenant(c)

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPeriodHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &periodServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "teacher is already booked"),
	}
	handler := NewPeriodHandler(mockSvc)

	payload, _ := json.Marshal(service.SavePeriodRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		Day:       "monday",
		StartTime: "08:00",
		EndTime:   "08:45",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/periods", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	setTenant(c)

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")
}

func TestPeriodHandlerUpdateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &periodServiceMock{
		updateErr: appErrors.Clone(appErrors.ErrNotFound, "period not found"),
	}
	handler := NewPeriodHandler(mockSvc)

	payload, _ := json.Marshal(service.SavePeriodRequest{
		ClassID:   "class-1",
		SubjectID: "subject-1",
		TeacherID: "teacher-1",
		Day:       "monday",
		StartTime: "08:00",
		EndTime:   "08:45",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/periods/ghost", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	setTenant(c)

	handler.Update(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPeriodHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &periodServiceMock{}
	handler := NewPeriodHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/periods/p-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "p-1"}}
	setTenant(c)

	handler.Delete(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.deleteCalled)
}
