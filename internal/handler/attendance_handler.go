package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	"github.com/hrd-platform/hr-admin-api/internal/service"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
	"github.com/hrd-platform/hr-admin-api/pkg/response"
)

// AttendanceHandler wires attendance record services to HTTP routes.
type AttendanceHandler struct {
	records *service.AttendanceService
}

// NewAttendanceHandler constructs a new AttendanceHandler.
func NewAttendanceHandler(records *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{records: records}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param period_id query string false "Filter by period"
// @Param employee_id query string false "Filter by employee"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance-records [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		PeriodID:   strings.TrimSpace(c.Query("period_id")),
		EmployeeID: strings.TrimSpace(c.Query("employee_id")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	records, pagination, err := h.records.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get attendance record detail
// @Tags Attendance
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /attendance-records/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	record, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance-records [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req service.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload"))
		return
	}
	record, err := h.records.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body service.AttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /attendance-records/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req service.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload"))
		return
	}
	record, err := h.records.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /attendance-records/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Attendance record deleted successfully")
}
