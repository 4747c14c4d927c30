package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrd-platform/hr-admin-api/internal/dto"
	"github.com/hrd-platform/hr-admin-api/internal/models"
	"github.com/hrd-platform/hr-admin-api/internal/service"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
	"github.com/hrd-platform/hr-admin-api/pkg/response"
)

// PeriodHandler wires period services to HTTP routes.
type PeriodHandler struct {
	periods *service.PeriodService
}

// NewPeriodHandler constructs a new PeriodHandler.
func NewPeriodHandler(periods *service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periods: periods}
}

// List godoc
// @Summary List periods
// @Tags Periods
// @Produce json
// @Param search query string false "Search by description"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	filter := models.PeriodFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	periods, pagination, err := h.periods.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewPeriodList(periods), pagination)
}

// Get godoc
// @Summary Get period detail
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [get]
func (h *PeriodHandler) Get(c *gin.Context) {
	period, err := h.periods.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewPeriodResponse(*period), nil)
}

// Create godoc
// @Summary Create period
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body service.PeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	var req service.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload"))
		return
	}
	period, err := h.periods.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewPeriodResponse(*period))
}

// Update godoc
// @Summary Update period
// @Tags Periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param payload body service.PeriodRequest true "Period payload"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [put]
func (h *PeriodHandler) Update(c *gin.Context) {
	var req service.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload"))
		return
	}
	period, err := h.periods.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewPeriodResponse(*period), nil)
}

// Delete godoc
// @Summary Delete period
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [delete]
func (h *PeriodHandler) Delete(c *gin.Context) {
	if err := h.periods.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Period deleted successfully")
}
