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

// PositionHandler wires position services to HTTP routes.
type PositionHandler struct {
	positions *service.PositionService
}

// NewPositionHandler constructs a new PositionHandler.
func NewPositionHandler(positions *service.PositionService) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// List godoc
// @Summary List positions
// @Tags Positions
// @Produce json
// @Param search query string false "Search by title"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /positions [get]
func (h *PositionHandler) List(c *gin.Context) {
	filter := models.PositionFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	positions, pagination, err := h.positions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, positions, pagination)
}

// Get godoc
// @Summary Get position detail
// @Tags Positions
// @Produce json
// @Param id path string true "Position ID"
// @Success 200 {object} response.Envelope
// @Router /positions/{id} [get]
func (h *PositionHandler) Get(c *gin.Context) {
	position, err := h.positions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, position, nil)
}

// Create godoc
// @Summary Create position
// @Tags Positions
// @Accept json
// @Produce json
// @Param payload body service.PositionRequest true "Position payload"
// @Success 201 {object} response.Envelope
// @Router /positions [post]
func (h *PositionHandler) Create(c *gin.Context) {
	var req service.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid position payload"))
		return
	}
	position, err := h.positions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, position)
}

// Update godoc
// @Summary Update position
// @Tags Positions
// @Accept json
// @Produce json
// @Param id path string true "Position ID"
// @Param payload body service.PositionRequest true "Position payload"
// @Success 200 {object} response.Envelope
// @Router /positions/{id} [put]
func (h *PositionHandler) Update(c *gin.Context) {
	var req service.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid position payload"))
		return
	}
	position, err := h.positions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, position, nil)
}

// Delete godoc
// @Summary Delete position
// @Tags Positions
// @Produce json
// @Param id path string true "Position ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /positions/{id} [delete]
func (h *PositionHandler) Delete(c *gin.Context) {
	if err := h.positions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Position deleted successfully")
}
