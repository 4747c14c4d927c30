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

// LevelHandler wires level services to HTTP routes.
type LevelHandler struct {
	levels *service.LevelService
}

// NewLevelHandler constructs a new LevelHandler.
func NewLevelHandler(levels *service.LevelService) *LevelHandler {
	return &LevelHandler{levels: levels}
}

// List godoc
// @Summary List levels
// @Tags Levels
// @Produce json
// @Param search query string false "Search by label"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /levels [get]
func (h *LevelHandler) List(c *gin.Context) {
	filter := models.LevelFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	levels, pagination, err := h.levels.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels, pagination)
}

// Get godoc
// @Summary Get level detail
// @Tags Levels
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} response.Envelope
// @Router /levels/{id} [get]
func (h *LevelHandler) Get(c *gin.Context) {
	level, err := h.levels.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// Create godoc
// @Summary Create level
// @Tags Levels
// @Accept json
// @Produce json
// @Param payload body service.LevelRequest true "Level payload"
// @Success 201 {object} response.Envelope
// @Router /levels [post]
func (h *LevelHandler) Create(c *gin.Context) {
	var req service.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid level payload"))
		return
	}
	level, err := h.levels.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, level)
}

// Update godoc
// @Summary Update level
// @Tags Levels
// @Accept json
// @Produce json
// @Param id path string true "Level ID"
// @Param payload body service.LevelRequest true "Level payload"
// @Success 200 {object} response.Envelope
// @Router /levels/{id} [put]
func (h *LevelHandler) Update(c *gin.Context) {
	var req service.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid level payload"))
		return
	}
	level, err := h.levels.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// Delete godoc
// @Summary Delete level
// @Tags Levels
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} response.Envelope
// @Router /levels/{id} [delete]
func (h *LevelHandler) Delete(c *gin.Context) {
	if err := h.levels.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Level deleted successfully")
}
