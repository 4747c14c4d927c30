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

// TemplateHandler wires evaluation template services to HTTP routes.
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler constructs a new TemplateHandler.
func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List godoc
// @Summary List evaluation templates
// @Tags Templates
// @Produce json
// @Param period_id query string false "Filter by period"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /evaluation-templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	filter := models.TemplateFilter{
		PeriodID: strings.TrimSpace(c.Query("period_id")),
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	templates, pagination, err := h.templates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, pagination)
}

// Get godoc
// @Summary Get template with sections and questions
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /evaluation-templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Create godoc
// @Summary Create evaluation template
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body service.TemplateRequest true "Template payload with nested sections and questions"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /evaluation-templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload"))
		return
	}
	template, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Update godoc
// @Summary Update evaluation template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.TemplateRequest true "Template payload; nested sections and questions are fully replaced"
// @Success 200 {object} response.Envelope
// @Router /evaluation-templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload"))
		return
	}
	template, err := h.templates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Delete godoc
// @Summary Delete evaluation template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /evaluation-templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Evaluation template deleted successfully")
}
