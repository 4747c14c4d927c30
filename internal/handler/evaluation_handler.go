package handler

import (
	"fmt"
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

// EvaluationHandler wires evaluation services to HTTP routes.
type EvaluationHandler struct {
	evaluations *service.EvaluationService
}

// NewEvaluationHandler constructs a new EvaluationHandler.
func NewEvaluationHandler(evaluations *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

// List godoc
// @Summary List evaluations
// @Tags Evaluations
// @Produce json
// @Param search query string false "Search by evaluated employee name"
// @Param period_id query string false "Filter by period"
// @Param employee_id query string false "Filter by evaluated employee"
// @Param evaluator_id query string false "Filter by evaluator"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /evaluations [get]
func (h *EvaluationHandler) List(c *gin.Context) {
	filter := models.EvaluationFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		PeriodID:    strings.TrimSpace(c.Query("period_id")),
		EmployeeID:  strings.TrimSpace(c.Query("employee_id")),
		EvaluatorID: strings.TrimSpace(c.Query("evaluator_id")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	evaluations, pagination, err := h.evaluations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEvaluationList(evaluations), pagination)
}

// Get godoc
// @Summary Get evaluation detail
// @Tags Evaluations
// @Produce json
// @Param id path string true "Evaluation ID"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) Get(c *gin.Context) {
	evaluation, err := h.evaluations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEvaluationResponse(*evaluation), nil)
}

// Create godoc
// @Summary Create evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body service.EvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req service.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload"))
		return
	}
	evaluation, err := h.evaluations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewEvaluationResponse(*evaluation))
}

// Update godoc
// @Summary Update evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Evaluation ID"
// @Param payload body service.EvaluationRequest true "Evaluation payload"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id} [put]
func (h *EvaluationHandler) Update(c *gin.Context) {
	var req service.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload"))
		return
	}
	evaluation, err := h.evaluations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEvaluationResponse(*evaluation), nil)
}

// Delete godoc
// @Summary Delete evaluation
// @Tags Evaluations
// @Produce json
// @Param id path string true "Evaluation ID"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(c *gin.Context) {
	if err := h.evaluations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Evaluation deleted successfully")
}

// SubmitAnswers godoc
// @Summary Replace the template answer set of an evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Evaluation ID"
// @Param payload body service.SubmitAnswersRequest true "Answers payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /evaluations/{id}/answers [post]
func (h *EvaluationHandler) SubmitAnswers(c *gin.Context) {
	var req service.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid answers payload"))
		return
	}
	answers, err := h.evaluations.SubmitAnswers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answers, nil)
}

// ExportPDF godoc
// @Summary Export an evaluation as PDF
// @Tags Evaluations
// @Produce application/pdf
// @Param id path string true "Evaluation ID"
// @Success 200 {file} binary
// @Router /evaluations/{id}/export [get]
func (h *EvaluationHandler) ExportPDF(c *gin.Context) {
	id := c.Param("id")
	data, err := h.evaluations.ExportPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=evaluation-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}
