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

// EmployeeHandler wires employee services to HTTP routes.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler constructs a new EmployeeHandler.
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param search query string false "Search by name or position title"
// @Param role query string false "'employee' restricts to the caller's subordinates"
// @Param active_only query bool false "Only active employees"
// @Param sort_by query string false "Sort field (name,employee_code,join_date,created_at)"
// @Param sort_direction query string false "Sort direction (asc/desc)"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	// active_only is a presence check, not a boolean parse.
	_, activeOnly := c.GetQuery("active_only")
	filter := models.EmployeeFilter{
		Search:        strings.TrimSpace(c.Query("search")),
		ActiveOnly:    activeOnly,
		SortBy:        c.Query("sort_by"),
		SortDirection: c.Query("sort_direction"),
	}
	if strings.EqualFold(c.Query("role"), "employee") {
		if claims := claimsFromContext(c); claims != nil {
			filter.ManagerID = claims.EmployeeID
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("per_page", "10")); err == nil {
		filter.PageSize = size
	}

	employees, pagination, err := h.employees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEmployeeList(employees), pagination)
}

// Get godoc
// @Summary Get employee detail
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEmployeeResponse(*employee), nil)
}

// Create godoc
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body service.EmployeeRequest true "Employee payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload"))
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewEmployeeResponse(*employee))
}

// Update godoc
// @Summary Update employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body service.EmployeeRequest true "Employee payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload"))
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewEmployeeResponse(*employee), nil)
}

// Delete godoc
// @Summary Delete employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Employee deleted successfully")
}
