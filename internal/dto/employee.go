package dto

import (
	"time"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// RelatedPosition is the trimmed position embedded in employee payloads.
type RelatedPosition struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RelatedDepartment is the trimmed department embedded in employee payloads.
type RelatedDepartment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeResponse is the API shape of an employee. Dates are rendered as
// YYYY-MM-DD; the password hash never leaves the server.
type EmployeeResponse struct {
	ID              string                          `json:"id"`
	EmployeeCode    *string                         `json:"employee_code"`
	Name            string                          `json:"name"`
	Email           *string                         `json:"email"`
	Username        *string                         `json:"username,omitempty"`
	JoinDate        string                          `json:"join_date"`
	EndContractDate *string                         `json:"end_contract_date"`
	IsActive        bool                            `json:"is_active"`
	Position        *RelatedPosition                `json:"position"`
	Department      *RelatedDepartment              `json:"department"`
	Departments     []models.DepartmentAssociation  `json:"departments"`
	Managers        []models.ManagerAssociation     `json:"managers"`
	CreatedAt       time.Time                       `json:"created_at"`
	UpdatedAt       time.Time                       `json:"updated_at"`
}

// NewEmployeeResponse maps an employee detail row.
func NewEmployeeResponse(d models.EmployeeDetail) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              d.ID,
		EmployeeCode:    d.EmployeeCode,
		Name:            d.Name,
		Email:           d.Email,
		Username:        d.Username,
		JoinDate:        formatDate(d.JoinDate),
		EndContractDate: formatDatePtr(d.EndContractDate),
		IsActive:        d.IsActive,
		Departments:     d.Departments,
		Managers:        d.Managers,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if resp.Departments == nil {
		resp.Departments = []models.DepartmentAssociation{}
	}
	if resp.Managers == nil {
		resp.Managers = []models.ManagerAssociation{}
	}
	if d.PositionID != nil && d.PositionTitle != nil {
		resp.Position = &RelatedPosition{ID: *d.PositionID, Title: *d.PositionTitle}
	}
	if d.DepartmentID != nil && d.DepartmentName != nil {
		resp.Department = &RelatedDepartment{ID: *d.DepartmentID, Name: *d.DepartmentName}
	}
	return resp
}

// NewEmployeeList maps an employee detail slice.
func NewEmployeeList(employees []models.EmployeeDetail) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, NewEmployeeResponse(e))
	}
	return out
}
