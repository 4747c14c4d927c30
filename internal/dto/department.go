package dto

import (
	"time"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// DepartmentResponse is the API shape of a department, with the parent's name
// resolved and child departments nested when requested.
type DepartmentResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	ParentID   *string              `json:"parent_id"`
	ParentName *string              `json:"parent_name"`
	Children   []DepartmentResponse `json:"children,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// NewDepartmentResponse maps a department and its attached children.
func NewDepartmentResponse(d models.Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:         d.ID,
		Name:       d.Name,
		ParentID:   d.ParentID,
		ParentName: d.ParentName,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, child := range d.Children {
		resp.Children = append(resp.Children, NewDepartmentResponse(child))
	}
	return resp
}

// NewDepartmentList maps a department slice.
func NewDepartmentList(departments []models.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, NewDepartmentResponse(d))
	}
	return out
}
