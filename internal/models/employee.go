package models

import "time"

// Reporting types accepted on manager associations.
const (
	ReportingDirect     = "direct"
	ReportingProject    = "project"
	ReportingFunctional = "functional"
)

// Employee is both an HR master record and an authenticatable principal.
type Employee struct {
	ID              string     `db:"id" json:"id"`
	EmployeeCode    *string    `db:"employee_code" json:"employee_code"`
	Name            string     `db:"name" json:"name"`
	Email           *string    `db:"email" json:"email"`
	Username        *string    `db:"username" json:"username,omitempty"`
	PasswordHash    *string    `db:"password_hash" json:"-"`
	PositionID      *string    `db:"position_id" json:"position_id"`
	DepartmentID    *string    `db:"department_id" json:"department_id"`
	JoinDate        time.Time  `db:"join_date" json:"join_date"`
	EndContractDate *time.Time `db:"end_contract_date" json:"end_contract_date"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}

// EmployeeDetail joins display fields for the employee's single-value relations.
type EmployeeDetail struct {
	Employee
	PositionTitle  *string `db:"position_title"`
	DepartmentName *string `db:"department_name"`

	Departments []DepartmentAssociation `db:"-"`
	Managers    []ManagerAssociation    `db:"-"`
}

// DepartmentAssociation is one employee↔department pivot row with its display name.
type DepartmentAssociation struct {
	DepartmentID string `db:"department_id" json:"id"`
	Name         string `db:"name" json:"name"`
	IsPrimary    bool   `db:"is_primary" json:"is_primary"`
}

// ManagerAssociation is one subordinate→manager pivot row with its display name.
type ManagerAssociation struct {
	ManagerID     string `db:"manager_id" json:"id"`
	Name          string `db:"name" json:"name"`
	ReportingType string `db:"reporting_type" json:"reporting_type"`
}

// DepartmentAssignment is the requested department association set entry.
type DepartmentAssignment struct {
	DepartmentID string `json:"id" validate:"required"`
	IsPrimary    bool   `json:"is_primary"`
}

// ManagerAssignment is the requested manager association set entry.
type ManagerAssignment struct {
	ManagerID     string `json:"id" validate:"required"`
	ReportingType string `json:"reporting_type" validate:"omitempty,oneof=direct project functional"`
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Search        string
	ManagerID     string // restrict to subordinates of this employee
	ActiveOnly    bool
	SortBy        string
	SortDirection string
	Page          int
	PageSize      int
}
