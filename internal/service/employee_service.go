package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindDetail(ctx context.Context, id string) (*models.EmployeeDetail, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, employee *models.Employee, departments []models.DepartmentAssignment, managers []models.ManagerAssignment) error
	Update(ctx context.Context, employee *models.Employee, departments []models.DepartmentAssignment, managers []models.ManagerAssignment) error
	SoftDelete(ctx context.Context, id string) error
}

type departmentChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type positionChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// EmployeeRequest is the payload for creating or updating an employee. Dates
// travel as YYYY-MM-DD strings; both association lists are full sets, not
// increments.
type EmployeeRequest struct {
	EmployeeCode    *string                       `json:"employee_code" validate:"omitempty,max=50"`
	Name            string                        `json:"name" validate:"required,max=255"`
	Email           *string                       `json:"email" validate:"omitempty,email"`
	PositionID      string                        `json:"position_id" validate:"required"`
	DepartmentID    *string                       `json:"department_id"`
	JoinDate        string                        `json:"join_date" validate:"required"`
	EndContractDate string                        `json:"end_contract_date" validate:"required"`
	IsActive        *bool                         `json:"is_active"`
	Departments     []models.DepartmentAssignment `json:"departments" validate:"omitempty,dive"`
	Managers        []models.ManagerAssignment    `json:"managers" validate:"omitempty,dive"`
}

// EmployeeService orchestrates employee operations including pivot sync.
type EmployeeService struct {
	repo        employeeRepository
	departments departmentChecker
	positions   positionChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo employeeRepository, departments departmentChecker, positions positionChecker, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, departments: departments, positions: positions, validator: validate, logger: logger}
}

// List returns employees plus pagination data.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeDetail, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an employee with relations and association lists loaded.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.EmployeeDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return detail, nil
}

// Create registers a new employee and its full association sets atomically.
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*models.EmployeeDetail, error) {
	employee, err := s.buildEmployee(ctx, req, "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, employee, req.Departments, req.Managers); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return s.Get(ctx, employee.ID)
}

// Update modifies an employee. Association sets are replaced only when the
// request carried them; omitted keys keep the existing rows.
func (s *EmployeeService) Update(ctx context.Context, id string, req EmployeeRequest) (*models.EmployeeDetail, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	employee, err := s.buildEmployee(ctx, req, id)
	if err != nil {
		return nil, err
	}
	employee.ID = existing.ID
	employee.Username = existing.Username
	employee.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, employee, req.Departments, req.Managers); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an employee. Association rows stay for history.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	return nil
}

// buildEmployee validates the payload and assembles the row to persist.
// excludeID is the record being updated, blank on create.
func (s *EmployeeService) buildEmployee(ctx context.Context, req EmployeeRequest, excludeID string) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid employee payload")
	}

	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		return nil, appErrors.FieldError("join_date", "The join date is not a valid date.")
	}
	endContract, err := parseDate(req.EndContractDate)
	if err != nil {
		return nil, appErrors.FieldError("end_contract_date", "The end contract date is not a valid date.")
	}
	if endContract.Before(joinDate) {
		return nil, appErrors.FieldError("end_contract_date", "The end contract date must be on or after the join date.")
	}

	if code := normalizeOptional(req.EmployeeCode); code != nil {
		exists, err := s.repo.ExistsByCode(ctx, *code, excludeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee code")
		}
		if exists {
			return nil, appErrors.FieldError("employee_code", "The employee code has already been taken.")
		}
	}
	if email := normalizeOptional(req.Email); email != nil {
		exists, err := s.repo.ExistsByEmail(ctx, *email, excludeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee email")
		}
		if exists {
			return nil, appErrors.FieldError("email", "The email has already been taken.")
		}
	}

	exists, err := s.positions.Exists(ctx, req.PositionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check position")
	}
	if !exists {
		return nil, appErrors.FieldError("position_id", "The selected position does not exist.")
	}

	if dept := normalizeOptional(req.DepartmentID); dept != nil {
		exists, err := s.departments.Exists(ctx, *dept)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
		}
		if !exists {
			return nil, appErrors.FieldError("department_id", "The selected department does not exist.")
		}
	}

	for i, assignment := range req.Departments {
		exists, err := s.departments.Exists(ctx, assignment.DepartmentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department association")
		}
		if !exists {
			return nil, appErrors.FieldError(fmt.Sprintf("departments.%d.id", i), "The selected department does not exist.")
		}
	}

	for i, assignment := range req.Managers {
		exists, err := s.repo.Exists(ctx, assignment.ManagerID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check manager association")
		}
		if !exists {
			return nil, appErrors.FieldError(fmt.Sprintf("managers.%d.id", i), "The selected manager does not exist.")
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	positionID := strings.TrimSpace(req.PositionID)
	return &models.Employee{
		EmployeeCode:    normalizeOptional(req.EmployeeCode),
		Name:            strings.TrimSpace(req.Name),
		Email:           normalizeOptional(req.Email),
		PositionID:      &positionID,
		DepartmentID:    normalizeOptional(req.DepartmentID),
		JoinDate:        joinDate,
		EndContractDate: &endContract,
		IsActive:        isActive,
	}, nil
}
