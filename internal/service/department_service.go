package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ListChildren(ctx context.Context, parentIDs []string) (map[string][]models.Department, error)
	Exists(ctx context.Context, id string) (bool, error)
	CountChildren(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	SoftDelete(ctx context.Context, id string) error
}

// DepartmentRequest is the payload for creating or updating a department.
type DepartmentRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid4"`
}

// DepartmentService orchestrates department operations.
type DepartmentService struct {
	repo      departmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, validator: validate, logger: logger}
}

// List returns departments plus pagination data. With TreeOnly set, direct
// children are attached to each root.
func (s *DepartmentService) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, *models.Pagination, error) {
	departments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}

	if filter.TreeOnly && len(departments) > 0 {
		ids := make([]string, len(departments))
		for i, department := range departments {
			ids[i] = department.ID
		}
		children, err := s.repo.ListChildren(ctx, ids)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-departments")
		}
		for i := range departments {
			departments[i].Children = children[departments[i].ID]
		}
	}

	return departments, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a department by id with its direct children attached.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	children, err := s.repo.ListChildren(ctx, []string{id})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sub-departments")
	}
	department.Children = children[id]

	return department, nil
}

// Create registers a new department.
func (s *DepartmentService) Create(ctx context.Context, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department payload")
	}
	if err := s.validateParent(ctx, req.ParentID, ""); err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:     strings.TrimSpace(req.Name),
		ParentID: normalizeOptional(req.ParentID),
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	return department, nil
}

// Update modifies an existing department.
func (s *DepartmentService) Update(ctx context.Context, id string, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid department payload")
	}

	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	if err := s.validateParent(ctx, req.ParentID, id); err != nil {
		return nil, err
	}

	department.Name = strings.TrimSpace(req.Name)
	department.ParentID = normalizeOptional(req.ParentID)
	department.ParentName = nil

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}
	return department, nil
}

// Delete soft-deletes a department. Deletion is refused while any non-deleted
// sub-department exists.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	count, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sub-departments")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Cannot delete department with sub-departments.")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	return nil
}

// validateParent checks the parent reference. Only direct self-parenting is
// rejected; multi-level cycles are not detected, matching the system this
// replaces.
func (s *DepartmentService) validateParent(ctx context.Context, parentID *string, ownID string) error {
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		return nil
	}
	if ownID != "" && *parentID == ownID {
		return appErrors.FieldError("parent_id", "A department cannot be its own parent.")
	}
	exists, err := s.repo.Exists(ctx, *parentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check parent department")
	}
	if !exists {
		return appErrors.FieldError("parent_id", "The selected parent department does not exist.")
	}
	return nil
}
