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

type positionRepository interface {
	List(ctx context.Context, filter models.PositionFilter) ([]models.Position, int, error)
	FindByID(ctx context.Context, id string) (*models.Position, error)
	CountActiveEmployees(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, position *models.Position) error
	Update(ctx context.Context, position *models.Position) error
	SoftDelete(ctx context.Context, id string) error
}

// PositionRequest is the payload for creating or updating a position.
type PositionRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// PositionService orchestrates position operations.
type PositionService struct {
	repo      positionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPositionService constructs a PositionService.
func NewPositionService(repo positionRepository, validate *validator.Validate, logger *zap.Logger) *PositionService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionService{repo: repo, validator: validate, logger: logger}
}

// List returns positions plus pagination data.
func (s *PositionService) List(ctx context.Context, filter models.PositionFilter) ([]models.Position, *models.Pagination, error) {
	positions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list positions")
	}
	return positions, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a position by id.
func (s *PositionService) Get(ctx context.Context, id string) (*models.Position, error) {
	position, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}
	return position, nil
}

// Create registers a new position.
func (s *PositionService) Create(ctx context.Context, req PositionRequest) (*models.Position, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid position payload")
	}

	position := &models.Position{Title: strings.TrimSpace(req.Title)}
	if err := s.repo.Create(ctx, position); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create position")
	}
	return position, nil
}

// Update modifies an existing position.
func (s *PositionService) Update(ctx context.Context, id string, req PositionRequest) (*models.Position, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid position payload")
	}

	position, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}

	position.Title = strings.TrimSpace(req.Title)

	if err := s.repo.Update(ctx, position); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update position")
	}
	return position, nil
}

// Delete soft-deletes a position. Deletion is refused while any active
// employee still holds it.
func (s *PositionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "position not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load position")
	}

	count, err := s.repo.CountActiveEmployees(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assigned employees")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Cannot delete position assigned to active employees.")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete position")
	}
	return nil
}
