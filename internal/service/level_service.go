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

type levelRepository interface {
	List(ctx context.Context, filter models.LevelFilter) ([]models.Level, int, error)
	FindByID(ctx context.Context, id string) (*models.Level, error)
	Create(ctx context.Context, level *models.Level) error
	Update(ctx context.Context, level *models.Level) error
	SoftDelete(ctx context.Context, id string) error
}

// LevelRequest is the payload for creating or updating a level.
type LevelRequest struct {
	Level string `json:"level" validate:"required,max=255"`
}

// LevelService orchestrates seniority level operations.
type LevelService struct {
	repo      levelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLevelService constructs a LevelService.
func NewLevelService(repo levelRepository, validate *validator.Validate, logger *zap.Logger) *LevelService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LevelService{repo: repo, validator: validate, logger: logger}
}

// List returns levels plus pagination data.
func (s *LevelService) List(ctx context.Context, filter models.LevelFilter) ([]models.Level, *models.Pagination, error) {
	levels, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list levels")
	}
	return levels, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a level by id.
func (s *LevelService) Get(ctx context.Context, id string) (*models.Level, error) {
	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level")
	}
	return level, nil
}

// Create registers a new level.
func (s *LevelService) Create(ctx context.Context, req LevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid level payload")
	}

	level := &models.Level{Level: strings.TrimSpace(req.Level)}
	if err := s.repo.Create(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create level")
	}
	return level, nil
}

// Update modifies an existing level.
func (s *LevelService) Update(ctx context.Context, id string, req LevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid level payload")
	}

	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level")
	}

	level.Level = strings.TrimSpace(req.Level)

	if err := s.repo.Update(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update level")
	}
	return level, nil
}

// Delete soft-deletes a level.
func (s *LevelService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete level")
	}
	return nil
}
