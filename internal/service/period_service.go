package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, int, error)
	FindByID(ctx context.Context, id string) (*models.Period, error)
	Create(ctx context.Context, period *models.Period) error
	Update(ctx context.Context, period *models.Period) error
	SoftDelete(ctx context.Context, id string) error
}

// PeriodRequest is the payload for creating or updating a period.
type PeriodRequest struct {
	StartDate   string  `json:"start_date" validate:"required"`
	EndDate     string  `json:"end_date" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// PeriodService orchestrates evaluation period operations.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger}
}

// List returns periods plus pagination data.
func (s *PeriodService) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, *models.Pagination, error) {
	periods, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a period by id.
func (s *PeriodService) Get(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

// Create registers a new period.
func (s *PeriodService) Create(ctx context.Context, req PeriodRequest) (*models.Period, error) {
	period, err := s.buildPeriod(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	return period, nil
}

// Update modifies an existing period.
func (s *PeriodService) Update(ctx context.Context, id string, req PeriodRequest) (*models.Period, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	period, err := s.buildPeriod(req)
	if err != nil {
		return nil, err
	}
	period.ID = existing.ID
	period.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update period")
	}
	return period, nil
}

// Delete soft-deletes a period.
func (s *PeriodService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete period")
	}
	return nil
}

func (s *PeriodService) buildPeriod(req PeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid period payload")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.FieldError("start_date", "The start date is not a valid date.")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.FieldError("end_date", "The end date is not a valid date.")
	}
	if end.Before(start) {
		return nil, appErrors.FieldError("end_date", "The end date must be on or after the start date.")
	}

	return &models.Period{
		StartDate:   start,
		EndDate:     end,
		Description: normalizeOptional(req.Description),
	}, nil
}
