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

type templateRepository interface {
	List(ctx context.Context, filter models.TemplateFilter) ([]models.EvaluationTemplate, int, error)
	FindByID(ctx context.Context, id string) (*models.EvaluationTemplate, error)
	Save(ctx context.Context, template *models.EvaluationTemplate, isNew bool) error
	SoftDelete(ctx context.Context, id string) error
}

// TemplateQuestionRequest is one question in a template payload.
type TemplateQuestionRequest struct {
	LabelEN       string  `json:"label_en" validate:"required"`
	DescriptionEN *string `json:"description_en"`
	DescriptionJP *string `json:"description_jp"`
	KeyIdentifier string  `json:"key_identifier" validate:"required,max=255"`
	InputType     string  `json:"input_type" validate:"required,oneof=radio_1_5 number_qty text"`
	WeightPoint   float64 `json:"weight_point"`
	SequenceOrder int     `json:"sequence_order" validate:"gte=0"`
}

// TemplateSectionRequest is one section in a template payload.
type TemplateSectionRequest struct {
	Name          string                    `json:"name" validate:"required,max=255"`
	DescriptionEN *string                   `json:"description_en"`
	DescriptionJP *string                   `json:"description_jp"`
	SequenceOrder int                       `json:"sequence_order" validate:"gte=0"`
	Questions     []TemplateQuestionRequest `json:"questions" validate:"omitempty,dive"`
}

// TemplateRequest is the payload for creating or updating an evaluation
// template with its full nested structure.
type TemplateRequest struct {
	PeriodID    string                   `json:"period_id" validate:"required"`
	Name        string                   `json:"name" validate:"required,max=255"`
	Description *string                  `json:"description"`
	IsActive    *bool                    `json:"is_active"`
	Sections    []TemplateSectionRequest `json:"sections" validate:"omitempty,dive"`
}

// TemplateService orchestrates evaluation template operations.
type TemplateService struct {
	repo      templateRepository
	periods   periodChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(repo templateRepository, periods periodChecker, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{repo: repo, periods: periods, validator: validate, logger: logger}
}

// List returns template headers plus pagination data.
func (s *TemplateService) List(ctx context.Context, filter models.TemplateFilter) ([]models.EvaluationTemplate, *models.Pagination, error) {
	templates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluation templates")
	}
	return templates, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a template with sections and questions nested.
func (s *TemplateService) Get(ctx context.Context, id string) (*models.EvaluationTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation template")
	}
	return template, nil
}

// Create registers a template with its nested sections and questions.
func (s *TemplateService) Create(ctx context.Context, req TemplateRequest) (*models.EvaluationTemplate, error) {
	template, err := s.buildTemplate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, template, true); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create evaluation template")
	}
	return s.Get(ctx, template.ID)
}

// Update replaces a template's header and full nested structure.
func (s *TemplateService) Update(ctx context.Context, id string, req TemplateRequest) (*models.EvaluationTemplate, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation template")
	}

	template, err := s.buildTemplate(ctx, req)
	if err != nil {
		return nil, err
	}
	template.ID = id

	if err := s.repo.Save(ctx, template, false); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update evaluation template")
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a template header.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "evaluation template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation template")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete evaluation template")
	}
	return nil
}

func (s *TemplateService) buildTemplate(ctx context.Context, req TemplateRequest) (*models.EvaluationTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid template payload")
	}

	exists, err := s.periods.Exists(ctx, req.PeriodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period")
	}
	if !exists {
		return nil, appErrors.FieldError("period_id", "The selected period does not exist.")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	template := &models.EvaluationTemplate{
		PeriodID:    req.PeriodID,
		Name:        strings.TrimSpace(req.Name),
		Description: normalizeOptional(req.Description),
		IsActive:    isActive,
	}

	for _, sectionReq := range req.Sections {
		section := models.TemplateSection{
			Name:          strings.TrimSpace(sectionReq.Name),
			DescriptionEN: normalizeOptional(sectionReq.DescriptionEN),
			DescriptionJP: normalizeOptional(sectionReq.DescriptionJP),
			SequenceOrder: sectionReq.SequenceOrder,
		}
		for _, questionReq := range sectionReq.Questions {
			section.Questions = append(section.Questions, models.TemplateQuestion{
				LabelEN:       strings.TrimSpace(questionReq.LabelEN),
				DescriptionEN: normalizeOptional(questionReq.DescriptionEN),
				DescriptionJP: normalizeOptional(questionReq.DescriptionJP),
				KeyIdentifier: strings.TrimSpace(questionReq.KeyIdentifier),
				InputType:     questionReq.InputType,
				WeightPoint:   questionReq.WeightPoint,
				SequenceOrder: questionReq.SequenceOrder,
			})
		}
		template.Sections = append(template.Sections, section)
	}

	return template, nil
}
