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
	"github.com/hrd-platform/hr-admin-api/pkg/export"
)

type evaluationRepository interface {
	List(ctx context.Context, filter models.EvaluationFilter) ([]models.EvaluationDetail, int, error)
	FindDetail(ctx context.Context, id string) (*models.EvaluationDetail, error)
	ExistsForTriple(ctx context.Context, periodID, employeeID, evaluatorID, excludeID string) (bool, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, evaluation *models.Evaluation) error
	ReplaceAnswers(ctx context.Context, evaluationID string, answers []models.EvaluationAnswer) error
	ListAnswers(ctx context.Context, evaluationID string) ([]models.EvaluationAnswer, error)
	SoftDelete(ctx context.Context, id string) error
}

type questionFinder interface {
	FindQuestions(ctx context.Context, ids []string) ([]models.TemplateQuestion, error)
}

type formExporter interface {
	Render(form export.EvaluationForm) ([]byte, error)
}

// Message shown when an evaluator already scored an employee in a period.
// Kept in Indonesian for the client, matching the deployed system.
const duplicateEvaluationMessage = "Anda sudah melakukan penilaian untuk karyawan ini pada periode tersebut."

// EvaluationRequest is the payload for creating or updating an evaluation
// header. Question scores are pointers so an explicit 0 passes the required
// check.
type EvaluationRequest struct {
	PeriodID          string  `json:"period_id" validate:"required"`
	EmployeeID        string  `json:"employee_id" validate:"required"`
	EvaluatorID       string  `json:"evaluator_id" validate:"required"`
	PeriodStart       string  `json:"period_start" validate:"required"`
	PeriodEnd         string  `json:"period_end" validate:"required"`
	EndContractDate   *string `json:"end_contract_date"`
	EvaluationPurpose string  `json:"evaluation_purpose" validate:"required"`
	Question1         *int    `json:"question_1" validate:"required"`
	Question2         *int    `json:"question_2" validate:"required"`
	Question3         *int    `json:"question_3" validate:"required"`
	Question4         *int    `json:"question_4" validate:"required"`
	Question5         *int    `json:"question_5" validate:"required"`
	Question6         *int    `json:"question_6" validate:"required"`
	Question7         *int    `json:"question_7" validate:"required"`
	Question8         *int    `json:"question_8" validate:"required"`
	Question9         *int    `json:"question_9" validate:"required"`
	Question10        *int    `json:"question_10" validate:"required"`
	Comments          *string `json:"comments"`
}

// AnswerRequest is one template-question answer.
type AnswerRequest struct {
	QuestionID string  `json:"question_id" validate:"required"`
	InputValue float64 `json:"input_value"`
}

// SubmitAnswersRequest replaces the full answer set of an evaluation.
type SubmitAnswersRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// EvaluationService orchestrates evaluation operations.
type EvaluationService struct {
	repo      evaluationRepository
	periods   periodChecker
	employees employeeChecker
	questions questionFinder
	exporter  formExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(repo evaluationRepository, periods periodChecker, employees employeeChecker, questions questionFinder, exporter formExporter, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		repo:      repo,
		periods:   periods,
		employees: employees,
		questions: questions,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
	}
}

// List returns evaluations plus pagination data.
func (s *EvaluationService) List(ctx context.Context, filter models.EvaluationFilter) ([]models.EvaluationDetail, *models.Pagination, error) {
	evaluations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	return evaluations, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an evaluation with its three relations joined.
func (s *EvaluationService) Get(ctx context.Context, id string) (*models.EvaluationDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	return detail, nil
}

// Create registers a new evaluation header. The (period, employee, evaluator)
// triple must not already carry a non-deleted evaluation.
func (s *EvaluationService) Create(ctx context.Context, req EvaluationRequest) (*models.EvaluationDetail, error) {
	evaluation, err := s.buildEvaluation(ctx, req, "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, evaluation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create evaluation")
	}
	return s.Get(ctx, evaluation.ID)
}

// Update modifies an existing evaluation header.
func (s *EvaluationService) Update(ctx context.Context, id string, req EvaluationRequest) (*models.EvaluationDetail, error) {
	existing, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}

	evaluation, err := s.buildEvaluation(ctx, req, id)
	if err != nil {
		return nil, err
	}
	evaluation.ID = existing.ID
	evaluation.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, evaluation); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update evaluation")
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an evaluation.
func (s *EvaluationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindDetail(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete evaluation")
	}
	return nil
}

// SubmitAnswers replaces the full template answer set of an evaluation,
// deriving each calculated score from the question weight.
func (s *EvaluationService) SubmitAnswers(ctx context.Context, evaluationID string, req SubmitAnswersRequest) ([]models.EvaluationAnswer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid answers payload")
	}

	if _, err := s.repo.FindDetail(ctx, evaluationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}

	questionIDs := make([]string, len(req.Answers))
	for i, answer := range req.Answers {
		questionIDs[i] = answer.QuestionID
	}
	questions, err := s.questions.FindQuestions(ctx, questionIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template questions")
	}
	weights := make(map[string]float64, len(questions))
	for _, question := range questions {
		weights[question.ID] = question.WeightPoint
	}

	answers := make([]models.EvaluationAnswer, 0, len(req.Answers))
	for i, answerReq := range req.Answers {
		weight, ok := weights[answerReq.QuestionID]
		if !ok {
			return nil, appErrors.FieldError(fmt.Sprintf("answers.%d.question_id", i), "The selected question does not exist.")
		}
		answers = append(answers, models.EvaluationAnswer{
			QuestionID:      answerReq.QuestionID,
			InputValue:      answerReq.InputValue,
			CalculatedScore: answerReq.InputValue * weight,
		})
	}

	if err := s.repo.ReplaceAnswers(ctx, evaluationID, answers); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save answers")
	}

	saved, err := s.repo.ListAnswers(ctx, evaluationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload answers")
	}
	return saved, nil
}

// ExportPDF renders the evaluation as a printable form.
func (s *EvaluationService) ExportPDF(ctx context.Context, id string) ([]byte, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	form := export.EvaluationForm{
		Title: "EMPLOYEE EVALUATION FORM",
		Meta: []export.KeyValue{
			{Label: "Employee", Value: stringOrDash(detail.EmployeeName)},
			{Label: "Evaluator", Value: stringOrDash(detail.EvaluatorName)},
			{Label: "Period", Value: formatPeriodRange(detail)},
			{Label: "Purpose", Value: stringOrDash(detail.EvaluationPurpose)},
		},
	}
	for i, score := range detail.Questions() {
		form.Scores = append(form.Scores, export.ScoreRow{
			Label: fmt.Sprintf("Question %d", i+1),
			Score: score,
		})
	}
	if detail.Comments != nil {
		form.Comments = *detail.Comments
	}

	data, err := s.exporter.Render(form)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render evaluation pdf")
	}
	return data, nil
}

func (s *EvaluationService) buildEvaluation(ctx context.Context, req EvaluationRequest, excludeID string) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid evaluation payload")
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return nil, appErrors.FieldError("period_start", "The period start is not a valid date.")
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return nil, appErrors.FieldError("period_end", "The period end is not a valid date.")
	}
	if periodEnd.Before(periodStart) {
		return nil, appErrors.FieldError("period_end", "The period end must be on or after the period start.")
	}
	endContract, err := parseOptionalDate(req.EndContractDate)
	if err != nil {
		return nil, appErrors.FieldError("end_contract_date", "The end contract date is not a valid date.")
	}

	exists, err := s.periods.Exists(ctx, req.PeriodID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period")
	}
	if !exists {
		return nil, appErrors.FieldError("period_id", "The selected period does not exist.")
	}

	for field, id := range map[string]string{"employee_id": req.EmployeeID, "evaluator_id": req.EvaluatorID} {
		exists, err := s.employees.Exists(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee")
		}
		if !exists {
			return nil, appErrors.FieldError(field, "The selected employee does not exist.")
		}
	}

	duplicate, err := s.repo.ExistsForTriple(ctx, req.PeriodID, req.EmployeeID, req.EvaluatorID, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing evaluation")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrConflict, duplicateEvaluationMessage)
	}

	purpose := strings.TrimSpace(req.EvaluationPurpose)
	return &models.Evaluation{
		PeriodID:          req.PeriodID,
		EmployeeID:        req.EmployeeID,
		EvaluatorID:       req.EvaluatorID,
		PeriodStart:       &periodStart,
		PeriodEnd:         &periodEnd,
		EndContractDate:   endContract,
		EvaluationPurpose: &purpose,
		Question1:         *req.Question1,
		Question2:         *req.Question2,
		Question3:         *req.Question3,
		Question4:         *req.Question4,
		Question5:         *req.Question5,
		Question6:         *req.Question6,
		Question7:         *req.Question7,
		Question8:         *req.Question8,
		Question9:         *req.Question9,
		Question10:        *req.Question10,
		Comments:          normalizeOptional(req.Comments),
	}, nil
}

func stringOrDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

func formatPeriodRange(detail *models.EvaluationDetail) string {
	if detail.PeriodStart == nil || detail.PeriodEnd == nil {
		return "-"
	}
	return detail.PeriodStart.Format(dateLayout) + " - " + detail.PeriodEnd.Format(dateLayout)
}
