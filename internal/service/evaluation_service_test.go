package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
	"github.com/hrd-platform/hr-admin-api/pkg/export"
)

type mockEvaluationRepo struct {
	evaluations map[string]*models.EvaluationDetail
	triples     map[string]string // period/employee/evaluator -> evaluation id
	answers     map[string][]models.EvaluationAnswer
	deleted     []string
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{
		evaluations: map[string]*models.EvaluationDetail{},
		triples:     map[string]string{},
		answers:     map[string][]models.EvaluationAnswer{},
	}
}

func (m *mockEvaluationRepo) List(ctx context.Context, filter models.EvaluationFilter) ([]models.EvaluationDetail, int, error) {
	out := make([]models.EvaluationDetail, 0, len(m.evaluations))
	for _, e := range m.evaluations {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *mockEvaluationRepo) FindDetail(ctx context.Context, id string) (*models.EvaluationDetail, error) {
	e, ok := m.evaluations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (m *mockEvaluationRepo) ExistsForTriple(ctx context.Context, periodID, employeeID, evaluatorID, excludeID string) (bool, error) {
	owner, ok := m.triples[periodID+"/"+employeeID+"/"+evaluatorID]
	return ok && owner != excludeID, nil
}

func (m *mockEvaluationRepo) Create(ctx context.Context, evaluation *models.Evaluation) error {
	evaluation.ID = "eval-new"
	m.evaluations[evaluation.ID] = &models.EvaluationDetail{Evaluation: *evaluation}
	return nil
}

func (m *mockEvaluationRepo) Update(ctx context.Context, evaluation *models.Evaluation) error {
	if _, ok := m.evaluations[evaluation.ID]; !ok {
		return sql.ErrNoRows
	}
	m.evaluations[evaluation.ID] = &models.EvaluationDetail{Evaluation: *evaluation}
	return nil
}

func (m *mockEvaluationRepo) ReplaceAnswers(ctx context.Context, evaluationID string, answers []models.EvaluationAnswer) error {
	for i := range answers {
		answers[i].EvaluationID = evaluationID
	}
	m.answers[evaluationID] = answers
	return nil
}

func (m *mockEvaluationRepo) ListAnswers(ctx context.Context, evaluationID string) ([]models.EvaluationAnswer, error) {
	return m.answers[evaluationID], nil
}

func (m *mockEvaluationRepo) SoftDelete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.evaluations, id)
	return nil
}

type mockQuestionFinder struct {
	questions []models.TemplateQuestion
}

func (m *mockQuestionFinder) FindQuestions(ctx context.Context, ids []string) ([]models.TemplateQuestion, error) {
	return m.questions, nil
}

type stubExporter struct {
	rendered *export.EvaluationForm
}

func (s *stubExporter) Render(form export.EvaluationForm) ([]byte, error) {
	s.rendered = &form
	return []byte("%PDF-1.4"), nil
}

func intPtr(v int) *int { return &v }

func validEvaluationRequest() EvaluationRequest {
	return EvaluationRequest{
		PeriodID:          "period-1",
		EmployeeID:        "emp-1",
		EvaluatorID:       "emp-2",
		PeriodStart:       "2026-01-01",
		PeriodEnd:         "2026-06-30",
		EvaluationPurpose: "Contract renewal",
		Question1:         intPtr(4),
		Question2:         intPtr(3),
		Question3:         intPtr(5),
		Question4:         intPtr(4),
		Question5:         intPtr(2),
		Question6:         intPtr(0),
		Question7:         intPtr(3),
		Question8:         intPtr(4),
		Question9:         intPtr(5),
		Question10:        intPtr(1),
	}
}

func evaluationCheckers() staticChecker {
	return staticChecker{known: map[string]bool{"period-1": true, "emp-1": true, "emp-2": true}}
}

func TestEvaluationServiceCreate(t *testing.T) {
	repo := newMockEvaluationRepo()
	svc := NewEvaluationService(repo, evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, &stubExporter{}, nil, zap.NewNop())

	evaluation, err := svc.Create(context.Background(), validEvaluationRequest())
	require.NoError(t, err)
	assert.Equal(t, 4, evaluation.Question1)
	assert.Equal(t, 0, evaluation.Question6)
	assert.Equal(t, "Contract renewal", *evaluation.EvaluationPurpose)
}

func TestEvaluationServiceCreateDuplicateTriple(t *testing.T) {
	repo := newMockEvaluationRepo()
	repo.triples["period-1/emp-1/emp-2"] = "eval-existing"
	svc := NewEvaluationService(repo, evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, &stubExporter{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), validEvaluationRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Anda sudah melakukan penilaian untuk karyawan ini pada periode tersebut.", appErr.Message)
}

func TestEvaluationServiceUpdateAllowsOwnTriple(t *testing.T) {
	repo := newMockEvaluationRepo()
	repo.evaluations["eval-1"] = &models.EvaluationDetail{Evaluation: models.Evaluation{
		ID:          "eval-1",
		PeriodID:    "period-1",
		EmployeeID:  "emp-1",
		EvaluatorID: "emp-2",
	}}
	repo.triples["period-1/emp-1/emp-2"] = "eval-1"
	svc := NewEvaluationService(repo, evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, &stubExporter{}, nil, zap.NewNop())

	req := validEvaluationRequest()
	req.Question1 = intPtr(5)

	evaluation, err := svc.Update(context.Background(), "eval-1", req)
	require.NoError(t, err)
	assert.Equal(t, 5, evaluation.Question1)
}

func TestEvaluationServiceCreateMissingScore(t *testing.T) {
	svc := NewEvaluationService(newMockEvaluationRepo(), evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, &stubExporter{}, nil, zap.NewNop())

	req := validEvaluationRequest()
	req.Question7 = nil

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEvaluationServiceCreatePeriodEndBeforeStart(t *testing.T) {
	svc := NewEvaluationService(newMockEvaluationRepo(), evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, &stubExporter{}, nil, zap.NewNop())

	req := validEvaluationRequest()
	req.PeriodStart = "2026-06-30"
	req.PeriodEnd = "2026-01-01"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "period_end")
}

func TestEvaluationServiceSubmitAnswersCalculatesScores(t *testing.T) {
	repo := newMockEvaluationRepo()
	repo.evaluations["eval-1"] = &models.EvaluationDetail{Evaluation: models.Evaluation{ID: "eval-1"}}
	questions := &mockQuestionFinder{questions: []models.TemplateQuestion{
		{ID: "q-1", WeightPoint: 2},
		{ID: "q-2", WeightPoint: 0.5},
	}}
	svc := NewEvaluationService(repo, evaluationCheckers(), evaluationCheckers(), questions, &stubExporter{}, nil, zap.NewNop())

	answers, err := svc.SubmitAnswers(context.Background(), "eval-1", SubmitAnswersRequest{Answers: []AnswerRequest{
		{QuestionID: "q-1", InputValue: 4},
		{QuestionID: "q-2", InputValue: 3},
	}})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, 8.0, answers[0].CalculatedScore)
	assert.Equal(t, 1.5, answers[1].CalculatedScore)
}

func TestEvaluationServiceSubmitAnswersUnknownQuestion(t *testing.T) {
	repo := newMockEvaluationRepo()
	repo.evaluations["eval-1"] = &models.EvaluationDetail{Evaluation: models.Evaluation{ID: "eval-1"}}
	svc := NewEvaluationService(repo, evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, &stubExporter{}, nil, zap.NewNop())

	_, err := svc.SubmitAnswers(context.Background(), "eval-1", SubmitAnswersRequest{Answers: []AnswerRequest{
		{QuestionID: "ghost", InputValue: 1},
	}})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "answers.0.question_id")
}

func TestEvaluationServiceExportPDF(t *testing.T) {
	name := "Jane Doe"
	evaluator := "John Smith"
	repo := newMockEvaluationRepo()
	repo.evaluations["eval-1"] = &models.EvaluationDetail{
		Evaluation: models.Evaluation{
			ID:        "eval-1",
			Question1: 4,
			Question2: 3,
		},
		EmployeeName:  &name,
		EvaluatorName: &evaluator,
	}
	exporter := &stubExporter{}
	svc := NewEvaluationService(repo, evaluationCheckers(), evaluationCheckers(), &mockQuestionFinder{}, exporter, nil, zap.NewNop())

	data, err := svc.ExportPDF(context.Background(), "eval-1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	require.NotNil(t, exporter.rendered)
	require.Len(t, exporter.rendered.Scores, 10)
	assert.Equal(t, "Jane Doe", exporter.rendered.Meta[0].Value)
	assert.Equal(t, 4, exporter.rendered.Scores[0].Score)
}
