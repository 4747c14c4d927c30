package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

func evaluationDetailRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "period_id", "employee_id", "evaluator_id", "period_start", "period_end",
		"end_contract_date", "evaluation_purpose",
		"question_1", "question_2", "question_3", "question_4", "question_5",
		"question_6", "question_7", "question_8", "question_9", "question_10",
		"comments", "created_at", "updated_at",
		"p_start_date", "p_end_date", "p_description", "employee_name", "evaluator_name",
	})
	for _, id := range ids {
		rows.AddRow(id, "per-1", "emp-1", "mgr-1", time.Now(), time.Now(),
			nil, "Contract review",
			4, 4, 3, 5, 2, 3, 4, 4, 5, 3,
			nil, time.Now(), time.Now(),
			time.Now(), time.Now(), "Q1 2026", "Jane Doe", "John Boss")
	}
	return rows
}

func TestEvaluationRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("LOWER(emp.name) LIKE $1 AND ev.period_id = $2")).
		WithArgs("%jane%", "per-1").
		WillReturnRows(evaluationDetailRows("eval-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%jane%", "per-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	evaluations, total, err := repo.List(context.Background(), models.EvaluationFilter{
		Search:   "Jane",
		PeriodID: "per-1",
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, evaluations, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "Jane Doe", *evaluations[0].EmployeeName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryFindDetailMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ev.id = $1 AND ev.deleted_at IS NULL")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDetail(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryExistsForTripleExcludesOwnRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("period_id = $1 AND employee_id = $2 AND evaluator_id = $3 AND deleted_at IS NULL AND id <> $4")).
		WithArgs("per-1", "emp-1", "mgr-1", "eval-1").
		WillReturnError(sql.ErrNoRows)

	taken, err := repo.ExistsForTriple(context.Background(), "per-1", "emp-1", "mgr-1", "eval-1")
	require.NoError(t, err)
	require.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryCreateAssignsIdentity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluations")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	evaluation := &models.Evaluation{PeriodID: "per-1", EmployeeID: "emp-1", EvaluatorID: "mgr-1"}
	err := repo.Create(context.Background(), evaluation)
	require.NoError(t, err)
	require.NotEmpty(t, evaluation.ID)
	require.False(t, evaluation.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE evaluations SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Evaluation{ID: "missing"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryReplaceAnswers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evaluation_answers WHERE evaluation_id = $1")).
		WithArgs("eval-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluation_answers")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluation_answers")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	answers := []models.EvaluationAnswer{
		{QuestionID: "q-1", InputValue: 4, CalculatedScore: 8},
		{QuestionID: "q-2", InputValue: 3, CalculatedScore: 1.5},
	}
	err := repo.ReplaceAnswers(context.Background(), "eval-1", answers)
	require.NoError(t, err)
	require.Equal(t, "eval-1", answers[0].EvaluationID)
	require.NotEmpty(t, answers[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositoryReplaceAnswersRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM evaluation_answers WHERE evaluation_id = $1")).
		WithArgs("eval-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evaluation_answers")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.ReplaceAnswers(context.Background(), "eval-1", []models.EvaluationAnswer{{QuestionID: "q-1", InputValue: 4}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluationRepositorySoftDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEvaluationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE evaluations SET deleted_at = $2")).
		WithArgs("eval-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), "eval-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
