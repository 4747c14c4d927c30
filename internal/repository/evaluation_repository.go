package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// EvaluationRepository handles persistence for evaluation headers and their
// template answers.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new repository instance.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

const evaluationColumns = `ev.id, ev.period_id, ev.employee_id, ev.evaluator_id, ev.period_start, ev.period_end,
	ev.end_contract_date, ev.evaluation_purpose,
	ev.question_1, ev.question_2, ev.question_3, ev.question_4, ev.question_5,
	ev.question_6, ev.question_7, ev.question_8, ev.question_9, ev.question_10,
	ev.comments, ev.created_at, ev.updated_at`

const evaluationJoins = `LEFT JOIN periods p ON p.id = ev.period_id AND p.deleted_at IS NULL
	LEFT JOIN employees emp ON emp.id = ev.employee_id AND emp.deleted_at IS NULL
	LEFT JOIN employees evr ON evr.id = ev.evaluator_id AND evr.deleted_at IS NULL`

const evaluationRelationColumns = `p.start_date AS p_start_date, p.end_date AS p_end_date, p.description AS p_description,
	emp.name AS employee_name, evr.name AS evaluator_name`

// List returns evaluations with joined display fields, newest first. Search
// matches the ratee name.
func (r *EvaluationRepository) List(ctx context.Context, filter models.EvaluationFilter) ([]models.EvaluationDetail, int, error) {
	base := fmt.Sprintf("FROM evaluations ev %s WHERE ev.deleted_at IS NULL", evaluationJoins)
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(emp.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.PeriodID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.period_id = $%d", len(args)+1))
		args = append(args, filter.PeriodID)
	}
	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.EvaluatorID != "" {
		conditions = append(conditions, fmt.Sprintf("ev.evaluator_id = $%d", len(args)+1))
		args = append(args, filter.EvaluatorID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 10
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s, %s %s ORDER BY ev.created_at DESC LIMIT %d OFFSET %d",
		evaluationColumns, evaluationRelationColumns, base, size, offset)
	var evaluations []models.EvaluationDetail
	if err := r.db.SelectContext(ctx, &evaluations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list evaluations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}

	return evaluations, total, nil
}

// FindDetail returns a non-deleted evaluation with its three relations joined.
func (r *EvaluationRepository) FindDetail(ctx context.Context, id string) (*models.EvaluationDetail, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM evaluations ev %s
		WHERE ev.id = $1 AND ev.deleted_at IS NULL`, evaluationColumns, evaluationRelationColumns, evaluationJoins)
	var detail models.EvaluationDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsForTriple reports whether a non-deleted evaluation already covers the
// (period, employee, evaluator) triple.
func (r *EvaluationRepository) ExistsForTriple(ctx context.Context, periodID, employeeID, evaluatorID, excludeID string) (bool, error) {
	query := `SELECT 1 FROM evaluations
		WHERE period_id = $1 AND employee_id = $2 AND evaluator_id = $3 AND deleted_at IS NULL`
	args := []interface{}{periodID, employeeID, evaluatorID}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check evaluation triple: %w", err)
	}
	return true, nil
}

// Create inserts an evaluation header row inside its own transaction.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) (err error) {
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	evaluation.CreatedAt = now
	evaluation.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create evaluation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO evaluations
		(id, period_id, employee_id, evaluator_id, period_start, period_end, end_contract_date, evaluation_purpose,
		 question_1, question_2, question_3, question_4, question_5,
		 question_6, question_7, question_8, question_9, question_10,
		 comments, created_at, updated_at)
		VALUES
		(:id, :period_id, :employee_id, :evaluator_id, :period_start, :period_end, :end_contract_date, :evaluation_purpose,
		 :question_1, :question_2, :question_3, :question_4, :question_5,
		 :question_6, :question_7, :question_8, :question_9, :question_10,
		 :comments, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create evaluation: %w", err)
	}
	return nil
}

// Update persists header changes inside its own transaction.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) (err error) {
	evaluation.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update evaluation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE evaluations SET
		period_id = :period_id, employee_id = :employee_id, evaluator_id = :evaluator_id,
		period_start = :period_start, period_end = :period_end, end_contract_date = :end_contract_date,
		evaluation_purpose = :evaluation_purpose,
		question_1 = :question_1, question_2 = :question_2, question_3 = :question_3,
		question_4 = :question_4, question_5 = :question_5, question_6 = :question_6,
		question_7 = :question_7, question_8 = :question_8, question_9 = :question_9,
		question_10 = :question_10, comments = :comments, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := tx.NamedExecContext(ctx, query, evaluation)
	if err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}
	if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update evaluation: %w", err)
	}
	return nil
}

// ReplaceAnswers swaps the full answer set of an evaluation in one
// transaction.
func (r *EvaluationRepository) ReplaceAnswers(ctx context.Context, evaluationID string, answers []models.EvaluationAnswer) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace answers: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM evaluation_answers WHERE evaluation_id = $1`, evaluationID); err != nil {
		return fmt.Errorf("clear evaluation answers: %w", err)
	}

	now := time.Now().UTC()
	for i := range answers {
		answer := &answers[i]
		if answer.ID == "" {
			answer.ID = uuid.NewString()
		}
		answer.EvaluationID = evaluationID
		answer.CreatedAt = now
		answer.UpdatedAt = now

		const query = `INSERT INTO evaluation_answers
			(id, evaluation_id, question_id, input_value, calculated_score, created_at, updated_at)
			VALUES (:id, :evaluation_id, :question_id, :input_value, :calculated_score, :created_at, :updated_at)`
		if _, err = tx.NamedExecContext(ctx, query, answer); err != nil {
			return fmt.Errorf("insert evaluation answer: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace answers: %w", err)
	}
	return nil
}

// ListAnswers returns the non-deleted answers of an evaluation.
func (r *EvaluationRepository) ListAnswers(ctx context.Context, evaluationID string) ([]models.EvaluationAnswer, error) {
	const query = `SELECT id, evaluation_id, question_id, input_value, calculated_score, created_at, updated_at
		FROM evaluation_answers WHERE evaluation_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC`
	var answers []models.EvaluationAnswer
	if err := r.db.SelectContext(ctx, &answers, query, evaluationID); err != nil {
		return nil, fmt.Errorf("list evaluation answers: %w", err)
	}
	return answers, nil
}

// SoftDelete marks an evaluation deleted.
func (r *EvaluationRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE evaluations SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
