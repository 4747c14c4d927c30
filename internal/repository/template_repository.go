package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// TemplateRepository handles persistence for evaluation templates, their
// sections and questions.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository creates a new repository instance.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = "id, period_id, name, description, is_active, created_at, updated_at"

// List returns template headers matching filters without nested sections.
func (r *TemplateRepository) List(ctx context.Context, filter models.TemplateFilter) ([]models.EvaluationTemplate, int, error) {
	base := "FROM evaluation_templates WHERE deleted_at IS NULL"
	var args []interface{}

	if filter.PeriodID != "" {
		base += fmt.Sprintf(" AND period_id = $%d", len(args)+1)
		args = append(args, filter.PeriodID)
	}
	if filter.Active != nil {
		base += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *filter.Active)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", templateColumns, base, size, offset)
	var templates []models.EvaluationTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list evaluation templates: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count evaluation templates: %w", err)
	}

	return templates, total, nil
}

// FindByID returns a template with sections and questions nested, ordered by
// sequence_order.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.EvaluationTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM evaluation_templates WHERE id = $1 AND deleted_at IS NULL", templateColumns)
	var template models.EvaluationTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, err
	}

	const sectionQuery = `SELECT id, template_id, name, description_en, description_jp, sequence_order, created_at, updated_at
		FROM template_sections WHERE template_id = $1 AND deleted_at IS NULL ORDER BY sequence_order ASC`
	var sections []models.TemplateSection
	if err := r.db.SelectContext(ctx, &sections, sectionQuery, id); err != nil {
		return nil, fmt.Errorf("list template sections: %w", err)
	}

	if len(sections) > 0 {
		sectionIDs := make([]string, len(sections))
		for i, section := range sections {
			sectionIDs[i] = section.ID
		}

		const questionQuery = `SELECT id, section_id, label_en, description_en, description_jp, key_identifier,
			input_type, weight_point, sequence_order, created_at, updated_at
			FROM template_questions WHERE section_id = ANY($1) AND deleted_at IS NULL ORDER BY sequence_order ASC`
		var questions []models.TemplateQuestion
		if err := r.db.SelectContext(ctx, &questions, questionQuery, pq.Array(sectionIDs)); err != nil {
			return nil, fmt.Errorf("list template questions: %w", err)
		}

		bySection := make(map[string][]models.TemplateQuestion, len(sections))
		for _, question := range questions {
			bySection[question.SectionID] = append(bySection[question.SectionID], question)
		}
		for i := range sections {
			sections[i].Questions = bySection[sections[i].ID]
		}
	}

	template.Sections = sections
	return &template, nil
}

// FindQuestions returns the non-deleted questions with the given ids.
func (r *TemplateRepository) FindQuestions(ctx context.Context, ids []string) ([]models.TemplateQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, section_id, label_en, description_en, description_jp, key_identifier,
		input_type, weight_point, sequence_order, created_at, updated_at
		FROM template_questions WHERE id = ANY($1) AND deleted_at IS NULL`
	var questions []models.TemplateQuestion
	if err := r.db.SelectContext(ctx, &questions, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find template questions: %w", err)
	}
	return questions, nil
}

// Save inserts or fully replaces a template with its nested sections and
// questions in one transaction.
func (r *TemplateRepository) Save(ctx context.Context, template *models.EvaluationTemplate, isNew bool) (err error) {
	now := time.Now().UTC()
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	if isNew {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save template: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if isNew {
		const insert = `INSERT INTO evaluation_templates (id, period_id, name, description, is_active, created_at, updated_at)
			VALUES (:id, :period_id, :name, :description, :is_active, :created_at, :updated_at)`
		if _, err = tx.NamedExecContext(ctx, insert, template); err != nil {
			return fmt.Errorf("insert template: %w", err)
		}
	} else {
		const update = `UPDATE evaluation_templates SET period_id = :period_id, name = :name,
			description = :description, is_active = :is_active, updated_at = :updated_at
			WHERE id = :id AND deleted_at IS NULL`
		var result sql.Result
		if result, err = tx.NamedExecContext(ctx, update, template); err != nil {
			return fmt.Errorf("update template: %w", err)
		}
		if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
			err = sql.ErrNoRows
			return err
		}

		// Nested rows follow full-replace semantics like the pivot sync.
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM template_questions WHERE section_id IN (SELECT id FROM template_sections WHERE template_id = $1)`,
			template.ID); err != nil {
			return fmt.Errorf("clear template questions: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM template_sections WHERE template_id = $1`, template.ID); err != nil {
			return fmt.Errorf("clear template sections: %w", err)
		}
	}

	for si := range template.Sections {
		section := &template.Sections[si]
		if section.ID == "" {
			section.ID = uuid.NewString()
		}
		section.TemplateID = template.ID
		section.CreatedAt = now
		section.UpdatedAt = now

		const sectionInsert = `INSERT INTO template_sections
			(id, template_id, name, description_en, description_jp, sequence_order, created_at, updated_at)
			VALUES (:id, :template_id, :name, :description_en, :description_jp, :sequence_order, :created_at, :updated_at)`
		if _, err = tx.NamedExecContext(ctx, sectionInsert, section); err != nil {
			return fmt.Errorf("insert template section: %w", err)
		}

		for qi := range section.Questions {
			question := &section.Questions[qi]
			if question.ID == "" {
				question.ID = uuid.NewString()
			}
			question.SectionID = section.ID
			question.CreatedAt = now
			question.UpdatedAt = now

			const questionInsert = `INSERT INTO template_questions
				(id, section_id, label_en, description_en, description_jp, key_identifier, input_type, weight_point, sequence_order, created_at, updated_at)
				VALUES (:id, :section_id, :label_en, :description_en, :description_jp, :key_identifier, :input_type, :weight_point, :sequence_order, :created_at, :updated_at)`
			if _, err = tx.NamedExecContext(ctx, questionInsert, question); err != nil {
				return fmt.Errorf("insert template question: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save template: %w", err)
	}
	return nil
}

// SoftDelete marks a template deleted. Sections and questions stay attached to
// the deleted header.
func (r *TemplateRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE evaluation_templates SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
