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

// PeriodRepository handles persistence for evaluation periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository creates a new repository instance.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

const periodColumns = "id, start_date, end_date, description, created_at, updated_at"

// List returns periods matching filters, newest start date first.
func (r *PeriodRepository) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, int, error) {
	base := "FROM periods WHERE deleted_at IS NULL"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(description) LIKE $%d", len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY start_date DESC LIMIT %d OFFSET %d", periodColumns, base, size, offset)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list periods: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count periods: %w", err)
	}

	return periods, total, nil
}

// FindByID returns a non-deleted period by id.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	query := fmt.Sprintf("SELECT %s FROM periods WHERE id = $1 AND deleted_at IS NULL", periodColumns)
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// Exists reports whether a non-deleted period with the id exists.
func (r *PeriodRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM periods WHERE id = $1 AND deleted_at IS NULL LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check period: %w", err)
	}
	return true, nil
}

// Create inserts a period row.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	period.CreatedAt = now
	period.UpdatedAt = now

	const query = `INSERT INTO periods (id, start_date, end_date, description, created_at, updated_at)
		VALUES (:id, :start_date, :end_date, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("insert period: %w", err)
	}
	return nil
}

// Update persists date range and description changes.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period) error {
	period.UpdatedAt = time.Now().UTC()

	const query = `UPDATE periods SET start_date = :start_date, end_date = :end_date,
		description = :description, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, period)
	if err != nil {
		return fmt.Errorf("update period: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a period deleted.
func (r *PeriodRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE periods SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete period: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
