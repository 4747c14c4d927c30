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

// PositionRepository handles persistence for positions.
type PositionRepository struct {
	db *sqlx.DB
}

// NewPositionRepository creates a new repository instance.
func NewPositionRepository(db *sqlx.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

const positionColumns = `p.id, p.title, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM employees e WHERE e.position_id = p.id AND e.deleted_at IS NULL) AS employees_count`

// List returns positions matching filters with pagination metadata. Positions
// sort by title descending, matching the admin screen ordering.
func (r *PositionRepository) List(ctx context.Context, filter models.PositionFilter) ([]models.Position, int, error) {
	base := "FROM positions p WHERE p.deleted_at IS NULL"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(p.title) LIKE $%d", len(args)+1)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY p.title DESC LIMIT %d OFFSET %d", positionColumns, base, size, offset)
	var positions []models.Position
	if err := r.db.SelectContext(ctx, &positions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list positions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count positions: %w", err)
	}

	return positions, total, nil
}

// FindByID returns a non-deleted position by id.
func (r *PositionRepository) FindByID(ctx context.Context, id string) (*models.Position, error) {
	query := fmt.Sprintf("SELECT %s FROM positions p WHERE p.id = $1 AND p.deleted_at IS NULL", positionColumns)
	var position models.Position
	if err := r.db.GetContext(ctx, &position, query, id); err != nil {
		return nil, err
	}
	return &position, nil
}

// Exists reports whether a non-deleted position with the id exists.
func (r *PositionRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM positions WHERE id = $1 AND deleted_at IS NULL LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check position: %w", err)
	}
	return true, nil
}

// CountActiveEmployees counts non-deleted active employees holding the position.
func (r *PositionRepository) CountActiveEmployees(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM employees
		WHERE position_id = $1 AND is_active = TRUE AND deleted_at IS NULL`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count active employees: %w", err)
	}
	return count, nil
}

// Create inserts a position row.
func (r *PositionRepository) Create(ctx context.Context, position *models.Position) error {
	if position.ID == "" {
		position.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	position.CreatedAt = now
	position.UpdatedAt = now

	const query = `INSERT INTO positions (id, title, created_at, updated_at)
		VALUES (:id, :title, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, position); err != nil {
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// Update persists title changes.
func (r *PositionRepository) Update(ctx context.Context, position *models.Position) error {
	position.UpdatedAt = time.Now().UTC()

	const query = `UPDATE positions SET title = :title, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, position)
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a position deleted.
func (r *PositionRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE positions SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
