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

// LevelRepository handles persistence for seniority levels.
type LevelRepository struct {
	db *sqlx.DB
}

// NewLevelRepository creates a new repository instance.
func NewLevelRepository(db *sqlx.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// List returns levels matching filters with pagination metadata.
func (r *LevelRepository) List(ctx context.Context, filter models.LevelFilter) ([]models.Level, int, error) {
	base := "FROM levels WHERE deleted_at IS NULL"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND LOWER(level) LIKE $%d", len(args)+1)
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

	query := fmt.Sprintf("SELECT id, level, created_at, updated_at %s ORDER BY level ASC LIMIT %d OFFSET %d", base, size, offset)
	var levels []models.Level
	if err := r.db.SelectContext(ctx, &levels, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list levels: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count levels: %w", err)
	}

	return levels, total, nil
}

// FindByID returns a non-deleted level by id.
func (r *LevelRepository) FindByID(ctx context.Context, id string) (*models.Level, error) {
	const query = `SELECT id, level, created_at, updated_at FROM levels WHERE id = $1 AND deleted_at IS NULL`
	var level models.Level
	if err := r.db.GetContext(ctx, &level, query, id); err != nil {
		return nil, err
	}
	return &level, nil
}

// Create inserts a level row.
func (r *LevelRepository) Create(ctx context.Context, level *models.Level) error {
	if level.ID == "" {
		level.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	level.CreatedAt = now
	level.UpdatedAt = now

	const query = `INSERT INTO levels (id, level, created_at, updated_at)
		VALUES (:id, :level, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, level); err != nil {
		return fmt.Errorf("insert level: %w", err)
	}
	return nil
}

// Update persists label changes.
func (r *LevelRepository) Update(ctx context.Context, level *models.Level) error {
	level.UpdatedAt = time.Now().UTC()

	const query = `UPDATE levels SET level = :level, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, level)
	if err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a level deleted.
func (r *LevelRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE levels SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete level: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
