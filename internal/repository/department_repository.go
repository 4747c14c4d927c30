package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// DepartmentRepository handles persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new repository instance.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

const departmentColumns = "d.id, d.name, d.parent_id, d.created_at, d.updated_at, p.name AS parent_name"

// List returns departments matching filters with pagination metadata. With
// TreeOnly set only root departments are returned; callers attach children
// separately.
func (r *DepartmentRepository) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	base := `FROM departments d
		LEFT JOIN departments p ON p.id = d.parent_id AND p.deleted_at IS NULL
		WHERE d.deleted_at IS NULL`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(d.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.TreeOnly {
		conditions = append(conditions, "d.parent_id IS NULL")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY d.name ASC LIMIT %d OFFSET %d", departmentColumns, base, size, offset)
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	return departments, total, nil
}

// FindByID returns a non-deleted department by id with its parent name joined.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM departments d
		LEFT JOIN departments p ON p.id = d.parent_id AND p.deleted_at IS NULL
		WHERE d.id = $1 AND d.deleted_at IS NULL`, departmentColumns)
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// ListChildren returns the non-deleted direct children of the given parents,
// keyed by parent id.
func (r *DepartmentRepository) ListChildren(ctx context.Context, parentIDs []string) (map[string][]models.Department, error) {
	if len(parentIDs) == 0 {
		return map[string][]models.Department{}, nil
	}
	const query = `SELECT id, name, parent_id, created_at, updated_at FROM departments
		WHERE parent_id = ANY($1) AND deleted_at IS NULL ORDER BY name ASC`
	var children []models.Department
	if err := r.db.SelectContext(ctx, &children, query, pq.Array(parentIDs)); err != nil {
		return nil, fmt.Errorf("list department children: %w", err)
	}

	byParent := make(map[string][]models.Department, len(parentIDs))
	for _, child := range children {
		if child.ParentID == nil {
			continue
		}
		byParent[*child.ParentID] = append(byParent[*child.ParentID], child)
	}
	return byParent, nil
}

// Exists reports whether a non-deleted department with the id exists.
func (r *DepartmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM departments WHERE id = $1 AND deleted_at IS NULL LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department: %w", err)
	}
	return true, nil
}

// CountChildren counts non-deleted direct children.
func (r *DepartmentRepository) CountChildren(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM departments WHERE parent_id = $1 AND deleted_at IS NULL`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count department children: %w", err)
	}
	return count, nil
}

// Create inserts a department row.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	department.CreatedAt = now
	department.UpdatedAt = now

	const query = `INSERT INTO departments (id, name, parent_id, created_at, updated_at)
		VALUES (:id, :name, :parent_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// Update persists name and parent changes.
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	department.UpdatedAt = time.Now().UTC()

	const query = `UPDATE departments SET name = :name, parent_id = :parent_id, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, department)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a department deleted, keeping the row for history.
func (r *DepartmentRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE departments SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
