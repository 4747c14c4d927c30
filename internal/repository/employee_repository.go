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

// EmployeeRepository handles persistence for employees and their two
// association tables (departments and reporting lines).
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new repository instance.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `e.id, e.employee_code, e.name, e.email, e.username, e.position_id, e.department_id,
	e.join_date, e.end_contract_date, e.is_active, e.created_at, e.updated_at`

var employeeSorts = map[string]bool{
	"name":              true,
	"email":             true,
	"employee_code":     true,
	"join_date":         true,
	"end_contract_date": true,
	"created_at":        true,
}

// List returns employees with their position and home department display
// fields. Search matches the employee name or the position title.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeDetail, int, error) {
	base := `FROM employees e
		LEFT JOIN positions pos ON pos.id = e.position_id AND pos.deleted_at IS NULL
		LEFT JOIN departments dep ON dep.id = e.department_id AND dep.deleted_at IS NULL
		WHERE e.deleted_at IS NULL`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.name) LIKE $%d OR LOWER(pos.title) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.ManagerID != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (SELECT 1 FROM employee_reporting_lines rl
			WHERE rl.employee_id = e.id AND rl.manager_id = $%d AND rl.deleted_at IS NULL)`, len(args)+1))
		args = append(args, filter.ManagerID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "e.is_active = TRUE")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if !employeeSorts[sortBy] {
		sortBy = "name"
	}
	order := strings.ToUpper(filter.SortDirection)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT %s, pos.title AS position_title, dep.name AS department_name
		%s ORDER BY e.%s %s LIMIT %d OFFSET %d`, employeeColumns, base, sortBy, order, size, offset)
	var employees []models.EmployeeDetail
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// FindByID returns a non-deleted employee row without joined display fields.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees e WHERE e.id = $1 AND e.deleted_at IS NULL", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindDetail returns an employee with position/department display fields and
// both association lists loaded.
func (r *EmployeeRepository) FindDetail(ctx context.Context, id string) (*models.EmployeeDetail, error) {
	query := fmt.Sprintf(`SELECT %s, pos.title AS position_title, dep.name AS department_name
		FROM employees e
		LEFT JOIN positions pos ON pos.id = e.position_id AND pos.deleted_at IS NULL
		LEFT JOIN departments dep ON dep.id = e.department_id AND dep.deleted_at IS NULL
		WHERE e.id = $1 AND e.deleted_at IS NULL`, employeeColumns)
	var detail models.EmployeeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}

	departments, err := r.ListDepartmentAssociations(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Departments = departments

	managers, err := r.ListManagerAssociations(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Managers = managers

	return &detail, nil
}

// ListDepartmentAssociations returns the employee's department pivot rows with
// department names, skipping soft-deleted rows on both sides.
func (r *EmployeeRepository) ListDepartmentAssociations(ctx context.Context, employeeID string) ([]models.DepartmentAssociation, error) {
	const query = `SELECT ed.department_id, d.name, ed.is_primary
		FROM employee_departments ed
		JOIN departments d ON d.id = ed.department_id AND d.deleted_at IS NULL
		WHERE ed.employee_id = $1 AND ed.deleted_at IS NULL
		ORDER BY ed.is_primary DESC, d.name ASC`
	var associations []models.DepartmentAssociation
	if err := r.db.SelectContext(ctx, &associations, query, employeeID); err != nil {
		return nil, fmt.Errorf("list department associations: %w", err)
	}
	return associations, nil
}

// ListManagerAssociations returns the employee's manager pivot rows with
// manager names.
func (r *EmployeeRepository) ListManagerAssociations(ctx context.Context, employeeID string) ([]models.ManagerAssociation, error) {
	const query = `SELECT rl.manager_id, m.name, rl.reporting_type
		FROM employee_reporting_lines rl
		JOIN employees m ON m.id = rl.manager_id AND m.deleted_at IS NULL
		WHERE rl.employee_id = $1 AND rl.deleted_at IS NULL
		ORDER BY m.name ASC`
	var associations []models.ManagerAssociation
	if err := r.db.SelectContext(ctx, &associations, query, employeeID); err != nil {
		return nil, fmt.Errorf("list manager associations: %w", err)
	}
	return associations, nil
}

// Exists reports whether a non-deleted employee with the id exists.
func (r *EmployeeRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM employees WHERE id = $1 AND deleted_at IS NULL LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee: %w", err)
	}
	return true, nil
}

// ExistsByCode checks employee_code uniqueness among non-deleted rows.
func (r *EmployeeRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM employees WHERE employee_code = $1 AND deleted_at IS NULL"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee code: %w", err)
	}
	return true, nil
}

// ExistsByEmail checks email uniqueness among non-deleted rows.
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	query := "SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return true, nil
}

// FindByLogin fetches a principal by email or username, including the
// credential hash. Used only by the auth flow.
func (r *EmployeeRepository) FindByLogin(ctx context.Context, field, value string) (*models.Employee, error) {
	if field != "email" && field != "username" {
		return nil, fmt.Errorf("unsupported login field %q", field)
	}
	query := fmt.Sprintf(`SELECT %s, e.password_hash FROM employees e
		WHERE LOWER(e.%s) = LOWER($1) AND e.deleted_at IS NULL`, employeeColumns, field)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, value); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create inserts the employee row and its full association sets in one
// transaction. Nothing persists if any sub-step fails.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee, departments []models.DepartmentAssignment, managers []models.ManagerAssignment) (err error) {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create employee: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO employees
		(id, employee_code, name, email, username, password_hash, position_id, department_id, join_date, end_contract_date, is_active, created_at, updated_at)
		VALUES
		(:id, :employee_code, :name, :email, :username, :password_hash, :position_id, :department_id, :join_date, :end_contract_date, :is_active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}

	if err = r.replaceAssociations(ctx, tx, employee.ID, departments, managers); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create employee: %w", err)
	}
	return nil
}

// Update persists the employee row and replaces the association sets that
// were supplied. Nil slices leave the corresponding pivot rows untouched.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee, departments []models.DepartmentAssignment, managers []models.ManagerAssignment) (err error) {
	employee.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update employee: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE employees SET
		employee_code = :employee_code, name = :name, email = :email, username = :username,
		position_id = :position_id, department_id = :department_id, join_date = :join_date,
		end_contract_date = :end_contract_date, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := tx.NamedExecContext(ctx, query, employee)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if affected, raErr := result.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = r.replaceAssociations(ctx, tx, employee.ID, departments, managers); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update employee: %w", err)
	}
	return nil
}

// replaceAssociations swaps a pivot set for the full set supplied. A nil
// slice means the caller did not send that key, so the existing rows are
// left alone; an empty non-nil slice clears them. The replace is blind, so
// created_at of surviving rows is not preserved.
func (r *EmployeeRepository) replaceAssociations(ctx context.Context, tx *sqlx.Tx, employeeID string, departments []models.DepartmentAssignment, managers []models.ManagerAssignment) error {
	now := time.Now().UTC()

	if departments != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM employee_departments WHERE employee_id = $1`, employeeID); err != nil {
			return fmt.Errorf("clear department associations: %w", err)
		}
		for _, assignment := range departments {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO employee_departments (employee_id, department_id, is_primary, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $4)`,
				employeeID, assignment.DepartmentID, assignment.IsPrimary, now); err != nil {
				return fmt.Errorf("insert department association: %w", err)
			}
		}
	}

	if managers != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM employee_reporting_lines WHERE employee_id = $1`, employeeID); err != nil {
			return fmt.Errorf("clear manager associations: %w", err)
		}
		for _, assignment := range managers {
			reportingType := assignment.ReportingType
			if reportingType == "" {
				reportingType = models.ReportingDirect
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO employee_reporting_lines (employee_id, manager_id, reporting_type, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $4)`,
				employeeID, assignment.ManagerID, reportingType, now); err != nil {
				return fmt.Errorf("insert manager association: %w", err)
			}
		}
	}

	return nil
}

// SoftDelete marks an employee deleted. Association rows stay in place and are
// filtered out by the employee soft-delete predicate on reads.
func (r *EmployeeRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE employees SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
