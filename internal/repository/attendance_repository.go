package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrd-platform/hr-admin-api/internal/models"
)

// AttendanceRepository handles persistence for per-period attendance counters.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new repository instance.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `id, period_id, employee_id, sick, work_accident, permit, awol, late_permit,
	early_leave, annual_leave, late, warning_letter_1, warning_letter_2, warning_letter_3,
	subordinate_late, subordinate_awol, created_at, updated_at`

// List returns attendance records matching filters with pagination metadata.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	base := "FROM attendance_records WHERE deleted_at IS NULL"
	var args []interface{}

	if filter.PeriodID != "" {
		base += fmt.Sprintf(" AND period_id = $%d", len(args)+1)
		args = append(args, filter.PeriodID)
	}
	if filter.EmployeeID != "" {
		base += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", attendanceColumns, base, size, offset)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance records: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance records: %w", err)
	}

	return records, total, nil
}

// FindByID returns a non-deleted attendance record by id.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records WHERE id = $1 AND deleted_at IS NULL", attendanceColumns)
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsForPeriodEmployee reports whether a non-deleted record already covers
// the (period, employee) pair.
func (r *AttendanceRepository) ExistsForPeriodEmployee(ctx context.Context, periodID, employeeID, excludeID string) (bool, error) {
	query := `SELECT 1 FROM attendance_records
		WHERE period_id = $1 AND employee_id = $2 AND deleted_at IS NULL`
	args := []interface{}{periodID, employeeID}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check attendance record: %w", err)
	}
	return true, nil
}

// Create inserts an attendance record row.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	const query = `INSERT INTO attendance_records
		(id, period_id, employee_id, sick, work_accident, permit, awol, late_permit, early_leave,
		 annual_leave, late, warning_letter_1, warning_letter_2, warning_letter_3,
		 subordinate_late, subordinate_awol, created_at, updated_at)
		VALUES
		(:id, :period_id, :employee_id, :sick, :work_accident, :permit, :awol, :late_permit, :early_leave,
		 :annual_leave, :late, :warning_letter_1, :warning_letter_2, :warning_letter_3,
		 :subordinate_late, :subordinate_awol, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert attendance record: %w", err)
	}
	return nil
}

// Update persists counter changes.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	record.UpdatedAt = time.Now().UTC()

	const query = `UPDATE attendance_records SET
		period_id = :period_id, employee_id = :employee_id, sick = :sick, work_accident = :work_accident,
		permit = :permit, awol = :awol, late_permit = :late_permit, early_leave = :early_leave,
		annual_leave = :annual_leave, late = :late, warning_letter_1 = :warning_letter_1,
		warning_letter_2 = :warning_letter_2, warning_letter_3 = :warning_letter_3,
		subordinate_late = :subordinate_late, subordinate_awol = :subordinate_awol, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update attendance record: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks an attendance record deleted.
func (r *AttendanceRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE attendance_records SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete attendance record: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
