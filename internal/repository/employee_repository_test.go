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

func employeeDetailRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "employee_code", "name", "email", "username", "position_id", "department_id",
		"join_date", "end_contract_date", "is_active", "created_at", "updated_at",
		"position_title", "department_name",
	})
	for _, id := range ids {
		rows.AddRow(id, "E-"+id, "Employee "+id, id+"@example.com", nil, nil, nil,
			time.Now(), nil, true, time.Now(), time.Now(), "Engineer", "Engineering")
	}
	return rows
}

func TestEmployeeRepositoryListSearchMatchesNameAndTitle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("(LOWER(e.name) LIKE $1 OR LOWER(pos.title) LIKE $1)")).
		WithArgs("%jane%").
		WillReturnRows(employeeDetailRows("emp-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%jane%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	employees, total, err := repo.List(context.Background(), models.EmployeeFilter{Search: "Jane", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListManagerFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("EXISTS (SELECT 1 FROM employee_reporting_lines rl")).
		WithArgs("mgr-1").
		WillReturnRows(employeeDetailRows("emp-1", "emp-2"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("mgr-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	employees, total, err := repo.List(context.Background(), models.EmployeeFilter{ManagerID: "mgr-1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, employees, 2)
	require.Equal(t, 2, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryFindDetailLoadsAssociations(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.id = $1 AND e.deleted_at IS NULL")).
		WithArgs("emp-1").
		WillReturnRows(employeeDetailRows("emp-1"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM employee_departments ed")).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "name", "is_primary"}).
			AddRow("dep-1", "Engineering", true).
			AddRow("dep-2", "Product", false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM employee_reporting_lines rl")).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{"manager_id", "name", "reporting_type"}).
			AddRow("mgr-1", "Boss", models.ReportingDirect))

	detail, err := repo.FindDetail(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, detail.Departments, 2)
	require.True(t, detail.Departments[0].IsPrimary)
	require.Len(t, detail.Managers, 1)
	require.Equal(t, models.ReportingDirect, detail.Managers[0].ReportingType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByCodeExcludesOwnRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("employee_code = $1 AND deleted_at IS NULL AND id <> $2")).
		WithArgs("EMP-001", "emp-1").
		WillReturnError(sql.ErrNoRows)

	taken, err := repo.ExistsByCode(context.Background(), "EMP-001", "emp-1")
	require.NoError(t, err)
	require.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByEmailFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("LOWER(email) = LOWER($1)")).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	taken, err := repo.ExistsByEmail(context.Background(), "jane@example.com", "")
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryFindByLogin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "employee_code", "name", "email", "username", "position_id", "department_id",
		"join_date", "end_contract_date", "is_active", "created_at", "updated_at", "password_hash",
	}).AddRow("emp-1", "E-1", "Jane Doe", "jane@example.com", nil, nil, nil,
		time.Now(), nil, true, time.Now(), time.Now(), "hashed")
	mock.ExpectQuery(regexp.QuoteMeta("LOWER(e.email) = LOWER($1)")).
		WithArgs("Jane@Example.com").
		WillReturnRows(rows)

	employee, err := repo.FindByLogin(context.Background(), "email", "Jane@Example.com")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", employee.Name)
	require.NotNil(t, employee.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryFindByLoginRejectsUnknownField(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	_, err := repo.FindByLogin(context.Background(), "phone", "555")
	require.ErrorContains(t, err, "unsupported login field")
}

func TestEmployeeRepositoryCreateReplacesAssociations(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employee_departments WHERE employee_id = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employee_departments")).
		WithArgs(sqlmock.AnyArg(), "dep-1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employee_reporting_lines WHERE employee_id = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employee_reporting_lines")).
		WithArgs(sqlmock.AnyArg(), "mgr-1", models.ReportingDirect, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	employee := &models.Employee{Name: "Jane Doe", JoinDate: time.Now(), IsActive: true}
	err := repo.Create(context.Background(), employee,
		[]models.DepartmentAssignment{{DepartmentID: "dep-1", IsPrimary: true}},
		[]models.ManagerAssignment{{ManagerID: "mgr-1"}})
	require.NoError(t, err)
	require.NotEmpty(t, employee.ID)
	require.False(t, employee.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreateRollsBackOnAssociationFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employee_departments WHERE employee_id = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Employee{Name: "Jane Doe", JoinDate: time.Now()},
		[]models.DepartmentAssignment{}, nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateNilAssociationsKeepRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Employee{ID: "emp-1", Name: "Jane Doe", JoinDate: time.Now()}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateEmptyAssociationsClearRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employee_departments WHERE employee_id = $1")).
		WithArgs("emp-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employee_reporting_lines WHERE employee_id = $1")).
		WithArgs("emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Employee{ID: "emp-1", Name: "Jane Doe", JoinDate: time.Now()},
		[]models.DepartmentAssignment{}, []models.ManagerAssignment{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Employee{ID: "missing", Name: "Gone", JoinDate: time.Now()}, nil, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositorySoftDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEmployeeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET deleted_at = $2")).
		WithArgs("emp-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), "emp-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
