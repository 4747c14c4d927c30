package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records    map[string]*models.AttendanceRecord
	duplicates map[string]string // periodID+employeeID -> record id
	deleted    []string
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records:    map[string]*models.AttendanceRecord{},
		duplicates: map[string]string{},
	}
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	out := make([]models.AttendanceRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (m *mockAttendanceRepo) ExistsForPeriodEmployee(ctx context.Context, periodID, employeeID, excludeID string) (bool, error) {
	owner, ok := m.duplicates[periodID+"/"+employeeID]
	return ok && owner != excludeID, nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.AttendanceRecord) error {
	record.ID = "att-new"
	m.records[record.ID] = record
	return nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, record *models.AttendanceRecord) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockAttendanceRepo) SoftDelete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func allKnown() staticChecker {
	return staticChecker{known: map[string]bool{"period-1": true, "emp-1": true}}
}

func TestAttendanceServiceCreate(t *testing.T) {
	repo := newMockAttendanceRepo()
	svc := NewAttendanceService(repo, allKnown(), allKnown(), nil, zap.NewNop())

	record, err := svc.Create(context.Background(), AttendanceRequest{
		PeriodID:   "period-1",
		EmployeeID: "emp-1",
		Sick:       1.5,
		Late:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, record.Sick)
	assert.Equal(t, 2.0, record.Late)
}

func TestAttendanceServiceCreateDuplicatePair(t *testing.T) {
	repo := newMockAttendanceRepo()
	repo.duplicates["period-1/emp-1"] = "att-existing"
	svc := NewAttendanceService(repo, allKnown(), allKnown(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), AttendanceRequest{PeriodID: "period-1", EmployeeID: "emp-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "An attendance record already exists for this employee in this period.", appErr.Message)
}

func TestAttendanceServiceUpdateAllowsOwnPair(t *testing.T) {
	repo := newMockAttendanceRepo()
	repo.records["att-1"] = &models.AttendanceRecord{ID: "att-1", PeriodID: "period-1", EmployeeID: "emp-1"}
	repo.duplicates["period-1/emp-1"] = "att-1"
	svc := NewAttendanceService(repo, allKnown(), allKnown(), nil, zap.NewNop())

	record, err := svc.Update(context.Background(), "att-1", AttendanceRequest{
		PeriodID:   "period-1",
		EmployeeID: "emp-1",
		Awol:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, record.Awol)
}

func TestAttendanceServiceCreateNegativeCounter(t *testing.T) {
	svc := NewAttendanceService(newMockAttendanceRepo(), allKnown(), allKnown(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), AttendanceRequest{PeriodID: "period-1", EmployeeID: "emp-1", Sick: -1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceCreateUnknownPeriod(t *testing.T) {
	svc := NewAttendanceService(newMockAttendanceRepo(), staticChecker{}, allKnown(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), AttendanceRequest{PeriodID: "ghost", EmployeeID: "emp-1"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "period_id")
}
