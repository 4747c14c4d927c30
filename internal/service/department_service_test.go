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

type mockDepartmentRepo struct {
	departments map[string]*models.Department
	children    map[string][]models.Department
	created     *models.Department
	updated     *models.Department
	deleted     []string
	childCount  int
	listErr     error
}

func (m *mockDepartmentRepo) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	out := make([]models.Department, 0, len(m.departments))
	for _, d := range m.departments {
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id string) (*models.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (m *mockDepartmentRepo) ListChildren(ctx context.Context, parentIDs []string) (map[string][]models.Department, error) {
	return m.children, nil
}

func (m *mockDepartmentRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.departments[id]
	return ok, nil
}

func (m *mockDepartmentRepo) CountChildren(ctx context.Context, id string) (int, error) {
	return m.childCount, nil
}

func (m *mockDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	department.ID = "dep-new"
	m.created = department
	return nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, department *models.Department) error {
	m.updated = department
	return nil
}

func (m *mockDepartmentRepo) SoftDelete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestDepartmentServiceCreate(t *testing.T) {
	repo := &mockDepartmentRepo{departments: map[string]*models.Department{}}
	svc := NewDepartmentService(repo, nil, zap.NewNop())

	department, err := svc.Create(context.Background(), DepartmentRequest{Name: "  Engineering  "})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", department.Name)
	assert.Nil(t, department.ParentID)
	require.NotNil(t, repo.created)
}

func TestDepartmentServiceCreateMissingName(t *testing.T) {
	svc := NewDepartmentService(&mockDepartmentRepo{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), DepartmentRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, []string{"The name field is required."}, appErr.Fields["name"])
}

func TestDepartmentServiceCreateUnknownParent(t *testing.T) {
	repo := &mockDepartmentRepo{departments: map[string]*models.Department{}}
	svc := NewDepartmentService(repo, nil, zap.NewNop())

	parent := "2f1e1a30-8a5f-4c4e-9d3c-1a2b3c4d5e6f"
	_, err := svc.Create(context.Background(), DepartmentRequest{Name: "HR", ParentID: &parent})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "parent_id")
}

func TestDepartmentServiceUpdateRejectsSelfParent(t *testing.T) {
	id := "9b2c6f3a-1d2e-4f5a-8b7c-0d1e2f3a4b5c"
	repo := &mockDepartmentRepo{departments: map[string]*models.Department{
		id: {ID: id, Name: "HR"},
	}}
	svc := NewDepartmentService(repo, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), id, DepartmentRequest{Name: "HR", ParentID: &id})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, []string{"A department cannot be its own parent."}, appErr.Fields["parent_id"])
	assert.Nil(t, repo.updated)
}

func TestDepartmentServiceDeleteGuardsChildren(t *testing.T) {
	repo := &mockDepartmentRepo{
		departments: map[string]*models.Department{"dep-1": {ID: "dep-1", Name: "Ops"}},
		childCount:  2,
	}
	svc := NewDepartmentService(repo, nil, zap.NewNop())

	err := svc.Delete(context.Background(), "dep-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Cannot delete department with sub-departments.", appErr.Message)
	assert.Empty(t, repo.deleted)
}

func TestDepartmentServiceDelete(t *testing.T) {
	repo := &mockDepartmentRepo{
		departments: map[string]*models.Department{"dep-1": {ID: "dep-1", Name: "Ops"}},
	}
	svc := NewDepartmentService(repo, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "dep-1"))
	assert.Equal(t, []string{"dep-1"}, repo.deleted)
}

func TestDepartmentServiceDeleteNotFound(t *testing.T) {
	svc := NewDepartmentService(&mockDepartmentRepo{departments: map[string]*models.Department{}}, nil, zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDepartmentServiceListTreeAttachesChildren(t *testing.T) {
	repo := &mockDepartmentRepo{
		departments: map[string]*models.Department{"root": {ID: "root", Name: "Corp"}},
		children: map[string][]models.Department{
			"root": {{ID: "child", Name: "IT"}},
		},
	}
	svc := NewDepartmentService(repo, nil, zap.NewNop())

	departments, pagination, err := svc.List(context.Background(), models.DepartmentFilter{TreeOnly: true, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, departments, 1)
	require.Len(t, departments[0].Children, 1)
	assert.Equal(t, "IT", departments[0].Children[0].Name)
	assert.Equal(t, 1, pagination.TotalCount)
}
