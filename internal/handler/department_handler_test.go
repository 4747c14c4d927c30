package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	"github.com/hrd-platform/hr-admin-api/internal/service"
)

type departmentRepoStub struct {
	departments map[string]models.Department
	childCounts map[string]int
	lastFilter  models.DepartmentFilter
}

func (s *departmentRepoStub) List(ctx context.Context, filter models.DepartmentFilter) ([]models.Department, int, error) {
	s.lastFilter = filter
	var out []models.Department
	for _, department := range s.departments {
		out = append(out, department)
	}
	return out, len(out), nil
}

func (s *departmentRepoStub) FindByID(ctx context.Context, id string) (*models.Department, error) {
	department, ok := s.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &department, nil
}

func (s *departmentRepoStub) ListChildren(ctx context.Context, parentIDs []string) (map[string][]models.Department, error) {
	return map[string][]models.Department{}, nil
}

func (s *departmentRepoStub) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.departments[id]
	return ok, nil
}

func (s *departmentRepoStub) CountChildren(ctx context.Context, id string) (int, error) {
	return s.childCounts[id], nil
}

func (s *departmentRepoStub) Create(ctx context.Context, department *models.Department) error {
	department.ID = "dep-new"
	department.CreatedAt = time.Now()
	department.UpdatedAt = department.CreatedAt
	s.departments[department.ID] = *department
	return nil
}

func (s *departmentRepoStub) Update(ctx context.Context, department *models.Department) error {
	if _, ok := s.departments[department.ID]; !ok {
		return sql.ErrNoRows
	}
	s.departments[department.ID] = *department
	return nil
}

func (s *departmentRepoStub) SoftDelete(ctx context.Context, id string) error {
	if _, ok := s.departments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.departments, id)
	return nil
}

func buildDepartmentRouter(repo *departmentRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	departmentHandler := NewDepartmentHandler(service.NewDepartmentService(repo, nil, nil))
	router.GET("/departments", departmentHandler.List)
	router.POST("/departments", departmentHandler.Create)
	router.GET("/departments/:id", departmentHandler.Get)
	router.PUT("/departments/:id", departmentHandler.Update)
	router.DELETE("/departments/:id", departmentHandler.Delete)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDepartmentRoutes(t *testing.T) {
	repo := &departmentRepoStub{
		departments: map[string]models.Department{
			"dep-1": {ID: "dep-1", Name: "Engineering", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		},
		childCounts: map[string]int{"dep-1": 2},
	}
	router := buildDepartmentRouter(repo)

	t.Run("list returns envelope with page metadata", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/departments?page=1&per_page=10", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"Engineering"`)
		require.Contains(t, resp.Body.String(), `"current_page":1`)
	})

	t.Run("tree flag is a presence check", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/departments?tree=1", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.True(t, repo.lastFilter.TreeOnly)

		req, _ = http.NewRequest(http.MethodGet, "/departments", nil)
		resp = performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.False(t, repo.lastFilter.TreeOnly)
	})

	t.Run("get unknown id returns 404 envelope", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/departments/missing", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
		require.Contains(t, resp.Body.String(), `"NOT_FOUND"`)
	})

	t.Run("create success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/departments", bytes.NewBufferString(`{"name":"People Ops"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"People Ops"`)
	})

	t.Run("create without name returns 422 field errors", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/departments", bytes.NewBufferString(`{"name":""}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		require.Contains(t, resp.Body.String(), `"name"`)
	})

	t.Run("malformed body returns 422", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/departments", bytes.NewBufferString(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		require.Contains(t, resp.Body.String(), `"VALIDATION_ERROR"`)
	})

	t.Run("delete with children returns flat message", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/departments/dep-1", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.JSONEq(t, `{"message":"Cannot delete department with sub-departments."}`, resp.Body.String())
	})

	t.Run("delete leaf succeeds", func(t *testing.T) {
		repo.childCounts["dep-1"] = 0
		req, _ := http.NewRequest(http.MethodDelete, "/departments/dep-1", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.JSONEq(t, `{"message":"Department deleted successfully"}`, resp.Body.String())
	})
}
