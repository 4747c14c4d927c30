package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	"github.com/hrd-platform/hr-admin-api/pkg/config"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

type mockAuthRepo struct {
	byEmail    map[string]*models.Employee
	byUsername map[string]*models.Employee
	lastField  string
}

func (m *mockAuthRepo) FindByLogin(ctx context.Context, field, value string) (*models.Employee, error) {
	m.lastField = field
	var pool map[string]*models.Employee
	if field == "email" {
		pool = m.byEmail
	} else {
		pool = m.byUsername
	}
	e, ok := pool[value]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (m *mockAuthRepo) FindDetail(ctx context.Context, id string) (*models.EmployeeDetail, error) {
	for _, e := range m.byEmail {
		if e.ID == id {
			return &models.EmployeeDetail{Employee: *e}, nil
		}
	}
	for _, e := range m.byUsername {
		if e.ID == id {
			return &models.EmployeeDetail{Employee: *e}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "hr_session",
	}
}

func hashedEmployee(t *testing.T, id, password string, active bool) *models.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	return &models.Employee{ID: id, Name: "Jane Doe", PasswordHash: &hashStr, IsActive: active}
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{byEmail: map[string]*models.Employee{
		"jdoe@example.com": hashedEmployee(t, "emp-1", "correct-horse", true),
	}}
	svc := NewAuthService(repo, nil, sessionTestConfig(), nil, zap.NewNop())

	_, _, err := svc.Login(context.Background(), LoginRequest{Login: "jdoe@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, []string{"The provided credentials are incorrect."}, appErr.Fields["login"])
	assert.Equal(t, "email", repo.lastField)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, sessionTestConfig(), nil, zap.NewNop())

	_, _, err := svc.Login(context.Background(), LoginRequest{Login: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "login")
	assert.Equal(t, "username", repo.lastField)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := &mockAuthRepo{byUsername: map[string]*models.Employee{
		"jdoe": hashedEmployee(t, "emp-1", "correct-horse", false),
	}}
	svc := NewAuthService(repo, nil, sessionTestConfig(), nil, zap.NewNop())

	_, _, err := svc.Login(context.Background(), LoginRequest{Login: "jdoe", Password: "correct-horse"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, []string{"This account has been deactivated."}, appErr.Fields["login"])
}

func TestAuthServiceLoginMissingFields(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, sessionTestConfig(), nil, zap.NewNop())

	_, _, err := svc.Login(context.Background(), LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, sessionTestConfig(), nil, zap.NewNop())

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceMeNotFound(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, sessionTestConfig(), nil, zap.NewNop())

	_, err := svc.Me(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
