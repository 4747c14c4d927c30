package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	"github.com/hrd-platform/hr-admin-api/pkg/config"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

const sessionKeyPrefix = "session:"

type authEmployeeRepository interface {
	FindByLogin(ctx context.Context, field, value string) (*models.Employee, error)
	FindDetail(ctx context.Context, id string) (*models.EmployeeDetail, error)
}

// LoginRequest accepts either an email address or a username in Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService issues and revokes session tokens. A session is a signed JWT
// whose SID must also be present in Redis, so logout invalidates the token
// server-side before it expires.
type AuthService struct {
	repo      authEmployeeRepository
	sessions  *redis.Client
	cfg       config.SessionConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo authEmployeeRepository, sessions *redis.Client, cfg config.SessionConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Login verifies credentials and opens a session. The login value is treated
// as an email when it contains "@", as a username otherwise.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *models.EmployeeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", nil, validationError(err, "invalid login payload")
	}

	field := "username"
	if strings.Contains(req.Login, "@") {
		field = "email"
	}

	employee, err := s.repo.FindByLogin(ctx, field, strings.TrimSpace(req.Login))
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, s.invalidCredentials()
		}
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up employee")
	}
	if employee.PasswordHash == nil {
		return "", nil, s.invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*employee.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, s.invalidCredentials()
	}
	if !employee.IsActive {
		return "", nil, appErrors.FieldError("login", "This account has been deactivated.")
	}

	token, err := s.openSession(ctx, employee.ID)
	if err != nil {
		return "", nil, err
	}

	detail, err := s.repo.FindDetail(ctx, employee.ID)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	s.logger.Info("session opened", zap.String("employee_id", employee.ID))
	return token, detail, nil
}

// ValidateToken parses a session token and checks its SID is still
// registered.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}

	registered, err := s.sessions.Exists(ctx, sessionKeyPrefix+claims.SID).Result()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session")
	}
	if registered == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return claims, nil
}

// Logout revokes the session behind the given claims.
func (s *AuthService) Logout(ctx context.Context, claims *models.SessionClaims) error {
	if err := s.sessions.Del(ctx, sessionKeyPrefix+claims.SID).Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke session")
	}
	s.logger.Info("session revoked", zap.String("employee_id", claims.EmployeeID))
	return nil
}

// Me returns the profile of the session's employee.
func (s *AuthService) Me(ctx context.Context, employeeID string) (*models.EmployeeDetail, error) {
	detail, err := s.repo.FindDetail(ctx, employeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return detail, nil
}

func (s *AuthService) openSession(ctx context.Context, employeeID string) (string, error) {
	sid := uuid.NewString()
	now := s.now()
	claims := models.SessionClaims{
		EmployeeID: employeeID,
		SID:        sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	if err := s.sessions.Set(ctx, sessionKeyPrefix+sid, employeeID, s.cfg.TTL).Err(); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register session")
	}
	return token, nil
}

func (s *AuthService) invalidCredentials() error {
	return appErrors.FieldError("login", "The provided credentials are incorrect.")
}
