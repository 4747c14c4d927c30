package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/models"
	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	ExistsForPeriodEmployee(ctx context.Context, periodID, employeeID, excludeID string) (bool, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, record *models.AttendanceRecord) error
	SoftDelete(ctx context.Context, id string) error
}

type periodChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type employeeChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AttendanceRequest is the payload for creating or updating an attendance
// record. Counters accept halves, e.g. 0.5 for a half day.
type AttendanceRequest struct {
	PeriodID        string  `json:"period_id" validate:"required"`
	EmployeeID      string  `json:"employee_id" validate:"required"`
	Sick            float64 `json:"sick" validate:"gte=0"`
	WorkAccident    float64 `json:"work_accident" validate:"gte=0"`
	Permit          float64 `json:"permit" validate:"gte=0"`
	Awol            float64 `json:"awol" validate:"gte=0"`
	LatePermit      float64 `json:"late_permit" validate:"gte=0"`
	EarlyLeave      float64 `json:"early_leave" validate:"gte=0"`
	AnnualLeave     float64 `json:"annual_leave" validate:"gte=0"`
	Late            float64 `json:"late" validate:"gte=0"`
	WarningLetter1  float64 `json:"warning_letter_1" validate:"gte=0"`
	WarningLetter2  float64 `json:"warning_letter_2" validate:"gte=0"`
	WarningLetter3  float64 `json:"warning_letter_3" validate:"gte=0"`
	SubordinateLate float64 `json:"subordinate_late" validate:"gte=0"`
	SubordinateAwol float64 `json:"subordinate_awol" validate:"gte=0"`
}

// AttendanceService orchestrates attendance record operations.
type AttendanceService struct {
	repo      attendanceRepository
	periods   periodChecker
	employees employeeChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, periods periodChecker, employees employeeChecker, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, periods: periods, employees: employees, validator: validate, logger: logger}
}

// List returns attendance records plus pagination data.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, buildPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an attendance record by id.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	return record, nil
}

// Create registers a new attendance record for a (period, employee) pair.
func (s *AttendanceService) Create(ctx context.Context, req AttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validate(ctx, req, ""); err != nil {
		return nil, err
	}

	record := s.buildRecord(req)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance record")
	}
	return record, nil
}

// Update modifies an existing attendance record.
func (s *AttendanceService) Update(ctx context.Context, id string, req AttendanceRequest) (*models.AttendanceRecord, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}

	if err := s.validate(ctx, req, id); err != nil {
		return nil, err
	}

	record := s.buildRecord(req)
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance record")
	}
	return record, nil
}

// Delete soft-deletes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance record")
	}
	return nil
}

func (s *AttendanceService) validate(ctx context.Context, req AttendanceRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid attendance payload")
	}

	exists, err := s.periods.Exists(ctx, req.PeriodID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period")
	}
	if !exists {
		return appErrors.FieldError("period_id", "The selected period does not exist.")
	}

	exists, err = s.employees.Exists(ctx, req.EmployeeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check employee")
	}
	if !exists {
		return appErrors.FieldError("employee_id", "The selected employee does not exist.")
	}

	duplicate, err := s.repo.ExistsForPeriodEmployee(ctx, req.PeriodID, req.EmployeeID, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance record")
	}
	if duplicate {
		return appErrors.Clone(appErrors.ErrConflict, "An attendance record already exists for this employee in this period.")
	}

	return nil
}

func (s *AttendanceService) buildRecord(req AttendanceRequest) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		PeriodID:        req.PeriodID,
		EmployeeID:      req.EmployeeID,
		Sick:            req.Sick,
		WorkAccident:    req.WorkAccident,
		Permit:          req.Permit,
		Awol:            req.Awol,
		LatePermit:      req.LatePermit,
		EarlyLeave:      req.EarlyLeave,
		AnnualLeave:     req.AnnualLeave,
		Late:            req.Late,
		WarningLetter1:  req.WarningLetter1,
		WarningLetter2:  req.WarningLetter2,
		WarningLetter3:  req.WarningLetter3,
		SubordinateLate: req.SubordinateLate,
		SubordinateAwol: req.SubordinateAwol,
	}
}
