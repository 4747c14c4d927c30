package main

import (
	"fmt"
	"log"

	_ "github.com/hrd-platform/hr-admin-api/api/swagger"
	"github.com/hrd-platform/hr-admin-api/internal/handler"
	"github.com/hrd-platform/hr-admin-api/internal/repository"
	"github.com/hrd-platform/hr-admin-api/internal/service"
	"github.com/hrd-platform/hr-admin-api/pkg/cache"
	"github.com/hrd-platform/hr-admin-api/pkg/config"
	"github.com/hrd-platform/hr-admin-api/pkg/database"
	"github.com/hrd-platform/hr-admin-api/pkg/export"
	"github.com/hrd-platform/hr-admin-api/pkg/logger"
)

// @title HR Admin API
// @version 1.0.0
// @description HR administration backend: org structure, employees and period-scoped evaluations
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer rdb.Close()

	validate := service.NewValidator()

	departmentRepo := repository.NewDepartmentRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(employeeRepo, rdb, cfg.Session, validate, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, validate, logr)
	positionSvc := service.NewPositionService(positionRepo, validate, logr)
	levelSvc := service.NewLevelService(levelRepo, validate, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, departmentRepo, positionRepo, validate, logr)
	periodSvc := service.NewPeriodService(periodRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, periodRepo, employeeRepo, validate, logr)
	templateSvc := service.NewTemplateService(templateRepo, periodRepo, validate, logr)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, periodRepo, employeeRepo, templateRepo, export.NewPDFExporter(), validate, logr)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, metricsSvc, cfg.Session),
		Departments: handler.NewDepartmentHandler(departmentSvc),
		Positions:   handler.NewPositionHandler(positionSvc),
		Levels:      handler.NewLevelHandler(levelSvc),
		Employees:   handler.NewEmployeeHandler(employeeSvc),
		Periods:     handler.NewPeriodHandler(periodSvc),
		Attendance:  handler.NewAttendanceHandler(attendanceSvc),
		Templates:   handler.NewTemplateHandler(templateSvc),
		Evaluations: handler.NewEvaluationHandler(evaluationSvc),
	}

	r := handler.NewRouter(cfg, logr, db, rdb, authSvc, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
