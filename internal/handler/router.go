package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/hrd-platform/hr-admin-api/internal/middleware"
	"github.com/hrd-platform/hr-admin-api/internal/service"
	"github.com/hrd-platform/hr-admin-api/pkg/config"
	"github.com/hrd-platform/hr-admin-api/pkg/logger"
	corsmiddleware "github.com/hrd-platform/hr-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hrd-platform/hr-admin-api/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler wired by the router.
type Handlers struct {
	Auth        *AuthHandler
	Departments *DepartmentHandler
	Positions   *PositionHandler
	Levels      *LevelHandler
	Employees   *EmployeeHandler
	Periods     *PeriodHandler
	Attendance  *AttendanceHandler
	Templates   *TemplateHandler
	Evaluations *EvaluationHandler
}

// NewRouter assembles the gin engine with infra middleware, health
// endpoints and the versionless API group behind session auth.
func NewRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, rdb *redis.Client, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.Session(auth, cfg.Session.CookieName))

	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/me", h.Auth.Me)

	secured.GET("/departments", h.Departments.List)
	secured.POST("/departments", h.Departments.Create)
	secured.GET("/departments/:id", h.Departments.Get)
	secured.PUT("/departments/:id", h.Departments.Update)
	secured.DELETE("/departments/:id", h.Departments.Delete)

	secured.GET("/positions", h.Positions.List)
	secured.POST("/positions", h.Positions.Create)
	secured.GET("/positions/:id", h.Positions.Get)
	secured.PUT("/positions/:id", h.Positions.Update)
	secured.DELETE("/positions/:id", h.Positions.Delete)

	secured.GET("/levels", h.Levels.List)
	secured.POST("/levels", h.Levels.Create)
	secured.GET("/levels/:id", h.Levels.Get)
	secured.PUT("/levels/:id", h.Levels.Update)
	secured.DELETE("/levels/:id", h.Levels.Delete)

	secured.GET("/employees", h.Employees.List)
	secured.POST("/employees", h.Employees.Create)
	secured.GET("/employees/:id", h.Employees.Get)
	secured.PUT("/employees/:id", h.Employees.Update)
	secured.DELETE("/employees/:id", h.Employees.Delete)

	secured.GET("/periods", h.Periods.List)
	secured.POST("/periods", h.Periods.Create)
	secured.GET("/periods/:id", h.Periods.Get)
	secured.PUT("/periods/:id", h.Periods.Update)
	secured.DELETE("/periods/:id", h.Periods.Delete)

	secured.GET("/attendance-records", h.Attendance.List)
	secured.POST("/attendance-records", h.Attendance.Create)
	secured.GET("/attendance-records/:id", h.Attendance.Get)
	secured.PUT("/attendance-records/:id", h.Attendance.Update)
	secured.DELETE("/attendance-records/:id", h.Attendance.Delete)

	secured.GET("/evaluation-templates", h.Templates.List)
	secured.POST("/evaluation-templates", h.Templates.Create)
	secured.GET("/evaluation-templates/:id", h.Templates.Get)
	secured.PUT("/evaluation-templates/:id", h.Templates.Update)
	secured.DELETE("/evaluation-templates/:id", h.Templates.Delete)

	secured.GET("/evaluations", h.Evaluations.List)
	secured.POST("/evaluations", h.Evaluations.Create)
	secured.GET("/evaluations/:id", h.Evaluations.Get)
	secured.PUT("/evaluations/:id", h.Evaluations.Update)
	secured.DELETE("/evaluations/:id", h.Evaluations.Delete)
	secured.POST("/evaluations/:id/answers", h.Evaluations.SubmitAnswers)
	secured.GET("/evaluations/:id/export", h.Evaluations.ExportPDF)

	return r
}
