// Package routes handles the setup and configuration of API routes
package routes

import (
	"context"
	"database/sql"
	"teacherpin/internal/api/handlers"
	"teacherpin/internal/api/middleware"
	"teacherpin/internal/auth"
	"teacherpin/internal/config"
	"teacherpin/internal/metrics"
	"teacherpin/internal/repository"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the services the HTTP layer is built on
type Dependencies struct {
	Config      *config.Config
	DB          *sql.DB // nil for the in-memory storage driver
	AuthService *auth.Service
	AuditRepo   repository.AuditLogRepository
	Tokens      *auth.TokenIssuer
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
}

// SetupRoutes configures all API routes and their handlers. Background
// upkeep started here stops when ctx is done.
func SetupRoutes(ctx context.Context, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))

	// Scrapes are not rate limited
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	limiter := middleware.NewRateLimiter(deps.Config.RateLimit).WithMetrics(deps.Metrics)
	go limiter.Run(ctx, 10*time.Minute)
	r.Use(limiter.Middleware())

	pinLimiter := middleware.NewRateLimiter(deps.Config.PinRateLimit).WithMetrics(deps.Metrics)
	go pinLimiter.Run(ctx, 10*time.Minute)

	var pinger handlers.Pinger
	if deps.DB != nil {
		pinger = deps.DB
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(pinger, deps.Config.Storage.Driver)
	teacherHandler := handlers.NewTeacherHandler(deps.AuthService)
	auditHandler := handlers.NewAuditLogHandler(deps.AuditRepo)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.POST("/pin/validate-format", teacherHandler.ValidatePinFormat)

		teachers := v1.Group("/teachers")
		{
			teachers.POST("", teacherHandler.Register)
			teachers.GET("/:userId", teacherHandler.GetTeacher)
			teachers.POST("/:userId/pin/validate", pinLimiter.Middleware(), teacherHandler.ValidatePin)

			// Admin-only routes
			admin := teachers.Group("")
			admin.Use(authMiddleware.AdminRequired())
			{
				admin.POST("/:userId/pin/reset", teacherHandler.ResetPin)
				admin.POST("/:userId/unlock", teacherHandler.Unlock)
				admin.DELETE("/:userId", teacherHandler.Deactivate)
				admin.GET("/:userId/audit-logs", auditHandler.ListForTeacher)
			}
		}
	}

	return r
}
