// Package main provides the entry point for the teacher PIN authentication API server
// @title Teacher PIN API
// @version 1.0
// @description Teacher registration and PIN authentication with lockout and expiry.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin bearer token
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"teacherpin/internal/api/routes"
	"teacherpin/internal/auth"
	"teacherpin/internal/config"
	"teacherpin/internal/database"
	"teacherpin/internal/jobs"
	"teacherpin/internal/logging"
	"teacherpin/internal/metrics"
	"teacherpin/internal/pin"
	"teacherpin/internal/repository"
	"teacherpin/internal/repository/memory"
	"teacherpin/internal/repository/postgres"
	"teacherpin/internal/validation"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	issueToken := flag.String("issue-admin-token", "", "Print an admin token for the given subject and exit")
	tokenTTL := flag.Duration("token-ttl", 12*time.Hour, "Lifetime of a token printed by -issue-admin-token")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile != ".env" {
		log.Fatalf("Failed to load env file: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.AdminSecret)
	if *issueToken != "" {
		token, err := tokens.GenerateAdminToken(*issueToken, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, tokens, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, tokens *auth.TokenIssuer, logger *zap.Logger) error {
	hasher, err := pin.NewHasher(cfg.Auth.PinHashAlgorithm, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	if cfg.Auth.PinHashAlgorithm == pin.AlgorithmSHA256 {
		logger.Warn("PIN hashes use a fixed shared salt; set PIN_HASH_ALGORITHM=bcrypt for new deployments")
	}

	var (
		db        *sql.DB
		teachers  repository.TeacherRepository
		auditRepo repository.AuditLogRepository
	)
	switch cfg.Storage.Driver {
	case "postgres":
		db, err = database.SetupDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		teachers = postgres.NewTeacherRepository(db)
		auditRepo = postgres.NewAuditLogRepository(db)
	default:
		logger.Warn("using in-memory storage; state is lost on restart")
		teachers = memory.NewTeacherRepository()
		auditRepo = memory.NewAuditLogRepository()
	}

	// Initialize validators
	validation.Initialize()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	authService := auth.NewService(teachers, hasher, auth.NewRepositorySink(auditRepo), logger.Named("auth"),
		auth.WithMetrics(appMetrics))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := jobs.NewScheduler(logger.Named("jobs"))
	scheduler.Register(cfg.Audit.CleanupSchedule, jobs.NewAuditRetentionJob(auditRepo, cfg.Audit.RetentionPeriod(), logger.Named("jobs")))
	schedulerErr := make(chan error, 1)
	go func() { schedulerErr <- scheduler.Start(ctx) }()

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRoutes(ctx, routes.Dependencies{
		Config:      cfg,
		DB:          db,
		AuthService: authService,
		AuditRepo:   auditRepo,
		Tokens:      tokens,
		Logger:      logger.Named("http"),
		Metrics:     appMetrics,
		Gatherer:    registry,
	})

	// Convert port string to int
	port, err := strconv.Atoi(cfg.API.Port)
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.Int("port", port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case err := <-schedulerErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
