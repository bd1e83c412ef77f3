package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/BhanuBurman/career-page-builder/internal/handler"
	"github.com/BhanuBurman/career-page-builder/internal/metrics"
	"github.com/BhanuBurman/career-page-builder/internal/middleware"
	"github.com/BhanuBurman/career-page-builder/internal/model"
	"github.com/BhanuBurman/career-page-builder/internal/store"
	"github.com/BhanuBurman/career-page-builder/pkg/config"
	"github.com/BhanuBurman/career-page-builder/pkg/database"
	"github.com/BhanuBurman/career-page-builder/pkg/jwtutil"
	"github.com/BhanuBurman/career-page-builder/pkg/logger"
	"github.com/BhanuBurman/career-page-builder/pkg/notifier"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with config
	err = logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Starting careersite service", cfg.LogFields()...)

	// Tokens cannot be verified without the shared secret; refuse to
	// start rather than reject every authenticated request at runtime.
	if cfg.JWT.SigningKey == "" {
		log.Fatal("SUPABASE_JWT_SECRET is not configured")
	}

	// Initialize database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Run migrations
	if err := database.Migrate(db, &model.Company{}, &model.Job{}); err != nil {
		log.Fatal("Failed to migrate database models", zap.Error(err))
	}

	// Wire dependencies
	verifier := jwtutil.NewVerifier(&cfg.JWT)
	notify := notifier.NewLogNotifier(log)
	companyStore := store.NewCompanyStore(db)
	jobStore := store.NewJobStore(db)
	companyHandler := handler.NewCompanyHandler(companyStore, notify)
	jobHandler := handler.NewJobHandler(companyStore, jobStore, notify)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(metrics.Middleware())

	// Operational endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	// Public routes - career pages and active job postings
	e.GET("/companies/:slug", companyHandler.GetPublic)
	e.GET("/companies/:slug/jobs", jobHandler.ListPublic)
	e.GET("/companies/:slug/jobs/:id", jobHandler.GetPublic)

	// Recruiter routes - all require a verified bearer token
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(verifier))

	api.POST("/companies", companyHandler.Create)
	api.GET("/companies", companyHandler.List)
	api.GET("/companies/:slug", companyHandler.GetDetail)
	api.PATCH("/companies/:slug/edit", companyHandler.Update)
	api.DELETE("/companies/:slug", companyHandler.Delete)

	api.POST("/companies/:slug/jobs", jobHandler.Create)
	api.GET("/companies/:slug/jobs", jobHandler.ListForOwner)
	api.PATCH("/companies/:slug/jobs/:id", jobHandler.Update)
	api.DELETE("/companies/:slug/jobs/:id", jobHandler.Delete)
	api.PATCH("/companies/:slug/jobs/:id/toggle", jobHandler.Toggle)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
