package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	httpapi "clubverse-backend/internal/api/http"
	"clubverse-backend/internal/config"
	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/repository/postgres"
	"clubverse-backend/internal/security"
	"clubverse-backend/internal/service"
	"clubverse-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubVerse Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Object Storage
	minioClient, err := storage.NewMinioClient(context.Background(), cfg.Storage)
	if err != nil {
		logger.Error("Failed to initialize object storage", "error", err)
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	logger.Info("Object storage ready", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	authSvc := service.NewAuthService(
		store.UserRepository,
		store.OTPRepository,
		tokenManager,
		emailSvc,
		time.Duration(cfg.OTP.ExpiryMinutes)*time.Minute,
	)
	userSvc := service.NewUserService(store.UserRepository)
	govSvc := service.NewGovernanceService(
		store.RosterRepository,
		store.PendingActionRepository,
		store.UserRepository,
		emailSvc,
		cfg.Server.BaseURL,
	)
	appSvc := service.NewApplicationService(
		store.ApplicationRepository,
		store.RosterRepository,
		store.UserRepository,
		emailSvc,
	)
	eventSvc := service.NewEventService(store.EventRepository, store.UserRepository, emailSvc)
	postSvc := service.NewPostService(store.PostRepository)
	uploadSvc := service.NewUploadService(minioClient, cfg.Storage.MaxImageSizeMB, cfg.Storage.MaxFileSizeMB)

	// Build router and serve
	router := httpapi.NewRouter(httpapi.Services{
		Auth:          authSvc,
		User:          userSvc,
		Governance:    govSvc,
		Application:   appSvc,
		Event:         eventSvc,
		Post:          postSvc,
		Upload:        uploadSvc,
		Tokens:        tokenManager,
		MaxFileSizeMB: cfg.Storage.MaxFileSizeMB,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
