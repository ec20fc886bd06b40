package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"clubverse-backend/internal/config"
	"clubverse-backend/internal/jobs"
	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/repository/postgres"
	"clubverse-backend/internal/scheduler"
	"clubverse-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-pending-actions', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubVerse Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	govSvc := service.NewGovernanceService(
		store.RosterRepository,
		store.PendingActionRepository,
		store.UserRepository,
		emailSvc,
		cfg.Server.BaseURL,
	)
	eventSvc := service.NewEventService(store.EventRepository, store.UserRepository, emailSvc)

	jobServices := &jobs.Services{
		Governance: govSvc,
		Event:      eventSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-pending-actions":
		jobRunner.ExpirePendingActions()
	case "reconcile-pending-actions":
		jobRunner.ReconcilePendingActions()
	case "send-event-reminders":
		jobRunner.SendEventReminders()
	case "roll-event-statuses":
		jobRunner.RollEventStatuses()
	case "cleanup-expired-verify-codes":
		jobRunner.CleanupExpiredVerifyCodes()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-pending-actions\n")
		fmt.Printf("  - reconcile-pending-actions\n")
		fmt.Printf("  - send-event-reminders\n")
		fmt.Printf("  - roll-event-statuses\n")
		fmt.Printf("  - cleanup-expired-verify-codes\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
