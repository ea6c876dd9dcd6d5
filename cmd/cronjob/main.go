package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/joho/godotenv"

	"equiphire-backend/internal/config"
	"equiphire-backend/internal/jobs"
	"equiphire-backend/internal/logger"
	"equiphire-backend/internal/metrics"
	"equiphire-backend/internal/repository/postgres"
	"equiphire-backend/internal/scheduler"
	"equiphire-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.Bool("run-once", false, "Run the return-due sweep once and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EquipHire cronjob runner", "log_level", cfg.Log.Level)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	metrics.Register()

	store := postgres.NewStore(db)
	emailService := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	bookingService := service.NewBookingService(
		store.BookingRepository,
		store.StatusLogRepository,
		store.PartyRepository,
		emailService,
	)

	jobRunner := jobs.NewJobRunner(bookingService, cfg)

	if *runOnce {
		jobRunner.MarkReturnsDue()
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down cronjob runner")
}
