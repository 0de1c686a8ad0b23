package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"talenttrack-backend/internal/config"
	"talenttrack-backend/internal/database"
	"talenttrack-backend/internal/lifecycle"
	"talenttrack-backend/internal/logger"
	"talenttrack-backend/internal/outbox"
	"talenttrack-backend/internal/server"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/upload"
	"talenttrack-backend/internal/watch"
)

// @title TalentTrack API
// @version 1.0
// @description Job application tracking backend: listings, applications, live views and the notification outbox.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("TALENTTRACK_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger := logger.New(&cfg.Logging)

	db, err := database.GetMainDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	st := store.New(db)

	storage, closeStorage, err := initStorage(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment storage: %w", err)
	}
	defer closeStorage()

	svc := lifecycle.NewService(st, storage, upload.RulesFromConfig(cfg.Attachments), appLogger)

	sync := watch.New(st, appLogger)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go sync.Run(workerCtx)

	transport, closeTransport, err := initTransport(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize transport: %w", err)
	}
	defer closeTransport()
	dispatcher := outbox.NewDispatcher(st, transport, cfg.Dispatcher.DrainInterval, cfg.Dispatcher.BatchSize, appLogger)
	go dispatcher.Run(workerCtx)

	srv := server.New(cfg, db, st, svc, sync, storage, appLogger).HTTPServer()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	appLogger.Info("TalentTrack API is running", slog.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initTransport picks the delivery backend: RabbitMQ when a broker URL
// is configured, structured log output otherwise. cmd/dispatcher runs
// the same drain loop standalone when delivery needs its own process.
func initTransport(cfg *config.Config, appLogger *slog.Logger) (outbox.Transport, func(), error) {
	if cfg.AMQP.URL == "" {
		appLogger.Warn("No AMQP url configured, logging notifications instead of delivering them")
		return &outbox.LogTransport{Logger: appLogger}, func() {}, nil
	}

	amqp, err := outbox.NewAMQPTransport(cfg.AMQP, appLogger)
	if err != nil {
		return nil, nil, err
	}
	return amqp, func() { _ = amqp.Close() }, nil
}

// initStorage picks the attachment backend: GCS when a bucket is
// configured, process memory otherwise.
func initStorage(cfg *config.Config, appLogger *slog.Logger) (upload.Storage, func(), error) {
	if cfg.Upload.Bucket == "" {
		appLogger.Warn("No upload bucket configured, keeping attachments in memory")
		return upload.NewMemoryStorage(), func() {}, nil
	}

	cloud, err := upload.NewCloudStorage(context.Background(), cfg.Upload.Bucket)
	if err != nil {
		return nil, nil, err
	}
	return cloud, func() { _ = cloud.Close() }, nil
}
