// Command dispatcher runs the notification outbox drain loop as its own
// process, so delivery can be scaled and restarted independently of the
// API server. Running more than one dispatcher against the same
// database is safe as long as the transport deduplicates by intent id.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"talenttrack-backend/internal/config"
	"talenttrack-backend/internal/database"
	"talenttrack-backend/internal/logger"
	"talenttrack-backend/internal/outbox"
	"talenttrack-backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
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

	st := store.New(db)

	transport, closeTransport, err := initTransport(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize transport: %w", err)
	}
	defer closeTransport()

	dispatcher := outbox.NewDispatcher(st, transport, cfg.Dispatcher.DrainInterval, cfg.Dispatcher.BatchSize, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Notification dispatcher is running",
		slog.Duration("drain_interval", cfg.Dispatcher.DrainInterval),
		slog.Int("batch_size", cfg.Dispatcher.BatchSize))

	dispatcher.Run(ctx)

	appLogger.Info("Dispatcher shutdown complete")
	return nil
}

// initTransport picks the delivery backend: RabbitMQ when a broker URL
// is configured, structured log output otherwise.
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
