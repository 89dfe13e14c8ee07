package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jonesrussell/formguard/internal/api"
	"github.com/jonesrussell/formguard/internal/config"
	"github.com/jonesrussell/formguard/internal/detection"
	"github.com/jonesrussell/formguard/internal/handler"
	"github.com/jonesrussell/formguard/internal/logger"
	"github.com/jonesrussell/formguard/internal/storage"

	_ "github.com/lib/pq"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	buf := detection.NewBuffer(cfg.Detection.BufferSize)
	correlator := detection.NewCorrelator(buf, cfg.Detection.Window())

	submissions := storage.NewSubmissionRepository(db)
	clicks := storage.NewClickRepository(db)
	whitelist := storage.NewWhitelistRepository(db)

	handlers := api.Handlers{
		Health:      handler.NewHealthHandler(cfg.Service.Version),
		Submissions: handler.NewSubmissionHandler(submissions, log),
		Clicks:      handler.NewClickHandler(clicks, buf, correlator, log),
		Stats:       handler.NewStatsHandler(submissions, log),
		Whitelist:   handler.NewWhitelistHandler(whitelist, log),
	}

	// done signals background goroutines (rate limiter) on shutdown
	done := make(chan struct{})
	defer close(done)

	router := api.NewRouter(cfg, log, handlers, done)
	server := api.NewServer(cfg.Service.Port, router, log)

	log.Info("Formguard starting",
		logger.Int("port", cfg.Service.Port),
		logger.Int("buffer_size", cfg.Detection.BufferSize),
		logger.Duration("correlation_window", cfg.Detection.Window()),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Formguard exited cleanly")
	return 0
}
