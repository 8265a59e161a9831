package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minglemoody/funnel-tracker/internal/analytics"
	"github.com/minglemoody/funnel-tracker/internal/api"
	"github.com/minglemoody/funnel-tracker/internal/config"
	"github.com/minglemoody/funnel-tracker/internal/geo"
	"github.com/minglemoody/funnel-tracker/internal/handler"
	"github.com/minglemoody/funnel-tracker/internal/logger"
	"github.com/minglemoody/funnel-tracker/internal/prelander"
	"github.com/minglemoody/funnel-tracker/internal/storage"

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
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
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
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", "funnel-tracker")), nil
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
	aggregates := storage.NewAggregateStore(db)
	clicks := storage.NewClickStore(db)
	prelanders := storage.NewPrelanderStore(db)
	webResults := storage.NewWebResultStore(db)
	catalog := storage.NewCatalogStore(db)
	emails := storage.NewEmailStore(db)

	timeSpent := analytics.NewTimeTracker(
		aggregates,
		cfg.Service.FlushInterval,
		cfg.Service.SessionIdleTTL,
		log,
		nil,
	)
	timeSpent.Start()
	defer timeSpent.Stop()

	tracker := analytics.NewTracker(aggregates, clicks, timeSpent, log)
	lookup := geo.NewLookup(cfg.Geo.IPLookupURL, cfg.Geo.CountryLookupURL, cfg.Geo.Timeout, log)
	resolver := prelander.NewResolver(prelanders, webResults)

	handlers := &api.Handlers{
		Health:    handler.NewHealthHandler(db, cfg.Service.Version),
		Track:     handler.NewTrackHandler(tracker, lookup),
		Funnel:    handler.NewFunnelHandler(catalog, webResults, tracker, lookup, cfg.Service.LandingFallback, log),
		Prelander: handler.NewPrelanderHandler(resolver, webResults, emails, lookup, log),
		Admin:     handler.NewAdminHandler(catalog, webResults, prelanders, aggregates, emails, log),
	}

	// done stops the rate limiter's cleanup goroutine on shutdown.
	done := make(chan struct{})
	defer close(done)

	server := api.NewServer(cfg, log, func(router *gin.Engine) {
		api.SetupRoutes(router, handlers, cfg, done)
	})

	log.Info("Funnel tracker starting",
		logger.Int("port", cfg.Service.Port),
	)

	if err := server.Run(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Funnel tracker exited cleanly")
	return 0
}
