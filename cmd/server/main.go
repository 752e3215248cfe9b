package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/khonsulabs/projects/internal/api"
	"github.com/khonsulabs/projects/internal/config"
	"github.com/khonsulabs/projects/internal/db"
	"github.com/khonsulabs/projects/internal/digest"
	"github.com/khonsulabs/projects/internal/github"
	"github.com/khonsulabs/projects/internal/ingest"
	"github.com/khonsulabs/projects/internal/projects"

	_ "github.com/khonsulabs/projects/docs"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate minimum required config
	if cfg.DBConnectionString == "" || cfg.GitHubToken == "" {
		logger.Fatal("Missing required configuration (DB_CONNECTION_STRING and GITHUB_TOKEN must be set)")
	}

	// Initialize database
	store, err := db.NewPostgresStore(cfg.DBConnectionString)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations with retry logic
	if err := retry(3, 5*time.Second, func() error {
		return store.Migrate()
	}); err != nil {
		logger.Fatalf("Failed to run migrations after retries: %v", err)
	}

	// Load the project registry for the rendering layer
	registry, err := projects.Load(cfg.ProjectsFile)
	if err != nil {
		logger.Fatalf("Failed to load project registry: %v", err)
	}

	// Initialize services
	feedClient := github.NewClient(cfg.GitHubToken, cfg.GitHubOrg, logger,
		github.WithTimeout(cfg.FetchTimeout))
	ingestService := ingest.NewService(feedClient, store, cfg.PollInterval, logger)
	digestBuilder := digest.NewBuilder(store, cfg.ForkedRepositories, cfg.ContributorEmails,
		cfg.DigestWindowDays, logger)
	handler := api.NewHandler(digestBuilder, registry, logger)

	router := api.SetupRouter(handler, cfg.WebDir)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Start the background ingestion loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ingestService.Run(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf("Closing store failed: %v", err)
	}
	logger.Info("Server exited properly")
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
