// Package app initializes and orchestrates the main components of the
// Review-Warden application. It wires together the configuration, storage,
// LLM reviewer, dispatcher, report scheduler, and HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/review-warden/internal/config"
	"github.com/sevigo/review-warden/internal/core"
	"github.com/sevigo/review-warden/internal/db"
	"github.com/sevigo/review-warden/internal/jobs"
	"github.com/sevigo/review-warden/internal/llm"
	"github.com/sevigo/review-warden/internal/notify"
	"github.com/sevigo/review-warden/internal/report"
	"github.com/sevigo/review-warden/internal/server"
	"github.com/sevigo/review-warden/internal/storage"
	"github.com/sevigo/review-warden/internal/webhook"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher core.TaskDispatcher
	scheduler  *report.Scheduler
	dbConn     *db.DB
	logger     *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing Review Warden application",
		"llm_model", cfg.LLM.Model,
		"max_workers", cfg.MaxWorkers,
		"queue_size", cfg.QueueSize,
		"queue_full_policy", cfg.QueueFullPolicy)

	dbConn, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := dbConn.RunMigrations(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	store := storage.NewStore(dbConn.DB)

	reviewer, err := llm.NewReviewer(cfg, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to create reviewer: %w", err)
	}

	notifier := notify.NewWebhookNotifier(cfg.NotifyWebhookURL, logger)

	reviewJob := jobs.NewReviewJob(reviewer, store, notifier, logger)
	dispatcher := jobs.NewDispatcher(reviewJob, cfg.MaxWorkers, cfg.QueueSize, cfg.QueueFullPolicy, logger)

	reportSvc := report.NewService(store, reviewer, notifier, cfg.PushReviewEnabled, logger)
	scheduler, err := report.NewScheduler(reportSvc, cfg.ReportCrontab, logger)
	if err != nil {
		dispatcher.Stop()
		_ = dbConn.Close()
		return nil, err
	}

	resolver := webhook.NewCredentialResolver(cfg)
	router := server.NewRouter(resolver, dispatcher, store, reportSvc, logger)
	httpServer := server.NewServer(cfg.ServerPort, router, logger)

	logger.Info("Review Warden application initialized successfully")
	return &App{
		cfg:        cfg,
		server:     httpServer,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		dbConn:     dbConn,
		logger:     logger,
	}, nil
}

// Start runs the report scheduler and the HTTP server. It blocks until the
// server stops.
func (a *App) Start() error {
	a.logger.Info("starting Review Warden",
		"server_port", a.cfg.ServerPort,
		"report_crontab", a.cfg.ReportCrontab)

	a.scheduler.Start()

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down Review Warden services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the dispatcher, allowing in-flight review tasks to finish.
	a.dispatcher.Stop()

	a.scheduler.Stop()

	a.logger.Info("closing database connection")
	if err := a.dbConn.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}

	if serverErr != nil {
		return serverErr
	}

	a.logger.Info("Review Warden stopped successfully")
	return nil
}
