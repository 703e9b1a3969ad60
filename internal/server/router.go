package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/review-warden/internal/core"
	"github.com/sevigo/review-warden/internal/report"
	"github.com/sevigo/review-warden/internal/server/handler"
	"github.com/sevigo/review-warden/internal/storage"
	"github.com/sevigo/review-warden/internal/webhook"
)

// NewRouter creates and configures the HTTP router with middleware and routes.
func NewRouter(
	resolver *webhook.CredentialResolver,
	dispatcher core.TaskDispatcher,
	store storage.Store,
	reportSvc *report.Service,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	webhookHandler := handler.NewWebhookHandler(resolver, dispatcher, logger)
	r.Post("/review/webhook", webhookHandler.Handle)

	reportHandler := handler.NewReportHandler(reportSvc, logger)
	r.Get("/review/daily_report", reportHandler.DailyReport)

	logsHandler := handler.NewLogsHandler(store, logger)
	r.Route("/api/review", func(r chi.Router) {
		r.Get("/push_logs", logsHandler.ListPushLogs)
		r.Get("/push_result/{id}", logsHandler.GetPushResult)
	})

	return r
}
