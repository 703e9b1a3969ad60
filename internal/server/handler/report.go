package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sevigo/review-warden/internal/report"
)

// ReportHandler triggers the daily report on demand.
type ReportHandler struct {
	service *report.Service
	logger  *slog.Logger
}

// NewReportHandler creates the on-demand report handler.
func NewReportHandler(service *report.Service, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

// DailyReport generates and delivers today's report, returning its text.
func (h *ReportHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.DailyReport(r.Context())
	if err != nil {
		if errors.Is(err, report.ErrNoData) {
			writeMessage(w, http.StatusOK, "No data to process.")
			return
		}
		h.logger.Error("daily report failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate daily report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"report": text})
}
