package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/review-warden/internal/storage"
)

const dateLayout = "2006-01-02"

// LogsHandler serves read access to persisted push review logs.
type LogsHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewLogsHandler creates the review log query handler.
func NewLogsHandler(store storage.Store, logger *slog.Logger) *LogsHandler {
	return &LogsHandler{store: store, logger: logger}
}

// ListPushLogs returns push review logs filtered by authors, project names
// and an inclusive date range.
func (h *LogsHandler) ListPushLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.store.ListPushReviewLogs(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list push review logs", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to query review logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs":  logs,
		"total": len(logs),
	})
}

// GetPushResult returns a single push review record by id.
func (h *LogsHandler) GetPushResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid log id")
		return
	}

	log, err := h.store.GetPushReviewLog(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Review log not found")
			return
		}
		h.logger.Error("failed to load push review log", "id", id, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to query review log")
		return
	}

	writeJSON(w, http.StatusOK, log)
}

func filterFromQuery(r *http.Request) (storage.LogFilter, error) {
	query := r.URL.Query()
	filter := storage.LogFilter{
		Authors:      query["authors"],
		ProjectNames: query["project_names"],
	}

	if raw := query.Get("start_date"); raw != "" {
		start, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", raw)
		}
		gte := start.Unix()
		filter.UpdatedAtGte = &gte
	}

	if raw := query.Get("end_date"); raw != "" {
		end, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", raw)
		}
		// Inclusive: cover the whole end day.
		lte := end.Add(24*time.Hour - time.Second).Unix()
		filter.UpdatedAtLte = &lte
	}

	return filter, nil
}
