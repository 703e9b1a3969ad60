package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/sevigo/review-warden/internal/core"
	"github.com/sevigo/review-warden/internal/webhook"
)

// WebhookHandler accepts GitLab and GitHub webhook deliveries on a single
// endpoint, normalizes them, resolves per-instance credentials, and hands
// the task to the dispatcher. The HTTP response only acknowledges intake;
// the review itself runs asynchronously.
type WebhookHandler struct {
	resolver   *webhook.CredentialResolver
	dispatcher core.TaskDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates the intake handler.
func NewWebhookHandler(resolver *webhook.CredentialResolver, dispatcher core.TaskDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes a webhook delivery.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !isJSONRequest(r) {
		writeMessage(w, http.StatusBadRequest, "Invalid data format")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		writeMessage(w, http.StatusBadRequest, "Invalid data format")
		return
	}

	event, err := webhook.Normalize(r.Header, body)
	if err != nil {
		h.respondNormalizeError(w, err)
		return
	}

	creds, err := h.resolver.Resolve(event, r.Header)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	task := &core.ReviewTask{Event: event, Creds: creds}
	if err := h.dispatcher.Dispatch(r.Context(), task); err != nil {
		h.logger.Error("failed to dispatch review task",
			"vendor", event.Vendor, "kind", event.Kind, "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "Server is busy, please retry later")
		return
	}

	h.logger.Info("review task dispatched",
		"vendor", event.Vendor, "kind", event.Kind, "instance", creds.URLSlug)
	writeMessage(w, http.StatusOK, ackMessage(event))
}

func (h *WebhookHandler) respondNormalizeError(w http.ResponseWriter, err error) {
	var unsupported *webhook.UnsupportedEventError
	switch {
	case errors.Is(err, webhook.ErrInvalidJSON):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
	case errors.As(err, &unsupported):
		writeJSON(w, http.StatusBadRequest, unsupported.Error())
	default:
		writeMessage(w, http.StatusBadRequest, err.Error())
	}
}

// ackMessage preserves the exact acknowledgement wording clients key on.
func ackMessage(event *core.Event) string {
	if event.Vendor == core.VendorGitHub {
		return fmt.Sprintf("GitHub request received(event_type=%s), will process asynchronously.", event.Kind)
	}
	return fmt.Sprintf("Request received(object_kind=%s), will process asynchronously.", event.Kind)
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
