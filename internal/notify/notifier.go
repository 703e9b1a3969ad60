// Package notify delivers messages to an IM webhook (DingTalk-compatible
// markdown messages). A notifier without a configured webhook URL is a no-op.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier sends human-facing notifications about review activity.
type Notifier interface {
	SendMarkdown(ctx context.Context, title, text string) error
}

type webhookNotifier struct {
	client     *resty.Client
	webhookURL string
	logger     *slog.Logger
}

// markdownMessage is the DingTalk-style payload the webhook expects.
type markdownMessage struct {
	MsgType  string `json:"msgtype"`
	Markdown struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"markdown"`
}

// NewWebhookNotifier creates a notifier that posts markdown messages to the
// given webhook URL. An empty URL disables notifications.
func NewWebhookNotifier(webhookURL string, logger *slog.Logger) Notifier {
	return &webhookNotifier{
		client:     resty.New().SetTimeout(10 * time.Second),
		webhookURL: webhookURL,
		logger:     logger,
	}
}

func (n *webhookNotifier) SendMarkdown(ctx context.Context, title, text string) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := markdownMessage{MsgType: "markdown"}
	msg.Markdown.Title = title
	msg.Markdown.Text = text

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(n.webhookURL)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification webhook returned %s", resp.Status())
	}

	n.logger.Debug("notification sent", "title", title)
	return nil
}
