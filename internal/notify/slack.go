package notify

import (
	"context"
	"net/http"
	"time"

	"notiyou/internal/logger"

	"github.com/slack-go/slack"
)

// SlackNotifier posts plain-text messages to an incoming webhook. With no URL
// configured every message is dropped with a warning.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL, client: &http.Client{Timeout: 5 * time.Second}}
}

// Send never fails the caller; delivery problems are only logged.
func (n *SlackNotifier) Send(ctx context.Context, text string) {
	log := logger.FromContext(ctx)
	if n.webhookURL == "" {
		log.Warn("slack.skipped", "reason", "SLACK_WEBHOOK_URL is not set")
		return
	}
	err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, &slack.WebhookMessage{Text: text})
	if err != nil {
		log.Error("slack.send_failed", "err", err)
	}
}
