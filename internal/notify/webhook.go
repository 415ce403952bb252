package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// errWebhookStatus is returned for non-2xx webhook responses.
var errWebhookStatus = errors.New("webhook rejected message")

// webhookPayload is the chat webhook body.
type webhookPayload struct {
	Content string `json:"content"`
}

// Webhook posts messages to a chat webhook URL.
type Webhook struct {
	url  string
	http *http.Client
}

// NewWebhook creates a webhook sink. A non-positive timeout means no timeout.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	client := new(http.Client)
	if timeout > 0 {
		client.Timeout = timeout
	}

	return &Webhook{
		url:  url,
		http: client,
	}
}

// Notify implements Notifier.
func (w *Webhook) Notify(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	_ = resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s", errWebhookStatus, resp.Status)
	}

	return nil
}
