package worker

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/domain"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Signature"

// Sender delivers one notification. An error schedules a retry.
type Sender interface {
	Send(ctx context.Context, job domain.NotificationJob) error
}

// webhookMessage is the JSON body posted to the notification webhook.
type webhookMessage struct {
	ID        string                  `json:"id"`
	Kind      domain.NotificationKind `json:"kind"`
	Recipient string                  `json:"recipient"`
	Payload   json.RawMessage         `json:"payload"`
	CreatedAt time.Time               `json:"createdAt"`
}

// WebhookSender posts notifications as signed JSON to a single endpoint.
type WebhookSender struct {
	url    string
	secret []byte
	client *http.Client
}

// NewWebhookSender creates a sender for url. Requests are signed when secret is not empty.
func NewWebhookSender(url, secret string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSender{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSender) Send(ctx context.Context, job domain.NotificationJob) error {
	body, err := json.Marshal(webhookMessage{
		ID:        job.JobID,
		Kind:      job.Kind,
		Recipient: job.Recipient,
		Payload:   job.Payload,
		CreatedAt: job.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mobile-banking-api/notifier")
	if len(s.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(s.secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// LogSender writes notifications to the log. Used when no webhook is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, job domain.NotificationJob) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification delivered to log",
		slog.String("job_id", job.JobID),
		slog.String("kind", string(job.Kind)),
		slog.String("recipient", job.Recipient),
	)
	return nil
}
