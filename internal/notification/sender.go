package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "notification (log only)",
		"notification_id", msg.ID,
		"kind", msg.Kind,
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject)
	return nil
}

// RelaySender posts messages as JSON to a mail relay.
type RelaySender struct {
	url    string
	apiKey string
	from   string
	client *http.Client
	logger *slog.Logger
}

type relayRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	Tags    []string `json:"tags,omitempty"`
}

func NewRelaySender(cfg internal.NotificationConfig, logger *slog.Logger) *RelaySender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelaySender{
		url:    cfg.RelayURL,
		apiKey: cfg.APIKey,
		from:   cfg.Sender,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *RelaySender) Send(ctx context.Context, msg Message) error {
	payload := relayRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
		Tags:    []string{msg.Kind},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", msg.ID)
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	s.logger.Debug("notification relayed", "notification_id", msg.ID, "kind", msg.Kind)
	return nil
}

// NewSender picks the relay when a URL is configured.
func NewSender(cfg internal.NotificationConfig, logger *slog.Logger) Sender {
	if cfg.RelayURL == "" {
		return NewLogSender(logger)
	}
	return NewRelaySender(cfg, logger)
}
