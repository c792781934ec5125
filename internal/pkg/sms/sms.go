package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender delivers a text message to a phone number
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// WebhookConfig configures the HTTP gateway
type WebhookConfig struct {
	URL   string
	Token string
}

// WebhookSender posts messages as JSON to an SMS gateway
type WebhookSender struct {
	config     WebhookConfig
	httpClient *http.Client
}

// NewWebhookSender creates a gateway sender
func NewWebhookSender(config WebhookConfig) *WebhookSender {
	return &WebhookSender{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type webhookRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send posts {to, message} to the gateway
func (s *WebhookSender) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(webhookRequest{To: phone, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopSender logs messages instead of sending them (development)
type NoopSender struct{}

// Send logs the message
func (NoopSender) Send(ctx context.Context, phone, message string) error {
	log.Info().Str("phone", phone).Str("message", message).Msg("SMS gateway not configured, message not sent")
	return nil
}

// New returns a webhook sender when url is set, otherwise a NoopSender
func New(url, token string) Sender {
	if url == "" {
		return NoopSender{}
	}
	return NewWebhookSender(WebhookConfig{URL: url, Token: token})
}
