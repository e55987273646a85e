package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"evote-api/internal/domain"
	"evote-api/pkg/logger"
)

// WebhookNotifier delivers ballot confirmations to the external notification
// sender over HTTP. Delivery is best-effort: callers dispatch it off the
// request path and never fail a submission on a send error.
type WebhookNotifier struct {
	webhookURL string
	authToken  string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewWebhookNotifier creates a webhook-backed notifier. An empty URL yields a
// notifier that drops payloads, for environments without a sender configured.
func NewWebhookNotifier(webhookURL, authToken string, logger *logger.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		authToken:  authToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SendBallotConfirmation posts the confirmation payload to the sender
func (n *WebhookNotifier) SendBallotConfirmation(ctx context.Context, confirmation *domain.BallotConfirmation) error {
	if n.webhookURL == "" {
		n.logger.Debug("Notification webhook not configured, dropping confirmation")
		return nil
	}

	jsonBody, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if n.authToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", n.authToken))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notification sender: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if readErr != nil {
			return fmt.Errorf("notification sender returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("notification sender returned status %d: %s", resp.StatusCode, string(body))
	}

	n.logger.WithField("election", confirmation.ElectionTitle).Debug("Ballot confirmation dispatched")
	return nil
}
