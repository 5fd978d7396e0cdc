package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"daily5/internal/logger"
)

const resendAPIURL = "https://api.resend.com/emails"

// Sender delivers a rendered digest to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendSender delivers email through the Resend HTTP API.
type ResendSender struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	from    string
}

func NewResendSender(apiKey, from string, timeout time.Duration) *ResendSender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ResendSender{
		client: &http.Client{Timeout: timeout},
		apiURL: resendAPIURL,
		apiKey: apiKey,
		from:   from,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	if s.apiKey == "" {
		return fmt.Errorf("resend API key is required, set RESEND_API_KEY")
	}

	payload, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("resend API returned %d: %s", resp.StatusCode, string(body))
	}

	logger.Info("Email delivered", "to", to, "subject", subject)
	return nil
}
