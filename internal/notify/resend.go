// ABOUTME: Resend transactional-email API client (https://resend.com).
// ABOUTME: One POST /emails per Send; a missing API key fails at send time, not at startup.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendBaseURL = "https://api.resend.com"

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewResendMailer creates a ResendMailer. An empty apiKey is accepted here;
// Send reports it as a provider-level error so validation failures and
// credential failures stay distinguishable.
func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{
		apiKey:  apiKey,
		baseURL: resendBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// resendRequest is the POST /emails body.
type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// resendError is the error envelope Resend returns on non-2xx responses.
type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send submits msg to Resend and returns the raw response JSON.
func (m *ResendMailer) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	if m.apiKey == "" {
		return nil, errors.New("resend: RESEND_API_KEY is not configured")
	}

	body, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("resend: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("resend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resend: POST /emails: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	// Response bodies are small JSON documents; cap the read anyway.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("resend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr resendError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("resend: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("resend: unexpected status %d", resp.StatusCode)
	}

	return json.RawMessage(respBody), nil
}
