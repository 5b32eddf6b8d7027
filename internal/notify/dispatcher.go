// ABOUTME: Dispatcher validates an alert email request, renders it, and sends exactly one email.
// ABOUTME: Stateless per call — concurrent dispatches share nothing and need no coordination.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rudrakshi123/smartstock/internal/alert"
)

// ErrMissingFields is returned when the request lacks a recipient email or
// has an empty alert list. No send is attempted.
var ErrMissingFields = errors.New("missing required fields: recipientEmail and alerts")

// defaultRecipientName is substituted when the caller supplies no name.
// Defaulting happens here, at the dispatch boundary — the renderer is given
// the already-defaulted value and applies none of its own.
const defaultRecipientName = "Manager"

// AlertEmailRequest is one dispatch call's payload.
type AlertEmailRequest struct {
	RecipientEmail string               `json:"recipientEmail"`
	RecipientName  string               `json:"recipientName"`
	Alerts         []alert.LowStockItem `json:"alerts"`
}

// Dispatcher validates, renders, and sends low-stock alert emails through a
// provider. It holds no state across calls.
type Dispatcher struct {
	mailer Mailer
	from   string
}

// NewDispatcher creates a Dispatcher sending through mailer with the fixed
// sender identity from.
func NewDispatcher(mailer Mailer, from string) *Dispatcher {
	return &Dispatcher{mailer: mailer, from: from}
}

// Dispatch validates req, renders the alert email, and submits it to the
// provider. Returns the raw provider response on success. Validation
// failures return ErrMissingFields before any provider call; render and
// provider failures are wrapped and returned. Exactly one provider call is
// made per successful validation, synchronously, with no retry.
func (d *Dispatcher) Dispatch(ctx context.Context, req AlertEmailRequest) (json.RawMessage, error) {
	if req.RecipientEmail == "" || len(req.Alerts) == 0 {
		return nil, ErrMissingFields
	}

	name := req.RecipientName
	if name == "" {
		name = defaultRecipientName
	}

	subject, html, text, err := RenderLowStock(name, req.Alerts)
	if err != nil {
		return nil, fmt.Errorf("render alert email: %w", err)
	}

	slog.InfoContext(ctx, "sending low stock alert email",
		"recipient", req.RecipientEmail,
		"alerts", len(req.Alerts),
	)

	resp, err := d.mailer.Send(ctx, Message{
		From:    d.from,
		To:      req.RecipientEmail,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return nil, fmt.Errorf("send alert email: %w", err)
	}
	return resp, nil
}
