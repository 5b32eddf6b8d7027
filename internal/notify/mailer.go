// ABOUTME: Mailer abstraction over transactional-email providers.
// ABOUTME: The Dispatcher sees one Send call; Resend (HTTP API) and SMTP implementations live beside it.
package notify

import (
	"context"
	"encoding/json"
)

// Message is a single outbound email. From is the fixed, configured sender
// identity; To is the one recipient of this dispatch.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer submits a message to a transactional-email provider and returns the
// provider's raw response payload. One call, one attempt — retries are the
// caller's policy, and no caller here has one.
type Mailer interface {
	Send(ctx context.Context, msg Message) (json.RawMessage, error)
}
