// ABOUTME: SMTP email delivery using go-mail. Dial-per-send for sporadic alert traffic.
// ABOUTME: Alternative Mailer for deployments that front their own relay instead of Resend.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters sourced from global env vars.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
	TLS      bool
}

// SMTPMailer sends multipart HTML+plaintext email over SMTP.
// Uses DialAndSend (dial-per-send) — no persistent SMTP connection.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an SMTPMailer with the given connection parameters.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers msg via SMTP. SMTP has no provider response document, so a
// minimal {"id": <message-id>} payload is synthesized for the API response.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (json.RawMessage, error) {
	em := mail.NewMsg()
	if err := em.FromFormat("SmartStock", m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp: set from: %w", err)
	}
	if err := em.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp: set to: %w", err)
	}
	messageID := uuid.NewString()
	em.SetMessageIDWithValue(messageID)
	em.Subject(sanitizeSubject(msg.Subject))
	em.SetBodyString(mail.TypeTextPlain, msg.Text)
	em.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
	}
	if m.cfg.Username != "" {
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthPlain))
		opts = append(opts, mail.WithUsername(m.cfg.Username))
		opts = append(opts, mail.WithPassword(m.cfg.Password))
	}
	if m.cfg.TLS {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	c, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: create client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, em); err != nil {
		return nil, fmt.Errorf("smtp: send: %w", err)
	}

	resp, err := json.Marshal(map[string]string{"id": messageID})
	if err != nil {
		return nil, fmt.Errorf("smtp: marshal response: %w", err)
	}
	return resp, nil
}
