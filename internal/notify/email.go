package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers outbound notification email.
type EmailSender interface {
	Enabled() bool
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

// SendgridSender sends through the SendGrid API.
type SendgridSender struct {
	apiKey    string
	fromEmail string
}

// NewSendgridSender builds the sender; an empty API key disables sending.
func NewSendgridSender(apiKey, fromEmail string) *SendgridSender {
	return &SendgridSender{apiKey: apiKey, fromEmail: fromEmail}
}

// Enabled reports whether outbound email is configured.
func (s *SendgridSender) Enabled() bool {
	return s.apiKey != ""
}

// Send delivers a single plain-text email.
func (s *SendgridSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	if !s.Enabled() {
		return nil
	}
	from := mail.NewEmail("JanSankalp", s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
