// Email delivery: SendGrid for production, SMTP as an alternative,
// mock for development and tests

package notification

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailProvider delivers email notifications
type EmailProvider interface {
	SendEmail(ctx context.Context, msg *EmailMessage) error
}

// SendGridEmailProvider sends email through the SendGrid API
type SendGridEmailProvider struct {
	apiKey string
	from   string
}

// NewSendGridEmailProvider creates a SendGrid email provider
func NewSendGridEmailProvider(apiKey, from string) EmailProvider {
	return &SendGridEmailProvider{
		apiKey: apiKey,
		from:   from,
	}
}

func (p *SendGridEmailProvider) SendEmail(_ context.Context, msg *EmailMessage) error {
	from := mail.NewEmail("Qiran", p.from)
	to := mail.NewEmail("", msg.To)

	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")
	client := sendgrid.NewSendClient(p.apiKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// SMTPEmailProvider sends email through a plain SMTP relay
type SMTPEmailProvider struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPEmailProvider creates an SMTP email provider
func NewSMTPEmailProvider(host string, port int, username, password, from string) EmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (p *SMTPEmailProvider) SendEmail(_ context.Context, msg *EmailMessage) error {
	message := fmt.Sprintf("From: %s\r\n", p.from)
	message += fmt.Sprintf("To: %s\r\n", msg.To)
	message += fmt.Sprintf("Subject: %s\r\n", msg.Subject)
	message += "\r\n"
	message += msg.Body

	auth := smtp.PlainAuth("", p.username, p.password, p.host)
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	if err := smtp.SendMail(addr, auth, p.from, []string{msg.To}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// MockEmailProvider records emails instead of sending them
type MockEmailProvider struct {
	mu         sync.Mutex
	SentEmails []EmailMessage
}

// NewMockEmailProvider creates a mock email provider
func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{SentEmails: make([]EmailMessage, 0)}
}

func (p *MockEmailProvider) SendEmail(_ context.Context, msg *EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SentEmails = append(p.SentEmails, *msg)
	log.Printf("[mock email] to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
