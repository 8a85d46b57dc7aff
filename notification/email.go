package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// EmailConfig holds the configuration for all email providers.
type EmailConfig struct {
	Provider string // "log", "smtp", "sendgrid" or "mailgun"

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	From         string

	SendGridKey   string
	MailgunKey    string
	MailgunDomain string
}

// NewEmailSender returns the Email channel selected by the configuration.
func NewEmailSender(cfg EmailConfig, log *logrus.Logger) (Email, error) {
	switch cfg.Provider {
	case "", "log":
		return &LogEmail{log: log}, nil
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
			return nil, errors.New("incomplete SMTP configuration")
		}
		return &SMTPEmail{cfg: cfg}, nil
	case "sendgrid":
		if cfg.SendGridKey == "" || cfg.From == "" {
			return nil, errors.New("incomplete SendGrid configuration")
		}
		return &SendGridEmail{cfg: cfg}, nil
	case "mailgun":
		if cfg.MailgunKey == "" || cfg.MailgunDomain == "" || cfg.From == "" {
			return nil, errors.New("incomplete Mailgun configuration")
		}
		return &MailgunEmail{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// LogEmail is the default stub channel: it records the dispatch without
// delivering anything, keeping the interface boundary in place for a
// real provider.
type LogEmail struct {
	log *logrus.Logger
}

func (e *LogEmail) Send(address, subject, body string) error {
	e.log.WithFields(logrus.Fields{
		"to":      address,
		"subject": subject,
	}).Info("email notification (not delivered, log provider)")
	return nil
}

// SMTPEmail delivers through a plain SMTP relay.
type SMTPEmail struct {
	cfg EmailConfig
}

func (e *SMTPEmail) Send(address, subject, body string) error {
	addr := e.cfg.SMTPHost + ":" + e.cfg.SMTPPort
	auth := smtp.PlainAuth("", e.cfg.SMTPUsername, e.cfg.SMTPPassword, e.cfg.SMTPHost)

	from := e.cfg.From
	if from == "" {
		from = e.cfg.SMTPUsername
	}
	message := "From: " + from + "\n" +
		"To: " + address + "\n" +
		"Subject: " + subject + "\n\n" +
		body

	if err := smtp.SendMail(addr, auth, from, []string{address}, []byte(message)); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	return nil
}

// SendGridEmail delivers through the SendGrid API.
type SendGridEmail struct {
	cfg EmailConfig
}

func (e *SendGridEmail) Send(address, subject, body string) error {
	from := mail.NewEmail("Planner", e.cfg.From)
	to := mail.NewEmail("", address)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(e.cfg.SendGridKey)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode != 202 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}

// MailgunEmail delivers through the Mailgun API.
type MailgunEmail struct {
	cfg EmailConfig
}

func (e *MailgunEmail) Send(address, subject, body string) error {
	mg := mailgun.NewMailgun(e.cfg.MailgunDomain, e.cfg.MailgunKey)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	message := mg.NewMessage(e.cfg.From, subject, body, address)
	_, _, err := mg.Send(ctx, message)
	return err
}
