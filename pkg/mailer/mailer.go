package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/cravings-app/cravings-backend/config"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"github.com/cravings-app/cravings-backend/pkg/resend"
)

// Message is one outbound HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks a transport from config: Resend when an API key is set, then SMTP, and the
// development log mailer when neither is configured.
func New(cfg config.MailConfig) (Mailer, error) {
	switch {
	case cfg.ResendAPIKey != "":
		client, err := resend.NewClient(resend.Config{
			APIKey:  cfg.ResendAPIKey,
			BaseURL: cfg.ResendBaseURL,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using Resend mail transport")
		return NewResendMailer(client), nil
	case cfg.SMTPHost != "":
		logger.Info("Using SMTP mail transport", map[string]interface{}{
			"host": cfg.SMTPHost,
			"port": cfg.SMTPPort,
		})
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword), nil
	default:
		logger.Warn("No mail transport configured, emails will be written to the log")
		return LogMailer{}, nil
	}
}

type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(client *resend.Client) *ResendMailer {
	return &ResendMailer{client: client}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	resp, err := m.client.SendEmail(ctx, resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return err
	}
	logger.Debug("Email accepted by Resend", map[string]interface{}{
		"id": resp.ID,
	})
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	sendMail sendMailFunc
}

func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sendMail: smtp.SendMail,
	}
}

// Send does not honour ctx cancellation; net/smtp has no context support.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return errors.New("header values must not contain line breaks")
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		msg.From, msg.To, msg.Subject, msg.HTML,
	))

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return m.sendMail(m.host+":"+m.port, auth, from.Address, []string{msg.To}, raw)
}

// LogMailer writes messages to the log instead of sending them. Development only.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	logger.Warn("[DEV MODE] email not sent", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.HTML,
	})
	return nil
}
