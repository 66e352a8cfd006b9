// Package notify sends parent alert emails on behalf of a mentor. Mail
// goes out through the mentor's own mailbox: each authenticated mentor
// stores an SMTP app password, so replies land with the mentor rather
// than a shared system address.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/logger"
)

// namePlaceholder in a message body is replaced per recipient.
const namePlaceholder = "{name}"

// Credentials identify the sending mentor mailbox.
type Credentials struct {
	Email    string
	Password string
}

// Recipient is one parent mailbox plus the student name substituted into
// the message body.
type Recipient struct {
	StudentName string
	Email       string
}

// Config holds SMTP server settings.
type Config struct {
	// Host is the SMTP server hostname.
	Host string

	// Port is the SMTP SSL port. Gmail uses 465.
	Port int
}

// DefaultConfig returns Gmail SMTP settings.
func DefaultConfig() Config {
	return Config{
		Host: "smtp.gmail.com",
		Port: 465,
	}
}

// SMTPMailer sends mail over an implicit-TLS SMTP connection.
type SMTPMailer struct {
	config Config
	logger *logger.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP server.
func NewSMTPMailer(cfg Config, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: cfg,
		logger: log.With(logger.Component("mailer")),
	}
}

// Send delivers one message per recipient over a single SMTP session,
// substituting each student's name into the body. It returns the number
// of messages delivered; a mid-batch failure reports the count so far.
func (m *SMTPMailer) Send(ctx context.Context, creds Credentials, subject, body string, recipients []Recipient) (int, error) {
	if creds.Email == "" || creds.Password == "" {
		return 0, shared.ErrNoMailCredentials
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	dialer := &net.Dialer{}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: m.config.Host})
	if err != nil {
		return 0, shared.WrapError("notify", "Send", shared.ErrExternalService,
			"smtp dial", err)
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return 0, shared.WrapError("notify", "Send", shared.ErrExternalService,
			"smtp handshake", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", creds.Email, creds.Password, m.config.Host)
	if err := client.Auth(auth); err != nil {
		return 0, shared.WrapError("notify", "Send", shared.ErrUnauthorized,
			"smtp login", err)
	}

	sent := 0
	for _, rcpt := range recipients {
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		default:
		}

		if err := m.sendOne(client, creds.Email, subject, body, rcpt); err != nil {
			return sent, shared.WrapError("notify", "Send", shared.ErrExternalService,
				fmt.Sprintf("recipient %s", rcpt.Email), err)
		}
		sent++

		m.logger.Info("alert email sent",
			logger.String("to", rcpt.Email),
			logger.String("student", rcpt.StudentName),
		)
	}

	if err := client.Quit(); err != nil {
		m.logger.Warn("smtp quit failed", logger.Err(err))
	}

	return sent, nil
}

func (m *SMTPMailer) sendOne(client *smtp.Client, from, subject, body string, rcpt Recipient) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(rcpt.Email); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	personalized := strings.ReplaceAll(body, namePlaceholder, rcpt.StudentName)
	msg := buildMessage(from, rcpt.Email, subject, personalized)

	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// buildMessage assembles an RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}
