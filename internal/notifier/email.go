package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/logstackhq/logstack/internal/models"
)

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	Host     string // SMTP server host
	Port     int    // SMTP server port (465 for implicit TLS, 587 for STARTTLS)
	Username string // SMTP username (optional)
	Password string // SMTP password (optional)
	From     string // From address
}

// Validate validates the email configuration.
func (c *EmailConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("SMTP port is required")
	}
	if c.From == "" {
		return fmt.Errorf("from address is required")
	}
	return nil
}

// EmailNotifier sends alert notifications to the email snapshotted on
// the alert.
type EmailNotifier struct {
	config EmailConfig
}

// NewEmailNotifier creates a new email notifier.
func NewEmailNotifier(config EmailConfig) (*EmailNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}
	return &EmailNotifier{config: config}, nil
}

// Name returns "email".
func (e *EmailNotifier) Name() string {
	return "email"
}

// Send delivers the alert to the alert's snapshot email address.
func (e *EmailNotifier) Send(ctx context.Context, alert *models.Alert, entry *models.LogEntry) error {
	if alert.Email == "" {
		return fmt.Errorf("alert %s has no destination email", alert.ID)
	}

	subject := fmt.Sprintf("[%s] LogStack alert: %s", strings.ToUpper(string(entry.Level)), alert.TriggerName)
	body := e.buildBody(alert, entry)
	msg := e.buildMessage(alert.Email, subject, body)

	return e.sendMail(ctx, alert.Email, msg)
}

// Close is a no-op for the email notifier.
func (e *EmailNotifier) Close() error {
	return nil
}

func (e *EmailNotifier) buildBody(alert *models.Alert, entry *models.LogEntry) string {
	var b strings.Builder
	b.WriteString(alert.Message)
	b.WriteString("\r\n\r\n")
	fmt.Fprintf(&b, "Trigger:     %s\r\n", alert.TriggerName)
	fmt.Fprintf(&b, "Log:         %s\r\n", entry.Title)
	fmt.Fprintf(&b, "Application: %s\r\n", entry.AppName)
	fmt.Fprintf(&b, "Host:        %s (%s)\r\n", entry.Host, entry.IP)
	fmt.Fprintf(&b, "Environment: %s\r\n", entry.Environment)
	fmt.Fprintf(&b, "Level:       %s\r\n", entry.Level)
	fmt.Fprintf(&b, "Received:    %s\r\n", entry.CreatedAt.Format(time.RFC3339))
	return b.String()
}

func (e *EmailNotifier) buildMessage(to, subject, body string) []byte {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")
	return []byte(msg.String())
}

// sendMail sends the message via SMTP, using implicit TLS on port 465
// and STARTTLS otherwise.
func (e *EmailNotifier) sendMail(ctx context.Context, rcpt string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)
	tlsConfig := &tls.Config{ServerName: e.config.Host}

	var client *smtp.Client
	var err error
	if e.config.Port == 465 {
		client, err = e.connectImplicitTLS(ctx, addr, tlsConfig)
	} else {
		client, err = e.connectSTARTTLS(ctx, addr, tlsConfig)
	}
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Close()

	if e.config.Username != "" && e.config.Password != "" {
		auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(e.config.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(rcpt); err != nil {
		return fmt.Errorf("add recipient %s: %w", rcpt, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("start data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return client.Quit()
}

func (e *EmailNotifier) connectImplicitTLS(ctx context.Context, addr string, tlsConfig *tls.Config) (*smtp.Client, error) {
	dialer := &tls.Dialer{Config: tlsConfig}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return smtp.NewClient(conn, e.config.Host)
}

func (e *EmailNotifier) connectSTARTTLS(ctx context.Context, addr string, tlsConfig *tls.Config) (*smtp.Client, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	client, err := smtp.NewClient(conn, e.config.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, err
		}
	}

	return client, nil
}
