package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrNotConfigured = errors.New("email service is not configured")
	ErrNoRecipients  = errors.New("email has no recipients")
)

// Sender delivers a single message. Implementations must honor ctx deadlines.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the relay settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SMTPSender handles sending emails via an SMTP relay
type SMTPSender struct {
	cfg    SMTPConfig
	dialer *net.Dialer
	now    func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: &net.Dialer{},
		now:    time.Now,
	}
}

// IsConfigured checks if the sender has a relay to talk to
func (s *SMTPSender) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Port != ""
}

// Send opens one SMTP session per message. Port 465 uses implicit TLS; other
// ports upgrade with STARTTLS when the server offers it.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	recipients := msg.Recipients()
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	raw, err := msg.Bytes(s.now())
	if err != nil {
		return err
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer c.Close()

	if s.cfg.Port != "465" {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(s.tlsConfig()); err != nil {
				return fmt.Errorf("failed to start tls: %w", err)
			}
		}
	}

	if s.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}
		}
	}

	if err := c.Mail(msg.From.Email); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to open data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return c.Quit()
}

func (s *SMTPSender) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if s.cfg.Port == "465" {
		d := &tls.Dialer{NetDialer: s.dialer, Config: s.tlsConfig()}
		return d.DialContext(ctx, "tcp", addr)
	}
	return s.dialer.DialContext(ctx, "tcp", addr)
}

func (s *SMTPSender) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName: s.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
}

// LogSender writes messages to the log instead of sending them. Used when
// MAIL_DRIVER=log in development.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if len(msg.Recipients()) == 0 {
		return ErrNoRecipients
	}
	s.log.Info().
		Str("from", msg.From.Email).
		Strs("recipients", msg.Recipients()).
		Str("reply_to", msg.ReplyTo).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("[EMAIL] message would be sent")
	return nil
}
