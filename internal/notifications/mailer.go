package notifications

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mail is a plain-text email.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers a Mail.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP server.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTPMailer builds an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender address must be configured")
	}
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// Send dials the server and delivers mail, giving up when ctx is done.
func (s *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", mail.To)
	if mail.ReplyTo != "" {
		m.SetHeader("Reply-To", mail.ReplyTo)
	}
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/plain", mail.Body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("email to %s cancelled: %w", mail.To, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", mail.To, err)
		}
		return nil
	}
}

// LogMailer writes mail to the log instead of sending it.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs mail.
func (l *LogMailer) Send(ctx context.Context, mail Mail) error {
	l.log.Info("email (not sent, SMTP disabled)",
		zap.String("to", mail.To),
		zap.String("reply_to", mail.ReplyTo),
		zap.String("subject", mail.Subject),
		zap.String("body", mail.Body))
	return nil
}
