package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail/v2"
	"github.com/rs/zerolog"
)

// Config contains the SMTP relay settings.
type Config struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// Mailer sends HTML email through an SMTP relay using STARTTLS.
type Mailer struct {
	dialer *mail.Dialer
	from   string
	logger zerolog.Logger
}

// New constructs a mailer. Host and From are required.
func New(cfg Config, logger zerolog.Logger) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("smtp host and from address must be provided")
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	dialer := mail.NewDialer(cfg.Host, port, cfg.User, cfg.Pass)
	dialer.StartTLSPolicy = mail.MandatoryStartTLS
	dialer.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify, // #nosec G402 -- opt-in for local relays
	}

	return &Mailer{
		dialer: dialer,
		from:   cfg.From,
		logger: logger.With().Str("component", "mailer").Logger(),
	}, nil
}

// Send delivers an HTML message to the recipients. An empty recipient list is a no-op.
func (m *Mailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", to...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug().Int("recipients", len(to)).Str("subject", subject).Msg("email sent")
	return nil
}
