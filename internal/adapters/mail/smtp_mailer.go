package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/middleware"
)

// SMTPConfig holds the relay settings for SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     Sender
	AppURL   string
}

// SMTPMailer delivers the welcome email over SMTP with STARTTLS when offered.
type SMTPMailer struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
}

var _ portssvc.Notifier = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, dialTimeout: 8 * time.Second}
}

func (m *SMTPMailer) Notify(ctx context.Context, n domain.WelcomeNotification) error {
	if m.cfg.Host == "" {
		return errors.New("smtp host is not configured")
	}
	msg, err := BuildWelcomeMessage(m.cfg.From, n, m.cfg.AppURL)
	if err != nil {
		return err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	logger.Info("Sending welcome email", slog.String("to", n.Email), slog.String("via", addr))

	if err := m.send(ctx, addr, n.Email, msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	logger.Info("Welcome email sent", slog.String("to", n.Email))
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, addr string, to string, msg []byte) error {
	dialer := net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(15 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(m.cfg.From.Address); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
