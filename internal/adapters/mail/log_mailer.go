package mail

import (
	"context"
	"log/slog"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/middleware"
)

// LogMailer renders the welcome email and logs it instead of sending. Used in development.
type LogMailer struct {
	from   Sender
	appURL string
}

var _ portssvc.Notifier = (*LogMailer)(nil)

func NewLogMailer(from Sender, appURL string) *LogMailer {
	return &LogMailer{from: from, appURL: appURL}
}

func (m *LogMailer) Notify(ctx context.Context, n domain.WelcomeNotification) error {
	msg, err := BuildWelcomeMessage(m.from, n, m.appURL)
	if err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Welcome email (log transport)",
		slog.String("to", n.Email),
		slog.String("subject", WelcomeSubject),
		slog.Int("bytes", len(msg)),
	)
	return nil
}
