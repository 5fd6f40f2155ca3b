package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/metrics"
)

var errNoNotifier = errors.New("no notifier configured")

type notificationService struct {
	BaseService
	notifier  portssvc.Notifier
	transport string
	timeout   time.Duration
}

// NewNotificationService wraps a transport. transport is only used as a metrics label.
func NewNotificationService(notifier portssvc.Notifier, transport string, timeout time.Duration, recorder metrics.Recorder) portssvc.NotificationSvc {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &notificationService{
		BaseService: newBaseService(recorder),
		notifier:    notifier,
		transport:   transport,
		timeout:     timeout,
	}
}

// SendWelcome waits for the transport so the outcome can be logged and reported,
// but the caller's cancellation does not abort the dispatch.
func (s *notificationService) SendWelcome(ctx context.Context, n domain.WelcomeNotification) domain.NotificationResult {
	if s.notifier == nil {
		return domain.NotificationResult{Sent: false, Err: errNoNotifier}
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	err := s.notifier.Notify(nctx, n)
	s.Metrics.RecordNotification(s.transport, err == nil)
	if err != nil {
		s.LogWarn(ctx, "Welcome notification failed",
			slog.String("user_id", n.UserID),
			slog.String("transport", s.transport),
			slog.String("error", err.Error()))
		return domain.NotificationResult{Sent: false, Err: err}
	}

	s.LogInfo(ctx, "Welcome notification dispatched",
		slog.String("user_id", n.UserID),
		slog.String("transport", s.transport))
	return domain.NotificationResult{Sent: true}
}
