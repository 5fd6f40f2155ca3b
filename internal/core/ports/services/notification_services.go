package services

import (
	"context"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// Notifier is the transport for the welcome notification (SMTP, Kafka, log).
type Notifier interface {
	Notify(ctx context.Context, n domain.WelcomeNotification) error
}

// NotificationSvc dispatches welcome notifications. Its result is inspected by
// callers but never turned into a request failure.
type NotificationSvc interface {
	SendWelcome(ctx context.Context, n domain.WelcomeNotification) domain.NotificationResult
}
