package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// IntentStore holds one-time navigation intents.
type IntentStore interface {
	// Save stores the intent for at most ttl.
	Save(ctx context.Context, intent domain.NavigationIntent, ttl time.Duration) error

	// Consume atomically reads and deletes the intent. A missing or expired intent
	// yields apperrors.ErrNotFound.
	Consume(ctx context.Context, intentID string) (*domain.NavigationIntent, error)
}
