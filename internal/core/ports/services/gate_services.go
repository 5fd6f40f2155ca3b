package services

import (
	"context"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/core/gate"
)

// GateSvc evaluates the profile completion gate for a caller and owns the
// one-time navigation intents that suppress a single redirect.
type GateSvc interface {
	// IssueIntent mints a profileJustCompleted intent for the user.
	IssueIntent(ctx context.Context, userID string) (*domain.NavigationIntent, error)
	// Evaluate decides the next navigation action. session may be nil (unauthenticated).
	// A non-empty intentID is consumed whether or not it ends up suppressing a redirect.
	Evaluate(ctx context.Context, session *domain.SessionClaims, route string, intentID string) (gate.Decision, error)
}
