package services

import (
	"context"
	"time"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// CredentialSvc verifies a local email/username + password sign-in attempt.
type CredentialSvc interface {
	// VerifyCredentials returns the identity behind identifier/secret or one of
	// apperrors.ErrUserNotFound, apperrors.ErrNoLocalCredential, apperrors.ErrInvalidCredential.
	VerifyCredentials(ctx context.Context, identifier, secret string) (*domain.Identity, error)
}

// IdentityProvider is the external OAuth collaborator. It owns the handshake
// (code exchange, ID token signature checks) and yields a normalized identity.
type IdentityProvider interface {
	// Name identifies the provider.
	Name() domain.AuthProvider
	// Configured reports whether client credentials are present.
	Configured() bool
	// AuthCodeURL returns the URL to redirect the user to for login.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for a validated provider identity.
	Exchange(ctx context.Context, code string) (*domain.ProviderIdentity, error)
}

// IdentityBridgeSvc maps a provider-asserted identity to a local user record.
type IdentityBridgeSvc interface {
	ResolveIdentity(ctx context.Context, pid domain.ProviderIdentity) (*domain.User, error)
}

// SessionSvc issues, refreshes, parses and projects stateless session tokens.
type SessionSvc interface {
	// IssueOrRefresh mints a signed token for the event.
	IssueOrRefresh(ctx context.Context, event domain.SessionEvent) (string, *domain.SessionClaims, error)
	// Parse validates a signed token and returns its claims.
	Parse(ctx context.Context, token string) (*domain.SessionClaims, error)
	// Project produces the externally visible session view.
	Project(claims *domain.SessionClaims) domain.SessionView
	// MaxAge is the absolute token lifetime.
	MaxAge() time.Duration
}
