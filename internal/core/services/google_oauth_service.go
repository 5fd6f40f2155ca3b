package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
)

// idTokenValidator matches idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// googleOAuthService implements IdentityProvider for Google.
type googleOAuthService struct {
	clientID     string
	oauth2Config *oauth2.Config
	validate     idTokenValidator
}

// NewGoogleOAuthService creates a new instance of googleOAuthService.
func NewGoogleOAuthService(cfg *config.Config) portssvc.IdentityProvider {
	return &googleOAuthService{
		clientID: cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

func (s *googleOAuthService) Name() domain.AuthProvider {
	return domain.ProviderGoogle
}

func (s *googleOAuthService) Configured() bool {
	return s.oauth2Config.ClientID != "" && s.oauth2Config.ClientSecret != ""
}

// AuthCodeURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthService) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the code for tokens and validates the returned ID token.
func (s *googleOAuthService) Exchange(ctx context.Context, code string) (*domain.ProviderIdentity, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: google client is not configured", apperrors.ErrProviderUnavailable)
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil && rErr.Response.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: authorization code rejected: %w", apperrors.ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("%w: failed to exchange oauth code: %w", apperrors.ErrProviderUnavailable, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: token response has no id_token", apperrors.ErrProviderUnavailable)
	}

	payload, err := s.validate(ctx, rawIDToken, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google ID token validation failed: %w", apperrors.ErrUnauthorized, err)
	}
	return identityFromPayload(payload), nil
}

// identityFromPayload reads the standard OpenID claims from a validated ID token.
func identityFromPayload(p *idtoken.Payload) *domain.ProviderIdentity {
	pid := &domain.ProviderIdentity{
		Provider:       domain.ProviderGoogle,
		ProviderUserID: p.Subject,
	}
	if v, ok := p.Claims["email"].(string); ok {
		pid.Email = v
	}
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		pid.EmailVerified = v
	case string:
		pid.EmailVerified = v == "true"
	}
	if v, ok := p.Claims["name"].(string); ok {
		pid.Name = v
	}
	if v, ok := p.Claims["picture"].(string); ok {
		pid.Picture = v
	}
	return pid
}
