package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

// sessionService implements SessionSvc with stateless HS256 tokens.
// The lifetime is absolute: only a fresh sign-in moves the expiry.
type sessionService struct {
	BaseService
	userRepo portsrepo.UserReader
	secret   string
	issuer   string
	maxAge   time.Duration
	now      func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(cfg *config.Config, userRepo portsrepo.UserReader) portssvc.SessionSvc {
	return &sessionService{
		BaseService: newBaseService(nil),
		userRepo:    userRepo,
		secret:      cfg.JWTSecret,
		issuer:      cfg.JWTIssuer,
		maxAge:      cfg.SessionMaxAge,
		now:         time.Now,
	}
}

func (s *sessionService) MaxAge() time.Duration {
	return s.maxAge
}

func (s *sessionService) IssueOrRefresh(ctx context.Context, event domain.SessionEvent) (string, *domain.SessionClaims, error) {
	now := s.now()
	var claims domain.SessionClaims

	switch event.Trigger {
	case domain.TriggerSignIn:
		if event.Identity == nil || event.Identity.ID == "" {
			return "", nil, errors.New("sign-in event without identity")
		}
		claims = domain.SessionClaims{
			SubjectID: event.Identity.ID,
			Email:     event.Identity.Email,
			Name:      event.Identity.DisplayName,
			Image:     event.Identity.AvatarURL,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.maxAge),
		}
		if err := s.refreshDerived(ctx, &claims); err != nil {
			return "", nil, err
		}
	case domain.TriggerUpdate:
		if event.Previous == nil {
			return "", nil, apperrors.ErrUnauthorized
		}
		claims = copyClaims(event.Previous)
		claims.IssuedAt = now
		if err := s.refreshDerived(ctx, &claims); err != nil {
			return "", nil, err
		}
	case domain.TriggerValidate:
		if event.Previous == nil {
			return "", nil, apperrors.ErrUnauthorized
		}
		claims = copyClaims(event.Previous)
	default:
		return "", nil, fmt.Errorf("unknown session trigger %q", event.Trigger)
	}

	if !claims.ExpiresAt.After(now) {
		return "", nil, fmt.Errorf("%w: session has expired", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateSessionJWT(claims, s.secret, s.issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token", slog.String("user_id", claims.SubjectID))
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, &claims, nil
}

// refreshDerived re-reads profileComplete and username from the record keyed by the
// token's email. A missing record leaves the previous values in place.
func (s *sessionService) refreshDerived(ctx context.Context, claims *domain.SessionClaims) error {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(claims.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Session user record not found, keeping previous profile state",
				slog.String("user_id", claims.SubjectID))
			return nil
		}
		s.LogError(ctx, err, "Failed to refresh session profile state", slog.String("user_id", claims.SubjectID))
		return fmt.Errorf("failed to refresh session: %w", err)
	}

	claims.ProfileComplete = user.ProfileComplete
	claims.Username = nil
	if user.Username != nil {
		username := *user.Username
		claims.Username = &username
	}
	return nil
}

func copyClaims(c *domain.SessionClaims) domain.SessionClaims {
	out := *c
	if c.Username != nil {
		username := *c.Username
		out.Username = &username
	}
	return out
}

func (s *sessionService) Parse(_ context.Context, token string) (*domain.SessionClaims, error) {
	claims, err := utils.ParseSessionJWT(token, s.secret, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *sessionService) Project(claims *domain.SessionClaims) domain.SessionView {
	view := domain.SessionView{
		ID:              claims.SubjectID,
		Email:           claims.Email,
		Name:            claims.Name,
		Image:           claims.Image,
		ProfileComplete: claims.ProfileComplete,
		Expires:         claims.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if claims.Username != nil {
		username := *claims.Username
		view.Username = &username
	}
	return view
}
