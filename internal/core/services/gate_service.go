package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/core/gate"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

type gateService struct {
	BaseService
	intents portsrepo.IntentStore
	ttl     time.Duration
	now     func() time.Time
}

// NewGateService creates the server side of the profile completion gate.
func NewGateService(intents portsrepo.IntentStore, ttl time.Duration, recorder metrics.Recorder) portssvc.GateSvc {
	return &gateService{
		BaseService: newBaseService(recorder),
		intents:     intents,
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *gateService) IssueIntent(ctx context.Context, userID string) (*domain.NavigationIntent, error) {
	id, err := utils.NewOpaqueToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate intent id: %w", err)
	}
	intent := domain.NavigationIntent{
		ID:        id,
		UserID:    userID,
		Kind:      domain.IntentProfileJustCompleted,
		CreatedAt: s.now(),
	}
	if err := s.intents.Save(ctx, intent, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store intent: %w", err)
	}
	return &intent, nil
}

func (s *gateService) Evaluate(ctx context.Context, session *domain.SessionClaims, route string, intentID string) (gate.Decision, error) {
	if route == "" {
		return gate.Decision{}, apperrors.NewValidationFailedError("Route is required", apperrors.ErrInvalidFormat)
	}

	bypass := false
	if intentID != "" {
		bypass = s.consumeIntent(ctx, session, intentID)
	}

	d := gate.Evaluate(gate.Input{
		State:  gate.StateOf(session),
		Route:  route,
		Bypass: bypass,
	})
	s.Metrics.RecordGateDecision(string(d.Action))
	return d, nil
}

// consumeIntent reports whether intentID is a live profileJustCompleted intent owned
// by the session's user. The intent is gone afterwards either way.
func (s *gateService) consumeIntent(ctx context.Context, session *domain.SessionClaims, intentID string) bool {
	intent, err := s.intents.Consume(ctx, intentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to consume navigation intent")
		}
		return false
	}
	if session == nil || intent.UserID != session.SubjectID || intent.Kind != domain.IntentProfileJustCompleted {
		s.LogWarn(ctx, "Ignoring navigation intent not owned by caller", slog.String("intent_user_id", intent.UserID))
		return false
	}
	return true
}
