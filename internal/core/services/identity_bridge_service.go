package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

type identityBridgeService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	now      func() time.Time
}

// NewIdentityBridgeService maps provider identities onto local user records.
func NewIdentityBridgeService(userRepo portsrepo.UserRepositoryFacade, recorder metrics.Recorder) portssvc.IdentityBridgeSvc {
	return &identityBridgeService{
		BaseService: newBaseService(recorder),
		userRepo:    userRepo,
		now:         time.Now,
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *identityBridgeService) ResolveIdentity(ctx context.Context, pid domain.ProviderIdentity) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(pid.Email))
	if email == "" {
		return nil, apperrors.NewValidationFailedError("Identity provider did not return an email", apperrors.ErrInvalidFormat)
	}
	if !utils.IsWithinLength(email, utils.MaxEmailLength) {
		return nil, apperrors.NewValidationFailedError(msgEmailTooLong, apperrors.ErrInvalidFormat)
	}
	if !pid.EmailVerified {
		// linking by an unverified address would let anyone claim an existing account
		return nil, apperrors.NewUnauthorizedError("Email address is not verified with the identity provider")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		s.LogDebug(ctx, "Provider identity matched existing user", slog.String("user_id", user.UserID))
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user by provider email")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := s.now()
	newUser := domain.User{
		UserID:          uuid.NewString(),
		Email:           email,
		DisplayName:     optionalString(utils.TruncateRunes(strings.TrimSpace(pid.Name), utils.MaxNameLength)),
		AvatarURL:       optionalString(pid.Picture),
		ProfileComplete: false,
		AuthProvider:    pid.Provider,
		ProviderUserID:  optionalString(pid.ProviderUserID),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	inserted, err := s.userRepo.SaveUserIfEmailAbsent(ctx, newUser)
	if err != nil {
		s.LogError(ctx, err, "Failed to provision user for provider identity")
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	if inserted {
		s.LogInfo(ctx, "Provisioned user on first provider sign-in",
			slog.String("user_id", newUser.UserID),
			slog.String("provider", string(pid.Provider)))
		s.Metrics.RecordSignIn(string(pid.Provider)+"_first_touch", metrics.OutcomeSuccess)
		return &newUser, nil
	}

	// a concurrent first sign-in won the insert
	user, err = s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read provisioned user: %w", err)
	}
	return user, nil
}
