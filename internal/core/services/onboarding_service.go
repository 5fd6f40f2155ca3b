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
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

type onboardingService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	notification portssvc.NotificationSvc
	gate         portssvc.GateSvc
	now          func() time.Time
}

// NewOnboardingService creates the one-time profile completion flow for OAuth users.
func NewOnboardingService(userRepo portsrepo.UserRepositoryFacade, notification portssvc.NotificationSvc, gate portssvc.GateSvc, recorder metrics.Recorder) portssvc.OnboardingSvc {
	return &onboardingService{
		BaseService:  newBaseService(recorder),
		userRepo:     userRepo,
		notification: notification,
		gate:         gate,
		now:          time.Now,
	}
}

func (s *onboardingService) CompleteProfile(ctx context.Context, session *domain.SessionClaims, req dto.CompleteProfileRequest) (*portssvc.OnboardingResult, error) {
	if session == nil || session.SubjectID == "" {
		return nil, apperrors.NewUnauthorizedError(msgNotAuthenticated)
	}

	user, err := s.userRepo.FindUserByID(ctx, session.SubjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(msgUserNotFound)
		}
		s.LogError(ctx, err, "Failed to load user for onboarding")
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.ProfileComplete {
		s.Metrics.RecordOnboarding(metrics.OutcomeRejected)
		return nil, apperrors.NewValidationFailedError(msgAlreadyComplete, apperrors.ErrAlreadyComplete)
	}

	if req.Username == "" {
		s.Metrics.RecordOnboarding(metrics.OutcomeRejected)
		return nil, apperrors.NewValidationFailedError(msgUsernameRequired, apperrors.ErrInvalidFormat)
	}
	if !utils.IsValidUsername(req.Username) {
		s.Metrics.RecordOnboarding(metrics.OutcomeRejected)
		return nil, apperrors.NewValidationFailedError(msgUsernameFormat, apperrors.ErrInvalidFormat)
	}
	username := strings.ToLower(req.Username)

	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case err == nil && existing.UserID != user.UserID:
		s.Metrics.RecordOnboarding(metrics.OutcomeConflict)
		return nil, apperrors.NewConflictError(msgUsernameTaken, apperrors.ErrUsernameTaken)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check username availability")
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	var passwordHash *string
	if req.HasSecret() {
		if !utils.IsStrongPassword(*req.Secret) {
			s.Metrics.RecordOnboarding(metrics.OutcomeRejected)
			return nil, apperrors.NewValidationFailedError(msgProfileSecretLength, apperrors.ErrWeakSecret)
		}
		if !utils.IsPasswordWithinLimit(*req.Secret) {
			s.Metrics.RecordOnboarding(metrics.OutcomeRejected)
			return nil, apperrors.NewValidationFailedError(msgSecretTooLong, apperrors.ErrWeakSecret)
		}
		hash, err := utils.HashPassword(*req.Secret)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash password")
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &hash
	}

	now := s.now()
	if err := s.userRepo.CompleteProfile(ctx, user.UserID, username, passwordHash, now); err != nil {
		return nil, s.mapCompleteProfileError(ctx, err)
	}

	user.Username = &username
	user.ProfileComplete = true
	user.LastUpdatedAt = now
	if passwordHash != nil {
		user.PasswordHash = passwordHash
	}
	s.Metrics.RecordOnboarding(metrics.OutcomeSuccess)
	s.LogInfo(ctx, "Profile completed", slog.String("user_id", user.UserID))

	greeting := user.GetName()
	if greeting == "" {
		greeting = username
	}
	notification := s.notification.SendWelcome(ctx, domain.WelcomeNotification{
		UserID: user.UserID,
		Email:  user.Email,
		Name:   greeting,
	})

	// without an intent the client is redirected once more; the onboarding itself succeeded
	intent, err := s.gate.IssueIntent(ctx, user.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue navigation intent", slog.String("user_id", user.UserID))
		intent = nil
	}

	return &portssvc.OnboardingResult{
		User:         user,
		Notification: notification,
		Intent:       intent,
	}, nil
}

// mapCompleteProfileError translates the conditional update's outcome.
func (s *onboardingService) mapCompleteProfileError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyComplete):
		s.Metrics.RecordOnboarding(metrics.OutcomeRejected)
		return apperrors.NewValidationFailedError(msgAlreadyComplete, apperrors.ErrAlreadyComplete)
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewNotFoundError(msgUserNotFound)
	case errors.Is(err, apperrors.ErrUsernameTaken):
		s.Metrics.RecordOnboarding(metrics.OutcomeConflict)
		return apperrors.NewConflictError(msgUsernameTaken, apperrors.ErrUsernameTaken)
	}
	s.Metrics.RecordOnboarding(metrics.OutcomeError)
	s.LogError(ctx, err, "Failed to complete profile")
	return fmt.Errorf("failed to complete profile: %w", err)
}
