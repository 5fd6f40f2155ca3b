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
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

type registrationService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	notification portssvc.NotificationSvc
	now          func() time.Time
}

// NewRegistrationService creates the local sign-up flow.
func NewRegistrationService(userRepo portsrepo.UserRepositoryFacade, notification portssvc.NotificationSvc, recorder metrics.Recorder) portssvc.RegistrationSvc {
	return &registrationService{
		BaseService:  newBaseService(recorder),
		userRepo:     userRepo,
		notification: notification,
		now:          time.Now,
	}
}

// validateSignup applies the format rules in order and reports the first violation.
func validateSignup(req dto.SignupRequest) error {
	switch {
	case req.Username == "" || req.Email == "" || req.Secret == "":
		return apperrors.NewValidationFailedError(msgSignupFieldsRequired, apperrors.ErrInvalidFormat)
	case !utils.IsValidUsername(req.Username):
		return apperrors.NewValidationFailedError(msgUsernameFormat, apperrors.ErrInvalidFormat)
	case !utils.IsValidEmail(req.Email):
		return apperrors.NewValidationFailedError(msgEmailFormat, apperrors.ErrInvalidFormat)
	case !utils.IsWithinLength(req.Email, utils.MaxEmailLength):
		return apperrors.NewValidationFailedError(msgEmailTooLong, apperrors.ErrInvalidFormat)
	case !utils.IsStrongPassword(req.Secret):
		return apperrors.NewValidationFailedError(msgSignupSecretLength, apperrors.ErrWeakSecret)
	case !utils.IsPasswordWithinLimit(req.Secret):
		return apperrors.NewValidationFailedError(msgSecretTooLong, apperrors.ErrWeakSecret)
	case req.Name != nil && !utils.IsWithinLength(strings.TrimSpace(*req.Name), utils.MaxNameLength):
		return apperrors.NewValidationFailedError(msgNameTooLong, apperrors.ErrInvalidFormat)
	}
	return nil
}

// conflictFor maps a store uniqueness sentinel to the client-facing conflict.
func conflictFor(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUsernameTaken):
		return apperrors.NewConflictError(msgUsernameTaken, apperrors.ErrUsernameTaken)
	case errors.Is(err, apperrors.ErrEmailTaken):
		return apperrors.NewConflictError(msgEmailTaken, apperrors.ErrEmailTaken)
	}
	return nil
}

func (s *registrationService) Register(ctx context.Context, req dto.SignupRequest) (*domain.User, domain.NotificationResult, error) {
	if err := validateSignup(req); err != nil {
		s.Metrics.RecordSignup(metrics.OutcomeRejected)
		return nil, domain.NotificationResult{}, err
	}

	username := strings.ToLower(req.Username)
	email := strings.ToLower(req.Email)

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, domain.NotificationResult{}, err
	}

	hash, err := utils.HashPassword(req.Secret)
	if err != nil {
		s.Metrics.RecordSignup(metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to hash password")
		return nil, domain.NotificationResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	var name *string
	if req.Name != nil {
		name = optionalString(*req.Name)
	}
	user := domain.User{
		UserID:          uuid.NewString(),
		Email:           email,
		Username:        &username,
		PasswordHash:    &hash,
		DisplayName:     name,
		ProfileComplete: true,
		AuthProvider:    domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if conflict := conflictFor(err); conflict != nil {
			s.Metrics.RecordSignup(metrics.OutcomeConflict)
			s.LogWarn(ctx, "Registration lost uniqueness race", slog.String("error", err.Error()))
			return nil, domain.NotificationResult{}, conflict
		}
		s.Metrics.RecordSignup(metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to save registered user")
		return nil, domain.NotificationResult{}, fmt.Errorf("failed to save user: %w", err)
	}

	s.Metrics.RecordSignup(metrics.OutcomeSuccess)
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))

	greeting := user.GetName()
	if greeting == "" {
		greeting = username
	}
	result := s.notification.SendWelcome(ctx, domain.WelcomeNotification{
		UserID: user.UserID,
		Email:  user.Email,
		Name:   greeting,
	})

	return &user, result, nil
}

// ensureAvailable runs the username then email pre-checks.
func (s *registrationService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindUserByUsername(ctx, username); err == nil {
		s.Metrics.RecordSignup(metrics.OutcomeConflict)
		return apperrors.NewConflictError(msgUsernameTaken, apperrors.ErrUsernameTaken)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.Metrics.RecordSignup(metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to check username availability")
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		s.Metrics.RecordSignup(metrics.OutcomeConflict)
		return apperrors.NewConflictError(msgEmailTaken, apperrors.ErrEmailTaken)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.Metrics.RecordSignup(metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to check email availability")
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}
