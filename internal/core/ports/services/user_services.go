package services

import (
	"context"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// CountUsers returns the number of user records, used as a store connectivity check.
	CountUsers(ctx context.Context) (int64, error)
}

// RegistrationSvc provisions new, already-complete local accounts.
type RegistrationSvc interface {
	Register(ctx context.Context, req dto.SignupRequest) (*domain.User, domain.NotificationResult, error)
}

// OnboardingResult is the outcome of a successful profile completion.
type OnboardingResult struct {
	User         *domain.User
	Notification domain.NotificationResult
	Intent       *domain.NavigationIntent
}

// OnboardingSvc finalizes a profile created by an OAuth first touch.
type OnboardingSvc interface {
	// CompleteProfile runs the one-time onboarding transition for the session's user.
	// A nil session yields apperrors.ErrUnauthorized.
	CompleteProfile(ctx context.Context, session *domain.SessionClaims, req dto.CompleteProfileRequest) (*OnboardingResult, error)
}
