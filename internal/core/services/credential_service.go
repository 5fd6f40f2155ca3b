package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

const signInMethodCredentials = "credentials"

// dummyHash is compared against when no usable hash exists, so every rejected
// attempt costs one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("trakmymedia-dummy-secret")
	return h
})

type credentialService struct {
	BaseService
	userRepo portsrepo.UserReader
}

// NewCredentialService creates the local email/username + password verifier.
func NewCredentialService(userRepo portsrepo.UserReader, recorder metrics.Recorder) portssvc.CredentialSvc {
	return &credentialService{
		BaseService: newBaseService(recorder),
		userRepo:    userRepo,
	}
}

func (s *credentialService) VerifyCredentials(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || secret == "" {
		s.Metrics.RecordSignIn(signInMethodCredentials, metrics.OutcomeRejected)
		return nil, apperrors.NewValidationFailedError("Email/username and password are required", apperrors.ErrInvalidFormat)
	}

	user, err := s.userRepo.FindUserByEmailOrUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.CheckPasswordHash(secret, dummyHash())
			return nil, s.reject(ctx, apperrors.ErrUserNotFound)
		}
		s.Metrics.RecordSignIn(signInMethodCredentials, metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to look up user for credential sign-in")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasPassword() {
		utils.CheckPasswordHash(secret, dummyHash())
		return nil, s.reject(ctx, apperrors.ErrNoLocalCredential, slog.String("user_id", user.UserID))
	}

	if !utils.CheckPasswordHash(secret, *user.PasswordHash) {
		return nil, s.reject(ctx, apperrors.ErrInvalidCredential, slog.String("user_id", user.UserID))
	}

	s.Metrics.RecordSignIn(signInMethodCredentials, metrics.OutcomeSuccess)
	identity := user.ToIdentity()
	return &identity, nil
}

// reject logs the specific cause server-side only and returns it.
func (s *credentialService) reject(ctx context.Context, cause error, keyvals ...any) error {
	s.Metrics.RecordSignIn(signInMethodCredentials, metrics.OutcomeRejected)
	s.LogWarn(ctx, "Credential sign-in rejected", append([]any{slog.String("reason", cause.Error())}, keyvals...)...)
	return cause
}
