package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/core/gate"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/core/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/repositories/cache"
	"github.com/SscSPs/trakmymedia/internal/repositories/memory"
)

type OnboardingServiceTestSuite struct {
	suite.Suite
	repo     *memory.UserRepository
	notifier *recordingNotifier
	gate     portssvc.GateSvc
	service  portssvc.OnboardingSvc
	user     domain.User
	session  *domain.SessionClaims
}

func (suite *OnboardingServiceTestSuite) SetupTest() {
	suite.repo = memory.NewUserRepository()
	suite.notifier = &recordingNotifier{}
	suite.gate = services.NewGateService(cache.NewMemoryIntentStore(), time.Minute, nil)
	suite.service = services.NewOnboardingService(suite.repo, services.NewNotificationService(suite.notifier, "test", 0, nil), suite.gate, nil)

	now := time.Now()
	suite.user = domain.User{
		UserID:       "oauth-user",
		Email:        "newuser@gmail.com",
		DisplayName:  strPtr("New User"),
		AuthProvider: domain.ProviderGoogle,
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	suite.Require().NoError(suite.repo.SaveUser(context.Background(), suite.user))
	suite.session = &domain.SessionClaims{
		SubjectID: suite.user.UserID,
		Email:     suite.user.Email,
		ExpiresAt: now.Add(time.Hour),
	}
}

func (suite *OnboardingServiceTestSuite) requireAppError(err error, code int, message string) {
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr), "expected AppError, got %v", err)
	suite.Equal(code, appErr.Code)
	suite.Equal(message, appErr.Message)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_Success() {
	ctx := context.Background()
	result, err := suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "Movie_Buff"})

	suite.Require().NoError(err)
	suite.Equal("movie_buff", result.User.GetUsername())
	suite.True(result.User.ProfileComplete)
	suite.True(result.Notification.Sent)
	suite.Require().NotNil(result.Intent)
	suite.Equal(domain.IntentProfileJustCompleted, result.Intent.Kind)
	suite.Equal(suite.user.UserID, result.Intent.UserID)

	stored, err := suite.repo.FindUserByID(ctx, suite.user.UserID)
	suite.Require().NoError(err)
	suite.True(stored.ProfileComplete)
	suite.Equal("movie_buff", stored.GetUsername())
	suite.False(stored.HasPassword())

	suite.Require().Equal(1, suite.notifier.count())
	suite.Equal("New User", suite.notifier.sent[0].Name)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_IntentSuppressesOneRedirect() {
	ctx := context.Background()
	result, err := suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "movie_buff"})
	suite.Require().NoError(err)

	// the caller's token still says incomplete until it is refreshed
	d, err := suite.gate.Evaluate(ctx, suite.session, "/dashboard", result.Intent.ID)
	suite.Require().NoError(err)
	suite.Equal(gate.ActionNone, d.Action)

	d, err = suite.gate.Evaluate(ctx, suite.session, "/dashboard", result.Intent.ID)
	suite.Require().NoError(err)
	suite.Equal(gate.ActionRedirect, d.Action)
	suite.Equal(gate.OnboardingRoute, d.Location)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_WithSecretEnablesCredentialSignIn() {
	ctx := context.Background()
	_, err := suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "movie_buff", Secret: strPtr("longenough1")})
	suite.Require().NoError(err)

	identity, err := services.NewCredentialService(suite.repo, nil).VerifyCredentials(ctx, "movie_buff", "longenough1")
	suite.Require().NoError(err)
	suite.Equal(suite.user.UserID, identity.ID)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_SecretAtBcryptLimit() {
	ctx := context.Background()
	secret := strings.Repeat("a", 72)

	_, err := suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "movie_buff", Secret: &secret})
	suite.Require().NoError(err)

	_, err = services.NewCredentialService(suite.repo, nil).VerifyCredentials(ctx, "movie_buff", secret)
	suite.NoError(err)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_EmptySecretIsIgnored() {
	_, err := suite.service.CompleteProfile(context.Background(), suite.session, dto.CompleteProfileRequest{Username: "movie_buff", Secret: strPtr("")})

	suite.Require().NoError(err)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_Unauthenticated() {
	_, err := suite.service.CompleteProfile(context.Background(), nil, dto.CompleteProfileRequest{Username: "movie_buff"})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.requireAppError(err, http.StatusUnauthorized, "Not authenticated")
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_UserNotFound() {
	session := &domain.SessionClaims{SubjectID: "ghost", Email: "ghost@example.com"}

	_, err := suite.service.CompleteProfile(context.Background(), session, dto.CompleteProfileRequest{Username: "movie_buff"})

	suite.requireAppError(err, http.StatusNotFound, "User not found")
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_AlreadyCompleteDoesNotMutate() {
	ctx := context.Background()
	_, err := suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "first_name"})
	suite.Require().NoError(err)

	_, err = suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "second_name", Secret: strPtr("longenough1")})

	suite.ErrorIs(err, apperrors.ErrAlreadyComplete)
	suite.requireAppError(err, http.StatusBadRequest, "Profile already completed")
	stored, _ := suite.repo.FindUserByID(ctx, suite.user.UserID)
	suite.Equal("first_name", stored.GetUsername())
	suite.False(stored.HasPassword())
	suite.Equal(1, suite.notifier.count())
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_ValidationOrder() {
	testCases := []struct {
		name    string
		req     dto.CompleteProfileRequest
		code    int
		message string
	}{
		{"missing username", dto.CompleteProfileRequest{Secret: strPtr("x")}, http.StatusBadRequest, "Username is required"},
		{"bad username", dto.CompleteProfileRequest{Username: "no spaces", Secret: strPtr("x")}, http.StatusBadRequest, "Username must be 3-20 characters (letters, numbers, underscore only)"},
		{"short secret", dto.CompleteProfileRequest{Username: "movie_buff", Secret: strPtr("1234567")}, http.StatusBadRequest, "Password must be at least 8 characters"},
		{"secret over bcrypt limit", dto.CompleteProfileRequest{Username: "movie_buff", Secret: strPtr(strings.Repeat("a", 80))}, http.StatusBadRequest, "Password must be at most 72 bytes"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.CompleteProfile(context.Background(), suite.session, tc.req)
			suite.requireAppError(err, tc.code, tc.message)
		})
	}

	stored, _ := suite.repo.FindUserByID(context.Background(), suite.user.UserID)
	suite.False(stored.ProfileComplete)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_UsernameTakenBeforeSecretCheck() {
	ctx := context.Background()
	taken := "movie_buff"
	suite.Require().NoError(suite.repo.SaveUser(ctx, domain.User{
		UserID: "other", Email: "other@example.com", Username: &taken, ProfileComplete: true, AuthProvider: domain.ProviderLocal,
	}))

	_, err := suite.service.CompleteProfile(ctx, suite.session, dto.CompleteProfileRequest{Username: "Movie_Buff", Secret: strPtr("short")})

	suite.ErrorIs(err, apperrors.ErrUsernameTaken)
	suite.requireAppError(err, http.StatusConflict, "Username already taken")
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_NotificationFailureStillSucceeds() {
	suite.notifier.err = errors.New("smtp down")

	result, err := suite.service.CompleteProfile(context.Background(), suite.session, dto.CompleteProfileRequest{Username: "movie_buff"})

	suite.Require().NoError(err)
	suite.False(result.Notification.Sent)
	suite.True(result.User.ProfileComplete)
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_IntentFailureStillSucceeds() {
	mockGate := new(MockGateService)
	mockGate.On("IssueIntent", mock.Anything, suite.user.UserID).Return(nil, assert.AnError).Once()
	service := services.NewOnboardingService(suite.repo, services.NewNotificationService(suite.notifier, "test", 0, nil), mockGate, nil)

	result, err := service.CompleteProfile(context.Background(), suite.session, dto.CompleteProfileRequest{Username: "movie_buff"})

	suite.Require().NoError(err)
	suite.Nil(result.Intent)
	mockGate.AssertExpectations(suite.T())
}

func (suite *OnboardingServiceTestSuite) TestCompleteProfile_LostRaceIsAlreadyComplete() {
	incomplete := suite.user
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindUserByID", mock.Anything, suite.user.UserID).Return(&incomplete, nil).Once()
	mockRepo.On("FindUserByUsername", mock.Anything, "movie_buff").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("CompleteProfile", mock.Anything, suite.user.UserID, "movie_buff", (*string)(nil), mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrAlreadyComplete).Once()
	service := services.NewOnboardingService(mockRepo, services.NewNotificationService(suite.notifier, "test", 0, nil), suite.gate, nil)

	_, err := service.CompleteProfile(context.Background(), suite.session, dto.CompleteProfileRequest{Username: "movie_buff"})

	suite.requireAppError(err, http.StatusBadRequest, "Profile already completed")
	suite.Zero(suite.notifier.count())
	mockRepo.AssertExpectations(suite.T())
}

func TestOnboardingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OnboardingServiceTestSuite))
}
