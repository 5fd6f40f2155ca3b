package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/core/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/repositories/memory"
)

type RegistrationServiceTestSuite struct {
	suite.Suite
	repo     *memory.UserRepository
	notifier *recordingNotifier
	service  portssvc.RegistrationSvc
}

func (suite *RegistrationServiceTestSuite) SetupTest() {
	suite.repo = memory.NewUserRepository()
	suite.notifier = &recordingNotifier{}
	notification := services.NewNotificationService(suite.notifier, "test", 0, metrics.Nop{})
	suite.service = services.NewRegistrationService(suite.repo, notification, metrics.Nop{})
}

func (suite *RegistrationServiceTestSuite) requireAppError(err error, code int, message string) {
	var appErr *apperrors.AppError
	suite.Require().True(errors.As(err, &appErr), "expected AppError, got %v", err)
	suite.Equal(code, appErr.Code)
	suite.Equal(message, appErr.Message)
}

func (suite *RegistrationServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	user, result, err := suite.service.Register(ctx, dto.SignupRequest{
		Username: "Ann_99",
		Email:    "Ann@Example.com",
		Secret:   "longenough1",
		Name:     strPtr("Ann"),
	})

	suite.Require().NoError(err)
	suite.Equal("ann_99", user.GetUsername())
	suite.Equal("ann@example.com", user.Email)
	suite.True(user.ProfileComplete)
	suite.Equal(domain.ProviderLocal, user.AuthProvider)
	suite.Require().NotNil(user.PasswordHash)
	suite.NotEqual("longenough1", *user.PasswordHash)
	suite.True(result.Sent)

	suite.Require().Equal(1, suite.notifier.count())
	suite.Equal(domain.WelcomeNotification{UserID: user.UserID, Email: "ann@example.com", Name: "Ann"}, suite.notifier.sent[0])

	stored, err := suite.repo.FindUserByUsername(ctx, "ann_99")
	suite.Require().NoError(err)
	suite.Equal(user.UserID, stored.UserID)
}

func (suite *RegistrationServiceTestSuite) TestRegister_GreetsByUsernameWithoutName() {
	_, _, err := suite.service.Register(context.Background(), dto.SignupRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Secret:   "longenough1",
	})

	suite.Require().NoError(err)
	suite.Require().Equal(1, suite.notifier.count())
	suite.Equal("bob", suite.notifier.sent[0].Name)
}

func (suite *RegistrationServiceTestSuite) TestRegister_ValidationOrder() {
	testCases := []struct {
		name    string
		req     dto.SignupRequest
		message string
	}{
		{"all missing", dto.SignupRequest{}, "Username, email, and password are required"},
		{"missing secret", dto.SignupRequest{Username: "ann", Email: "ann@example.com"}, "Username, email, and password are required"},
		{"bad username before bad email", dto.SignupRequest{Username: "ab", Email: "nope", Secret: "short"}, "Username must be 3-20 characters (letters, numbers, underscore only)"},
		{"username with dash", dto.SignupRequest{Username: "ann-99", Email: "ann@example.com", Secret: "longenough1"}, "Username must be 3-20 characters (letters, numbers, underscore only)"},
		{"bad email before short secret", dto.SignupRequest{Username: "ann_99", Email: "ann@example", Secret: "short"}, "Invalid email format"},
		{"short secret", dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: "1234567"}, "Password must be at least 8 characters long"},
		{"email wider than column", dto.SignupRequest{Username: "ann_99", Email: strings.Repeat("a", 309) + "@example.com", Secret: "longenough1"}, "Email must be at most 320 characters"},
		{"secret over bcrypt limit", dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: strings.Repeat("a", 80)}, "Password must be at most 72 bytes"},
		{"multibyte secret over bcrypt limit", dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: strings.Repeat("é", 40)}, "Password must be at most 72 bytes"},
		{"name wider than column", dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: "longenough1", Name: strPtr(strings.Repeat("n", 256))}, "Name must be at most 255 characters"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			// the mock has no expectations, so touching the store would panic
			service := services.NewRegistrationService(new(MockUserRepository), services.NewNotificationService(suite.notifier, "test", 0, nil), nil)

			user, _, err := service.Register(context.Background(), tc.req)

			suite.Nil(user)
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.requireAppError(err, http.StatusBadRequest, tc.message)
		})
	}
	suite.Zero(suite.notifier.count())
}

func (suite *RegistrationServiceTestSuite) TestRegister_LimitsAreInclusive() {
	ctx := context.Background()
	secret := strings.Repeat("a", 72)
	email := strings.Repeat("a", 308) + "@example.com"

	user, _, err := suite.service.Register(ctx, dto.SignupRequest{
		Username: "ann_99",
		Email:    email,
		Secret:   secret,
		Name:     strPtr(strings.Repeat("n", 255)),
	})

	suite.Require().NoError(err)
	suite.Len(user.Email, 320)
	identity, err := services.NewCredentialService(suite.repo, nil).VerifyCredentials(ctx, "ann_99", secret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, identity.ID)
}

func (suite *RegistrationServiceTestSuite) TestRegister_UsernameTakenIgnoresCase() {
	ctx := context.Background()
	_, _, err := suite.service.Register(ctx, dto.SignupRequest{Username: "JohnDoe", Email: "john@example.com", Secret: "longenough1"})
	suite.Require().NoError(err)

	_, _, err = suite.service.Register(ctx, dto.SignupRequest{Username: "johndoe", Email: "other@example.com", Secret: "longenough1"})

	suite.ErrorIs(err, apperrors.ErrUsernameTaken)
	suite.requireAppError(err, http.StatusConflict, "Username already taken")
}

func (suite *RegistrationServiceTestSuite) TestRegister_UsernameCheckedBeforeEmail() {
	ctx := context.Background()
	_, _, err := suite.service.Register(ctx, dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: "longenough1"})
	suite.Require().NoError(err)

	_, _, err = suite.service.Register(ctx, dto.SignupRequest{Username: "ANN_99", Email: "ANN@example.com", Secret: "longenough1"})

	suite.requireAppError(err, http.StatusConflict, "Username already taken")
}

func (suite *RegistrationServiceTestSuite) TestRegister_EmailTaken() {
	ctx := context.Background()
	_, _, err := suite.service.Register(ctx, dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: "longenough1"})
	suite.Require().NoError(err)

	_, _, err = suite.service.Register(ctx, dto.SignupRequest{Username: "ann_100", Email: "Ann@Example.com", Secret: "longenough1"})

	suite.ErrorIs(err, apperrors.ErrEmailTaken)
	suite.requireAppError(err, http.StatusConflict, "Email already registered")
	count, _ := suite.repo.CountUsers(ctx)
	suite.EqualValues(1, count)
}

func (suite *RegistrationServiceTestSuite) TestRegister_LostRaceMapsToConflict() {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindUserByUsername", mock.Anything, "ann_99").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("FindUserByEmail", mock.Anything, "ann@example.com").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("SaveUser", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(fmt.Errorf("unique violation: %w", apperrors.ErrUsernameTaken)).Once()
	service := services.NewRegistrationService(mockRepo, services.NewNotificationService(suite.notifier, "test", 0, nil), nil)

	user, _, err := service.Register(context.Background(), dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: "longenough1"})

	suite.Nil(user)
	suite.requireAppError(err, http.StatusConflict, "Username already taken")
	suite.Zero(suite.notifier.count())
	mockRepo.AssertExpectations(suite.T())
}

func (suite *RegistrationServiceTestSuite) TestRegister_NotificationFailureStillRegisters() {
	suite.notifier.err = errors.New("smtp down")

	user, result, err := suite.service.Register(context.Background(), dto.SignupRequest{Username: "ann_99", Email: "ann@example.com", Secret: "longenough1"})

	suite.Require().NoError(err)
	suite.NotNil(user)
	suite.False(result.Sent)
	suite.EqualError(result.Err, "smtp down")
}

func (suite *RegistrationServiceTestSuite) TestRegister_ThenSignInWithEitherIdentifier() {
	ctx := context.Background()
	_, _, err := suite.service.Register(ctx, dto.SignupRequest{Username: "JohnDoe", Email: "john@example.com", Secret: "longenough1"})
	suite.Require().NoError(err)

	creds := services.NewCredentialService(suite.repo, nil)
	for _, identifier := range []string{"johndoe", "JOHNDOE", "John@Example.com"} {
		identity, err := creds.VerifyCredentials(ctx, identifier, "longenough1")
		suite.Require().NoError(err, identifier)
		suite.Equal("john@example.com", identity.Email)
	}
}

func TestRegistrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegistrationServiceTestSuite))
}
