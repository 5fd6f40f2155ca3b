package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/core/services"
	"github.com/SscSPs/trakmymedia/internal/repositories/memory"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

type SessionServiceTestSuite struct {
	suite.Suite
	repo    *memory.UserRepository
	service portssvc.SessionSvc
	user    domain.User
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.repo = memory.NewUserRepository()
	suite.service = services.NewSessionService(testConfig(), suite.repo)
	suite.user = domain.User{
		UserID:       "oauth-user",
		Email:        "newuser@gmail.com",
		DisplayName:  strPtr("New User"),
		AvatarURL:    strPtr("https://example.com/a.png"),
		AuthProvider: domain.ProviderGoogle,
	}
	suite.Require().NoError(suite.repo.SaveUser(context.Background(), suite.user))
}

func (suite *SessionServiceTestSuite) signIn() (string, *domain.SessionClaims) {
	identity := suite.user.ToIdentity()
	token, claims, err := suite.service.IssueOrRefresh(context.Background(), domain.SessionEvent{
		Trigger:  domain.TriggerSignIn,
		Identity: &identity,
	})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(token)
	return token, claims
}

func (suite *SessionServiceTestSuite) TestSignIn_ReadsProfileState() {
	token, claims := suite.signIn()

	suite.Equal(suite.user.UserID, claims.SubjectID)
	suite.Equal("New User", claims.Name)
	suite.Equal("https://example.com/a.png", claims.Image)
	suite.False(claims.ProfileComplete)
	suite.Nil(claims.Username)
	suite.WithinDuration(time.Now().Add(720*time.Hour), claims.ExpiresAt, time.Minute)

	parsed, err := suite.service.Parse(context.Background(), token)
	suite.Require().NoError(err)
	suite.Equal(claims.SubjectID, parsed.SubjectID)
	suite.Equal(claims.Email, parsed.Email)
	suite.False(parsed.ProfileComplete)
}

func (suite *SessionServiceTestSuite) TestUpdate_RefreshesProfileStateAndKeepsExpiry() {
	ctx := context.Background()
	_, claims := suite.signIn()
	suite.Require().NoError(suite.repo.CompleteProfile(ctx, suite.user.UserID, "movie_buff", nil, time.Now()))

	token, updated, err := suite.service.IssueOrRefresh(ctx, domain.SessionEvent{
		Trigger:  domain.TriggerUpdate,
		Previous: claims,
	})

	suite.Require().NoError(err)
	suite.True(updated.ProfileComplete)
	suite.Require().NotNil(updated.Username)
	suite.Equal("movie_buff", *updated.Username)
	suite.True(claims.ExpiresAt.Equal(updated.ExpiresAt))
	suite.False(claims.ProfileComplete, "previous claims must not be mutated")

	parsed, err := suite.service.Parse(ctx, token)
	suite.Require().NoError(err)
	suite.True(parsed.ProfileComplete)
}

func (suite *SessionServiceTestSuite) TestValidate_DoesNotReadStore() {
	ctx := context.Background()
	_, claims := suite.signIn()
	suite.Require().NoError(suite.repo.CompleteProfile(ctx, suite.user.UserID, "movie_buff", nil, time.Now()))

	_, validated, err := suite.service.IssueOrRefresh(ctx, domain.SessionEvent{
		Trigger:  domain.TriggerValidate,
		Previous: claims,
	})

	suite.Require().NoError(err)
	suite.False(validated.ProfileComplete)
}

func (suite *SessionServiceTestSuite) TestMissingRecordKeepsPreviousValues() {
	username := "gone"
	previous := &domain.SessionClaims{
		SubjectID:       "deleted",
		Email:           "deleted@example.com",
		ProfileComplete: true,
		Username:        &username,
		IssuedAt:        time.Now().Add(-time.Hour),
		ExpiresAt:       time.Now().Add(time.Hour),
	}

	_, claims, err := suite.service.IssueOrRefresh(context.Background(), domain.SessionEvent{
		Trigger:  domain.TriggerUpdate,
		Previous: previous,
	})

	suite.Require().NoError(err)
	suite.True(claims.ProfileComplete)
	suite.Equal("gone", *claims.Username)
}

func (suite *SessionServiceTestSuite) TestUpdate_ExpiredSessionIsRejected() {
	previous := &domain.SessionClaims{
		SubjectID: suite.user.UserID,
		Email:     suite.user.Email,
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, _, err := suite.service.IssueOrRefresh(context.Background(), domain.SessionEvent{
		Trigger:  domain.TriggerUpdate,
		Previous: previous,
	})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SessionServiceTestSuite) TestUpdate_WithoutPreviousIsRejected() {
	_, _, err := suite.service.IssueOrRefresh(context.Background(), domain.SessionEvent{Trigger: domain.TriggerUpdate})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *SessionServiceTestSuite) TestParse_RejectsBadTokens() {
	token, _ := suite.signIn()
	cfg := testConfig()

	foreign, err := utils.GenerateSessionJWT(domain.SessionClaims{
		SubjectID: suite.user.UserID,
		Email:     suite.user.Email,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, "another-secret", cfg.JWTIssuer)
	suite.Require().NoError(err)

	expired, err := utils.GenerateSessionJWT(domain.SessionClaims{
		SubjectID: suite.user.UserID,
		Email:     suite.user.Email,
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}, cfg.JWTSecret, cfg.JWTIssuer)
	suite.Require().NoError(err)

	for name, candidate := range map[string]string{
		"garbage":     "not-a-token",
		"tampered":    token + "x",
		"wrong key":   foreign,
		"expired":     expired,
		"empty token": "",
	} {
		suite.Run(name, func() {
			claims, err := suite.service.Parse(context.Background(), candidate)
			suite.Nil(claims)
			suite.ErrorIs(err, apperrors.ErrUnauthorized)
		})
	}

	_, err = suite.service.Parse(context.Background(), expired)
	suite.ErrorIs(err, jwt.ErrTokenExpired)
}

func (suite *SessionServiceTestSuite) TestProject() {
	_, claims := suite.signIn()

	view := suite.service.Project(claims)

	suite.Equal(suite.user.UserID, view.ID)
	suite.Equal("newuser@gmail.com", view.Email)
	suite.Equal("New User", view.Name)
	suite.False(view.ProfileComplete)
	suite.Nil(view.Username)
	suite.Equal(claims.ExpiresAt.UTC().Format(time.RFC3339), view.Expires)
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
