package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/core/gate"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) FindUserByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, identifier))
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveUserIfEmailAbsent(ctx context.Context, user domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CompleteProfile(ctx context.Context, userID string, username string, passwordHash *string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, username, passwordHash, updatedAt)
	return args.Error(0)
}

// --- Mock GateSvc ---
type MockGateService struct {
	mock.Mock
}

func (m *MockGateService) IssueIntent(ctx context.Context, userID string) (*domain.NavigationIntent, error) {
	args := m.Called(ctx, userID)
	var intent *domain.NavigationIntent
	if args.Get(0) != nil {
		intent = args.Get(0).(*domain.NavigationIntent)
	}
	return intent, args.Error(1)
}

func (m *MockGateService) Evaluate(ctx context.Context, session *domain.SessionClaims, route string, intentID string) (gate.Decision, error) {
	args := m.Called(ctx, session, route, intentID)
	return args.Get(0).(gate.Decision), args.Error(1)
}

// recordingNotifier is a Notifier that remembers what it was asked to send.
type recordingNotifier struct {
	mu     sync.Mutex
	sent   []domain.WelcomeNotification
	err    error
	ctxErr error
}

func (r *recordingNotifier) Notify(ctx context.Context, n domain.WelcomeNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErr = ctx.Err()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:           "test-secret",
		JWTIssuer:           "trakmymedia",
		SessionMaxAge:       720 * time.Hour,
		SessionCookieName:   "tmm_session",
		IntentTTL:           2 * time.Minute,
		Notifier:            config.NotifierLog,
		NotificationTimeout: time.Second,
	}
}

func strPtr(s string) *string { return &s }
