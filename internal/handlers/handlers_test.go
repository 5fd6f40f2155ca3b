package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/core/services"
	"github.com/SscSPs/trakmymedia/internal/handlers"
	"github.com/SscSPs/trakmymedia/internal/middleware"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
	"github.com/SscSPs/trakmymedia/internal/repositories/cache"
	"github.com/SscSPs/trakmymedia/internal/repositories/memory"
)

// --- Fake Google provider ---
type fakeProvider struct {
	configured bool
	pid        *domain.ProviderIdentity
	err        error
}

func (f *fakeProvider) Name() domain.AuthProvider { return domain.ProviderGoogle }
func (f *fakeProvider) Configured() bool          { return f.configured }
func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}
func (f *fakeProvider) Exchange(_ context.Context, _ string) (*domain.ProviderIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	pid := *f.pid
	return &pid, nil
}

var _ portssvc.IdentityProvider = (*fakeProvider)(nil)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.WelcomeNotification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.WelcomeNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

// handlerSuite wires the real services over in-memory stores.
type handlerSuite struct {
	suite.Suite
	router   *gin.Engine
	cfg      *config.Config
	repo     *memory.UserRepository
	notifier *recordingNotifier
	provider *fakeProvider
}

func (suite *handlerSuite) setupRouter(opts handlers.RouteOptions) {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:           "test-secret-key-that-is-long-enough",
		JWTIssuer:           "trakmymedia",
		SessionMaxAge:       720 * time.Hour,
		SessionCookieName:   "tmm_session",
		IntentTTL:           time.Minute,
		FrontendBaseURL:     "http://localhost:3000",
		Notifier:            config.NotifierLog,
		NotificationTimeout: time.Second,
	}
	suite.repo = memory.NewUserRepository()
	suite.notifier = &recordingNotifier{}
	suite.provider = &fakeProvider{
		configured: true,
		pid: &domain.ProviderIdentity{
			Provider:       domain.ProviderGoogle,
			ProviderUserID: "google-sub-1",
			Email:          "newuser@gmail.com",
			EmailVerified:  true,
			Name:           "New User",
		},
	}

	repos := portsrepo.RepositoryProvider{UserRepo: suite.repo, IntentStore: cache.NewMemoryIntentStore()}
	container := services.NewServiceContainer(suite.cfg, repos, suite.notifier, nil)
	container.GoogleOAuth = suite.provider

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, suite.cfg, container, opts)
}

func (suite *handlerSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *handlerSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *handlerSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	suite.decode(w, &resp)
	return resp.Error
}

func (suite *handlerSuite) sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == suite.cfg.SessionCookieName {
			return c
		}
	}
	return nil
}
