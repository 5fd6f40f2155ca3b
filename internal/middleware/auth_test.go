package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/middleware"
)

const testCookie = "tmm_session"

type fakeParser map[string]*domain.SessionClaims

func (f fakeParser) Parse(_ context.Context, token string) (*domain.SessionClaims, error) {
	if token == "expired" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, jwt.ErrTokenExpired)
	}
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, apperrors.ErrUnauthorized
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	parser := fakeParser{"good": {SubjectID: "u1", Email: "u1@example.com"}}
	router := newAuthRouter(middleware.AuthMiddleware(parser, testCookie))

	testCases := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{name: "bearer", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "cookie", cookie: "good", wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "no token", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Not authenticated"}`},
		{name: "malformed header", header: "Token good", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Not authenticated"}`},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Not authenticated"}`},
		{name: "expired token", header: "Bearer expired", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Session has expired"}`},
		{name: "header wins over cookie", header: "Bearer bad", cookie: "good", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Not authenticated"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	parser := fakeParser{"good": {SubjectID: "u1", Email: "u1@example.com"}}
	router := newAuthRouter(middleware.OptionalAuthMiddleware(parser, testCookie))

	for token, want := range map[string]string{"good": "u1", "bad": "anonymous", "": "anonymous"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Body.String(), "token %q", token)
	}
}

func TestSessionReachesRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	parser := fakeParser{"good": {SubjectID: "u1", Email: "u1@example.com"}}
	r := gin.New()
	var fromCtx *domain.SessionClaims
	r.GET("/me", middleware.AuthMiddleware(parser, testCookie), func(c *gin.Context) {
		// a fresh gin context over the same request sees the claims through the request context only
		scratch, _ := gin.CreateTestContext(httptest.NewRecorder())
		scratch.Request = c.Request
		fromCtx, _ = middleware.GetSessionFromContext(scratch)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	assert.Equal(t, "u1", fromCtx.SubjectID)
}
