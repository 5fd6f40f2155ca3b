package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// SessionParser validates a signed session token.
type SessionParser interface {
	Parse(ctx context.Context, token string) (*domain.SessionClaims, error)
}

var errNoSessionToken = errors.New("no session token presented")

// extractSessionToken reads the token from the Authorization header, falling back to the session cookie.
func extractSessionToken(c *gin.Context, cookieName string) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			return "", errors.New("authorization header format must be Bearer {token}")
		}
		return parts[1], nil
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			return cookie, nil
		}
	}
	return "", errNoSessionToken
}

// attachSession parses the presented token and, if valid, stores the claims and an
// enriched logger in the request context.
func attachSession(c *gin.Context, parser SessionParser, cookieName string) error {
	logger := GetLoggerFromCtx(c.Request.Context())

	tokenString, err := extractSessionToken(c, cookieName)
	if err != nil {
		return err
	}

	claims, err := parser.Parse(c.Request.Context(), tokenString)
	if err != nil {
		logger.Warn("Invalid session token", slog.String("error", err.Error()))
		return err
	}

	enrichedLogger := logger.With(slog.String("user_id", claims.SubjectID))
	ctx := WithLogger(WithSession(c.Request.Context(), claims), enrichedLogger)
	c.Request = c.Request.WithContext(ctx)
	c.Set(string(sessionKey), claims)
	c.Set(string(loggerKey), enrichedLogger)
	return nil
}

// AuthMiddleware creates a Gin middleware handler that requires a valid session token.
func AuthMiddleware(parser SessionParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := attachSession(c, parser, cookieName); err != nil {
			msg := "Not authenticated"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Session has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when a valid token is presented and
// otherwise lets the request through unauthenticated.
func OptionalAuthMiddleware(parser SessionParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = attachSession(c, parser, cookieName)
		c.Next()
	}
}
