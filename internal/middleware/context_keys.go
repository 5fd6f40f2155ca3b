package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// sessionKey is the key used to store the caller's session claims.
const sessionKey = contextKey("session")

// WithSession returns a copy of ctx carrying the session claims.
func WithSession(ctx context.Context, claims *domain.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionKey, claims)
}

// GetSessionFromContext retrieves the caller's session claims, if a valid session was presented.
func GetSessionFromContext(c *gin.Context) (*domain.SessionClaims, bool) {
	if val, exists := c.Get(string(sessionKey)); exists {
		claims, ok := val.(*domain.SessionClaims)
		return claims, ok && claims != nil
	}
	// check in the request context as well
	claims, ok := c.Request.Context().Value(sessionKey).(*domain.SessionClaims)
	return claims, ok && claims != nil
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	claims, ok := GetSessionFromContext(c)
	if !ok {
		return "", false
	}
	return claims.SubjectID, true
}
