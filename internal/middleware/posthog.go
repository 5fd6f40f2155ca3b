package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/trakmymedia/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Anonymous requests are not tracked here; handlers send their own events for sign-ups.
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/auth/complete-profile" -> "auth_complete-profile"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		posthogClient.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}

// PosthogEvent sends a custom event from a handler. distinctID overrides the session user,
// which lets handlers attribute events for requests that carry no session yet.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, distinctID string, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() {
		return
	}

	if distinctID == "" {
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}
		distinctID = userID
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["path"] = c.Request.URL.Path

	posthogClient.Enqueue(distinctID, eventName, properties)
}
