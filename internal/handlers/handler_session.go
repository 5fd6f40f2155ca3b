package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/middleware"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

// sessionWriter issues session tokens and keeps the session cookie in sync with them.
type sessionWriter struct {
	session    portssvc.SessionSvc
	cookieName string
	secure     bool
}

func newSessionWriter(session portssvc.SessionSvc, cfg *config.Config) *sessionWriter {
	return &sessionWriter{
		session:    session,
		cookieName: cfg.SessionCookieName,
		secure:     cfg.IsProduction,
	}
}

func (w *sessionWriter) setCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(w.cookieName, token, int(maxAge.Seconds()), "/", "", w.secure, true)
}

func (w *sessionWriter) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(w.cookieName, "", -1, "/", "", w.secure, true)
}

// signIn starts a fresh session for identity and sets the cookie.
func (w *sessionWriter) signIn(c *gin.Context, identity domain.Identity) (*dto.SessionResponse, error) {
	token, claims, err := w.session.IssueOrRefresh(c.Request.Context(), domain.SessionEvent{
		Trigger:  domain.TriggerSignIn,
		Identity: &identity,
	})
	if err != nil {
		return nil, err
	}
	w.setCookie(c, token, w.session.MaxAge())
	return &dto.SessionResponse{Token: token, Session: w.session.Project(claims)}, nil
}

// sessionHandler exposes the current session and forced refreshes.
type sessionHandler struct {
	writer *sessionWriter
}

func registerSessionRoutes(rg *gin.RouterGroup, writer *sessionWriter, requireSession gin.HandlerFunc) {
	h := &sessionHandler{writer: writer}

	session := rg.Group("/session", requireSession)
	{
		session.GET("", h.getSession)
		session.POST("/refresh", h.refreshSession)
	}
	rg.POST("/signout", h.signOut)
}

// getSession godoc
// @Summary Current session
// @Description Re-validates the presented session token without touching the store.
// @Tags auth
// @Produce json
// @Success 200 {object} domain.SessionView
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/session [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	claims, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return
	}

	_, validated, err := h.writer.session.IssueOrRefresh(c.Request.Context(), domain.SessionEvent{
		Trigger:  domain.TriggerValidate,
		Previous: claims,
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session has expired"})
		return
	}
	c.JSON(http.StatusOK, h.writer.session.Project(validated))
}

// refreshSession godoc
// @Summary Refresh session
// @Description Re-reads profile completion and username from the store and re-signs the token. The expiry is unchanged.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/session/refresh [post]
func (h *sessionHandler) refreshSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	claims, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return
	}

	token, updated, err := h.writer.session.IssueOrRefresh(c.Request.Context(), domain.SessionEvent{
		Trigger:  domain.TriggerUpdate,
		Previous: claims,
	})
	if err != nil {
		respondError(c, err, "Failed to refresh session")
		return
	}

	h.writer.setCookie(c, token, utils.SessionLifetimeLeft(updated, time.Now()))
	logger.Info("Session refreshed", slog.Bool("profile_complete", updated.ProfileComplete))
	c.JSON(http.StatusOK, dto.SessionResponse{Token: token, Session: h.writer.session.Project(updated)})
}

// signOut godoc
// @Summary Sign out
// @Description Clears the session cookie. Bearer tokens stay valid until they expire.
// @Tags auth
// @Success 204
// @Router /auth/signout [post]
func (h *sessionHandler) signOut(c *gin.Context) {
	h.writer.clearCookie(c)
	c.Status(http.StatusNoContent)
}
