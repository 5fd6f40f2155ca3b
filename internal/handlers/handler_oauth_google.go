package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/middleware"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

const (
	oauthStateCookie = "tmm_oauth_state"
	oauthStateMaxAge = 600
)

// googleOAuthHandler handles Google sign-in, both the redirect flow and the
// code exchange used by the SPA.
type googleOAuthHandler struct {
	provider    portssvc.IdentityProvider
	bridge      portssvc.IdentityBridgeSvc
	writer      *sessionWriter
	frontendURL string
	secure      bool
	posthog     *utils.PosthogClientWrapper
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, writer *sessionWriter, frontendURL string, deps routeDeps) {
	h := &googleOAuthHandler{
		provider:    services.GoogleOAuth,
		bridge:      services.IdentityBridge,
		writer:      writer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		secure:      writer.secure,
		posthog:     deps.posthog,
	}

	rg.GET("/signin/google", h.signIn)
	rg.GET("/callback/google", h.callback)
	rg.POST("/google/exchange-code", h.exchangeCode)
}

// signIn godoc
// @Summary Start Google sign-in
// @Description Redirects to Google's consent screen.
// @Tags oauth
// @Success 302
// @Failure 503 {object} ErrorResponse "Google sign-in is not configured"
// @Router /auth/signin/google [get]
func (h *googleOAuthHandler) signIn(c *gin.Context) {
	if !h.provider.Configured() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}

	state, err := utils.NewOpaqueToken(16)
	if err != nil {
		respondError(c, err, "Failed to generate OAuth state")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// callback godoc
// @Summary Google OAuth callback
// @Description Completes the redirect flow, sets the session cookie and sends the browser back to the frontend.
// @Tags oauth
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/callback/google [get]
func (h *googleOAuthHandler) callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expected, _ := c.Cookie(oauthStateCookie)
	state := c.Query("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secure, true)

	if errMsg := c.Query("error"); errMsg != "" {
		logger.Warn("Google returned an authorization error", slog.String("error", errMsg))
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error="+url.QueryEscape(errMsg))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	if _, ok := h.completeSignIn(c, code); !ok {
		return
	}
	c.Redirect(http.StatusFound, h.frontendURL+"/")
}

// exchangeCode godoc
// @Summary Exchange authorization code for a session
// @Description Exchanges a Google authorization code obtained by the frontend, provisions the user on first sign-in and returns a session token.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	resp, ok := h.completeSignIn(c, req.Code)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// completeSignIn runs exchange, identity bridging and session issue. On failure it has
// already written the response.
func (h *googleOAuthHandler) completeSignIn(c *gin.Context, code string) (*dto.SessionResponse, bool) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	pid, err := h.provider.Exchange(ctx, code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google sign-in failed"})
		case errors.Is(err, apperrors.ErrProviderUnavailable):
			appErr := apperrors.NewGatewayError("Failed to communicate with Google")
			c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		default:
			respondError(c, err, "Google sign-in failed")
		}
		return nil, false
	}

	user, err := h.bridge.ResolveIdentity(ctx, *pid)
	if err != nil {
		respondError(c, err, "Failed to resolve Google identity")
		return nil, false
	}

	resp, err := h.writer.signIn(c, user.ToIdentity())
	if err != nil {
		respondError(c, err, "Failed to issue session")
		return nil, false
	}

	logger.Info("User signed in with Google", slog.String("user_id", user.UserID), slog.Bool("profile_complete", resp.Session.ProfileComplete))
	middleware.PosthogEvent(c, h.posthog, user.UserID, "user_signed_in", map[string]any{"method": string(pid.Provider)})
	return resp, true
}
