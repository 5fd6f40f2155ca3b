package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/middleware"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

const msgInvalidCredentials = "Invalid credentials"

// authHandler handles local sign-up, credential sign-in and profile completion.
type authHandler struct {
	registration portssvc.RegistrationSvc
	onboarding   portssvc.OnboardingSvc
	credentials  portssvc.CredentialSvc
	writer       *sessionWriter
	posthog      *utils.PosthogClientWrapper
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, writer *sessionWriter, deps routeDeps) {
	h := &authHandler{
		registration: services.Registration,
		onboarding:   services.Onboarding,
		credentials:  services.Credentials,
		writer:       writer,
		posthog:      deps.posthog,
	}

	rg.POST("/signup", deps.signInLimit, h.signup)
	rg.POST("/signin/credentials", deps.signInLimit, h.signInWithCredentials)
	rg.POST("/complete-profile", deps.requireSession, h.completeProfile)
}

// signup godoc
// @Summary Register new user
// @Description Creates a complete local account and sends a welcome notification.
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Sign-up details"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} ErrorResponse "A field is missing or malformed"
// @Failure 409 {object} ErrorResponse "Username or email already taken"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *authHandler) signup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for signup request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, notification, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Signup failed")
		return
	}

	logger.Info("User signed up", slog.String("user_id", user.UserID), slog.Bool("notification_sent", notification.Sent))
	middleware.PosthogEvent(c, h.posthog, user.UserID, "user_signed_up", map[string]any{"provider": string(user.AuthProvider)})
	c.JSON(http.StatusCreated, dto.SignupResponse{
		Success: true,
		Message: "User created successfully",
		User:    dto.ToUserResponse(user),
	})
}

// signInWithCredentials godoc
// @Summary Sign in with email or username and password
// @Description Verifies a local credential and starts a session. Every credential failure yields the same message.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.CredentialsSignInRequest true "Credentials"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signin/credentials [post]
func (h *authHandler) signInWithCredentials(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CredentialsSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for credential sign-in", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	identity, err := h.credentials.VerifyCredentials(c.Request.Context(), req.EmailOrUsername, req.Secret)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) ||
			errors.Is(err, apperrors.ErrNoLocalCredential) ||
			errors.Is(err, apperrors.ErrInvalidCredential) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msgInvalidCredentials})
			return
		}
		respondError(c, err, "Credential sign-in failed")
		return
	}

	resp, err := h.writer.signIn(c, *identity)
	if err != nil {
		respondError(c, err, "Failed to issue session")
		return
	}

	middleware.PosthogEvent(c, h.posthog, identity.ID, "user_signed_in", map[string]any{"method": "credentials"})
	c.JSON(http.StatusOK, resp)
}

// completeProfile godoc
// @Summary Complete profile
// @Description One-time onboarding for accounts created through an identity provider: choose a username and optionally a password.
// @Description The returned intent suppresses one gate redirect until the session is refreshed.
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body dto.CompleteProfileRequest true "Profile details"
// @Success 200 {object} dto.CompleteProfileResponse
// @Failure 400 {object} ErrorResponse "Malformed field or profile already completed"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/complete-profile [post]
func (h *authHandler) completeProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for complete profile request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	session, _ := middleware.GetSessionFromContext(c)
	result, err := h.onboarding.CompleteProfile(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err, "Profile completion failed")
		return
	}

	resp := dto.CompleteProfileResponse{
		Success:          true,
		Message:          "Profile completed successfully",
		User:             dto.ToUserResponse(result.User),
		NotificationSent: result.Notification.Sent,
	}
	if result.Intent != nil {
		resp.Intent = result.Intent.ID
	}

	middleware.PosthogEvent(c, h.posthog, result.User.UserID, "profile_completed", map[string]any{"password_set": req.HasSecret()})
	c.JSON(http.StatusOK, resp)
}
