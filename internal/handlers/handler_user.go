package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/middleware"
)

// userHandler serves the signed-in user's stored record.
type userHandler struct {
	userService portssvc.UserReaderSvc
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserReaderSvc, requireSession gin.HandlerFunc) {
	h := &userHandler{userService: userService}
	rg.GET("/me", requireSession, h.getMe)
}

// getMe godoc
// @Summary Current user
// @Description Returns the stored record of the session's user. Unlike the session view it reflects onboarding immediately.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "User no longer exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), session.SubjectID)
	if err != nil {
		respondError(c, err, "Failed to load current user")
		return
	}
	c.JSON(http.StatusOK, dto.ToMeResponse(user))
}
