package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/trakmymedia/internal/core/gate"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/middleware"
)

type gateHandler struct {
	gate portssvc.GateSvc
}

func registerGateRoutes(rg *gin.RouterGroup, gateSvc portssvc.GateSvc, optionalSession gin.HandlerFunc) {
	h := &gateHandler{gate: gateSvc}
	rg.POST("/gate", optionalSession, h.evaluate)
}

// evaluate godoc
// @Summary Evaluate the profile completion gate
// @Description Tells the client whether the current route must redirect to onboarding.
// @Description A one-time intent from the complete-profile response suppresses exactly one redirect.
// @Tags auth
// @Accept json
// @Produce json
// @Param gate body dto.GateRequest true "Route being entered"
// @Success 200 {object} dto.GateResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/gate [post]
func (h *gateHandler) evaluate(c *gin.Context) {
	var req dto.GateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Route is required"})
		return
	}

	session, _ := middleware.GetSessionFromContext(c)
	decision, err := h.gate.Evaluate(c.Request.Context(), session, req.Route, req.Intent)
	if err != nil {
		respondError(c, err, "Gate evaluation failed")
		return
	}

	if decision.Action == gate.ActionRedirect {
		middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Gate redirect to onboarding", slog.String("route", req.Route))
	}
	c.JSON(http.StatusOK, dto.GateResponse{
		State:      string(decision.State),
		Action:     string(decision.Action),
		Location:   decision.Location,
		ShowNavbar: gate.NavbarVisible(req.Route),
	})
}
