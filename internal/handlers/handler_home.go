package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/dto"
	"github.com/SscSPs/trakmymedia/internal/middleware"
)

// mediaCategories are the shells the frontend renders until tracking lands.
var mediaCategories = []dto.CategoryResponse{
	{Slug: "movies", Name: "Movies", Path: "/movies"},
	{Slug: "tv", Name: "TV Shows", Path: "/tv"},
	{Slug: "books", Name: "Books", Path: "/books"},
	{Slug: "games", Name: "Games", Path: "/games"},
}

func registerHealthRoutes(r *gin.Engine, userSvc portssvc.UserReaderSvc) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/health/db", func(c *gin.Context) {
		getDBHealth(c, userSvc)
	})
}

// getDBHealth godoc
// @Summary Store connectivity
// @Description Counts users to prove the store answers.
// @Tags root
// @Produce json
// @Success 200 {object} dto.HealthDBResponse
// @Failure 503 {object} ErrorResponse
// @Router /health/db [get]
func getDBHealth(c *gin.Context, userSvc portssvc.UserReaderSvc) {
	count, err := userSvc.CountUsers(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Database health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, dto.HealthDBResponse{Success: true, Users: count})
}

// listCategories godoc
// @Summary List media categories
// @Description Placeholder category listing for signed-in users.
// @Tags media
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/categories [get]
func listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, mediaCategories)
}

func registerCategoryRoutes(group *gin.RouterGroup) {
	group.GET("/categories", listCategories)
}
