package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/trakmymedia/cmd/docs"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/middleware"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

// RouteOptions carries the optional infrastructure the routes are wired with.
// Zero values disable the feature.
type RouteOptions struct {
	SignInLimiter *limiter.Limiter
	Posthog       *utils.PosthogClientWrapper
	Gatherer      prometheus.Gatherer
}

// routeDeps is the middleware shared by the route registrations.
type routeDeps struct {
	requireSession  gin.HandlerFunc
	optionalSession gin.HandlerFunc
	signInLimit     gin.HandlerFunc
	posthog         *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouteOptions,
) {
	deps := routeDeps{
		requireSession:  middleware.AuthMiddleware(services.Session, cfg.SessionCookieName),
		optionalSession: middleware.OptionalAuthMiddleware(services.Session, cfg.SessionCookieName),
		signInLimit:     func(c *gin.Context) { c.Next() },
		posthog:         opts.Posthog,
	}
	if opts.SignInLimiter != nil {
		deps.signInLimit = middleware.RateLimit(opts.SignInLimiter)
	}

	registerHealthRoutes(r, services.User)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}

	writer := newSessionWriter(services.Session, cfg)
	auth := r.Group("/auth")
	registerAuthRoutes(auth, services, writer, deps)
	registerGoogleOAuthRoutes(auth, services, writer, cfg.FrontendBaseURL, deps)
	registerSessionRoutes(auth, writer, deps.requireSession)
	registerUserRoutes(auth, services.User, deps.requireSession)
	registerGateRoutes(auth, services.Gate, deps.optionalSession)

	setupAPIV1Routes(r, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group; every route in it requires a session.
func setupAPIV1Routes(r *gin.Engine, deps routeDeps) {
	v1 := r.Group("/api/v1", deps.requireSession, middleware.PosthogMiddleware(deps.posthog))
	registerCategoryRoutes(v1)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
