package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"innoshop/internal/config"
	"innoshop/internal/database"
	"innoshop/internal/metrics"
	"innoshop/internal/middleware"
	"innoshop/internal/token"
	"innoshop/internal/user/handler"
)

// SetupUserRoutes assembles the User service router: middleware chain,
// health and metrics endpoints, then the /api groups.
func SetupUserRoutes(
	cfg *config.Config,
	db *database.Database,
	tokens *token.Service,
	userHandler *handler.UserHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	router.Use(metrics.Middleware("userservice"))

	router.GET("/health", healthHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		userHandler.RegisterAuthRoutes(api)
		userHandler.RegisterInternalRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		userHandler.RegisterProtectedRoutes(protected)

		admin := api.Group("")
		admin.Use(middleware.AuthMiddleware(tokens), middleware.AdminOnly())
		userHandler.RegisterAdminRoutes(admin)
	}

	return router
}

func healthHandler(db *database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
