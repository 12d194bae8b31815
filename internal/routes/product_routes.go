package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"innoshop/internal/config"
	"innoshop/internal/database"
	"innoshop/internal/metrics"
	"innoshop/internal/middleware"
	"innoshop/internal/product/handler"
	"innoshop/internal/token"
)

// SetupProductRoutes assembles the Product service router. Reads are public,
// mutations sit behind the auth middleware, and the user-status sync
// endpoint is registered unauthenticated for the sibling service.
func SetupProductRoutes(
	cfg *config.Config,
	db *database.Database,
	tokens *token.Service,
	productHandler *handler.ProductHandler,
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
	router.Use(metrics.Middleware("productservice"))

	router.GET("/health", healthHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		productHandler.RegisterPublicRoutes(api)
		productHandler.RegisterInternalRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		productHandler.RegisterProtectedRoutes(protected)
	}

	return router
}
