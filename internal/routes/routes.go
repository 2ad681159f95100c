package routes

import (
	"store_rating_backend/internal/handlers"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует HTTP API под /api, а /health и /metrics в корне.
// authLimiter ограничивает попытки входа и регистрации.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authn *middleware.Authenticator,
	authLimiter ratelimit.Limiter,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := ginRouter.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimit(authLimiter))
		appHandlers.AuthHandler.RegisterRoutes(authGroup)

		appHandlers.StoreHandler.RegisterRoutes(api, authn)
		appHandlers.RatingHandler.RegisterRoutes(api, authn)
		appHandlers.UserHandler.RegisterRoutes(api, authn)
		appHandlers.AdminHandler.RegisterRoutes(api, authn)
	}

	ginRouter.NoRoute(middleware.NotFoundHandler())
	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
