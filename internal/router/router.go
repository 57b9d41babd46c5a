package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/swagger"
	swaggerFiles "github.com/swaggo/files"

	"github.com/PeronGH/SydneyWeb/internal/config"
	"github.com/PeronGH/SydneyWeb/internal/handler"
	"github.com/PeronGH/SydneyWeb/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	cfg *config.Config,
	chatHandler *handler.ChatHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Swagger API documentation
	// Access at: http://localhost:8080/swagger/index.html
	h.GET("/swagger/*any", swagger.WrapHandler(swaggerFiles.Handler))

	// Health check routes
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	chat := h.Group("")
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		chat.Use(limiter.Middleware())
	}
	chat.POST("/chat", chatHandler.Chat)
}
