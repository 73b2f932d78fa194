package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/config"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/plagiarism"
)

func SetupRoutes(cfg *config.Config, service *plagiarism.Service) *gin.Engine {
	router := gin.Default()

	// Create handler
	handler := NewHandler(cfg, service)

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	// Middleware
	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/check-text", handler.CheckText)
		api.POST("/check-file", handler.CheckFile)
		api.POST("/index-text", handler.IndexText)
		api.POST("/index-file", handler.IndexFile)
		api.GET("/docs", handler.ListDocs)
		api.POST("/clear", handler.Clear)
	}

	return router
}
