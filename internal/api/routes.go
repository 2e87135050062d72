package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/rlflinkage/backend/internal/api/handlers"
	"github.com/rlflinkage/backend/internal/config"
	"github.com/rlflinkage/backend/internal/linkage"
	"github.com/rlflinkage/backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, analyzer *linkage.Analyzer, cfg *config.Config) {
	// CORS for the frontend
	router.Use(middleware.CORSMiddleware(cfg))

	// No-cache middleware for development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// Health check at the root for load balancers and the frontend probe
	router.GET("/", handlers.HealthCheck)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// One-shot force analysis
		v1.POST("/calculate", handlers.Calculate(analyzer))

		// Real-time analysis channel
		v1.GET("/ws", handlers.HandleAnalysisWebSocket())
	}
}
