package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rlflinkage/backend/internal/api"
	"github.com/rlflinkage/backend/internal/config"
	"github.com/rlflinkage/backend/internal/linkage"
	"github.com/rlflinkage/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Build the analyzer from the configured cylinder parameters
	analyzer := linkage.NewAnalyzer(
		linkage.ForceParameters{Pressure: cfg.CylinderPressurePSI, Bore: cfg.CylinderBore},
		cfg.SurfaceSamples,
		cfg.GraphSamples,
	)

	// Start the websocket hub
	ws.Start(analyzer)

	// Wire Redis and start the cross-instance event relay (optional)
	if cfg.RedisURL != "" {
		rdb, err := ws.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		ws.SetRedisClient(rdb, cfg)
		ws.StartEventSubscriber(context.Background())
		log.Printf("[REDIS] event relay enabled (url=%s)", cfg.RedisURL)
	} else {
		log.Println("[REDIS] REDIS_URL not set - running single-instance")
	}

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, analyzer, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting linkage analysis server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
