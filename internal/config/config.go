package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Server
	Port        string
	FrontendURL string

	// Redis (optional; empty disables the cross-instance event relay)
	RedisURL string

	// Cylinder defaults
	CylinderPressurePSI float64
	CylinderBore        float64

	// Surface sampling
	SurfaceSamples int
	GraphSamples   int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		RedisURL: getEnv("REDIS_URL", ""),

		CylinderPressurePSI: getEnvFloat("CYLINDER_PRESSURE_PSI", 100.0),
		CylinderBore:        getEnvFloat("CYLINDER_BORE", 2.0),

		SurfaceSamples: getEnvInt("SURFACE_SAMPLES", 10),
		GraphSamples:   getEnvInt("GRAPH_SAMPLES", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
