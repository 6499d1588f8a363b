package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"country-currency-api/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// Load từ .env file (development/local)
	// Production sẽ dùng system environment variables
	envErr := godotenv.Load()

	env := getEnv("APP_ENV", "development")
	logger.Init(env)

	if envErr != nil {
		log.Warn().Msg("⚠️  No .env file found, using system environment variables")
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("environment", env).Msg("🌍 Environment")

	// Delegate toàn bộ logic sang Serve()
	Serve()
}

// getEnv lấy environment variable với fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
