package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"country-currency-api/internal/infrastructure/metrics"
	"country-currency-api/internal/shared/middleware"
	"country-currency-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Metrics(),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	c.CountryHandler.RegisterRoutes(router,
		middleware.RateLimit(c.Config.RateLimit.RefreshPerMinute, c.Config.RateLimit.RefreshBurst),
	)

	return router
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		switch {
		case appCtx.DB == nil:
			dbStatus = "disabled"
		default:
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.HealthCheck(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" && dbStatus != "disabled" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
