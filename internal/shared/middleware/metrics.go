package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"country-currency-api/internal/infrastructure/metrics"
)

// Metrics ghi request count/latency theo route pattern (c.FullPath)
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		metrics.ObserveHTTP(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
