package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"country-currency-api/internal/shared/response"
)

// RateLimit giới hạn route bằng một token bucket dùng chung.
// perMinute <= 0 tắt giới hạn.
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)

	return func(c *gin.Context) {
		res := limiter.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()

			retryAfter := int(math.Ceil(delay.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.Request.URL.Path).
				Int("retry_after_s", retryAfter).
				Msg("Rate limit exceeded")

			response.Abort(c, http.StatusTooManyRequests, "Too many requests", "Refresh is rate limited, retry later")
			return
		}
		c.Next()
	}
}
