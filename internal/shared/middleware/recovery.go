package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"country-currency-api/internal/shared/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				response.Abort(c, http.StatusInternalServerError, "Internal server error", nil)
			}
		}()

		c.Next()
	}
}
