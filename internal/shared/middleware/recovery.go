package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ams-gateway/internal/shared/response"
)

// Recovery turns a handler panic into the standard error envelope. The
// stack is logged with the correlation ID; the caller only sees a generic
// message.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", CorrelationID(c)).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError,
					"INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
