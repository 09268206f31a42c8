package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxRequestID = "requestID"

// RequestID tags every request with a correlation ID, reusing the caller's
// X-Request-ID when present. The ID is echoed back on the response so a
// browser session can be matched against upstream platform logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(ctxRequestID, id)
		c.Writer.Header().Set("X-Request-ID", id)

		c.Next()
	}
}

// CorrelationID returns the request's correlation ID, or "" before
// RequestID has run.
func CorrelationID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
