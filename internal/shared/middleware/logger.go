package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logger emits one structured event per request, carrying the correlation
// ID and, once auth has run, the caller. Query strings are logged because
// the listing endpoints put their filters there.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		if user := UserID(c); user != "" {
			event = event.Str("user_id", user)
		}
		if query != "" {
			event = event.Str("query", query)
		}
		event.
			Str("request_id", CorrelationID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency_ms", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request handled")
	}
}
