package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devtrailhq/devtrail/internal/pkg/logger"
)

// Paths too noisy to log on every scrape.
var skipPaths = map[string]bool{
	"/health": true,
}

// Logger emits one structured event per request with method, path, status,
// latency and the acting user when one is attached.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}

		raw := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		event := logger.L.Info()
		if status >= 500 {
			event = logger.L.Error()
		} else if status >= 400 {
			event = logger.L.Warn()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP())

		if raw != "" {
			event = event.Str("query", raw)
		}
		if userID := c.GetString("userID"); userID != "" {
			event = event.Str("userId", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.Msg("request")
	}
}
