package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devtrailhq/devtrail/internal/pkg/response"
)

// Middleware limits requests per client IP using the given limiter.
func Middleware(limiter *Limiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed := limiter.Allow(key)
		remaining := limiter.Remaining(key)
		resetTime := limiter.ResetTime(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())+1))
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
