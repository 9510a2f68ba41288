package middleware

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/services"
	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per caller in Redis under scope. Callers are
// identified by user id when authenticated and by client IP otherwise. A
// Redis outage lets requests through.
func RateLimiter(limiter services.RateLimiterInterface, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, rateLimitIdentifier(c))

		res, err := limiter.CheckLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			c.Header("X-RateLimit-Remaining", "0")
			_ = c.Error(errors.RateLimitExceeded("Too many requests. Please try again later.", retryAfter))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Next()
	}
}

// WriteOnly applies mw to mutating requests and skips reads.
func WriteOnly(mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
		default:
			mw(c)
		}
	}
}

func rateLimitIdentifier(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return "ip:" + getClientIP(c)
}

// getClientIP prefers proxy headers and falls back to the connection address.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
