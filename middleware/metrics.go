package middleware

import (
	"time"

	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records count and latency per route template, so
// /v1/trips/1 and /v1/trips/2 share a series.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
